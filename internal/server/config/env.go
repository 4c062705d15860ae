package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix namespaces every environment variable the server reads.
const EnvPrefix = "LINKGATE_"

// loadDotEnv loads path into the process environment. Variables that are
// already set win; a missing file is fine.
func loadDotEnv(path string) {
	_ = godotenv.Load(path)
}

type lookupFunc func(string) (string, bool)

// parseEnv overlays LINKGATE_* variables onto config.
func parseEnv(config *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	str("HTTP_ADDR", &config.HTTPAddr)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("SECRET_KEY", &config.SecretKey)
	str("LOG_LEVEL", &config.LogLevel)
	str("LOG_FILE", &config.LogFile)
	str("BLOB_BACKEND", &config.BlobBackend)
	str("DRIVE_CREDENTIALS_FILE", &config.DriveCredentialsFile)
	str("DRIVE_CREDENTIALS_JSON", &config.DriveCredentialsJSON)
	str("DRIVE_FOLDER_ID", &config.DriveFolderID)
	str("S3_ROOT_USER", &config.S3RootUser)
	str("S3_ROOT_PASSWORD", &config.S3RootPassword)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)

	if v, ok := lookup(EnvPrefix + "SESSION_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sSESSION_TTL: %w", EnvPrefix, err)
		}
		config.SessionTTL = d
	}
	if v, ok := lookup(EnvPrefix + "COOKIE_SECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sCOOKIE_SECURE: %w", EnvPrefix, err)
		}
		config.CookieSecure = b
	}
	if v, ok := lookup(EnvPrefix + "MAX_UPLOAD_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sMAX_UPLOAD_BYTES: %w", EnvPrefix, err)
		}
		config.MaxUploadBytes = n
	}
	return nil
}
