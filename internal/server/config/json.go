package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/linkgate/internal/flagx"
	"github.com/dmitrijs2005/linkgate/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations may
// be written as strings ("12h") or integer nanoseconds. Absent keys leave
// the current value alone, hence the pointers for non-string fields.
type JsonConfig struct {
	HTTPAddr             string          `json:"http_addr"`
	DatabaseDSN          string          `json:"database_dsn"`
	SecretKey            string          `json:"secret_key"`
	SessionTTL           *timex.Duration `json:"session_ttl"`
	CookieSecure         *bool           `json:"cookie_secure"`
	LogLevel             string          `json:"log_level"`
	LogFile              string          `json:"log_file"`
	MaxUploadBytes       *int64          `json:"max_upload_bytes"`
	BlobBackend          string          `json:"blob_backend"`
	DriveCredentialsFile string          `json:"drive_credentials_file"`
	DriveCredentialsJSON string          `json:"drive_credentials_json"`
	DriveFolderID        string          `json:"drive_folder_id"`
	S3RootUser           string          `json:"s3_root_user"`
	S3RootPassword       string          `json:"s3_root_password"`
	S3Bucket             string          `json:"s3_bucket"`
	S3Region             string          `json:"s3_region"`
	S3BaseEndpoint       string          `json:"s3_base_endpoint"`
}

// parseJson loads the file named by -c/-config into config. Without the flag
// nothing happens. An unreadable or invalid file panics.
func parseJson(config *Config) {
	path := flagx.ConfigFilePath(os.Args[1:])
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&config.HTTPAddr, c.HTTPAddr)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.SecretKey, c.SecretKey)
	set(&config.LogLevel, c.LogLevel)
	set(&config.LogFile, c.LogFile)
	set(&config.BlobBackend, c.BlobBackend)
	set(&config.DriveCredentialsFile, c.DriveCredentialsFile)
	set(&config.DriveCredentialsJSON, c.DriveCredentialsJSON)
	set(&config.DriveFolderID, c.DriveFolderID)
	set(&config.S3RootUser, c.S3RootUser)
	set(&config.S3RootPassword, c.S3RootPassword)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.SessionTTL != nil {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	if c.MaxUploadBytes != nil {
		config.MaxUploadBytes = *c.MaxUploadBytes
	}
}
