package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/linkgate/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":8080")
//	-d string     PostgreSQL DSN
//	-s string     session token HMAC secret key
//	-t duration   session lifetime (e.g., "168h")
//	-l string     log level
//	-k string     blob backend ("gdrive" or "s3")
//	-u string     S3 root user
//	-p string     S3 root password
//	-b string     S3 bucket name
//	-g string     S3 region
//	-e string     S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-f string     Google Drive service account credentials file
//	-o string     Google Drive folder id
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, so -c/-config and foreign flags do not trip the parser.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-l", "-k", "-u", "-p", "-b", "-g", "-e", "-f", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.SessionTTL, "t", config.SessionTTL, "session lifetime")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.BlobBackend, "k", config.BlobBackend, "blob backend (gdrive|s3)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.StringVar(&config.DriveCredentialsFile, "f", config.DriveCredentialsFile, "Google Drive credentials file")
	fs.StringVar(&config.DriveFolderID, "o", config.DriveFolderID, "Google Drive folder id")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
