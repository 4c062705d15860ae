// Package blob stores the bytes of files gated behind locked links. Metadata
// lives in the database; only the opaque blob id crosses this boundary.
package blob

import (
	"context"
	"fmt"
	"io"
)

// Store is implemented by every blob backend.
type Store interface {
	// Put stores size bytes from r and returns the backend id of the blob.
	Put(ctx context.Context, name, mimeType string, size int64, r io.Reader) (string, error)
	// DownloadURL returns a url a browser can fetch the blob from.
	DownloadURL(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, id string) error
}

const (
	BackendDrive = "gdrive"
	BackendS3    = "s3"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	DriveCredentialsFile string
	DriveCredentialsJSON string
	DriveFolderID        string

	S3 S3Config
}

// New builds the Store named by opts.Backend.
func New(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendDrive:
		s, err := NewDriveStore(ctx, DriveConfig{
			CredentialsFile: opts.DriveCredentialsFile,
			CredentialsJSON: opts.DriveCredentialsJSON,
			FolderID:        opts.DriveFolderID,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendS3:
		s, err := NewS3Store(ctx, opts.S3)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown blob backend %q", opts.Backend)
	}
}
