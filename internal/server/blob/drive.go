package blob

import (
	"context"
	"errors"
	"fmt"
	"io"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const driveDownloadURL = "https://drive.google.com/uc?export=download&id=%s"

// driveAPI is the slice of the Drive v3 API the store needs.
type driveAPI interface {
	create(ctx context.Context, f *drive.File, media io.Reader) (string, error)
	shareWithAnyone(ctx context.Context, fileID string) error
	delete(ctx context.Context, fileID string) error
}

type driveService struct {
	srv *drive.Service
}

func (d *driveService) create(ctx context.Context, f *drive.File, media io.Reader) (string, error) {
	out, err := d.srv.Files.Create(f).Media(media).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return out.Id, nil
}

func (d *driveService) shareWithAnyone(ctx context.Context, fileID string) error {
	_, err := d.srv.Permissions.Create(fileID, &drive.Permission{Role: "reader", Type: "anyone"}).
		Context(ctx).Do()
	return err
}

func (d *driveService) delete(ctx context.Context, fileID string) error {
	return d.srv.Files.Delete(fileID).Context(ctx).Do()
}

type DriveConfig struct {
	CredentialsFile string
	CredentialsJSON string
	// FolderID is optional; files land in the service account root otherwise.
	FolderID string
}

// DriveStore keeps blobs in Google Drive and shares each one publicly for
// reading, so the download url works without auth.
type DriveStore struct {
	api      driveAPI
	folderID string
}

var newDriveService = func(ctx context.Context, opts ...option.ClientOption) (*drive.Service, error) {
	return drive.NewService(ctx, opts...)
}

func NewDriveStore(ctx context.Context, c DriveConfig) (*DriveStore, error) {
	opts := []option.ClientOption{option.WithScopes(drive.DriveFileScope)}
	switch {
	case c.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(c.CredentialsJSON)))
	case c.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(c.CredentialsFile))
	default:
		return nil, errors.New("drive credentials are not configured")
	}

	srv, err := newDriveService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("drive client: %w", err)
	}
	return &DriveStore{api: &driveService{srv: srv}, folderID: c.FolderID}, nil
}

func (s *DriveStore) Put(ctx context.Context, name, mimeType string, _ int64, r io.Reader) (string, error) {
	f := &drive.File{Name: name, MimeType: mimeType}
	if s.folderID != "" {
		f.Parents = []string{s.folderID}
	}

	id, err := s.api.create(ctx, f, r)
	if err != nil {
		return "", fmt.Errorf("drive create %s: %w", name, err)
	}
	if err := s.api.shareWithAnyone(ctx, id); err != nil {
		// best effort
		_ = s.api.delete(ctx, id)
		return "", fmt.Errorf("drive share %s: %w", name, err)
	}
	return id, nil
}

func (s *DriveStore) DownloadURL(_ context.Context, id string) (string, error) {
	if id == "" {
		return "", errors.New("empty drive file id")
	}
	return fmt.Sprintf(driveDownloadURL, id), nil
}

func (s *DriveStore) Delete(ctx context.Context, id string) error {
	return s.api.delete(ctx, id)
}
