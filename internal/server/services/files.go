package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/linkgate/internal/common"
	"github.com/dmitrijs2005/linkgate/internal/logging"
	"github.com/dmitrijs2005/linkgate/internal/server/auth"
	"github.com/dmitrijs2005/linkgate/internal/server/blob"
	"github.com/dmitrijs2005/linkgate/internal/server/metrics"
	"github.com/dmitrijs2005/linkgate/internal/server/models"
	"github.com/dmitrijs2005/linkgate/internal/server/repositories/repomanager"
)

// FileService attaches files to links whose target is models.FilesTarget.
// Bytes go to the blob store, metadata to the database.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       blob.Store
	metrics     *metrics.Metrics
	logger      logging.Logger
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, store blob.Store, mt *metrics.Metrics, logger logging.Logger) *FileService {
	return &FileService{db: db, repomanager: m, store: store, metrics: mt, logger: logger}
}

func (s *FileService) filesLink(ctx context.Context, linkID int64) (*models.LockedLink, error) {
	link, err := s.repomanager.Links(s.db).GetByID(ctx, linkID)
	if err != nil {
		return nil, fmt.Errorf("error loading link: %w", err)
	}
	if !link.HasFiles() {
		return nil, fmt.Errorf("link %d does not hold files: %w", linkID, common.ErrorValidation)
	}
	return link, nil
}

// Upload stores the file for ownerID's link and records it. Blob store
// failures come back as common.ErrorUpload without retry. When recording
// fails the stored blob is removed again, best effort.
func (s *FileService) Upload(ctx context.Context, ownerID, linkID int64, name, mimeType string, size int64, r io.Reader) (*models.FileAttachment, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("file name is required: %w", common.ErrorValidation)
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	link, err := s.filesLink(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if err := auth.CheckOwnership(ownerID, link.UserID); err != nil {
		return nil, err
	}

	blobID, err := s.store.Put(ctx, name, mimeType, size, r)
	if err != nil {
		s.metrics.Upload(metrics.UploadFailed)
		return nil, fmt.Errorf("%w: %v", common.ErrorUpload, err)
	}

	f, err := s.Attach(ctx, linkID, models.FileMeta{FileName: name, FileSize: size, MimeType: mimeType, BlobID: blobID})
	if err != nil {
		s.metrics.Upload(metrics.UploadFailed)
		if derr := s.store.Delete(ctx, blobID); derr != nil {
			s.logger.Warn(ctx, "orphaned blob", "blob_id", blobID, "link_id", linkID, "error", derr)
		}
		return nil, err
	}

	s.metrics.Upload(metrics.UploadOK)
	s.logger.Info(ctx, "file attached", "link_id", linkID, "file_id", f.ID, "size", size)
	return f, nil
}

// Attach records metadata of an already stored blob.
func (s *FileService) Attach(ctx context.Context, linkID int64, meta models.FileMeta) (*models.FileAttachment, error) {
	if _, err := s.filesLink(ctx, linkID); err != nil {
		return nil, err
	}

	f := &models.FileAttachment{
		LinkID:   linkID,
		FileName: meta.FileName,
		FileSize: meta.FileSize,
		MimeType: meta.MimeType,
		BlobID:   meta.BlobID,
	}
	f, err := s.repomanager.Files(s.db).Create(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("error recording file: %w", err)
	}
	return f, nil
}

func (s *FileService) List(ctx context.Context, linkID int64) ([]*models.FileAttachment, error) {
	list, err := s.repomanager.Files(s.db).ListByLink(ctx, linkID)
	if err != nil {
		return nil, fmt.Errorf("error listing files: %w", err)
	}
	return list, nil
}

// ResolveDownloadURL returns a url the visitor can download the file from.
// Blob store failures come back as common.ErrorUpload.
func (s *FileService) ResolveDownloadURL(ctx context.Context, fileID int64) (string, error) {
	f, err := s.repomanager.Files(s.db).GetByID(ctx, fileID)
	if err != nil {
		return "", fmt.Errorf("error loading file: %w", err)
	}
	u, err := s.store.DownloadURL(ctx, f.BlobID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorUpload, err)
	}
	return u, nil
}
