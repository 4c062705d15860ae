package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/linkgate/internal/common"
	"github.com/dmitrijs2005/linkgate/internal/dbx"
	"github.com/dmitrijs2005/linkgate/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, f *models.FileAttachment) (*models.FileAttachment, error) {
	query :=
		`INSERT INTO link_files (link_id, file_name, file_size, mime_type, blob_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, f.LinkID, f.FileName, f.FileSize, f.MimeType, f.BlobID).
		Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return f, nil
}

func (r *PostgresRepository) ListByLink(ctx context.Context, linkID int64) ([]*models.FileAttachment, error) {
	query := `SELECT id, link_id, file_name, file_size, mime_type, blob_id, created_at FROM link_files
		WHERE link_id = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, linkID)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	result := []*models.FileAttachment{}
	for rows.Next() {
		item := &models.FileAttachment{}
		err := rows.Scan(&item.ID, &item.LinkID, &item.FileName, &item.FileSize, &item.MimeType, &item.BlobID, &item.CreatedAt)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.FileAttachment, error) {
	query := `SELECT id, link_id, file_name, file_size, mime_type, blob_id, created_at FROM link_files
		WHERE id = $1`

	f := &models.FileAttachment{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&f.ID, &f.LinkID, &f.FileName, &f.FileSize, &f.MimeType, &f.BlobID, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	return f, nil
}
