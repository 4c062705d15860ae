// Package files declares storage for file attachments of locked links.
package files

import (
	"context"

	"github.com/dmitrijs2005/linkgate/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, f *models.FileAttachment) (*models.FileAttachment, error)
	// ListByLink returns the link's attachments ordered by id.
	ListByLink(ctx context.Context, linkID int64) ([]*models.FileAttachment, error)
	GetByID(ctx context.Context, id int64) (*models.FileAttachment, error)
}
