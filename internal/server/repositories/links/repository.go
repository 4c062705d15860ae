// Package links declares storage for locked links. Links are write-once:
// there is no update.
package links

import (
	"context"

	"github.com/dmitrijs2005/linkgate/internal/server/models"
)

type Repository interface {
	// Create inserts the link. A taken unlock code yields common.ErrorConflict
	// and leaves the existing link untouched.
	Create(ctx context.Context, l *models.LockedLink) (*models.LockedLink, error)
	GetByID(ctx context.Context, id int64) (*models.LockedLink, error)
	GetByCode(ctx context.Context, code string) (*models.LockedLink, error)
	// ListByOwner returns the owner's links, newest first.
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.LockedLink, error)
}
