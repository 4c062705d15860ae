// Package connections declares storage for creators' social connections.
package connections

import (
	"context"

	"github.com/dmitrijs2005/linkgate/internal/server/models"
)

type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]*models.Connection, error)
	GetByID(ctx context.Context, id int64) (*models.Connection, error)
	Create(ctx context.Context, c *models.Connection) (*models.Connection, error)
	Update(ctx context.Context, c *models.Connection) error
	Delete(ctx context.Context, id int64) error
	// URLsForLink maps each connection id referenced by the link's required
	// actions to its current url. Deleted connections are simply absent.
	URLsForLink(ctx context.Context, linkID int64) (map[int64]string, error)
}
