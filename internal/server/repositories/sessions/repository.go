// Package sessions declares the server-side repository contract for login
// sessions backing issued tokens.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/linkgate/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking sessions.
type Repository interface {
	// Create stores a new session row.
	Create(ctx context.Context, s *models.Session) error

	// Find looks up a session by id. Implementations return
	// common.ErrorNotFound when the session is absent.
	Find(ctx context.Context, id string) (*models.Session, error)

	// Delete removes a session by id. Deleting a non-existent session is not
	// an error.
	Delete(ctx context.Context, id string) error
}
