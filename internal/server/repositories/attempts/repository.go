// Package attempts declares storage for unlock attempts.
package attempts

import (
	"context"

	"github.com/dmitrijs2005/linkgate/internal/server/models"
)

type Repository interface {
	// Create inserts a pending attempt for the link with no completed actions.
	Create(ctx context.Context, linkID int64) (*models.UnlockAttempt, error)
	// LatestByLink returns the newest attempt of the link or common.ErrorNotFound.
	LatestByLink(ctx context.Context, linkID int64) (*models.UnlockAttempt, error)
	// GetForUpdate loads the attempt and locks its row until the enclosing
	// transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*models.UnlockAttempt, error)
	// Update persists completed actions and the unlock flag. An already
	// unlocked row is never reverted and its unlocked_at is kept.
	Update(ctx context.Context, a *models.UnlockAttempt) error
}
