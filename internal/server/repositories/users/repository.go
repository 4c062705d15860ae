// Package users declares the repository contract for account storage.
package users

import (
	"context"

	"github.com/dmitrijs2005/linkgate/internal/server/models"
)

type Repository interface {
	// Create inserts the user and fills ID and CreatedAt. A taken username or
	// email yields common.ErrorConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// GetByLogin matches login against username or email.
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	// Delete removes the user; owned rows go with it.
	Delete(ctx context.Context, id int64) error
}
