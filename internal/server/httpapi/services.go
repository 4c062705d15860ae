package httpapi

import (
	"context"
	"io"

	"github.com/dmitrijs2005/linkgate/internal/server/models"
	"github.com/dmitrijs2005/linkgate/internal/server/services"
)

// The handlers depend on these narrow views of the services package.

type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, login, password string) (*services.LoginResult, error)
	Logout(ctx context.Context, token string) error
	ResolveSession(ctx context.Context, token string) (int64, error)
	Me(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, upd models.ProfileUpdate) (*models.User, error)
	ChangePassword(ctx context.Context, userID int64, current, next string) error
	Delete(ctx context.Context, userID int64) error
}

type ConnectionService interface {
	List(ctx context.Context, userID int64) ([]*models.Connection, error)
	Create(ctx context.Context, userID int64, url string) (*models.Connection, error)
	Update(ctx context.Context, userID, id int64, url string) (*models.Connection, error)
	Delete(ctx context.Context, userID, id int64) error
}

type LinkService interface {
	Create(ctx context.Context, ownerID int64, in models.LinkCreate) (*models.LockedLink, error)
	GetByCode(ctx context.Context, code string) (*models.ResolvedLink, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*models.LockedLink, error)
}

type UnlockService interface {
	GetOrCreate(ctx context.Context, linkID int64) (*services.AttemptState, error)
	RecordCompletion(ctx context.Context, attemptID int64, completed []string) (*services.AttemptState, error)
}

type FileService interface {
	Upload(ctx context.Context, ownerID, linkID int64, name, mimeType string, size int64, r io.Reader) (*models.FileAttachment, error)
	List(ctx context.Context, linkID int64) ([]*models.FileAttachment, error)
	ResolveDownloadURL(ctx context.Context, fileID int64) (string, error)
}
