// Package services contains server-side business logic. This file implements
// UserService: registration, login, server-side sessions and account changes.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/dmitrijs2005/linkgate/internal/common"
	"github.com/dmitrijs2005/linkgate/internal/cryptox"
	"github.com/dmitrijs2005/linkgate/internal/server/auth"
	"github.com/dmitrijs2005/linkgate/internal/server/config"
	"github.com/dmitrijs2005/linkgate/internal/server/models"
	"github.com/dmitrijs2005/linkgate/internal/server/repositories/repomanager"
)

// MinPasswordLength is the shortest password accepted on register and change.
const MinPasswordLength = 8

const sessionIDBytes = 32

// LoginResult is handed to the transport layer, which turns Token into a
// cookie or bearer header.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// UserService provides account operations and the token→user lookup used by
// every authenticated request.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
	sessionTTL  time.Duration
	sessions    *cache.Cache
	now         func() time.Time
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		jwtSecret:   []byte(cfg.SecretKey),
		sessionTTL:  cfg.SessionTTL,
		sessions:    cache.New(5*time.Minute, 10*time.Minute),
		now:         time.Now,
	}
}

// Register creates an account with default profile colors.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("email is required: %w", common.ErrorValidation)
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email: %w", common.ErrorValidation)
	}
	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters: %w", MinPasswordLength, common.ErrorValidation)
	}

	hash, err := cryptox.HashPassword([]byte(password))
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		BannerColor:  models.DefaultBannerColor,
		AccentColor:  models.DefaultAccentColor,
	}
	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login checks credentials (login is a username or an email) and opens a
// new session.
func (s *UserService) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	user, err := s.repomanager.Users(s.db).GetByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if err := cryptox.CheckPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, common.ErrorUnauthorized
	}

	sid, err := common.MakeRandHexString(sessionIDBytes)
	if err != nil {
		return nil, common.ErrorInternal
	}
	sess := &models.Session{ID: sid, UserID: user.ID, ExpiresAt: s.now().Add(s.sessionTTL)}
	if err := s.repomanager.Sessions(s.db).Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, sid, s.jwtSecret, s.sessionTTL)
	if err != nil {
		return nil, common.ErrorInternal
	}

	s.sessions.Set(token, user.ID, s.sessionTTL)
	return &LoginResult{Token: token, ExpiresAt: sess.ExpiresAt, User: user}, nil
}

// Logout revokes the session behind token. Unknown or malformed tokens are
// ignored.
func (s *UserService) Logout(ctx context.Context, token string) error {
	s.sessions.Delete(token)

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil
	}
	if err := s.repomanager.Sessions(s.db).Delete(ctx, claims.SessionID); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

// ResolveSession maps a session token to its user id. Every failure is
// reported as common.ErrorUnauthorized, wrapping the specific cause.
func (s *UserService) ResolveSession(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, common.ErrorUnauthorized
	}
	if v, ok := s.sessions.Get(token); ok {
		return v.(int64), nil
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	sess, err := s.repomanager.Sessions(s.db).Find(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrInvalidToken)
		}
		return 0, fmt.Errorf("error loading session: %w", err)
	}

	remaining := sess.ExpiresAt.Sub(s.now())
	if remaining <= 0 {
		return 0, fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrSessionExpired)
	}
	if sess.UserID != claims.UserID {
		return 0, fmt.Errorf("%w: %w", common.ErrorUnauthorized, common.ErrInvalidToken)
	}

	s.sessions.Set(token, sess.UserID, remaining)
	return sess.UserID, nil
}

// Me returns the account of userID.
func (s *UserService) Me(ctx context.Context, userID int64) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return u, nil
}

// UpdateProfile applies the non-nil fields of upd.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, upd models.ProfileUpdate) (*models.User, error) {
	repo := s.repomanager.Users(s.db)
	u, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if upd.Username != nil {
		name := strings.TrimSpace(*upd.Username)
		if err := validateUsername(name); err != nil {
			return nil, err
		}
		u.Username = name
	}
	if upd.BannerColor != nil {
		if !isHexColor(*upd.BannerColor) {
			return nil, fmt.Errorf("invalid banner color %q: %w", *upd.BannerColor, common.ErrorValidation)
		}
		u.BannerColor = *upd.BannerColor
	}
	if upd.AccentColor != nil {
		if !isHexColor(*upd.AccentColor) {
			return nil, fmt.Errorf("invalid accent color %q: %w", *upd.AccentColor, common.ErrorValidation)
		}
		u.AccentColor = *upd.AccentColor
	}
	if upd.DisplayName != nil {
		u.DisplayName = emptyToNil(*upd.DisplayName)
	}
	if upd.ProfileImage != nil {
		u.ProfileImage = emptyToNil(*upd.ProfileImage)
	}
	if upd.AudienceMessage != nil {
		u.AudienceMessage = emptyToNil(*upd.AudienceMessage)
	}

	if err := repo.UpdateProfile(ctx, u); err != nil {
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	return u, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	if len(next) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters: %w", MinPasswordLength, common.ErrorValidation)
	}

	repo := s.repomanager.Users(s.db)
	u, err := repo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("error loading user: %w", err)
	}
	if err := cryptox.CheckPassword(u.PasswordHash, []byte(current)); err != nil {
		return common.ErrorUnauthorized
	}

	hash, err := cryptox.HashPassword([]byte(next))
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err := repo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	return nil
}

// Delete removes the account with everything it owns and drops its cached
// sessions.
func (s *UserService) Delete(ctx context.Context, userID int64) error {
	if err := s.repomanager.Users(s.db).Delete(ctx, userID); err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	for token, item := range s.sessions.Items() {
		if id, ok := item.Object.(int64); ok && id == userID {
			s.sessions.Delete(token)
		}
	}
	return nil
}

// validateUsername keeps usernames disjoint from emails, so a login string
// matches at most one account.
func validateUsername(name string) error {
	if name == "" {
		return fmt.Errorf("username is required: %w", common.ErrorValidation)
	}
	if strings.Contains(name, "@") {
		return fmt.Errorf("username must not contain '@': %w", common.ErrorValidation)
	}
	return nil
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

func emptyToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
