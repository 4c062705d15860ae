package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/linkgate/internal/common"
	"github.com/dmitrijs2005/linkgate/internal/server/auth"
	"github.com/dmitrijs2005/linkgate/internal/server/models"
	"github.com/dmitrijs2005/linkgate/internal/server/platform"
	"github.com/dmitrijs2005/linkgate/internal/server/repositories/repomanager"
)

// LinkService creates and resolves locked links. Links are write-once.
type LinkService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewLinkService(db *sql.DB, m repomanager.RepositoryManager) *LinkService {
	return &LinkService{db: db, repomanager: m}
}

func validateLink(in *models.LinkCreate) error {
	in.TargetURL = strings.TrimSpace(in.TargetURL)
	in.UnlockCode = strings.TrimSpace(in.UnlockCode)

	if in.TargetURL == "" {
		return fmt.Errorf("target url is required: %w", common.ErrorValidation)
	}
	if in.UnlockCode == "" {
		return fmt.Errorf("unlock code is required: %w", common.ErrorValidation)
	}
	if len(in.RequiredActions) == 0 {
		return fmt.Errorf("at least one required action is needed: %w", common.ErrorValidation)
	}
	for i, a := range in.RequiredActions {
		if strings.TrimSpace(a.Platform) == "" || strings.TrimSpace(a.Action) == "" {
			return fmt.Errorf("required action %d: platform and action are required: %w", i, common.ErrorValidation)
		}
		if !platform.Known(a.Platform) {
			return fmt.Errorf("required action %d: unknown platform %q: %w", i, a.Platform, common.ErrorValidation)
		}
		if a.ConnectionID <= 0 {
			return fmt.Errorf("required action %d: invalid connection id %d: %w", i, a.ConnectionID, common.ErrorValidation)
		}
	}
	return nil
}

// checkConnections makes sure every referenced connection exists and belongs
// to ownerID, so an unlock page never publishes someone else's profile.
func (s *LinkService) checkConnections(ctx context.Context, ownerID int64, actions []models.RequiredAction) error {
	repo := s.repomanager.Connections(s.db)
	checked := make(map[int64]struct{}, len(actions))
	for _, a := range actions {
		if _, ok := checked[a.ConnectionID]; ok {
			continue
		}
		c, err := repo.GetByID(ctx, a.ConnectionID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return fmt.Errorf("unknown connection %d: %w", a.ConnectionID, common.ErrorValidation)
			}
			return fmt.Errorf("error loading connection: %w", err)
		}
		if err := auth.CheckOwnership(ownerID, c.UserID); err != nil {
			return fmt.Errorf("connection %d: %w", a.ConnectionID, err)
		}
		checked[a.ConnectionID] = struct{}{}
	}
	return nil
}

// Create stores a new link for ownerID. Every required action must point at
// one of the owner's connections. A taken unlock code yields
// common.ErrorConflict.
func (s *LinkService) Create(ctx context.Context, ownerID int64, in models.LinkCreate) (*models.LockedLink, error) {
	if err := validateLink(&in); err != nil {
		return nil, err
	}
	if err := s.checkConnections(ctx, ownerID, in.RequiredActions); err != nil {
		return nil, err
	}

	l := &models.LockedLink{
		UserID:              ownerID,
		TargetURL:           in.TargetURL,
		UnlockCode:          in.UnlockCode,
		RequiredActions:     models.RequiredActions(in.RequiredActions),
		ExpiresAt:           in.ExpiresAt,
		CustomUnlockMessage: in.CustomUnlockMessage,
	}
	l, err := s.repomanager.Links(s.db).Create(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("error creating link: %w", err)
	}
	return l, nil
}

// GetByCode resolves a link for its unlock page: every required action gets
// the current url of its connection (empty when the connection is gone) and
// the creator's public profile is attached.
func (s *LinkService) GetByCode(ctx context.Context, code string) (*models.ResolvedLink, error) {
	l, err := s.repomanager.Links(s.db).GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("error loading link: %w", err)
	}

	urls, err := s.repomanager.Connections(s.db).URLsForLink(ctx, l.ID)
	if err != nil {
		return nil, fmt.Errorf("error resolving connections: %w", err)
	}

	actions := make([]models.ResolvedAction, 0, len(l.RequiredActions))
	for _, a := range l.RequiredActions {
		actions = append(actions, models.ResolvedAction{RequiredAction: a, URL: urls[a.ConnectionID]})
	}

	out := &models.ResolvedLink{
		ID:                  l.ID,
		TargetURL:           l.TargetURL,
		UnlockCode:          l.UnlockCode,
		RequiredActions:     actions,
		ExpiresAt:           l.ExpiresAt,
		CustomUnlockMessage: l.CustomUnlockMessage,
		CreatedAt:           l.CreatedAt,
	}

	owner, err := s.repomanager.Users(s.db).GetByID(ctx, l.UserID)
	switch {
	case err == nil:
		c := owner.Creator()
		out.Creator = &c
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("error loading creator: %w", err)
	}

	return out, nil
}

// ListByOwner returns the owner's links, newest first.
func (s *LinkService) ListByOwner(ctx context.Context, ownerID int64) ([]*models.LockedLink, error) {
	list, err := s.repomanager.Links(s.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing links: %w", err)
	}
	return list, nil
}
