package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/linkgate/internal/common"
	"github.com/dmitrijs2005/linkgate/internal/dbx"
	"github.com/dmitrijs2005/linkgate/internal/server/metrics"
	"github.com/dmitrijs2005/linkgate/internal/server/models"
	"github.com/dmitrijs2005/linkgate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/linkgate/internal/server/unlock"
)

// AttemptState is an attempt together with how far it got.
type AttemptState struct {
	*models.UnlockAttempt
	Progress int `json:"progress"`
	Required int `json:"required"`
}

// UnlockService tracks visitors' progress through a link's required actions.
type UnlockService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	metrics     *metrics.Metrics
	now         func() time.Time
}

func NewUnlockService(db *sql.DB, m repomanager.RepositoryManager, mt *metrics.Metrics) *UnlockService {
	return &UnlockService{db: db, repomanager: m, metrics: mt, now: time.Now}
}

func state(a *models.UnlockAttempt, required []models.RequiredAction) *AttemptState {
	req := unlock.RequiredSet(required)
	return &AttemptState{
		UnlockAttempt: a,
		Progress:      unlock.Progress(req, unlock.NewActionSet(a.CompletedActions...)),
		Required:      len(req),
	}
}

// GetOrCreate returns the newest attempt of the link, creating a pending one
// when there is none. Concurrent first visits may each create one; the
// newest then wins.
func (s *UnlockService) GetOrCreate(ctx context.Context, linkID int64) (*AttemptState, error) {
	link, err := s.repomanager.Links(s.db).GetByID(ctx, linkID)
	if err != nil {
		return nil, fmt.Errorf("error loading link: %w", err)
	}

	repo := s.repomanager.Attempts(s.db)
	a, err := repo.LatestByLink(ctx, linkID)
	if err == nil {
		return state(a, link.RequiredActions), nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error loading attempt: %w", err)
	}

	a, err = repo.Create(ctx, linkID)
	if err != nil {
		return nil, fmt.Errorf("error creating attempt: %w", err)
	}
	s.metrics.AttemptCreated()
	return state(a, link.RequiredActions), nil
}

// RecordCompletion merges completed into the attempt and unlocks it once the
// link's requirements are covered. The attempt row stays locked from read to
// write, so concurrent submissions are serialized.
func (s *UnlockService) RecordCompletion(ctx context.Context, attemptID int64, completed []string) (*AttemptState, error) {
	incoming := make([]string, 0, len(completed))
	for _, k := range completed {
		if k = strings.TrimSpace(k); k != "" {
			incoming = append(incoming, k)
		}
	}

	var out *AttemptState
	var flipped bool
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		attempts := s.repomanager.Attempts(tx)

		a, err := attempts.GetForUpdate(ctx, attemptID)
		if err != nil {
			return fmt.Errorf("error loading attempt: %w", err)
		}
		link, err := s.repomanager.Links(tx).GetByID(ctx, a.LinkID)
		if err != nil {
			return fmt.Errorf("error loading link: %w", err)
		}

		flipped = unlock.Apply(a, link.RequiredActions, incoming, s.now().UTC())

		if err := attempts.Update(ctx, a); err != nil {
			return fmt.Errorf("error saving attempt: %w", err)
		}
		out = state(a, link.RequiredActions)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.CompletionRecorded()
	if flipped {
		s.metrics.Unlocked()
	}
	return out, nil
}
