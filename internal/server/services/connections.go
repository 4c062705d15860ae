package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/linkgate/internal/common"
	"github.com/dmitrijs2005/linkgate/internal/server/auth"
	"github.com/dmitrijs2005/linkgate/internal/server/models"
	"github.com/dmitrijs2005/linkgate/internal/server/platform"
	"github.com/dmitrijs2005/linkgate/internal/server/repositories/repomanager"
)

// ConnectionService manages a creator's social connections. The platform of
// a connection is always derived from its url.
type ConnectionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewConnectionService(db *sql.DB, m repomanager.RepositoryManager) *ConnectionService {
	return &ConnectionService{db: db, repomanager: m}
}

func (s *ConnectionService) List(ctx context.Context, userID int64) ([]*models.Connection, error) {
	list, err := s.repomanager.Connections(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing connections: %w", err)
	}
	return list, nil
}

func (s *ConnectionService) Create(ctx context.Context, userID int64, url string) (*models.Connection, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("url is required: %w", common.ErrorValidation)
	}

	c := &models.Connection{UserID: userID, URL: url, Platform: platform.Detect(url)}
	c, err := s.repomanager.Connections(s.db).Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("error creating connection: %w", err)
	}
	return c, nil
}

func (s *ConnectionService) Update(ctx context.Context, userID, id int64, url string) (*models.Connection, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("url is required: %w", common.ErrorValidation)
	}

	repo := s.repomanager.Connections(s.db)
	c, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	c.URL = url
	c.Platform = platform.Detect(url)
	if err := repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("error updating connection: %w", err)
	}
	return c, nil
}

// Delete removes the connection. Links that reference it keep the id and
// resolve it to an empty url from then on.
func (s *ConnectionService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repomanager.Connections(s.db).Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting connection: %w", err)
	}
	return nil
}

func (s *ConnectionService) owned(ctx context.Context, userID, id int64) (*models.Connection, error) {
	c, err := s.repomanager.Connections(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading connection: %w", err)
	}
	if err := auth.CheckOwnership(userID, c.UserID); err != nil {
		return nil, err
	}
	return c, nil
}
