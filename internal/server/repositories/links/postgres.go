package links

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/linkgate/internal/common"
	"github.com/dmitrijs2005/linkgate/internal/dbx"
	"github.com/dmitrijs2005/linkgate/internal/server/models"
)

const selectLink = `SELECT id, user_id, target_url, unlock_code, required_actions,
		expires_at, custom_unlock_message, created_at
		FROM locked_links`

// PostgresRepository implements locked link storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLink(s scanner) (*models.LockedLink, error) {
	l := &models.LockedLink{}
	err := s.Scan(&l.ID, &l.UserID, &l.TargetURL, &l.UnlockCode, &l.RequiredActions,
		&l.ExpiresAt, &l.CustomUnlockMessage, &l.CreatedAt)
	return l, err
}

func (r *PostgresRepository) Create(ctx context.Context, l *models.LockedLink) (*models.LockedLink, error) {
	query :=
		`INSERT INTO locked_links (user_id, target_url, unlock_code, required_actions, expires_at, custom_unlock_message)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, l.UserID, l.TargetURL, l.UnlockCode, l.RequiredActions,
		l.ExpiresAt, l.CustomUnlockMessage).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		if _, ok := dbx.IsUniqueViolation(err); ok {
			return nil, fmt.Errorf("unlock code %q: %w", l.UnlockCode, common.ErrorConflict)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return l, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.LockedLink, error) {
	return r.getOne(ctx, selectLink+` WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByCode(ctx context.Context, code string) (*models.LockedLink, error) {
	return r.getOne(ctx, selectLink+` WHERE unlock_code = $1`, code)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.LockedLink, error) {
	l, err := scanLink(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return l, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.LockedLink, error) {
	rows, err := r.db.QueryContext(ctx, selectLink+` WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.LockedLink{}
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
