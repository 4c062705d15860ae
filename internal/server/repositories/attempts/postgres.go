package attempts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/linkgate/internal/common"
	"github.com/dmitrijs2005/linkgate/internal/dbx"
	"github.com/dmitrijs2005/linkgate/internal/server/models"
)

const columns = `id, link_id, completed_actions, unlocked, unlocked_at, created_at`

// PostgresRepository implements unlock attempt storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, linkID int64) (*models.UnlockAttempt, error) {
	query := `INSERT INTO unlock_attempts (link_id, completed_actions)
		VALUES ($1, '[]'::jsonb)
		RETURNING ` + columns

	return r.getOne(ctx, query, linkID)
}

func (r *PostgresRepository) LatestByLink(ctx context.Context, linkID int64) (*models.UnlockAttempt, error) {
	query := `SELECT ` + columns + ` FROM unlock_attempts
		WHERE link_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	return r.getOne(ctx, query, linkID)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id int64) (*models.UnlockAttempt, error) {
	query := `SELECT ` + columns + ` FROM unlock_attempts
		WHERE id = $1
		FOR UPDATE`

	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.UnlockAttempt, error) {
	a := &models.UnlockAttempt{}
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&a.ID, &a.LinkID, &a.CompletedActions, &a.Unlocked, &a.UnlockedAt, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) Update(ctx context.Context, a *models.UnlockAttempt) error {
	query := `UPDATE unlock_attempts
		SET completed_actions = $2,
			unlocked = unlocked OR $3,
			unlocked_at = COALESCE(unlocked_at, $4)
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, a.ID, a.CompletedActions, a.Unlocked, a.UnlockedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
