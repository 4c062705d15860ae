package connections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/linkgate/internal/common"
	"github.com/dmitrijs2005/linkgate/internal/dbx"
	"github.com/dmitrijs2005/linkgate/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Connection, error) {
	query := `SELECT id, user_id, platform, url, created_at FROM connections
		WHERE user_id = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Connection{}
	for rows.Next() {
		c := &models.Connection{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.Platform, &c.URL, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Connection, error) {
	query := `SELECT id, user_id, platform, url, created_at FROM connections WHERE id = $1`

	c := &models.Connection{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.UserID, &c.Platform, &c.URL, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Connection) (*models.Connection, error) {
	query := `INSERT INTO connections (user_id, platform, url)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	if err := r.db.QueryRowContext(ctx, query, c.UserID, c.Platform, c.URL).Scan(&c.ID, &c.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Update(ctx context.Context, c *models.Connection) error {
	res, err := r.db.ExecContext(ctx, `UPDATE connections SET platform = $2, url = $3 WHERE id = $1`,
		c.ID, c.Platform, c.URL)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return affectedOne(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM connections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return affectedOne(res)
}

func (r *PostgresRepository) URLsForLink(ctx context.Context, linkID int64) (map[int64]string, error) {
	query := `SELECT c.id, c.url
		FROM locked_links l
		CROSS JOIN LATERAL jsonb_array_elements(l.required_actions) AS a
		JOIN connections c ON c.id = (a->>'connectionId')::bigint
		WHERE l.id = $1`

	rows, err := r.db.QueryContext(ctx, query, linkID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	urls := make(map[int64]string)
	for rows.Next() {
		var id int64
		var url string
		if err := rows.Scan(&id, &url); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		urls[id] = url
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return urls, nil
}

func affectedOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
