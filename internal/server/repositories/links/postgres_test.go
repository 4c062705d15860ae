package links

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/linkgate/internal/common"
	"github.com/dmitrijs2005/linkgate/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

var linkCols = []string{"id", "user_id", "target_url", "unlock_code", "required_actions",
	"expires_at", "custom_unlock_message", "created_at"}

const insertQ = `(?s)INSERT\s+INTO\s+locked_links\s*\(user_id,\s*target_url,\s*unlock_code,\s*required_actions,\s*expires_at,\s*custom_unlock_message\)`

func sampleLink() *models.LockedLink {
	return &models.LockedLink{
		UserID:     1,
		TargetURL:  "https://example.com/secret",
		UnlockCode: "abc123",
		RequiredActions: models.RequiredActions{
			{Platform: "YouTube", Action: "subscribe", ConnectionID: 7},
		},
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(insertQ).
		WithArgs(int64(1), "https://example.com/secret", "abc123",
			`[{"platform":"YouTube","action":"subscribe","connectionId":7}]`, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(10), now))

	l, err := repo.Create(context.Background(), sampleLink())
	require.NoError(t, err)
	assert.Equal(t, int64(10), l.ID)
	assert.True(t, l.CreatedAt.Equal(now))
}

func TestCreate_DuplicateCode(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "locked_links_unlock_code_key"})

	_, err := repo.Create(context.Background(), sampleLink())
	assert.ErrorIs(t, err, common.ErrorConflict)
}

func TestCreate_OtherError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).WillReturnError(errors.New("conn reset"))

	_, err := repo.Create(context.Background(), sampleLink())
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorConflict)
	assert.Contains(t, err.Error(), "db error")
}

func TestGetByCode_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	msg := "hi"
	mock.ExpectQuery(`(?s)FROM\s+locked_links\s+WHERE\s+unlock_code\s*=\s*\$1`).
		WithArgs("abc123").
		WillReturnRows(sqlmock.NewRows(linkCols).AddRow(
			int64(10), int64(1), models.FilesTarget, "abc123",
			[]byte(`[{"platform":"GitHub","action":"star","connectionId":3}]`),
			nil, msg, time.Now()))

	l, err := repo.GetByCode(context.Background(), "abc123")
	require.NoError(t, err)
	assert.True(t, l.HasFiles())
	require.Len(t, l.RequiredActions, 1)
	assert.Equal(t, int64(3), l.RequiredActions[0].ConnectionID)
	assert.Nil(t, l.ExpiresAt)
	require.NotNil(t, l.CustomUnlockMessage)
	assert.Equal(t, "hi", *l.CustomUnlockMessage)
}

func TestGetByCode_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)FROM\s+locked_links`).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByCode(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)FROM\s+locked_links\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(linkCols).AddRow(
			int64(10), int64(1), "https://x", "c", []byte(`[]`), nil, nil, time.Now()))

	l, err := repo.GetByID(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, l.RequiredActions)
}

func TestListByOwner_NewestFirst(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`(?s)FROM\s+locked_links\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC,\s*id\s+DESC`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(linkCols).
			AddRow(int64(2), int64(1), "https://b", "b", []byte(`[]`), nil, nil, now).
			AddRow(int64(1), int64(1), "https://a", "a", []byte(`[]`), nil, nil, now.Add(-time.Hour)))

	got, err := repo.ListByOwner(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].UnlockCode)
}

func TestListByOwner_BadJSON(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)FROM\s+locked_links`).
		WillReturnRows(sqlmock.NewRows(linkCols).
			AddRow(int64(2), int64(1), "https://b", "b", []byte(`{oops`), nil, nil, time.Now()))

	_, err := repo.ListByOwner(context.Background(), 1)
	assert.Error(t, err)
}
