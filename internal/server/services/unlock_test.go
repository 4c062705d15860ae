package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/linkgate/internal/common"
	"github.com/dmitrijs2005/linkgate/internal/server/models"
)

func twoActionLink(st *store) *models.LockedLink {
	return st.seedLink(1, "code", "https://example.com",
		models.RequiredAction{Platform: "YouTube", Action: "subscribe", ConnectionID: 7},
		models.RequiredAction{Platform: "GitHub", Action: "follow", ConnectionID: 8},
	)
}

func TestUnlockService_GetOrCreate(t *testing.T) {
	st := newStore()
	s := NewUnlockService(nil, &fakeRepoManager{st}, nil)
	ctx := context.Background()
	link := twoActionLink(st)

	first, err := s.GetOrCreate(ctx, link.ID)
	require.NoError(t, err)
	assert.False(t, first.Unlocked)
	assert.Empty(t, first.CompletedActions)
	assert.Equal(t, 0, first.Progress)
	assert.Equal(t, 2, first.Required)

	again, err := s.GetOrCreate(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Len(t, st.attempts, 1)
}

func TestUnlockService_GetOrCreate_UnknownLink(t *testing.T) {
	s := NewUnlockService(nil, &fakeRepoManager{newStore()}, nil)
	_, err := s.GetOrCreate(context.Background(), 404)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUnlockService_GetOrCreate_RepoError(t *testing.T) {
	st := newStore()
	link := twoActionLink(st)
	st.attemptsErr = errBoom{}
	s := NewUnlockService(nil, &fakeRepoManager{st}, nil)

	_, err := s.GetOrCreate(context.Background(), link.ID)
	assert.ErrorIs(t, err, errBoom{})
}

func TestUnlockService_RecordCompletion_UnlocksOnce(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	st := newStore()
	s := NewUnlockService(db, &fakeRepoManager{st}, nil)
	t0 := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return t0 }
	ctx := context.Background()

	link := twoActionLink(st)
	a, err := s.GetOrCreate(ctx, link.ID)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()
	got, err := s.RecordCompletion(ctx, a.ID, []string{"7-subscribe", " "})
	require.NoError(t, err)
	assert.False(t, got.Unlocked)
	assert.Nil(t, got.UnlockedAt)
	assert.Equal(t, 1, got.Progress)

	mock.ExpectBegin()
	mock.ExpectCommit()
	got, err = s.RecordCompletion(ctx, a.ID, []string{"8-follow"})
	require.NoError(t, err)
	assert.True(t, got.Unlocked)
	require.NotNil(t, got.UnlockedAt)
	assert.Equal(t, t0, *got.UnlockedAt)
	assert.Equal(t, models.CompletedActions{"7-subscribe", "8-follow"}, got.CompletedActions)
	assert.Equal(t, 2, got.Progress)

	// later submissions never revert the unlock nor move its timestamp
	s.now = func() time.Time { return t0.Add(time.Hour) }
	mock.ExpectBegin()
	mock.ExpectCommit()
	got, err = s.RecordCompletion(ctx, a.ID, []string{"7-subscribe"})
	require.NoError(t, err)
	assert.True(t, got.Unlocked)
	assert.Equal(t, t0, *got.UnlockedAt)
	assert.Equal(t, t0, *st.attempts[a.ID].UnlockedAt)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnlockService_RecordCompletion_NotFoundRollsBack(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	s := NewUnlockService(db, &fakeRepoManager{newStore()}, nil)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := s.RecordCompletion(context.Background(), 404, []string{"7-subscribe"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnlockService_RecordCompletion_BeginFails(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	s := NewUnlockService(db, &fakeRepoManager{newStore()}, nil)

	mock.ExpectBegin().WillReturnError(errBoom{})
	_, err := s.RecordCompletion(context.Background(), 1, nil)
	assert.ErrorIs(t, err, errBoom{})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnlockService_RecordCompletion_CommitFails(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	st := newStore()
	s := NewUnlockService(db, &fakeRepoManager{st}, nil)
	link := twoActionLink(st)
	a, err := s.GetOrCreate(context.Background(), link.ID)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errBoom{})
	_, err = s.RecordCompletion(context.Background(), a.ID, []string{"7-subscribe"})
	assert.ErrorIs(t, err, errBoom{})
	require.NoError(t, mock.ExpectationsWereMet())
}
