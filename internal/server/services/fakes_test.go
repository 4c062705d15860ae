package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/linkgate/internal/common"
	"github.com/dmitrijs2005/linkgate/internal/dbx"
	"github.com/dmitrijs2005/linkgate/internal/server/models"
	"github.com/dmitrijs2005/linkgate/internal/server/repositories/attempts"
	"github.com/dmitrijs2005/linkgate/internal/server/repositories/connections"
	"github.com/dmitrijs2005/linkgate/internal/server/repositories/files"
	"github.com/dmitrijs2005/linkgate/internal/server/repositories/links"
	"github.com/dmitrijs2005/linkgate/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/linkgate/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

// store is the shared in-memory state behind every fake repository.
type store struct {
	mu     sync.Mutex
	nextID int64

	users       map[int64]*models.User
	sessions    map[string]*models.Session
	connections map[int64]*models.Connection
	links       map[int64]*models.LockedLink
	attempts    map[int64]*models.UnlockAttempt
	files       map[int64]*models.FileAttachment

	// injected failures
	usersErr       error
	sessionsErr    error
	connectionsErr error
	linksErr       error
	attemptsErr    error
	filesErr       error
}

func newStore() *store {
	return &store{
		users:       map[int64]*models.User{},
		sessions:    map[string]*models.Session{},
		connections: map[int64]*models.Connection{},
		links:       map[int64]*models.LockedLink{},
		attempts:    map[int64]*models.UnlockAttempt{},
		files:       map[int64]*models.FileAttachment{},
	}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

type fakeRepoManager struct{ s *store }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return &fakeUsers{m.s} }
func (m *fakeRepoManager) Sessions(dbx.DBTX) sessions.Repository       { return &fakeSessions{m.s} }
func (m *fakeRepoManager) Connections(dbx.DBTX) connections.Repository { return &fakeConnections{m.s} }
func (m *fakeRepoManager) Links(dbx.DBTX) links.Repository             { return &fakeLinks{m.s} }
func (m *fakeRepoManager) Attempts(dbx.DBTX) attempts.Repository       { return &fakeAttempts{m.s} }
func (m *fakeRepoManager) Files(dbx.DBTX) files.Repository             { return &fakeFiles{m.s} }

// --- users ---

type fakeUsers struct{ s *store }

func (f *fakeUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.usersErr != nil {
		return nil, f.s.usersErr
	}
	for _, x := range f.s.users {
		if x.Username == u.Username || x.Email == u.Email {
			return nil, common.ErrorConflict
		}
	}
	u.ID = f.s.id()
	u.CreatedAt = time.Now()
	cp := *u
	f.s.users[u.ID] = &cp
	return u, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.usersErr != nil {
		return nil, f.s.usersErr
	}
	u, ok := f.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.usersErr != nil {
		return nil, f.s.usersErr
	}
	for _, u := range f.s.users {
		if u.Username == login || u.Email == login {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) UpdateProfile(ctx context.Context, u *models.User) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.users[u.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *u
	f.s.users[u.ID] = &cp
	return nil
}

func (f *fakeUsers) UpdatePassword(ctx context.Context, id int64, hash string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	u, ok := f.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsers) Delete(ctx context.Context, id int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.s.users, id)
	for k, v := range f.s.sessions {
		if v.UserID == id {
			delete(f.s.sessions, k)
		}
	}
	return nil
}

// --- sessions ---

type fakeSessions struct{ s *store }

func (f *fakeSessions) Create(ctx context.Context, sess *models.Session) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.sessionsErr != nil {
		return f.s.sessionsErr
	}
	sess.CreatedAt = time.Now()
	cp := *sess
	f.s.sessions[sess.ID] = &cp
	return nil
}

func (f *fakeSessions) Find(ctx context.Context, id string) (*models.Session, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.sessionsErr != nil {
		return nil, f.s.sessionsErr
	}
	sess, ok := f.s.sessions[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *sess
	return &cp, nil
}

func (f *fakeSessions) Delete(ctx context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.sessions, id)
	return nil
}

// --- connections ---

type fakeConnections struct{ s *store }

func (f *fakeConnections) ListByUser(ctx context.Context, userID int64) ([]*models.Connection, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.connectionsErr != nil {
		return nil, f.s.connectionsErr
	}
	out := []*models.Connection{}
	for _, c := range f.s.connections {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeConnections) GetByID(ctx context.Context, id int64) (*models.Connection, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	c, ok := f.s.connections[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeConnections) Create(ctx context.Context, c *models.Connection) (*models.Connection, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.connectionsErr != nil {
		return nil, f.s.connectionsErr
	}
	c.ID = f.s.id()
	cp := *c
	f.s.connections[c.ID] = &cp
	return c, nil
}

func (f *fakeConnections) Update(ctx context.Context, c *models.Connection) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.connections[c.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *c
	f.s.connections[c.ID] = &cp
	return nil
}

func (f *fakeConnections) Delete(ctx context.Context, id int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.connections[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.s.connections, id)
	return nil
}

func (f *fakeConnections) URLsForLink(ctx context.Context, linkID int64) (map[int64]string, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.connectionsErr != nil {
		return nil, f.s.connectionsErr
	}
	out := map[int64]string{}
	l, ok := f.s.links[linkID]
	if !ok {
		return out, nil
	}
	for _, a := range l.RequiredActions {
		if c, ok := f.s.connections[a.ConnectionID]; ok {
			out[c.ID] = c.URL
		}
	}
	return out, nil
}

// --- links ---

type fakeLinks struct{ s *store }

func (f *fakeLinks) Create(ctx context.Context, l *models.LockedLink) (*models.LockedLink, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.linksErr != nil {
		return nil, f.s.linksErr
	}
	for _, x := range f.s.links {
		if x.UnlockCode == l.UnlockCode {
			return nil, common.ErrorConflict
		}
	}
	l.ID = f.s.id()
	l.CreatedAt = time.Now()
	cp := *l
	f.s.links[l.ID] = &cp
	return l, nil
}

func (f *fakeLinks) GetByID(ctx context.Context, id int64) (*models.LockedLink, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.linksErr != nil {
		return nil, f.s.linksErr
	}
	l, ok := f.s.links[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLinks) GetByCode(ctx context.Context, code string) (*models.LockedLink, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.linksErr != nil {
		return nil, f.s.linksErr
	}
	for _, l := range f.s.links {
		if l.UnlockCode == code {
			cp := *l
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeLinks) ListByOwner(ctx context.Context, ownerID int64) ([]*models.LockedLink, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []*models.LockedLink{}
	for _, l := range f.s.links {
		if l.UserID == ownerID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// --- attempts ---

type fakeAttempts struct{ s *store }

func (f *fakeAttempts) Create(ctx context.Context, linkID int64) (*models.UnlockAttempt, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.attemptsErr != nil {
		return nil, f.s.attemptsErr
	}
	a := &models.UnlockAttempt{ID: f.s.id(), LinkID: linkID, CompletedActions: models.CompletedActions{}, CreatedAt: time.Now()}
	cp := *a
	f.s.attempts[a.ID] = &cp
	return a, nil
}

func (f *fakeAttempts) LatestByLink(ctx context.Context, linkID int64) (*models.UnlockAttempt, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.attemptsErr != nil {
		return nil, f.s.attemptsErr
	}
	var best *models.UnlockAttempt
	for _, a := range f.s.attempts {
		if a.LinkID == linkID && (best == nil || a.ID > best.ID) {
			best = a
		}
	}
	if best == nil {
		return nil, common.ErrorNotFound
	}
	cp := *best
	return &cp, nil
}

func (f *fakeAttempts) GetForUpdate(ctx context.Context, id int64) (*models.UnlockAttempt, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.attemptsErr != nil {
		return nil, f.s.attemptsErr
	}
	a, ok := f.s.attempts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *a
	cp.CompletedActions = append(models.CompletedActions{}, a.CompletedActions...)
	return &cp, nil
}

// Update mirrors the SQL guard: unlocked never reverts, unlocked_at is kept.
func (f *fakeAttempts) Update(ctx context.Context, a *models.UnlockAttempt) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	cur, ok := f.s.attempts[a.ID]
	if !ok {
		return common.ErrorNotFound
	}
	cur.CompletedActions = append(models.CompletedActions{}, a.CompletedActions...)
	cur.Unlocked = cur.Unlocked || a.Unlocked
	if cur.UnlockedAt == nil {
		cur.UnlockedAt = a.UnlockedAt
	}
	return nil
}

// --- files ---

type fakeFiles struct{ s *store }

func (f *fakeFiles) Create(ctx context.Context, fa *models.FileAttachment) (*models.FileAttachment, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.filesErr != nil {
		return nil, f.s.filesErr
	}
	fa.ID = f.s.id()
	cp := *fa
	f.s.files[fa.ID] = &cp
	return fa, nil
}

func (f *fakeFiles) ListByLink(ctx context.Context, linkID int64) ([]*models.FileAttachment, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := []*models.FileAttachment{}
	for _, x := range f.s.files {
		if x.LinkID == linkID {
			cp := *x
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeFiles) GetByID(ctx context.Context, id int64) (*models.FileAttachment, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	x, ok := f.s.files[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *x
	return &cp, nil
}

// seedLink stores a link owned by ownerID directly.
func (s *store) seedLink(ownerID int64, code, target string, actions ...models.RequiredAction) *models.LockedLink {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := &models.LockedLink{ID: s.id(), UserID: ownerID, UnlockCode: code, TargetURL: target,
		RequiredActions: models.RequiredActions(actions), CreatedAt: time.Now()}
	s.links[l.ID] = l
	return l
}

func (s *store) seedUser(name string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &models.User{ID: s.id(), Username: name, Email: name + "@example.com",
		BannerColor: models.DefaultBannerColor, AccentColor: models.DefaultAccentColor}
	s.users[u.ID] = u
	return u
}

func (s *store) seedConnection(userID int64, platform, url string) *models.Connection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &models.Connection{ID: s.id(), UserID: userID, Platform: platform, URL: url}
	s.connections[c.ID] = c
	return c
}
