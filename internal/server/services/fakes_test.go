package services

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/kaffeekasse/internal/common"
	"github.com/dmitrijs2005/kaffeekasse/internal/dbx"
	"github.com/dmitrijs2005/kaffeekasse/internal/logging"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/models"
	accountsrepo "github.com/dmitrijs2005/kaffeekasse/internal/server/repositories/accounts"
	entriesrepo "github.com/dmitrijs2005/kaffeekasse/internal/server/repositories/entries"
	refreshrepo "github.com/dmitrijs2005/kaffeekasse/internal/server/repositories/refreshtokens"
	"github.com/shopspring/decimal"
)

// --- shared helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

// --- in-memory fakes ---
//
// The fakes keep state in plain maps/slices. The services under test are
// responsible for serializing access (per-account and per-reason locks), so
// running the tests with -race doubles as a check of that discipline.

type fakeAccountsRepo struct {
	accounts  map[string]*models.Account
	updateErr error
}

func newFakeAccountsRepo(accounts ...*models.Account) *fakeAccountsRepo {
	m := make(map[string]*models.Account, len(accounts))
	for _, a := range accounts {
		m[a.ID] = a
	}
	return &fakeAccountsRepo{accounts: m}
}

func (f *fakeAccountsRepo) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	f.accounts[a.ID] = a
	return a, nil
}

func (f *fakeAccountsRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	clone := *a
	return &clone, nil
}

func (f *fakeAccountsRepo) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	for _, a := range f.accounts {
		if a.Username == username {
			clone := *a
			return &clone, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccountsRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	for _, a := range f.accounts {
		if a.Email == email {
			clone := *a
			return &clone, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccountsRepo) List(ctx context.Context) ([]*models.Account, error) {
	var result []*models.Account
	for _, a := range f.accounts {
		clone := *a
		result = append(result, &clone)
	}
	return result, nil
}

func (f *fakeAccountsRepo) UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	a, ok := f.accounts[id]
	if !ok {
		return common.ErrorNotFound
	}
	a.Balance = balance
	return nil
}

type fakeEntriesRepo struct {
	entries   []*models.LedgerEntry
	nextID    int64
	createErr error
}

func (f *fakeEntriesRepo) Create(ctx context.Context, e *models.LedgerEntry) (*models.LedgerEntry, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	e.ID = f.nextID
	clone := *e
	f.entries = append(f.entries, &clone)
	return e, nil
}

func (f *fakeEntriesRepo) ListByAccount(ctx context.Context, accountID string) ([]*models.LedgerEntry, error) {
	var result []*models.LedgerEntry
	for _, e := range f.entries {
		if e.AccountID == accountID {
			clone := *e
			result = append(result, &clone)
		}
	}
	return result, nil
}

func (f *fakeEntriesRepo) MostRecentByReason(ctx context.Context, reason models.Reason) (*models.LedgerEntry, error) {
	var best *models.LedgerEntry
	for _, e := range f.entries {
		if e.Reason != reason {
			continue
		}
		if best == nil || e.CreatedAt.After(best.CreatedAt) ||
			(e.CreatedAt.Equal(best.CreatedAt) && e.ID > best.ID) {
			best = e
		}
	}
	if best == nil {
		return nil, common.ErrorNotFound
	}
	clone := *best
	return &clone, nil
}

type fakeRefreshRepo struct {
	tokens    map[string]*models.RefreshToken
	createErr error
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{tokens: make(map[string]*models.RefreshToken)}
}

func (f *fakeRefreshRepo) Create(ctx context.Context, accountID string, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.tokens[token] = &models.RefreshToken{Token: token, AccountID: accountID, Expires: time.Now().Add(validity)}
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	t, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	clone := *t
	return &clone, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

type fakeRepoManager struct {
	accounts *fakeAccountsRepo
	entries  *fakeEntriesRepo
	refresh  *fakeRefreshRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Accounts(db dbx.DBTX) accountsrepo.Repository { return m.accounts }

func (m *fakeRepoManager) Entries(db dbx.DBTX) entriesrepo.Repository { return m.entries }

func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshrepo.Repository { return m.refresh }

// --- event capture ---

type capturingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []any
	err    error
}

func (p *capturingPublisher) Publish(topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}
