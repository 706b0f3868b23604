package exporter

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dmitrijs2005/kaffeekasse/internal/common"
	"github.com/dmitrijs2005/kaffeekasse/internal/dbx"
	"github.com/dmitrijs2005/kaffeekasse/internal/logging"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/models"
	accountsrepo "github.com/dmitrijs2005/kaffeekasse/internal/server/repositories/accounts"
	entriesrepo "github.com/dmitrijs2005/kaffeekasse/internal/server/repositories/entries"
	refreshrepo "github.com/dmitrijs2005/kaffeekasse/internal/server/repositories/refreshtokens"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAccounts struct {
	accounts []*models.Account
}

func (s *stubAccounts) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	return a, nil
}

func (s *stubAccounts) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return nil, common.ErrorNotFound
}

func (s *stubAccounts) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return nil, common.ErrorNotFound
}

func (s *stubAccounts) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return nil, common.ErrorNotFound
}

func (s *stubAccounts) List(ctx context.Context) ([]*models.Account, error) {
	return s.accounts, nil
}

func (s *stubAccounts) UpdateBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	return nil
}

type stubEntries struct {
	byAccount map[string][]*models.LedgerEntry
}

func (s *stubEntries) Create(ctx context.Context, e *models.LedgerEntry) (*models.LedgerEntry, error) {
	return e, nil
}

func (s *stubEntries) ListByAccount(ctx context.Context, accountID string) ([]*models.LedgerEntry, error) {
	return s.byAccount[accountID], nil
}

func (s *stubEntries) MostRecentByReason(ctx context.Context, reason models.Reason) (*models.LedgerEntry, error) {
	return nil, common.ErrorNotFound
}

type stubRefresh struct{}

func (stubRefresh) Create(ctx context.Context, accountID string, token string, validity time.Duration) error {
	return nil
}

func (stubRefresh) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	return nil, common.ErrorNotFound
}

func (stubRefresh) Delete(ctx context.Context, token string) error { return nil }

type stubManager struct {
	accounts *stubAccounts
	entries  *stubEntries
}

func (m *stubManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *stubManager) Accounts(db dbx.DBTX) accountsrepo.Repository { return m.accounts }

func (m *stubManager) Entries(db dbx.DBTX) entriesrepo.Repository { return m.entries }

func (m *stubManager) RefreshTokens(db dbx.DBTX) refreshrepo.Repository { return stubRefresh{} }

func newTestExporter(rm *stubManager) *Exporter {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return New(nil, rm, logger)
}

func TestWriteAccountsCSV(t *testing.T) {
	created := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	rm := &stubManager{
		accounts: &stubAccounts{accounts: []*models.Account{
			{ID: "acc-1", Username: "martin", Email: "m@example.org", Balance: decimal.RequireFromString("8.50"), CreatedAt: created},
			{ID: "acc-2", Username: "oliver", Email: "o@example.org", Balance: decimal.RequireFromString("-2.00"), IsAdmin: true, CreatedAt: created},
		}},
		entries: &stubEntries{},
	}

	var buf bytes.Buffer
	require.NoError(t, newTestExporter(rm).WriteAccountsCSV(context.Background(), &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"id", "username", "email", "balance", "is_admin", "created_at"}, records[0])
	assert.Equal(t, []string{"acc-1", "martin", "m@example.org", "8.50", "false", "2026-01-15T10:30:00Z"}, records[1])
	assert.Equal(t, "true", records[2][4])
}

func TestWriteEntriesCSV(t *testing.T) {
	ts := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	rm := &stubManager{
		accounts: &stubAccounts{accounts: []*models.Account{
			{ID: "acc-1", Username: "martin"},
		}},
		entries: &stubEntries{byAccount: map[string][]*models.LedgerEntry{
			"acc-1": {
				{ID: 1, AccountID: "acc-1", Amount: decimal.RequireFromString("10.00"), Reason: models.ReasonDeposit, CreatedAt: ts},
				{ID: 2, AccountID: "acc-1", Amount: decimal.RequireFromString("-1.50"), Reason: models.ReasonCoffee, CreatedAt: ts},
			},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, newTestExporter(rm).WriteEntriesCSV(context.Background(), &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"1", "acc-1", "martin", "10", "add money", "2026-01-15T10:30:00Z"}, records[1])
	assert.Equal(t, "coffee", records[2][4])
}

func TestWriteCSVEmptyDatabase(t *testing.T) {
	rm := &stubManager{accounts: &stubAccounts{}, entries: &stubEntries{}}

	var buf bytes.Buffer
	require.NoError(t, newTestExporter(rm).WriteAccountsCSV(context.Background(), &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1, "header only")
}
