// Package services contains server-side business logic. This file implements
// LedgerService, the single choke point through which balances change: every
// change appends an immutable entry and updates the derived balance in one
// database transaction.
package services

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/kaffeekasse/internal/dbx"
	"github.com/dmitrijs2005/kaffeekasse/internal/logging"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/events"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/models"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/repositories/repomanager"
	"github.com/shopspring/decimal"
)

// LedgerService applies balance changes and answers ledger queries.
//
// Same-account writes are serialized with a per-account mutex: the balance
// read-modify-write inside ApplyTransaction must not race with itself.
// Different accounts never contend.
type LedgerService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	publisher   events.Publisher
	topic       string
	logger      logging.Logger
	now         func() time.Time

	muMap map[string]*sync.Mutex
	mapMu sync.Mutex
}

func NewLedgerService(db *sql.DB, m repomanager.RepositoryManager, publisher events.Publisher, topic string, logger logging.Logger) *LedgerService {
	return &LedgerService{
		db:          db,
		repomanager: m,
		publisher:   publisher,
		topic:       topic,
		logger:      logger.With("module", "ledger"),
		now:         time.Now,
		muMap:       make(map[string]*sync.Mutex),
	}
}

func (s *LedgerService) accountLock(accountID string) *sync.Mutex {
	s.mapMu.Lock()
	defer s.mapMu.Unlock()

	if _, exists := s.muMap[accountID]; !exists {
		s.muMap[accountID] = &sync.Mutex{}
	}
	return s.muMap[accountID]
}

// ApplyTransaction adds amount to the account balance (rounded to cents),
// appends a ledger entry carrying the reason and the current timestamp, and
// commits both as one atomic unit. On any failure nothing is applied and the
// wrapped common.ErrPersistence (or common.ErrorNotFound for an unknown
// account) is returned.
//
// The amount sign is taken as-is. Callers own the policy; this is a pure
// apply-and-record primitive.
func (s *LedgerService) ApplyTransaction(ctx context.Context, accountID string, amount decimal.Decimal, reason models.Reason) (decimal.Decimal, error) {

	mu := s.accountLock(accountID)
	mu.Lock()
	defer mu.Unlock()

	var newBalance decimal.Decimal
	var entry *models.LedgerEntry

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		accountRepo := s.repomanager.Accounts(tx)

		account, err := accountRepo.GetByID(ctx, accountID)
		if err != nil {
			return err
		}

		newBalance = models.RoundBalance(account.Balance.Add(amount))

		entry = &models.LedgerEntry{
			AccountID: accountID,
			Amount:    models.RoundEntry(amount),
			Reason:    reason,
			CreatedAt: s.now().UTC(),
		}
		if entry, err = s.repomanager.Entries(tx).Create(ctx, entry); err != nil {
			return err
		}

		return accountRepo.UpdateBalance(ctx, accountID, newBalance)
	})
	if err != nil {
		return decimal.Zero, err
	}

	// Best effort: the transaction is already committed, so a publish
	// failure is logged and otherwise ignored.
	event := events.TransactionRecorded{
		EntryID:    entry.ID,
		AccountID:  accountID,
		Amount:     entry.Amount,
		Reason:     string(reason),
		NewBalance: newBalance,
		OccurredAt: entry.CreatedAt,
	}
	if err := s.publisher.Publish(s.topic, event); err != nil {
		s.logger.Warn(ctx, "failed to publish transaction event", "error", err.Error())
	}

	return newBalance, nil
}

// MostRecentEntry returns the latest entry with the given reason across all
// accounts, or common.ErrorNotFound if the reason has never been used.
func (s *LedgerService) MostRecentEntry(ctx context.Context, reason models.Reason) (*models.LedgerEntry, error) {
	return s.repomanager.Entries(s.db).MostRecentByReason(ctx, reason)
}

// ListEntries returns the account's full history in creation order.
func (s *LedgerService) ListEntries(ctx context.Context, accountID string) ([]*models.LedgerEntry, error) {
	return s.repomanager.Entries(s.db).ListByAccount(ctx, accountID)
}
