// Package exporter dumps accounts and ledger entries to CSV, for offline
// bookkeeping or a spreadsheet, and can push the dumps to an S3 compatible
// object store.
package exporter

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/kaffeekasse/internal/logging"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/repositories/repomanager"
)

type Exporter struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	logger logging.Logger
}

func New(db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger) *Exporter {
	return &Exporter{db: db, rm: rm, logger: logger.With("module", "exporter")}
}

// WriteAccountsCSV writes one row per account, ordered by username.
func (e *Exporter) WriteAccountsCSV(ctx context.Context, w io.Writer) error {

	accounts, err := e.rm.Accounts(e.db).List(ctx)
	if err != nil {
		return fmt.Errorf("listing accounts: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "username", "email", "balance", "is_admin", "created_at"}); err != nil {
		return err
	}

	for _, a := range accounts {
		record := []string{
			a.ID,
			a.Username,
			a.Email,
			a.Balance.StringFixed(2),
			fmt.Sprintf("%t", a.IsAdmin),
			a.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteEntriesCSV writes the full ledger, account by account, each account's
// entries in creation order.
func (e *Exporter) WriteEntriesCSV(ctx context.Context, w io.Writer) error {

	accounts, err := e.rm.Accounts(e.db).List(ctx)
	if err != nil {
		return fmt.Errorf("listing accounts: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "account_id", "username", "amount", "reason", "created_at"}); err != nil {
		return err
	}

	entriesRepo := e.rm.Entries(e.db)
	for _, a := range accounts {
		entries, err := entriesRepo.ListByAccount(ctx, a.ID)
		if err != nil {
			return fmt.Errorf("listing entries for %q: %w", a.Username, err)
		}
		for _, entry := range entries {
			record := []string{
				fmt.Sprintf("%d", entry.ID),
				entry.AccountID,
				a.Username,
				entry.Amount.String(),
				string(entry.Reason),
				entry.CreatedAt.UTC().Format(time.RFC3339),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
