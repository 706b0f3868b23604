// Package importer loads the legacy CSV bookkeeping into the database.
//
// The legacy file has no header and six columns:
//
//	id, username, password, email, balance, rating
//
// Lines starting with '#' are comments. The balance column counts cents owed,
// so the sign is flipped and the value divided by 100 to get a credit in
// euros. The first data row is the fund administrator. The rating column is
// not carried over.
package importer

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dmitrijs2005/kaffeekasse/internal/logging"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/events"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/models"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const legacyColumns = 6

// Ledger is the apply primitive used to seed starting balances.
type Ledger interface {
	ApplyTransaction(ctx context.Context, accountID string, amount decimal.Decimal, reason models.Reason) (decimal.Decimal, error)
}

type Importer struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	ledger Ledger
	logger logging.Logger
}

func New(db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger) *Importer {
	return &Importer{
		db:     db,
		rm:     rm,
		ledger: services.NewLedgerService(db, rm, events.NoopPublisher{}, "", logger),
		logger: logger.With("module", "importer"),
	}
}

// Run reads the legacy CSV and creates one account per row. Accounts start
// at zero; a non-zero legacy balance is applied as an ordinary ledger
// transaction afterwards, so the balance/entries invariant holds for
// imported accounts too. Returns the number of accounts created.
func (i *Importer) Run(ctx context.Context, r io.Reader) (int, error) {

	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = legacyColumns
	reader.TrimLeadingSpace = true

	repo := i.rm.Accounts(i.db)

	imported := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("reading legacy csv: %w", err)
		}

		username, password, email := record[1], record[2], record[3]

		cents, err := decimal.NewFromString(record[4])
		if err != nil {
			return imported, fmt.Errorf("row %d: bad balance %q: %w", imported+1, record[4], err)
		}
		seed := models.RoundBalance(cents.Div(decimal.NewFromInt(100)).Neg())

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return imported, fmt.Errorf("row %d: hashing password: %w", imported+1, err)
		}

		account := &models.Account{
			ID:           uuid.New().String(),
			Username:     username,
			PasswordHash: hash,
			Email:        email,
			Balance:      decimal.Zero,
			IsAdmin:      imported == 0,
		}

		if _, err := repo.Create(ctx, account); err != nil {
			return imported, fmt.Errorf("row %d: creating account %q: %w", imported+1, username, err)
		}

		if !seed.IsZero() {
			if _, err := i.ledger.ApplyTransaction(ctx, account.ID, seed, models.ReasonImport); err != nil {
				return imported, fmt.Errorf("row %d: seeding balance for %q: %w", imported+1, username, err)
			}
		}

		i.logger.Info(ctx, "Imported account", "username", username, "balance", seed.String())
		imported++
	}

	return imported, nil
}
