package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/kaffeekasse/internal/common"
	"github.com/dmitrijs2005/kaffeekasse/internal/dbx"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.LedgerEntry) (*models.LedgerEntry, error) {

	query :=
		`INSERT INTO ledger_entries (account_id, amount, reason, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		entry.AccountID, entry.Amount, string(entry.Reason), entry.CreatedAt).Scan(&entry.ID)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}

	return entry, nil
}

func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID string) ([]*models.LedgerEntry, error) {

	query :=
		`SELECT id, account_id, amount, reason, created_at
		 FROM ledger_entries
		 WHERE account_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}
	defer rows.Close()

	var result []*models.LedgerEntry
	for rows.Next() {
		entry := &models.LedgerEntry{}
		if err := rows.Scan(&entry.ID, &entry.AccountID, &entry.Amount, &entry.Reason, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}

	return result, nil
}

func (r *PostgresRepository) MostRecentByReason(ctx context.Context, reason models.Reason) (*models.LedgerEntry, error) {

	// Entry IDs come from a sequence, so "created_at DESC, id DESC" is a
	// deterministic most-recently-created-first order even when two entries
	// share a timestamp.
	query :=
		`SELECT id, account_id, amount, reason, created_at
		 FROM ledger_entries
		 WHERE reason = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1
		 `

	entry := &models.LedgerEntry{}
	err := r.db.QueryRowContext(ctx, query, string(reason)).Scan(
		&entry.ID, &entry.AccountID, &entry.Amount, &entry.Reason, &entry.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}

	return entry, nil
}

var _ Repository = (*PostgresRepository)(nil)
