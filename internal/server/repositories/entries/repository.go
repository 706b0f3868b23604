package entries

import (
	"context"

	"github.com/dmitrijs2005/kaffeekasse/internal/server/models"
)

type Repository interface {
	// Create appends an entry and fills in its database-assigned ID and
	// timestamp. Entries are immutable once created.
	Create(ctx context.Context, entry *models.LedgerEntry) (*models.LedgerEntry, error)

	// ListByAccount returns all entries of one account in creation order.
	ListByAccount(ctx context.Context, accountID string) ([]*models.LedgerEntry, error)

	// MostRecentByReason returns the latest entry with the given reason
	// across all accounts, or common.ErrorNotFound if none exists yet.
	// Timestamp ties are broken by insertion order.
	MostRecentByReason(ctx context.Context, reason models.Reason) (*models.LedgerEntry, error)
}
