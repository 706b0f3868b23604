package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one immutable balance change. Entries are append-only:
// never updated or deleted. ID is assigned by the database sequence, so
// insertion order is always recoverable even when timestamps collide.
type LedgerEntry struct {
	ID        int64
	AccountID string
	Amount    decimal.Decimal
	Reason    Reason
	CreatedAt time.Time
}
