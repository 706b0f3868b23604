// Package events publishes ledger transaction events for external consumers
// (e.g. a kitchen display or chat bridge). Publishing is best-effort: a
// failed publish never fails or rolls back the transaction it describes.
package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecorded is emitted after a ledger transaction has been
// committed.
type TransactionRecorded struct {
	EntryID    int64           `json:"entry_id"`
	AccountID  string          `json:"account_id"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason"`
	NewBalance decimal.Decimal `json:"new_balance"`
	OccurredAt time.Time       `json:"occurred_at"`
}

type Publisher interface {
	Publish(topic string, event any) error
}

// NoopPublisher drops all events. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(topic string, event any) error { return nil }
