package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/kaffeekasse/internal/common"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/models"
)

// EntrySource is the single ledger query the cooldown gate needs.
type EntrySource interface {
	MostRecentEntry(ctx context.Context, reason models.Reason) (*models.LedgerEntry, error)
}

// CooldownGate decides whether a gated reason may run again. Availability is
// derived from the most recent ledger entry with that reason, system-wide:
// the coffee machine is one shared resource, so the window is not
// per-account. The gate owns no state of its own.
type CooldownGate struct {
	ledger EntrySource
	now    func() time.Time
}

func NewCooldownGate(ledger EntrySource) *CooldownGate {
	return &CooldownGate{ledger: ledger, now: time.Now}
}

// IsAvailable reports whether more than interval has passed since the last
// entry with the given reason. A reason that has never been used is always
// available. The comparison is strict: exactly interval elapsed is still
// unavailable. The clock is sampled once, before the store is queried.
func (g *CooldownGate) IsAvailable(ctx context.Context, reason models.Reason, interval time.Duration) (bool, error) {
	now := g.now()

	last, err := g.ledger.MostRecentEntry(ctx, reason)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return true, nil
		}
		return false, err
	}

	return now.Sub(last.CreatedAt) > interval, nil
}
