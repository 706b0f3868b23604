package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/kaffeekasse/internal/common"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/config"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/models"
	"github.com/shopspring/decimal"
)

// Ledger is the apply primitive the action catalog builds on.
type Ledger interface {
	ApplyTransaction(ctx context.Context, accountID string, amount decimal.Decimal, reason models.Reason) (decimal.Decimal, error)
}

// Gate answers availability questions for gated reasons.
type Gate interface {
	IsAvailable(ctx context.Context, reason models.Reason, interval time.Duration) (bool, error)
}

// Actions is the fixed vocabulary of balance-changing operations. Prices,
// rewards and cooldown intervals come from the immutable process config.
//
// Gated actions hold a per-reason mutex across the availability check and
// the ledger write; without it two concurrent callers could both observe an
// open window and both collect the reward.
type Actions struct {
	ledger Ledger
	gate   Gate
	cfg    *config.Config

	reasonMu map[models.Reason]*sync.Mutex
}

func NewActions(ledger Ledger, gate Gate, cfg *config.Config) *Actions {
	return &Actions{
		ledger: ledger,
		gate:   gate,
		cfg:    cfg,
		reasonMu: map[models.Reason]*sync.Mutex{
			models.ReasonFoamSystem:   {},
			models.ReasonDeepCleaning: {},
		},
	}
}

// TakeCoffee charges the configured price. There is deliberately no
// balance-sufficiency check: members may run a tab, so the balance is
// allowed to go negative.
func (a *Actions) TakeCoffee(ctx context.Context, accountID string) (decimal.Decimal, error) {
	return a.ledger.ApplyTransaction(ctx, accountID, a.cfg.CoffeePrice.Neg(), models.ReasonCoffee)
}

// Deposit adds a caller-specified amount. The amount must be positive and
// must not carry more than cent precision, otherwise common.ErrInvalidAmount
// is returned before the ledger is touched.
func (a *Actions) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() || !amount.Equal(models.RoundBalance(amount)) {
		return decimal.Zero, common.ErrInvalidAmount
	}
	return a.ledger.ApplyTransaction(ctx, accountID, amount, models.ReasonDeposit)
}

// FoamSystem rewards cleaning the foam system, at most once per configured
// interval system-wide.
func (a *Actions) FoamSystem(ctx context.Context, accountID string) (decimal.Decimal, error) {
	return a.gated(ctx, accountID, models.ReasonFoamSystem, a.cfg.FoamSystemInterval, a.cfg.FoamSystemReward)
}

// DeepCleaning rewards a deep cleaning, at most once per configured interval
// system-wide.
func (a *Actions) DeepCleaning(ctx context.Context, accountID string) (decimal.Decimal, error) {
	return a.gated(ctx, accountID, models.ReasonDeepCleaning, a.cfg.DeepCleaningInterval, a.cfg.DeepCleaningReward)
}

// AdminAdjust corrects an account balance by a signed amount. Corrections
// are ordinary ledger transactions with their own reason tag; there is no
// way to set a balance without leaving an entry behind.
func (a *Actions) AdminAdjust(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsZero() {
		return decimal.Zero, common.ErrInvalidAmount
	}
	return a.ledger.ApplyTransaction(ctx, accountID, amount, models.ReasonAdminAdjustment)
}

func (a *Actions) gated(ctx context.Context, accountID string, reason models.Reason, interval time.Duration, reward decimal.Decimal) (decimal.Decimal, error) {
	mu := a.reasonMu[reason]
	mu.Lock()
	defer mu.Unlock()

	available, err := a.gate.IsAvailable(ctx, reason, interval)
	if err != nil {
		return decimal.Zero, err
	}
	if !available {
		// Denied: no ledger write, no side effects.
		return decimal.Zero, common.ErrCooldownActive
	}

	return a.ledger.ApplyTransaction(ctx, accountID, reward, reason)
}
