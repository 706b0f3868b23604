package models

// Reason tags a ledger entry with the action that produced it. The set is
// closed-ish: new tags may appear, but the cooldown gate only ever inspects
// the two cleaning reasons.
type Reason string

const (
	ReasonCoffee       Reason = "coffee"
	ReasonDeposit      Reason = "add money"
	ReasonFoamSystem   Reason = "foam system"
	ReasonDeepCleaning Reason = "deep cleaning"

	// ReasonAdminAdjustment records a manual balance correction by an
	// administrator. Corrections go through the ledger like everything
	// else, keeping the balance/entries invariant intact.
	ReasonAdminAdjustment Reason = "admin adjustment"

	// ReasonImport seeds the starting balance of an account migrated from
	// the legacy CSV bookkeeping.
	ReasonImport Reason = "import"
)
