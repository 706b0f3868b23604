package models

import "github.com/shopspring/decimal"

// Balances are kept at cent precision; stored entry amounts keep up to five
// fractional digits so that fractional rewards survive unrounded.
const (
	BalancePrecision = 2
	EntryPrecision   = 5
)

// RoundBalance rounds a running balance to cent precision.
func RoundBalance(d decimal.Decimal) decimal.Decimal {
	return d.Round(BalancePrecision)
}

// RoundEntry rounds a ledger entry amount to its stored precision.
func RoundEntry(d decimal.Decimal) decimal.Decimal {
	return d.Round(EntryPrecision)
}
