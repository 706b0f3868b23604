package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a member of the coffee fund. Balance is derived state: at all
// times it must equal the sum of the account's ledger entry amounts
// (including the optional import seed entry). It is mutated only through
// the ledger service.
type Account struct {
	ID           string
	Username     string
	PasswordHash []byte
	Email        string
	Balance      decimal.Decimal
	IsAdmin      bool
	CreatedAt    time.Time
}
