package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account holds a user's current ledger balance. Accounts are created at
// signup and their balance is mutated only through the transfer service.
type Account struct {
	ID        uuid.UUID
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
