package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindPayment TransactionKind = "payment"
	KindRequest TransactionKind = "request"
)

func (k TransactionKind) Valid() bool {
	return k == KindPayment || k == KindRequest
}

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusRejected  TransactionStatus = "rejected"
)

// StatusForKind returns the status a freshly created entry carries: a payment
// has its balance effect applied in the same transaction, so it is completed
// immediately; a request solicits funds and stays pending.
func StatusForKind(kind TransactionKind) TransactionStatus {
	if kind == KindPayment {
		return StatusCompleted
	}
	return StatusPending
}

// TransactionEntry is one recorded transfer or request between two accounts.
// The amount is always positive; direction is carried by the sender and
// recipient roles. Entries are immutable once written.
type TransactionEntry struct {
	ID          uuid.UUID
	SenderID    uuid.UUID
	RecipientID uuid.UUID
	Amount      decimal.Decimal
	Kind        TransactionKind
	Status      TransactionStatus
	Note        string
	CreatedAt   time.Time
}

// Party is the display projection of an account, resolved at read time.
type Party struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
}

// ResolvedEntry is a TransactionEntry with both parties resolved to display
// records for the caller.
type ResolvedEntry struct {
	TransactionEntry
	Sender    Party
	Recipient Party
}
