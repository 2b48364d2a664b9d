package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferCompleted is emitted after a payment transfer commits. Requests do
// not move balance and emit nothing.
type TransferCompleted struct {
	EntryID     uuid.UUID       `json:"entry_id"`
	SenderID    uuid.UUID       `json:"sender_id"`
	RecipientID uuid.UUID       `json:"recipient_id"`
	Amount      decimal.Decimal `json:"amount"`
	OccurredAt  time.Time       `json:"occurred_at"`
}
