package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is a funding instrument registered with the external card
// processor. It never moves the ledgered balance; only the processor token
// and display data are stored here.
type PaymentMethod struct {
	ID             uuid.UUID
	AccountID      uuid.UUID
	ProcessorToken string
	Brand          string
	Last4          string
	ExpMonth       int
	ExpYear        int
	IsDefault      bool
	CreatedAt      time.Time
}
