// Package storage defines the persistence contracts the services depend on.
// Two implementations exist: postgres (production) and memory (tests, local
// runs without a database).
package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/swiftpay-app/swiftpay/internal/domain"
)

// Tx is a storage transaction spanning the ledger write and the paired
// balance deltas of a transfer. Everything done through a Tx becomes visible
// atomically on Commit and is discarded on Rollback. Rollback after a
// successful Commit is a no-op.
type Tx interface {
	// GetAccountForUpdate reads an account and locks it against concurrent
	// balance updates until the transaction ends. Returns
	// domain.ErrAccountNotFound if the account does not exist.
	GetAccountForUpdate(ctx context.Context, id uuid.UUID) (domain.Account, error)

	// ApplyBalanceDelta atomically adds delta (positive or negative) to the
	// account balance and returns the new balance. It performs pure addition;
	// balance policy belongs to the caller.
	ApplyBalanceDelta(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)

	// CreateEntry appends a transaction entry to the ledger.
	CreateEntry(ctx context.Context, entry *domain.TransactionEntry) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// ProfileUpdate carries the mutable profile fields; nil means unchanged.
type ProfileUpdate struct {
	Name   *string
	Avatar *string
	Phone  *string
}

type Store interface {
	Begin(ctx context.Context) (Tx, error)

	GetAccount(ctx context.Context, id uuid.UUID) (domain.Account, error)

	// ListEntriesForAccount returns entries where the account is sender or
	// recipient, newest first. Each call re-reads current state.
	ListEntriesForAccount(ctx context.Context, accountID uuid.UUID) ([]domain.TransactionEntry, error)

	GetProfile(ctx context.Context, id uuid.UUID) (domain.Profile, error)
	GetProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Profile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (domain.Profile, error)
	SearchProfiles(ctx context.Context, query string, limit int) ([]domain.Profile, error)

	ListPaymentMethods(ctx context.Context, accountID uuid.UUID) ([]domain.PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, method *domain.PaymentMethod) error
	SetDefaultPaymentMethod(ctx context.Context, accountID, methodID uuid.UUID) error
	DeletePaymentMethod(ctx context.Context, accountID, methodID uuid.UUID) error
}
