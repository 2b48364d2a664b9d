package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/swiftpay-app/swiftpay/internal/config"
	"github.com/swiftpay-app/swiftpay/internal/domain"
	"github.com/swiftpay-app/swiftpay/internal/events"
	"github.com/swiftpay-app/swiftpay/internal/storage"
)

// EventPublisher emits domain events after a transfer commits. Publishing is
// best effort: the ledger, not the broker, is the source of truth.
type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

// TransferService is the single orchestration point that keeps the ledger and
// the account balances consistent. The entry insert and both balance deltas
// of a payment happen inside one storage transaction.
type TransferService struct {
	store     storage.Store
	publisher EventPublisher
}

// NewTransferService creates a TransferService. publisher may be nil.
func NewTransferService(store storage.Store, publisher EventPublisher) *TransferService {
	return &TransferService{store: store, publisher: publisher}
}

// Transfer validates the request, records a ledger entry and, for payments,
// moves the amount between the two balances. A payment is created completed;
// a request is created pending and has no balance effect.
//
// Negative balances are not permitted: a payment exceeding the sender's
// balance fails with domain.ErrInsufficientFunds while the sender's row is
// locked, so the check and the debit cannot be interleaved with a concurrent
// transfer.
func (s *TransferService) Transfer(ctx context.Context, senderID, recipientID uuid.UUID, amount decimal.Decimal, kind domain.TransactionKind, note string) (*domain.ResolvedEntry, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidKind, kind)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}
	if senderID == recipientID {
		return nil, domain.ErrInvalidParties
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transfer: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock both accounts in ascending id order so opposite-direction
	// transfers between the same pair cannot deadlock.
	firstID, secondID := senderID, recipientID
	if secondID.String() < firstID.String() {
		firstID, secondID = secondID, firstID
	}

	accounts := make(map[uuid.UUID]domain.Account, 2)
	for _, id := range []uuid.UUID{firstID, secondID} {
		acc, err := tx.GetAccountForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrAccountNotFound) {
				return nil, fmt.Errorf("%w: account %s", domain.ErrInvalidParties, id)
			}
			return nil, fmt.Errorf("lock account %s: %w", id, err)
		}
		accounts[id] = acc
	}

	if kind == domain.KindPayment && accounts[senderID].Balance.LessThan(amount) {
		return nil, domain.ErrInsufficientFunds
	}

	entry := &domain.TransactionEntry{
		ID:          uuid.New(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Amount:      amount,
		Kind:        kind,
		Status:      domain.StatusForKind(kind),
		Note:        note,
		CreatedAt:   time.Now().UTC(),
	}

	// Ledger write first: a balance effect must never exist without its
	// recorded entry. Both live in the same transaction, so a failure at any
	// point rolls back the whole unit.
	if err := tx.CreateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	if kind == domain.KindPayment {
		if _, err := tx.ApplyBalanceDelta(ctx, senderID, amount.Neg()); err != nil {
			return nil, fmt.Errorf("debit sender: %w", err)
		}
		if _, err := tx.ApplyBalanceDelta(ctx, recipientID, amount); err != nil {
			return nil, fmt.Errorf("credit recipient: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transfer: %w", err)
	}

	resolved := s.resolve(ctx, entry)

	if s.publisher != nil && kind == domain.KindPayment {
		s.publishCompleted(ctx, entry)
	}

	return resolved, nil
}

func (s *TransferService) resolve(ctx context.Context, entry *domain.TransactionEntry) *domain.ResolvedEntry {
	profiles, err := s.store.GetProfiles(ctx, []uuid.UUID{entry.SenderID, entry.RecipientID})
	if err != nil {
		slog.Error("resolve transfer parties", "error", err, "entry_id", entry.ID)
		profiles = nil
	}
	return resolveEntry(*entry, profiles)
}

func (s *TransferService) publishCompleted(ctx context.Context, entry *domain.TransactionEntry) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.PublishTimeout)
	defer cancel()

	event := events.TransferCompleted{
		EntryID:     entry.ID,
		SenderID:    entry.SenderID,
		RecipientID: entry.RecipientID,
		Amount:      entry.Amount,
		OccurredAt:  entry.CreatedAt,
	}
	if err := s.publisher.Publish(pubCtx, event); err != nil {
		slog.Error("publish transfer completed", "error", err, "entry_id", entry.ID)
	}
}
