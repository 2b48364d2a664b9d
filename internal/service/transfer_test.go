package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftpay-app/swiftpay/internal/domain"
	"github.com/swiftpay-app/swiftpay/internal/storage"
	"github.com/swiftpay-app/swiftpay/internal/storage/memory"
)

func newTestStore(t *testing.T, senderBalance, recipientBalance decimal.Decimal) (*memory.Store, uuid.UUID, uuid.UUID) {
	t.Helper()

	store := memory.NewStore()
	sender := domain.Profile{ID: uuid.New(), Name: "Alice", Email: "alice@example.com", CreatedAt: time.Now()}
	recipient := domain.Profile{ID: uuid.New(), Name: "Bob", Email: "bob@example.com", CreatedAt: time.Now()}
	store.AddAccount(sender, senderBalance)
	store.AddAccount(recipient, recipientBalance)
	return store, sender.ID, recipient.ID
}

func balance(t *testing.T, store storage.Store, id uuid.UUID) decimal.Decimal {
	t.Helper()

	acc, err := store.GetAccount(context.Background(), id)
	require.NoError(t, err)
	return acc.Balance
}

func TestTransfer_PaymentMovesBalanceAndConserves(t *testing.T) {
	t.Parallel()

	store, senderID, recipientID := newTestStore(t, decimal.NewFromInt(100), decimal.NewFromInt(20))
	svc := NewTransferService(store, nil)

	entry, err := svc.Transfer(context.Background(), senderID, recipientID, decimal.NewFromInt(25), domain.KindPayment, "lunch")
	require.NoError(t, err)

	assert.True(t, balance(t, store, senderID).Equal(decimal.NewFromInt(75)))
	assert.True(t, balance(t, store, recipientID).Equal(decimal.NewFromInt(45)))

	// Conservation: total across both accounts is unchanged.
	total := balance(t, store, senderID).Add(balance(t, store, recipientID))
	assert.True(t, total.Equal(decimal.NewFromInt(120)))

	assert.Equal(t, domain.StatusCompleted, entry.Status)
	assert.Equal(t, "Alice", entry.Sender.Name)
	assert.Equal(t, "Bob", entry.Recipient.Name)
	assert.Equal(t, "lunch", entry.Note)
}

func TestTransfer_RequestHasNoBalanceEffect(t *testing.T) {
	t.Parallel()

	store, senderID, recipientID := newTestStore(t, decimal.NewFromInt(100), decimal.NewFromInt(20))
	svc := NewTransferService(store, nil)

	entry, err := svc.Transfer(context.Background(), senderID, recipientID, decimal.NewFromInt(25), domain.KindRequest, "")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, entry.Status)
	assert.True(t, balance(t, store, senderID).Equal(decimal.NewFromInt(100)))
	assert.True(t, balance(t, store, recipientID).Equal(decimal.NewFromInt(20)))
}

func TestTransfer_InvalidAmount(t *testing.T) {
	t.Parallel()

	store, senderID, recipientID := newTestStore(t, decimal.NewFromInt(100), decimal.Zero)
	svc := NewTransferService(store, nil)
	ledger := NewLedgerService(store)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := svc.Transfer(context.Background(), senderID, recipientID, amount, domain.KindPayment, "")
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	}

	// No entry was created for either attempt.
	entries, err := ledger.ListForUser(context.Background(), senderID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTransfer_SelfTransferRejected(t *testing.T) {
	t.Parallel()

	store, senderID, _ := newTestStore(t, decimal.NewFromInt(100), decimal.Zero)
	svc := NewTransferService(store, nil)

	_, err := svc.Transfer(context.Background(), senderID, senderID, decimal.NewFromInt(10), domain.KindPayment, "")
	assert.ErrorIs(t, err, domain.ErrInvalidParties)
}

func TestTransfer_UnknownRecipientRejected(t *testing.T) {
	t.Parallel()

	store, senderID, _ := newTestStore(t, decimal.NewFromInt(100), decimal.Zero)
	svc := NewTransferService(store, nil)

	_, err := svc.Transfer(context.Background(), senderID, uuid.New(), decimal.NewFromInt(10), domain.KindPayment, "")
	assert.ErrorIs(t, err, domain.ErrInvalidParties)
	assert.True(t, balance(t, store, senderID).Equal(decimal.NewFromInt(100)))
}

func TestTransfer_InsufficientFundsFailsClosed(t *testing.T) {
	t.Parallel()

	store, senderID, recipientID := newTestStore(t, decimal.NewFromInt(10), decimal.Zero)
	svc := NewTransferService(store, nil)
	ledger := NewLedgerService(store)

	_, err := svc.Transfer(context.Background(), senderID, recipientID, decimal.NewFromInt(25), domain.KindPayment, "")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	assert.True(t, balance(t, store, senderID).Equal(decimal.NewFromInt(10)))
	assert.True(t, balance(t, store, recipientID).Equal(decimal.Zero))

	entries, err := ledger.ListForUser(context.Background(), senderID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// failingStore wraps a Store and fails a chosen transaction operation, to
// check that a half-applied transfer can never survive.
type failingStore struct {
	storage.Store
	failCreateEntry bool
	failSecondDelta bool
	lockErr         error
}

type failingTx struct {
	storage.Tx
	parent *failingStore
	deltas int
}

func (s *failingStore) Begin(ctx context.Context) (storage.Tx, error) {
	tx, err := s.Store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &failingTx{Tx: tx, parent: s}, nil
}

func (t *failingTx) GetAccountForUpdate(ctx context.Context, id uuid.UUID) (domain.Account, error) {
	if t.parent.lockErr != nil {
		return domain.Account{}, t.parent.lockErr
	}
	return t.Tx.GetAccountForUpdate(ctx, id)
}

func (t *failingTx) CreateEntry(ctx context.Context, entry *domain.TransactionEntry) error {
	if t.parent.failCreateEntry {
		return errors.New("injected ledger failure")
	}
	return t.Tx.CreateEntry(ctx, entry)
}

func (t *failingTx) ApplyBalanceDelta(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	t.deltas++
	if t.parent.failSecondDelta && t.deltas == 2 {
		return decimal.Zero, errors.New("injected credit failure")
	}
	return t.Tx.ApplyBalanceDelta(ctx, id, delta)
}

func TestTransfer_AtomicUnderInjectedFailure(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		store func(storage.Store) storage.Store
	}{
		{"ledger write fails", func(s storage.Store) storage.Store {
			return &failingStore{Store: s, failCreateEntry: true}
		}},
		{"recipient credit fails after sender debit", func(s storage.Store) storage.Store {
			return &failingStore{Store: s, failSecondDelta: true}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mem, senderID, recipientID := newTestStore(t, decimal.NewFromInt(100), decimal.NewFromInt(20))
			svc := NewTransferService(tc.store(mem), nil)

			_, err := svc.Transfer(context.Background(), senderID, recipientID, decimal.NewFromInt(30), domain.KindPayment, "")
			require.Error(t, err)

			// The whole unit rolled back: no debit without credit, no entry.
			assert.True(t, balance(t, mem, senderID).Equal(decimal.NewFromInt(100)))
			assert.True(t, balance(t, mem, recipientID).Equal(decimal.NewFromInt(20)))

			entries, err := NewLedgerService(mem).ListForUser(context.Background(), senderID)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestTransfer_LockFailurePropagatesAsInternal(t *testing.T) {
	t.Parallel()

	mem, senderID, recipientID := newTestStore(t, decimal.NewFromInt(100), decimal.Zero)
	lockErr := errors.New("connection reset by peer")
	svc := NewTransferService(&failingStore{Store: mem, lockErr: lockErr}, nil)

	_, err := svc.Transfer(context.Background(), senderID, recipientID, decimal.NewFromInt(10), domain.KindPayment, "")
	require.Error(t, err)

	// An infrastructure failure while locking is not a client mistake.
	assert.ErrorIs(t, err, lockErr)
	assert.NotErrorIs(t, err, domain.ErrInvalidParties)
}

func TestTransfer_InvalidKindRejected(t *testing.T) {
	t.Parallel()

	store, senderID, recipientID := newTestStore(t, decimal.NewFromInt(100), decimal.Zero)
	svc := NewTransferService(store, nil)

	_, err := svc.Transfer(context.Background(), senderID, recipientID, decimal.NewFromInt(10), domain.TransactionKind("refund"), "")
	assert.ErrorIs(t, err, domain.ErrInvalidKind)
	assert.True(t, balance(t, store, senderID).Equal(decimal.NewFromInt(100)))
}

func TestTransfer_ConcurrentDebitsSerialize(t *testing.T) {
	t.Parallel()

	store, senderID, recipientID := newTestStore(t, decimal.NewFromInt(50), decimal.Zero)
	svc := NewTransferService(store, nil)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Transfer(context.Background(), senderID, recipientID, decimal.NewFromInt(30), domain.KindPayment, "")
		}(i)
	}
	wg.Wait()

	// Exactly one of the two 30-unit payments fits in a 50-unit balance.
	var succeeded, insufficient int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrInsufficientFunds):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, insufficient)

	assert.True(t, balance(t, store, senderID).Equal(decimal.NewFromInt(20)))
	assert.True(t, balance(t, store, recipientID).Equal(decimal.NewFromInt(30)))
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []any
}

func (p *recordingPublisher) Publish(ctx context.Context, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func TestTransfer_PublishesCompletedEventForPaymentsOnly(t *testing.T) {
	t.Parallel()

	store, senderID, recipientID := newTestStore(t, decimal.NewFromInt(100), decimal.Zero)
	pub := &recordingPublisher{}
	svc := NewTransferService(store, pub)

	_, err := svc.Transfer(context.Background(), senderID, recipientID, decimal.NewFromInt(10), domain.KindPayment, "")
	require.NoError(t, err)
	_, err = svc.Transfer(context.Background(), senderID, recipientID, decimal.NewFromInt(10), domain.KindRequest, "")
	require.NoError(t, err)

	assert.Len(t, pub.events, 1)
}

func TestTransfer_PublishFailureDoesNotFailTransfer(t *testing.T) {
	t.Parallel()

	store, senderID, recipientID := newTestStore(t, decimal.NewFromInt(100), decimal.Zero)
	svc := NewTransferService(store, failingPublisher{})

	entry, err := svc.Transfer(context.Background(), senderID, recipientID, decimal.NewFromInt(10), domain.KindPayment, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, entry.Status)
	assert.True(t, balance(t, store, senderID).Equal(decimal.NewFromInt(90)))
}

type failingPublisher struct{}

func (failingPublisher) Publish(ctx context.Context, event any) error {
	return errors.New("broker unavailable")
}
