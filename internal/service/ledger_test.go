package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftpay-app/swiftpay/internal/domain"
)

func TestListForUser_NewestFirstBothRoles(t *testing.T) {
	t.Parallel()

	store, aliceID, bobID := newTestStore(t, decimal.NewFromInt(100), decimal.NewFromInt(100))
	svc := NewTransferService(store, nil)
	ledger := NewLedgerService(store)

	ctx := context.Background()
	first, err := svc.Transfer(ctx, aliceID, bobID, decimal.NewFromInt(10), domain.KindPayment, "first")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	second, err := svc.Transfer(ctx, bobID, aliceID, decimal.NewFromInt(5), domain.KindRequest, "second")
	require.NoError(t, err)

	entries, err := ledger.ListForUser(ctx, aliceID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Descending by creation time; Alice appears as sender and as recipient.
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, first.ID, entries[1].ID)
	assert.Equal(t, aliceID, entries[0].Recipient.ID)
	assert.Equal(t, aliceID, entries[1].Sender.ID)
}

func TestListForUser_MissingProfileGetsPlaceholder(t *testing.T) {
	t.Parallel()

	store, aliceID, bobID := newTestStore(t, decimal.NewFromInt(100), decimal.Zero)
	svc := NewTransferService(store, nil)
	ledger := NewLedgerService(store)

	ctx := context.Background()
	_, err := svc.Transfer(ctx, aliceID, bobID, decimal.NewFromInt(10), domain.KindPayment, "")
	require.NoError(t, err)

	// Bob deletes his profile; Alice's history must still resolve.
	store.RemoveProfile(bobID)

	entries, err := ledger.ListForUser(ctx, aliceID)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, "Alice", entries[0].Sender.Name)
	assert.Equal(t, "Unknown", entries[0].Recipient.Name)
	assert.Equal(t, "", entries[0].Recipient.Avatar)
	assert.Equal(t, bobID, entries[0].Recipient.ID)
}

func TestListForUser_IdempotentReads(t *testing.T) {
	t.Parallel()

	store, aliceID, bobID := newTestStore(t, decimal.NewFromInt(100), decimal.Zero)
	svc := NewTransferService(store, nil)
	ledger := NewLedgerService(store)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := svc.Transfer(ctx, aliceID, bobID, decimal.NewFromInt(int64(i+1)), domain.KindPayment, "")
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	firstRead, err := ledger.ListForUser(ctx, aliceID)
	require.NoError(t, err)
	secondRead, err := ledger.ListForUser(ctx, aliceID)
	require.NoError(t, err)

	require.Equal(t, len(firstRead), len(secondRead))
	for i := range firstRead {
		assert.Equal(t, firstRead[i].ID, secondRead[i].ID)
	}
}

func TestListForUser_EmptyHistory(t *testing.T) {
	t.Parallel()

	store, aliceID, _ := newTestStore(t, decimal.Zero, decimal.Zero)
	ledger := NewLedgerService(store)

	entries, err := ledger.ListForUser(context.Background(), aliceID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// An account outside the store has an empty history too, not an error.
	entries, err = ledger.ListForUser(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
