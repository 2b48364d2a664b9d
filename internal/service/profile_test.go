package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftpay-app/swiftpay/internal/domain"
	"github.com/swiftpay-app/swiftpay/internal/storage"
)

func TestProfileUpdate_AppliesChangedFields(t *testing.T) {
	t.Parallel()

	store, senderID, _ := newTestStore(t, decimal.Zero, decimal.Zero)
	svc := NewProfileService(store)

	name := "Alice Liddell"
	updated, err := svc.Update(context.Background(), senderID, storage.ProfileUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", updated.Name)
	assert.Equal(t, "alice@example.com", updated.Email)
}

func TestProfileGet_UnknownProfile(t *testing.T) {
	t.Parallel()

	store, _, _ := newTestStore(t, decimal.Zero, decimal.Zero)
	svc := NewProfileService(store)

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestProfileUpdate_UnknownProfile(t *testing.T) {
	t.Parallel()

	store, _, _ := newTestStore(t, decimal.Zero, decimal.Zero)
	svc := NewProfileService(store)

	name := "Nobody"
	_, err := svc.Update(context.Background(), uuid.New(), storage.ProfileUpdate{Name: &name})
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}
