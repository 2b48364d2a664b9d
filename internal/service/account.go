package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/swiftpay-app/swiftpay/internal/domain"
	"github.com/swiftpay-app/swiftpay/internal/storage"
)

type AccountService struct {
	store storage.Store
}

func NewAccountService(store storage.Store) *AccountService {
	return &AccountService{store: store}
}

// GetBalance reads the account's current durable balance. No caching: every
// call re-fetches stored state.
func (s *AccountService) GetBalance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	acc, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return decimal.Zero, err
		}
		return decimal.Zero, fmt.Errorf("get balance: %w", err)
	}
	return acc.Balance, nil
}
