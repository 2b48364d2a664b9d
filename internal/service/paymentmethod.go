package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/swiftpay-app/swiftpay/internal/domain"
	"github.com/swiftpay-app/swiftpay/internal/processor"
	"github.com/swiftpay-app/swiftpay/internal/storage"
)

// CardTokenizer registers a card with the external processor.
type CardTokenizer interface {
	Tokenize(ctx context.Context, card processor.Card) (*processor.TokenizedCard, error)
}

type PaymentMethodService struct {
	store     storage.Store
	tokenizer CardTokenizer
}

func NewPaymentMethodService(store storage.Store, tokenizer CardTokenizer) *PaymentMethodService {
	return &PaymentMethodService{store: store, tokenizer: tokenizer}
}

func (s *PaymentMethodService) List(ctx context.Context, accountID uuid.UUID) ([]domain.PaymentMethod, error) {
	methods, err := s.store.ListPaymentMethods(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	return methods, nil
}

// Attach tokenizes the card with the processor and stores the resulting
// funding instrument. The first method an account attaches becomes its
// default.
func (s *PaymentMethodService) Attach(ctx context.Context, accountID uuid.UUID, card processor.Card) (*domain.PaymentMethod, error) {
	tokenized, err := s.tokenizer.Tokenize(ctx, card)
	if err != nil {
		return nil, fmt.Errorf("tokenize card: %w", err)
	}

	existing, err := s.store.ListPaymentMethods(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}

	method := &domain.PaymentMethod{
		ID:             uuid.New(),
		AccountID:      accountID,
		ProcessorToken: tokenized.Token,
		Brand:          tokenized.Brand,
		Last4:          tokenized.Last4,
		ExpMonth:       tokenized.ExpMonth,
		ExpYear:        tokenized.ExpYear,
		IsDefault:      len(existing) == 0,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.store.CreatePaymentMethod(ctx, method); err != nil {
		return nil, fmt.Errorf("store payment method: %w", err)
	}
	return method, nil
}

func (s *PaymentMethodService) SetDefault(ctx context.Context, accountID, methodID uuid.UUID) error {
	return s.store.SetDefaultPaymentMethod(ctx, accountID, methodID)
}

func (s *PaymentMethodService) Delete(ctx context.Context, accountID, methodID uuid.UUID) error {
	return s.store.DeletePaymentMethod(ctx, accountID, methodID)
}
