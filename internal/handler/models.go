package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/swiftpay-app/swiftpay/internal/domain"
)

type createTransferRequest struct {
	RecipientID uuid.UUID       `json:"recipient_id"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        string          `json:"kind"`
	Note        string          `json:"note"`
}

type entryResponse struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Kind      string          `json:"kind"`
	Status    string          `json:"status"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	Sender    domain.Party    `json:"sender"`
	Recipient domain.Party    `json:"recipient"`
}

func toEntryResponse(e domain.ResolvedEntry) entryResponse {
	return entryResponse{
		ID:        e.ID,
		Amount:    e.Amount,
		Kind:      string(e.Kind),
		Status:    string(e.Status),
		Note:      e.Note,
		CreatedAt: e.CreatedAt,
		Sender:    e.Sender,
		Recipient: e.Recipient,
	}
}

type balanceResponse struct {
	AccountID uuid.UUID       `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

type profileResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Avatar string    `json:"avatar"`
	Phone  string    `json:"phone,omitempty"`
}

func toProfileResponse(p domain.Profile) profileResponse {
	return profileResponse{
		ID:     p.ID,
		Name:   p.Name,
		Email:  p.Email,
		Avatar: p.Avatar,
		Phone:  p.Phone,
	}
}

type updateProfileRequest struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
	Phone  *string `json:"phone"`
}

type attachCardRequest struct {
	Number   string `json:"number"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
	CVC      string `json:"cvc"`
}

// paymentMethodResponse never exposes the processor token.
type paymentMethodResponse struct {
	ID        uuid.UUID `json:"id"`
	Brand     string    `json:"brand"`
	Last4     string    `json:"last4"`
	ExpMonth  int       `json:"exp_month"`
	ExpYear   int       `json:"exp_year"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

func toPaymentMethodResponse(m domain.PaymentMethod) paymentMethodResponse {
	return paymentMethodResponse{
		ID:        m.ID,
		Brand:     m.Brand,
		Last4:     m.Last4,
		ExpMonth:  m.ExpMonth,
		ExpYear:   m.ExpYear,
		IsDefault: m.IsDefault,
		CreatedAt: m.CreatedAt,
	}
}
