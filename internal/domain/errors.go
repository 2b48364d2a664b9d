package domain

import "errors"

var (
	ErrInvalidAmount         = errors.New("amount must be positive")
	ErrInvalidKind           = errors.New("kind must be payment or request")
	ErrInvalidParties        = errors.New("sender and recipient must be distinct accounts")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrAccountNotFound       = errors.New("account not found")
	ErrProfileNotFound       = errors.New("profile not found")
	ErrPaymentMethodNotFound = errors.New("payment method not found")
)
