package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/swiftpay-app/swiftpay/internal/middleware"
)

// GetBalance handles GET /api/me/balance.
func (h *Handler) GetBalance(c *fiber.Ctx) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return UnauthorizedError(c)
	}

	balance, err := h.accounts.GetBalance(c.UserContext(), callerID)
	if err != nil {
		if !knownDomainError(err) {
			slog.Error("get balance", "error", err, "account_id", callerID)
		}
		return DomainError(c, err)
	}

	return OK(c, balanceResponse{AccountID: callerID, Balance: balance})
}

// ListTransactions handles GET /api/me/transactions. Entries come back
// newest first with both parties resolved to display records.
func (h *Handler) ListTransactions(c *fiber.Ctx) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return UnauthorizedError(c)
	}

	entries, err := h.ledger.ListForUser(c.UserContext(), callerID)
	if err != nil {
		slog.Error("list transactions", "error", err, "account_id", callerID)
		return DomainError(c, err)
	}

	resp := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toEntryResponse(e))
	}
	return OK(c, resp)
}
