package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/swiftpay-app/swiftpay/internal/domain"
	"github.com/swiftpay-app/swiftpay/internal/middleware"
)

// CreateTransfer handles POST /api/transfers. The sender is always the
// authenticated caller.
func (h *Handler) CreateTransfer(c *fiber.Ctx) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return UnauthorizedError(c)
	}

	var req createTransferRequest
	if err := c.BodyParser(&req); err != nil {
		return BadRequestError(c, "invalid_body", "invalid request body")
	}

	entry, err := h.transfers.Transfer(c.UserContext(), callerID, req.RecipientID, req.Amount, domain.TransactionKind(req.Kind), req.Note)
	if err != nil {
		if !knownDomainError(err) {
			slog.Error("create transfer", "error", err, "sender_id", callerID)
		}
		return DomainError(c, err)
	}

	return Created(c, toEntryResponse(*entry))
}
