package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/swiftpay-app/swiftpay/internal/middleware"
	"github.com/swiftpay-app/swiftpay/internal/processor"
)

// ListPaymentMethods handles GET /api/me/payment-methods.
func (h *Handler) ListPaymentMethods(c *fiber.Ctx) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return UnauthorizedError(c)
	}

	methods, err := h.paymentMethods.List(c.UserContext(), callerID)
	if err != nil {
		slog.Error("list payment methods", "error", err, "account_id", callerID)
		return DomainError(c, err)
	}

	resp := make([]paymentMethodResponse, 0, len(methods))
	for _, m := range methods {
		resp = append(resp, toPaymentMethodResponse(m))
	}
	return OK(c, resp)
}

// AttachPaymentMethod handles POST /api/me/payment-methods. The card is
// tokenized with the processor; only the token and display data are stored.
func (h *Handler) AttachPaymentMethod(c *fiber.Ctx) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return UnauthorizedError(c)
	}

	var req attachCardRequest
	if err := c.BodyParser(&req); err != nil {
		return BadRequestError(c, "invalid_body", "invalid request body")
	}
	if req.Number == "" || req.ExpMonth < 1 || req.ExpMonth > 12 || req.ExpYear == 0 {
		return BadRequestError(c, "invalid_card", "card number and expiry are required")
	}

	method, err := h.paymentMethods.Attach(c.UserContext(), callerID, processor.Card{
		Number:   req.Number,
		ExpMonth: req.ExpMonth,
		ExpYear:  req.ExpYear,
		CVC:      req.CVC,
	})
	if err != nil {
		slog.Error("attach payment method", "error", err, "account_id", callerID)
		return DomainError(c, err)
	}

	return Created(c, toPaymentMethodResponse(*method))
}

// SetDefaultPaymentMethod handles POST /api/me/payment-methods/:id/default.
func (h *Handler) SetDefaultPaymentMethod(c *fiber.Ctx) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return UnauthorizedError(c)
	}

	methodID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return BadRequestError(c, "invalid_id", "payment method id must be a uuid")
	}

	if err := h.paymentMethods.SetDefault(c.UserContext(), callerID, methodID); err != nil {
		if !knownDomainError(err) {
			slog.Error("set default payment method", "error", err, "account_id", callerID)
		}
		return DomainError(c, err)
	}

	return NoContent(c)
}

// DeletePaymentMethod handles DELETE /api/me/payment-methods/:id.
func (h *Handler) DeletePaymentMethod(c *fiber.Ctx) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return UnauthorizedError(c)
	}

	methodID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return BadRequestError(c, "invalid_id", "payment method id must be a uuid")
	}

	if err := h.paymentMethods.Delete(c.UserContext(), callerID, methodID); err != nil {
		if !knownDomainError(err) {
			slog.Error("delete payment method", "error", err, "account_id", callerID)
		}
		return DomainError(c, err)
	}

	return NoContent(c)
}
