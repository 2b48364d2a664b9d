package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/swiftpay-app/swiftpay/internal/domain"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// WriteError writes a structured error response. All handlers report
// failures through it so error bodies stay consistent.
func WriteError(c *fiber.Ctx, status int, title, message string) error {
	return c.Status(status).JSON(ErrorResponse{
		Code:    strconv.Itoa(status),
		Title:   title,
		Message: message,
	})
}

func BadRequestError(c *fiber.Ctx, title, message string) error {
	return WriteError(c, fiber.StatusBadRequest, title, message)
}

func UnauthorizedError(c *fiber.Ctx) error {
	return WriteError(c, fiber.StatusUnauthorized, "unauthorized", "caller identity missing")
}

func NotFoundError(c *fiber.Ctx, title, message string) error {
	return WriteError(c, fiber.StatusNotFound, title, message)
}

func InternalServerError(c *fiber.Ctx) error {
	return WriteError(c, fiber.StatusInternalServerError, "internal_error", "internal server error")
}

// knownDomainError reports whether err maps to a 4xx reply. Anything else is
// a persistence or infrastructure failure and surfaces as a generic 500.
func knownDomainError(err error) bool {
	for _, sentinel := range []error{
		domain.ErrInvalidAmount,
		domain.ErrInvalidKind,
		domain.ErrInvalidParties,
		domain.ErrInsufficientFunds,
		domain.ErrAccountNotFound,
		domain.ErrProfileNotFound,
		domain.ErrPaymentMethodNotFound,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// DomainError maps a typed domain failure to its HTTP reply.
func DomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return BadRequestError(c, "invalid_amount", domain.ErrInvalidAmount.Error())
	case errors.Is(err, domain.ErrInvalidKind):
		return BadRequestError(c, "invalid_kind", domain.ErrInvalidKind.Error())
	case errors.Is(err, domain.ErrInvalidParties):
		return BadRequestError(c, "invalid_parties", domain.ErrInvalidParties.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		return WriteError(c, fiber.StatusUnprocessableEntity, "insufficient_funds", domain.ErrInsufficientFunds.Error())
	case errors.Is(err, domain.ErrAccountNotFound):
		return NotFoundError(c, "account_not_found", domain.ErrAccountNotFound.Error())
	case errors.Is(err, domain.ErrProfileNotFound):
		return NotFoundError(c, "profile_not_found", domain.ErrProfileNotFound.Error())
	case errors.Is(err, domain.ErrPaymentMethodNotFound):
		return NotFoundError(c, "payment_method_not_found", domain.ErrPaymentMethodNotFound.Error())
	default:
		return InternalServerError(c)
	}
}

// OK sends an HTTP 200 OK response with a custom body.
func OK(c *fiber.Ctx, s any) error {
	return c.Status(fiber.StatusOK).JSON(s)
}

// Created sends an HTTP 201 Created response with a custom body.
func Created(c *fiber.Ctx, s any) error {
	return c.Status(fiber.StatusCreated).JSON(s)
}

// NoContent sends an HTTP 204 No Content response without a body.
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
