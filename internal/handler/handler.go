package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/swiftpay-app/swiftpay/internal/middleware"
	"github.com/swiftpay-app/swiftpay/internal/service"
)

// Handler holds the services the HTTP API delegates to.
type Handler struct {
	transfers      *service.TransferService
	ledger         *service.LedgerService
	accounts       *service.AccountService
	profiles       *service.ProfileService
	paymentMethods *service.PaymentMethodService
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Transfers      *service.TransferService
	Ledger         *service.LedgerService
	Accounts       *service.AccountService
	Profiles       *service.ProfileService
	PaymentMethods *service.PaymentMethodService
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		transfers:      deps.Transfers,
		ledger:         deps.Ledger,
		accounts:       deps.Accounts,
		profiles:       deps.Profiles,
		paymentMethods: deps.PaymentMethods,
	}
}

// Register mounts all routes on the app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return OK(c, fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", middleware.CallerLoader())

	api.Post("/transfers", h.CreateTransfer)

	api.Get("/me/balance", h.GetBalance)
	api.Get("/me/transactions", h.ListTransactions)
	api.Patch("/me/profile", h.UpdateProfile)

	api.Get("/profiles/:id", h.GetProfile)
	api.Get("/users/search", h.SearchUsers)

	api.Get("/me/payment-methods", h.ListPaymentMethods)
	api.Post("/me/payment-methods", h.AttachPaymentMethod)
	api.Post("/me/payment-methods/:id/default", h.SetDefaultPaymentMethod)
	api.Delete("/me/payment-methods/:id", h.DeletePaymentMethod)
}
