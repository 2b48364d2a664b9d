package middleware

import (
	"log/slog"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
)

// Recover returns middleware that recovers from handler panics.
func Recover() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("panic in handler",
					"panic", r,
					"path", c.Path(),
					"stack", string(debug.Stack()),
				)
				err = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"code":    "500",
					"title":   "internal_error",
					"message": "internal server error",
				})
			}
		}()
		return c.Next()
	}
}
