package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const callerKey = "caller_account_id"

// HeaderAccountID carries the authenticated caller's account id. Session
// issuance lives in the auth collaborator in front of this service; the core
// trusts the id it is handed.
const HeaderAccountID = "X-Account-ID"

// CallerLoader parses the caller's account id into request locals. Handlers
// that require identity read it with CallerID.
func CallerLoader() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(HeaderAccountID)
		if raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				c.Locals(callerKey, id)
			}
		}
		return c.Next()
	}
}

// CallerID extracts the caller's account id loaded by CallerLoader.
func CallerID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(callerKey).(uuid.UUID)
	return id, ok
}
