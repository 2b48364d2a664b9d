package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/swiftpay-app/swiftpay/internal/middleware"
	"github.com/swiftpay-app/swiftpay/internal/storage"
)

// GetProfile handles GET /api/profiles/:id.
func (h *Handler) GetProfile(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return BadRequestError(c, "invalid_id", "profile id must be a uuid")
	}

	profile, err := h.profiles.Get(c.UserContext(), id)
	if err != nil {
		if !knownDomainError(err) {
			slog.Error("get profile", "error", err, "profile_id", id)
		}
		return DomainError(c, err)
	}

	return OK(c, toProfileResponse(profile))
}

// UpdateProfile handles PATCH /api/me/profile.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		return UnauthorizedError(c)
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return BadRequestError(c, "invalid_body", "invalid request body")
	}

	profile, err := h.profiles.Update(c.UserContext(), callerID, storage.ProfileUpdate{
		Name:   req.Name,
		Avatar: req.Avatar,
		Phone:  req.Phone,
	})
	if err != nil {
		if !knownDomainError(err) {
			slog.Error("update profile", "error", err, "profile_id", callerID)
		}
		return DomainError(c, err)
	}

	return OK(c, toProfileResponse(profile))
}

// SearchUsers handles GET /api/users/search?q=. Used by the send-money flow
// to find a recipient by name or email.
func (h *Handler) SearchUsers(c *fiber.Ctx) error {
	if _, ok := middleware.CallerID(c); !ok {
		return UnauthorizedError(c)
	}

	profiles, err := h.profiles.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		slog.Error("search users", "error", err)
		return DomainError(c, err)
	}

	resp := make([]profileResponse, 0, len(profiles))
	for _, p := range profiles {
		resp = append(resp, toProfileResponse(p))
	}
	return OK(c, resp)
}
