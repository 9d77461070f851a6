package api

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"plum/internal/backend"
	"plum/internal/models"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

// currentUser returns the authenticated user, or nil.
func currentUser(c fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

// paramID parses the route parameter name as a UUID.
func paramID(c fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

// backendError answers for a failed backend call. Upstream rate limiting is
// passed through so clients can back off; everything else is a bad gateway.
func backendError(c fiber.Ctx, err error, message string) error {
	if backend.IsStatus(err, http.StatusTooManyRequests) {
		return jsonError(c, fiber.StatusTooManyRequests, "rate limited, try again later")
	}
	return jsonError(c, fiber.StatusBadGateway, message)
}
