package api

import (
	"github.com/gofiber/fiber/v3"

	"plum/internal/config"
)

// TourHandler reports and records onboarding tour progress.
type TourHandler struct {
	tracker TourTracker
	yaml    *config.YAMLConfig
}

// NewTourHandler creates a new API tour handler.
func NewTourHandler(tracker TourTracker, yamlCfg *config.YAMLConfig) *TourHandler {
	return &TourHandler{tracker: tracker, yaml: yamlCfg}
}

// Get reports whether the user has seen a tour.
func (h *TourHandler) Get(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	name := c.Params("name")
	if h.yaml.GetTour(name) == nil {
		return jsonError(c, fiber.StatusNotFound, "tour not found")
	}

	seen, err := h.tracker.HasSeen(user.ID, name)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to read tour state")
	}

	return jsonSuccess(c, fiber.Map{"tour": name, "seen": seen})
}

// MarkSeen records that the user has finished or dismissed a tour.
func (h *TourHandler) MarkSeen(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	name := c.Params("name")
	if h.yaml.GetTour(name) == nil {
		return jsonError(c, fiber.StatusNotFound, "tour not found")
	}

	if err := h.tracker.MarkSeen(user.ID, name); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to save tour state")
	}

	return jsonSuccess(c, fiber.Map{"tour": name, "seen": true})
}
