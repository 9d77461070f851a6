package api

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"plum/internal/config"
	"plum/internal/db"
	"plum/internal/middleware"
	"plum/internal/models"
	"plum/internal/validation"
)

// BrandHandler handles brand CRUD operations via JSON API.
type BrandHandler struct {
	store BrandStore
	cfg   *config.Config
}

// NewBrandHandler creates a new API brand handler.
func NewBrandHandler(store BrandStore, cfg *config.Config) *BrandHandler {
	return &BrandHandler{store: store, cfg: cfg}
}

type brandRequest struct {
	Name        string `json:"name"`
	Website     string `json:"website"`
	Description string `json:"description"`
	Industry    string `json:"industry"`
	Tone        string `json:"tone"`
}

func (r *brandRequest) validate() (bool, string) {
	r.Name = strings.TrimSpace(r.Name)
	r.Website = strings.TrimSpace(r.Website)
	if valid, msg := validation.ValidateBrandName(r.Name); !valid {
		return false, msg
	}
	if r.Website != "" {
		if valid, msg := validation.ValidateURL(r.Website); !valid {
			return false, msg
		}
	}
	return true, ""
}

func (r *brandRequest) applyTo(b *models.Brand) {
	b.Name = r.Name
	b.Website = r.Website
	b.Description = strings.TrimSpace(r.Description)
	b.Industry = strings.TrimSpace(r.Industry)
	b.Tone = strings.TrimSpace(r.Tone)
}

func (h *BrandHandler) secureCookies() bool {
	return h.cfg.TLSEnabled || !h.cfg.IsDev()
}

// List returns the user's brands and the active brand ID.
func (h *BrandHandler) List(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	brands, err := h.store.ListBrandsByOwner(c.Context(), user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch brands")
	}
	if brands == nil {
		brands = []models.Brand{}
	}

	var active *uuid.UUID
	if id, ok := middleware.ActiveBrandID(c); ok {
		active = &id
	}

	return jsonSuccess(c, fiber.Map{
		"brands":          brands,
		"active_brand_id": active,
	})
}

// Get returns a single brand.
func (h *BrandHandler) Get(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	brandID, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid brand id")
	}

	brand, err := h.store.GetBrandForOwner(c.Context(), user.ID, brandID)
	if err != nil {
		return brandLookupError(c, err)
	}
	return jsonSuccess(c, brand)
}

// Create creates a brand and makes it the active one.
func (h *BrandHandler) Create(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body brandRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if valid, msg := body.validate(); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	brand := &models.Brand{OwnerID: user.ID}
	body.applyTo(brand)

	if err := h.store.CreateBrand(c.Context(), brand); err != nil {
		if errors.Is(err, db.ErrDuplicateBrand) {
			return jsonError(c, fiber.StatusConflict, "you already have a brand with this name")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create brand")
	}

	middleware.SetActiveBrand(c, brand.ID, h.secureCookies())
	c.Status(fiber.StatusCreated)
	return jsonSuccess(c, brand)
}

// Update edits a brand.
func (h *BrandHandler) Update(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	brandID, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid brand id")
	}

	var body brandRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if valid, msg := body.validate(); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	brand, err := h.store.GetBrandForOwner(c.Context(), user.ID, brandID)
	if err != nil {
		return brandLookupError(c, err)
	}
	body.applyTo(brand)

	if err := h.store.UpdateBrand(c.Context(), brand); err != nil {
		if errors.Is(err, db.ErrDuplicateBrand) {
			return jsonError(c, fiber.StatusConflict, "you already have a brand with this name")
		}
		return brandLookupError(c, err)
	}

	return jsonSuccess(c, brand)
}

// Delete removes a brand and its prospects.
func (h *BrandHandler) Delete(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	brandID, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid brand id")
	}

	if err := h.store.DeleteBrand(c.Context(), user.ID, brandID); err != nil {
		return brandLookupError(c, err)
	}

	if active, ok := middleware.ActiveBrandID(c); ok && active == brandID {
		middleware.ClearActiveBrand(c)
	}

	return jsonSuccess(c, fiber.Map{"deleted": brandID})
}

// Select makes a brand the active one.
func (h *BrandHandler) Select(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	brandID, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid brand id")
	}

	brand, err := h.store.GetBrandForOwner(c.Context(), user.ID, brandID)
	if err != nil {
		return brandLookupError(c, err)
	}

	middleware.SetActiveBrand(c, brand.ID, h.secureCookies())
	return jsonSuccess(c, brand)
}

func brandLookupError(c fiber.Ctx, err error) error {
	if errors.Is(err, db.ErrBrandNotFound) {
		return jsonError(c, fiber.StatusNotFound, "brand not found")
	}
	return jsonError(c, fiber.StatusInternalServerError, "failed to load brand")
}
