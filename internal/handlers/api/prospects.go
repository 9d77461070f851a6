package api

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"plum/internal/config"
	"plum/internal/db"
	"plum/internal/keywords"
	"plum/internal/middleware"
	"plum/internal/models"
	"plum/internal/validation"
)

// ProspectHandler handles prospects, their keywords and their posts via JSON API.
type ProspectHandler struct {
	store   ProspectStore
	backend Backend
	yaml    *config.YAMLConfig
}

// NewProspectHandler creates a new API prospect handler.
func NewProspectHandler(store ProspectStore, backend Backend, yamlCfg *config.YAMLConfig) *ProspectHandler {
	return &ProspectHandler{store: store, backend: backend, yaml: yamlCfg}
}

// List returns the prospects of the active brand.
func (h *ProspectHandler) List(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	brand, err := h.activeBrand(c, user)
	if brand == nil {
		return err
	}

	prospects, err := h.store.ListProspectsByBrand(c.Context(), brand.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch prospects")
	}
	if prospects == nil {
		prospects = []models.Prospect{}
	}

	return jsonSuccess(c, prospects)
}

// Get returns a single prospect.
func (h *ProspectHandler) Get(c fiber.Ctx) error {
	p, err := h.loadProspect(c)
	if p == nil {
		return err
	}
	return jsonSuccess(c, p)
}

// Create adds a prospect to the active brand. Without explicit keywords the
// prospect starts from the brand industry's preset.
func (h *ProspectHandler) Create(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var body struct {
		Name       string   `json:"name"`
		Problem    string   `json:"problem"`
		Keywords   []string `json:"keywords"`
		Subreddits []string `json:"subreddits"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return jsonError(c, fiber.StatusBadRequest, "name is required")
	}

	brand, err := h.activeBrand(c, user)
	if brand == nil {
		return err
	}

	kws, msg := cleanKeywords(body.Keywords)
	if msg != "" {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	subreddits, msg := cleanSubreddits(body.Subreddits)
	if msg != "" {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	if preset := h.yaml.GetBrandPreset(brand.Industry); preset != nil {
		if len(kws) == 0 {
			kws, _ = cleanKeywords(preset.Keywords)
			if len(kws) > keywords.MaxKeywordsPerProspect {
				kws = kws[:keywords.MaxKeywordsPerProspect]
			}
		}
		if len(subreddits) == 0 {
			subreddits, _ = cleanSubreddits(preset.Subreddits)
		}
	}

	counts := keywords.CalculateCounts(kws, nil)
	if keywords.IsLimitExceeded(counts) {
		return limitExceeded(c, counts)
	}

	p := &models.Prospect{
		BrandID:    brand.ID,
		Name:       body.Name,
		Problem:    strings.TrimSpace(body.Problem),
		Keywords:   kws,
		Subreddits: subreddits,
	}
	if err := h.store.CreateProspect(c.Context(), p); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create prospect")
	}

	c.Status(fiber.StatusCreated)
	return jsonSuccess(c, p)
}

// Delete removes a prospect.
func (h *ProspectHandler) Delete(c fiber.Ctx) error {
	user := currentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid prospect id")
	}

	if err := h.store.DeleteProspect(c.Context(), user.ID, id); err != nil {
		return prospectLookupError(c, err)
	}
	return jsonSuccess(c, fiber.Map{"deleted": id})
}

// activeBrand loads the brand named by the brand cookie. A nil brand means
// the error response has been written.
func (h *ProspectHandler) activeBrand(c fiber.Ctx, user *models.User) (*models.Brand, error) {
	brandID, ok := middleware.ActiveBrandID(c)
	if !ok {
		return nil, jsonError(c, fiber.StatusBadRequest, "no brand selected")
	}

	brand, err := h.store.GetBrandForOwner(c.Context(), user.ID, brandID)
	if err != nil {
		if errors.Is(err, db.ErrBrandNotFound) {
			middleware.ClearActiveBrand(c)
			return nil, jsonError(c, fiber.StatusBadRequest, "no brand selected")
		}
		return nil, jsonError(c, fiber.StatusInternalServerError, "failed to load brand")
	}
	return brand, nil
}

// loadProspect loads the prospect named by the :id parameter for the current
// user. A nil prospect means the error response has been written.
func (h *ProspectHandler) loadProspect(c fiber.Ctx) (*models.Prospect, error) {
	user := currentUser(c)
	if user == nil {
		return nil, jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, ok := paramID(c, "id")
	if !ok {
		return nil, jsonError(c, fiber.StatusBadRequest, "invalid prospect id")
	}

	p, err := h.store.GetProspectForOwner(c.Context(), user.ID, id)
	if err != nil {
		return nil, prospectLookupError(c, err)
	}
	return p, nil
}

func prospectLookupError(c fiber.Ctx, err error) error {
	if errors.Is(err, db.ErrProspectNotFound) {
		return jsonError(c, fiber.StatusNotFound, "prospect not found")
	}
	return jsonError(c, fiber.StatusInternalServerError, "failed to load prospect")
}

// cleanKeywords normalizes and dedupes keywords. Blank entries are dropped;
// an invalid entry yields an error message.
func cleanKeywords(raw []string) ([]string, string) {
	normalized := make([]string, 0, len(raw))
	for _, kw := range raw {
		kw = keywords.Normalize(kw)
		if kw == "" {
			continue
		}
		if !validation.ValidateKeyword(kw) {
			return nil, "invalid keyword: " + kw
		}
		normalized = append(normalized, kw)
	}
	return keywords.Combine(keywords.KeywordSet{Keywords: normalized}), ""
}

func cleanSubreddits(raw []string) ([]string, string) {
	subs := make([]string, 0, len(raw))
	for _, s := range raw {
		s = validation.NormalizeSubreddit(s)
		if s == "" {
			continue
		}
		if !validation.ValidateSubreddit(s) {
			return nil, "invalid subreddit: " + s
		}
		subs = append(subs, s)
	}
	return keywords.Combine(keywords.KeywordSet{Keywords: subs}), ""
}

func limitExceeded(c fiber.Ctx, counts keywords.Counts) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"status": "error",
		"error":  keywords.LimitMessage(counts),
		"data": models.KeywordLimitResponse{
			Counts:   counts,
			Exceeded: true,
			Message:  keywords.LimitMessage(counts),
		},
	})
}
