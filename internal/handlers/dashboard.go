package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"plum/internal/config"
	"plum/internal/db"
	"plum/internal/keywords"
	"plum/internal/middleware"
	"plum/internal/models"
)

// Tour names shown on the pages.
const (
	TourDashboard = "dashboard"
	TourProspect  = "prospect"
)

// DashboardHandler renders the brand dashboard and prospect pages.
type DashboardHandler struct {
	store PageStore
	tours TourChecker
	cfg   *config.Config
	yaml  *config.YAMLConfig
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(store PageStore, tours TourChecker, cfg *config.Config, yamlCfg *config.YAMLConfig) *DashboardHandler {
	return &DashboardHandler{store: store, tours: tours, cfg: cfg, yaml: yamlCfg}
}

// Index renders the dashboard of the active brand.
func (h *DashboardHandler) Index(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Redirect().To("/login")
	}

	brands, err := h.store.ListBrandsByOwner(c.Context(), user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load brands")
	}

	active := activeBrand(c, brands)

	var prospects []models.Prospect
	if active != nil {
		prospects, err = h.store.ListProspectsByBrand(c.Context(), active.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load prospects")
		}
	}

	return c.Render("dashboard", MergeBranding(fiber.Map{
		"Title":       "Dashboard",
		"User":        user,
		"Brands":      brands,
		"ActiveBrand": active,
		"Prospects":   prospects,
		"Presets":     h.yaml.BrandPresets,
		"MaxKeywords": keywords.MaxKeywordsPerProspect,
		"ShowTour":    h.showTour(user, TourDashboard),
	}, h.cfg))
}

// Prospect renders the keyword board of one prospect.
func (h *DashboardHandler) Prospect(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.Redirect().To("/login")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Prospect not found")
	}

	p, err := h.store.GetProspectForOwner(c.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, db.ErrProspectNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Prospect not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load prospect")
	}

	brand, err := h.store.GetBrandForOwner(c.Context(), user.ID, p.BrandID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load brand")
	}

	stats, err := h.store.GetKeywordStats(c.Context(), p.ID)
	if err != nil {
		// Stats are informational; the board still renders without them
		slog.Warn("failed to load keyword stats", "prospect", p.ID, "error", err)
	}

	return c.Render("prospect", MergeBranding(fiber.Map{
		"Title":        p.Name,
		"User":         user,
		"Brand":        brand,
		"Prospect":     p,
		"Keywords":     p.Categorized(),
		"KeywordCount": len(p.Keywords),
		"MaxKeywords":  keywords.MaxKeywordsPerProspect,
		"AtLimit":      len(p.Keywords) >= keywords.MaxKeywordsPerProspect,
		"Stats":        stats,
		"ShowTour":     h.showTour(user, TourProspect),
	}, h.cfg))
}

// Login renders the sign-in page.
func (h *DashboardHandler) Login(c fiber.Ctx) error {
	if middleware.CurrentUser(c) != nil {
		return c.Redirect().To("/")
	}
	return c.Render("login", MergeBranding(fiber.Map{
		"Title":       "Sign in",
		"OIDCEnabled": h.cfg.OIDCIssuer != "",
	}, h.cfg))
}

// showTour reports whether a configured tour should be offered to user.
func (h *DashboardHandler) showTour(user *models.User, tour string) bool {
	if h.tours == nil || h.yaml.GetTour(tour) == nil {
		return false
	}
	seen, err := h.tours.HasSeen(user.ID, tour)
	if err != nil {
		slog.Warn("failed to read tour state", "tour", tour, "error", err)
		return false
	}
	return !seen
}

// activeBrand returns the brand selected by cookie, falling back to the
// first brand.
func activeBrand(c fiber.Ctx, brands []models.Brand) *models.Brand {
	if len(brands) == 0 {
		return nil
	}
	if id, ok := middleware.ActiveBrandID(c); ok {
		for i := range brands {
			if brands[i].ID == id {
				return &brands[i]
			}
		}
	}
	return &brands[0]
}
