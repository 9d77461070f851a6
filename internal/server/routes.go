package server

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"plum/internal/backend"
	"plum/internal/config"
	"plum/internal/db"
	"plum/internal/handlers"
	"plum/internal/handlers/api"
	"plum/internal/middleware"
	"plum/internal/onboarding"
)

// Deps are the services the routes are wired to.
type Deps struct {
	DB      *db.DB
	Backend *backend.Client
	Tours   *onboarding.Tracker
	YAML    *config.YAMLConfig
}

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, deps Deps) error {
	authMiddleware := middleware.NewAuthMiddleware(deps.DB)

	probeHandler := handlers.NewProbeHandler(deps.DB)
	dashboardHandler := handlers.NewDashboardHandler(deps.DB, deps.Tours, s.Cfg, deps.YAML)
	brandHandler := api.NewBrandHandler(deps.DB, s.Cfg)
	prospectHandler := api.NewProspectHandler(deps.DB, deps.Backend, deps.YAML)
	tourHandler := api.NewTourHandler(deps.Tours, deps.YAML)

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Auth routes
	if s.Cfg.OIDCIssuer != "" {
		authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, deps.DB)
		if err != nil {
			return err
		}
		s.App.Get("/auth/login", authHandler.Login)
		s.App.Get("/auth/callback", authHandler.Callback)
		s.App.Get("/auth/logout", authHandler.Logout)
	} else {
		slog.Warn("OIDC authentication is disabled; set OIDC_ISSUER to enable sign-in")
	}
	s.App.Get("/login", authMiddleware.OptionalAuth, dashboardHandler.Login)

	// Pages
	s.App.Get("/", authMiddleware.RequireAuth, dashboardHandler.Index)
	s.App.Get("/prospects/:id", authMiddleware.RequireAuth, dashboardHandler.Prospect)

	// JSON API
	apiGroup := s.App.Group("/api", authMiddleware.RequireAuth)

	apiGroup.Get("/brands", brandHandler.List)
	apiGroup.Post("/brands", brandHandler.Create)
	apiGroup.Get("/brands/:id", brandHandler.Get)
	apiGroup.Put("/brands/:id", brandHandler.Update)
	apiGroup.Delete("/brands/:id", brandHandler.Delete)
	apiGroup.Post("/brands/:id/select", brandHandler.Select)

	apiGroup.Get("/prospects", prospectHandler.List)
	apiGroup.Post("/prospects", prospectHandler.Create)
	apiGroup.Get("/prospects/:id", prospectHandler.Get)
	apiGroup.Delete("/prospects/:id", prospectHandler.Delete)
	apiGroup.Get("/prospects/:id/keywords", prospectHandler.Keywords)
	apiGroup.Post("/prospects/:id/keywords", prospectHandler.AddKeywords)
	apiGroup.Post("/prospects/:id/keywords/suggest", prospectHandler.SuggestKeywords)
	apiGroup.Delete("/prospects/:id/keywords/:keyword", prospectHandler.RemoveKeyword)
	apiGroup.Get("/prospects/:id/posts", prospectHandler.Posts)
	apiGroup.Post("/prospects/:id/posts/:postId/reply", prospectHandler.Reply)
	apiGroup.Post("/prospects/:id/posts/:postId/engage", prospectHandler.Engage)

	apiGroup.Get("/tours/:name", tourHandler.Get)
	apiGroup.Post("/tours/:name/seen", tourHandler.MarkSeen)

	return nil
}
