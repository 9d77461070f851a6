// Package handlers serves the HTML pages, the OIDC login flow and the
// health probes. The JSON API lives in the api subpackage.
package handlers

import (
	"context"

	"github.com/google/uuid"

	"plum/internal/models"
)

// PageStore is the read side of the database the pages need. Implemented by *db.DB.
type PageStore interface {
	ListBrandsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Brand, error)
	GetBrandForOwner(ctx context.Context, ownerID, brandID uuid.UUID) (*models.Brand, error)
	ListProspectsByBrand(ctx context.Context, brandID uuid.UUID) ([]models.Prospect, error)
	GetProspectForOwner(ctx context.Context, ownerID, prospectID uuid.UUID) (*models.Prospect, error)
	GetKeywordStats(ctx context.Context, prospectID uuid.UUID) ([]models.KeywordStat, error)
}

// TourChecker reports whether a user has seen an onboarding tour.
type TourChecker interface {
	HasSeen(userID uuid.UUID, tour string) (bool, error)
}
