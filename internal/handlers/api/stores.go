package api

import (
	"context"

	"github.com/google/uuid"

	"plum/internal/backend"
	"plum/internal/models"
)

// BrandStore persists brands. Implemented by *db.DB.
type BrandStore interface {
	CreateBrand(ctx context.Context, brand *models.Brand) error
	GetBrandForOwner(ctx context.Context, ownerID, brandID uuid.UUID) (*models.Brand, error)
	ListBrandsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Brand, error)
	UpdateBrand(ctx context.Context, brand *models.Brand) error
	DeleteBrand(ctx context.Context, ownerID, brandID uuid.UUID) error
}

// ProspectStore persists prospects and their keyword state. Implemented by *db.DB.
type ProspectStore interface {
	BrandStore
	CreateProspect(ctx context.Context, p *models.Prospect) error
	GetProspectForOwner(ctx context.Context, ownerID, prospectID uuid.UUID) (*models.Prospect, error)
	ListProspectsByBrand(ctx context.Context, brandID uuid.UUID) ([]models.Prospect, error)
	UpdateProspectKeywords(ctx context.Context, prospectID uuid.UUID, kws []string) error
	DeleteProspect(ctx context.Context, ownerID, prospectID uuid.UUID) error
	RecordEngagement(ctx context.Context, prospectID uuid.UUID, kws []string) error
}

// Backend is the external AI / Reddit service. Implemented by *backend.Client.
type Backend interface {
	FetchPosts(ctx context.Context, req backend.PostsRequest) ([]models.Post, error)
	GenerateReply(ctx context.Context, req backend.ReplyRequest) (string, error)
	SuggestKeywords(ctx context.Context, req backend.SuggestRequest) ([]string, error)
	SubmitReply(ctx context.Context, req backend.SubmitRequest) (string, error)
}

// TourTracker records seen onboarding tours. Implemented by *onboarding.Tracker.
type TourTracker interface {
	HasSeen(userID uuid.UUID, tour string) (bool, error)
	MarkSeen(userID uuid.UUID, tour string) error
}
