// Package jobs runs background work alongside the web server.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"plum/internal/backend"
	"plum/internal/keywords"
	"plum/internal/models"
)

// StatsStore is the storage the refresher reads prospects from and writes
// stats to. Implemented by *db.DB.
type StatsStore interface {
	ListAllProspects(ctx context.Context) ([]models.Prospect, error)
	UpsertKeywordStats(ctx context.Context, prospectID uuid.UUID, tally keywords.Tally) error
}

// PostSource sources posts for a prospect. Implemented by *backend.Client.
type PostSource interface {
	FetchPosts(ctx context.Context, req backend.PostsRequest) ([]models.Post, error)
}

// KeywordStatsRefresher periodically counts how many recent posts mention
// each prospect keyword.
type KeywordStatsRefresher struct {
	store    StatsStore
	posts    PostSource
	opts     keywords.CountOptions
	limit    int
	interval time.Duration
	pause    time.Duration
}

// NewKeywordStatsRefresher creates a refresher fetching up to limit posts per
// prospect every interval.
func NewKeywordStatsRefresher(store StatsStore, posts PostSource, opts keywords.CountOptions, limit int, interval time.Duration) *KeywordStatsRefresher {
	return &KeywordStatsRefresher{
		store:    store,
		posts:    posts,
		opts:     opts,
		limit:    limit,
		interval: interval,
		pause:    time.Second,
	}
}

// Start runs the refresh loop until ctx is cancelled.
func (r *KeywordStatsRefresher) Start(ctx context.Context) {
	slog.Info("keyword stats refresher started", "interval", r.interval)

	// Run immediately on start
	r.RefreshAll(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("keyword stats refresher stopped")
			return
		case <-ticker.C:
			r.RefreshAll(ctx)
		}
	}
}

// RefreshAll recounts every prospect with keywords and returns how many were
// updated. Failures are logged and skipped.
func (r *KeywordStatsRefresher) RefreshAll(ctx context.Context) int {
	prospects, err := r.store.ListAllProspects(ctx)
	if err != nil {
		slog.Error("keyword stats: failed to list prospects", "error", err)
		return 0
	}

	updated := 0
	for i, p := range prospects {
		if ctx.Err() != nil {
			return updated
		}
		if i > 0 && r.pause > 0 {
			// Spread backend load across the run
			select {
			case <-ctx.Done():
				return updated
			case <-time.After(r.pause):
			}
		}

		if err := r.refresh(ctx, p); err != nil {
			slog.Warn("keyword stats: refresh failed", "prospect", p.ID, "error", err)
			continue
		}
		updated++
	}

	if updated > 0 {
		slog.Info("keyword stats refreshed", "prospects", updated)
	}
	return updated
}

func (r *KeywordStatsRefresher) refresh(ctx context.Context, p models.Prospect) error {
	posts, err := r.posts.FetchPosts(ctx, backend.PostsRequest{
		ProspectID: p.ID.String(),
		Keywords:   p.Keywords,
		Subreddits: p.Subreddits,
		Limit:      r.limit,
	})
	if err != nil {
		return err
	}

	return r.store.UpsertKeywordStats(ctx, p.ID, keywords.CountByPost(posts, p.Keywords, r.opts))
}
