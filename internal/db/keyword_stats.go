package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"plum/internal/keywords"
	"plum/internal/models"
)

// UpsertKeywordStats stores the post counts of a tally for a prospect and
// drops stats for keywords the prospect no longer tracks.
func (d *DB) UpsertKeywordStats(ctx context.Context, prospectID uuid.UUID, tally keywords.Tally) error {
	batch := &pgx.Batch{}
	for _, kw := range tally.Keywords {
		batch.Queue(`
			INSERT INTO keyword_stats (prospect_id, keyword, post_count, refreshed_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (prospect_id, keyword) DO UPDATE
			SET post_count = EXCLUDED.post_count, refreshed_at = NOW()
		`, prospectID, kw, tally.Counts[kw])
	}
	batch.Queue(
		`DELETE FROM keyword_stats WHERE prospect_id = $1 AND NOT (keyword = ANY($2))`,
		prospectID, tally.Keywords,
	)

	return d.Pool.SendBatch(ctx, batch).Close()
}

// GetAllKeywordStats returns all keyword stats rows for metrics export.
func (d *DB) GetAllKeywordStats(ctx context.Context) ([]models.KeywordStat, error) {
	rows, err := d.Pool.Query(ctx, `SELECT prospect_id, keyword, post_count, refreshed_at FROM keyword_stats`)
	if err != nil {
		return nil, err
	}
	return collectKeywordStats(rows)
}

// GetKeywordStats returns a prospect's keyword stats, most mentioned first.
func (d *DB) GetKeywordStats(ctx context.Context, prospectID uuid.UUID) ([]models.KeywordStat, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT prospect_id, keyword, post_count, refreshed_at
		FROM keyword_stats
		WHERE prospect_id = $1
		ORDER BY post_count DESC, keyword ASC
	`, prospectID)
	if err != nil {
		return nil, err
	}
	return collectKeywordStats(rows)
}

func collectKeywordStats(rows pgx.Rows) ([]models.KeywordStat, error) {
	defer rows.Close()

	var stats []models.KeywordStat
	for rows.Next() {
		var s models.KeywordStat
		if err := rows.Scan(&s.ProspectID, &s.Keyword, &s.PostCount, &s.RefreshedAt); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
