package db

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"plum/internal/models"
)

const prospectColumns = `p.id, p.brand_id, p.name, p.problem, p.keywords, p.proven_keywords, p.subreddits, p.engagement, p.created_at, p.updated_at`

func scanProspect(row pgx.Row) (*models.Prospect, error) {
	var p models.Prospect
	err := row.Scan(
		&p.ID, &p.BrandID, &p.Name, &p.Problem, &p.Keywords, &p.ProvenKeywords,
		&p.Subreddits, &p.Engagement, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProspectNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.Engagement == nil {
		p.Engagement = map[string]int{}
	}
	return &p, nil
}

func collectProspects(rows pgx.Rows) ([]models.Prospect, error) {
	defer rows.Close()

	var prospects []models.Prospect
	for rows.Next() {
		p, err := scanProspect(rows)
		if err != nil {
			return nil, err
		}
		prospects = append(prospects, *p)
	}
	return prospects, rows.Err()
}

// CreateProspect creates a prospect under an existing brand.
func (d *DB) CreateProspect(ctx context.Context, p *models.Prospect) error {
	if p.Keywords == nil {
		p.Keywords = []string{}
	}
	if p.ProvenKeywords == nil {
		p.ProvenKeywords = []string{}
	}
	if p.Subreddits == nil {
		p.Subreddits = []string{}
	}
	if p.Engagement == nil {
		p.Engagement = map[string]int{}
	}

	query := `
		INSERT INTO prospects (brand_id, name, problem, keywords, proven_keywords, subreddits, engagement)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	return d.Pool.QueryRow(ctx, query,
		p.BrandID, p.Name, p.Problem, p.Keywords, p.ProvenKeywords, p.Subreddits, p.Engagement,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// GetProspectForOwner retrieves a prospect whose brand belongs to ownerID.
func (d *DB) GetProspectForOwner(ctx context.Context, ownerID, prospectID uuid.UUID) (*models.Prospect, error) {
	query := `
		SELECT ` + prospectColumns + `
		FROM prospects p
		JOIN brands b ON b.id = p.brand_id
		WHERE p.id = $1 AND b.owner_id = $2
	`
	return scanProspect(d.Pool.QueryRow(ctx, query, prospectID, ownerID))
}

// ListProspectsByBrand returns a brand's prospects, oldest first.
func (d *DB) ListProspectsByBrand(ctx context.Context, brandID uuid.UUID) ([]models.Prospect, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT `+prospectColumns+`
		FROM prospects p
		WHERE p.brand_id = $1
		ORDER BY p.created_at ASC
	`, brandID)
	if err != nil {
		return nil, err
	}
	return collectProspects(rows)
}

// ListAllProspects returns every prospect that tracks at least one keyword.
func (d *DB) ListAllProspects(ctx context.Context) ([]models.Prospect, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT `+prospectColumns+`
		FROM prospects p
		WHERE cardinality(p.keywords) > 0
		ORDER BY p.updated_at ASC
	`)
	if err != nil {
		return nil, err
	}
	return collectProspects(rows)
}

// UpdateProspectKeywords replaces a prospect's keyword list.
func (d *DB) UpdateProspectKeywords(ctx context.Context, prospectID uuid.UUID, kws []string) error {
	if kws == nil {
		kws = []string{}
	}
	tag, err := d.Pool.Exec(ctx,
		`UPDATE prospects SET keywords = $2, updated_at = NOW() WHERE id = $1`,
		prospectID, kws,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProspectNotFound
	}
	return nil
}

// DeleteProspect deletes a prospect whose brand belongs to ownerID.
func (d *DB) DeleteProspect(ctx context.Context, ownerID, prospectID uuid.UUID) error {
	tag, err := d.Pool.Exec(ctx, `
		DELETE FROM prospects p
		USING brands b
		WHERE b.id = p.brand_id AND p.id = $1 AND b.owner_id = $2
	`, prospectID, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProspectNotFound
	}
	return nil
}

// RecordEngagement credits one engagement to each of kws and marks them proven.
func (d *DB) RecordEngagement(ctx context.Context, prospectID uuid.UUID, kws []string) error {
	if len(kws) == 0 {
		return nil
	}

	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var proven []string
	var engagement map[string]int
	err = tx.QueryRow(ctx,
		`SELECT proven_keywords, engagement FROM prospects WHERE id = $1 FOR UPDATE`,
		prospectID,
	).Scan(&proven, &engagement)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrProspectNotFound
	}
	if err != nil {
		return err
	}

	if engagement == nil {
		engagement = map[string]int{}
	}
	for _, kw := range kws {
		engagement[kw]++
		if !slices.Contains(proven, kw) {
			proven = append(proven, kw)
		}
	}

	if _, err := tx.Exec(ctx,
		`UPDATE prospects SET proven_keywords = $2, engagement = $3, updated_at = NOW() WHERE id = $1`,
		prospectID, proven, engagement,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
