package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"plum/internal/models"
)

const brandColumns = `id, owner_id, name, website, description, industry, tone, created_at, updated_at`

func scanBrand(row pgx.Row) (*models.Brand, error) {
	var b models.Brand
	err := row.Scan(
		&b.ID, &b.OwnerID, &b.Name, &b.Website, &b.Description,
		&b.Industry, &b.Tone, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBrandNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// CreateBrand creates a new brand for its owner.
func (d *DB) CreateBrand(ctx context.Context, brand *models.Brand) error {
	query := `
		INSERT INTO brands (owner_id, name, website, description, industry, tone)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		brand.OwnerID, brand.Name, brand.Website, brand.Description, brand.Industry, brand.Tone,
	).Scan(&brand.ID, &brand.CreatedAt, &brand.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateBrand
	}
	return err
}

// GetBrandForOwner retrieves a brand by ID if it belongs to ownerID.
func (d *DB) GetBrandForOwner(ctx context.Context, ownerID, brandID uuid.UUID) (*models.Brand, error) {
	query := `SELECT ` + brandColumns + ` FROM brands WHERE id = $1 AND owner_id = $2`
	return scanBrand(d.Pool.QueryRow(ctx, query, brandID, ownerID))
}

// ListBrandsByOwner returns a user's brands ordered by name.
func (d *DB) ListBrandsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Brand, error) {
	query := `SELECT ` + brandColumns + ` FROM brands WHERE owner_id = $1 ORDER BY name ASC`

	rows, err := d.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brands []models.Brand
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, err
		}
		brands = append(brands, *b)
	}

	return brands, rows.Err()
}

// UpdateBrand saves the editable fields of a brand owned by brand.OwnerID.
func (d *DB) UpdateBrand(ctx context.Context, brand *models.Brand) error {
	query := `
		UPDATE brands
		SET name = $3, website = $4, description = $5, industry = $6, tone = $7, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		brand.ID, brand.OwnerID, brand.Name, brand.Website, brand.Description, brand.Industry, brand.Tone,
	).Scan(&brand.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrBrandNotFound
	}
	if isUniqueViolation(err) {
		return ErrDuplicateBrand
	}
	return err
}

// DeleteBrand deletes a brand and, by cascade, its prospects.
func (d *DB) DeleteBrand(ctx context.Context, ownerID, brandID uuid.UUID) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM brands WHERE id = $1 AND owner_id = $2`, brandID, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBrandNotFound
	}
	return nil
}
