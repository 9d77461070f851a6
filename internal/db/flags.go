package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// FlagStorage is a small key/value store on the tour_flags table. It is used
// for onboarding state when Redis is not configured.
type FlagStorage struct {
	db *DB
}

// NewFlagStorage creates a flag storage backed by database.
func NewFlagStorage(database *DB) *FlagStorage {
	return &FlagStorage{db: database}
}

// Get returns the value stored under key, or nil if it is missing or expired.
func (s *FlagStorage) Get(key string) ([]byte, error) {
	var val []byte
	err := s.db.Pool.QueryRow(context.Background(), `
		SELECT value FROM tour_flags
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > NOW())
	`, key).Scan(&val)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return val, err
}

// Set stores val under key. A zero exp never expires.
func (s *FlagStorage) Set(key string, val []byte, exp time.Duration) error {
	var expiresAt *time.Time
	if exp > 0 {
		t := time.Now().Add(exp)
		expiresAt = &t
	}
	_, err := s.db.Pool.Exec(context.Background(), `
		INSERT INTO tour_flags (key, value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at
	`, key, val, expiresAt)
	return err
}
