// Package onboarding tracks which product tours a user has already seen.
package onboarding

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"plum/internal/config"
)

// Storage is the key/value adapter the tracker persists flags in. Both the
// Redis storage and db.FlagStorage satisfy it.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
}

// Tracker records seen tours per user. Tours declared in config carry a
// version; bumping it makes the tour show again.
type Tracker struct {
	store Storage
	tours *config.YAMLConfig
	ttl   time.Duration
}

// NewTracker creates a tracker. A zero ttl keeps flags forever.
func NewTracker(store Storage, tours *config.YAMLConfig, ttl time.Duration) *Tracker {
	return &Tracker{store: store, tours: tours, ttl: ttl}
}

func (t *Tracker) key(userID uuid.UUID, tour string) string {
	version := 1
	if tc := t.tours.GetTour(tour); tc != nil && tc.Version > 0 {
		version = tc.Version
	}
	return fmt.Sprintf("tour:%s:%s:v%d", userID, tour, version)
}

// HasSeen reports whether the user has dismissed the current version of tour.
func (t *Tracker) HasSeen(userID uuid.UUID, tour string) (bool, error) {
	val, err := t.store.Get(t.key(userID, tour))
	if err != nil {
		return false, fmt.Errorf("failed to read tour flag: %w", err)
	}
	return len(val) > 0, nil
}

// MarkSeen records that the user has seen the current version of tour.
func (t *Tracker) MarkSeen(userID uuid.UUID, tour string) error {
	if err := t.store.Set(t.key(userID, tour), []byte("1"), t.ttl); err != nil {
		return fmt.Errorf("failed to write tour flag: %w", err)
	}
	return nil
}
