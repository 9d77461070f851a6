package models

import (
	"time"

	"github.com/google/uuid"
)

// KeywordStat is the number of recently sourced posts matching a prospect keyword.
type KeywordStat struct {
	ProspectID  uuid.UUID
	Keyword     string
	PostCount   int
	RefreshedAt time.Time
}
