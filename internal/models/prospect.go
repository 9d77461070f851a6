package models

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"plum/internal/keywords"
)

// Prospect is a problem area a brand tracks on Reddit through a set of keywords.
type Prospect struct {
	ID             uuid.UUID      `json:"id"`
	BrandID        uuid.UUID      `json:"brand_id"`
	Name           string         `json:"name"`
	Problem        string         `json:"problem"`
	Keywords       []string       `json:"keywords"`
	ProvenKeywords []string       `json:"proven_keywords"`
	Subreddits     []string       `json:"subreddits"`
	Engagement     map[string]int `json:"engagement"` // keyword -> engagements
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// HasKeyword reports whether kw is one of the prospect's keywords.
func (p *Prospect) HasKeyword(kw string) bool {
	return slices.Contains(p.Keywords, kw)
}

// Categorized lists every keyword the prospect has tracked: the current
// selection followed by proven keywords that were since deselected.
func (p *Prospect) Categorized() []keywords.CategorizedKeyword {
	all := keywords.Combine(keywords.KeywordSet{
		Keywords:    p.Keywords,
		SetKeywords: p.ProvenKeywords,
	})
	return keywords.Categorize(all, p.Keywords, p.ProvenKeywords, p.Engagement)
}
