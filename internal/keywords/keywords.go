// Package keywords aggregates and compares prospect keywords.
//
// Every function in this package is a pure transformation over caller-owned
// data: nothing is retained between calls and nothing fails.
package keywords

import "strings"

// MaxKeywordsPerProspect caps how many keywords a prospect may track.
const MaxKeywordsPerProspect = 30

// Normalize trims surrounding whitespace and lower-cases a keyword.
func Normalize(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}

// normalizeFor applies Normalize, or only trimming when matching is case-sensitive.
func normalizeFor(keyword string, caseSensitive bool) string {
	if caseSensitive {
		return strings.TrimSpace(keyword)
	}
	return Normalize(keyword)
}

// KeywordSet bundles the keyword lists shown together on a prospect.
type KeywordSet struct {
	Keywords      []string `json:"keywords"`
	SetKeywords   []string `json:"set_keywords,omitempty"`
	OtherKeywords []string `json:"other_keywords,omitempty"`
}

// Combine unions the lists of set, keeping the first occurrence of each value.
// Values are compared exactly as given.
func Combine(set KeywordSet) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(set.Keywords)+len(set.SetKeywords)+len(set.OtherKeywords))

	for _, list := range [][]string{set.Keywords, set.SetKeywords, set.OtherKeywords} {
		for _, kw := range list {
			if seen[kw] {
				continue
			}
			seen[kw] = true
			result = append(result, kw)
		}
	}

	return result
}
