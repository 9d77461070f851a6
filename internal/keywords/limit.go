package keywords

import "fmt"

// Counts describes what merging a candidate list into an existing one would do.
// TotalCount is always ExistingCount + NewUniqueCount.
type Counts struct {
	NewUniqueCount int `json:"new_unique_count"`
	ExistingCount  int `json:"existing_count"`
	TotalCount     int `json:"total_count"`
}

// CalculateCounts counts the candidate entries whose normalized form is not
// already in existing. Candidates are not deduplicated first, so a repeated
// new keyword is counted once per repetition.
func CalculateCounts(candidate, existing []string) Counts {
	known := make(map[string]struct{}, len(existing))
	for _, kw := range existing {
		known[Normalize(kw)] = struct{}{}
	}

	newCount := 0
	for _, kw := range candidate {
		if _, ok := known[Normalize(kw)]; !ok {
			newCount++
		}
	}

	return Counts{
		NewUniqueCount: newCount,
		ExistingCount:  len(existing),
		TotalCount:     len(existing) + newCount,
	}
}

// IsLimitExceeded reports whether c goes over MaxKeywordsPerProspect.
func IsLimitExceeded(c Counts) bool {
	return c.TotalCount > MaxKeywordsPerProspect
}

// LimitMessage explains c to a user who is about to add keywords.
func LimitMessage(c Counts) string {
	return fmt.Sprintf(
		"You have %d existing %s and are adding %d new %s, for a total of %d. The maximum is %d keywords per prospect.",
		c.ExistingCount, plural(c.ExistingCount),
		c.NewUniqueCount, plural(c.NewUniqueCount),
		c.TotalCount, MaxKeywordsPerProspect,
	)
}

func plural(n int) string {
	if n == 1 {
		return "keyword"
	}
	return "keywords"
}
