package keywords

// CategorizedKeyword is a display view of one keyword of a prospect.
type CategorizedKeyword struct {
	Keyword         string `json:"keyword"`
	IsSelected      bool   `json:"is_selected"`
	IsProven        bool   `json:"is_proven"`
	EngagementCount int    `json:"engagement_count"`
	HasEngagement   bool   `json:"has_engagement"`
}

// Categorize annotates every keyword of all, in order, with its selection,
// proven and engagement state. Membership is tested on exact values.
func Categorize(all, selected, proven []string, engagement map[string]int) []CategorizedKeyword {
	selectedSet := toSet(selected)
	provenSet := toSet(proven)

	result := make([]CategorizedKeyword, 0, len(all))
	for _, kw := range all {
		_, isSelected := selectedSet[kw]
		_, isProven := provenSet[kw]
		count := engagement[kw]
		result = append(result, CategorizedKeyword{
			Keyword:         kw,
			IsSelected:      isSelected,
			IsProven:        isProven,
			EngagementCount: count,
			HasEngagement:   isProven && count > 0,
		})
	}
	return result
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
