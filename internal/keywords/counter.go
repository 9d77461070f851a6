package keywords

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
)

// DefaultTopN is the number of entries Tally.Top returns when n <= 0.
const DefaultTopN = 10

// DefaultFields are the post fields searched when CountOptions.Fields is empty.
var DefaultFields = []string{"title", "content"}

// Post is anything whose text fields can be looked up by name.
// Unknown names must return "".
type Post interface {
	FieldText(name string) string
}

// CountOptions controls how CountByPost matches keywords.
type CountOptions struct {
	CaseSensitive   bool     `yaml:"case_sensitive" json:"case_sensitive"`
	MatchWholeWords bool     `yaml:"match_whole_words" json:"match_whole_words"`
	Fields          []string `yaml:"fields" json:"fields,omitempty"`
}

func (o CountOptions) fields() []string {
	if len(o.Fields) == 0 {
		return DefaultFields
	}
	return o.Fields
}

// KeywordCount pairs a keyword with the number of posts mentioning it.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// Tally is the result of CountByPost.
type Tally struct {
	// Keywords lists the distinct normalized keywords in first-appearance order.
	Keywords []string
	// Counts maps each keyword in Keywords to the number of posts containing it.
	Counts map[string]int
}

// Top returns up to n entries ordered by count, highest first. Equal counts
// keep first-appearance order.
func (t Tally) Top(n int) []KeywordCount {
	if n <= 0 {
		n = DefaultTopN
	}

	entries := make([]KeywordCount, 0, len(t.Keywords))
	for _, kw := range t.Keywords {
		entries = append(entries, KeywordCount{Keyword: kw, Count: t.Counts[kw]})
	}
	slices.SortStableFunc(entries, func(a, b KeywordCount) int {
		return cmp.Compare(b.Count, a.Count)
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

type matcher func(text string) bool

func newMatcher(keyword string, wholeWords bool) matcher {
	if !wholeWords {
		return func(text string) bool {
			return strings.Contains(text, keyword)
		}
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
	return re.MatchString
}

// CountByPost counts, for each distinct keyword, how many posts mention it at
// least once in any of the configured fields. Keywords that match nothing are
// reported with a count of zero. Keywords that are blank after trimming are
// ignored.
func CountByPost[P Post](posts []P, keywords []string, opts CountOptions) Tally {
	tally := Tally{
		Keywords: make([]string, 0, len(keywords)),
		Counts:   make(map[string]int, len(keywords)),
	}
	for _, kw := range keywords {
		kw = normalizeFor(kw, opts.CaseSensitive)
		if kw == "" {
			continue
		}
		if _, ok := tally.Counts[kw]; ok {
			continue
		}
		tally.Counts[kw] = 0
		tally.Keywords = append(tally.Keywords, kw)
	}
	if len(tally.Keywords) == 0 {
		return tally
	}

	matchers := make([]matcher, len(tally.Keywords))
	for i, kw := range tally.Keywords {
		matchers[i] = newMatcher(kw, opts.MatchWholeWords)
	}

	fields := opts.fields()
	texts := make([]string, len(fields))
	for _, post := range posts {
		for i, field := range fields {
			text := post.FieldText(field)
			if !opts.CaseSensitive {
				text = strings.ToLower(text)
			}
			texts[i] = text
		}

		// Fields are matched one at a time so a match can never span two of them.
		for i, kw := range tally.Keywords {
			for _, text := range texts {
				if matchers[i](text) {
					tally.Counts[kw]++
					break
				}
			}
		}
	}

	return tally
}

// Matching returns the distinct normalized keywords that appear in post.
func Matching[P Post](post P, keywords []string, opts CountOptions) []string {
	tally := CountByPost([]P{post}, keywords, opts)
	var matched []string
	for _, kw := range tally.Keywords {
		if tally.Counts[kw] > 0 {
			matched = append(matched, kw)
		}
	}
	return matched
}
