package models

import "plum/internal/keywords"

// KeywordsResponse is the keyword board of a prospect.
type KeywordsResponse struct {
	ProspectID string                        `json:"prospect_id"`
	Keywords   []keywords.CategorizedKeyword `json:"keywords"`
	Limit      int                           `json:"limit"`
}

// KeywordLimitResponse previews or rejects a keyword addition.
type KeywordLimitResponse struct {
	Counts   keywords.Counts `json:"counts"`
	Exceeded bool            `json:"exceeded"`
	Message  string          `json:"message,omitempty"`
}

// PostsResponse contains sourced posts plus keyword totals across them.
type PostsResponse struct {
	Posts       []PostWithMatches       `json:"posts"`
	KeywordHits map[string]int          `json:"keyword_hits"`
	TopKeywords []keywords.KeywordCount `json:"top_keywords"`
}

// PostWithMatches is a post annotated with the prospect keywords it mentions.
type PostWithMatches struct {
	Post
	MatchedKeywords []string `json:"matched_keywords"`
}

// ReplyResponse carries a generated reply draft.
type ReplyResponse struct {
	PostID string `json:"post_id"`
	Reply  string `json:"reply"`
}

// EngageResponse reports a submitted reply and the keywords credited for it.
type EngageResponse struct {
	CommentID        string   `json:"comment_id"`
	CreditedKeywords []string `json:"credited_keywords"`
}

// KeywordSuggestionsResponse lists AI-suggested keywords the prospect does
// not track yet, with the effect of adding all of them.
type KeywordSuggestionsResponse struct {
	Suggestions []string             `json:"suggestions"`
	Limit       KeywordLimitResponse `json:"limit"`
}
