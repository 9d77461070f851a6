package models

import "time"

// Post is a Reddit post sourced by the backend for a prospect.
type Post struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Subreddit    string    `json:"subreddit"`
	Author       string    `json:"author"`
	URL          string    `json:"url"`
	Score        int       `json:"score"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// FieldText returns the text of a named field, or "" for unknown names.
func (p Post) FieldText(name string) string {
	switch name {
	case "title":
		return p.Title
	case "content":
		return p.Content
	case "subreddit":
		return p.Subreddit
	case "author":
		return p.Author
	case "url":
		return p.URL
	default:
		return ""
	}
}
