// Package backend is the HTTP client for the external service that sources
// Reddit posts and generates AI replies and keyword suggestions.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"plum/internal/metrics"
	"plum/internal/models"
)

// Endpoint paths on the backend service.
const (
	EndpointPosts    = "/api/reddit/posts"
	EndpointComment  = "/api/reddit/comment"
	EndpointReply    = "/api/generate/reply"
	EndpointKeywords = "/api/generate/keywords"
)

// maxErrorBody bounds how much of an error response is kept in StatusError.
const maxErrorBody = 1024

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend %s: HTTP %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("backend %s: HTTP %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// IsStatus reports whether err is a StatusError with the given status code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Client calls the backend service. There is no retry policy: a failed call
// is reported once to the caller.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a backend client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// PostsRequest asks the backend for recent posts relevant to a prospect.
type PostsRequest struct {
	ProspectID string   `json:"prospect_id"`
	Keywords   []string `json:"keywords"`
	Subreddits []string `json:"subreddits,omitempty"`
	Limit      int      `json:"limit,omitempty"`
}

type postsResponse struct {
	Posts []models.Post `json:"posts"`
}

// FetchPosts sources Reddit posts for a prospect.
func (c *Client) FetchPosts(ctx context.Context, req PostsRequest) ([]models.Post, error) {
	var resp postsResponse
	if err := c.do(ctx, EndpointPosts, req, &resp); err != nil {
		return nil, err
	}
	if resp.Posts == nil {
		resp.Posts = []models.Post{}
	}
	return resp.Posts, nil
}

// ReplyRequest asks for a reply draft to a post in the brand's voice.
type ReplyRequest struct {
	PostID           string `json:"post_id"`
	PostTitle        string `json:"post_title"`
	PostContent      string `json:"post_content"`
	BrandName        string `json:"brand_name"`
	BrandDescription string `json:"brand_description"`
	BrandWebsite     string `json:"brand_website,omitempty"`
	Tone             string `json:"tone,omitempty"`
	Problem          string `json:"problem,omitempty"`
}

type replyResponse struct {
	Reply string `json:"reply"`
}

// GenerateReply returns an AI-written reply draft.
func (c *Client) GenerateReply(ctx context.Context, req ReplyRequest) (string, error) {
	var resp replyResponse
	if err := c.do(ctx, EndpointReply, req, &resp); err != nil {
		return "", err
	}
	return resp.Reply, nil
}

// SuggestRequest asks for keyword ideas for a prospect.
type SuggestRequest struct {
	BrandName        string   `json:"brand_name"`
	BrandDescription string   `json:"brand_description"`
	Problem          string   `json:"problem"`
	ExistingKeywords []string `json:"existing_keywords"`
}

type suggestResponse struct {
	Keywords []string `json:"keywords"`
}

// SuggestKeywords returns AI-suggested keywords.
func (c *Client) SuggestKeywords(ctx context.Context, req SuggestRequest) ([]string, error) {
	var resp suggestResponse
	if err := c.do(ctx, EndpointKeywords, req, &resp); err != nil {
		return nil, err
	}
	if resp.Keywords == nil {
		resp.Keywords = []string{}
	}
	return resp.Keywords, nil
}

// SubmitRequest posts a reply to Reddit on the user's behalf.
type SubmitRequest struct {
	PostID string `json:"post_id"`
	Text   string `json:"text"`
	UserID string `json:"user_id"`
}

type submitResponse struct {
	CommentID string `json:"comment_id"`
}

// SubmitReply posts a comment and returns its id.
func (c *Client) SubmitReply(ctx context.Context, req SubmitRequest) (string, error) {
	var resp submitResponse
	if err := c.do(ctx, EndpointComment, req, &resp); err != nil {
		return "", err
	}
	return resp.CommentID, nil
}

// do POSTs body as JSON to endpoint and decodes the JSON response into out.
func (c *Client) do(ctx context.Context, endpoint string, body, out any) (err error) {
	defer func() {
		outcome := metrics.OutcomeOK
		if err != nil {
			outcome = metrics.OutcomeError
		}
		metrics.RecordBackendRequest(endpoint, outcome)
	}()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Plum-BFF/1.0")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend %s: failed to decode response: %w", endpoint, err)
	}
	return nil
}
