package api

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"plum/internal/backend"
	"plum/internal/keywords"
	"plum/internal/models"
)

// Posts sources recent posts for the prospect and counts how many of them
// mention each keyword.
func (h *ProspectHandler) Posts(c fiber.Ctx) error {
	p, err := h.loadProspect(c)
	if p == nil {
		return err
	}

	limit := h.yaml.Posts.Limit
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 && n < limit {
		limit = n
	}
	top := h.yaml.Posts.TopKeywords
	if n, err := strconv.Atoi(c.Query("top")); err == nil && n > 0 {
		top = n
	}

	var posts []models.Post
	if len(p.Keywords) > 0 {
		posts, err = h.backend.FetchPosts(c.Context(), backend.PostsRequest{
			ProspectID: p.ID.String(),
			Keywords:   p.Keywords,
			Subreddits: p.Subreddits,
			Limit:      limit,
		})
		if err != nil {
			slog.Error("post sourcing failed", "prospect", p.ID, "error", err)
			return backendError(c, err, "posts are unavailable")
		}
	}

	tally := keywords.CountByPost(posts, p.Keywords, h.yaml.Counting)

	annotated := make([]models.PostWithMatches, 0, len(posts))
	for _, post := range posts {
		matched := keywords.Matching(post, p.Keywords, h.yaml.Counting)
		if matched == nil {
			matched = []string{}
		}
		annotated = append(annotated, models.PostWithMatches{Post: post, MatchedKeywords: matched})
	}

	return jsonSuccess(c, models.PostsResponse{
		Posts:       annotated,
		KeywordHits: tally.Counts,
		TopKeywords: tally.Top(top),
	})
}

type postTextRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Text    string `json:"text"`
}

// Reply asks the backend for a reply draft in the brand's voice.
func (h *ProspectHandler) Reply(c fiber.Ctx) error {
	p, err := h.loadProspect(c)
	if p == nil {
		return err
	}
	user := currentUser(c)

	postID := c.Params("postId")
	var body postTextRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	brand, err := h.store.GetBrandForOwner(c.Context(), user.ID, p.BrandID)
	if err != nil {
		return brandLookupError(c, err)
	}

	reply, err := h.backend.GenerateReply(c.Context(), backend.ReplyRequest{
		PostID:           postID,
		PostTitle:        body.Title,
		PostContent:      body.Content,
		BrandName:        brand.Name,
		BrandDescription: brand.Description,
		BrandWebsite:     brand.Website,
		Tone:             brand.Tone,
		Problem:          p.Problem,
	})
	if err != nil {
		slog.Error("reply generation failed", "prospect", p.ID, "post", postID, "error", err)
		return backendError(c, err, "reply generation is unavailable")
	}

	return jsonSuccess(c, models.ReplyResponse{PostID: postID, Reply: reply})
}

// Engage posts a reply on the user's behalf and credits the keywords that
// brought the post in.
func (h *ProspectHandler) Engage(c fiber.Ctx) error {
	p, err := h.loadProspect(c)
	if p == nil {
		return err
	}
	user := currentUser(c)

	postID := c.Params("postId")
	var body postTextRequest
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	body.Text = strings.TrimSpace(body.Text)
	if body.Text == "" {
		return jsonError(c, fiber.StatusBadRequest, "reply text is required")
	}

	commentID, err := h.backend.SubmitReply(c.Context(), backend.SubmitRequest{
		PostID: postID,
		Text:   body.Text,
		UserID: user.ID.String(),
	})
	if err != nil {
		slog.Error("reply submission failed", "prospect", p.ID, "post", postID, "error", err)
		return backendError(c, err, "reply could not be posted")
	}

	post := models.Post{ID: postID, Title: body.Title, Content: body.Content}
	credited := keywords.Matching(post, p.Keywords, h.yaml.Counting)
	if err := h.store.RecordEngagement(c.Context(), p.ID, credited); err != nil {
		// The comment is live; only the bookkeeping failed.
		slog.Error("failed to record engagement", "prospect", p.ID, "post", postID, "error", err)
		credited = nil
	}
	if credited == nil {
		credited = []string{}
	}

	return jsonSuccess(c, models.EngageResponse{CommentID: commentID, CreditedKeywords: credited})
}
