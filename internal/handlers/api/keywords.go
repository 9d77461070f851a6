package api

import (
	"encoding/json"
	"log/slog"
	"net/url"
	"slices"

	"github.com/gofiber/fiber/v3"

	"plum/internal/backend"
	"plum/internal/keywords"
	"plum/internal/models"
	"plum/internal/validation"
)

func keywordBoard(p *models.Prospect) models.KeywordsResponse {
	return models.KeywordsResponse{
		ProspectID: p.ID.String(),
		Keywords:   p.Categorized(),
		Limit:      keywords.MaxKeywordsPerProspect,
	}
}

// Keywords returns the prospect's keyword board.
func (h *ProspectHandler) Keywords(c fiber.Ctx) error {
	p, err := h.loadProspect(c)
	if p == nil {
		return err
	}
	return jsonSuccess(c, keywordBoard(p))
}

// AddKeywords merges the posted keyword lists into the prospect's keywords.
// The request is rejected with 422 when the result would exceed the limit.
func (h *ProspectHandler) AddKeywords(c fiber.Ctx) error {
	p, err := h.loadProspect(c)
	if p == nil {
		return err
	}

	var body keywords.KeywordSet
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	candidate, msg := cleanKeywords(keywords.Combine(body))
	if msg != "" {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if len(candidate) == 0 {
		return jsonError(c, fiber.StatusBadRequest, "at least one keyword is required")
	}

	counts := keywords.CalculateCounts(candidate, p.Keywords)
	if keywords.IsLimitExceeded(counts) {
		return limitExceeded(c, counts)
	}

	merged := keywords.Combine(keywords.KeywordSet{Keywords: p.Keywords, SetKeywords: candidate})
	if err := h.store.UpdateProspectKeywords(c.Context(), p.ID, merged); err != nil {
		return prospectLookupError(c, err)
	}
	p.Keywords = merged

	return jsonSuccess(c, keywordBoard(p))
}

// RemoveKeyword deselects one keyword. Proven keywords stay on the board.
func (h *ProspectHandler) RemoveKeyword(c fiber.Ctx) error {
	p, err := h.loadProspect(c)
	if p == nil {
		return err
	}

	raw, err := url.PathUnescape(c.Params("keyword"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid keyword")
	}
	kw := keywords.Normalize(raw)

	remaining := slices.DeleteFunc(slices.Clone(p.Keywords), func(existing string) bool {
		return keywords.Normalize(existing) == kw
	})
	if len(remaining) == len(p.Keywords) {
		return jsonError(c, fiber.StatusNotFound, "keyword not found")
	}

	if err := h.store.UpdateProspectKeywords(c.Context(), p.ID, remaining); err != nil {
		return prospectLookupError(c, err)
	}
	p.Keywords = remaining

	return jsonSuccess(c, keywordBoard(p))
}

// SuggestKeywords asks the backend for keyword ideas and previews the effect
// of adding all of them.
func (h *ProspectHandler) SuggestKeywords(c fiber.Ctx) error {
	p, err := h.loadProspect(c)
	if p == nil {
		return err
	}
	user := currentUser(c)

	brand, err := h.store.GetBrandForOwner(c.Context(), user.ID, p.BrandID)
	if err != nil {
		return brandLookupError(c, err)
	}

	suggested, err := h.backend.SuggestKeywords(c.Context(), backend.SuggestRequest{
		BrandName:        brand.Name,
		BrandDescription: brand.Description,
		Problem:          p.Problem,
		ExistingKeywords: p.Keywords,
	})
	if err != nil {
		slog.Error("keyword suggestion failed", "prospect", p.ID, "error", err)
		return backendError(c, err, "keyword suggestions are unavailable")
	}

	existing := make(map[string]bool, len(p.Keywords))
	for _, kw := range p.Keywords {
		existing[keywords.Normalize(kw)] = true
	}

	fresh := make([]string, 0, len(suggested))
	for _, kw := range keywords.Combine(keywords.KeywordSet{Keywords: normalizeAll(suggested)}) {
		if kw == "" || existing[kw] || !validation.ValidateKeyword(kw) {
			continue
		}
		fresh = append(fresh, kw)
	}

	counts := keywords.CalculateCounts(fresh, p.Keywords)
	resp := models.KeywordSuggestionsResponse{
		Suggestions: fresh,
		Limit: models.KeywordLimitResponse{
			Counts:   counts,
			Exceeded: keywords.IsLimitExceeded(counts),
		},
	}
	if resp.Limit.Exceeded {
		resp.Limit.Message = keywords.LimitMessage(counts)
	}

	return jsonSuccess(c, resp)
}

func normalizeAll(kws []string) []string {
	out := make([]string, len(kws))
	for i, kw := range kws {
		out[i] = keywords.Normalize(kw)
	}
	return out
}
