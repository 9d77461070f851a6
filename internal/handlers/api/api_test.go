package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"plum/internal/backend"
	"plum/internal/config"
	"plum/internal/db"
	"plum/internal/middleware"
	"plum/internal/models"
)

// fakeStore is an in-memory ProspectStore.
type fakeStore struct {
	mu         sync.Mutex
	brands     map[uuid.UUID]*models.Brand
	prospects  map[uuid.UUID]*models.Prospect
	engagement map[uuid.UUID][][]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		brands:     map[uuid.UUID]*models.Brand{},
		prospects:  map[uuid.UUID]*models.Prospect{},
		engagement: map[uuid.UUID][][]string{},
	}
}

func (s *fakeStore) CreateBrand(_ context.Context, brand *models.Brand) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.brands {
		if b.OwnerID == brand.OwnerID && b.Name == brand.Name {
			return db.ErrDuplicateBrand
		}
	}
	brand.ID = uuid.New()
	brand.CreatedAt = time.Now()
	brand.UpdatedAt = brand.CreatedAt
	cp := *brand
	s.brands[brand.ID] = &cp
	return nil
}

func (s *fakeStore) GetBrandForOwner(_ context.Context, ownerID, brandID uuid.UUID) (*models.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.brands[brandID]
	if !ok || b.OwnerID != ownerID {
		return nil, db.ErrBrandNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *fakeStore) ListBrandsByOwner(_ context.Context, ownerID uuid.UUID) ([]models.Brand, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Brand
	for _, b := range s.brands {
		if b.OwnerID == ownerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *fakeStore) UpdateBrand(_ context.Context, brand *models.Brand) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.brands[brand.ID]
	if !ok || b.OwnerID != brand.OwnerID {
		return db.ErrBrandNotFound
	}
	cp := *brand
	s.brands[brand.ID] = &cp
	return nil
}

func (s *fakeStore) DeleteBrand(_ context.Context, ownerID, brandID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.brands[brandID]
	if !ok || b.OwnerID != ownerID {
		return db.ErrBrandNotFound
	}
	delete(s.brands, brandID)
	return nil
}

func (s *fakeStore) CreateProspect(_ context.Context, p *models.Prospect) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.New()
	if p.Engagement == nil {
		p.Engagement = map[string]int{}
	}
	cp := *p
	s.prospects[p.ID] = &cp
	return nil
}

func (s *fakeStore) GetProspectForOwner(_ context.Context, ownerID, prospectID uuid.UUID) (*models.Prospect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prospects[prospectID]
	if !ok {
		return nil, db.ErrProspectNotFound
	}
	if b, ok := s.brands[p.BrandID]; !ok || b.OwnerID != ownerID {
		return nil, db.ErrProspectNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeStore) ListProspectsByBrand(_ context.Context, brandID uuid.UUID) ([]models.Prospect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Prospect
	for _, p := range s.prospects {
		if p.BrandID == brandID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *fakeStore) UpdateProspectKeywords(_ context.Context, prospectID uuid.UUID, kws []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prospects[prospectID]
	if !ok {
		return db.ErrProspectNotFound
	}
	p.Keywords = kws
	return nil
}

func (s *fakeStore) DeleteProspect(_ context.Context, ownerID, prospectID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prospects[prospectID]
	if !ok || s.brands[p.BrandID].OwnerID != ownerID {
		return db.ErrProspectNotFound
	}
	delete(s.prospects, prospectID)
	return nil
}

func (s *fakeStore) RecordEngagement(_ context.Context, prospectID uuid.UUID, kws []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prospects[prospectID]
	if !ok {
		return db.ErrProspectNotFound
	}
	s.engagement[prospectID] = append(s.engagement[prospectID], kws)
	for _, kw := range kws {
		p.Engagement[kw]++
		p.ProvenKeywords = append(p.ProvenKeywords, kw)
	}
	return nil
}

// fakeBackend records requests and serves canned answers.
type fakeBackend struct {
	posts       []models.Post
	suggestions []string
	err         error

	postsReq  backend.PostsRequest
	submitReq backend.SubmitRequest
	replyReq  backend.ReplyRequest
}

func (b *fakeBackend) FetchPosts(_ context.Context, req backend.PostsRequest) ([]models.Post, error) {
	b.postsReq = req
	return b.posts, b.err
}

func (b *fakeBackend) GenerateReply(_ context.Context, req backend.ReplyRequest) (string, error) {
	b.replyReq = req
	if b.err != nil {
		return "", b.err
	}
	return "Have you tried " + req.BrandName + "?", nil
}

func (b *fakeBackend) SuggestKeywords(_ context.Context, _ backend.SuggestRequest) ([]string, error) {
	return b.suggestions, b.err
}

func (b *fakeBackend) SubmitReply(_ context.Context, req backend.SubmitRequest) (string, error) {
	b.submitReq = req
	if b.err != nil {
		return "", b.err
	}
	return "t1_comment", nil
}

// fakeTracker is an in-memory TourTracker.
type fakeTracker map[string]bool

func (t fakeTracker) HasSeen(userID uuid.UUID, tour string) (bool, error) {
	return t[userID.String()+tour], nil
}

func (t fakeTracker) MarkSeen(userID uuid.UUID, tour string) error {
	t[userID.String()+tour] = true
	return nil
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

type testEnv struct {
	app     *fiber.App
	store   *fakeStore
	backend *fakeBackend
	user    *models.User
	brand   *models.Brand
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		store:   newFakeStore(),
		backend: &fakeBackend{},
		user:    &models.User{ID: uuid.New(), Sub: "sub-1", Email: "ada@example.com"},
	}
	env.brand = &models.Brand{OwnerID: env.user.ID, Name: "Acme CRM", Industry: "saas", Description: "CRM for small teams"}
	require.NoError(t, env.store.CreateBrand(context.Background(), env.brand))

	cfg := &config.Config{Env: "development"}
	yamlCfg := &config.YAMLConfig{
		BrandPresets: []config.BrandPreset{{
			Industry:   "saas",
			Keywords:   []string{"CRM", "sales pipeline", "crm"},
			Subreddits: []string{"r/sales"},
		}},
		Tours: []config.TourConfig{{Name: "dashboard", Version: 2}},
		Posts: config.PostsConfig{Limit: 50, TopKeywords: 10},
	}

	brands := NewBrandHandler(env.store, cfg)
	prospects := NewProspectHandler(env.store, env.backend, yamlCfg)
	tours := NewTourHandler(fakeTracker{}, yamlCfg)

	app := fiber.New()
	app.Use(func(c fiber.Ctx) error {
		c.Locals("user", env.user)
		return c.Next()
	})
	app.Get("/api/brands", brands.List)
	app.Post("/api/brands", brands.Create)
	app.Get("/api/brands/:id", brands.Get)
	app.Put("/api/brands/:id", brands.Update)
	app.Delete("/api/brands/:id", brands.Delete)
	app.Post("/api/brands/:id/select", brands.Select)
	app.Get("/api/prospects", prospects.List)
	app.Post("/api/prospects", prospects.Create)
	app.Get("/api/prospects/:id", prospects.Get)
	app.Delete("/api/prospects/:id", prospects.Delete)
	app.Get("/api/prospects/:id/keywords", prospects.Keywords)
	app.Post("/api/prospects/:id/keywords", prospects.AddKeywords)
	app.Post("/api/prospects/:id/keywords/suggest", prospects.SuggestKeywords)
	app.Delete("/api/prospects/:id/keywords/:keyword", prospects.RemoveKeyword)
	app.Get("/api/prospects/:id/posts", prospects.Posts)
	app.Post("/api/prospects/:id/posts/:postId/reply", prospects.Reply)
	app.Post("/api/prospects/:id/posts/:postId/engage", prospects.Engage)
	app.Get("/api/tours/:name", tours.Get)
	app.Post("/api/tours/:name/seen", tours.MarkSeen)
	env.app = app

	return env
}

// do sends a request with the active brand cookie set and decodes the envelope.
func (env *testEnv) do(t *testing.T, method, path string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.BrandCookie, Value: env.brand.ID.String()})

	resp, err := env.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env2 envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &env2), "body: %s", raw)
	return resp.StatusCode, env2
}

func (env *testEnv) addProspect(t *testing.T, kws ...string) *models.Prospect {
	t.Helper()
	p := &models.Prospect{BrandID: env.brand.ID, Name: "Leads", Problem: "finding leads", Keywords: kws}
	require.NoError(t, env.store.CreateProspect(context.Background(), p))
	return p
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

var errBackendDown = errors.New("connection refused")
