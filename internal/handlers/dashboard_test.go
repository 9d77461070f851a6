package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/template/html/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plum/internal/config"
	"plum/internal/db"
	"plum/internal/middleware"
	"plum/internal/models"
)

type fakePageStore struct {
	brands    []models.Brand
	prospects []models.Prospect
	stats     []models.KeywordStat
	statsErr  error
}

func (s *fakePageStore) ListBrandsByOwner(_ context.Context, ownerID uuid.UUID) ([]models.Brand, error) {
	var out []models.Brand
	for _, b := range s.brands {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakePageStore) GetBrandForOwner(_ context.Context, ownerID, brandID uuid.UUID) (*models.Brand, error) {
	for _, b := range s.brands {
		if b.ID == brandID && b.OwnerID == ownerID {
			return &b, nil
		}
	}
	return nil, db.ErrBrandNotFound
}

func (s *fakePageStore) ListProspectsByBrand(_ context.Context, brandID uuid.UUID) ([]models.Prospect, error) {
	var out []models.Prospect
	for _, p := range s.prospects {
		if p.BrandID == brandID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakePageStore) GetProspectForOwner(ctx context.Context, ownerID, prospectID uuid.UUID) (*models.Prospect, error) {
	for _, p := range s.prospects {
		if p.ID != prospectID {
			continue
		}
		if _, err := s.GetBrandForOwner(ctx, ownerID, p.BrandID); err != nil {
			return nil, db.ErrProspectNotFound
		}
		return &p, nil
	}
	return nil, db.ErrProspectNotFound
}

func (s *fakePageStore) GetKeywordStats(_ context.Context, _ uuid.UUID) ([]models.KeywordStat, error) {
	return s.stats, s.statsErr
}

type seenTours map[string]bool

func (t seenTours) HasSeen(_ uuid.UUID, tour string) (bool, error) {
	return t[tour], nil
}

// writeViews creates minimal templates exposing the data each page gets.
func writeViews(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	views := map[string]string{
		"dashboard": `{{range .Brands}}brand={{.Name}};{{end}}{{with .ActiveBrand}}active={{.Name}};{{end}}{{range .Prospects}}prospect={{.Name}};{{end}}tour={{.ShowTour}}`,
		"prospect":  `{{.Prospect.Name}}|{{range .Keywords}}{{.Keyword}}:{{.IsSelected}}:{{.IsProven}};{{end}}|{{.KeywordCount}}/{{.MaxKeywords}}|{{range .Stats}}{{.Keyword}}={{.PostCount}};{{end}}|tour={{.ShowTour}}`,
		"login":     `login oidc={{.OIDCEnabled}} site={{.SiteTitle}}`,
		"error":     `error={{.Message}}`,
	}
	for name, body := range views {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".html"), []byte(body), 0o644))
	}
	return dir
}

type pageEnv struct {
	app    *fiber.App
	store  *fakePageStore
	user   *models.User
	brands []models.Brand
}

func newPageEnv(t *testing.T, loggedIn bool) *pageEnv {
	t.Helper()

	user := &models.User{ID: uuid.New(), Sub: "sub-1", Email: "ada@example.com"}
	acme := models.Brand{ID: uuid.New(), OwnerID: user.ID, Name: "Acme"}
	zeta := models.Brand{ID: uuid.New(), OwnerID: user.ID, Name: "Zeta"}
	store := &fakePageStore{
		brands: []models.Brand{acme, zeta},
		prospects: []models.Prospect{
			{ID: uuid.New(), BrandID: acme.ID, Name: "Leads", Keywords: []string{"crm"}, ProvenKeywords: []string{"sales"}},
			{ID: uuid.New(), BrandID: zeta.ID, Name: "Churn", Keywords: []string{"cancel"}},
		},
	}

	cfg := &config.Config{SiteTitle: "Plum", OIDCIssuer: "https://idp.example.com"}
	yamlCfg := &config.YAMLConfig{Tours: []config.TourConfig{{Name: TourDashboard, Version: 1}}}
	h := NewDashboardHandler(store, seenTours{}, cfg, yamlCfg)

	app := fiber.New(fiber.Config{
		Views: html.New(writeViews(t), ".html"),
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).Render("error", fiber.Map{"Message": err.Error()})
		},
	})
	app.Use(func(c fiber.Ctx) error {
		if loggedIn {
			c.Locals("user", user)
		}
		return c.Next()
	})
	app.Get("/", h.Index)
	app.Get("/login", h.Login)
	app.Get("/prospects/:id", h.Prospect)

	return &pageEnv{app: app, store: store, user: user, brands: store.brands}
}

func (env *pageEnv) get(t *testing.T, path string, cookies ...*http.Cookie) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestDashboard_Index(t *testing.T) {
	env := newPageEnv(t, true)

	t.Run("defaults to first brand", func(t *testing.T) {
		resp, body := env.get(t, "/")
		require.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "brand=Acme;brand=Zeta;active=Acme;prospect=Leads;tour=true", body)
	})

	t.Run("brand cookie selects brand", func(t *testing.T) {
		cookie := &http.Cookie{Name: middleware.BrandCookie, Value: env.brands[1].ID.String()}
		resp, body := env.get(t, "/", cookie)
		require.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "brand=Acme;brand=Zeta;active=Zeta;prospect=Churn;tour=true", body)
	})

	t.Run("unknown brand cookie falls back", func(t *testing.T) {
		cookie := &http.Cookie{Name: middleware.BrandCookie, Value: uuid.NewString()}
		_, body := env.get(t, "/", cookie)
		assert.Contains(t, body, "active=Acme;")
	})
}

func TestDashboard_IndexRequiresUser(t *testing.T) {
	env := newPageEnv(t, false)
	resp, _ := env.get(t, "/")
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestDashboard_Prospect(t *testing.T) {
	env := newPageEnv(t, true)
	env.store.stats = []models.KeywordStat{{Keyword: "crm", PostCount: 7}}
	p := env.store.prospects[0]

	resp, body := env.get(t, "/prospects/"+p.ID.String())
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "Leads|crm:true:false;sales:false:true;|1/30|crm=7;|tour=false", body)
}

func TestDashboard_ProspectStatsUnavailable(t *testing.T) {
	env := newPageEnv(t, true)
	env.store.statsErr = errors.New("db down")
	p := env.store.prospects[0]

	resp, body := env.get(t, "/prospects/"+p.ID.String())
	require.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, body, "||tour=false")
}

func TestDashboard_ProspectNotFound(t *testing.T) {
	env := newPageEnv(t, true)

	for _, path := range []string{"/prospects/" + uuid.NewString(), "/prospects/not-a-uuid"} {
		resp, body := env.get(t, path)
		assert.Equal(t, 404, resp.StatusCode, path)
		assert.Equal(t, "error=Prospect not found", body, path)
	}
}

func TestDashboard_Login(t *testing.T) {
	t.Run("anonymous sees login page", func(t *testing.T) {
		env := newPageEnv(t, false)
		resp, body := env.get(t, "/login")
		require.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "login oidc=true site=Plum", body)
	})

	t.Run("signed-in user is sent home", func(t *testing.T) {
		env := newPageEnv(t, true)
		resp, _ := env.get(t, "/login")
		assert.Equal(t, "/", resp.Header.Get("Location"))
	})
}
