package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilewa/ilewa-backend/internal/auth"
	authdomain "github.com/ilewa/ilewa-backend/internal/auth/domain"
	"github.com/ilewa/ilewa-backend/internal/mapview"
	"github.com/ilewa/ilewa-backend/internal/projects/domain"
	"github.com/ilewa/ilewa-backend/internal/projects/service"
)

type memStore struct {
	items []domain.Project
	fail  bool
	clock time.Time
}

func (m *memStore) Create(_ context.Context, p *domain.Project) error {
	m.clock = m.clock.Add(time.Hour)
	p.ID = fmt.Sprintf("p%d", len(m.items)+1)
	p.CreatedAt, p.UpdatedAt = m.clock, m.clock
	m.items = append([]domain.Project{*p}, m.items...)
	return nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*domain.Project, error) {
	for _, p := range m.items {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) List(_ context.Context, f domain.Filter) ([]domain.Project, error) {
	if m.fail {
		return nil, errors.New("db down")
	}
	return f.Apply(m.items), nil
}

func (m *memStore) UpdateStatus(_ context.Context, id, from, to string) (*domain.Project, error) {
	for i := range m.items {
		if m.items[i].ID == id && m.items[i].Status == from {
			m.items[i].Status = to
			cp := m.items[i]
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) Delete(_ context.Context, id string) (bool, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) CountByStatus(_ context.Context, status string) (int, error) {
	if m.fail {
		return 0, errors.New("db down")
	}
	return len(domain.Filter{Status: status}.Apply(m.items)), nil
}

func setup(t *testing.T, store *memStore, demoFallback bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	catalog, err := mapview.LoadCatalog()
	require.NoError(t, err)

	svc := service.NewProjectService(store, catalog, service.WithDemoFallback(demoFallback))
	h := New(svc, catalog, 0)

	actor := func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			c.Set(auth.CtxFirebaseUID, uid)
			c.Set(auth.CtxRole, c.GetHeader("X-Test-Role"))
		}
		c.Next()
	}
	r := gin.New()
	api := r.Group("/api/v1", actor)
	h.RegisterPublic(api)
	h.Register(api)
	h.RegisterAdmin(api.Group("/admin"))
	return r
}

type req struct {
	method, path, user, role, body string
}

func do(r *gin.Engine, q req) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	hr := httptest.NewRequest(q.method, q.path, strings.NewReader(q.body))
	hr.Header.Set("Content-Type", "application/json")
	if q.user != "" {
		hr.Header.Set("X-Test-User", q.user)
		hr.Header.Set("X-Test-Role", q.role)
	}
	r.ServeHTTP(w, hr)
	return w
}

const submission = `{"name":"Clean water","category":"sante","repository_url":"https://github.com/x/water",
"location":"Kinshasa","latitude":-4.32,"longitude":15.31,"description":"wells"}`

func TestSubmitModerateAndBrowse(t *testing.T) {
	store := &memStore{clock: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}
	r := setup(t, store, false)

	w := do(r, req{method: http.MethodPost, path: "/api/v1/projects", user: "alice", role: authdomain.RoleUser, body: submission})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Project domain.Project `json:"project"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, domain.StatusPending, created.Project.Status)
	id := created.Project.ID

	assert.Equal(t, http.StatusUnauthorized, do(r, req{method: http.MethodPost, path: "/api/v1/projects", body: submission}).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, req{method: http.MethodPost, path: "/api/v1/projects", user: "alice", body: `{"name":"x"}`}).Code)

	// Pending projects are hidden from others and from the public list.
	assert.Equal(t, http.StatusNotFound, do(r, req{method: http.MethodGet, path: "/api/v1/projects/" + id, user: "bob"}).Code)
	assert.Equal(t, http.StatusOK, do(r, req{method: http.MethodGet, path: "/api/v1/projects/" + id, user: "alice"}).Code)
	assert.JSONEq(t, `{"ok":true,"projects":[],"source":"live"}`,
		do(r, req{method: http.MethodGet, path: "/api/v1/projects?category=sante"}).Body.String())

	mine := do(r, req{method: http.MethodGet, path: "/api/v1/me/projects?status=pending", user: "alice"})
	assert.Contains(t, mine.Body.String(), id)

	// Moderation.
	adminPath := "/api/v1/admin/projects/" + id + "/approve"
	assert.Equal(t, http.StatusForbidden, do(r, req{method: http.MethodPost, path: adminPath, user: "alice", role: authdomain.RoleUser}).Code)
	require.Equal(t, http.StatusOK, do(r, req{method: http.MethodPost, path: adminPath, user: "root", role: authdomain.RoleAdmin}).Code)
	assert.Equal(t, http.StatusConflict, do(r, req{method: http.MethodPost, path: adminPath, user: "root", role: authdomain.RoleAdmin}).Code)

	queue := do(r, req{method: http.MethodGet, path: "/api/v1/admin/projects?status=approved", user: "root", role: authdomain.RoleAdmin})
	assert.Contains(t, queue.Body.String(), id)
	assert.Equal(t, http.StatusBadRequest,
		do(r, req{method: http.MethodGet, path: "/api/v1/admin/projects?status=lost", user: "root", role: authdomain.RoleAdmin}).Code)

	// Approved projects show up on the map.
	w = do(r, req{method: http.MethodGet, path: "/api/v1/map/projects?category=sante"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.SourceLive, w.Header().Get(SourceHeader))
	var fc mapview.FeatureCollection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fc))
	require.Len(t, fc.Features, 1)
	assert.Equal(t, [2]float64{15.31, -4.32}, fc.Features[0].Geometry.Coordinates)

	w = do(r, req{method: http.MethodGet, path: "/api/v1/map/projects?category=education"})
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fc))
	assert.Empty(t, fc.Features, "category filter")

	// Authors cannot delete approved projects; admins can.
	assert.Equal(t, http.StatusForbidden, do(r, req{method: http.MethodDelete, path: "/api/v1/projects/" + id, user: "alice"}).Code)
	assert.Equal(t, http.StatusOK, do(r, req{method: http.MethodDelete, path: "/api/v1/projects/" + id, user: "root", role: authdomain.RoleAdmin}).Code)
}

func TestMapFallsBackToDemo(t *testing.T) {
	r := setup(t, &memStore{fail: true}, true)

	w := do(r, req{method: http.MethodGet, path: "/api/v1/map/projects?cluster=true&zoom=1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.SourceDemo, w.Header().Get(SourceHeader))
	var fc mapview.FeatureCollection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fc))
	assert.NotEmpty(t, fc.Features)

	assert.Contains(t, do(r, req{method: http.MethodGet, path: "/api/v1/projects"}).Body.String(), `"source":"demo"`)
}

func TestEmptyStoreFiltersDemoByCategory(t *testing.T) {
	r := setup(t, &memStore{}, true)

	w := do(r, req{method: http.MethodGet, path: "/api/v1/map/projects"})
	require.Equal(t, http.StatusOK, w.Code)
	var all mapview.FeatureCollection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all.Features, 24)

	w = do(r, req{method: http.MethodGet, path: "/api/v1/map/projects?category=sante"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.SourceDemo, w.Header().Get(SourceHeader))
	var sante mapview.FeatureCollection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sante))
	require.NotEmpty(t, sante.Features)
	assert.Less(t, len(sante.Features), len(all.Features))
	for _, f := range sante.Features {
		assert.Equal(t, "sante", f.Properties["category"])
	}
}

func TestMapViewRejectsNonFiniteCoordinates(t *testing.T) {
	r := setup(t, &memStore{}, false)

	for _, path := range []string{
		"/api/v1/map/view?lat=NaN&lng=NaN",
		"/api/v1/map/view?bbox=NaN,NaN,NaN,NaN",
		"/api/v1/map/projects?lat=0&lng=Inf",
	} {
		w := do(r, req{method: http.MethodGet, path: path})
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Contains(t, w.Body.String(), `"ok":false`, path)
	}
}

func TestMapConfigAndView(t *testing.T) {
	r := setup(t, &memStore{}, false)

	w := do(r, req{method: http.MethodGet, path: "/api/v1/map/config"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"default_basemap":"OSM"`)

	w = do(r, req{method: http.MethodGet, path: "/api/v1/map/view?category=sante&lat=5&lng=6&zoom=7&basemap=SAT&project=missing"})
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		View mapview.ViewState `json:"view"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "sante", body.View.Category)
	assert.Equal(t, "SAT", body.View.Basemap)
	assert.Equal(t, 7, body.View.Center.Zoom)
	assert.Empty(t, body.View.ProjectID, "unknown project is dropped")

	assert.Equal(t, http.StatusBadRequest, do(r, req{method: http.MethodGet, path: "/api/v1/map/view?category=nope"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, req{method: http.MethodGet, path: "/api/v1/projects?limit=-1"}).Code)
}
