package bootstrap

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilewa/ilewa-backend/config"
	"github.com/ilewa/ilewa-backend/internal/auth"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{
		Redis: config.RedisConfig{CacheTTL: time.Minute},
		Map:   config.MapConfig{DemoFallback: true, DefaultBasemap: "OSM", ClusterCellPx: 60},
	}
	services := NewServices(ServiceDeps{Config: cfg, SQL: db, Redis: rdb})

	return BuildRouter(RouterDeps{
		ServiceName: "ilewa-test",
		Version:     "test",
		CORSOrigins: []string{"http://localhost:3000"},
		Limits:      LimitOptions{WritesPerMinute: 30, WriteBurst: 10},
		Redis:       rdb,
		Verifier:    auth.NewJWTVerifier("secret", "ilewa"),
		Services:    services,
		Log:         zerolog.Nop(),
	})
}

func do(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBuildRouter(t *testing.T) {
	r := testRouter(t)

	t.Run("health reports disabled db", func(t *testing.T) {
		w := do(r, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "disabled", body["db"])
		assert.Equal(t, "up", body["redis"])
		assert.Equal(t, "healthy", body["status"])
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	})

	t.Run("public map config needs no token", func(t *testing.T) {
		w := do(r, httptest.NewRequest(http.MethodGet, "/api/v1/map/config", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("quote falls back to the default when the store fails", func(t *testing.T) {
		w := do(r, httptest.NewRequest(http.MethodGet, "/api/v1/quotes/today", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Quote struct {
				ID     string `json:"id"`
				Author string `json:"author"`
			} `json:"quote"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "default", body.Quote.ID)
		assert.Equal(t, "John Snow", body.Quote.Author)
	})

	t.Run("geocode is public", func(t *testing.T) {
		w := do(r, httptest.NewRequest(http.MethodGet, "/api/v1/geocode/search?q=ab", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true,"results":[]}`, w.Body.String())

		w = do(r, httptest.NewRequest(http.MethodGet, "/api/v1/geocode/reverse?lat=100&lng=0", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("private routes require a token", func(t *testing.T) {
		for _, path := range []string{"/api/v1/notifications", "/api/v1/dashboard/stats", "/api/v1/admin/projects"} {
			w := do(r, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		}
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/projects", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := do(r, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})
}
