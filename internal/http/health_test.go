package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHealthController(t *testing.T) {
	t.Run("root describes the service", func(t *testing.T) {
		s := setupServer(t, false)

		w := s.do(t, http.MethodGet, "/", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		body := decode[map[string]any](t, w)
		assert.Equal(t, "0010capacity Backend API", body["name"])
		assert.Equal(t, "running", body["status"])
		assert.Equal(t, "test", body["version"])
		assert.Contains(t, body, "endpoints")
	})

	t.Run("healthy database", func(t *testing.T) {
		s := setupServer(t, false)

		w := s.do(t, http.MethodGet, "/health", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		body := decode[map[string]any](t, w)
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, map[string]any{"database": "ok"}, body["checks"])
	})

	t.Run("unreachable database", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		health := NewHealthController(failingPinger{}, "test", zap.NewNop())
		router.GET("/health", health.Health)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unhealthy", decode[map[string]any](t, w)["status"])
	})
}

func TestRouter_NotFound(t *testing.T) {
	s := setupServer(t, false)

	w := s.do(t, http.MethodGet, "/api/nothing-here", nil, "")
	env := requireEnvelope(t, w, http.StatusNotFound)
	assert.Equal(t, "Not Found", env.Error)
}

func TestRouter_CORSAndSecurityHeaders(t *testing.T) {
	s := setupServer(t, false)

	req := httptest.NewRequest(http.MethodOptions, "/api/novels", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = s.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestAuditController(t *testing.T) {
	s := setupServer(t, true)
	slug := s.createNovel(t, map[string]any{"title": "Audited"})
	w := s.do(t, http.MethodDelete, "/api/novels/"+slug, nil, s.token)
	require.Equal(t, http.StatusNoContent, w.Code)
	s.audit.Wait()

	t.Run("requires admin", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/admin/audit", nil, "")
		requireEnvelope(t, w, http.StatusUnauthorized)
	})

	t.Run("paginates content events", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/admin/audit?event_type=content&limit=1", nil, s.token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		body := decode[map[string]any](t, w)
		assert.EqualValues(t, 2, body["total"])
		assert.EqualValues(t, 1, body["limit"])
		assert.Equal(t, true, body["has_more"])
		assert.Len(t, body["data"], 1)
	})

	t.Run("rejects unknown event types", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/admin/audit?event_type=billing", nil, s.token)
		requireEnvelope(t, w, http.StatusBadRequest)
	})
}
