package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/0010capacity/capacity-backend/internal/apperr"
	"github.com/0010capacity/capacity-backend/internal/audit"
	"github.com/0010capacity/capacity-backend/internal/auth"
	"github.com/0010capacity/capacity-backend/internal/database/admins"
	"github.com/0010capacity/capacity-backend/internal/database/apps"
	auditRepo "github.com/0010capacity/capacity-backend/internal/database/audit"
	"github.com/0010capacity/capacity-backend/internal/database/blog"
	"github.com/0010capacity/capacity-backend/internal/database/chapters"
	"github.com/0010capacity/capacity-backend/internal/database/dbtest"
	"github.com/0010capacity/capacity-backend/internal/database/novels"
	"github.com/0010capacity/capacity-backend/internal/database/relations"
	"github.com/0010capacity/capacity-backend/internal/render"
)

type recordingRefresher struct {
	mu      sync.Mutex
	reasons []string
}

func (r *recordingRefresher) RequestSiteRegeneration(_ context.Context, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reasons = append(r.reasons, reason)
}

func (r *recordingRefresher) Reasons() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.reasons...)
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return context.DeadlineExceeded }

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	auth   *auth.Service
	audit  *audit.Service
	site   *recordingRefresher
	token  string
	novels *novels.Repository
	blog   *blog.Repository
	apps   *apps.Repository
}

// setupServer wires the router against a fresh sqlite database. When
// withAdmin is set an admin is registered and its token stored on the server.
func setupServer(t *testing.T, withAdmin bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := dbtest.Open(t)
	authService := auth.NewService(admins.NewRepository(db), auth.NewTokens([]byte("test-secret"), time.Hour), nil, zap.NewNop())
	auditService := audit.NewService(auditRepo.NewRepository(db), zap.NewNop())
	t.Cleanup(auditService.Wait)

	pages, err := render.NewPages("https://example.test")
	require.NoError(t, err)

	s := &testServer{
		db:     db,
		auth:   authService,
		audit:  auditService,
		site:   &recordingRefresher{},
		novels: novels.NewRepository(db),
		blog:   blog.NewRepository(db),
		apps:   apps.NewRepository(db),
	}
	s.router = NewRouter(RouterConfig{
		Novels:         s.novels,
		Chapters:       chapters.NewRepository(db),
		Relations:      relations.NewRepository(db),
		Blog:           s.blog,
		Apps:           s.apps,
		Auth:           authService,
		Auditor:        auditService,
		SiteRefresher:  s.site,
		Pages:          pages,
		Database:       dbPinger{db: db},
		Logger:         zap.NewNop(),
		AllowedOrigins: []string{"http://localhost:3000"},
		Version:        "test",
	})

	if withAdmin {
		creds := auth.Credentials{Username: "admin", Password: "secret123"}
		_, err := authService.RegisterFirstAdmin(context.Background(), creds)
		require.NoError(t, err)
		result, err := authService.Login(context.Background(), creds, "127.0.0.1")
		require.NoError(t, err)
		s.token = result.Token
	}
	return s
}

type dbPinger struct {
	db *gorm.DB
}

func (p dbPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// do sends a request; token may be empty for anonymous calls.
func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		encoded, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func requireEnvelope(t *testing.T, w *httptest.ResponseRecorder, status int) apperr.Envelope {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	env := decode[apperr.Envelope](t, w)
	require.Equal(t, status, env.Status)
	require.NotEmpty(t, env.Error)
	return env
}

// createNovel creates a novel through the API and returns its slug.
func (s *testServer) createNovel(t *testing.T, body map[string]any) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/novels", body, s.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[map[string]any](t, w)["slug"].(string)
}
