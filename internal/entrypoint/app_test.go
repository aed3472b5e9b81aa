package entrypoint

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/0010capacity/capacity-backend/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		App:      config.App{Env: config.EnvDevelopment},
		Global:   config.Global{ShutdownTimeoutInSeconds: 1},
		Database: config.Database{URL: filepath.Join(dir, "content.db")},
		Auth: config.Auth{
			JWTExpiration:    time.Hour,
			RateLimitBackend: config.RateLimitMemory,
		},
		Site: config.Site{
			BaseURL:   "https://example.test",
			OutputDir: filepath.Join(dir, "public"),
			Schedule:  "0 * * * *",
		},
		Tasks: config.Tasks{
			Enabled: true,
			DBPath:  filepath.Join(dir, "tasks.db"),
			Workers: 1,
		},
		Audit: config.Audit{RetentionDays: 90},
	}
}

func TestNewApp(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := NewApp(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	require.NotNil(t, app.Tasks)
	assert.True(t, app.Builder.Enabled())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, app.StartBackground(ctx))

	router := app.Router("test")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	app.StopBackground(stopCtx)
}

func TestNewApp_ProductionRequiresSecret(t *testing.T) {
	cfg := testConfig(t)
	cfg.App.Env = config.EnvProduction

	_, err := NewApp(cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestNewApp_TasksDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Tasks.Enabled = false

	app, err := NewApp(cfg, zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.Tasks)
}
