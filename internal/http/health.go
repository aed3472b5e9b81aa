package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const pingTimeout = 2 * time.Second

type HealthController struct {
	db      Pinger
	version string
	logger  *zap.Logger
}

func NewHealthController(db Pinger, version string, logger *zap.Logger) *HealthController {
	return &HealthController{db: db, version: version, logger: logger}
}

// Root describes the service.
// GET /
func (hc *HealthController) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "0010capacity Backend API",
		"version": hc.version,
		"status":  "running",
		"endpoints": gin.H{
			"health": "/health",
			"auth":   "/api/auth",
			"novels": "/api/novels",
			"blog":   "/api/blog",
			"apps":   "/api/apps",
		},
	})
}

// Health pings the database and answers 503 when it is unreachable.
// GET /health
func (hc *HealthController) Health(c *gin.Context) {
	status, code := "healthy", http.StatusOK
	database := "ok"

	if hc.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()
		if err := hc.db.Ping(ctx); err != nil {
			hc.logger.Warn("health check: database ping failed", zap.Error(err))
			status, code = "unhealthy", http.StatusServiceUnavailable
			database = "unreachable"
		}
	}

	c.JSON(code, gin.H{
		"status":  status,
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": hc.version,
		"checks":  gin.H{"database": database},
	})
}
