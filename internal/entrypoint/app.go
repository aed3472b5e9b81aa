package entrypoint

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/0010capacity/capacity-backend/internal/audit"
	"github.com/0010capacity/capacity-backend/internal/auth"
	"github.com/0010capacity/capacity-backend/internal/config"
	"github.com/0010capacity/capacity-backend/internal/database"
	"github.com/0010capacity/capacity-backend/internal/database/admins"
	"github.com/0010capacity/capacity-backend/internal/database/apps"
	auditRepo "github.com/0010capacity/capacity-backend/internal/database/audit"
	"github.com/0010capacity/capacity-backend/internal/database/blog"
	"github.com/0010capacity/capacity-backend/internal/database/chapters"
	"github.com/0010capacity/capacity-backend/internal/database/novels"
	"github.com/0010capacity/capacity-backend/internal/database/relations"
	http_controllers "github.com/0010capacity/capacity-backend/internal/http"
	"github.com/0010capacity/capacity-backend/internal/render"
	"github.com/0010capacity/capacity-backend/internal/scheduler"
	"github.com/0010capacity/capacity-backend/internal/site"
	"github.com/0010capacity/capacity-backend/internal/tasks"
)

// App holds every long-lived component built from the configuration.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	DB        *database.Database
	Admins    *admins.Repository
	Novels    *novels.Repository
	Chapters  *chapters.Repository
	Relations *relations.Repository
	Blog      *blog.Repository
	Apps      *apps.Repository

	Auth      *auth.Service
	Audit     *audit.Service
	Pages     *render.Pages
	Builder   *site.Builder
	Tasks     *tasks.Client // nil when the task queue is disabled
	Scheduler *scheduler.SiteSyncScheduler

	closers []func()
}

// NewApp connects to the database and wires the services. The caller must
// call Close.
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger}

	db, err := database.NewDatabase(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	app.DB = db
	app.onClose(func() {
		if err := db.Close(); err != nil {
			logger.Warn("error closing database", zap.Error(err))
		}
	})

	app.Admins = admins.NewRepository(db.DB)
	app.Novels = novels.NewRepository(db.DB)
	app.Chapters = chapters.NewRepository(db.DB)
	app.Relations = relations.NewRepository(db.DB)
	app.Blog = blog.NewRepository(db.DB)
	app.Apps = apps.NewRepository(db.DB)

	secret, generated, err := auth.ResolveSecret(cfg.Auth, cfg.IsProduction())
	if err != nil {
		app.Close()
		return nil, err
	}
	if generated {
		logger.Warn("JWT_SECRET is not set, using a random secret; tokens will not survive a restart")
	}

	attempts, stopAttempts, err := auth.NewAttemptStore(cfg.Auth, cfg.Redis)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.onClose(stopAttempts)
	logger.Info("login rate limiting enabled", zap.String("backend", string(cfg.Auth.RateLimitBackend)))

	app.Auth = auth.NewService(app.Admins, auth.NewTokens(secret, cfg.Auth.JWTExpiration), attempts, logger)
	app.Audit = audit.NewService(auditRepo.NewRepository(db.DB), logger)
	app.onClose(app.Audit.Wait)

	app.Pages, err = render.NewPages(cfg.Site.BaseURL)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to load page templates: %w", err)
	}
	app.Builder = site.NewBuilder(cfg.Site.OutputDir, app.Pages, app.Blog, app.Novels, app.Chapters, logger)

	if cfg.Tasks.Enabled {
		app.Tasks, err = tasks.NewClient(cfg.Tasks.DBPath, tasks.ConfigFrom(cfg.Tasks), logger)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to initialize task queue: %w", err)
		}
		app.onClose(func() {
			if err := app.Tasks.Close(); err != nil {
				logger.Warn("error closing task client", zap.Error(err))
			}
		})
		app.Tasks.Register(
			tasks.NewRegenerateSiteQueue(app.Builder, logger),
			tasks.NewCleanupAuditQueue(app.Audit, logger),
		)
	}

	var cleanup scheduler.AuditCleanupEnqueuer
	if app.Tasks != nil {
		cleanup = app.Tasks
	}
	app.Scheduler = scheduler.NewSiteSyncScheduler(scheduler.SiteSyncConfig{
		Enabled:            cfg.Site.SyncEnabled,
		Schedule:           cfg.Site.Schedule,
		AuditRetentionDays: cfg.Audit.RetentionDays,
	}, app.Builder, app.Audit, cleanup, logger)

	return app, nil
}

func (a *App) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Router builds the HTTP handler for the wired components.
func (a *App) Router(version string) *gin.Engine {
	var refresher http_controllers.SiteRefresher
	if a.Tasks != nil {
		refresher = a.Tasks
	}

	return http_controllers.NewRouter(http_controllers.RouterConfig{
		Novels:         a.Novels,
		Chapters:       a.Chapters,
		Relations:      a.Relations,
		Blog:           a.Blog,
		Apps:           a.Apps,
		Auth:           a.Auth,
		Auditor:        a.Audit,
		SiteRefresher:  refresher,
		Pages:          a.Pages,
		Database:       a.DB,
		Logger:         a.Logger,
		Production:     a.Config.IsProduction(),
		AllowedOrigins: a.Config.HTTP.AllowedOrigins,
		Version:        version,
	})
}

// StartBackground starts the task workers and the site sync scheduler.
func (a *App) StartBackground(ctx context.Context) error {
	if a.Tasks != nil {
		a.Tasks.Start(ctx)
	}
	return a.Scheduler.Start(ctx)
}

// StopBackground stops the scheduler and drains the task workers.
func (a *App) StopBackground(ctx context.Context) {
	a.Scheduler.Stop()
	if a.Tasks != nil {
		a.Tasks.Stop(ctx)
	}
}
