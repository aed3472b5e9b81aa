package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/0010capacity/capacity-backend/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	respond := NewResponder(logger, cfg.Production)

	router := gin.New()
	router.Use(Recovery(logger))
	router.Use(RequestLogger(logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.Production {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	authMiddleware := auth.NewMiddleware(cfg.Auth, respond.Error)
	requireAdmin := authMiddleware.RequireAdmin()
	hooks := contentHooks{auditor: cfg.Auditor, site: cfg.SiteRefresher}

	health := NewHealthController(cfg.Database, cfg.Version, logger)
	router.GET("/", health.Root)
	router.GET("/health", health.Health)

	api := router.Group("/api")
	api.Use(authMiddleware.OptionalAdmin())

	// Auth
	authController := NewAuthController(cfg.Auth, cfg.Auditor, respond)
	api.POST("/auth/login", authController.Login)
	api.POST("/auth/register", authController.Register)
	api.GET("/auth/me", requireAdmin, authController.Me)

	// Novels
	novelsController := NewNovelsController(cfg.Novels, respond, hooks)
	api.GET("/novels", novelsController.List)
	api.GET("/novels/genres", novelsController.Genres)
	api.GET("/novels/types", novelsController.Types)
	api.POST("/novels", requireAdmin, novelsController.Create)
	api.GET("/novels/:slug", novelsController.Get)
	api.PUT("/novels/:slug", requireAdmin, novelsController.Update)
	api.DELETE("/novels/:slug", requireAdmin, novelsController.Delete)
	api.POST("/novels/:slug/increment-view", novelsController.IncrementView)

	// Chapters
	chaptersController := NewChaptersController(cfg.Novels, cfg.Chapters, respond, hooks)
	api.GET("/novels/:slug/chapters", chaptersController.List)
	api.POST("/novels/:slug/chapters", requireAdmin, chaptersController.Create)
	api.GET("/novels/:slug/chapters/:number", chaptersController.Get)
	api.PUT("/novels/:slug/chapters/:number", requireAdmin, chaptersController.Update)
	api.DELETE("/novels/:slug/chapters/:number", requireAdmin, chaptersController.Delete)
	api.POST("/novels/:slug/chapters/:number/increment-view", chaptersController.IncrementView)

	// Relations
	relationsController := NewRelationsController(cfg.Novels, cfg.Relations, respond, hooks)
	api.GET("/novels/:slug/relations", relationsController.List)
	api.POST("/novels/:slug/relations", requireAdmin, relationsController.Create)
	api.DELETE("/novels/:slug/relations", requireAdmin, relationsController.Delete)

	// Blog
	blogController := NewBlogController(cfg.Blog, respond, hooks)
	api.GET("/blog", blogController.List)
	api.GET("/blog/tags/:tag", blogController.ByTag)
	api.POST("/blog", requireAdmin, blogController.Create)
	api.GET("/blog/:slug", blogController.Get)
	api.PUT("/blog/:slug", requireAdmin, blogController.Update)
	api.DELETE("/blog/:slug", requireAdmin, blogController.Delete)
	api.POST("/blog/:slug/increment-view", blogController.IncrementView)

	// Apps
	appsController := NewAppsController(cfg.Apps, respond, hooks)
	api.GET("/apps", appsController.List)
	api.GET("/apps/platforms", appsController.Platforms)
	api.GET("/apps/channels", appsController.Channels)
	api.POST("/apps", requireAdmin, appsController.Create)
	api.GET("/apps/:slug", appsController.Get)
	api.PUT("/apps/:slug", requireAdmin, appsController.Update)
	api.DELETE("/apps/:slug", requireAdmin, appsController.Delete)

	// Audit
	if cfg.Auditor != nil {
		auditController := NewAuditController(cfg.Auditor, respond)
		api.GET("/admin/audit", requireAdmin, auditController.List)
	}

	// Server-rendered pages
	if cfg.Pages != nil {
		pages := NewPagesController(cfg.Pages, cfg.Blog, cfg.Novels, cfg.Chapters, respond)
		router.GET("/sitemap.xml", pages.Sitemap)
		router.GET("/blog/", pages.BlogList)
		router.GET("/blog/:slug", pages.BlogPost)
		router.GET("/novels/", pages.NovelList)
		router.GET("/novels/:slug", pages.Novel)
		router.GET("/novels/:slug/chapters/:number", pages.Chapter)
	}

	router.NoRoute(notFound)

	return router
}
