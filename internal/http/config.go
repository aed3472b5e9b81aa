package http

import (
	"go.uber.org/zap"

	"github.com/0010capacity/capacity-backend/internal/render"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Content stores
	Novels    NovelStore
	Chapters  ChapterStore
	Relations RelationStore
	Blog      BlogStore
	Apps      AppStore

	// Authentication and auditing
	Auth    Authenticator
	Auditor Auditor

	// Optional: rebuilds the static site after content changes
	SiteRefresher SiteRefresher

	// Optional: enables server-rendered pages and the sitemap
	Pages *render.Pages

	// Health check target
	Database Pinger

	Logger         *zap.Logger
	Production     bool
	AllowedOrigins []string
	Version        string
}
