package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/0010capacity/capacity-backend/internal/audit"
	"github.com/0010capacity/capacity-backend/internal/auth"
	"github.com/0010capacity/capacity-backend/internal/database"
	"github.com/0010capacity/capacity-backend/internal/database/admins"
	"github.com/0010capacity/capacity-backend/internal/database/apps"
	"github.com/0010capacity/capacity-backend/internal/database/blog"
	"github.com/0010capacity/capacity-backend/internal/database/chapters"
	"github.com/0010capacity/capacity-backend/internal/database/novels"
	"github.com/0010capacity/capacity-backend/internal/database/relations"
	"github.com/0010capacity/capacity-backend/internal/http"
	"github.com/0010capacity/capacity-backend/internal/scheduler"
	"github.com/0010capacity/capacity-backend/internal/site"
	"github.com/0010capacity/capacity-backend/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ http.NovelStore = (*novels.Repository)(nil)
var _ http.ChapterStore = (*chapters.Repository)(nil)
var _ http.RelationStore = (*relations.Repository)(nil)
var _ http.BlogStore = (*blog.Repository)(nil)
var _ http.AppStore = (*apps.Repository)(nil)
var _ http.Pinger = (*database.Database)(nil)

var _ auth.AdminStore = (*admins.Repository)(nil)

// Static site sources
var _ site.BlogSource = (*blog.Repository)(nil)
var _ site.NovelSource = (*novels.Repository)(nil)
var _ site.ChapterSource = (*chapters.Repository)(nil)

// =============================================================================
// Authentication and Auditing
// =============================================================================

var _ http.Authenticator = (*auth.Service)(nil)
var _ auth.Verifier = (*auth.Service)(nil)

// AttemptStore implementations
var _ auth.AttemptStore = (*auth.MemoryStore)(nil)
var _ auth.AttemptStore = (*auth.RedisStore)(nil)

var _ http.Auditor = (*audit.Service)(nil)
var _ scheduler.MaintenanceLogger = (*audit.Service)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ http.SiteRefresher = (*tasks.Client)(nil)
var _ scheduler.AuditCleanupEnqueuer = (*tasks.Client)(nil)
var _ scheduler.SiteBuilder = (*site.Builder)(nil)
var _ tasks.SiteBuilder = (*site.Builder)(nil)
