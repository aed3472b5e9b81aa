package http

import (
	"context"

	"github.com/google/uuid"

	"github.com/0010capacity/capacity-backend/internal/audit"
	"github.com/0010capacity/capacity-backend/internal/auth"
	"github.com/0010capacity/capacity-backend/internal/database/apps"
	"github.com/0010capacity/capacity-backend/internal/database/blog"
	"github.com/0010capacity/capacity-backend/internal/database/novels"
	"github.com/0010capacity/capacity-backend/internal/database/patch"
	"github.com/0010capacity/capacity-backend/internal/entities"
)

// This file consolidates the store interfaces used by HTTP controllers.
// The repositories under internal/database satisfy them; tests may swap in
// fakes.

type NovelStore interface {
	List(ctx context.Context, f novels.ListFilter) ([]entities.NovelSummary, error)
	Create(ctx context.Context, novel *entities.Novel) error
	GetBySlug(ctx context.Context, slug string) (*entities.Novel, error)
	Update(ctx context.Context, slug string, changes *patch.Changes) (*entities.Novel, error)
	Delete(ctx context.Context, slug string) error
	IncrementView(ctx context.Context, slug string) error
}

type ChapterStore interface {
	List(ctx context.Context, novelID uuid.UUID) ([]entities.ChapterPreview, error)
	ListFull(ctx context.Context, novelID uuid.UUID) ([]entities.NovelChapter, error)
	Create(ctx context.Context, chapter *entities.NovelChapter) error
	Get(ctx context.Context, novelID uuid.UUID, number int) (*entities.NovelChapter, error)
	Update(ctx context.Context, novelID uuid.UUID, number int, changes *patch.Changes) (*entities.NovelChapter, error)
	Delete(ctx context.Context, novelID uuid.UUID, number int) error
	IncrementView(ctx context.Context, novelID uuid.UUID, number int) error
}

type RelationStore interface {
	List(ctx context.Context, novelID uuid.UUID) ([]entities.RelatedNovel, error)
	Create(ctx context.Context, relation *entities.NovelRelation) error
	Delete(ctx context.Context, novelID, relatedID uuid.UUID) error
}

type BlogStore interface {
	List(ctx context.Context, f blog.ListFilter) ([]entities.BlogPostPreview, error)
	Create(ctx context.Context, post *entities.BlogPost) error
	GetBySlug(ctx context.Context, slug string) (*entities.BlogPost, error)
	Update(ctx context.Context, slug string, changes *patch.Changes) (*entities.BlogPost, error)
	Delete(ctx context.Context, slug string) error
	IncrementView(ctx context.Context, slug string) error
}

type AppStore interface {
	List(ctx context.Context, f apps.ListFilter) ([]entities.App, error)
	Create(ctx context.Context, app *entities.App) error
	GetBySlug(ctx context.Context, slug string) (*entities.App, error)
	Update(ctx context.Context, slug string, changes *patch.Changes) (*entities.App, error)
	Delete(ctx context.Context, slug string) error
}

// Authenticator is implemented by auth.Service.
type Authenticator interface {
	auth.Verifier
	Login(ctx context.Context, creds auth.Credentials, clientIP string) (*auth.LoginResult, error)
	RegisterFirstAdmin(ctx context.Context, creds auth.Credentials) (*entities.Admin, error)
}

// Auditor records admin activity. Implemented by audit.Service.
type Auditor interface {
	LogContent(change audit.ContentChange, err error)
	LogAuth(adminID *uuid.UUID, action, username, ipAddr, userAgent string, success bool)
	GetEvents(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error)
}

// SiteRefresher schedules a static site rebuild. Implemented by tasks.Client.
type SiteRefresher interface {
	RequestSiteRegeneration(ctx context.Context, reason string)
}

// Pinger reports database reachability. Implemented by database.Database.
type Pinger interface {
	Ping(ctx context.Context) error
}
