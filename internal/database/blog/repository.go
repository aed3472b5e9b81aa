// Package blog provides database operations for blog posts.
package blog

import (
	"context"

	"gorm.io/gorm"

	"github.com/0010capacity/capacity-backend/internal/apperr"
	"github.com/0010capacity/capacity-backend/internal/database"
	"github.com/0010capacity/capacity-backend/internal/database/patch"
	"github.com/0010capacity/capacity-backend/internal/entities"
	"github.com/0010capacity/capacity-backend/internal/slug"
)

const (
	resource         = "Blog post"
	slugPrefix       = "post"
	newestFirst      = "published_at DESC NULLS LAST, created_at DESC"
	previewSelection = "id, slug, title, excerpt, cover_image_url, tags, published, view_count, published_at, created_at, updated_at"
)

// UpdatableColumns is the closed set of columns a post update may assign.
var UpdatableColumns = []string{"title", "content", "excerpt", "cover_image_url", "tags", "published", "published_at"}

// ListFilter narrows a post listing. Zero values mean "no filter".
type ListFilter struct {
	Tag           string
	IncludeDrafts bool
	Limit         int // <= 0 means no limit
	Offset        int
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) filtered(ctx context.Context, f ListFilter) *gorm.DB {
	db := r.db.WithContext(ctx)
	query := db.Model(&entities.BlogPost{})
	if !f.IncludeDrafts {
		query = query.Where("published = ?", true)
	}
	if f.Tag != "" {
		query = query.Where(database.JSONArrayContains(db, "tags", f.Tag))
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}
	if f.Offset > 0 {
		query = query.Offset(f.Offset)
	}
	return query.Order(newestFirst)
}

// List returns post previews without content.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]entities.BlogPostPreview, error) {
	previews := []entities.BlogPostPreview{}
	if err := r.filtered(ctx, f).Select(previewSelection).Find(&previews).Error; err != nil {
		return nil, apperr.Database(err)
	}
	return previews, nil
}

// ListFull returns complete posts, for rendering.
func (r *Repository) ListFull(ctx context.Context, f ListFilter) ([]entities.BlogPost, error) {
	posts := []entities.BlogPost{}
	if err := r.filtered(ctx, f).Find(&posts).Error; err != nil {
		return nil, apperr.Database(err)
	}
	return posts, nil
}

// Create assigns a fresh slug and inserts the post. A published post without
// published_at is stamped with the current time.
func (r *Repository) Create(ctx context.Context, post *entities.BlogPost) error {
	if post.Published && post.PublishedAt == nil {
		now := r.db.NowFunc()
		post.PublishedAt = &now
	}
	_, err := slug.Insert(ctx, slugPrefix, r.Exists, func(s string) error {
		post.Slug = s
		return r.db.WithContext(ctx).Create(post).Error
	})
	return apperr.FromDB(err, resource, "Blog post already exists")
}

func (r *Repository) Exists(ctx context.Context, s string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entities.BlogPost{}).Where("slug = ?", s).Count(&n).Error
	if err != nil {
		return false, apperr.Database(err)
	}
	return n > 0, nil
}

func (r *Repository) GetBySlug(ctx context.Context, s string) (*entities.BlogPost, error) {
	var post entities.BlogPost
	if err := r.db.WithContext(ctx).Where("slug = ?", s).First(&post).Error; err != nil {
		return nil, apperr.FromDB(err, resource, "")
	}
	return &post, nil
}

// Update applies changes in a single statement. Publishing a post that has
// no published_at stamps it with the current time.
func (r *Repository) Update(ctx context.Context, s string, changes *patch.Changes) (*entities.BlogPost, error) {
	if published, ok := changes.Get("published"); ok && published == true && !changes.Has("published_at") {
		changes.Set("published_at", gorm.Expr("COALESCE(published_at, ?)", r.db.NowFunc()))
	}
	return database.ApplyChanges[entities.BlogPost](ctx, r.db, database.Target{
		Resource: resource,
		Query:    "slug = ?",
		Args:     []any{s},
	}, changes)
}

func (r *Repository) Delete(ctx context.Context, s string) error {
	result := r.db.WithContext(ctx).Where("slug = ?", s).Delete(&entities.BlogPost{})
	if result.Error != nil {
		return apperr.Database(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}

func (r *Repository) IncrementView(ctx context.Context, s string) error {
	return database.Increment(ctx, r.db, &entities.BlogPost{}, "view_count", database.Target{
		Resource: resource,
		Query:    "slug = ?",
		Args:     []any{s},
	})
}
