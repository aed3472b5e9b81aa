// Package novels provides database operations for novels.
package novels

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
	resource   = "Novel"
	slugPrefix = "novel"
)

// UpdatableColumns is the closed set of columns a novel update may assign.
var UpdatableColumns = []string{"title", "description", "cover_image_url", "novel_type", "genres", "status"}

// ListFilter narrows a novel listing. Zero values mean "no filter".
type ListFilter struct {
	Status        entities.NovelStatus
	NovelType     entities.NovelType
	Genre         string
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

// List returns novels with their chapter counts, newest first.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]entities.NovelSummary, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&entities.Novel{}).
		Select("novels.*, (SELECT COUNT(*) FROM novel_chapters WHERE novel_chapters.novel_id = novels.id) AS chapter_count")

	if !f.IncludeDrafts {
		query = query.Where("novels.status <> ?", entities.NovelStatusDraft)
	}
	if f.Status != "" {
		query = query.Where("novels.status = ?", f.Status)
	}
	if f.NovelType != "" {
		query = query.Where("novels.novel_type = ?", f.NovelType)
	}
	if f.Genre != "" {
		query = query.Where(database.JSONArrayContains(db, "genres", f.Genre))
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}
	if f.Offset > 0 {
		query = query.Offset(f.Offset)
	}

	summaries := []entities.NovelSummary{}
	if err := query.Order("novels.created_at DESC").Find(&summaries).Error; err != nil {
		return nil, apperr.Database(err)
	}
	return summaries, nil
}

// Create assigns a fresh slug and inserts the novel.
func (r *Repository) Create(ctx context.Context, novel *entities.Novel) error {
	_, err := slug.Insert(ctx, slugPrefix, r.Exists, func(s string) error {
		novel.Slug = s
		return r.db.WithContext(ctx).Create(novel).Error
	})
	return apperr.FromDB(err, resource, "Novel already exists")
}

// Exists reports whether a novel with slug exists.
func (r *Repository) Exists(ctx context.Context, s string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entities.Novel{}).Where("slug = ?", s).Count(&n).Error
	if err != nil {
		return false, apperr.Database(err)
	}
	return n > 0, nil
}

func (r *Repository) GetBySlug(ctx context.Context, s string) (*entities.Novel, error) {
	var novel entities.Novel
	if err := r.db.WithContext(ctx).Where("slug = ?", s).First(&novel).Error; err != nil {
		return nil, apperr.FromDB(err, resource, "")
	}
	return &novel, nil
}

// Update applies changes in a single statement and returns the updated row.
func (r *Repository) Update(ctx context.Context, s string, changes *patch.Changes) (*entities.Novel, error) {
	return database.ApplyChanges[entities.Novel](ctx, r.db, database.Target{
		Resource: resource,
		Query:    "slug = ?",
		Args:     []any{s},
	}, changes)
}

// Delete removes the novel together with its chapters and every relation
// that points to or from it.
func (r *Repository) Delete(ctx context.Context, s string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var novel entities.Novel
		if err := tx.Select("id").Where("slug = ?", s).First(&novel).Error; err != nil {
			return err
		}
		if err := tx.Where("novel_id = ? OR related_novel_id = ?", novel.ID, novel.ID).
			Delete(&entities.NovelRelation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("novel_id = ?", novel.ID).Delete(&entities.NovelChapter{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", novel.ID).Delete(&entities.Novel{}).Error
	})
	return apperr.FromDB(err, resource, "")
}

func (r *Repository) IncrementView(ctx context.Context, s string) error {
	return database.Increment(ctx, r.db, &entities.Novel{}, "view_count", database.Target{
		Resource: resource,
		Query:    "slug = ?",
		Args:     []any{s},
	})
}
