// Package chapters provides database operations for novel chapters. Every
// operation is scoped to a novel ID; chapter numbers are only unique within
// their novel.
package chapters

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/0010capacity/capacity-backend/internal/apperr"
	"github.com/0010capacity/capacity-backend/internal/database"
	"github.com/0010capacity/capacity-backend/internal/database/patch"
	"github.com/0010capacity/capacity-backend/internal/entities"
)

const (
	resource         = "Chapter"
	duplicateNumber  = "Chapter number already exists for this novel"
	scopedByNumber   = "novel_id = ? AND chapter_number = ?"
	previewSelection = "id, novel_id, chapter_number, title, view_count, published_at, created_at"
)

// UpdatableColumns is the closed set of columns a chapter update may assign.
var UpdatableColumns = []string{"chapter_number", "title", "content", "published_at"}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns chapter previews of a novel ordered by chapter number.
func (r *Repository) List(ctx context.Context, novelID uuid.UUID) ([]entities.ChapterPreview, error) {
	previews := []entities.ChapterPreview{}
	err := r.db.WithContext(ctx).
		Model(&entities.NovelChapter{}).
		Select(previewSelection).
		Where("novel_id = ?", novelID).
		Order("chapter_number ASC").
		Find(&previews).Error
	if err != nil {
		return nil, apperr.Database(err)
	}
	return previews, nil
}

// ListFull returns complete chapters of a novel ordered by chapter number.
func (r *Repository) ListFull(ctx context.Context, novelID uuid.UUID) ([]entities.NovelChapter, error) {
	chapters := []entities.NovelChapter{}
	err := r.db.WithContext(ctx).
		Where("novel_id = ?", novelID).
		Order("chapter_number ASC").
		Find(&chapters).Error
	if err != nil {
		return nil, apperr.Database(err)
	}
	return chapters, nil
}

func (r *Repository) Create(ctx context.Context, chapter *entities.NovelChapter) error {
	err := r.db.WithContext(ctx).Create(chapter).Error
	return apperr.FromDB(err, resource, duplicateNumber)
}

func (r *Repository) Get(ctx context.Context, novelID uuid.UUID, number int) (*entities.NovelChapter, error) {
	var chapter entities.NovelChapter
	err := r.db.WithContext(ctx).Where(scopedByNumber, novelID, number).First(&chapter).Error
	if err != nil {
		return nil, apperr.FromDB(err, resource, "")
	}
	return &chapter, nil
}

// Update applies changes in a single statement. Renumbering onto an existing
// number of the same novel is a Conflict.
func (r *Repository) Update(ctx context.Context, novelID uuid.UUID, number int, changes *patch.Changes) (*entities.NovelChapter, error) {
	return database.ApplyChanges[entities.NovelChapter](ctx, r.db, database.Target{
		Resource: resource,
		Conflict: duplicateNumber,
		Query:    scopedByNumber,
		Args:     []any{novelID, number},
	}, changes)
}

func (r *Repository) Delete(ctx context.Context, novelID uuid.UUID, number int) error {
	result := r.db.WithContext(ctx).Where(scopedByNumber, novelID, number).Delete(&entities.NovelChapter{})
	if result.Error != nil {
		return apperr.FromDB(result.Error, resource, "")
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}

func (r *Repository) IncrementView(ctx context.Context, novelID uuid.UUID, number int) error {
	return database.Increment(ctx, r.db, &entities.NovelChapter{}, "view_count", database.Target{
		Resource: resource,
		Query:    scopedByNumber,
		Args:     []any{novelID, number},
	})
}
