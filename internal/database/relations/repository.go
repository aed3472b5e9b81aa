// Package relations stores directional links between novels.
package relations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/0010capacity/capacity-backend/internal/apperr"
	"github.com/0010capacity/capacity-backend/internal/entities"
)

const resource = "Relation"

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns the relations that start at novelID with the target novels loaded.
func (r *Repository) List(ctx context.Context, novelID uuid.UUID) ([]entities.RelatedNovel, error) {
	var rows []entities.NovelRelation
	err := r.db.WithContext(ctx).
		Preload("RelatedNovel").
		Where("novel_id = ?", novelID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Database(err)
	}

	related := make([]entities.RelatedNovel, 0, len(rows))
	for _, row := range rows {
		if row.RelatedNovel == nil {
			continue
		}
		related = append(related, entities.RelatedNovel{
			ID:           row.ID,
			RelationType: row.RelationType,
			Novel:        *row.RelatedNovel,
		})
	}
	return related, nil
}

func (r *Repository) Create(ctx context.Context, relation *entities.NovelRelation) error {
	if relation.NovelID == relation.RelatedNovelID {
		return apperr.Validation("A novel cannot be related to itself")
	}
	err := r.db.WithContext(ctx).Omit("Novel", "RelatedNovel").Create(relation).Error
	return apperr.FromDB(err, resource, "Relation already exists")
}

func (r *Repository) Delete(ctx context.Context, novelID, relatedID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("novel_id = ? AND related_novel_id = ?", novelID, relatedID).
		Delete(&entities.NovelRelation{})
	if result.Error != nil {
		return apperr.Database(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}
