// Package apps provides database operations for the app portfolio.
package apps

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
	resource   = "App"
	slugPrefix = "app"
)

// UpdatableColumns is the closed set of columns an app update may assign.
var UpdatableColumns = []string{
	"name", "description", "platforms", "icon_url", "screenshots", "distribution_channels", "privacy_policy_url",
}

type ListFilter struct {
	Platform string
	Limit    int // <= 0 means no limit
	Offset   int
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns apps, newest first.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]entities.App, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&entities.App{})
	if f.Platform != "" {
		query = query.Where(database.JSONArrayContains(db, "platforms", f.Platform))
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}
	if f.Offset > 0 {
		query = query.Offset(f.Offset)
	}

	apps := []entities.App{}
	if err := query.Order("created_at DESC").Find(&apps).Error; err != nil {
		return nil, apperr.Database(err)
	}
	return apps, nil
}

// Create assigns a fresh slug and inserts the app.
func (r *Repository) Create(ctx context.Context, app *entities.App) error {
	_, err := slug.Insert(ctx, slugPrefix, r.Exists, func(s string) error {
		app.Slug = s
		return r.db.WithContext(ctx).Create(app).Error
	})
	return apperr.FromDB(err, resource, "App already exists")
}

func (r *Repository) Exists(ctx context.Context, s string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entities.App{}).Where("slug = ?", s).Count(&n).Error
	if err != nil {
		return false, apperr.Database(err)
	}
	return n > 0, nil
}

func (r *Repository) GetBySlug(ctx context.Context, s string) (*entities.App, error) {
	var app entities.App
	if err := r.db.WithContext(ctx).Where("slug = ?", s).First(&app).Error; err != nil {
		return nil, apperr.FromDB(err, resource, "")
	}
	return &app, nil
}

func (r *Repository) Update(ctx context.Context, s string, changes *patch.Changes) (*entities.App, error) {
	return database.ApplyChanges[entities.App](ctx, r.db, database.Target{
		Resource: resource,
		Query:    "slug = ?",
		Args:     []any{s},
	}, changes)
}

func (r *Repository) Delete(ctx context.Context, s string) error {
	result := r.db.WithContext(ctx).Where("slug = ?", s).Delete(&entities.App{})
	if result.Error != nil {
		return apperr.Database(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}
