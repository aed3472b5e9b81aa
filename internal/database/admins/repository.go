// Package admins provides database operations for administrator accounts.
//
// # Usage
//
//	repo := admins.NewRepository(db)
//	admin, err := repo.GetByUsername(ctx, "capacity")
package admins

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/0010capacity/capacity-backend/internal/apperr"
	"github.com/0010capacity/capacity-backend/internal/entities"
)

const alreadyExists = "Admin already exists. Registration is disabled."

// Repository handles all admin database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new admins repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Count returns the number of admin accounts.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&entities.Admin{}).Count(&n).Error; err != nil {
		return 0, apperr.Database(err)
	}
	return n, nil
}

// CreateFirst inserts admin only when no admin exists yet. The count and the
// insert share a transaction; the unique username index catches the rest.
func (r *Repository) CreateFirst(ctx context.Context, admin *entities.Admin) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&entities.Admin{}).Count(&n).Error; err != nil {
			return apperr.Database(err)
		}
		if n > 0 {
			return apperr.Conflict(alreadyExists)
		}
		if err := tx.Create(admin).Error; err != nil {
			return apperr.FromDB(err, "Admin", alreadyExists)
		}
		return nil
	})
}

// GetByUsername retrieves an admin by username.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*entities.Admin, error) {
	var admin entities.Admin
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error
	if err != nil {
		return nil, apperr.FromDB(err, "Admin", "")
	}
	return &admin, nil
}

// GetByID retrieves an admin by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Admin, error) {
	var admin entities.Admin
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&admin).Error
	if err != nil {
		return nil, apperr.FromDB(err, "Admin", "")
	}
	return &admin, nil
}
