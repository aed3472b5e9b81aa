package database

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/0010capacity/capacity-backend/internal/apperr"
	"github.com/0010capacity/capacity-backend/internal/database/patch"
)

// Target identifies the row a partial update applies to.
type Target struct {
	Resource string // used in the NotFound message, e.g. "Novel"
	Conflict string // message for unique violations caused by the update
	Query    string
	Args     []any
}

// ApplyChanges runs one UPDATE ... RETURNING with the present columns plus
// updated_at. An empty change set is a BadRequest and issues no statement.
func ApplyChanges[T any](ctx context.Context, db *gorm.DB, target Target, changes *patch.Changes) (*T, error) {
	if changes == nil || changes.Len() == 0 {
		return nil, apperr.BadRequest("No fields to update")
	}

	var row T
	result := db.WithContext(ctx).
		Model(&row).
		Clauses(clause.Returning{}).
		Where(target.Query, target.Args...).
		Updates(changes.Map(db.NowFunc()))
	if result.Error != nil {
		return nil, apperr.FromDB(result.Error, target.Resource, target.Conflict)
	}
	if result.RowsAffected == 0 {
		return nil, apperr.NotFound(target.Resource)
	}
	return &row, nil
}

// Increment adds one to column for the rows matched by target, without
// touching updated_at.
func Increment(ctx context.Context, db *gorm.DB, model any, column string, target Target) error {
	result := db.WithContext(ctx).
		Model(model).
		Where(target.Query, target.Args...).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if result.Error != nil {
		return apperr.FromDB(result.Error, target.Resource, "")
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound(target.Resource)
	}
	return nil
}
