package database

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JSONArrayContains filters rows whose JSON array column holds value.
// Postgres compares with jsonb containment; other dialects use datatypes.
func JSONArrayContains(db *gorm.DB, column, value string) clause.Expression {
	if db.Dialector.Name() == "postgres" {
		encoded, _ := json.Marshal([]string{value})
		return gorm.Expr("? @> ?::jsonb", clause.Column{Name: column}, string(encoded))
	}
	return datatypes.JSONArrayQuery(column).Contains(value)
}
