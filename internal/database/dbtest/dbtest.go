// Package dbtest opens throwaway databases for repository and handler tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/0010capacity/capacity-backend/internal/config"
	"github.com/0010capacity/capacity-backend/internal/database"
)

// Open returns a migrated sqlite database in the test's temp dir.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := database.NewDatabase(config.Database{URL: path}, zap.NewNop())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})
	return db.DB
}
