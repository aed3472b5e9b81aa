package apps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/0010capacity/capacity-backend/internal/apperr"
	"github.com/0010capacity/capacity-backend/internal/database/dbtest"
	"github.com/0010capacity/capacity-backend/internal/database/patch"
	"github.com/0010capacity/capacity-backend/internal/entities"
)

func TestRepository_Apps(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	ctx := context.Background()

	mobile := &entities.App{
		Name:      "Pocket Notes",
		Platforms: []string{"ios", "android"},
		DistributionChannels: []entities.DistributionChannel{
			{Type: "app_store", URL: "https://apps.apple.com/app/id1"},
		},
	}
	desktop := &entities.App{Name: "Deskmate", Platforms: []string{"windows"}}
	require.NoError(t, repo.Create(ctx, mobile))
	require.NoError(t, repo.Create(ctx, desktop))

	t.Run("slug format", func(t *testing.T) {
		assert.Regexp(t, `^app-[a-z0-9]{8}$`, mobile.Slug)
		assert.NotEqual(t, mobile.Slug, desktop.Slug)
	})

	t.Run("platform filter", func(t *testing.T) {
		got, err := repo.List(ctx, ListFilter{Platform: "android"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Pocket Notes", got[0].Name)
		require.Len(t, got[0].DistributionChannels, 1)
		assert.Equal(t, "app_store", got[0].DistributionChannels[0].Type)
	})

	t.Run("partial update", func(t *testing.T) {
		changes := patch.NewChanges(UpdatableColumns...)
		changes.Set("screenshots", datatypes.JSONSlice[string]{"https://cdn/1.png"})

		updated, err := repo.Update(ctx, desktop.Slug, changes)
		require.NoError(t, err)
		assert.Equal(t, "Deskmate", updated.Name)
		assert.Equal(t, []string{"https://cdn/1.png"}, []string(updated.Screenshots))
		assert.Equal(t, []string{"windows"}, []string(updated.Platforms))
	})

	t.Run("delete then get", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, desktop.Slug))
		_, err := repo.GetBySlug(ctx, desktop.Slug)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("delete unknown", func(t *testing.T) {
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(repo.Delete(ctx, "app-unknown0")))
	})
}
