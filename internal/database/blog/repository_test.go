package blog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0010capacity/capacity-backend/internal/apperr"
	"github.com/0010capacity/capacity-backend/internal/database/dbtest"
	"github.com/0010capacity/capacity-backend/internal/database/patch"
	"github.com/0010capacity/capacity-backend/internal/entities"
)

func setupRepo(t *testing.T) *Repository {
	return NewRepository(dbtest.Open(t))
}

func createPost(t *testing.T, repo *Repository, title string, published bool, tags ...string) *entities.BlogPost {
	t.Helper()
	post := &entities.BlogPost{Title: title, Content: "# " + title, Published: published, Tags: tags}
	require.NoError(t, repo.Create(context.Background(), post))
	return post
}

func TestRepository_Create(t *testing.T) {
	repo := setupRepo(t)

	draft := createPost(t, repo, "Draft", false)
	assert.Regexp(t, `^post-[a-z0-9]{8}$`, draft.Slug)
	assert.Nil(t, draft.PublishedAt)

	live := createPost(t, repo, "Live", true)
	assert.NotNil(t, live.PublishedAt, "published posts get a publish time")
}

func TestRepository_List(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	createPost(t, repo, "Hidden", false, "go")
	older := createPost(t, repo, "Older", true, "go", "web")
	time.Sleep(10 * time.Millisecond)
	newer := createPost(t, repo, "Newer", true, "rust")

	t.Run("published only, newest first", func(t *testing.T) {
		posts, err := repo.List(ctx, ListFilter{})
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, newer.Slug, posts[0].Slug)
		assert.Equal(t, older.Slug, posts[1].Slug)
	})

	t.Run("drafts included on request", func(t *testing.T) {
		posts, err := repo.List(ctx, ListFilter{IncludeDrafts: true})
		require.NoError(t, err)
		assert.Len(t, posts, 3)
		assert.Equal(t, "Hidden", posts[2].Title, "unpublished posts sort last")
	})

	t.Run("tag", func(t *testing.T) {
		posts, err := repo.List(ctx, ListFilter{Tag: "go"})
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, older.Slug, posts[0].Slug)
	})

	t.Run("full", func(t *testing.T) {
		posts, err := repo.ListFull(ctx, ListFilter{Limit: 1})
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "# Newer", posts[0].Content)
	})
}

func TestRepository_Update_PublishStampsPublishedAt(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	post := createPost(t, repo, "Soon", false)

	changes := patch.NewChanges(UpdatableColumns...)
	changes.Set("published", true)

	updated, err := repo.Update(ctx, post.Slug, changes)
	require.NoError(t, err)
	assert.True(t, updated.Published)
	require.NotNil(t, updated.PublishedAt)
	first := *updated.PublishedAt

	// Republishing keeps the original publish time.
	changes = patch.NewChanges(UpdatableColumns...)
	changes.Set("published", true)
	again, err := repo.Update(ctx, post.Slug, changes)
	require.NoError(t, err)
	require.NotNil(t, again.PublishedAt)
	assert.True(t, first.Equal(*again.PublishedAt))
}

func TestRepository_Update_Empty(t *testing.T) {
	repo := setupRepo(t)
	post := createPost(t, repo, "Same", true)

	_, err := repo.Update(context.Background(), post.Slug, patch.NewChanges(UpdatableColumns...))

	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
}

func TestRepository_DeleteThenGet(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	post := createPost(t, repo, "Gone", true)

	require.NoError(t, repo.IncrementView(ctx, post.Slug))
	got, err := repo.GetBySlug(ctx, post.Slug)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ViewCount)

	require.NoError(t, repo.Delete(ctx, post.Slug))

	_, err = repo.GetBySlug(ctx, post.Slug)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(repo.Delete(ctx, post.Slug)))
}
