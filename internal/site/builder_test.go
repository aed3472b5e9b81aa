package site

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/0010capacity/capacity-backend/internal/database/blog"
	"github.com/0010capacity/capacity-backend/internal/database/chapters"
	"github.com/0010capacity/capacity-backend/internal/database/dbtest"
	"github.com/0010capacity/capacity-backend/internal/database/novels"
	"github.com/0010capacity/capacity-backend/internal/entities"
	"github.com/0010capacity/capacity-backend/internal/render"
)

type fixture struct {
	builder  *Builder
	posts    *blog.Repository
	novels   *novels.Repository
	chapters *chapters.Repository
	dir      string
}

func setup(t *testing.T, dir string) fixture {
	t.Helper()
	db := dbtest.Open(t)
	pages, err := render.NewPages("https://example.com")
	require.NoError(t, err)

	f := fixture{
		posts:    blog.NewRepository(db),
		novels:   novels.NewRepository(db),
		chapters: chapters.NewRepository(db),
		dir:      dir,
	}
	f.builder = NewBuilder(dir, pages, f.posts, f.novels, f.chapters, zap.NewNop())
	return f
}

func readFile(t *testing.T, elem ...string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(elem...))
	require.NoError(t, err)
	return string(data)
}

func TestBuilder_Disabled(t *testing.T) {
	f := setup(t, "")
	assert.False(t, f.builder.Enabled())

	_, err := f.builder.Build(context.Background())
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestBuilder_Build(t *testing.T) {
	ctx := context.Background()
	f := setup(t, t.TempDir())

	published := &entities.BlogPost{Title: "Public", Content: "Hello", Published: true}
	draft := &entities.BlogPost{Title: "Hidden", Content: "Secret"}
	require.NoError(t, f.posts.Create(ctx, published))
	require.NoError(t, f.posts.Create(ctx, draft))

	novel := &entities.Novel{Title: "Saga", NovelType: entities.NovelTypeSeries, Status: entities.NovelStatusOngoing}
	draftNovel := &entities.Novel{Title: "WIP"}
	require.NoError(t, f.novels.Create(ctx, novel))
	require.NoError(t, f.novels.Create(ctx, draftNovel))
	for _, n := range []int{1, 2} {
		require.NoError(t, f.chapters.Create(ctx, &entities.NovelChapter{NovelID: novel.ID, ChapterNumber: n, Title: "Ch", Content: "text"}))
	}

	result, err := f.builder.Build(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Posts)
	assert.Equal(t, 1, result.Novels)
	assert.Equal(t, 2, result.Chapters)

	assert.Contains(t, readFile(t, f.dir, "blog", "index.html"), "Public")
	assert.NotContains(t, readFile(t, f.dir, "blog", "index.html"), "Hidden")
	assert.Contains(t, readFile(t, f.dir, "blog", published.Slug, "index.html"), "Hello")
	assert.NoFileExists(t, filepath.Join(f.dir, "blog", draft.Slug, "index.html"))

	assert.Contains(t, readFile(t, f.dir, "novels", novel.Slug, "index.html"), "Saga")
	assert.Contains(t, readFile(t, f.dir, "novels", novel.Slug, "chapters", "2", "index.html"), "이전 화")
	assert.NoDirExists(t, filepath.Join(f.dir, "novels", draftNovel.Slug))

	sitemap := readFile(t, f.dir, "sitemap.xml")
	assert.Contains(t, sitemap, "https://example.com/blog/"+published.Slug)
	assert.Contains(t, sitemap, "https://example.com/novels/"+novel.Slug)
	assert.NotContains(t, sitemap, draft.Slug)
}

func TestBuilder_RemovesUnpublishedPages(t *testing.T) {
	ctx := context.Background()
	f := setup(t, t.TempDir())

	post := &entities.BlogPost{Title: "Soon gone", Content: "x", Published: true}
	require.NoError(t, f.posts.Create(ctx, post))

	_, err := f.builder.Build(ctx)
	require.NoError(t, err)
	require.DirExists(t, filepath.Join(f.dir, "blog", post.Slug))

	require.NoError(t, f.posts.Delete(ctx, post.Slug))

	result, err := f.builder.Build(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Removed)
	assert.NoDirExists(t, filepath.Join(f.dir, "blog", post.Slug))
}
