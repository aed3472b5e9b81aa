package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0010capacity/capacity-backend/internal/entities"
)

func newTestPages(t *testing.T) *Pages {
	t.Helper()
	pages, err := NewPages("https://example.com/")
	require.NoError(t, err)
	return pages
}

func strPtr(s string) *string { return &s }

func TestPages_BlogPost(t *testing.T) {
	pages := newTestPages(t)
	published := time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)
	post := &entities.BlogPost{
		Slug:        "blog-abc12345",
		Title:       "Hello <World>",
		Content:     "## Section\n\nBody text",
		Excerpt:     strPtr("Short summary"),
		Tags:        []string{"go", "web"},
		Published:   true,
		PublishedAt: &published,
	}

	html, err := pages.BlogPost(post)
	require.NoError(t, err)

	assert.Contains(t, html, "<title>Hello &lt;World&gt; | 0010capacity</title>")
	assert.Contains(t, html, `<link rel="canonical" href="https://example.com/blog/blog-abc12345">`)
	assert.Contains(t, html, `<meta property="og:type" content="article">`)
	assert.Contains(t, html, `<meta name="description" content="Short summary">`)
	assert.Contains(t, html, "2025년 01월 05일")
	assert.Contains(t, html, "<h2>Section</h2>")
	assert.Contains(t, html, "#go")
	assert.Contains(t, html, `<html lang="ko">`)
}

func TestPages_BlogPostDescriptionFallsBackToContent(t *testing.T) {
	pages := newTestPages(t)
	post := &entities.BlogPost{
		Slug:      "blog-abc12345",
		Title:     "T",
		Content:   "First line\n\nsecond line",
		CreatedAt: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	html, err := pages.BlogPost(post)
	require.NoError(t, err)
	assert.Contains(t, html, `<meta name="description" content="First line second line">`)
	assert.Contains(t, html, "2024년 12월 31일")
}

func TestPages_BlogList(t *testing.T) {
	pages := newTestPages(t)

	t.Run("with posts", func(t *testing.T) {
		html, err := pages.BlogList([]entities.BlogPostPreview{
			{Slug: "blog-11111111", Title: "First", Tags: []string{"a", "b", "c", "d"}},
		})
		require.NoError(t, err)
		assert.Contains(t, html, `href="/blog/blog-11111111"`)
		assert.Contains(t, html, "#c")
		assert.NotContains(t, html, "#d")
		assert.Contains(t, html, "<title>블로그 | 0010capacity</title>")
	})

	t.Run("empty", func(t *testing.T) {
		html, err := pages.BlogList(nil)
		require.NoError(t, err)
		assert.Contains(t, html, "아직 글이 없습니다.")
	})
}

func TestPages_NovelAndChapter(t *testing.T) {
	pages := newTestPages(t)
	novel := &entities.Novel{
		Slug:        "novel-abcd1234",
		Title:       "Night Train",
		Description: strPtr("A *quiet* story"),
		NovelType:   entities.NovelTypeSeries,
		Status:      entities.NovelStatusOngoing,
		Genres:      []string{"fantasy"},
	}

	html, err := pages.Novel(novel, []entities.ChapterPreview{
		{ChapterNumber: 1, Title: "Departure"},
		{ChapterNumber: 2, Title: "Arrival"},
	})
	require.NoError(t, err)
	assert.Contains(t, html, "<em>quiet</em>")
	assert.Contains(t, html, "연재물")
	assert.Contains(t, html, "연재중")
	assert.Contains(t, html, "#판타지")
	assert.Contains(t, html, `href="/novels/novel-abcd1234/chapters/2"`)
	assert.Contains(t, html, "1화. Departure")

	chapter := &entities.NovelChapter{ChapterNumber: 2, Title: "Arrival", Content: "The end."}
	html, err = pages.Chapter(novel, chapter, 1, 0)
	require.NoError(t, err)
	assert.Contains(t, html, `href="/novels/novel-abcd1234/chapters/1"`)
	assert.NotContains(t, html, "다음 화")
	assert.Contains(t, html, "<p>The end.</p>")
}

func TestPages_NovelList(t *testing.T) {
	pages := newTestPages(t)
	html, err := pages.NovelList([]entities.NovelSummary{
		{Novel: entities.Novel{Slug: "novel-00000001", Title: "One", Status: entities.NovelStatusCompleted}, ChapterCount: 3},
	})
	require.NoError(t, err)
	assert.Contains(t, html, `href="/novels/novel-00000001"`)
	assert.Contains(t, html, "완결 · 3화")
	assert.Contains(t, html, `<link rel="canonical" href="https://example.com/novels/">`)
}

func TestExcerpt(t *testing.T) {
	long := ""
	for i := 0; i < 200; i++ {
		long += "가"
	}
	assert.Equal(t, 160, len([]rune(excerpt(long))))
	assert.Equal(t, "a b", excerpt("  a\n\tb  "))
}
