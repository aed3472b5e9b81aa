package http

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0010capacity/capacity-backend/internal/entities"
)

func createPost(t *testing.T, s *testServer, body map[string]any) entities.BlogPost {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/blog", body, s.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[entities.BlogPost](t, w)
}

func TestBlogController_Create(t *testing.T) {
	s := setupServer(t, true)

	post := createPost(t, s, map[string]any{
		"title":   "Hello",
		"content": "# Hi",
		"tags":    []string{" go ", "go", "", "web"},
	})
	assert.Regexp(t, regexp.MustCompile(`^post-[a-z0-9]{8}$`), post.Slug)
	assert.Equal(t, []string{"go", "web"}, []string(post.Tags))
	assert.False(t, post.Published)
	assert.Nil(t, post.PublishedAt)

	published := createPost(t, s, map[string]any{"title": "Live", "content": "x", "published": true})
	assert.NotNil(t, published.PublishedAt)

	w := s.do(t, http.MethodPost, "/api/blog", map[string]any{"title": "No content"}, s.token)
	requireEnvelope(t, w, http.StatusBadRequest)
}

func TestBlogController_Visibility(t *testing.T) {
	s := setupServer(t, true)
	draft := createPost(t, s, map[string]any{"title": "Draft", "content": "x", "tags": []string{"go"}})
	createPost(t, s, map[string]any{"title": "Live", "content": "x", "tags": []string{"go"}, "published": true})

	t.Run("list excludes unpublished posts", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/blog?include_drafts=true", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]entities.BlogPostPreview](t, w), 1)

		w = s.do(t, http.MethodGet, "/api/blog?include_drafts=true", nil, s.token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]entities.BlogPostPreview](t, w), 2)
	})

	t.Run("previews omit content", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/blog", nil, "")
		raw := decode[[]map[string]any](t, w)
		require.Len(t, raw, 1)
		assert.NotContains(t, raw[0], "content")
	})

	t.Run("tag listing is published only", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/blog/tags/go", nil, s.token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]entities.BlogPostPreview](t, w), 1)

		w = s.do(t, http.MethodGet, "/api/blog?tag=rust", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[[]entities.BlogPostPreview](t, w))
	})

	t.Run("unpublished post is 404 for anonymous callers", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/blog/"+draft.Slug, nil, "")
		env := requireEnvelope(t, w, http.StatusNotFound)
		assert.Equal(t, "Blog post not found", env.Error)

		w = s.do(t, http.MethodGet, "/api/blog/"+draft.Slug, nil, s.token)
		assert.Equal(t, http.StatusOK, w.Code)

		w = s.do(t, http.MethodPost, "/api/blog/"+draft.Slug+"/increment-view", nil, "")
		requireEnvelope(t, w, http.StatusNotFound)
	})
}

func TestBlogController_Update(t *testing.T) {
	s := setupServer(t, true)
	post := createPost(t, s, map[string]any{"title": "Draft", "content": "x", "excerpt": "short"})

	t.Run("publishing stamps published_at once", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/api/blog/"+post.Slug, map[string]any{"published": true}, s.token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		first := decode[entities.BlogPost](t, w)
		require.NotNil(t, first.PublishedAt)
		assert.True(t, first.Published)
		require.NotNil(t, first.Excerpt)
		assert.Equal(t, "short", *first.Excerpt)

		w = s.do(t, http.MethodPut, "/api/blog/"+post.Slug, map[string]any{"published": false}, s.token)
		require.Equal(t, http.StatusOK, w.Code)
		w = s.do(t, http.MethodPut, "/api/blog/"+post.Slug, map[string]any{"published": true}, s.token)
		require.Equal(t, http.StatusOK, w.Code)

		again := decode[entities.BlogPost](t, w)
		require.NotNil(t, again.PublishedAt)
		assert.True(t, first.PublishedAt.Equal(*again.PublishedAt))
	})

	t.Run("tags are normalized", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/api/blog/"+post.Slug, map[string]any{"tags": []string{"a", " a", "b"}}, s.token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"a", "b"}, []string(decode[entities.BlogPost](t, w).Tags))
	})

	t.Run("excerpt limit", func(t *testing.T) {
		long := make([]byte, 1001)
		for i := range long {
			long[i] = 'a'
		}
		w := s.do(t, http.MethodPut, "/api/blog/"+post.Slug, map[string]any{"excerpt": string(long)}, s.token)
		requireEnvelope(t, w, http.StatusBadRequest)
	})

	t.Run("delete", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, "/api/blog/"+post.Slug, nil, s.token)
		assert.Equal(t, http.StatusNoContent, w.Code)
		w = s.do(t, http.MethodGet, "/api/blog/"+post.Slug, nil, s.token)
		requireEnvelope(t, w, http.StatusNotFound)
	})
}

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"trims", []string{"  go  "}, []string{"go"}},
		{"drops empty", []string{"", "   "}, []string{}},
		{"dedupes keeping order", []string{"b", "a", "b"}, []string{"b", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, []string(normalizeTags(tt.in)))
		})
	}
}
