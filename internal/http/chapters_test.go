package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0010capacity/capacity-backend/internal/entities"
)

func TestChaptersController(t *testing.T) {
	s := setupServer(t, true)
	slug := s.createNovel(t, map[string]any{"title": "Serial", "status": "ongoing"})
	base := "/api/novels/" + slug + "/chapters"

	for _, n := range []int{2, 1} {
		w := s.do(t, http.MethodPost, base, map[string]any{
			"chapter_number": n,
			"title":          "Chapter",
			"content":        "Body text",
		}, s.token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	t.Run("list is ordered by number without content", func(t *testing.T) {
		w := s.do(t, http.MethodGet, base, nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		raw := decode[[]map[string]any](t, w)
		require.Len(t, raw, 2)
		assert.EqualValues(t, 1, raw[0]["chapter_number"])
		assert.EqualValues(t, 2, raw[1]["chapter_number"])
		assert.NotContains(t, raw[0], "content")
	})

	t.Run("duplicate number conflicts", func(t *testing.T) {
		w := s.do(t, http.MethodPost, base, map[string]any{
			"chapter_number": 1,
			"title":          "Again",
			"content":        "x",
		}, s.token)
		requireEnvelope(t, w, http.StatusConflict)
	})

	t.Run("number must be positive", func(t *testing.T) {
		w := s.do(t, http.MethodPost, base, map[string]any{
			"chapter_number": 0,
			"title":          "Zero",
			"content":        "x",
		}, s.token)
		requireEnvelope(t, w, http.StatusBadRequest)
	})

	t.Run("get returns content", func(t *testing.T) {
		w := s.do(t, http.MethodGet, base+"/1", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Body text", decode[entities.NovelChapter](t, w).Content)

		w = s.do(t, http.MethodGet, base+"/abc", nil, "")
		requireEnvelope(t, w, http.StatusBadRequest)

		w = s.do(t, http.MethodGet, base+"/99", nil, "")
		requireEnvelope(t, w, http.StatusNotFound)
	})

	t.Run("update renames without touching content", func(t *testing.T) {
		w := s.do(t, http.MethodPut, base+"/2", map[string]any{"title": "Second"}, s.token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		chapter := decode[entities.NovelChapter](t, w)
		assert.Equal(t, "Second", chapter.Title)
		assert.Equal(t, "Body text", chapter.Content)
	})

	t.Run("views increment", func(t *testing.T) {
		w := s.do(t, http.MethodPost, base+"/1/increment-view", nil, "")
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = s.do(t, http.MethodGet, base+"/1", nil, "")
		assert.EqualValues(t, 1, decode[entities.NovelChapter](t, w).ViewCount)
	})

	t.Run("delete", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, base+"/2", nil, s.token)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = s.do(t, http.MethodGet, base+"/2", nil, "")
		requireEnvelope(t, w, http.StatusNotFound)
	})
}

func TestChaptersController_DraftNovelHidden(t *testing.T) {
	s := setupServer(t, true)
	slug := s.createNovel(t, map[string]any{"title": "Secret"})

	w := s.do(t, http.MethodGet, "/api/novels/"+slug+"/chapters", nil, "")
	requireEnvelope(t, w, http.StatusNotFound)

	w = s.do(t, http.MethodGet, "/api/novels/"+slug+"/chapters", nil, s.token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRelationsController(t *testing.T) {
	s := setupServer(t, true)
	first := s.createNovel(t, map[string]any{"title": "First", "status": "completed"})
	second := s.createNovel(t, map[string]any{"title": "Second", "status": "ongoing"})
	hidden := s.createNovel(t, map[string]any{"title": "Hidden"})
	base := "/api/novels/" + first + "/relations"

	w := s.do(t, http.MethodPost, base, map[string]any{"related_novel_slug": second, "relation_type": "sequel"}, s.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[entities.RelatedNovel](t, w)
	assert.Equal(t, entities.RelationType("sequel"), created.RelationType)
	assert.Equal(t, second, created.Novel.Slug)

	w = s.do(t, http.MethodPost, base, map[string]any{"related_novel_slug": hidden, "relation_type": "spinoff"}, s.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"self relation", map[string]any{"related_novel_slug": first, "relation_type": "related"}, http.StatusBadRequest},
		{"unknown type", map[string]any{"related_novel_slug": second, "relation_type": "cousin"}, http.StatusBadRequest},
		{"unknown related slug", map[string]any{"related_novel_slug": "novel-00000000", "relation_type": "related"}, http.StatusNotFound},
		{"duplicate", map[string]any{"related_novel_slug": second, "relation_type": "prequel"}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, base, tt.body, s.token)
			requireEnvelope(t, w, tt.status)
		})
	}

	t.Run("anonymous list hides draft targets", func(t *testing.T) {
		w := s.do(t, http.MethodGet, base, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]entities.RelatedNovel](t, w), 1)

		w = s.do(t, http.MethodGet, base, nil, s.token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]entities.RelatedNovel](t, w), 2)
	})

	t.Run("delete", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, base, nil, s.token)
		requireEnvelope(t, w, http.StatusBadRequest)

		w = s.do(t, http.MethodDelete, base+"?related_slug="+second, nil, s.token)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = s.do(t, http.MethodDelete, base+"?related_slug="+second, nil, s.token)
		requireEnvelope(t, w, http.StatusNotFound)
	})
}
