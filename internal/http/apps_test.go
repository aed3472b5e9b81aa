package http

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0010capacity/capacity-backend/internal/entities"
)

func TestAppsController(t *testing.T) {
	s := setupServer(t, true)

	w := s.do(t, http.MethodPost, "/api/apps", map[string]any{
		"name":      "Tool",
		"platforms": []string{"ios", "android"},
		"distribution_channels": []map[string]any{
			{"type": "app_store", "url": "https://apps.apple.com/x"},
		},
	}, s.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	app := decode[entities.App](t, w)
	assert.Regexp(t, regexp.MustCompile(`^app-[a-z0-9]{8}$`), app.Slug)
	assert.Empty(t, app.Screenshots)

	w = s.do(t, http.MethodPost, "/api/apps", map[string]any{"name": "Web", "platforms": []string{"web"}}, s.token)
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("create validation", func(t *testing.T) {
		bodies := []map[string]any{
			{"platforms": []string{"ios"}},
			{"name": "X", "platforms": []string{"symbian"}},
			{"name": "X", "distribution_channels": []map[string]any{{"type": "fax", "url": "x"}}},
			{"name": "X", "distribution_channels": []map[string]any{{"type": "web"}}},
		}
		for _, body := range bodies {
			w := s.do(t, http.MethodPost, "/api/apps", body, s.token)
			requireEnvelope(t, w, http.StatusBadRequest)
		}
	})

	t.Run("list filters by platform", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/apps?platform=ios", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		list := decode[[]entities.App](t, w)
		require.Len(t, list, 1)
		assert.Equal(t, "Tool", list[0].Name)

		w = s.do(t, http.MethodGet, "/api/apps", nil, "")
		assert.Len(t, decode[[]entities.App](t, w), 2)

		w = s.do(t, http.MethodGet, "/api/apps?platform=symbian", nil, "")
		requireEnvelope(t, w, http.StatusBadRequest)
	})

	t.Run("enum listings", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/apps/platforms", nil, "")
		assert.Len(t, decode[[]entities.Option](t, w), len(entities.Platforms))

		w = s.do(t, http.MethodGet, "/api/apps/channels", nil, "")
		assert.Len(t, decode[[]entities.Option](t, w), len(entities.DistributionChannelTypes))
	})

	t.Run("update replaces lists", func(t *testing.T) {
		w := s.do(t, http.MethodPut, "/api/apps/"+app.Slug, map[string]any{
			"screenshots": []string{"https://img/1.png"},
			"platforms":   []string{"web"},
		}, s.token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		updated := decode[entities.App](t, w)
		assert.Equal(t, []string{"https://img/1.png"}, []string(updated.Screenshots))
		assert.Equal(t, []string{"web"}, []string(updated.Platforms))
		assert.Equal(t, "Tool", updated.Name)
		require.Len(t, updated.DistributionChannels, 1)
	})

	t.Run("delete", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, "/api/apps/"+app.Slug, nil, s.token)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = s.do(t, http.MethodGet, "/api/apps/"+app.Slug, nil, "")
		env := requireEnvelope(t, w, http.StatusNotFound)
		assert.Equal(t, "App not found", env.Error)
	})
}
