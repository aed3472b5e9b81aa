package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/0010capacity/capacity-backend/internal/apperr"
	"github.com/0010capacity/capacity-backend/internal/database/apps"
	"github.com/0010capacity/capacity-backend/internal/database/patch"
	"github.com/0010capacity/capacity-backend/internal/entities"
)

const defaultAppListLimit = 20

type CreateAppRequest struct {
	Name                 string                         `json:"name" binding:"required,min=1,max=255"`
	Description          *string                        `json:"description"`
	Platforms            []string                       `json:"platforms"`
	IconURL              *string                        `json:"icon_url" binding:"omitempty,max=2048"`
	Screenshots          []string                       `json:"screenshots"`
	DistributionChannels []entities.DistributionChannel `json:"distribution_channels"`
	PrivacyPolicyURL     *string                        `json:"privacy_policy_url" binding:"omitempty,max=2048"`
}

type UpdateAppRequest struct {
	Name                 patch.Field[string]                         `json:"name"`
	Description          patch.Field[string]                         `json:"description"`
	Platforms            patch.Field[[]string]                       `json:"platforms"`
	IconURL              patch.Field[string]                         `json:"icon_url"`
	Screenshots          patch.Field[[]string]                       `json:"screenshots"`
	DistributionChannels patch.Field[[]entities.DistributionChannel] `json:"distribution_channels"`
	PrivacyPolicyURL     patch.Field[string]                         `json:"privacy_policy_url"`
}

type AppsController struct {
	store   AppStore
	respond *Responder
	hooks   contentHooks
}

func NewAppsController(store AppStore, respond *Responder, hooks contentHooks) *AppsController {
	return &AppsController{store: store, respond: respond, hooks: hooks}
}

func checkChannels(channels []entities.DistributionChannel) error {
	for i, ch := range channels {
		if err := checkOption("distribution channel type", entities.DistributionChannelTypes, ch.Type); err != nil {
			return err
		}
		if ch.URL == "" {
			return apperr.Validation("distribution_channels[%d].url is required", i)
		}
	}
	return nil
}

// GET /api/apps
func (ac *AppsController) List(c *gin.Context) {
	limit, offset, err := parsePagination(c, defaultAppListLimit, maxListLimit)
	if err != nil {
		ac.respond.Error(c, err)
		return
	}
	platform := c.Query("platform")
	if platform != "" {
		if err := checkOption("platform", entities.Platforms, platform); err != nil {
			ac.respond.Error(c, err)
			return
		}
	}

	list, err := ac.store.List(c.Request.Context(), apps.ListFilter{Platform: platform, Limit: limit, Offset: offset})
	if err != nil {
		ac.respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/apps/platforms
func (ac *AppsController) Platforms(c *gin.Context) {
	c.JSON(http.StatusOK, entities.Platforms)
}

// GET /api/apps/channels
func (ac *AppsController) Channels(c *gin.Context) {
	c.JSON(http.StatusOK, entities.DistributionChannelTypes)
}

// POST /api/apps
func (ac *AppsController) Create(c *gin.Context) {
	var req CreateAppRequest
	if err := bindJSON(c, &req); err != nil {
		ac.respond.Error(c, err)
		return
	}
	if err := checkOptions("platform", entities.Platforms, req.Platforms); err != nil {
		ac.respond.Error(c, err)
		return
	}
	if err := checkChannels(req.DistributionChannels); err != nil {
		ac.respond.Error(c, err)
		return
	}

	app := &entities.App{
		Name:                 req.Name,
		Description:          req.Description,
		Platforms:            datatypes.JSONSlice[string](req.Platforms),
		IconURL:              req.IconURL,
		Screenshots:          datatypes.JSONSlice[string](req.Screenshots),
		DistributionChannels: datatypes.JSONSlice[entities.DistributionChannel](req.DistributionChannels),
		PrivacyPolicyURL:     req.PrivacyPolicyURL,
	}
	err := ac.store.Create(c.Request.Context(), app)
	ac.hooks.record(c, "app_create", "app", app.Slug, err)
	if err != nil {
		ac.respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

// GET /api/apps/:slug
func (ac *AppsController) Get(c *gin.Context) {
	app, err := ac.store.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		ac.respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// PUT /api/apps/:slug
func (ac *AppsController) Update(c *gin.Context) {
	var req UpdateAppRequest
	if err := bindJSON(c, &req); err != nil {
		ac.respond.Error(c, err)
		return
	}
	changes, err := req.changes()
	if err != nil {
		ac.respond.Error(c, err)
		return
	}

	slug := c.Param("slug")
	app, err := ac.store.Update(c.Request.Context(), slug, changes)
	ac.hooks.record(c, "app_update", "app", slug, err)
	if err != nil {
		ac.respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (req UpdateAppRequest) changes() (*patch.Changes, error) {
	if err := checkLength("name", req.Name, 1, 255); err != nil {
		return nil, err
	}
	if err := checkLength("icon_url", req.IconURL, 0, 2048); err != nil {
		return nil, err
	}
	if err := checkLength("privacy_policy_url", req.PrivacyPolicyURL, 0, 2048); err != nil {
		return nil, err
	}
	if err := checkOptions("platform", entities.Platforms, req.Platforms.Value); err != nil {
		return nil, err
	}
	if err := checkChannels(req.DistributionChannels.Value); err != nil {
		return nil, err
	}

	changes := patch.NewChanges(apps.UpdatableColumns...)
	if err := patch.SetRequired(changes, "name", req.Name); err != nil {
		return nil, err
	}
	patch.SetNullable(changes, "description", req.Description)
	patch.SetNullable(changes, "icon_url", req.IconURL)
	patch.SetNullable(changes, "privacy_policy_url", req.PrivacyPolicyURL)
	if err := patch.SetMapped(changes, "platforms", req.Platforms, stringSlice); err != nil {
		return nil, err
	}
	if err := patch.SetMapped(changes, "screenshots", req.Screenshots, stringSlice); err != nil {
		return nil, err
	}
	if err := patch.SetMapped(changes, "distribution_channels", req.DistributionChannels, func(v []entities.DistributionChannel) any {
		if v == nil {
			v = []entities.DistributionChannel{}
		}
		return datatypes.JSONSlice[entities.DistributionChannel](v)
	}); err != nil {
		return nil, err
	}
	return changes, nil
}

func stringSlice(v []string) any {
	if v == nil {
		v = []string{}
	}
	return datatypes.JSONSlice[string](v)
}

// DELETE /api/apps/:slug
func (ac *AppsController) Delete(c *gin.Context) {
	slug := c.Param("slug")
	err := ac.store.Delete(c.Request.Context(), slug)
	ac.hooks.record(c, "app_delete", "app", slug, err)
	if err != nil {
		ac.respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
