package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/0010capacity/capacity-backend/internal/apperr"
	"github.com/0010capacity/capacity-backend/internal/auth"
	"github.com/0010capacity/capacity-backend/internal/database/novels"
	"github.com/0010capacity/capacity-backend/internal/database/patch"
	"github.com/0010capacity/capacity-backend/internal/entities"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

type CreateNovelRequest struct {
	Title         string               `json:"title" binding:"required,min=1,max=500"`
	Description   *string              `json:"description"`
	CoverImageURL *string              `json:"cover_image_url" binding:"omitempty,max=2048"`
	NovelType     entities.NovelType   `json:"novel_type"`
	Genres        []string             `json:"genres"`
	Status        entities.NovelStatus `json:"status"`
}

type UpdateNovelRequest struct {
	Title         patch.Field[string]               `json:"title"`
	Description   patch.Field[string]               `json:"description"`
	CoverImageURL patch.Field[string]               `json:"cover_image_url"`
	NovelType     patch.Field[entities.NovelType]   `json:"novel_type"`
	Genres        patch.Field[[]string]             `json:"genres"`
	Status        patch.Field[entities.NovelStatus] `json:"status"`
}

type NovelsController struct {
	store   NovelStore
	respond *Responder
	hooks   contentHooks
}

func NewNovelsController(store NovelStore, respond *Responder, hooks contentHooks) *NovelsController {
	return &NovelsController{store: store, respond: respond, hooks: hooks}
}

// lookupNovel loads a novel by slug. Drafts are reported as missing unless the
// caller is an admin.
func lookupNovel(c *gin.Context, store NovelStore, slug string) (*entities.Novel, error) {
	novel, err := store.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		return nil, err
	}
	if novel.IsDraft() && !auth.IsAdmin(c) {
		return nil, apperr.NotFound("Novel")
	}
	return novel, nil
}

// List returns novels with chapter counts, newest first.
// GET /api/novels
func (nc *NovelsController) List(c *gin.Context) {
	limit, offset, err := parsePagination(c, defaultListLimit, maxListLimit)
	if err != nil {
		nc.respond.Error(c, err)
		return
	}

	filter := novels.ListFilter{
		Genre:         c.Query("genre"),
		IncludeDrafts: includeDrafts(c),
		Limit:         limit,
		Offset:        offset,
	}
	if status := c.Query("status"); status != "" {
		if err := checkOption("status", entities.NovelStatuses, status); err != nil {
			nc.respond.Error(c, err)
			return
		}
		filter.Status = entities.NovelStatus(status)
	}
	if novelType := c.Query("novel_type"); novelType != "" {
		if err := checkOption("novel_type", entities.NovelTypes, novelType); err != nil {
			nc.respond.Error(c, err)
			return
		}
		filter.NovelType = entities.NovelType(novelType)
	}
	if filter.Genre != "" {
		if err := checkOption("genre", entities.Genres, filter.Genre); err != nil {
			nc.respond.Error(c, err)
			return
		}
	}

	summaries, err := nc.store.List(c.Request.Context(), filter)
	if err != nil {
		nc.respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// GET /api/novels/genres
func (nc *NovelsController) Genres(c *gin.Context) {
	c.JSON(http.StatusOK, entities.Genres)
}

// GET /api/novels/types
func (nc *NovelsController) Types(c *gin.Context) {
	c.JSON(http.StatusOK, entities.NovelTypes)
}

// POST /api/novels
func (nc *NovelsController) Create(c *gin.Context) {
	var req CreateNovelRequest
	if err := bindJSON(c, &req); err != nil {
		nc.respond.Error(c, err)
		return
	}
	if err := req.validate(); err != nil {
		nc.respond.Error(c, err)
		return
	}

	novel := &entities.Novel{
		Title:         req.Title,
		Description:   req.Description,
		CoverImageURL: req.CoverImageURL,
		NovelType:     req.NovelType,
		Genres:        datatypes.JSONSlice[string](req.Genres),
		Status:        req.Status,
	}
	if novel.NovelType == "" {
		novel.NovelType = entities.NovelTypeLong
	}
	if novel.Status == "" {
		novel.Status = entities.NovelStatusDraft
	}

	err := nc.store.Create(c.Request.Context(), novel)
	nc.hooks.record(c, "novel_create", "novel", novel.Slug, err)
	if err != nil {
		nc.respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, novel)
}

func (req CreateNovelRequest) validate() error {
	if req.NovelType != "" {
		if err := checkOption("novel_type", entities.NovelTypes, string(req.NovelType)); err != nil {
			return err
		}
	}
	if req.Status != "" {
		if err := checkOption("status", entities.NovelStatuses, string(req.Status)); err != nil {
			return err
		}
	}
	return checkOptions("genre", entities.Genres, req.Genres)
}

// GET /api/novels/:slug
func (nc *NovelsController) Get(c *gin.Context) {
	novel, err := lookupNovel(c, nc.store, c.Param("slug"))
	if err != nil {
		nc.respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, novel)
}

// Update changes only the fields present in the body.
// PUT /api/novels/:slug
func (nc *NovelsController) Update(c *gin.Context) {
	var req UpdateNovelRequest
	if err := bindJSON(c, &req); err != nil {
		nc.respond.Error(c, err)
		return
	}
	changes, err := req.changes()
	if err != nil {
		nc.respond.Error(c, err)
		return
	}

	slug := c.Param("slug")
	novel, err := nc.store.Update(c.Request.Context(), slug, changes)
	nc.hooks.record(c, "novel_update", "novel", slug, err)
	if err != nil {
		nc.respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, novel)
}

func (req UpdateNovelRequest) changes() (*patch.Changes, error) {
	if err := checkLength("title", req.Title, 1, 500); err != nil {
		return nil, err
	}
	if err := checkLength("cover_image_url", req.CoverImageURL, 0, 2048); err != nil {
		return nil, err
	}
	if req.NovelType.Present && !req.NovelType.Null {
		if err := checkOption("novel_type", entities.NovelTypes, string(req.NovelType.Value)); err != nil {
			return nil, err
		}
	}
	if req.Status.Present && !req.Status.Null {
		if err := checkOption("status", entities.NovelStatuses, string(req.Status.Value)); err != nil {
			return nil, err
		}
	}
	if err := checkOptions("genre", entities.Genres, req.Genres.Value); err != nil {
		return nil, err
	}

	changes := patch.NewChanges(novels.UpdatableColumns...)
	if err := patch.SetRequired(changes, "title", req.Title); err != nil {
		return nil, err
	}
	patch.SetNullable(changes, "description", req.Description)
	patch.SetNullable(changes, "cover_image_url", req.CoverImageURL)
	if err := patch.SetMapped(changes, "novel_type", req.NovelType, func(v entities.NovelType) any { return string(v) }); err != nil {
		return nil, err
	}
	if err := patch.SetMapped(changes, "status", req.Status, func(v entities.NovelStatus) any { return string(v) }); err != nil {
		return nil, err
	}
	if err := patch.SetMapped(changes, "genres", req.Genres, stringSlice); err != nil {
		return nil, err
	}
	return changes, nil
}

// DELETE /api/novels/:slug
func (nc *NovelsController) Delete(c *gin.Context) {
	slug := c.Param("slug")
	err := nc.store.Delete(c.Request.Context(), slug)
	nc.hooks.record(c, "novel_delete", "novel", slug, err)
	if err != nil {
		nc.respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/novels/:slug/increment-view
func (nc *NovelsController) IncrementView(c *gin.Context) {
	novel, err := lookupNovel(c, nc.store, c.Param("slug"))
	if err == nil {
		err = nc.store.IncrementView(c.Request.Context(), novel.Slug)
	}
	if err != nil {
		nc.respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
