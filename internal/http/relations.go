package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/0010capacity/capacity-backend/internal/apperr"
	"github.com/0010capacity/capacity-backend/internal/auth"
	"github.com/0010capacity/capacity-backend/internal/entities"
)

type CreateRelationRequest struct {
	RelatedNovelSlug string                `json:"related_novel_slug" binding:"required"`
	RelationType     entities.RelationType `json:"relation_type" binding:"required"`
}

type RelationsController struct {
	novels    NovelStore
	relations RelationStore
	respond   *Responder
	hooks     contentHooks
}

func NewRelationsController(novels NovelStore, relations RelationStore, respond *Responder, hooks contentHooks) *RelationsController {
	return &RelationsController{novels: novels, relations: relations, respond: respond, hooks: hooks}
}

// List returns the novels related to :slug. Draft targets are hidden from
// anonymous callers.
// GET /api/novels/:slug/relations
func (rc *RelationsController) List(c *gin.Context) {
	novel, err := lookupNovel(c, rc.novels, c.Param("slug"))
	if err != nil {
		rc.respond.Error(c, err)
		return
	}
	related, err := rc.relations.List(c.Request.Context(), novel.ID)
	if err != nil {
		rc.respond.Error(c, err)
		return
	}
	if !auth.IsAdmin(c) {
		visible := related[:0]
		for _, r := range related {
			if !r.Novel.IsDraft() {
				visible = append(visible, r)
			}
		}
		related = visible
	}
	c.JSON(http.StatusOK, related)
}

// POST /api/novels/:slug/relations
func (rc *RelationsController) Create(c *gin.Context) {
	var req CreateRelationRequest
	if err := bindJSON(c, &req); err != nil {
		rc.respond.Error(c, err)
		return
	}
	if err := checkOption("relation_type", entities.RelationTypes, string(req.RelationType)); err != nil {
		rc.respond.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	slug := c.Param("slug")
	novel, err := rc.novels.GetBySlug(ctx, slug)
	if err != nil {
		rc.respond.Error(c, err)
		return
	}
	target, err := rc.novels.GetBySlug(ctx, req.RelatedNovelSlug)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			err = apperr.NotFound("Related novel")
		}
		rc.respond.Error(c, err)
		return
	}

	relation := &entities.NovelRelation{
		NovelID:        novel.ID,
		RelatedNovelID: target.ID,
		RelationType:   req.RelationType,
	}
	err = rc.relations.Create(ctx, relation)
	rc.hooks.record(c, "relation_create", "relation", slug, err)
	if err != nil {
		rc.respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, entities.RelatedNovel{
		ID:           relation.ID,
		RelationType: relation.RelationType,
		Novel:        *target,
	})
}

// DELETE /api/novels/:slug/relations?related_slug=
func (rc *RelationsController) Delete(c *gin.Context) {
	relatedSlug := c.Query("related_slug")
	if relatedSlug == "" {
		rc.respond.Error(c, apperr.BadRequest("related_slug is required"))
		return
	}

	ctx := c.Request.Context()
	slug := c.Param("slug")
	novel, err := rc.novels.GetBySlug(ctx, slug)
	if err != nil {
		rc.respond.Error(c, err)
		return
	}
	target, err := rc.novels.GetBySlug(ctx, relatedSlug)
	if err != nil {
		rc.respond.Error(c, err)
		return
	}

	err = rc.relations.Delete(ctx, novel.ID, target.ID)
	rc.hooks.record(c, "relation_delete", "relation", slug, err)
	if err != nil {
		rc.respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
