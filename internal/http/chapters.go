package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/0010capacity/capacity-backend/internal/apperr"
	"github.com/0010capacity/capacity-backend/internal/database/chapters"
	"github.com/0010capacity/capacity-backend/internal/database/patch"
	"github.com/0010capacity/capacity-backend/internal/entities"
)

type CreateChapterRequest struct {
	ChapterNumber int        `json:"chapter_number" binding:"required,gte=1"`
	Title         string     `json:"title" binding:"required,min=1,max=500"`
	Content       string     `json:"content" binding:"required,min=1"`
	PublishedAt   *time.Time `json:"published_at"`
}

type UpdateChapterRequest struct {
	ChapterNumber patch.Field[int]       `json:"chapter_number"`
	Title         patch.Field[string]    `json:"title"`
	Content       patch.Field[string]    `json:"content"`
	PublishedAt   patch.Field[time.Time] `json:"published_at"`
}

type ChaptersController struct {
	novels   NovelStore
	chapters ChapterStore
	respond  *Responder
	hooks    contentHooks
}

func NewChaptersController(novels NovelStore, chapters ChapterStore, respond *Responder, hooks contentHooks) *ChaptersController {
	return &ChaptersController{novels: novels, chapters: chapters, respond: respond, hooks: hooks}
}

// target resolves the novel from :slug and, when withNumber is set, the
// chapter number from :number.
func (cc *ChaptersController) target(c *gin.Context, withNumber bool) (*entities.Novel, int, error) {
	novel, err := lookupNovel(c, cc.novels, c.Param("slug"))
	if err != nil {
		return nil, 0, err
	}
	if !withNumber {
		return novel, 0, nil
	}
	number, err := parseChapterNumber(c)
	if err != nil {
		return nil, 0, err
	}
	return novel, number, nil
}

// List returns chapter previews without content, ordered by number.
// GET /api/novels/:slug/chapters
func (cc *ChaptersController) List(c *gin.Context) {
	novel, _, err := cc.target(c, false)
	if err != nil {
		cc.respond.Error(c, err)
		return
	}
	previews, err := cc.chapters.List(c.Request.Context(), novel.ID)
	if err != nil {
		cc.respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, previews)
}

// POST /api/novels/:slug/chapters
func (cc *ChaptersController) Create(c *gin.Context) {
	novel, _, err := cc.target(c, false)
	if err != nil {
		cc.respond.Error(c, err)
		return
	}

	var req CreateChapterRequest
	if err := bindJSON(c, &req); err != nil {
		cc.respond.Error(c, err)
		return
	}

	chapter := &entities.NovelChapter{
		NovelID:       novel.ID,
		ChapterNumber: req.ChapterNumber,
		Title:         req.Title,
		Content:       req.Content,
		PublishedAt:   req.PublishedAt,
	}
	err = cc.chapters.Create(c.Request.Context(), chapter)
	cc.hooks.record(c, "chapter_create", "chapter", novel.Slug, err)
	if err != nil {
		cc.respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, chapter)
}

// GET /api/novels/:slug/chapters/:number
func (cc *ChaptersController) Get(c *gin.Context) {
	novel, number, err := cc.target(c, true)
	if err != nil {
		cc.respond.Error(c, err)
		return
	}
	chapter, err := cc.chapters.Get(c.Request.Context(), novel.ID, number)
	if err != nil {
		cc.respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

// PUT /api/novels/:slug/chapters/:number
func (cc *ChaptersController) Update(c *gin.Context) {
	novel, number, err := cc.target(c, true)
	if err != nil {
		cc.respond.Error(c, err)
		return
	}

	var req UpdateChapterRequest
	if err := bindJSON(c, &req); err != nil {
		cc.respond.Error(c, err)
		return
	}
	changes, err := req.changes()
	if err != nil {
		cc.respond.Error(c, err)
		return
	}

	chapter, err := cc.chapters.Update(c.Request.Context(), novel.ID, number, changes)
	cc.hooks.record(c, "chapter_update", "chapter", novel.Slug, err)
	if err != nil {
		cc.respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

func (req UpdateChapterRequest) changes() (*patch.Changes, error) {
	if req.ChapterNumber.Present && !req.ChapterNumber.Null && req.ChapterNumber.Value < 1 {
		return nil, apperr.Validation("chapter_number must be at least 1")
	}
	if err := checkLength("title", req.Title, 1, 500); err != nil {
		return nil, err
	}
	if err := checkLength("content", req.Content, 1, 0); err != nil {
		return nil, err
	}

	changes := patch.NewChanges(chapters.UpdatableColumns...)
	if err := patch.SetRequired(changes, "chapter_number", req.ChapterNumber); err != nil {
		return nil, err
	}
	if err := patch.SetRequired(changes, "title", req.Title); err != nil {
		return nil, err
	}
	if err := patch.SetRequired(changes, "content", req.Content); err != nil {
		return nil, err
	}
	patch.SetNullable(changes, "published_at", req.PublishedAt)
	return changes, nil
}

// DELETE /api/novels/:slug/chapters/:number
func (cc *ChaptersController) Delete(c *gin.Context) {
	novel, number, err := cc.target(c, true)
	if err != nil {
		cc.respond.Error(c, err)
		return
	}
	err = cc.chapters.Delete(c.Request.Context(), novel.ID, number)
	cc.hooks.record(c, "chapter_delete", "chapter", novel.Slug, err)
	if err != nil {
		cc.respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/novels/:slug/chapters/:number/increment-view
func (cc *ChaptersController) IncrementView(c *gin.Context) {
	novel, number, err := cc.target(c, true)
	if err == nil {
		err = cc.chapters.IncrementView(c.Request.Context(), novel.ID, number)
	}
	if err != nil {
		cc.respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
