package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/0010capacity/capacity-backend/internal/apperr"
	"github.com/0010capacity/capacity-backend/internal/auth"
	"github.com/0010capacity/capacity-backend/internal/database/blog"
	"github.com/0010capacity/capacity-backend/internal/database/patch"
	"github.com/0010capacity/capacity-backend/internal/entities"
)

type CreateBlogPostRequest struct {
	Title         string     `json:"title" binding:"required,min=1,max=500"`
	Content       string     `json:"content" binding:"required,min=1"`
	Excerpt       *string    `json:"excerpt" binding:"omitempty,max=1000"`
	CoverImageURL *string    `json:"cover_image_url" binding:"omitempty,max=2048"`
	Tags          []string   `json:"tags"`
	Published     bool       `json:"published"`
	PublishedAt   *time.Time `json:"published_at"`
}

type UpdateBlogPostRequest struct {
	Title         patch.Field[string]    `json:"title"`
	Content       patch.Field[string]    `json:"content"`
	Excerpt       patch.Field[string]    `json:"excerpt"`
	CoverImageURL patch.Field[string]    `json:"cover_image_url"`
	Tags          patch.Field[[]string]  `json:"tags"`
	Published     patch.Field[bool]      `json:"published"`
	PublishedAt   patch.Field[time.Time] `json:"published_at"`
}

type BlogController struct {
	store   BlogStore
	respond *Responder
	hooks   contentHooks
}

func NewBlogController(store BlogStore, respond *Responder, hooks contentHooks) *BlogController {
	return &BlogController{store: store, respond: respond, hooks: hooks}
}

// normalizeTags trims every tag and drops empty and repeated ones, keeping
// first-seen order.
func normalizeTags(tags []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// GET /api/blog
func (bc *BlogController) List(c *gin.Context) {
	bc.list(c, strings.TrimSpace(c.Query("tag")), includeDrafts(c))
}

// ByTag lists published posts carrying :tag.
// GET /api/blog/tags/:tag
func (bc *BlogController) ByTag(c *gin.Context) {
	tag := strings.TrimSpace(c.Param("tag"))
	if tag == "" {
		bc.respond.Error(c, apperr.BadRequest("tag is required"))
		return
	}
	bc.list(c, tag, false)
}

func (bc *BlogController) list(c *gin.Context, tag string, drafts bool) {
	limit, offset, err := parsePagination(c, defaultListLimit, maxListLimit)
	if err != nil {
		bc.respond.Error(c, err)
		return
	}
	posts, err := bc.store.List(c.Request.Context(), blog.ListFilter{
		Tag:           tag,
		IncludeDrafts: drafts,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		bc.respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// POST /api/blog
func (bc *BlogController) Create(c *gin.Context) {
	var req CreateBlogPostRequest
	if err := bindJSON(c, &req); err != nil {
		bc.respond.Error(c, err)
		return
	}

	post := &entities.BlogPost{
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		CoverImageURL: req.CoverImageURL,
		Tags:          normalizeTags(req.Tags),
		Published:     req.Published,
		PublishedAt:   req.PublishedAt,
	}
	err := bc.store.Create(c.Request.Context(), post)
	bc.hooks.record(c, "blog_create", "blog_post", post.Slug, err)
	if err != nil {
		bc.respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// Get returns a post. Unpublished posts are only visible to admins.
// GET /api/blog/:slug
func (bc *BlogController) Get(c *gin.Context) {
	post, err := bc.lookup(c)
	if err != nil {
		bc.respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (bc *BlogController) lookup(c *gin.Context) (*entities.BlogPost, error) {
	post, err := bc.store.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		return nil, err
	}
	if !post.Published && !auth.IsAdmin(c) {
		return nil, apperr.NotFound("Blog post")
	}
	return post, nil
}

// PUT /api/blog/:slug
func (bc *BlogController) Update(c *gin.Context) {
	var req UpdateBlogPostRequest
	if err := bindJSON(c, &req); err != nil {
		bc.respond.Error(c, err)
		return
	}
	changes, err := req.changes()
	if err != nil {
		bc.respond.Error(c, err)
		return
	}

	slug := c.Param("slug")
	post, err := bc.store.Update(c.Request.Context(), slug, changes)
	bc.hooks.record(c, "blog_update", "blog_post", slug, err)
	if err != nil {
		bc.respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (req UpdateBlogPostRequest) changes() (*patch.Changes, error) {
	if err := checkLength("title", req.Title, 1, 500); err != nil {
		return nil, err
	}
	if err := checkLength("content", req.Content, 1, 0); err != nil {
		return nil, err
	}
	if err := checkLength("excerpt", req.Excerpt, 0, 1000); err != nil {
		return nil, err
	}
	if err := checkLength("cover_image_url", req.CoverImageURL, 0, 2048); err != nil {
		return nil, err
	}

	changes := patch.NewChanges(blog.UpdatableColumns...)
	if err := patch.SetRequired(changes, "title", req.Title); err != nil {
		return nil, err
	}
	if err := patch.SetRequired(changes, "content", req.Content); err != nil {
		return nil, err
	}
	patch.SetNullable(changes, "excerpt", req.Excerpt)
	patch.SetNullable(changes, "cover_image_url", req.CoverImageURL)
	if err := patch.SetMapped(changes, "tags", req.Tags, func(v []string) any { return normalizeTags(v) }); err != nil {
		return nil, err
	}
	if err := patch.SetRequired(changes, "published", req.Published); err != nil {
		return nil, err
	}
	patch.SetNullable(changes, "published_at", req.PublishedAt)
	return changes, nil
}

// DELETE /api/blog/:slug
func (bc *BlogController) Delete(c *gin.Context) {
	slug := c.Param("slug")
	err := bc.store.Delete(c.Request.Context(), slug)
	bc.hooks.record(c, "blog_delete", "blog_post", slug, err)
	if err != nil {
		bc.respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/blog/:slug/increment-view
func (bc *BlogController) IncrementView(c *gin.Context) {
	post, err := bc.lookup(c)
	if err == nil {
		err = bc.store.IncrementView(c.Request.Context(), post.Slug)
	}
	if err != nil {
		bc.respond.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
