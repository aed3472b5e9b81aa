package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/0010capacity/capacity-backend/internal/apperr"
	"github.com/0010capacity/capacity-backend/internal/database/blog"
	"github.com/0010capacity/capacity-backend/internal/database/novels"
	"github.com/0010capacity/capacity-backend/internal/entities"
	"github.com/0010capacity/capacity-backend/internal/render"
)

const htmlContentType = "text/html; charset=utf-8"

// PagesController serves the rendered HTML of published content. Drafts and
// unpublished posts are never shown here, even to admins.
type PagesController struct {
	pages    *render.Pages
	posts    BlogStore
	novels   NovelStore
	chapters ChapterStore
	respond  *Responder
}

func NewPagesController(pages *render.Pages, posts BlogStore, novelStore NovelStore, chapters ChapterStore, respond *Responder) *PagesController {
	return &PagesController{pages: pages, posts: posts, novels: novelStore, chapters: chapters, respond: respond}
}

func (pc *PagesController) html(c *gin.Context, body string, err error) {
	if err != nil {
		pc.respond.Error(c, apperr.Internal(err))
		return
	}
	c.Data(http.StatusOK, htmlContentType, []byte(body))
}

func (pc *PagesController) publishedNovel(c *gin.Context) (*entities.Novel, error) {
	novel, err := pc.novels.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		return nil, err
	}
	if novel.IsDraft() {
		return nil, apperr.NotFound("Novel")
	}
	return novel, nil
}

// GET /sitemap.xml
func (pc *PagesController) Sitemap(c *gin.Context) {
	ctx := c.Request.Context()
	posts, err := pc.posts.List(ctx, blog.ListFilter{})
	if err != nil {
		pc.respond.Error(c, err)
		return
	}
	list, err := pc.novels.List(ctx, novels.ListFilter{})
	if err != nil {
		pc.respond.Error(c, err)
		return
	}
	data, err := render.Sitemap(pc.pages.BaseURL(), posts, list)
	if err != nil {
		pc.respond.Error(c, apperr.Internal(err))
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", data)
}

// GET /blog/
func (pc *PagesController) BlogList(c *gin.Context) {
	posts, err := pc.posts.List(c.Request.Context(), blog.ListFilter{})
	if err != nil {
		pc.respond.Error(c, err)
		return
	}
	body, err := pc.pages.BlogList(posts)
	pc.html(c, body, err)
}

// GET /blog/:slug
func (pc *PagesController) BlogPost(c *gin.Context) {
	post, err := pc.posts.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err == nil && !post.Published {
		err = apperr.NotFound("Blog post")
	}
	if err != nil {
		pc.respond.Error(c, err)
		return
	}
	body, err := pc.pages.BlogPost(post)
	pc.html(c, body, err)
}

// GET /novels/
func (pc *PagesController) NovelList(c *gin.Context) {
	list, err := pc.novels.List(c.Request.Context(), novels.ListFilter{})
	if err != nil {
		pc.respond.Error(c, err)
		return
	}
	body, err := pc.pages.NovelList(list)
	pc.html(c, body, err)
}

// GET /novels/:slug
func (pc *PagesController) Novel(c *gin.Context) {
	novel, err := pc.publishedNovel(c)
	if err != nil {
		pc.respond.Error(c, err)
		return
	}
	previews, err := pc.chapters.List(c.Request.Context(), novel.ID)
	if err != nil {
		pc.respond.Error(c, err)
		return
	}
	body, err := pc.pages.Novel(novel, previews)
	pc.html(c, body, err)
}

// GET /novels/:slug/chapters/:number
func (pc *PagesController) Chapter(c *gin.Context) {
	novel, err := pc.publishedNovel(c)
	if err != nil {
		pc.respond.Error(c, err)
		return
	}
	number, err := parseChapterNumber(c)
	if err != nil {
		pc.respond.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	chapter, err := pc.chapters.Get(ctx, novel.ID, number)
	if err != nil {
		pc.respond.Error(c, err)
		return
	}
	previews, err := pc.chapters.List(ctx, novel.ID)
	if err != nil {
		pc.respond.Error(c, err)
		return
	}

	var prev, next int
	for i, p := range previews {
		if p.ChapterNumber != number {
			continue
		}
		if i > 0 {
			prev = previews[i-1].ChapterNumber
		}
		if i+1 < len(previews) {
			next = previews[i+1].ChapterNumber
		}
		break
	}

	body, err := pc.pages.Chapter(novel, chapter, prev, next)
	pc.html(c, body, err)
}
