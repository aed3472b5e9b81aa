package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/0010capacity/capacity-backend/internal/entities"
)

const (
	SiteName = "0010capacity"

	dateLayout        = "2006년 01월 02일"
	descriptionLength = 160
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"blog_post", "blog_list", "novel", "novel_list", "chapter"}

// Meta feeds the document head: title, Open Graph and canonical link.
type Meta struct {
	Title         string
	Description   string
	URL           string
	Type          string
	Image         string
	PublishedTime string
	Keywords      string
}

// Pages renders the public HTML pages shared by the live routes and the static
// site builder.
type Pages struct {
	baseURL  string
	markdown *Markdown
	pages    map[string]*template.Template
}

func NewPages(baseURL string) (*Pages, error) {
	funcMap := template.FuncMap{
		"siteName":   func() string { return SiteName },
		"koreanDate": FormatDate,
		"postDate":   displayDate,
		"first": func(n int, items []string) []string {
			if len(items) > n {
				return items[:n]
			}
			return items
		},
		"genre": func(v string) string { return entities.OptionLabel(entities.Genres, v) },
		"novelType": func(v entities.NovelType) string {
			return entities.OptionLabel(entities.NovelTypes, string(v))
		},
		"novelStatus": func(v entities.NovelStatus) string {
			return entities.OptionLabel(entities.NovelStatuses, string(v))
		},
	}

	layout, err := template.New("base").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout template: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		tmpl, err := clone.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Pages{
		baseURL:  strings.TrimRight(baseURL, "/"),
		markdown: NewMarkdown(),
		pages:    pages,
	}, nil
}

func (p *Pages) BaseURL() string {
	return p.baseURL
}

func (p *Pages) BlogPost(post *entities.BlogPost) (string, error) {
	body, err := p.markdown.Render(post.Content)
	if err != nil {
		return "", err
	}

	description := excerpt(post.Content)
	if post.Excerpt != nil && *post.Excerpt != "" {
		description = *post.Excerpt
	}
	date := displayDate(post.PublishedAt, post.CreatedAt)

	return p.execute("blog_post", map[string]any{
		"Meta": Meta{
			Title:         post.Title,
			Description:   description,
			URL:           p.baseURL + "/blog/" + post.Slug,
			Type:          "article",
			Image:         deref(post.CoverImageURL),
			PublishedTime: date.Format(time.RFC3339),
			Keywords:      strings.Join(post.Tags, ", "),
		},
		"Post": post,
		"Date": date,
		"Body": body,
	})
}

func (p *Pages) BlogList(posts []entities.BlogPostPreview) (string, error) {
	return p.execute("blog_list", map[string]any{
		"Meta": Meta{
			Title:       "블로그",
			Description: "기술, 경험, 그리고 생각들에 대한 블로그",
			URL:         p.baseURL + "/blog/",
			Type:        "website",
		},
		"Posts": posts,
	})
}

func (p *Pages) Novel(novel *entities.Novel, chapters []entities.ChapterPreview) (string, error) {
	var body template.HTML
	if description := deref(novel.Description); description != "" {
		var err error
		if body, err = p.markdown.Render(description); err != nil {
			return "", err
		}
	}

	return p.execute("novel", map[string]any{
		"Meta": Meta{
			Title:         novel.Title,
			Description:   excerpt(deref(novel.Description)),
			URL:           p.baseURL + "/novels/" + novel.Slug,
			Type:          "book",
			Image:         deref(novel.CoverImageURL),
			PublishedTime: novel.CreatedAt.UTC().Format(time.RFC3339),
			Keywords:      strings.Join(novel.Genres, ", "),
		},
		"Novel":    novel,
		"Chapters": chapters,
		"Body":     body,
	})
}

// Chapter renders one chapter; prev and next are neighbouring chapter numbers,
// zero when there is none.
func (p *Pages) Chapter(novel *entities.Novel, chapter *entities.NovelChapter, prev, next int) (string, error) {
	body, err := p.markdown.Render(chapter.Content)
	if err != nil {
		return "", err
	}
	date := displayDate(chapter.PublishedAt, chapter.CreatedAt)

	return p.execute("chapter", map[string]any{
		"Meta": Meta{
			Title:         fmt.Sprintf("%s %d화. %s", novel.Title, chapter.ChapterNumber, chapter.Title),
			Description:   excerpt(chapter.Content),
			URL:           fmt.Sprintf("%s/novels/%s/chapters/%d", p.baseURL, novel.Slug, chapter.ChapterNumber),
			Type:          "article",
			Image:         deref(novel.CoverImageURL),
			PublishedTime: date.Format(time.RFC3339),
		},
		"Novel":   novel,
		"Chapter": chapter,
		"Date":    date,
		"Body":    body,
		"Prev":    prev,
		"Next":    next,
	})
}

func (p *Pages) NovelList(novels []entities.NovelSummary) (string, error) {
	return p.execute("novel_list", map[string]any{
		"Meta": Meta{
			Title:       "소설",
			Description: "창작 소설 모음",
			URL:         p.baseURL + "/novels/",
			Type:        "website",
		},
		"Novels": novels,
	})
}

func (p *Pages) execute(name string, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := p.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

// FormatDate formats t in the site's Korean date style.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func displayDate(published *time.Time, created time.Time) time.Time {
	if published != nil {
		return published.UTC()
	}
	return created.UTC()
}

// excerpt collapses whitespace and cuts text to the meta description length.
func excerpt(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= descriptionLength {
		return text
	}
	return string([]rune(text)[:descriptionLength])
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
