package render

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/0010capacity/capacity-backend/internal/entities"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority"`
}

// Sitemap lists the landing pages plus every published post and non-draft
// novel. Unpublished entries are skipped even if the caller passes them in.
func Sitemap(baseURL string, posts []entities.BlogPostPreview, novels []entities.NovelSummary) ([]byte, error) {
	baseURL = strings.TrimRight(baseURL, "/")

	set := urlSet{
		Xmlns: sitemapNamespace,
		URLs: []sitemapURL{
			{Loc: baseURL + "/", ChangeFreq: "weekly", Priority: "1.0"},
			{Loc: baseURL + "/blog/", ChangeFreq: "weekly", Priority: "0.9"},
			{Loc: baseURL + "/novels/", ChangeFreq: "weekly", Priority: "0.9"},
		},
	}

	for _, post := range posts {
		if !post.Published {
			continue
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:      baseURL + "/blog/" + post.Slug,
			LastMod:  post.UpdatedAt.UTC().Format("2006-01-02"),
			Priority: "0.8",
		})
	}
	for _, novel := range novels {
		if novel.IsDraft() {
			continue
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:      baseURL + "/novels/" + novel.Slug,
			LastMod:  novel.UpdatedAt.UTC().Format("2006-01-02"),
			Priority: "0.8",
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode sitemap: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}
