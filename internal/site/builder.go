// Package site writes the public pages and sitemap to a static directory so a
// plain file server or CDN can host them.
package site

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/0010capacity/capacity-backend/internal/database/blog"
	"github.com/0010capacity/capacity-backend/internal/database/novels"
	"github.com/0010capacity/capacity-backend/internal/entities"
	"github.com/0010capacity/capacity-backend/internal/render"
)

// ErrDisabled is returned by Build when no output directory is configured.
var ErrDisabled = errors.New("static site output directory is not configured")

const indexFile = "index.html"

type BlogSource interface {
	List(ctx context.Context, f blog.ListFilter) ([]entities.BlogPostPreview, error)
	ListFull(ctx context.Context, f blog.ListFilter) ([]entities.BlogPost, error)
}

type NovelSource interface {
	List(ctx context.Context, f novels.ListFilter) ([]entities.NovelSummary, error)
}

type ChapterSource interface {
	List(ctx context.Context, novelID uuid.UUID) ([]entities.ChapterPreview, error)
	ListFull(ctx context.Context, novelID uuid.UUID) ([]entities.NovelChapter, error)
}

// Result summarizes one build.
type Result struct {
	Posts    int
	Novels   int
	Chapters int
	Removed  int
	Duration time.Duration
}

type Builder struct {
	outputDir string
	pages     *render.Pages
	posts     BlogSource
	novels    NovelSource
	chapters  ChapterSource
	logger    *zap.Logger
}

func NewBuilder(outputDir string, pages *render.Pages, posts BlogSource, novelSource NovelSource, chapters ChapterSource, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		outputDir: outputDir,
		pages:     pages,
		posts:     posts,
		novels:    novelSource,
		chapters:  chapters,
		logger:    logger.Named("site"),
	}
}

func (b *Builder) Enabled() bool {
	return b.outputDir != ""
}

// Build regenerates every page from the published content. Pages for content
// that is no longer published are removed.
func (b *Builder) Build(ctx context.Context) (Result, error) {
	if !b.Enabled() {
		return Result{}, ErrDisabled
	}
	start := time.Now()
	var result Result

	previews, err := b.posts.List(ctx, blog.ListFilter{})
	if err != nil {
		return result, fmt.Errorf("failed to list posts: %w", err)
	}
	posts, err := b.posts.ListFull(ctx, blog.ListFilter{})
	if err != nil {
		return result, fmt.Errorf("failed to list posts: %w", err)
	}
	summaries, err := b.novels.List(ctx, novels.ListFilter{})
	if err != nil {
		return result, fmt.Errorf("failed to list novels: %w", err)
	}

	html, err := b.pages.BlogList(previews)
	if err != nil {
		return result, err
	}
	if err := b.write(html, "blog", indexFile); err != nil {
		return result, err
	}

	postSlugs := make(map[string]bool, len(posts))
	for i := range posts {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		html, err := b.pages.BlogPost(&posts[i])
		if err != nil {
			return result, err
		}
		if err := b.write(html, "blog", posts[i].Slug, indexFile); err != nil {
			return result, err
		}
		postSlugs[posts[i].Slug] = true
		result.Posts++
	}

	html, err = b.pages.NovelList(summaries)
	if err != nil {
		return result, err
	}
	if err := b.write(html, "novels", indexFile); err != nil {
		return result, err
	}

	novelSlugs := make(map[string]bool, len(summaries))
	for i := range summaries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		written, err := b.buildNovel(ctx, &summaries[i].Novel)
		if err != nil {
			return result, err
		}
		novelSlugs[summaries[i].Slug] = true
		result.Novels++
		result.Chapters += written
	}

	sitemap, err := render.Sitemap(b.pages.BaseURL(), previews, summaries)
	if err != nil {
		return result, err
	}
	if err := b.write(string(sitemap), "sitemap.xml"); err != nil {
		return result, err
	}

	for dir, keep := range map[string]map[string]bool{"blog": postSlugs, "novels": novelSlugs} {
		removed, err := b.prune(dir, keep)
		if err != nil {
			return result, err
		}
		result.Removed += removed
	}

	result.Duration = time.Since(start)
	b.logger.Info("static site generated",
		zap.String("output_dir", b.outputDir),
		zap.Int("posts", result.Posts),
		zap.Int("novels", result.Novels),
		zap.Int("chapters", result.Chapters),
		zap.Int("removed", result.Removed),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

func (b *Builder) buildNovel(ctx context.Context, novel *entities.Novel) (int, error) {
	previews, err := b.chapters.List(ctx, novel.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to list chapters of %s: %w", novel.Slug, err)
	}
	html, err := b.pages.Novel(novel, previews)
	if err != nil {
		return 0, err
	}
	if err := b.write(html, "novels", novel.Slug, indexFile); err != nil {
		return 0, err
	}

	chapters, err := b.chapters.ListFull(ctx, novel.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to load chapters of %s: %w", novel.Slug, err)
	}
	chapterDir := filepath.Join(b.outputDir, "novels", novel.Slug, "chapters")
	if err := os.RemoveAll(chapterDir); err != nil {
		return 0, fmt.Errorf("failed to clear chapter directory: %w", err)
	}
	for i := range chapters {
		prev, next := 0, 0
		if i > 0 {
			prev = chapters[i-1].ChapterNumber
		}
		if i+1 < len(chapters) {
			next = chapters[i+1].ChapterNumber
		}
		html, err := b.pages.Chapter(novel, &chapters[i], prev, next)
		if err != nil {
			return 0, err
		}
		number := strconv.Itoa(chapters[i].ChapterNumber)
		if err := b.write(html, "novels", novel.Slug, "chapters", number, indexFile); err != nil {
			return 0, err
		}
	}
	return len(chapters), nil
}

// write replaces the file atomically so a concurrent reader never sees a
// partial page.
func (b *Builder) write(content string, elem ...string) error {
	path := filepath.Join(append([]string{b.outputDir}, elem...)...)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// prune removes page directories under dir whose slug is not in keep.
func (b *Builder) prune(dir string, keep map[string]bool) (int, error) {
	entries, err := os.ReadDir(filepath.Join(b.outputDir, dir))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() || keep[entry.Name()] {
			continue
		}
		if err := os.RemoveAll(filepath.Join(b.outputDir, dir, entry.Name())); err != nil {
			return removed, fmt.Errorf("failed to remove stale page %s: %w", entry.Name(), err)
		}
		removed++
	}
	return removed, nil
}
