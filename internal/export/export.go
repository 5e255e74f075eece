// Package export writes the whole site as static files.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"spacetraveling/internal/content"
	"spacetraveling/internal/listing"
	"spacetraveling/internal/post"
	"spacetraveling/internal/render"
)

type Options struct {
	PageSize int
	Logger   *log.Logger
}

// Stats summarizes an export.
type Stats struct {
	Pages   int
	Posts   int
	Skipped int
}

type exporter struct {
	source   content.Source
	renderer *render.Renderer
	outDir   string
	logger   *log.Logger
}

// pageFile is the site path of the n-th listing page (1-based).
func pageFile(n int) string {
	return "/api/posts/" + strconv.Itoa(n) + ".json"
}

// Run walks every listing page and writes index.html, one page per post,
// the listing pages as JSON and the static assets into outDir.
func Run(ctx context.Context, source content.Source, renderer *render.Renderer, outDir string, opts Options) (Stats, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	e := &exporter{source: source, renderer: renderer, outDir: outDir, logger: logger}

	first, err := source.GetPage(ctx, content.PostType, content.PageOptions{
		FetchFields: content.SummaryFields(content.PostType),
		PageSize:    opts.PageSize,
	})
	if err != nil {
		return Stats{}, fmt.Errorf("fetch first page: %w", err)
	}

	pages := [][]post.Summary{first.Results}
	feed := listing.New(source, first)
	for feed.HasMore() {
		seen := len(feed.State().Posts)
		st, err := feed.LoadMore(ctx)
		if err != nil {
			return Stats{}, fmt.Errorf("fetch page %d: %w", len(pages)+1, err)
		}
		pages = append(pages, st.Posts[seen:])
	}
	feed.Release()

	var stats Stats
	for i, results := range pages {
		next := ""
		if i+1 < len(pages) {
			next = pageFile(i + 2)
		}
		if err := e.writeJSON(pageFile(i+1), render.NewPageJSON(results, next)); err != nil {
			return stats, err
		}
		stats.Pages++
	}

	index := render.IndexData{SiteTitle: renderer.SiteTitle(), Posts: first.Results}
	if len(pages) > 1 {
		index.NextPage = pageFile(2)
	}
	if err := e.writePage("index.html", render.PageIndex, index); err != nil {
		return stats, err
	}

	for _, results := range pages {
		for _, summary := range results {
			written, err := e.exportPost(ctx, summary.UID)
			if err != nil {
				return stats, err
			}
			if written {
				stats.Posts++
			} else {
				stats.Skipped++
			}
		}
	}

	notFound := render.ErrorData{SiteTitle: renderer.SiteTitle(), Title: "Não encontrado"}
	if err := e.writePage("404.html", render.PageNotFound, notFound); err != nil {
		return stats, err
	}
	if err := e.copyStatic(); err != nil {
		return stats, err
	}

	logger.Printf("Exported %d listing pages and %d posts to %s (%d skipped)", stats.Pages, stats.Posts, outDir, stats.Skipped)
	return stats, nil
}

// exportPost writes post/<uid>/index.html. Posts that vanished between the
// listing and the fetch are skipped.
func (e *exporter) exportPost(ctx context.Context, uid string) (bool, error) {
	if uid == "" || uid == "." || uid == ".." || strings.ContainsAny(uid, `/\`) {
		e.logger.Printf("Skipping post with unsafe uid %q", uid)
		return false, nil
	}
	detail, err := e.source.GetByUID(ctx, content.PostType, uid)
	if errors.Is(err, content.ErrNotFound) {
		e.logger.Printf("Skipping post %s: %v", uid, err)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("fetch post %s: %w", uid, err)
	}
	data, err := render.NewPostData(e.renderer.SiteTitle(), detail)
	if err != nil {
		return false, err
	}
	if err := e.writePage(filepath.Join("post", uid, "index.html"), render.PagePost, data); err != nil {
		return false, err
	}
	return true, nil
}

func (e *exporter) writePage(rel, page string, data any) error {
	body, err := e.renderer.Bytes(page, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", rel, err)
	}
	return e.writeFile(rel, body)
}

func (e *exporter) writeJSON(sitePath string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", sitePath, err)
	}
	return e.writeFile(filepath.FromSlash(sitePath[1:]), body)
}

func (e *exporter) writeFile(rel string, body []byte) error {
	path := filepath.Join(e.outDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(path, body, 0644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}

func (e *exporter) copyStatic() error {
	static := render.Static()
	return fs.WalkDir(static, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(static, path)
		if err != nil {
			return fmt.Errorf("read static %s: %w", path, err)
		}
		return e.writeFile(filepath.Join("static", filepath.FromSlash(path)), data)
	})
}
