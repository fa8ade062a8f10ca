// Package pubstatic is a static blog generator. It reads markdown posts with
// front-matter from a directory and writes a pre-rendered site: home, post,
// tag and search pages, feeds, and a JSON index that the search page filters
// in the browser.
//
// Users provide their own templ components via the ViewFuncs struct, and
// pubstatic handles loading, ordering, tagging and writing the pages.
package pubstatic

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/pubstatic/markdown"
)

// ViewFuncs holds the templ components the builder calls when rendering
// pages. Links inside them are site-relative; SiteConfig.BasePath is the
// caller's to apply. Tag lists are ordered most used first and, for Home,
// hold every tag so the view can show totals; HomeTagLimit is the view's
// to apply.
type ViewFuncs struct {
	Home         func(latest []Post, total int, tags []TagCount) templ.Component
	Post         func(post Post, body templ.Component, related []Post) templ.Component
	PostNotFound func(slug string) templ.Component
	TagIndex     func(tags []TagCount, total int) templ.Component
	Tag          func(tag string, posts []Post) templ.Component
	Search       func() templ.Component
	NotFound     func() templ.Component
}

func (v ViewFuncs) validate() error {
	var missing []string
	if v.Home == nil {
		missing = append(missing, "Home")
	}
	if v.Post == nil {
		missing = append(missing, "Post")
	}
	if v.PostNotFound == nil {
		missing = append(missing, "PostNotFound")
	}
	if v.TagIndex == nil {
		missing = append(missing, "TagIndex")
	}
	if v.Tag == nil {
		missing = append(missing, "Tag")
	}
	if v.Search == nil {
		missing = append(missing, "Search")
	}
	if v.NotFound == nil {
		missing = append(missing, "NotFound")
	}
	if len(missing) > 0 {
		return fmt.Errorf("pubstatic: missing views: %s", strings.Join(missing, ", "))
	}
	return nil
}

// App is the central pubstatic application. It wires together the
// repository, cache, markdown renderer and user-provided templates.
type App struct {
	Config SiteConfig
	Repo   *Repository
	Views  ViewFuncs
	Echo   *echo.Echo

	cache   *PostCache
	md      *markdown.Renderer
	logger  *slog.Logger
	watch   bool
	buildMu sync.Mutex
}

// New creates a new pubstatic App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()
	md := markdown.New(markdown.Options{
		HardWraps: cfg.MarkdownHardWraps,
		SafeMode:  cfg.MarkdownSafe,
	})

	a := &App{
		Config: cfg,
		Views:  views,
		cache:  NewPostCache(),
		md:     md,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	repoOpts := []RepositoryOption{
		WithReadingTime(cfg.WordsPerMinute, cfg.ReadingTimeSuffix),
		WithStrict(cfg.Strict),
		WithRepositoryLogger(a.logger),
	}
	if a.cache != nil {
		repoOpts = append(repoOpts, WithCache(a.cache))
	}
	a.Repo = NewRepository(cfg.ContentDir, repoOpts...)
	return a
}

// SiteURL is the absolute URL of the site root, including the base path.
func (a *App) SiteURL() string {
	return a.Config.URL + a.Config.BasePath
}

// DataPath is the filesystem path of the exported search index.
func (a *App) DataPath() string {
	return filepath.Join(a.Config.OutputDir, filepath.FromSlash(a.Config.DataPath))
}

// Export writes the search index to path. Repository failures are logged
// and produce an empty index so that the search page always has data to
// load; only writing the file can fail.
func (a *App) Export(path string) (int, error) {
	items, err := ExportPreviews(a.Repo)
	if err != nil {
		a.logger.Error("Loading posts for export failed, writing empty index", "error", err)
		items = nil
	}
	if err := WritePreviews(path, items); err != nil {
		return 0, err
	}
	return len(items), nil
}

// Close releases resources held by the app.
func (a *App) Close() error {
	if a.cache != nil {
		a.cache.InvalidateAll()
	}
	return nil
}
