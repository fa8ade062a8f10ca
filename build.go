package pubstatic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/pubstatic/markdown"
)

const relatedPostLimit = 3

// BuildReport summarises a finished build.
type BuildReport struct {
	Posts    int // posts listed on the site
	Tags     int
	Pages    int // HTML pages written
	Failed   int // post pages rendered as not found
	Duration time.Duration
}

// Build renders the whole site into the output directory.
//
// Failures to read posts never abort the build: they are logged and the
// affected pages fall back to empty listings or the not-found page. Errors
// writing the output, invalid views and cancellation of ctx are returned.
func (a *App) Build(ctx context.Context) (BuildReport, error) {
	a.buildMu.Lock()
	defer a.buildMu.Unlock()

	start := time.Now()
	var report BuildReport
	if err := a.Views.validate(); err != nil {
		return report, err
	}

	out := a.Config.OutputDir
	if err := a.prepareOutput(); err != nil {
		return report, err
	}
	if err := copyDir(a.Config.StaticDir, out); err != nil {
		return report, fmt.Errorf("copy static files: %w", err)
	}
	if err := writeEmbeddedAssets(filepath.Join(out, "assets")); err != nil {
		return report, err
	}

	posts, err := a.Repo.ListAll()
	if err != nil {
		a.logger.Error("Loading posts failed, building an empty site", "error", err)
		posts = []Post{}
	}
	slugs, err := a.Repo.ListSlugs()
	if err != nil {
		a.logger.Error("Listing post files failed", "error", err)
		slugs = []string{}
	}
	tags := countTags(posts)
	report.Posts = len(posts)
	report.Tags = len(tags)

	page := func(rel string, render func() error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := render(); err != nil {
			return err
		}
		report.Pages++
		a.logger.Debug("Wrote page", "path", rel)
		return nil
	}
	write := func(rel string, cmp templ.Component) error {
		return page(rel, func() error {
			return RenderFile(ctx, filepath.Join(out, filepath.FromSlash(rel)), cmp)
		})
	}

	latest := posts
	if len(latest) > a.Config.HomePostLimit {
		latest = latest[:a.Config.HomePostLimit]
	}
	if err := write("index.html", a.Views.Home(latest, len(posts), tags)); err != nil {
		return report, err
	}

	for _, slug := range slugs {
		rel := "posts/" + slug + "/index.html"
		post, body, err := a.loadPostPage(slug)
		if err != nil {
			report.Failed++
			a.logger.Warn("Rendering post as not found", "slug", slug, "error", err)
			if err := write(rel, a.Views.PostNotFound(slug)); err != nil {
				return report, err
			}
			continue
		}
		related := FilterRelatedPosts(post, posts, relatedPostLimit)
		if err := write(rel, a.Views.Post(post, markdown.Component(body), related)); err != nil {
			return report, err
		}
	}

	if err := write("tags/index.html", a.Views.TagIndex(tags, len(posts))); err != nil {
		return report, err
	}
	for _, tc := range tags {
		rel := "tags/" + TagSegment(tc.Name) + "/index.html"
		if err := write(rel, a.Views.Tag(tc.Name, filterByTag(posts, tc.Name))); err != nil {
			return report, err
		}
	}

	if err := write("search/index.html", a.Views.Search()); err != nil {
		return report, err
	}
	if err := write("404.html", a.Views.NotFound()); err != nil {
		return report, err
	}

	if err := WritePreviews(a.DataPath(), previews(posts)); err != nil {
		return report, err
	}
	if err := a.writeRSS(filepath.Join(out, "feed.xml"), posts); err != nil {
		return report, err
	}
	if err := a.writeSitemap(filepath.Join(out, "sitemap.xml"), posts, tags); err != nil {
		return report, err
	}
	if err := a.writeRobots(filepath.Join(out, "robots.txt")); err != nil {
		return report, err
	}
	a.processCovers(posts)

	report.Duration = time.Since(start)
	a.logger.Info("Build complete",
		"posts", report.Posts,
		"tags", report.Tags,
		"pages", report.Pages,
		"failed", report.Failed,
		"output", out,
		"duration", report.Duration.Round(time.Millisecond),
	)
	return report, nil
}

// loadPostPage returns a post with its rendered body. Any failure means the
// post page shows the not-found fallback.
func (a *App) loadPostPage(slug string) (Post, string, error) {
	post, err := a.Repo.GetBySlug(slug)
	if err != nil {
		return Post{}, "", err
	}
	body, err := a.md.Render(post.Content)
	if err != nil {
		return Post{}, "", err
	}
	return post, body, nil
}

// prepareOutput empties the output directory unless KeepOutput is set.
// It refuses to delete a directory that holds the sources.
func (a *App) prepareOutput() error {
	out := a.Config.OutputDir
	if !a.Config.KeepOutput {
		absOut, err := filepath.Abs(out)
		if err != nil {
			return fmt.Errorf("resolve output dir: %w", err)
		}
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working dir: %w", err)
		}
		if within(wd, absOut) {
			return fmt.Errorf("refusing to clean output dir %s: it contains the working directory", out)
		}
		for _, src := range []string{a.Config.ContentDir, a.Config.StaticDir} {
			absSrc, err := filepath.Abs(src)
			if err != nil {
				return fmt.Errorf("resolve %s: %w", src, err)
			}
			if within(absSrc, absOut) {
				return fmt.Errorf("refusing to clean output dir %s: it contains %s", out, src)
			}
		}
		if err := os.RemoveAll(out); err != nil {
			return fmt.Errorf("clean output dir: %w", err)
		}
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}

// within reports whether path is dir or below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// copyDir copies the contents of src into dst. A missing src is skipped.
func copyDir(src, dst string) error {
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeEmbeddedAssets(dir string) error {
	entries, err := fs.ReadDir(EmbeddedAssets, "embedded")
	if err != nil {
		return fmt.Errorf("read embedded assets: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create assets dir: %w", err)
	}
	for _, e := range entries {
		b, err := EmbeddedAssets.ReadFile("embedded/" + e.Name())
		if err != nil {
			return fmt.Errorf("read embedded %s: %w", e.Name(), err)
		}
		if err := os.WriteFile(filepath.Join(dir, e.Name()), b, 0o644); err != nil {
			return fmt.Errorf("write asset %s: %w", e.Name(), err)
		}
	}
	return nil
}
