package pubstatic

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/eringen/pubstatic/frontmatter"
	"github.com/eringen/pubstatic/search"
)

const postExt = ".md"

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("post not found")

// ParseError reports a post source file whose metadata could not be parsed
// or failed validation. Page renderers treat it like a missing post.
type ParseError struct {
	Slug string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("post %q: %v", e.Slug, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Repository reads posts from a directory of markdown files. Every call reads
// the directory again; parsed posts are reused from the cache when one is set
// and the file has not changed.
type Repository struct {
	dir            string
	wordsPerMinute int
	suffix         string
	strict         bool
	cache          *PostCache
	logger         *slog.Logger
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithReadingTime sets the reading speed and the display suffix.
func WithReadingTime(wordsPerMinute int, suffix string) RepositoryOption {
	return func(r *Repository) {
		r.wordsPerMinute = wordsPerMinute
		r.suffix = suffix
	}
}

// WithStrict makes listings fail on the first invalid post instead of
// skipping it.
func WithStrict(strict bool) RepositoryOption {
	return func(r *Repository) {
		r.strict = strict
	}
}

// WithCache reuses parsed posts from c.
func WithCache(c *PostCache) RepositoryOption {
	return func(r *Repository) {
		r.cache = c
	}
}

// WithRepositoryLogger sets the logger used for skipped posts.
func WithRepositoryLogger(l *slog.Logger) RepositoryOption {
	return func(r *Repository) {
		r.logger = l
	}
}

// NewRepository creates a Repository over dir.
func NewRepository(dir string, opts ...RepositoryOption) *Repository {
	r := &Repository{
		dir:            dir,
		wordsPerMinute: 200,
		suffix:         "分钟阅读",
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ListSlugs returns the slugs of all markdown files in the source directory,
// sorted. A missing directory has no posts.
func (r *Repository) ListSlugs() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list posts: %w", err)
	}
	slugs := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, postExt) || strings.HasPrefix(name, ".") {
			continue
		}
		slugs = append(slugs, strings.TrimSuffix(name, postExt))
	}
	sort.Strings(slugs)
	return slugs, nil
}

// GetBySlug returns the post stored in <slug>.md. It returns ErrNotFound when
// the file does not exist and a *ParseError when its metadata is invalid.
func (r *Repository) GetBySlug(slug string) (Post, error) {
	if !validSlug(slug) {
		return Post{}, ErrNotFound
	}
	path := filepath.Join(r.dir, slug+postExt)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Post{}, ErrNotFound
		}
		return Post{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return Post{}, ErrNotFound
	}
	if r.cache != nil {
		if p, ok := r.cache.Get(slug, info.ModTime(), info.Size()); ok {
			return p, nil
		}
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return Post{}, fmt.Errorf("read %s: %w", path, err)
	}
	post, err := r.parse(slug, source, info)
	if err != nil {
		return Post{}, err
	}
	if r.cache != nil {
		r.cache.Put(post, info.ModTime(), info.Size())
	}
	return post, nil
}

func (r *Repository) parse(slug string, source []byte, info fs.FileInfo) (Post, error) {
	meta, body, err := frontmatter.Parse(source)
	if err != nil {
		return Post{}, &ParseError{Slug: slug, Err: err}
	}
	meta = meta.Normalize()
	if err := meta.Validate(); err != nil {
		return Post{}, &ParseError{Slug: slug, Err: err}
	}

	content := string(body)
	post := Post{
		Slug:        slug,
		Title:       meta.Title,
		Date:        meta.Date,
		Excerpt:     meta.Excerpt,
		Content:     content,
		Tags:        meta.Tags,
		ReadingTime: ReadingTime(content, r.wordsPerMinute, r.suffix),
		Author:      meta.Author,
		CoverImage:  meta.CoverImage,
		Link:        PostPath(slug),
	}
	if post.Title == "" {
		post.Title = slug
	}
	if post.Date == "" {
		post.Date = info.ModTime().Format("2006-01-02")
	}
	post.Published, _ = frontmatter.ParseDate(post.Date)
	return post, nil
}

// ListAll returns every post, newest first. Posts with equal dates are
// ordered by slug; posts without a parseable date come last.
func (r *Repository) ListAll() ([]Post, error) {
	slugs, err := r.ListSlugs()
	if err != nil {
		return nil, err
	}
	posts := make([]Post, 0, len(slugs))
	for _, slug := range slugs {
		p, err := r.GetBySlug(slug)
		if err != nil {
			var pe *ParseError
			if r.strict || !errors.As(err, &pe) {
				return nil, err
			}
			r.logger.Warn("Skipping invalid post", "slug", slug, "error", pe.Err)
			continue
		}
		posts = append(posts, p)
	}
	SortPosts(posts)
	return posts, nil
}

// SortPosts orders posts newest first, then by slug.
func SortPosts(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i].Published, posts[j].Published
		switch {
		case a.IsZero() != b.IsZero():
			return b.IsZero()
		case !a.Equal(b):
			return a.After(b)
		default:
			return posts[i].Slug < posts[j].Slug
		}
	})
}

// ListByTag returns the posts carrying tag, compared case-insensitively.
func (r *Repository) ListByTag(tag string) ([]Post, error) {
	posts, err := r.ListAll()
	if err != nil {
		return nil, err
	}
	return filterByTag(posts, tag), nil
}

func filterByTag(posts []Post, tag string) []Post {
	out := []Post{}
	for _, p := range posts {
		if HasTag(p.Tags, tag) {
			out = append(out, p)
		}
	}
	return out
}

// ListTags returns the distinct tags of all posts. Tags differing only in
// case are the same tag; the spelling from the newest post is kept.
func (r *Repository) ListTags() ([]string, error) {
	counts, err := r.TagCounts()
	if err != nil {
		return nil, err
	}
	tags := make([]string, len(counts))
	for i, tc := range counts {
		tags[i] = tc.Name
	}
	sortTags(tags)
	return tags, nil
}

// TagCounts returns every tag with the number of posts carrying it, most
// used first.
func (r *Repository) TagCounts() ([]TagCount, error) {
	posts, err := r.ListAll()
	if err != nil {
		return nil, err
	}
	return countTags(posts), nil
}

func countTags(posts []Post) []TagCount {
	index := make(map[string]int)
	counts := []TagCount{}
	for _, p := range posts {
		for _, t := range p.Tags {
			key := search.Fold(t)
			if i, ok := index[key]; ok {
				counts[i].Count++
				continue
			}
			index[key] = len(counts)
			counts = append(counts, TagCount{Name: t, Count: 1})
		}
	}
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return tagLess(counts[i].Name, counts[j].Name)
	})
	return counts
}

func sortTags(tags []string) {
	sort.SliceStable(tags, func(i, j int) bool {
		return tagLess(tags[i], tags[j])
	})
}

func tagLess(a, b string) bool {
	fa, fb := search.Fold(a), search.Fold(b)
	if fa != fb {
		return fa < fb
	}
	return a < b
}

// Search returns posts whose title, excerpt, content or tags contain query,
// ignoring case. A blank query matches nothing.
func (r *Repository) Search(query string) ([]Post, error) {
	q := search.Fold(strings.TrimSpace(query))
	if q == "" {
		return []Post{}, nil
	}
	posts, err := r.ListAll()
	if err != nil {
		return nil, err
	}
	out := []Post{}
	for _, p := range posts {
		if postMatches(p, q) {
			out = append(out, p)
		}
	}
	return out, nil
}

func postMatches(p Post, folded string) bool {
	for _, field := range []string{p.Title, p.Excerpt, p.Content} {
		if strings.Contains(search.Fold(field), folded) {
			return true
		}
	}
	for _, t := range p.Tags {
		if strings.Contains(search.Fold(t), folded) {
			return true
		}
	}
	return false
}

func validSlug(slug string) bool {
	if slug == "" || slug == "." || slug == ".." || strings.HasPrefix(slug, ".") {
		return false
	}
	return !strings.ContainsAny(slug, `/\`)
}
