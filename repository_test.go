package pubstatic

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubstatic/frontmatter"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writePost(t *testing.T, dir, slug, content string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, slug+".md"), content)
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestGetBySlug(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "hello", "---\ntitle: \"Hello\"\ndate: \"2024-01-01\"\ntags: [\"go\", \"web\"]\n---\n"+words(400)+"\n")

	repo := NewRepository(dir)
	post, err := repo.GetBySlug("hello")
	require.NoError(t, err)

	assert.Equal(t, "hello", post.Slug)
	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, "2024-01-01", post.Date)
	assert.Equal(t, "2 分钟阅读", post.ReadingTime)
	assert.Equal(t, []string{"go", "web"}, post.Tags)
	assert.Equal(t, "/posts/hello/", post.Link)
	assert.False(t, post.Published.IsZero())
	assert.Contains(t, post.Content, "word")
}

func TestGetBySlugDefaults(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "bare", "Just a body.\n")

	post, err := NewRepository(dir).GetBySlug("bare")
	require.NoError(t, err)
	assert.Equal(t, "bare", post.Title)
	assert.Empty(t, post.Excerpt)
	assert.Empty(t, post.Tags)
	assert.Empty(t, post.Author)
	assert.Empty(t, post.CoverImage)
	assert.Equal(t, "1 分钟阅读", post.ReadingTime)

	info, err := os.Stat(filepath.Join(dir, "bare.md"))
	require.NoError(t, err)
	assert.Equal(t, info.ModTime().Format("2006-01-02"), post.Date)
}

func TestGetBySlugNotFound(t *testing.T) {
	repo := NewRepository(t.TempDir())
	for _, slug := range []string{"missing", "", ".", "..", "../etc/passwd", ".hidden", `a\b`} {
		_, err := repo.GetBySlug(slug)
		assert.ErrorIs(t, err, ErrNotFound, "slug %q", slug)
	}
}

func TestGetBySlugParseError(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "broken", "---\ntitle: [unclosed\n---\nbody\n")
	writePost(t, dir, "bad-date", "---\ntitle: Bad\ndate: someday\n---\nbody\n")

	repo := NewRepository(dir)
	for _, slug := range []string{"broken", "bad-date"} {
		_, err := repo.GetBySlug(slug)
		var pe *ParseError
		require.True(t, errors.As(err, &pe), "slug %s: got %v", slug, err)
		assert.Equal(t, slug, pe.Slug)
	}
}

func TestListSlugs(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "b", "b")
	writePost(t, dir, "a", "a")
	writeFile(t, filepath.Join(dir, "notes.txt"), "skip")
	writeFile(t, filepath.Join(dir, ".draft.md"), "skip")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.md"), 0o755))

	slugs, err := NewRepository(dir).ListSlugs()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, slugs)
}

func TestMissingDirectoryHasNoPosts(t *testing.T) {
	repo := NewRepository(filepath.Join(t.TempDir(), "nope"))

	slugs, err := repo.ListSlugs()
	require.NoError(t, err)
	assert.NotNil(t, slugs)
	assert.Empty(t, slugs)

	posts, err := repo.ListAll()
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)

	tags, err := repo.ListTags()
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func newSampleRepo(t *testing.T) *Repository {
	t.Helper()
	dir := t.TempDir()
	writePost(t, dir, "hello", "---\ntitle: Hello World\ndate: \"2024-03-01\"\nexcerpt: Greetings\ntags: [Go, web]\n---\nFirst body.\n")
	writePost(t, dir, "second", "---\ntitle: Second\ndate: \"2024-02-01\"\ntags: [go]\n---\nMentions gophers.\n")
	writePost(t, dir, "same-day-b", "---\ntitle: B\ndate: \"2024-01-01\"\ntags: [misc]\n---\nb\n")
	writePost(t, dir, "same-day-a", "---\ntitle: A\ndate: \"2024-01-01\"\n---\na\n")
	return NewRepository(dir)
}

func TestListAllOrder(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "new", "---\ndate: \"2024-03-01\"\n---\n")
	writePost(t, dir, "old", "---\ndate: \"2023-01-01\"\n---\n")
	writePost(t, dir, "tie-b", "---\ndate: \"2024-02-01\"\n---\n")
	writePost(t, dir, "tie-a", "---\ndate: \"2024-02-01T00:00:00Z\"\n---\n")

	posts, err := NewRepository(dir).ListAll()
	require.NoError(t, err)
	var slugs []string
	for _, p := range posts {
		slugs = append(slugs, p.Slug)
	}
	assert.Equal(t, []string{"new", "tie-a", "tie-b", "old"}, slugs)
}

func TestSortPostsUndatedLast(t *testing.T) {
	posts := []Post{{Slug: "z"}, {Slug: "dated", Date: "2024-01-01"}, {Slug: "a"}}
	for i := range posts {
		posts[i].Published, _ = frontmatter.ParseDate(posts[i].Date)
	}
	SortPosts(posts)
	assert.Equal(t, "dated", posts[0].Slug)
	assert.Equal(t, "a", posts[1].Slug)
	assert.Equal(t, "z", posts[2].Slug)
}

func TestListAllSkipsInvalidPosts(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "good", "---\ntitle: Good\n---\nbody\n")
	writePost(t, dir, "broken", "---\ntitle: [unclosed\n---\nbody\n")

	posts, err := NewRepository(dir).ListAll()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "good", posts[0].Slug)

	_, err = NewRepository(dir, WithStrict(true)).ListAll()
	var pe *ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestListByTag(t *testing.T) {
	repo := newSampleRepo(t)

	for _, tag := range []string{"go", "GO", "Go"} {
		posts, err := repo.ListByTag(tag)
		require.NoError(t, err)
		require.Len(t, posts, 2, "tag %q", tag)
		assert.Equal(t, "hello", posts[0].Slug)
		assert.Equal(t, "second", posts[1].Slug)
	}

	posts, err := repo.ListByTag("nothing")
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestListTags(t *testing.T) {
	tags, err := newSampleRepo(t).ListTags()
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "misc", "web"}, tags)
}

func TestTagCounts(t *testing.T) {
	counts, err := newSampleRepo(t).TagCounts()
	require.NoError(t, err)
	assert.Equal(t, []TagCount{
		{Name: "Go", Count: 2},
		{Name: "misc", Count: 1},
		{Name: "web", Count: 1},
	}, counts)
}

func TestSearch(t *testing.T) {
	repo := newSampleRepo(t)

	for _, q := range []string{"hello", "HELLO", "  Hello "} {
		posts, err := repo.Search(q)
		require.NoError(t, err)
		require.Len(t, posts, 1, "query %q", q)
		assert.Equal(t, "hello", posts[0].Slug)
	}

	posts, err := repo.Search("gophers")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "second", posts[0].Slug)

	posts, err = repo.Search("MISC")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "same-day-b", posts[0].Slug)

	posts, err = repo.Search("   ")
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}
