package pubstatic

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPostCacheGetPut(t *testing.T) {
	c := NewPostCache()
	mod := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, ok := c.Get("a", mod, 10); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Put(Post{Slug: "a", Title: "A"}, mod, 10)

	if p, ok := c.Get("a", mod, 10); !ok || p.Title != "A" {
		t.Fatalf("Get = %+v, %v; want cached post", p, ok)
	}
	if _, ok := c.Get("a", mod.Add(time.Second), 10); ok {
		t.Error("expected miss after modification time changed")
	}
	if _, ok := c.Get("a", mod, 11); ok {
		t.Error("expected miss after size changed")
	}
}

func TestPostCacheInvalidate(t *testing.T) {
	c := NewPostCache()
	mod := time.Now()
	c.Put(Post{Slug: "a"}, mod, 1)
	c.Put(Post{Slug: "b"}, mod, 1)

	c.Invalidate("a")
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
	if _, ok := c.Get("a", mod, 1); ok {
		t.Error("invalidated entry still served")
	}

	c.InvalidateAll()
	if c.Len() != 0 {
		t.Fatalf("Len = %d, want 0", c.Len())
	}
}

func TestRepositoryUsesCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "post.md")
	if err := os.WriteFile(path, []byte("---\ntitle: First\n---\nbody\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cache := NewPostCache()
	repo := NewRepository(dir, WithCache(cache))
	p, err := repo.GetBySlug("post")
	if err != nil {
		t.Fatal(err)
	}
	if p.Title != "First" || cache.Len() != 1 {
		t.Fatalf("title %q, cache len %d", p.Title, cache.Len())
	}

	// A different size invalidates the entry even within the same mtime tick.
	if err := os.WriteFile(path, []byte("---\ntitle: Second version\n---\nbody\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err = repo.GetBySlug("post")
	if err != nil {
		t.Fatal(err)
	}
	if p.Title != "Second version" {
		t.Errorf("title = %q, want re-parsed post", p.Title)
	}
}
