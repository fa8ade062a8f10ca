package pubstatic

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ExportPreviews returns the previews of every post, newest first.
func ExportPreviews(repo *Repository) ([]PostPreview, error) {
	posts, err := repo.ListAll()
	if err != nil {
		return nil, err
	}
	return previews(posts), nil
}

func previews(posts []Post) []PostPreview {
	out := make([]PostPreview, len(posts))
	for i, p := range posts {
		out[i] = p.Preview()
	}
	return out
}

// TagPathsFile is written next to the search index. It maps every tag
// spelling in the index to the site-relative URL of the tag's page.
const TagPathsFile = "tags.json"

// TagPaths maps each tag spelling used by previews to its tag page URL.
func TagPaths(previews []PostPreview) map[string]string {
	paths := make(map[string]string)
	for _, p := range previews {
		for _, t := range p.Tags {
			paths[t] = TagPath(t)
		}
	}
	return paths
}

// WritePreviews writes previews to path as an indented JSON array, creating
// parent directories as needed. A nil slice is written as []. The tag URL
// map is written beside it as TagPathsFile.
func WritePreviews(path string, previews []PostPreview) error {
	if previews == nil {
		previews = []PostPreview{}
	}
	if err := writeJSON(path, previews); err != nil {
		return fmt.Errorf("write previews: %w", err)
	}
	tagsPath := filepath.Join(filepath.Dir(path), TagPathsFile)
	if err := writeJSON(tagsPath, TagPaths(previews)); err != nil {
		return fmt.Errorf("write tag paths: %w", err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}
