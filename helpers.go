package pubstatic

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/eringen/pubstatic/search"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// TagSegment returns the path segment of a tag's page. Spellings that differ
// only in case share a segment. Slashes, backslashes and "~" are written as
// "~" followed by two hex digits, as are the names "." and "..", so distinct
// tags never share a page.
func TagSegment(tag string) string {
	folded := search.Fold(tag)
	switch folded {
	case "":
		return "~"
	case ".":
		return "~2e"
	case "..":
		return "~2e~2e"
	}
	var b strings.Builder
	for _, r := range folded {
		switch r {
		case '/', '\\', '~':
			fmt.Fprintf(&b, "~%02x", r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PostPath is the site-relative URL of a post.
func PostPath(slug string) string {
	return "/posts/" + url.PathEscape(slug) + "/"
}

// TagPath is the site-relative URL of a tag page.
func TagPath(tag string) string {
	return "/tags/" + url.PathEscape(TagSegment(tag)) + "/"
}

// ReadingTime estimates minutes to read body at wpm words per minute,
// rounded up and never below one minute.
func ReadingTime(body string, wpm int, suffix string) string {
	if wpm <= 0 {
		wpm = 200
	}
	words := len(strings.Fields(body))
	minutes := (words + wpm - 1) / wpm
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d %s", minutes, suffix)
}

// HasTag reports whether tags contains tag under case folding.
func HasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if search.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// FilterRelatedPosts finds posts that share at least one tag with current.
func FilterRelatedPosts(current Post, posts []Post, limit int) []Post {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		tag := search.Fold(strings.TrimSpace(t))
		if tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []Post
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			if _, ok := tagSet[search.Fold(strings.TrimSpace(t))]; ok {
				related = append(related, p)
				break
			}
		}
		if limit > 0 && len(related) == limit {
			break
		}
	}
	return related
}
