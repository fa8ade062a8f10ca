package views

import (
	"encoding/json"
	"strings"

	"github.com/eringen/pubstatic"
	"github.com/eringen/pubstatic/markdown"
)

// link prefixes a site-relative path with the configured base path.
func link(cfg pubstatic.SiteConfig, p string) string {
	return cfg.BasePath + p
}

// absURL is the canonical absolute URL for a site-relative path.
func absURL(cfg pubstatic.SiteConfig, p string) string {
	return cfg.URL + cfg.BasePath + p
}

// coverSrc resolves a cover image reference for an <img src>. Unsafe
// references resolve to "".
func coverSrc(cfg pubstatic.SiteConfig, cover string) string {
	if markdown.SafeURL(cover) == "" {
		return ""
	}
	if strings.HasPrefix(cover, "/") {
		return link(cfg, cover)
	}
	return cover
}

// displayDate formats a post date the way pages show it, falling back to the
// raw front-matter value when it could not be parsed.
func displayDate(p pubstatic.Post) string {
	if p.Published.IsZero() {
		return p.Date
	}
	return p.Published.Format("2006年01月02日")
}

// TagClass returns CSS classes for a tag in the tag cloud, sized by how many
// posts carry it.
func TagClass(count int) string {
	switch {
	case count >= 5:
		return "tag size-xl"
	case count >= 3:
		return "tag size-lg"
	default:
		return "tag"
	}
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg pubstatic.SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      absURL(cfg, "/"),
		"potentialAction": map[string]string{
			"@type":       "SearchAction",
			"target":      absURL(cfg, "/search/") + "?q={query}",
			"query-input": "required name=query",
		},
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for a post.
func BlogPostingJsonLD(cfg pubstatic.SiteConfig, post pubstatic.Post) string {
	postURL := absURL(cfg, post.Link)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Excerpt,
		"datePublished": post.Date,
		"url":           postURL,
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	author := post.Author
	if author == "" {
		author = cfg.Author
	}
	if author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  author,
		}
	}
	if post.CoverImage != "" {
		img := post.CoverImage
		if strings.HasPrefix(img, "/") {
			img = absURL(cfg, img)
		}
		data["image"] = img
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
