package pubstatic

import "time"

// Post is a blog post parsed from a markdown source file.
type Post struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Excerpt     string   `json:"excerpt"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	ReadingTime string   `json:"readingTime"`
	Author      string   `json:"author,omitempty"`
	CoverImage  string   `json:"coverImage,omitempty"`

	Published time.Time `json:"-"` // parsed Date; zero when unparseable
	Link      string    `json:"-"` // site-relative URL, "/posts/<slug>/"
}

// PostPreview is a Post without its body, used for listings and the search index.
type PostPreview struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Excerpt     string   `json:"excerpt"`
	Tags        []string `json:"tags"`
	ReadingTime string   `json:"readingTime"`
	Author      string   `json:"author,omitempty"`
	CoverImage  string   `json:"coverImage,omitempty"`
}

// Preview projects p to a PostPreview.
func (p Post) Preview() PostPreview {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostPreview{
		Slug:        p.Slug,
		Title:       p.Title,
		Date:        p.Date,
		Excerpt:     p.Excerpt,
		Tags:        tags,
		ReadingTime: p.ReadingTime,
		Author:      p.Author,
		CoverImage:  p.CoverImage,
	}
}

// TagCount is a tag and the number of posts carrying it.
type TagCount struct {
	Name  string
	Count int
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}
