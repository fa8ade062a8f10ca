// Package frontmatter splits a post source file into its typed metadata header
// and markdown body.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/text/cases"
)

// DateLayouts are the accepted formats for the date field, tried in order.
var DateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
}

// Meta is the metadata header of a post.
type Meta struct {
	Title      string   `yaml:"title" toml:"title" json:"title"`
	Date       string   `yaml:"date" toml:"date" json:"date"`
	Excerpt    string   `yaml:"excerpt" toml:"excerpt" json:"excerpt"`
	Tags       []string `yaml:"tags" toml:"tags" json:"tags"`
	Author     string   `yaml:"author" toml:"author" json:"author"`
	CoverImage string   `yaml:"coverImage" toml:"coverImage" json:"coverImage"`
}

// Parse extracts the metadata header and markdown body from source.
// A source without a header returns a zero Meta and the whole source as body.
func Parse(source []byte) (Meta, []byte, error) {
	var meta Meta
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return Meta{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return meta, body, nil
}

// Normalize trims every field and drops empty or repeated tags. Repeats are
// detected case-insensitively and the first spelling is kept.
func (m Meta) Normalize() Meta {
	m.Title = strings.TrimSpace(m.Title)
	m.Date = strings.TrimSpace(m.Date)
	m.Excerpt = strings.TrimSpace(m.Excerpt)
	m.Author = strings.TrimSpace(m.Author)
	m.CoverImage = strings.TrimSpace(m.CoverImage)

	tags := make([]string, 0, len(m.Tags))
	seen := make(map[string]struct{}, len(m.Tags))
	fold := cases.Fold()
	for _, t := range m.Tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := fold.String(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, t)
	}
	m.Tags = tags
	return m
}

// Validate checks field formats. Call it after Normalize.
func (m Meta) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Title, validation.RuneLength(0, 300)),
		validation.Field(&m.Date, validation.By(validDate)),
		validation.Field(&m.Tags, validation.Each(validation.RuneLength(1, 64))),
		validation.Field(&m.CoverImage, validation.By(validCoverImage)),
	)
}

// ParseDate parses s with the first matching layout in DateLayouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func validDate(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, ok := ParseDate(s); !ok {
		return errors.New("must be a date such as 2006-01-02 or an RFC3339 timestamp")
	}
	return nil
}

func validCoverImage(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "//") {
		return errors.New("must not be protocol-relative")
	}
	u, err := url.Parse(s)
	if err != nil {
		return errors.New("must be a valid URL or path")
	}
	switch strings.ToLower(u.Scheme) {
	case "":
		return nil
	case "http", "https":
		if u.Host == "" {
			return errors.New("must include a host")
		}
		return nil
	default:
		return fmt.Errorf("scheme %q is not allowed", u.Scheme)
	}
}
