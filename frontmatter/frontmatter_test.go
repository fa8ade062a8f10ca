package frontmatter

import (
	"strings"
	"testing"
)

func TestParseYAML(t *testing.T) {
	src := "---\ntitle: \"Hello\"\ndate: \"2024-01-01\"\nexcerpt: first post\ntags: [\"go\", \"web\"]\nauthor: Ann\ncoverImage: /images/hello.jpg\n---\n# Body\n\nText.\n"
	meta, body, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if meta.Title != "Hello" {
		t.Errorf("Title = %q, want %q", meta.Title, "Hello")
	}
	if meta.Date != "2024-01-01" {
		t.Errorf("Date = %q, want %q", meta.Date, "2024-01-01")
	}
	if meta.Excerpt != "first post" {
		t.Errorf("Excerpt = %q", meta.Excerpt)
	}
	if len(meta.Tags) != 2 || meta.Tags[0] != "go" || meta.Tags[1] != "web" {
		t.Errorf("Tags = %v, want [go web]", meta.Tags)
	}
	if meta.Author != "Ann" {
		t.Errorf("Author = %q", meta.Author)
	}
	if meta.CoverImage != "/images/hello.jpg" {
		t.Errorf("CoverImage = %q", meta.CoverImage)
	}
	if !strings.HasPrefix(string(body), "# Body") {
		t.Errorf("body = %q, want it to start with the heading", body)
	}
}

func TestParseUnquotedDate(t *testing.T) {
	meta, _, err := Parse([]byte("---\ndate: 2024-03-05\n---\nbody\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if meta.Date != "2024-03-05" {
		t.Errorf("Date = %q, want %q", meta.Date, "2024-03-05")
	}
}

func TestParseWithoutHeader(t *testing.T) {
	src := "just markdown\n"
	meta, body, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if meta.Title != "" || len(meta.Tags) != 0 {
		t.Errorf("expected zero Meta, got %+v", meta)
	}
	if string(body) != src {
		t.Errorf("body = %q, want %q", body, src)
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []string{
		"---\ntitle: [unclosed\n---\nbody\n",
		"---\ntags: go\n---\nbody\n",
	}
	for _, src := range tests {
		if _, _, err := Parse([]byte(src)); err == nil {
			t.Errorf("Parse(%q) expected error", src)
		}
	}
}

func TestNormalize(t *testing.T) {
	m := Meta{
		Title: "  Hello  ",
		Tags:  []string{" go ", "", "Go", "web", "  "},
	}.Normalize()
	if m.Title != "Hello" {
		t.Errorf("Title = %q", m.Title)
	}
	if len(m.Tags) != 2 || m.Tags[0] != "go" || m.Tags[1] != "web" {
		t.Errorf("Tags = %v, want [go web]", m.Tags)
	}
	if m.Tags == nil {
		t.Error("Tags should never be nil after Normalize")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		meta    Meta
		wantErr bool
	}{
		{"empty", Meta{}, false},
		{"date only", Meta{Date: "2024-01-01"}, false},
		{"rfc3339", Meta{Date: "2024-01-01T10:00:00Z"}, false},
		{"bad date", Meta{Date: "yesterday"}, true},
		{"site path cover", Meta{CoverImage: "/img/a.png"}, false},
		{"relative cover", Meta{CoverImage: "img/a.png"}, false},
		{"https cover", Meta{CoverImage: "https://example.com/a.png"}, false},
		{"javascript cover", Meta{CoverImage: "javascript:alert(1)"}, true},
		{"protocol relative cover", Meta{CoverImage: "//evil.example/a.png"}, true},
		{"long tag", Meta{Tags: []string{strings.Repeat("x", 65)}}, true},
	}
	for _, tt := range tests {
		err := tt.meta.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		want string
	}{
		{"2024-01-01", true, "2024-01-01"},
		{"2024/02/03", true, "2024-02-03"},
		{"2024-01-01 12:30", true, "2024-01-01"},
		{"2024-01-01T08:00:00+08:00", true, "2024-01-01"},
		{"", false, ""},
		{"01-01-2024", false, ""},
	}
	for _, tt := range tests {
		got, ok := ParseDate(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && got.Format("2006-01-02") != tt.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.in, got.Format("2006-01-02"), tt.want)
		}
	}
}
