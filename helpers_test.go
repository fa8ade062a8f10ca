package pubstatic

import "testing"

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://example.com", nil, "https://example.com"},
		{"https://example.com", []string{"posts", "hello"}, "https://example.com/posts/hello/"},
		{"https://example.com/blog", []string{"tags"}, "https://example.com/blog/tags/"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segs...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segs, got, tt.want)
		}
	}
}

func TestTagSegment(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Go", "go"},
		{"go", "go"},
		{"GO", "go"},
		{"Straße", "strasse"},
		{"web dev", "web dev"},
		{"编程", "编程"},
		{"CI/CD", "ci~2fcd"},
		{"ci-cd", "ci-cd"},
		{`a\b`, "a~5cb"},
		{"~2f", "~7e2f"},
		{".", "~2e"},
		{"..", "~2e~2e"},
		{"/", "~2f"},
		{"", "~"},
	}
	for _, tt := range tests {
		if got := TagSegment(tt.in); got != tt.want {
			t.Errorf("TagSegment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTagSegmentDistinct(t *testing.T) {
	tags := []string{"CI/CD", "ci-cd", "ci~2fcd", "ci_cd", ".", "~2e", "/", "~2f", "a\\b", "a/b"}
	seen := make(map[string]string)
	for _, tag := range tags {
		seg := TagSegment(tag)
		if other, ok := seen[seg]; ok {
			t.Errorf("tags %q and %q share segment %q", other, tag, seg)
		}
		seen[seg] = tag
	}
}

func TestPaths(t *testing.T) {
	if got := PostPath("hello world"); got != "/posts/hello%20world/" {
		t.Errorf("PostPath = %q", got)
	}
	if got := TagPath("CI/CD"); got != "/tags/ci~2fcd/" {
		t.Errorf("TagPath = %q", got)
	}
	if got := TagPath("Go"); got != TagPath("go") {
		t.Errorf("TagPath(Go) = %q, TagPath(go) = %q", TagPath("Go"), TagPath("go"))
	}
	if got := TagPath("编程"); got != "/tags/%E7%BC%96%E7%A8%8B/" {
		t.Errorf("TagPath = %q", got)
	}
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		words, wpm int
		want       string
	}{
		{0, 200, "1 分钟阅读"},
		{1, 200, "1 分钟阅读"},
		{200, 200, "1 分钟阅读"},
		{201, 200, "2 分钟阅读"},
		{400, 200, "2 分钟阅读"},
		{300, 100, "3 分钟阅读"},
		{300, 0, "2 分钟阅读"},
	}
	for _, tt := range tests {
		if got := ReadingTime(words(tt.words), tt.wpm, "分钟阅读"); got != tt.want {
			t.Errorf("ReadingTime(%d words, %d wpm) = %q, want %q", tt.words, tt.wpm, got, tt.want)
		}
	}
}

func TestHasTag(t *testing.T) {
	tags := []string{"Go", "Web"}
	if !HasTag(tags, "go") || !HasTag(tags, "WEB") {
		t.Error("expected case-insensitive match")
	}
	if HasTag(tags, "rust") || HasTag(nil, "go") {
		t.Error("unexpected match")
	}
}

func TestFilterRelatedPosts(t *testing.T) {
	current := Post{Slug: "a", Tags: []string{"Go"}}
	posts := []Post{
		current,
		{Slug: "b", Tags: []string{"go"}},
		{Slug: "c", Tags: []string{"rust"}},
		{Slug: "d", Tags: []string{"GO", "web"}},
		{Slug: "e", Tags: []string{"go"}},
	}

	related := FilterRelatedPosts(current, posts, 2)
	if len(related) != 2 || related[0].Slug != "b" || related[1].Slug != "d" {
		t.Fatalf("related = %+v", related)
	}
	if all := FilterRelatedPosts(current, posts, 0); len(all) != 3 {
		t.Errorf("unlimited related = %d posts, want 3", len(all))
	}
	if none := FilterRelatedPosts(Post{Slug: "x"}, posts, 3); len(none) != 0 {
		t.Errorf("post without tags has %d related posts", len(none))
	}
}
