package pubstatic

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// SiteConfig holds all configuration for a pubstatic site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Blog")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS and meta tags
	Author      string `yaml:"author"`      // Author name for JSON-LD
	Language    string `yaml:"language"`    // <html lang> (default "zh-CN")
	BasePath    string `yaml:"base_path"`   // Path prefix when hosted below the domain root, e.g. "/blog"

	ContentDir string `yaml:"content_dir"` // Markdown sources (default "posts")
	OutputDir  string `yaml:"output_dir"`  // Build output (default "out")
	StaticDir  string `yaml:"static_dir"`  // Copied verbatim into the output (default "public")
	DataPath   string `yaml:"data_path"`   // Search index path inside the output (default "data/posts.json")
	KeepOutput bool   `yaml:"keep_output"` // Skip cleaning the output directory before a build

	WordsPerMinute    int    `yaml:"words_per_minute"`    // default 200
	ReadingTimeSuffix string `yaml:"reading_time_suffix"` // default "分钟阅读"
	HomePostLimit     int    `yaml:"home_post_limit"`     // default 6
	HomeTagLimit      int    `yaml:"home_tag_limit"`      // default 10
	CoverMaxWidth     int    `yaml:"cover_max_width"`     // default 1200
	Strict            bool   `yaml:"strict"`              // Fail listings on the first invalid post instead of skipping it

	MarkdownHardWraps bool `yaml:"markdown_hard_wraps"` // Render single newlines as <br>
	MarkdownSafe      bool `yaml:"markdown_safe"`       // Omit raw HTML embedded in posts

	Addr string `yaml:"addr"` // Preview server listen address (default ":3000")
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Language == "" {
		c.Language = "zh-CN"
	}
	if c.ContentDir == "" {
		c.ContentDir = "posts"
	}
	if c.OutputDir == "" {
		c.OutputDir = "out"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.DataPath == "" {
		c.DataPath = "data/posts.json"
	}
	if c.WordsPerMinute <= 0 {
		c.WordsPerMinute = 200
	}
	if c.ReadingTimeSuffix == "" {
		c.ReadingTimeSuffix = "分钟阅读"
	}
	if c.HomePostLimit <= 0 {
		c.HomePostLimit = 6
	}
	if c.HomeTagLimit <= 0 {
		c.HomeTagLimit = 10
	}
	if c.CoverMaxWidth <= 0 {
		c.CoverMaxWidth = 1200
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	c.BasePath = normalizeBasePath(c.BasePath)
	c.URL = strings.TrimRight(c.URL, "/")
}

// Validate reports configuration values that would produce a broken site.
func (c SiteConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.URL, validation.Required, validation.By(absoluteHTTPURL)),
		validation.Field(&c.ContentDir, validation.Required),
		validation.Field(&c.OutputDir, validation.Required, validation.By(notRoot)),
		validation.Field(&c.DataPath, validation.Required, validation.By(relativePath)),
		validation.Field(&c.WordsPerMinute, validation.Min(1)),
	)
}

// LoadConfig reads a YAML site config, applies a .env file next to it when
// present, then environment overrides and defaults. A missing config file
// yields the defaults.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig

	envFile := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load %s: %w", envFile, err)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("Config file not found, using defaults", "path", path)
	default:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *SiteConfig) applyEnv() {
	c.Name = EnvOr("SITE_NAME", c.Name)
	c.URL = EnvOr("SITE_URL", c.URL)
	c.Description = EnvOr("SITE_DESCRIPTION", c.Description)
	c.Author = EnvOr("SITE_AUTHOR", c.Author)
	c.BasePath = EnvOr("SITE_BASE_PATH", c.BasePath)
	c.ContentDir = EnvOr("CONTENT_DIR", c.ContentDir)
	c.OutputDir = EnvOr("OUTPUT_DIR", c.OutputDir)
}

func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

func absoluteHTTPURL(value any) error {
	s, _ := value.(string)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return errors.New("must start with http:// or https://")
	}
	return nil
}

func notRoot(value any) error {
	s, _ := value.(string)
	switch filepath.Clean(s) {
	case ".", "/":
		return errors.New("must not be the working directory or filesystem root")
	}
	return nil
}

func relativePath(value any) error {
	s, _ := value.(string)
	if filepath.IsAbs(s) || strings.HasPrefix(filepath.Clean(s), "..") {
		return errors.New("must be a path inside the output directory")
	}
	return nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithLogger sets the structured logger used for build output.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithWatch makes Serve rebuild the site when sources change.
func WithWatch(watch bool) Option {
	return func(a *App) {
		a.watch = watch
	}
}

// WithoutCache disables the in-memory post cache so every read hits the disk.
func WithoutCache() Option {
	return func(a *App) {
		a.cache = nil
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
