package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/eringen/pubstatic"
	"github.com/eringen/pubstatic/search"
	"github.com/eringen/pubstatic/views"
)

// version is set at build time via ldflags.
var version = "dev"

// CLI is the command line of pubstatic.
type CLI struct {
	Config  string `short:"c" help:"Site configuration file path" default:"site.yaml" type:"path"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build   BuildCmd   `cmd:"" help:"Render the site into the output directory"`
	Serve   ServeCmd   `cmd:"" help:"Build the site and serve it locally"`
	Export  ExportCmd  `cmd:"" help:"Write the JSON search index"`
	Search  SearchCmd  `cmd:"" help:"Search posts from the command line"`
	New     NewCmd     `cmd:"" help:"Create a new site"`
	Version VersionCmd `cmd:"" help:"Print the pubstatic version"`
}

// AfterApply runs after flag parsing and sets up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Override the configured output directory"`
}

func (b *BuildCmd) Run(root *CLI) error {
	cfg, err := pubstatic.LoadConfig(root.Config)
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.OutputDir = b.Output
	}
	app := newApp(cfg)
	defer app.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	report, err := app.Build(ctx)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}
	if report.Failed > 0 {
		slog.Warn("Some posts could not be rendered", "failed", report.Failed)
	}
	return nil
}

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr  string `short:"a" help:"Listen address, overrides the configured addr"`
	Watch bool   `short:"w" help:"Rebuild when posts or static files change"`
}

func (s *ServeCmd) Run(root *CLI) error {
	cfg, err := pubstatic.LoadConfig(root.Config)
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Addr = s.Addr
	}
	app := newApp(cfg, pubstatic.WithWatch(s.Watch))
	defer app.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return app.Serve(ctx)
}

// ExportCmd implements the 'export' command.
type ExportCmd struct {
	Out string `short:"o" help:"Index file path (default: data_path inside the output directory)" type:"path"`
}

func (e *ExportCmd) Run(root *CLI) error {
	cfg, err := pubstatic.LoadConfig(root.Config)
	if err != nil {
		return err
	}
	app := newApp(cfg)
	defer app.Close()

	path := e.Out
	if path == "" {
		path = app.DataPath()
	}
	n, err := app.Export(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	slog.Info("Exported search index", "posts", n, "path", path)
	return nil
}

// SearchCmd implements the 'search' command.
type SearchCmd struct {
	Query string `arg:"" help:"Text to look for"`
	Index string `short:"i" help:"Search an exported JSON index instead of the post sources" type:"path"`
}

func (s *SearchCmd) Run(root *CLI) error {
	if s.Index != "" {
		entries, err := search.Load(s.Index)
		if err != nil {
			return err
		}
		for _, e := range search.Filter(entries, s.Query) {
			fmt.Printf("%s  %s  %s\n", e.Date, e.Title, pubstatic.PostPath(e.Slug))
		}
		return nil
	}

	cfg, err := pubstatic.LoadConfig(root.Config)
	if err != nil {
		return err
	}
	app := newApp(cfg)
	defer app.Close()

	posts, err := app.Repo.Search(s.Query)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	for _, p := range posts {
		fmt.Printf("%s  %s  %s\n", p.Date, p.Title, p.Link)
	}
	return nil
}

// NewCmd implements the 'new' command.
type NewCmd struct {
	Dir string `arg:"" help:"Directory of the new site"`
}

func (n *NewCmd) Run() error {
	return runNew(n.Dir, os.Stdout)
}

// VersionCmd implements the 'version' command.
type VersionCmd struct{}

func (VersionCmd) Run() error {
	fmt.Printf("pubstatic %s\n", version)
	return nil
}

func newApp(cfg pubstatic.SiteConfig, opts ...pubstatic.Option) *pubstatic.App {
	opts = append([]pubstatic.Option{pubstatic.WithLogger(slog.Default())}, opts...)
	return pubstatic.New(cfg, views.New(cfg), opts...)
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pubstatic"),
		kong.Description("A static markdown blog generator"),
		kong.UsageOnError(),
	)
	if err := ctx.Run(&cli); err != nil {
		slog.Error("Command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}
