package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/eringen/pubstatic/scaffold"
)

// scaffoldData holds the template variables passed to every scaffold template.
type scaffoldData struct {
	ProjectName string
	SiteName    string
	Today       string
}

func runNew(dir string, out io.Writer) error {
	dir = filepath.Clean(dir)
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("directory %q already exists", dir)
	}

	name := filepath.Base(dir)
	data := scaffoldData{
		ProjectName: name,
		SiteName:    toTitle(name),
		Today:       time.Now().Format("2006-01-02"),
	}

	fmt.Fprintf(out, "Creating new site: %s\n\n", dir)

	root := "templates"
	err := fs.WalkDir(scaffold.Templates, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(root, filepath.FromSlash(path))
		if err != nil {
			return err
		}

		outPath := strings.TrimSuffix(filepath.Join(dir, relPath), ".tmpl")
		switch filepath.Base(outPath) {
		case "dotenv":
			outPath = filepath.Join(filepath.Dir(outPath), ".env.example")
		case "gitkeep":
			outPath = filepath.Join(filepath.Dir(outPath), ".gitkeep")
		}

		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}

		content, err := scaffold.Templates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		tmpl, err := template.New(filepath.Base(path)).Parse(string(content))
		if err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return err
		}
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		defer f.Close()

		if err := tmpl.Execute(f, data); err != nil {
			return fmt.Errorf("execute template %s: %w", path, err)
		}
		fmt.Fprintf(out, "  created %s\n", outPath)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Done! Next steps:")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  cd %s\n", dir)
	fmt.Fprintln(out, "  pubstatic serve --watch")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Write posts as markdown files in posts/ and run 'pubstatic build' to publish.")
	return nil
}

// toTitle converts a hyphenated or lowercase name to a title-case string.
// e.g. "my-blog" -> "My Blog", "myblog" -> "Myblog"
func toTitle(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
