package pubstatic

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

const jpegQuality = 85

// processCovers downscales local cover images wider than CoverMaxWidth. The
// resized copy replaces the one copied from the static directory, so the
// source file is never touched. Failures are logged and leave the copy as is.
func (a *App) processCovers(posts []Post) {
	done := make(map[string]bool)
	for _, p := range posts {
		rel, ok := localCover(p.CoverImage)
		if !ok || done[rel] {
			continue
		}
		done[rel] = true
		src := filepath.Join(a.Config.StaticDir, filepath.FromSlash(rel))
		dst := filepath.Join(a.Config.OutputDir, filepath.FromSlash(rel))
		resized, err := resizeCover(src, dst, a.Config.CoverMaxWidth)
		if err != nil {
			a.logger.Warn("Cover image left unchanged", "slug", p.Slug, "cover", p.CoverImage, "error", err)
			continue
		}
		if resized {
			a.logger.Debug("Resized cover image", "cover", p.CoverImage, "width", a.Config.CoverMaxWidth)
		}
	}
}

// localCover returns the static-relative path of a site-local cover image.
func localCover(cover string) (string, bool) {
	if !strings.HasPrefix(cover, "/") || strings.HasPrefix(cover, "//") {
		return "", false
	}
	if i := strings.IndexAny(cover, "?#"); i >= 0 {
		cover = cover[:i]
	}
	rel := strings.TrimPrefix(path.Clean(cover), "/")
	if rel == "" || rel == "." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	switch strings.ToLower(path.Ext(rel)) {
	case ".jpg", ".jpeg", ".png":
		return rel, true
	}
	return "", false
}

// resizeCover decodes src and, when it is wider than maxWidth, writes a
// scaled copy to dst keeping the aspect ratio and the file format.
func resizeCover(src, dst string, maxWidth int) (bool, error) {
	f, err := os.Open(src)
	if err != nil {
		return false, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return false, fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxWidth <= 0 || w <= maxWidth {
		return false, nil
	}

	newH := h * maxWidth / w
	if newH < 1 {
		newH = 1
	}
	scaled := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch strings.ToLower(filepath.Ext(dst)) {
	case ".png":
		err = png.Encode(&buf, scaled)
	default:
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return false, fmt.Errorf("encode image: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(dst, buf.Bytes(), 0o644); err != nil {
		return false, fmt.Errorf("write image: %w", err)
	}
	return true, nil
}
