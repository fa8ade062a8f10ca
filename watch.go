package pubstatic

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const rebuildDelay = 200 * time.Millisecond

// sourceWatch tracks the watched source roots. Roots that do not exist yet are
// watched through their nearest existing parent until they are created.
type sourceWatch struct {
	w      *fsnotify.Watcher
	roots  []string
	output string
}

// watchSources rebuilds the site after changes below the content and static
// directories. Bursts of events within rebuildDelay trigger one rebuild.
// Changes inside the output directory are ignored.
func (a *App) watchSources(ctx context.Context) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	sw, err := newSourceWatch(w, a.Config.OutputDir, a.Config.ContentDir, a.Config.StaticDir)
	if err != nil {
		w.Close()
		return nil, err
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(rebuildDelay, func() {
			if ctx.Err() != nil {
				return
			}
			a.logger.Info("Rebuilding site")
			if _, err := a.Build(ctx); err != nil {
				a.logger.Error("Rebuild failed", "error", err)
			}
		})
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				a.handleFileEvent(sw, ev, trigger)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				a.logger.Warn("Watcher error", "error", err)
			}
		}
	}()
	a.logger.Info("Watching sources", "content", a.Config.ContentDir, "static", a.Config.StaticDir)
	return w, nil
}

func newSourceWatch(w *fsnotify.Watcher, output string, roots ...string) (*sourceWatch, error) {
	out, err := filepath.Abs(output)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", output, err)
	}
	sw := &sourceWatch{w: w, output: out}
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", root, err)
		}
		sw.roots = append(sw.roots, abs)
		if _, err := sw.watchRoot(abs); err != nil {
			return nil, err
		}
	}
	return sw, nil
}

// watchRoot watches root recursively and reports true, or watches the nearest
// existing parent when root is missing.
func (sw *sourceWatch) watchRoot(root string) (bool, error) {
	if _, err := os.Stat(root); err == nil {
		return true, addDirsRecursive(sw.w, root, sw.output)
	}
	for dir := filepath.Dir(root); ; dir = filepath.Dir(dir) {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			if err := sw.w.Add(dir); err != nil {
				return false, fmt.Errorf("watch %s: %w", dir, err)
			}
			return false, nil
		}
		if dir == filepath.Dir(dir) {
			return false, nil
		}
	}
}

func (a *App) handleFileEvent(sw *sourceWatch, ev fsnotify.Event, trigger func()) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}
	if strings.HasPrefix(filepath.Base(ev.Name), ".") {
		return
	}
	name, err := filepath.Abs(ev.Name)
	if err != nil || within(name, sw.output) {
		return
	}

	inRoot := false
	for _, root := range sw.roots {
		switch {
		case within(name, root):
			inRoot = true
		case ev.Has(fsnotify.Create) && within(root, name):
			// A missing root or one of its parents appeared.
			created, err := sw.watchRoot(root)
			if err != nil {
				a.logger.Warn("Watching new directory failed", "path", root, "error", err)
			}
			if created {
				a.logger.Debug("Source directory created", "path", root)
				trigger()
			}
		}
	}
	if !inRoot {
		return
	}

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(name); err == nil && info.IsDir() {
			if err := addDirsRecursive(sw.w, name, sw.output); err != nil {
				a.logger.Warn("Watching new directory failed", "path", name, "error", err)
			}
		}
	}
	if a.cache != nil && filepath.Ext(name) == postExt {
		a.cache.Invalidate(strings.TrimSuffix(filepath.Base(name), postExt))
	}
	a.logger.Debug("Source changed", "path", ev.Name, "op", ev.Op.String())
	trigger()
}

// addDirsRecursive watches root and every directory below it, except skip
// and hidden directories.
func addDirsRecursive(w *fsnotify.Watcher, root, skip string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (path == skip || strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
