// Package watch reports debounced changes to markdown documents and
// descriptor files.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Options configures a Watcher.
type Options struct {
	// Root is watched recursively for .md files.
	Root string
	// Files are single files watched in addition to Root, such as the
	// descriptor.
	Files []string
	// Debounce is the quiet period after the last event before changes are
	// reported.
	Debounce time.Duration
	// Ignore holds patterns, relative to Root, that never trigger a report.
	// A pattern matches the relative path, its base name or a directory
	// prefix of it.
	Ignore []string
	Logger *slog.Logger
}

// Watcher watches a docs tree and a set of files.
type Watcher struct {
	opts  Options
	fsw   *fsnotify.Watcher
	files map[string]bool
	// dirs holds the registered directories under Root. A renamed or
	// removed directory no longer exists on disk, so events on it are
	// matched against this set.
	dirs map[string]bool
}

// New creates a watcher and registers every directory up front, so that
// changes made after New returns are observed.
func New(opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		return nil, fmt.Errorf("debounce must be positive, got %s", opts.Debounce)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	w := &Watcher{opts: opts, fsw: fsw, files: make(map[string]bool), dirs: make(map[string]bool)}

	if opts.Root != "" {
		if err := w.addTree(opts.Root); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", opts.Root, err)
		}
	}

	// Editors often replace files instead of writing them, so single files
	// are watched through their directory.
	for _, f := range opts.Files {
		abs := filepath.Clean(f)
		w.files[abs] = true
		if err := fsw.Add(filepath.Dir(abs)); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", f, err)
		}
	}
	return w, nil
}

// addTree recursively adds a directory to the watcher.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		// Skip node_modules and hidden directories
		if p != dir && (d.Name() == "node_modules" || strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		if w.ignored(p) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			return err
		}
		w.dirs[filepath.Clean(p)] = true
		return nil
	})
}

// forgetTree drops dir and every registered directory below it. A moved
// directory keeps its watch, so the watch is removed explicitly.
func (w *Watcher) forgetTree(dir string) {
	for d := range w.dirs {
		if d == dir || strings.HasPrefix(d, dir+string(filepath.Separator)) {
			_ = w.fsw.Remove(d)
			delete(w.dirs, d)
		}
	}
}

// ignored reports whether p, an absolute or Root-relative path, matches an
// ignore pattern.
func (w *Watcher) ignored(p string) bool {
	if w.opts.Root == "" {
		return false
	}
	rel, err := filepath.Rel(w.opts.Root, p)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)
	base := path.Base(rel)
	for _, pattern := range w.opts.Ignore {
		pattern = strings.TrimSuffix(filepath.ToSlash(pattern), "/")
		if rel == pattern || strings.HasPrefix(rel, pattern+"/") {
			return true
		}
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := path.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// inTree reports whether p lies below Root outside ignored, hidden and
// node_modules paths.
func (w *Watcher) inTree(p string) bool {
	if w.opts.Root == "" || w.ignored(p) {
		return false
	}
	rel, err := filepath.Rel(w.opts.Root, p)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	for _, seg := range strings.Split(filepath.ToSlash(rel), "/") {
		if seg == "node_modules" || strings.HasPrefix(seg, ".") {
			return false
		}
	}
	return true
}

// relevant reports whether an event on name should be reported.
func (w *Watcher) relevant(name string) bool {
	clean := filepath.Clean(name)
	if w.files[clean] {
		return true
	}
	return w.inTree(clean) && strings.EqualFold(filepath.Ext(clean), ".md")
}

// Run delivers batches of changed paths to onChange until ctx is done.
// Paths in a batch are sorted and unique. Run closes the watcher.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	defer func() { _ = w.fsw.Close() }()

	log := w.opts.Logger
	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			name := filepath.Clean(event.Name)
			switch {
			case event.Op&fsnotify.Create != 0 && w.inTree(name) && isDir(name):
				// New directories inside the tree are watched as they
				// appear; documents moved in with them count as changes.
				if err := w.addTree(name); err != nil {
					log.Warn("failed to watch new directory", "path", name, "error", err)
				}
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && w.dirs[name]:
				w.forgetTree(name)
			case !w.relevant(name):
				continue
			}
			log.Debug("change detected", "path", name, "op", event.Op.String())
			pending[name] = struct{}{}

			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Reset(w.opts.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)
			onChange(paths)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "error", err)
		}
	}
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
