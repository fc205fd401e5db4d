// Package watch reruns generation when annotated sources or manifests change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pablor21/consty/config"
	"github.com/pablor21/consty/logger"
)

// DefaultDebounce is used when the config leaves debounce_ms at zero.
const DefaultDebounce = 500 * time.Millisecond

// RunFunc regenerates; errors are logged and the watcher keeps going.
type RunFunc func(ctx context.Context) error

// Watcher watches a directory tree and calls a RunFunc once per burst of changes.
type Watcher struct {
	fs       *fsnotify.Watcher
	root     string
	debounce time.Duration
	ignore   []string
	skip     []string
	exts     []string
	log      logger.Logger
	run      RunFunc
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// WithSkipFiles ignores changes to files with these base names, such as
// the generated output.
func WithSkipFiles(names ...string) Option {
	return func(w *Watcher) {
		w.skip = append(w.skip, names...)
	}
}

// New watches root and the config's additional paths. Directories are
// registered before New returns.
func New(root string, cfg *config.WatcherConfig, run RunFunc, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		fs:       fw,
		root:     root,
		debounce: DefaultDebounce,
		exts:     []string{".go", ".yml", ".yaml", ".json"},
		log:      logger.NewDefaultLogger(),
		run:      run,
	}
	if cfg != nil {
		if cfg.DebounceMs > 0 {
			w.debounce = time.Duration(cfg.DebounceMs) * time.Millisecond
		}
		w.ignore = cfg.IgnorePatterns
	}
	for _, opt := range opts {
		opt(w)
	}

	paths := []string{root}
	if cfg != nil {
		for _, p := range cfg.AdditionalPaths {
			if !filepath.IsAbs(p) {
				p = filepath.Join(root, p)
			}
			paths = append(paths, p)
		}
	}
	for _, p := range paths {
		if err := w.addTree(p); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// addTree registers dir and every directory below it that is not ignored.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.ignored(path) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		w.log.Debug("watching", "dir", path)
		return nil
	})
}

// ignored reports whether any path element matches an ignore pattern.
func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = path
	}
	for _, pattern := range w.ignore {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		for seg := range strings.SplitSeq(filepath.ToSlash(rel), "/") {
			if ok, _ := filepath.Match(pattern, seg); ok {
				return true
			}
		}
	}
	return false
}

// relevant reports whether an event should trigger a run.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(ev.Name)
	if slices.Contains(w.skip, base) || strings.HasPrefix(base, ".") || w.ignored(ev.Name) {
		return false
	}
	return slices.Contains(w.exts, strings.ToLower(filepath.Ext(base)))
}

// Run blocks until ctx is cancelled, calling the RunFunc after every
// quiet period of the debounce interval that followed a change.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !w.ignored(ev.Name) {
					if err := w.addTree(ev.Name); err != nil {
						w.log.Warn(err.Error())
					}
					continue
				}
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug("change", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.log.Info("regenerating")
			if err := w.run(ctx); err != nil {
				w.log.Error(err.Error())
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}
