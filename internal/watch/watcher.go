package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/a11yscan/internal/discovery"
)

// DefaultDebounce is how long the watcher waits for more changes before triggering a pass.
const DefaultDebounce = 300 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	Dirs       []string            // directories watched recursively; pruned directories are skipped
	Extensions map[string]struct{} // only changes to files with these extensions trigger a pass
	Ignore     []string            // files whose changes never trigger a pass, such as the report itself
	Debounce   time.Duration
	Logger     hclog.Logger
}

// Watcher triggers a callback after a burst of relevant file changes settles.
type Watcher struct {
	config  Config
	watcher *fsnotify.Watcher
	ignore  map[string]bool
	logger  hclog.Logger
}

// New creates a Watcher and registers watches on every configured directory tree.
func New(cfg Config) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		config:  cfg,
		watcher: fsw,
		ignore:  make(map[string]bool, len(cfg.Ignore)),
		logger:  logger,
	}
	for _, path := range cfg.Ignore {
		if abs, err := filepath.Abs(path); err == nil {
			w.ignore[abs] = true
		}
	}

	for _, dir := range cfg.Dirs {
		if err := w.addRecursive(dir); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Run blocks until ctx is cancelled, calling onChange once per settled burst of relevant changes.
// Calls never overlap. An error from onChange is logged and watching continues.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	defer w.watcher.Close()

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(event) {
				settle = time.After(w.config.Debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case <-settle:
			settle = nil
			w.logger.Debug("changes settled, running a new pass")
			if err := onChange(ctx); err != nil {
				w.logger.Error("pass after file change failed", "error", err)
			}
		}
	}
}

// handleEvent registers new directories and reports whether the event should trigger a pass.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	path := event.Name
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if discovery.IsExcludedDir(info.Name()) {
				return false
			}
			if err := w.addRecursive(path); err != nil {
				w.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
			return true
		}
	}

	if !w.Relevant(path) {
		return false
	}
	w.logger.Debug("file change detected", "path", path, "op", event.Op.String())
	return true
}

// Relevant reports whether a change of the file at path should trigger a pass.
func (w *Watcher) Relevant(path string) bool {
	if abs, err := filepath.Abs(path); err == nil && w.ignore[abs] {
		return false
	}
	return discovery.IsCandidate(filepath.Base(path), w.config.Extensions)
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("failed to watch %q: %w", root, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && discovery.IsExcludedDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
			return nil
		}
		w.logger.Trace("watching directory", "path", path)
		return nil
	})
}
