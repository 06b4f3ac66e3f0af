// SPDX-License-Identifier: MPL-2.0

// Package watch rebuilds a game when its source files change.
//
// A Watcher registers every directory under the game root with fsnotify,
// keeps the events for files the source globs select, and calls OnChange
// once per burst of edits after a quiet period.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/questkit/questc/pkg/unit"
)

// DefaultDebounce is the quiet period used when Config.Debounce is unset.
const DefaultDebounce = 300 * time.Millisecond

var (
	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("watch: Run called more than once")

	// alwaysIgnored are editor and VCS paths that never hold sources.
	alwaysIgnored = []string{
		".git/**",
		"**/.git/**",
		"**/*.swp",
		"**/*.swx",
		"**/*~",
		"**/.#*",
		"**/.DS_Store",
	}
)

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Root is the game directory; "" is the working directory.
		Root string
		// Include and Exclude select source files the way unit.Discover
		// does. Empty Include means unit.DefaultInclude.
		Include []string
		Exclude []string
		// Debounce is the quiet period after the last event.
		Debounce time.Duration
		// ClearScreen writes an ANSI clear sequence to Out before each
		// rebuild.
		ClearScreen bool
		Out         io.Writer
		// OnChange receives the changed source paths, relative to Root and
		// slash-separated, in lexical order. Its error is logged.
		OnChange func(ctx context.Context, changed []string) error
		Logger   *log.Logger
	}

	// Watcher monitors a game directory. Run may be called once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		root     string
		debounce time.Duration
		logger   *log.Logger
		out      io.Writer
		started  atomic.Bool
	}
)

// New validates cfg and registers Root and its subdirectories.
func New(cfg Config) (*Watcher, error) {
	for _, pat := range slices.Concat(cfg.Include, cfg.Exclude) {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("watch: invalid pattern %q: %w", pat, doublestar.ErrBadPattern)
		}
	}

	root := cfg.Root
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", root, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		root:     abs,
		debounce: cfg.Debounce,
		logger:   cfg.Logger,
		out:      cfg.Out,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = log.New(io.Discard)
	}
	if w.out == nil {
		w.out = os.Stdout
	}

	if err := w.addTree(abs); err != nil {
		fsw.Close() //nolint:errcheck // already failing
		return nil, err
	}
	return w, nil
}

// Run dispatches debounced rebuilds until ctx is done. It returns nil on
// cancellation and an error when the underlying watcher breaks. A rebuild
// still running when the next burst settles is not overlapped; the burst is
// retried after another quiet period.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		busy    atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !busy.CompareAndSwap(false, true) {
			w.logger.Warn("rebuild still running; postponing")
			mu.Lock()
			timer.Reset(w.debounce)
			mu.Unlock()
			return
		}
		defer busy.Store(false)

		mu.Lock()
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()
		if len(changed) == 0 {
			return
		}

		if w.cfg.ClearScreen {
			fmt.Fprint(w.out, "\033[2J\033[H")
		}
		w.logger.Info("sources changed", "files", len(changed))
		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error("rebuild failed", "err", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close watcher", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			if evt.Has(fsnotify.Create) {
				w.addNewDir(evt.Name)
			}
			rel, selected := w.selected(evt.Name)
			if !selected {
				continue
			}
			w.logger.Debug("source event", "file", rel, "op", evt.Op.String())

			mu.Lock()
			pending[rel] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: %w", err)
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}

// selected maps an event path to its root-relative form and reports
// whether it is a source file.
func (w *Watcher) selected(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if ignored(rel) {
		return rel, false
	}
	return rel, unit.Matches(rel, w.cfg.Include, w.cfg.Exclude)
}

func (w *Watcher) addTree(root string) error {
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			w.logger.Warn("skipping unreadable path", "path", path, "err", walkErr)
			return nil //nolint:nilerr // keep watching the rest of the tree
		}
		if !d.IsDir() {
			return nil
		}
		if rel, err := filepath.Rel(w.root, path); err == nil && rel != "." && ignored(filepath.ToSlash(rel)+"/") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: walk %s: %w", root, err)
	}
	return nil
}

// addNewDir extends the watch to a directory created after startup.
func (w *Watcher) addNewDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addTree(path); err != nil {
		w.logger.Warn("watch new directory", "path", path, "err", err)
	}
}

func ignored(rel string) bool {
	for _, pat := range alwaysIgnored {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}
