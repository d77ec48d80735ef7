package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/ezc/pkg/core"
	"github.com/spf13/cobra"
)

const watchDebounce = 100 * time.Millisecond

// unitWatcher reports changes to a fixed set of unit files. Editors often
// replace a file instead of writing it, so the parent directories are
// watched and events are filtered by path.
type unitWatcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	logger  *slog.Logger
}

func newUnitWatcher(paths []string, logger *slog.Logger) (*unitWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &unitWatcher{watcher: watcher, files: make(map[string]bool), logger: logger}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = watcher.Close()
			return nil, err
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return w, nil
}

// Run calls onChange after a watched file is written or created, waiting
// for events to settle first. It returns when ctx is done.
func (w *unitWatcher) Run(ctx context.Context, onChange func(path string)) error {
	defer func() { _ = w.watcher.Close() }()

	var (
		debounce <-chan time.Time
		pending  string
	)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.files[abs] {
				continue
			}
			pending = event.Name
			debounce = time.After(watchDebounce)

		case <-debounce:
			debounce = nil
			w.logger.Debug("unit changed", slog.String("file", pending))
			onChange(pending)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", slog.Any("error", err))
		}
	}
}

func runCheckWatch(cmd *cobra.Command, paths []string, opts *CheckOptions) error {
	cc := NewCommandContext(cmd)
	threshold, ok := core.ParseSeverity(opts.Severity)
	if !ok {
		return fmt.Errorf("unknown severity %q (want error, warning or info)", opts.Severity)
	}
	ctx := cmd.Context()

	w, err := newUnitWatcher(paths, cc.Logger)
	if err != nil {
		return err
	}

	recheck := func() {
		if err := checkOnce(ctx, cc, paths, threshold, opts); err != nil && !errors.Is(err, ErrCheckFailed) {
			cc.Renderer.Error(err.Error())
		}
	}
	recheck()
	cc.Renderer.Muted("Watching for changes (Ctrl+C to stop)")

	return w.Run(ctx, func(path string) {
		cc.Renderer.Muted(fmt.Sprintf("%s changed", path))
		recheck()
	})
}
