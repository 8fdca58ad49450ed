package watch

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
)

// LintFunc parses one build file, returning nil on success or the
// first diagnostic as an error.
type LintFunc func(path string) error

// Config contains configuration for the watch daemon.
type Config struct {
	// Path is the build file or directory to watch.
	Path string

	// Extensions is the list of file extensions to lint.
	Extensions []string

	// DebounceInterval is the quiet period after a file event before
	// a sweep runs (default: 100ms).
	DebounceInterval time.Duration

	// SweepSchedule is an optional cron expression for periodic full
	// sweeps independent of file events (e.g. "0 * * * *").
	SweepSchedule string

	// MetricsAddr is an optional listen address for the Prometheus
	// /metrics endpoint.
	MetricsAddr string

	// SkipHidden controls whether hidden files are ignored.
	SkipHidden bool
}

// DefaultConfig returns the default watch configuration for a path.
func DefaultConfig(path string) *Config {
	return &Config{
		Path:             path,
		Extensions:       []string{".anvil", ".yaml", ".yml"},
		DebounceInterval: 100 * time.Millisecond,
		SkipHidden:       true,
	}
}

// Watcher re-lints build files whenever they change and, optionally,
// on a cron schedule. It debounces file events to prevent lint
// storms during editor save bursts.
type Watcher struct {
	config   *Config
	lint     LintFunc
	metrics  *Metrics
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
	debounce *Debouncer
	cron     *cron.Cron

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a watch daemon. The metrics may be nil, in which case
// no metrics are recorded or served.
func New(config *Config, lint LintFunc, metrics *Metrics) (*Watcher, error) {
	if config == nil || config.Path == "" {
		return nil, fmt.Errorf("watch path cannot be empty")
	}
	if lint == nil {
		return nil, fmt.Errorf("lint function cannot be nil")
	}
	if config.DebounceInterval == 0 {
		config.DebounceInterval = 100 * time.Millisecond
	}
	if len(config.Extensions) == 0 {
		config.Extensions = []string{".anvil", ".yaml", ".yml"}
	}

	if config.SweepSchedule != "" {
		if _, err := cron.ParseStandard(config.SweepSchedule); err != nil {
			return nil, fmt.Errorf("invalid sweep schedule %q: %w", config.SweepSchedule, err)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		config:   config,
		lint:     lint,
		metrics:  metrics,
		logger:   slog.Default().With("component", "watch"),
		watcher:  fsw,
		debounce: NewDebouncer(config.DebounceInterval),
		cron:     cron.New(),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Run performs an initial sweep and then blocks, re-linting on file
// changes and on the sweep schedule, until the context is cancelled
// or Stop is called.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.doneCh)
	}()

	if err := w.addPath(w.config.Path); err != nil {
		return fmt.Errorf("failed to watch path: %w", err)
	}

	if w.config.SweepSchedule != "" {
		if _, err := w.cron.AddFunc(w.config.SweepSchedule, func() {
			w.logger.Info("scheduled sweep triggered", "schedule", w.config.SweepSchedule)
			w.Sweep()
		}); err != nil {
			return fmt.Errorf("failed to schedule sweeps: %w", err)
		}
		w.cron.Start()
		defer w.cron.Stop()
	}

	var metricsSrv *http.Server
	if w.config.MetricsAddr != "" && w.metrics != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", w.metrics.Handler())
		metricsSrv = &http.Server{Addr: w.config.MetricsAddr, Handler: mux}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				w.logger.Error("metrics server failed", "error", err)
			}
		}()
		defer metricsSrv.Close()
	}

	w.logger.Info("watch daemon started",
		"path", w.config.Path,
		"debounce_ms", w.config.DebounceInterval.Milliseconds(),
		"schedule", w.config.SweepSchedule,
	)

	w.Sweep()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch daemon stopped (context cancelled)")
			return nil

		case <-w.stopCh:
			w.logger.Info("watch daemon stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.shouldProcessEvent(event) {
				continue
			}

			w.logger.Debug("file event detected", "path", event.Name, "op", event.Op.String())

			w.debounce.Trigger(func() {
				w.logger.Info("re-linting after change", "path", event.Name)
				w.Sweep()
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			// Keep watching despite individual errors.
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

// Stop stops the daemon and releases the underlying watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	w.debounce.Stop()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// Sweep lints every matching file under the configured path once.
func (w *Watcher) Sweep() {
	files, err := w.collectFiles()
	if err != nil {
		w.logger.Error("sweep failed", "error", err)
		return
	}

	passed, failed := 0, 0
	for _, file := range files {
		start := time.Now()
		err := w.lint(file)
		elapsed := time.Since(start)

		if w.metrics != nil {
			w.metrics.ObserveParse(err == nil, elapsed)
		}

		if err != nil {
			failed++
			w.logger.Warn("lint failed", "path", file, "error", err)
		} else {
			passed++
			w.logger.Debug("lint passed", "path", file, "duration", elapsed)
		}
	}

	if w.metrics != nil {
		w.metrics.ObserveSweep()
	}

	w.logger.Info("sweep complete", "files", len(files), "passed", passed, "failed", failed)
}

// collectFiles returns the matching files under the configured path
// in stable order.
func (w *Watcher) collectFiles() ([]string, error) {
	info, err := os.Stat(w.config.Path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{w.config.Path}, nil
	}

	var files []string
	err = filepath.Walk(w.config.Path, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		base := filepath.Base(path)
		if w.config.SkipHidden && strings.HasPrefix(base, ".") && path != w.config.Path {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.IsDir() && w.hasValidExtension(strings.ToLower(filepath.Ext(path))) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// addPath adds a file or directory (recursively) to the watcher.
func (w *Watcher) addPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.watcher.Add(path)
	}

	return filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if w.config.SkipHidden && strings.HasPrefix(filepath.Base(p), ".") && p != path {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			if err := w.watcher.Add(p); err != nil {
				return fmt.Errorf("failed to watch directory %q: %w", p, err)
			}
			w.logger.Debug("watching directory", "path", p)
		}
		return nil
	})
}

// shouldProcessEvent filters file events down to lintable changes.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	if w.config.SkipHidden && strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return w.hasValidExtension(strings.ToLower(filepath.Ext(event.Name)))
}

func (w *Watcher) hasValidExtension(ext string) bool {
	for _, validExt := range w.config.Extensions {
		if ext == strings.ToLower(validExt) {
			return true
		}
	}
	return false
}
