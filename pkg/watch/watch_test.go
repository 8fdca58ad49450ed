package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CollapsesBursts(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	defer d.Stop()

	var calls int32
	for i := 0; i < 5; i++ {
		d.Trigger(func() { atomic.AddInt32(&calls, 1) })
	}

	time.Sleep(200 * time.Millisecond)

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("callback ran %d times, want 1", got)
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var calls int32
	d.Trigger(func() { atomic.AddInt32(&calls, 1) })
	d.Stop()

	time.Sleep(150 * time.Millisecond)

	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("callback ran %d times after Stop, want 0", got)
	}
}

func TestNew_Validation(t *testing.T) {
	lint := func(path string) error { return nil }

	if _, err := New(&Config{}, lint, nil); err == nil {
		t.Error("New() with empty path succeeded, want error")
	}
	if _, err := New(DefaultConfig(t.TempDir()), nil, nil); err == nil {
		t.Error("New() with nil lint func succeeded, want error")
	}

	cfg := DefaultConfig(t.TempDir())
	cfg.SweepSchedule = "not a cron expression"
	if _, err := New(cfg, lint, nil); err == nil {
		t.Error("New() with invalid schedule succeeded, want error")
	}
}

func TestWatcher_Sweep(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("good.anvil", "client: {name: c}\n")
	write("bad.anvil", "tools: {}\n")
	write("ignored.txt", "not a build file\n")
	write(".hidden.anvil", "client: {name: c}\n")

	var mu sync.Mutex
	linted := make(map[string]error)
	lint := func(path string) error {
		var err error
		if filepath.Base(path) == "bad.anvil" {
			err = fmt.Errorf("expected initial mapping key 'client'")
		}
		mu.Lock()
		linted[filepath.Base(path)] = err
		mu.Unlock()
		return err
	}

	metrics := NewMetrics()
	w, err := New(DefaultConfig(dir), lint, metrics)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.watcher.Close()

	w.Sweep()

	mu.Lock()
	defer mu.Unlock()
	if len(linted) != 2 {
		t.Fatalf("linted %d files (%v), want 2", len(linted), linted)
	}
	if _, ok := linted["good.anvil"]; !ok {
		t.Error("good.anvil was not linted")
	}
	if linted["bad.anvil"] == nil {
		t.Error("bad.anvil should have failed")
	}

	families, err := metrics.registry.Gather()
	if err != nil {
		t.Fatalf("Gather() failed: %v", err)
	}
	found := make(map[string]bool)
	for _, f := range families {
		found[f.GetName()] = true
	}
	for _, name := range []string{"anvil_watch_parses_total", "anvil_watch_sweeps_total"} {
		if !found[name] {
			t.Errorf("metric %q not collected", name)
		}
	}
}

func TestWatcher_RunStopsOnContextCancel(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "good.anvil"), []byte("client: {name: c}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(DefaultConfig(dir), func(path string) error { return nil }, nil)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after context cancellation")
	}

	if err := w.watcher.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
}
