package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RecordAndRecent(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	id, err := s.Record(ctx, Run{
		File:     "build.anvil",
		OK:       false,
		Message:  "2:3: invalid value type in 'tools' map",
		Duration: 150 * time.Microsecond,
	})
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if id == "" {
		t.Fatal("Record() returned empty id")
	}

	if _, err := s.Record(ctx, Run{File: "build.anvil", OK: true}); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	runs, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(Recent()) = %d, want 2", len(runs))
	}

	var failed *Run
	for i := range runs {
		if !runs[i].OK {
			failed = &runs[i]
		}
	}
	if failed == nil {
		t.Fatal("missing failed run")
	}
	if failed.ID != id {
		t.Errorf("failed run id = %q, want %q", failed.ID, id)
	}
	if failed.Message != "2:3: invalid value type in 'tools' map" {
		t.Errorf("message = %q, want the recorded diagnostic", failed.Message)
	}
	if failed.Duration != 150*time.Microsecond {
		t.Errorf("duration = %v, want 150µs", failed.Duration)
	}
}

func TestStore_Record_EmptyFile(t *testing.T) {
	s := openStore(t)
	if _, err := s.Record(context.Background(), Run{}); err == nil {
		t.Fatal("Record() with empty file succeeded, want error")
	}
}

func TestStore_Prune(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	old := Run{File: "old.anvil", OK: true, StartedAt: time.Now().Add(-48 * time.Hour)}
	if _, err := s.Record(ctx, old); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if _, err := s.Record(ctx, Run{File: "new.anvil", OK: true}); err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	deleted, err := s.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Prune() deleted %d runs, want 1", deleted)
	}

	runs, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() failed: %v", err)
	}
	if len(runs) != 1 || runs[0].File != "new.anvil" {
		t.Errorf("Recent() = %v, want only new.anvil", runs)
	}
}
