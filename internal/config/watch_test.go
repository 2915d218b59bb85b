package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := writeFile(t, t.TempDir(), FileName, "grid:\n  rows: 20\n")

	w, err := Watch(path, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("grid:\n  rows: 16\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-w.Changes:
		if cfg.Grid.Rows != 16 {
			t.Errorf("reloaded Rows = %d, expected 16", cfg.Grid.Rows)
		}
	case err := <-w.Errors:
		t.Fatalf("unexpected watcher error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after write")
	}
}

func TestWatcherReportsInvalidConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), FileName, "grid:\n  rows: 20\n")

	w, err := Watch(path, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("grid:\n  rows: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Errors:
	case cfg := <-w.Changes:
		t.Fatalf("invalid config should not be delivered: %+v", cfg.Grid)
	case <-time.After(3 * time.Second):
		t.Fatal("no error after invalid write")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, FileName, "grid:\n  rows: 20\n")

	w, err := Watch(path, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}
	defer w.Close()

	writeFile(t, dir, "other.yaml", "grid:\n  rows: 9\n")

	select {
	case cfg := <-w.Changes:
		t.Fatalf("unrelated file triggered a reload: %+v", cfg.Grid)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherCloseClosesChannels(t *testing.T) {
	path := writeFile(t, t.TempDir(), FileName, "")

	w, err := Watch(path, 0)
	if err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}
	if w.Path() != filepath.Clean(path) {
		t.Errorf("Path() = %q, expected %q", w.Path(), path)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if _, ok := <-w.Changes; ok {
		t.Error("Changes should be closed")
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}
