package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/cubefall/internal/engine"
	"github.com/vovakirdan/cubefall/internal/replay"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleReplay(score int, created time.Time) replay.Replay {
	return replay.Replay{
		Seed:  42,
		Rows:  20,
		Cols:  7,
		Depth: 7,
		Rules: engine.DefaultRules(),
		Commands: []engine.Command{
			engine.StartCmd(),
			engine.MoveCmd(-1, 0, 1),
			engine.RotateCmd(engine.AxisY, -90),
			engine.TickCmd(),
			engine.HardDropCmd(),
		},
		Score:     score,
		Level:     2,
		Lines:     6,
		Pieces:    14,
		Reason:    replay.ReasonGameOver,
		Duration:  75 * time.Second,
		CreatedAt: created,
	}
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Parent directories are created too
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	id, err := store.SaveReplay(sampleReplay(100, time.Now()))
	if err != nil {
		t.Fatalf("SaveReplay() failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	r, err := store.Replay(id)
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	if r.Score != 100 {
		t.Errorf("Expected score 100 after reopen, got %d", r.Score)
	}
}

func TestSaveAndLoadReplay(t *testing.T) {
	store := openTestStore(t)
	created := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	in := sampleReplay(1400, created)

	id, err := store.SaveReplay(in)
	if err != nil {
		t.Fatalf("SaveReplay() failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("Expected positive ID, got %d", id)
	}

	out, err := store.Replay(id)
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}

	if out.ID != id {
		t.Errorf("ID = %d, expected %d", out.ID, id)
	}
	if out.Seed != in.Seed || out.Rows != in.Rows || out.Cols != in.Cols || out.Depth != in.Depth {
		t.Errorf("seed/dims = %d %dx%dx%d, expected %d %dx%dx%d",
			out.Seed, out.Rows, out.Cols, out.Depth, in.Seed, in.Rows, in.Cols, in.Depth)
	}
	if !reflect.DeepEqual(out.Rules, in.Rules) {
		t.Errorf("Rules = %+v, expected %+v", out.Rules, in.Rules)
	}
	if !reflect.DeepEqual(out.Commands, in.Commands) {
		t.Errorf("Commands = %+v, expected %+v", out.Commands, in.Commands)
	}
	if out.Catalog != nil {
		t.Errorf("Catalog = %+v, expected nil for the standard pieces", out.Catalog)
	}
	if out.Score != in.Score || out.Level != in.Level || out.Lines != in.Lines || out.Pieces != in.Pieces {
		t.Errorf("outcome = %d/%d/%d/%d, expected %d/%d/%d/%d",
			out.Score, out.Level, out.Lines, out.Pieces, in.Score, in.Level, in.Lines, in.Pieces)
	}
	if out.Reason != in.Reason {
		t.Errorf("Reason = %q, expected %q", out.Reason, in.Reason)
	}
	if out.Duration != in.Duration {
		t.Errorf("Duration = %v, expected %v", out.Duration, in.Duration)
	}
	if !created.Equal(out.CreatedAt) {
		t.Errorf("created_at = %v, expected %v", out.CreatedAt, created)
	}
}

func TestSaveAndLoadCatalog(t *testing.T) {
	store := openTestStore(t)
	o, _ := engine.ArchetypeNamed("O")
	l, _ := engine.ArchetypeNamed("L")
	in := sampleReplay(10, time.Now())
	in.Catalog = []engine.Archetype{l, o}

	id, err := store.SaveReplay(in)
	if err != nil {
		t.Fatalf("SaveReplay() failed: %v", err)
	}
	out, err := store.Replay(id)
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}

	if !reflect.DeepEqual(out.Catalog, in.Catalog) {
		t.Errorf("Catalog = %+v, expected %+v", out.Catalog, in.Catalog)
	}

	if err := store.DeleteReplay(id); err != nil {
		t.Fatalf("DeleteReplay() failed: %v", err)
	}
	var n int
	if err := store.db.QueryRow("SELECT COUNT(*) FROM replay_shapes").Scan(&n); err != nil {
		t.Fatalf("count shapes: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected shapes to be deleted with the replay, %d left", n)
	}
}

func TestReplayNotFound(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.Replay(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Replay(999) error = %v, expected ErrNotFound", err)
	}
}

func TestRecentReplaysNewestFirst(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	// Saved out of order; a high score must not move an old replay up
	for _, r := range []replay.Replay{
		sampleReplay(50000, base),
		sampleReplay(400, base.Add(2*time.Hour)),
		sampleReplay(1000, base.Add(time.Hour)),
	} {
		if _, err := store.SaveReplay(r); err != nil {
			t.Fatalf("SaveReplay() failed: %v", err)
		}
	}

	list, err := store.RecentReplays(10)
	if err != nil {
		t.Fatalf("RecentReplays() failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("Expected 3 replays, got %d", len(list))
	}

	for i, expected := range []int{400, 1000, 50000} {
		if list[i].Score != expected {
			t.Errorf("list[%d].Score = %d, expected %d", i, list[i].Score, expected)
		}
	}
	if list[0].Commands != 5 {
		t.Errorf("Expected 5 commands, got %d", list[0].Commands)
	}
	if list[0].Duration != 75*time.Second {
		t.Errorf("Expected duration 75s, got %v", list[0].Duration)
	}

	limited, err := store.RecentReplays(2)
	if err != nil {
		t.Fatalf("RecentReplays(2) failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Expected 2 replays with limit, got %d", len(limited))
	}
}

func TestRecentReplaysEmpty(t *testing.T) {
	store := openTestStore(t)

	list, err := store.RecentReplays(0)
	if err != nil {
		t.Fatalf("RecentReplays() failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("Expected no replays, got %d", len(list))
	}
}

func TestDeleteReplay(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveReplay(sampleReplay(10, time.Now()))
	if err != nil {
		t.Fatalf("SaveReplay() failed: %v", err)
	}
	if err := store.DeleteReplay(id); err != nil {
		t.Fatalf("DeleteReplay() failed: %v", err)
	}

	if _, err := store.Replay(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Replay() after delete error = %v, expected ErrNotFound", err)
	}
	if err := store.DeleteReplay(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteReplay() error = %v, expected ErrNotFound", err)
	}

	var n int
	if err := store.db.QueryRow("SELECT COUNT(*) FROM replay_commands").Scan(&n); err != nil {
		t.Fatalf("count commands: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected commands to be deleted with the replay, %d left", n)
	}
}

func TestSavedReplayVerifies(t *testing.T) {
	store := openTestStore(t)

	opts := engine.DefaultOptions()
	opts.Seed = 9
	g, err := engine.New(opts)
	if err != nil {
		t.Fatalf("engine.New() failed: %v", err)
	}
	rec := replay.NewRecorder(opts)

	apply := func(cmd engine.Command) {
		rec.Record(cmd, g.Apply(cmd))
	}
	apply(engine.StartCmd())
	for i := 0; i < 200 && g.Phase() == engine.PhasePlaying; i++ {
		apply(engine.MoveCmd(i%3-1, 0, 0))
		apply(engine.HardDropCmd())
	}

	r, ok := rec.Finish(g.Snapshot(), replay.ReasonGameOver)
	if !ok {
		t.Fatal("Finish() reported no recording")
	}

	id, err := store.SaveReplay(r)
	if err != nil {
		t.Fatalf("SaveReplay() failed: %v", err)
	}
	loaded, err := store.Replay(id)
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}

	if _, err := replay.Verify(loaded); err != nil {
		t.Errorf("loaded replay does not verify: %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("UserHomeDir() failed: %v", err)
	}

	got, err := ExpandHome("~/.cubefall/replays.db")
	if err != nil {
		t.Fatalf("ExpandHome() failed: %v", err)
	}
	if expected := filepath.Join(home, ".cubefall/replays.db"); got != expected {
		t.Errorf("ExpandHome() = %q, expected %q", got, expected)
	}

	got, err = ExpandHome("/tmp/x.db")
	if err != nil {
		t.Fatalf("ExpandHome() failed: %v", err)
	}
	if got != "/tmp/x.db" {
		t.Errorf("ExpandHome() = %q, expected unchanged path", got)
	}
}
