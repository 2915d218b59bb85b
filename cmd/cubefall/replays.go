package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/cubefall/internal/platform/tui"
	"github.com/vovakirdan/cubefall/internal/replay"
	"github.com/vovakirdan/cubefall/internal/storage"
)

var replaysCmd = &cobra.Command{
	Use:   "replays",
	Short: "Browse recorded replays",
	Long: `Opens a list of recorded games, newest first.

Keys:
  Up/Down   - Select
  Enter     - Re-simulate and verify the selected replay
  X         - Delete the selected replay
  Q/Esc     - Quit`,
	Args: cobra.NoArgs,
	Run:  runReplays,
}

var replayCmd = &cobra.Command{
	Use:   "replay <id>",
	Short: "Re-simulate a replay and verify its outcome",
	Long: `Replays the recorded commands of one game against a fresh engine and
checks that the score, level and line count match what was recorded.

Examples:
  cubefall replay 12`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func runReplays(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fail("%v", err)
	}

	store, err := storage.Open(dbPath(cfg))
	if err != nil {
		fail("opening replay database: %v", err)
	}
	defer store.Close()

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	if err := tui.RunReplayBrowser(store, width, height); err != nil {
		store.Close()
		fail("running browser: %v", err)
	}
}

func runReplay(_ *cobra.Command, args []string) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fail("invalid replay id %q", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		fail("%v", err)
	}

	store, err := storage.Open(dbPath(cfg))
	if err != nil {
		fail("opening replay database: %v", err)
	}
	defer store.Close()

	r, err := store.Replay(id)
	if errors.Is(err, storage.ErrNotFound) {
		store.Close()
		fail("no replay #%d", id)
	}
	if err != nil {
		store.Close()
		fail("%v", err)
	}

	fmt.Printf("Replay #%d\n", r.ID)
	fmt.Println()
	fmt.Printf("  Date       %s\n", r.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Printf("  Grid       %dx%dx%d\n", r.Rows, r.Cols, r.Depth)
	fmt.Printf("  Seed       %d\n", r.Seed)
	fmt.Printf("  Commands   %d (%d ticks)\n", len(r.Commands), r.Ticks())
	fmt.Printf("  Duration   %s\n", r.Duration.Round(time.Millisecond))
	fmt.Printf("  Ended by   %s\n", r.Reason)
	fmt.Printf("  Recorded   score %d, level %d, lines %d\n", r.Score, r.Level, r.Lines)

	s, err := replay.Verify(r)
	fmt.Printf("  Simulated  score %d, level %d, lines %d, %d pieces\n", s.Score, s.Level, s.Lines, s.Pieces)
	fmt.Println()

	if err != nil {
		store.Close()
		fail("%v", err)
	}
	fmt.Println("OK: the replay reproduces the recorded outcome.")
}
