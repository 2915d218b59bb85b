package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/cubefall/internal/bot"
	"github.com/vovakirdan/cubefall/internal/engine"
	"github.com/vovakirdan/cubefall/internal/loop"
	"github.com/vovakirdan/cubefall/internal/replay"
	"github.com/vovakirdan/cubefall/internal/storage"
)

var (
	flagGames  int
	flagSpeed  float64
	flagReport time.Duration
)

var autoplayCmd = &cobra.Command{
	Use:   "autoplay",
	Short: "Let the bot play",
	Long: `Runs the built-in bot against a live game. Gravity keeps ticking while
the bot plans, so at high speeds it will make mistakes. Progress is logged
to stderr and every finished game is saved as a replay.

Examples:
  cubefall autoplay
  cubefall autoplay --games 5 --speed 20
  cubefall autoplay --seed 42 --db ./bot.db`,
	Args: cobra.NoArgs,
	Run:  runAutoplay,
}

func init() {
	autoplayCmd.Flags().IntVar(&flagGames, "games", 1, "Number of games to play")
	autoplayCmd.Flags().Float64Var(&flagSpeed, "speed", 10, "Gravity speed-up factor")
	autoplayCmd.Flags().DurationVar(&flagReport, "report", 2*time.Second, "Progress report interval")
}

func runAutoplay(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fail("%v", err)
	}
	if flagGames < 1 {
		fail("--games must be at least 1")
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "cubefall-bot",
	})

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts := cfg.Options(seed)
	rec := replay.NewRecorder(opts)

	l, err := loop.New(opts, loop.WithRecorder(rec), loop.WithSpeed(flagSpeed))
	if err != nil {
		fail("%v", err)
	}

	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := make(chan error, 1)
	go func() { runErr <- l.Run(ctx) }()
	go observe(ctx, l, logger, flagReport)

	a := autoplayer{loop: l, rec: rec, store: store, logger: logger}
	for i := 0; i < flagGames; i++ {
		if err := a.play(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, loop.ErrStopped) {
				break
			}
			stop()
			fail("%v", err)
		}
	}

	stop()
	<-runErr
	// An interrupted game is saved with the state the loop stopped in, so
	// its commands and outcome agree.
	if final, ok := l.Final(); ok && rec.Active() {
		a.save(final, replay.ReasonQuit)
	}
	logger.Info("done", "games", a.games, "best", a.best)
}

// autoplayer drives a loop with the bot from one goroutine.
type autoplayer struct {
	loop   *loop.Loop
	rec    *replay.Recorder
	store  *storage.Store
	logger *log.Logger

	games int
	best  int
}

// play runs one game to game over. An interrupted game is left recording
// for the caller to save once the loop has stopped.
func (a *autoplayer) play(ctx context.Context) error {
	if _, err := a.loop.Do(ctx, engine.StartCmd()); err != nil {
		return err
	}

	s, err := a.loop.Snapshot(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("game started", "seed", s.Seed)

	for s.Phase == engine.PhasePlaying {
		if s.Active != nil {
			for _, cmd := range bot.Plan(s) {
				res, doErr := a.loop.Do(ctx, cmd)
				if doErr != nil {
					return doErr
				}
				if res.Locked || res.GameOver {
					break
				}
			}
		}

		next, snapErr := a.loop.Snapshot(ctx)
		if snapErr != nil {
			return snapErr
		}
		s = next
	}

	a.games++
	a.best = max(a.best, s.Score)
	a.logger.Info("game over", "score", s.Score, "level", s.Level, "lines", s.Lines, "pieces", s.Pieces)
	a.save(s, replay.ReasonGameOver)
	return nil
}

// save finishes the recording and stores it.
func (a *autoplayer) save(s engine.Snapshot, reason string) {
	r, ok := a.rec.Finish(s, reason)
	if !ok || a.store == nil {
		return
	}
	id, err := a.store.SaveReplay(r)
	if err != nil {
		a.logger.Error("save replay", "err", err)
		return
	}
	a.logger.Info("replay saved", "id", id, "commands", len(r.Commands))
}

// observe logs a progress line every interval until the loop stops.
func observe(ctx context.Context, l *loop.Loop, logger *log.Logger, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.Done():
			return
		case <-t.C:
			s, err := l.Snapshot(ctx)
			if err != nil {
				return
			}
			if s.Phase != engine.PhasePlaying {
				continue
			}
			logger.Info("progress",
				"score", s.Score,
				"level", s.Level,
				"lines", s.Lines,
				"pieces", s.Pieces,
				"interval", s.Interval,
			)
		}
	}
}
