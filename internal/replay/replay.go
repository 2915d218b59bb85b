// Package replay records the commands of a game and re-simulates them.
// A replay is the game's seed, its dimensions and rules, and the ordered
// accepted commands from Start onwards, ticks included.
package replay

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vovakirdan/cubefall/internal/engine"
)

// End reasons.
const (
	ReasonGameOver = "game over"
	ReasonEnded    = "ended"
	ReasonQuit     = "quit"
)

var (
	// ErrEmpty is returned when a replay has no commands or does not open
	// with a start command.
	ErrEmpty = errors.New("replay: no recorded game")
	// ErrMismatch is returned by Verify when re-simulation disagrees with
	// the recorded outcome.
	ErrMismatch = errors.New("replay: outcome mismatch")
)

// Replay is one recorded game.
type Replay struct {
	ID int64 // assigned by storage

	Seed              int64
	Rows, Cols, Depth int
	Rules             engine.Rules
	Catalog           []engine.Archetype // nil means the standard seven
	Commands          []engine.Command

	Score  int
	Level  int
	Lines  int
	Pieces int
	Reason string

	Duration  time.Duration
	CreatedAt time.Time
}

// Options returns engine options that recreate the recorded game.
func (r Replay) Options() engine.Options {
	return engine.Options{
		Rows:    r.Rows,
		Cols:    r.Cols,
		Depth:   r.Depth,
		Rules:   r.Rules,
		Catalog: append([]engine.Archetype(nil), r.Catalog...),
		Seed:    r.Seed,
	}
}

// Ticks returns how many gravity ticks were recorded.
func (r Replay) Ticks() int {
	n := 0
	for _, c := range r.Commands {
		if c.Kind == engine.CmdTick {
			n++
		}
	}
	return n
}

// Recorder collects the accepted commands of the current game. It must see
// every command applied to a Game from its creation, so that it can follow
// the per-game seeds. Safe for concurrent use.
type Recorder struct {
	mu sync.Mutex

	opts    engine.Options
	games   int
	seed    int64
	active  bool
	started time.Time
	cmds    []engine.Command

	now func() time.Time
}

// NewRecorder creates a recorder for a game built from opts.
func NewRecorder(opts engine.Options) *Recorder {
	return &Recorder{opts: opts, now: time.Now}
}

// Record notes an applied command. Rejected commands are dropped since they
// did not change the game. An accepted start begins a new recording; end
// commands are not recorded because they discard the outcome.
func (r *Recorder) Record(cmd engine.Command, res engine.StepResult) {
	if !res.Accepted {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch cmd.Kind {
	case engine.CmdStart:
		r.seed = r.opts.Seed + int64(r.games)
		r.games++
		r.active = true
		r.started = r.now()
		r.cmds = r.cmds[:0]
	case engine.CmdEnd:
		r.active = false
		return
	}
	if r.active {
		r.cmds = append(r.cmds, cmd)
	}
}

// Active reports whether a game is being recorded.
func (r *Recorder) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Len returns the number of commands recorded for the current game.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cmds)
}

// Finish closes the current recording with the final state s. It returns
// false when no game is being recorded. Hosts call it on game over, and
// before applying End with the snapshot taken just before.
func (r *Recorder) Finish(s engine.Snapshot, reason string) (Replay, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active || len(r.cmds) == 0 {
		return Replay{}, false
	}
	r.active = false

	now := r.now()
	return Replay{
		Seed:      r.seed,
		Rows:      r.opts.Rows,
		Cols:      r.opts.Cols,
		Depth:     r.opts.Depth,
		Rules:     r.opts.Rules,
		Catalog:   append([]engine.Archetype(nil), r.opts.Catalog...),
		Commands:  append([]engine.Command(nil), r.cmds...),
		Score:     s.Score,
		Level:     s.Level,
		Lines:     s.Lines,
		Pieces:    s.Pieces,
		Reason:    reason,
		Duration:  now.Sub(r.started),
		CreatedAt: now,
	}, true
}

// Simulate replays r against a fresh game driven by a manual timer and
// returns the final state.
func Simulate(r Replay) (engine.Snapshot, error) {
	if len(r.Commands) == 0 || r.Commands[0].Kind != engine.CmdStart {
		return engine.Snapshot{}, ErrEmpty
	}

	opts := r.Options()
	opts.Timer = &engine.ManualTimer{}
	g, err := engine.New(opts)
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("replay: %w", err)
	}

	for _, cmd := range r.Commands {
		g.Apply(cmd)
	}
	return g.Snapshot(), nil
}

// Verify re-simulates r and checks the outcome against the recorded one.
// On disagreement the error wraps ErrMismatch.
func Verify(r Replay) (engine.Snapshot, error) {
	s, err := Simulate(r)
	if err != nil {
		return s, err
	}

	switch {
	case s.Score != r.Score:
		return s, fmt.Errorf("%w: score %d, recorded %d", ErrMismatch, s.Score, r.Score)
	case s.Level != r.Level:
		return s, fmt.Errorf("%w: level %d, recorded %d", ErrMismatch, s.Level, r.Level)
	case s.Lines != r.Lines:
		return s, fmt.Errorf("%w: lines %d, recorded %d", ErrMismatch, s.Lines, r.Lines)
	case r.Reason == ReasonGameOver && s.Phase != engine.PhaseGameOver:
		return s, fmt.Errorf("%w: ended in %s, recorded game over", ErrMismatch, s.Phase)
	}
	return s, nil
}
