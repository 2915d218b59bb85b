// Package loop hosts an engine.Game on its own goroutine. Commands, snapshot
// requests and drop ticks are serialized through one select loop, so callers
// on any goroutine can drive the game without further locking.
package loop

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/vovakirdan/cubefall/internal/engine"
)

var (
	// ErrStopped is returned by Do and Snapshot once Run has returned.
	ErrStopped = errors.New("loop: stopped")
	// ErrRunning is returned by a second call to Run.
	ErrRunning = errors.New("loop: already running")
)

// Recorder sees every command the loop applies, ticks included, in order.
// It is called on the loop goroutine and must not call back into the loop.
type Recorder interface {
	Record(cmd engine.Command, res engine.StepResult)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(cmd engine.Command, res engine.StepResult)

// Record implements Recorder.
func (f RecorderFunc) Record(cmd engine.Command, res engine.StepResult) { f(cmd, res) }

// Option configures a Loop.
type Option func(*Loop)

// WithRecorder adds a recorder. It may be given more than once.
func WithRecorder(r Recorder) Option {
	return func(l *Loop) { l.recorders = append(l.recorders, r) }
}

// WithSpeed scales the drop rate: 2 ticks twice as often as the game's
// interval asks for. Non-positive values are ignored.
func WithSpeed(factor float64) Option {
	return func(l *Loop) {
		if factor > 0 {
			l.speed = factor
		}
	}
}

type request struct {
	cmd   engine.Command
	reply chan engine.StepResult
}

// Loop owns one game.
type Loop struct {
	game      *engine.Game
	recorders []Recorder
	speed     float64

	cmds  chan request
	snaps chan chan engine.Snapshot
	done  chan struct{}

	running atomic.Bool
	final   engine.Snapshot // written before done is closed

	// Owned by the Run goroutine.
	ticker *time.Ticker
	tickC  <-chan time.Time
}

// New builds a game from opts whose drop timer is the loop's ticker.
// Any Timer set in opts is replaced.
func New(opts engine.Options, options ...Option) (*Loop, error) {
	l := &Loop{
		speed: 1,
		cmds:  make(chan request),
		snaps: make(chan chan engine.Snapshot),
		done:  make(chan struct{}),
	}
	for _, opt := range options {
		opt(l)
	}

	opts.Timer = tickerTimer{l}
	game, err := engine.New(opts)
	if err != nil {
		return nil, err
	}
	l.game = game
	return l, nil
}

// Run processes commands and ticks until ctx is cancelled, and returns
// ctx.Err(). It must be called exactly once.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer close(l.done)
	defer l.stopTicker()

	for {
		select {
		case <-ctx.Done():
			l.final = l.game.Snapshot()
			return ctx.Err()
		case req := <-l.cmds:
			req.reply <- l.apply(req.cmd)
		case reply := <-l.snaps:
			reply <- l.game.Snapshot()
		case <-l.tickC:
			l.apply(engine.TickCmd())
		}
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Final returns the game state Run left behind. It reports false until Run
// has returned.
func (l *Loop) Final() (engine.Snapshot, bool) {
	select {
	case <-l.done:
		return l.final, true
	default:
		return engine.Snapshot{}, false
	}
}

func (l *Loop) apply(cmd engine.Command) engine.StepResult {
	res := l.game.Apply(cmd)
	for _, r := range l.recorders {
		r.Record(cmd, res)
	}
	return res
}

// Do applies cmd on the loop goroutine and returns its result.
func (l *Loop) Do(ctx context.Context, cmd engine.Command) (engine.StepResult, error) {
	reply := make(chan engine.StepResult, 1)
	select {
	case l.cmds <- request{cmd: cmd, reply: reply}:
	case <-l.done:
		return engine.StepResult{}, ErrStopped
	case <-ctx.Done():
		return engine.StepResult{}, ctx.Err()
	}
	return <-reply, nil
}

// Snapshot returns a copy of the current game state.
func (l *Loop) Snapshot(ctx context.Context) (engine.Snapshot, error) {
	reply := make(chan engine.Snapshot, 1)
	select {
	case l.snaps <- reply:
	case <-l.done:
		return engine.Snapshot{}, ErrStopped
	case <-ctx.Done():
		return engine.Snapshot{}, ctx.Err()
	}
	return <-reply, nil
}

func (l *Loop) stopTicker() {
	if l.ticker != nil {
		l.ticker.Stop()
	}
	l.ticker = nil
	l.tickC = nil
}

// tickerTimer is the engine.Timer of a loop. The game only calls it from
// inside Apply, which runs on the loop goroutine.
type tickerTimer struct {
	l *Loop
}

func (t tickerTimer) Arm(interval time.Duration) {
	t.l.stopTicker()
	d := time.Duration(float64(interval) / t.l.speed)
	if d <= 0 {
		d = time.Millisecond
	}
	t.l.ticker = time.NewTicker(d)
	t.l.tickC = t.l.ticker.C
}

func (t tickerTimer) Disarm() {
	t.l.stopTicker()
}
