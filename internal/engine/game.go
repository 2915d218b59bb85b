package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/cubefall/internal/core"
)

// Construction errors. A running game never returns errors; rejected
// commands report false or an unaccepted StepResult instead.
var (
	ErrInvalidDimensions = errors.New("engine: grid dimensions must be positive")
	ErrMalformedShape    = errors.New("engine: malformed shape")
	ErrInvalidRules      = errors.New("engine: invalid rules")
)

// Default playfield dimensions.
const (
	DefaultRows  = 20
	DefaultCols  = 7
	DefaultDepth = 7
)

// Options configures a Game.
type Options struct {
	Rows, Cols, Depth int
	Rules             Rules
	Catalog           []Archetype // nil means the standard seven
	// Seed seeds the first game's piece sequence. Each later Start reseeds
	// with the next integer, so every game is reproducible on its own.
	Seed  int64
	Timer Timer // nil means no scheduling
}

// DefaultOptions returns the standard 20x7x7 game.
func DefaultOptions() Options {
	return Options{
		Rows:  DefaultRows,
		Cols:  DefaultCols,
		Depth: DefaultDepth,
		Rules: DefaultRules(),
	}
}

// Game is the complete state of one running game. It is not safe for
// concurrent use: hosts serialize every command and tick onto one context.
type Game struct {
	grid    *Grid
	rules   Rules
	catalog []Archetype
	rng     *rand.Rand
	base    int64
	seed    int64 // current game's seed
	games   int   // accepted starts
	timer   Timer

	phase    Phase
	active   *Piece
	next     Shape
	hasNext  bool
	score    int
	level    int
	lines    int
	interval time.Duration
	pieces   int
}

// New validates opts and creates a game in the Ready phase.
func New(opts Options) (*Game, error) {
	grid, err := NewGrid(opts.Rows, opts.Cols, opts.Depth)
	if err != nil {
		return nil, err
	}
	if err := opts.Rules.Validate(); err != nil {
		return nil, err
	}

	cat := opts.Catalog
	if len(cat) == 0 {
		cat = Catalog()
	} else {
		cat = append([]Archetype(nil), cat...)
	}
	for _, a := range cat {
		if err := a.Shape.Validate(); err != nil {
			return nil, fmt.Errorf("archetype %q: %w", a.Name, err)
		}
	}

	timer := opts.Timer
	if timer == nil {
		timer = nopTimer{}
	}

	g := &Game{
		grid:    grid,
		rules:   opts.Rules,
		catalog: cat,
		rng:     rand.New(rand.NewSource(opts.Seed)),
		seed:    opts.Seed,
		base:    opts.Seed,
		timer:   timer,
		phase:   PhaseReady,
	}
	g.resetState()
	return g, nil
}

// resetState restores grid, counters and pieces to their initial values.
func (g *Game) resetState() {
	g.grid.Reset()
	g.active = nil
	g.hasNext = false
	g.score = 0
	g.level = 1
	g.lines = 0
	g.pieces = 0
	g.interval = g.rules.IntervalFor(1)
}

// setPhase applies a transition and its timer side effect: only Playing
// has a running drop timer.
func (g *Game) setPhase(p Phase) {
	g.phase = p
	if p == PhasePlaying {
		g.timer.Arm(g.interval)
	} else {
		g.timer.Disarm()
	}
}

// SpawnPoint returns the pivot position of newly spawned pieces.
func (g *Game) SpawnPoint() core.Vec3 {
	return core.V(g.grid.cols/2, g.grid.rows-2, g.grid.depth/2)
}

// drawShape picks an archetype uniformly at random. Draws are independent;
// there is no bag.
func (g *Game) drawShape() Shape {
	return g.catalog[g.rng.Intn(len(g.catalog))].Shape
}

// spawnNext promotes the next shape to the active piece and draws a new
// next shape. It returns false, after moving to GameOver, when the new
// piece collides at the spawn point.
func (g *Game) spawnNext() bool {
	p := Piece{Shape: g.next, Pos: g.SpawnPoint()}
	g.next = g.drawShape()
	g.hasNext = true
	g.pieces++

	if g.grid.Collides(p.Pos, p.Shape) {
		g.active = nil
		g.setPhase(PhaseGameOver)
		return false
	}
	g.active = &p
	return true
}

// Start begins a new game from Ready or GameOver.
func (g *Game) Start() bool {
	if g.phase != PhaseReady && g.phase != PhaseGameOver {
		return false
	}
	g.resetState()
	g.seed = g.base + int64(g.games)
	g.rng = rand.New(rand.NewSource(g.seed))
	g.games++
	g.next = g.drawShape()
	g.setPhase(PhasePlaying)
	g.spawnNext()
	return true
}

// End aborts from any phase back to Ready with a fully reset state.
func (g *Game) End() bool {
	g.resetState()
	g.setPhase(PhaseReady)
	return true
}

// TogglePause switches between Playing and Paused.
func (g *Game) TogglePause() bool {
	switch g.phase {
	case PhasePlaying:
		g.setPhase(PhasePaused)
	case PhasePaused:
		g.setPhase(PhasePlaying)
	default:
		return false
	}
	return true
}

func (g *Game) canControl() bool {
	return g.phase == PhasePlaying && g.active != nil
}

// MoveBy translates the active piece if the destination is legal.
// A zero move changes nothing and is rejected.
func (g *Game) MoveBy(dx, dy, dz int) bool {
	d := core.V(dx, dy, dz)
	if !g.canControl() || d.IsZero() {
		return false
	}
	dst := g.active.Pos.Add(d)
	if g.grid.Collides(dst, g.active.Shape) {
		return false
	}
	g.active.Pos = dst
	return true
}

// Rotate turns the active piece about its pivot if the result is legal.
// There is no wall kick: a blocked rotation leaves the piece unchanged.
func (g *Game) Rotate(axis Axis, degrees int) bool {
	if !g.canControl() || !ValidAngle(degrees) || axis > AxisZ {
		return false
	}
	rotated := g.active.Shape.Rotate(axis, degrees)
	if g.grid.Collides(g.active.Pos, rotated) {
		return false
	}
	g.active.Shape = rotated
	return true
}

// Tick is one gravity step: descend by one row, or lock when blocked.
func (g *Game) Tick() StepResult {
	if !g.canControl() {
		return StepResult{Phase: g.phase}
	}
	if g.MoveBy(0, -1, 0) {
		return StepResult{Accepted: true, Phase: g.phase}
	}
	return g.lockAndAdvance()
}

// HardDrop descends until blocked, then locks exactly once.
func (g *Game) HardDrop() StepResult {
	if !g.canControl() {
		return StepResult{Phase: g.phase}
	}
	dropped := 0
	for g.MoveBy(0, -1, 0) {
		dropped++
	}
	res := g.lockAndAdvance()
	res.Dropped = dropped
	return res
}

// lockAndAdvance writes the active piece into the grid, clears layers,
// scores them and spawns the next piece.
func (g *Game) lockAndAdvance() StepResult {
	color := g.active.Shape.Color
	for _, c := range g.active.Cells() {
		if g.grid.InBounds(c.X, c.Y, c.Z) {
			g.grid.Set(c.X, c.Y, c.Z, color)
		}
	}
	g.active = nil

	res := StepResult{Accepted: true, Locked: true}
	res.Cleared = g.grid.ClearFullLayers()
	res.Awarded, res.LevelUp = g.award(res.Cleared)
	res.GameOver = !g.spawnNext()
	res.Phase = g.phase
	return res
}

// award adds the score for one lock and advances the level. A level
// increase re-arms the timer at the new interval right away.
func (g *Game) award(cleared int) (int, bool) {
	if cleared == 0 {
		return 0, false
	}
	points := g.rules.Points(cleared, g.level)
	g.score += points
	g.lines += cleared

	level := g.rules.LevelFor(g.lines)
	if level <= g.level {
		return points, false
	}
	g.level = level
	g.interval = g.rules.IntervalFor(level)
	if g.phase == PhasePlaying {
		g.timer.Arm(g.interval)
	}
	return points, true
}

// Apply dispatches a command value.
func (g *Game) Apply(cmd Command) StepResult {
	switch cmd.Kind {
	case CmdStart:
		return g.result(g.Start())
	case CmdEnd:
		return g.result(g.End())
	case CmdTogglePause:
		return g.result(g.TogglePause())
	case CmdMove:
		return g.result(g.MoveBy(cmd.Delta.X, cmd.Delta.Y, cmd.Delta.Z))
	case CmdRotate:
		return g.result(g.Rotate(cmd.Axis, cmd.Degrees))
	case CmdHardDrop:
		return g.HardDrop()
	case CmdTick:
		return g.Tick()
	default:
		return StepResult{Phase: g.phase}
	}
}

func (g *Game) result(accepted bool) StepResult {
	return StepResult{
		Accepted: accepted,
		GameOver: accepted && g.phase == PhaseGameOver,
		Phase:    g.phase,
	}
}

// Phase returns the current phase.
func (g *Game) Phase() Phase { return g.phase }

// Score returns the current score.
func (g *Game) Score() int { return g.score }

// Level returns the current level.
func (g *Game) Level() int { return g.level }

// Lines returns the total layers cleared this game.
func (g *Game) Lines() int { return g.lines }

// Interval returns the current drop interval.
func (g *Game) Interval() time.Duration { return g.interval }

// Seed returns the seed of the current (or upcoming first) game.
func (g *Game) Seed() int64 { return g.seed }

// Rules returns the scoring and speed rules.
func (g *Game) Rules() Rules { return g.rules }

// Active returns a copy of the active piece.
func (g *Game) Active() (Piece, bool) {
	if g.active == nil {
		return Piece{}, false
	}
	return *g.active, true
}
