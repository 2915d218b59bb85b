// Package bot plans moves for the active piece. It enumerates every
// orientation reachable by quarter turns and every column the piece can
// slide to, drops each candidate on a copy of the grid and keeps the
// placement with the best heuristic score.
package bot

import (
	"slices"

	"github.com/vovakirdan/cubefall/internal/core"
	"github.com/vovakirdan/cubefall/internal/engine"
)

// Weights scores a landing. Positive weights reward, negative penalize.
type Weights struct {
	Cleared   float64 // per layer cleared
	Height    float64 // per unit of summed column height
	Holes     float64 // per empty cell below a column top
	Bumpiness float64 // per unit of height difference between neighbours
	Overflow  float64 // per block locked above the ceiling
}

// DefaultWeights are tuned for 7x7 layers.
func DefaultWeights() Weights {
	return Weights{
		Cleared:   8,
		Height:    -0.5,
		Holes:     -4,
		Bumpiness: -0.2,
		Overflow:  -1000,
	}
}

// Planner picks placements.
type Planner struct {
	W Weights
}

// Plan returns the commands for the best placement of the active piece using
// DefaultWeights. It returns nil when no piece is in play.
func Plan(s engine.Snapshot) []engine.Command {
	return Planner{W: DefaultWeights()}.Plan(s)
}

type orientation struct {
	shape engine.Shape
	turns []engine.Command
}

// Plan returns the commands for the best placement: rotations first, then
// single-step moves along x and z, then a hard drop.
func (p Planner) Plan(s engine.Snapshot) []engine.Command {
	if s.Phase != engine.PhasePlaying || s.Active == nil || s.Grid == nil {
		return nil
	}

	var (
		best     []engine.Command
		bestEval float64
		found    bool
	)
	for _, o := range orientations(s.Grid, *s.Active) {
		lo, hi := o.shape.Bounds()
		for x := -lo.X; x < s.Grid.Cols()-hi.X; x++ {
			for z := -lo.Z; z < s.Grid.Depth()-hi.Z; z++ {
				moves, ok := slide(s.Grid, engine.Piece{Shape: o.shape, Pos: s.Active.Pos}, x, z)
				if !ok {
					continue
				}
				landed := drop(s.Grid, engine.Piece{Shape: o.shape, Pos: core.V(x, s.Active.Pos.Y, z)})
				eval := p.evaluate(s.Grid, landed)
				if !found || eval > bestEval {
					found = true
					bestEval = eval
					best = slices.Concat(o.turns, moves, []engine.Command{engine.HardDropCmd()})
				}
			}
		}
	}
	if !found {
		return []engine.Command{engine.HardDropCmd()}
	}
	return best
}

// orientations explores quarter turns breadth-first from the active piece,
// keeping the shortest legal turn sequence to each distinct block set.
func orientations(g *engine.Grid, start engine.Piece) []orientation {
	turns := []engine.Command{
		engine.RotateCmd(engine.AxisX, 90),
		engine.RotateCmd(engine.AxisX, -90),
		engine.RotateCmd(engine.AxisY, 90),
		engine.RotateCmd(engine.AxisY, -90),
		engine.RotateCmd(engine.AxisZ, 90),
		engine.RotateCmd(engine.AxisZ, -90),
	}

	seen := map[[engine.BlockCount]core.Vec3]bool{canonical(start.Shape): true}
	out := []orientation{{shape: start.Shape}}
	for i := 0; i < len(out); i++ {
		cur := out[i]
		for _, t := range turns {
			next := cur.shape.Rotate(t.Axis, t.Degrees)
			key := canonical(next)
			if seen[key] || g.Collides(start.Pos, next) {
				continue
			}
			seen[key] = true
			out = append(out, orientation{
				shape: next,
				turns: append(slices.Clone(cur.turns), t),
			})
		}
	}
	return out
}

// canonical returns the blocks in a fixed order so that rotations which
// permute the same cells compare equal.
func canonical(s engine.Shape) [engine.BlockCount]core.Vec3 {
	b := s.Blocks
	slices.SortFunc(b[:], func(a, c core.Vec3) int {
		if a.X != c.X {
			return a.X - c.X
		}
		if a.Y != c.Y {
			return a.Y - c.Y
		}
		return a.Z - c.Z
	})
	return b
}

// slide moves p one step at a time to column (x, z), x first. It fails if
// any intermediate position collides.
func slide(g *engine.Grid, p engine.Piece, x, z int) ([]engine.Command, bool) {
	var moves []engine.Command
	step := func(dx, dz int) bool {
		next := p.Pos.Add(core.V(dx, 0, dz))
		if g.Collides(next, p.Shape) {
			return false
		}
		p.Pos = next
		moves = append(moves, engine.MoveCmd(dx, 0, dz))
		return true
	}
	for p.Pos.X != x {
		if !step(sign(x-p.Pos.X), 0) {
			return nil, false
		}
	}
	for p.Pos.Z != z {
		if !step(0, sign(z-p.Pos.Z)) {
			return nil, false
		}
	}
	return moves, true
}

func drop(g *engine.Grid, p engine.Piece) engine.Piece {
	for {
		below := p.Pos.Add(core.V(0, -1, 0))
		if g.Collides(below, p.Shape) {
			return p
		}
		p.Pos = below
	}
}

// evaluate locks p into a copy of g and scores the result.
func (p Planner) evaluate(g *engine.Grid, piece engine.Piece) float64 {
	after := g.Clone()
	overflow := 0
	for _, c := range piece.Cells() {
		if after.InBounds(c.X, c.Y, c.Z) {
			after.Set(c.X, c.Y, c.Z, piece.Shape.Color)
		} else {
			overflow++
		}
	}
	cleared := after.ClearFullLayers()

	var height, holes, bump int
	for x := 0; x < after.Cols(); x++ {
		for z := 0; z < after.Depth(); z++ {
			h := after.ColumnHeight(x, z)
			height += h
			for y := 0; y < h; y++ {
				if after.IsEmpty(x, y, z) {
					holes++
				}
			}
			if x+1 < after.Cols() {
				bump += core.Abs(h - after.ColumnHeight(x+1, z))
			}
			if z+1 < after.Depth() {
				bump += core.Abs(h - after.ColumnHeight(x, z+1))
			}
		}
	}

	return p.W.Cleared*float64(cleared) +
		p.W.Height*float64(height) +
		p.W.Holes*float64(holes) +
		p.W.Bumpiness*float64(bump) +
		p.W.Overflow*float64(overflow)
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
