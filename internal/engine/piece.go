package engine

import "github.com/vovakirdan/cubefall/internal/core"

// Piece is a shape placed at a pivot position in grid coordinates.
type Piece struct {
	Shape Shape
	Pos   core.Vec3
}

// Cells returns the absolute coordinates of the piece's blocks.
func (p Piece) Cells() [BlockCount]core.Vec3 {
	var out [BlockCount]core.Vec3
	for i, off := range p.Shape.Blocks {
		out[i] = p.Pos.Add(off)
	}
	return out
}

// Occupies reports whether the piece has a block at the absolute coordinate c.
func (p Piece) Occupies(c core.Vec3) bool {
	return p.Shape.Contains(c.Sub(p.Pos))
}

// landing returns the piece dropped straight down as far as it can go.
func (p Piece) landing(g *Grid) Piece {
	for {
		below := p.Pos.Add(core.V(0, -1, 0))
		if g.Collides(below, p.Shape) {
			return p
		}
		p.Pos = below
	}
}
