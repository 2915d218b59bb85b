package engine

import "github.com/vovakirdan/cubefall/internal/core"

// Collides reports whether shape placed with its pivot at pos is illegal:
// a block outside the walls or below the floor, or a block overlapping an
// occupied cell. There is no ceiling; blocks at or above Rows() never
// collide, which lets pieces spawn partly above the visible volume.
func (g *Grid) Collides(pos core.Vec3, shape Shape) bool {
	for _, off := range shape.Blocks {
		p := pos.Add(off)
		if p.X < 0 || p.X >= g.cols || p.Z < 0 || p.Z >= g.depth || p.Y < 0 {
			return true
		}
		if p.Y < g.rows && g.Get(p.X, p.Y, p.Z) != core.ColorNone {
			return true
		}
	}
	return false
}
