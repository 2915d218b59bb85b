package engine

import (
	"fmt"

	"github.com/vovakirdan/cubefall/internal/core"
)

// BlockCount is the number of blocks in every piece.
const BlockCount = 4

// Shape is a piece's block offsets relative to its pivot, plus its color.
// Shape is a value type: assigning or passing it copies the offsets, so a
// rotated piece never aliases the catalog entry it came from.
type Shape struct {
	Blocks [BlockCount]core.Vec3
	Color  core.Color
}

// Archetype is a named catalog entry.
type Archetype struct {
	Name  string
	Shape Shape
}

var catalog = [...]Archetype{
	{"I", Shape{Blocks: [BlockCount]core.Vec3{{X: 0, Y: -1, Z: 0}, {X: 0, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 2, Z: 0}}, Color: core.ColorCyan}},
	{"J", Shape{Blocks: [BlockCount]core.Vec3{{X: -1, Y: 1, Z: 0}, {X: -1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}}, Color: core.ColorBlue}},
	{"L", Shape{Blocks: [BlockCount]core.Vec3{{X: 1, Y: 1, Z: 0}, {X: -1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}}, Color: core.ColorOrange}},
	{"O", Shape{Blocks: [BlockCount]core.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0}}, Color: core.ColorYellow}},
	{"S", Shape{Blocks: [BlockCount]core.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: -1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0}}, Color: core.ColorGreen}},
	{"T", Shape{Blocks: [BlockCount]core.Vec3{{X: -1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}, Color: core.ColorPurple}},
	{"Z", Shape{Blocks: [BlockCount]core.Vec3{{X: -1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 0}}, Color: core.ColorRed}},
}

// Catalog returns a copy of the seven standard archetypes.
func Catalog() []Archetype {
	out := make([]Archetype, len(catalog))
	copy(out, catalog[:])
	return out
}

// ArchetypeNamed looks up a standard archetype by name.
func ArchetypeNamed(name string) (Archetype, bool) {
	for _, a := range catalog {
		if a.Name == name {
			return a, true
		}
	}
	return Archetype{}, false
}

// Validate checks that the shape has a color, no duplicate blocks, and that
// its blocks are face-connected.
func (s Shape) Validate() error {
	if s.Color == core.ColorNone {
		return fmt.Errorf("%w: no color", ErrMalformedShape)
	}
	for i := range s.Blocks {
		for j := i + 1; j < len(s.Blocks); j++ {
			if s.Blocks[i] == s.Blocks[j] {
				return fmt.Errorf("%w: duplicate block %v", ErrMalformedShape, s.Blocks[i])
			}
		}
	}
	if !s.connected() {
		return fmt.Errorf("%w: blocks are not connected", ErrMalformedShape)
	}
	return nil
}

// connected walks face neighbours from the first block.
func (s Shape) connected() bool {
	seen := [BlockCount]bool{true}
	stack := []int{0}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for j, b := range s.Blocks {
			if seen[j] {
				continue
			}
			d := b.Sub(s.Blocks[i])
			if core.Abs(d.X)+core.Abs(d.Y)+core.Abs(d.Z) == 1 {
				seen[j] = true
				stack = append(stack, j)
			}
		}
	}
	for _, ok := range seen {
		if !ok {
			return false
		}
	}
	return true
}

// Bounds returns the component-wise minimum and maximum offsets.
func (s Shape) Bounds() (lo, hi core.Vec3) {
	lo, hi = s.Blocks[0], s.Blocks[0]
	for _, b := range s.Blocks[1:] {
		lo = core.V(min(lo.X, b.X), min(lo.Y, b.Y), min(lo.Z, b.Z))
		hi = core.V(max(hi.X, b.X), max(hi.Y, b.Y), max(hi.Z, b.Z))
	}
	return lo, hi
}

// Contains reports whether off is one of the shape's blocks.
func (s Shape) Contains(off core.Vec3) bool {
	for _, b := range s.Blocks {
		if b == off {
			return true
		}
	}
	return false
}
