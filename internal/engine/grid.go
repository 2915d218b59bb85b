// Package engine implements the cubefall simulation: the occupancy grid, the
// piece catalog, collision and rotation, layer clearing, scoring and the game
// state machine. It has no knowledge of terminals, timers or storage; hosts
// drive it through commands and read it through snapshots.
package engine

import (
	"fmt"

	"github.com/vovakirdan/cubefall/internal/core"
)

// Grid is the fixed-size occupancy volume. Cells are stored layer by layer:
// index = (y*cols + x)*depth + z, so one layer (row) is a contiguous run of
// cols*depth cells and clearing a layer is a single copy.
type Grid struct {
	rows  int
	cols  int
	depth int
	cells []core.Color
}

// NewGrid creates an empty grid. All dimensions must be positive.
func NewGrid(rows, cols, depth int) (*Grid, error) {
	if rows <= 0 || cols <= 0 || depth <= 0 {
		return nil, fmt.Errorf("%w: %dx%dx%d", ErrInvalidDimensions, rows, cols, depth)
	}
	return &Grid{
		rows:  rows,
		cols:  cols,
		depth: depth,
		cells: make([]core.Color, rows*cols*depth),
	}, nil
}

// Rows returns the number of layers.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the extent along X.
func (g *Grid) Cols() int { return g.cols }

// Depth returns the extent along Z.
func (g *Grid) Depth() int { return g.depth }

func (g *Grid) layerSize() int {
	return g.cols * g.depth
}

func (g *Grid) index(x, y, z int) int {
	return (y*g.cols+x)*g.depth + z
}

// InBounds reports whether (x, y, z) addresses a cell of the grid.
func (g *Grid) InBounds(x, y, z int) bool {
	return x >= 0 && x < g.cols && y >= 0 && y < g.rows && z >= 0 && z < g.depth
}

// Get returns the tag at (x, y, z). The coordinate must be in bounds.
func (g *Grid) Get(x, y, z int) core.Color {
	return g.cells[g.index(x, y, z)]
}

// Set stores a tag at (x, y, z). The coordinate must be in bounds;
// callers check InBounds first.
func (g *Grid) Set(x, y, z int, c core.Color) {
	g.cells[g.index(x, y, z)] = c
}

// IsEmpty reports whether the in-bounds cell at (x, y, z) is empty.
func (g *Grid) IsEmpty(x, y, z int) bool {
	return g.Get(x, y, z) == core.ColorNone
}

func (g *Grid) layer(y int) []core.Color {
	start := y * g.layerSize()
	return g.cells[start : start+g.layerSize()]
}

// IsLayerFull reports whether every (x, z) cell of row y is occupied.
func (g *Grid) IsLayerFull(y int) bool {
	for _, c := range g.layer(y) {
		if c == core.ColorNone {
			return false
		}
	}
	return true
}

// IsLayerEmpty reports whether row y has no occupied cell.
func (g *Grid) IsLayerEmpty(y int) bool {
	for _, c := range g.layer(y) {
		if c != core.ColorNone {
			return false
		}
	}
	return true
}

// ClearLayer removes row y, shifts every row above it down by one and
// leaves an empty row on top.
func (g *Grid) ClearLayer(y int) {
	start := y * g.layerSize()
	copy(g.cells[start:], g.cells[start+g.layerSize():])
	top := g.layer(g.rows - 1)
	for i := range top {
		top[i] = core.ColorNone
	}
}

// ClearFullLayers clears every full layer scanning bottom to top and returns
// how many were removed. After a clear the same index is examined again,
// because the row shifted into it may itself be full.
func (g *Grid) ClearFullLayers() int {
	cleared := 0
	for y := 0; y < g.rows; {
		if g.IsLayerFull(y) {
			g.ClearLayer(y)
			cleared++
			continue
		}
		y++
	}
	return cleared
}

// Reset empties every cell.
func (g *Grid) Reset() {
	for i := range g.cells {
		g.cells[i] = core.ColorNone
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]core.Color, len(g.cells))
	copy(cells, g.cells)
	return &Grid{
		rows:  g.rows,
		cols:  g.cols,
		depth: g.depth,
		cells: cells,
	}
}

// Occupied returns the number of non-empty cells.
func (g *Grid) Occupied() int {
	n := 0
	for _, c := range g.cells {
		if c != core.ColorNone {
			n++
		}
	}
	return n
}

// ColumnHeight returns one past the highest occupied row of column (x, z),
// or 0 when the column is empty.
func (g *Grid) ColumnHeight(x, z int) int {
	for y := g.rows - 1; y >= 0; y-- {
		if !g.IsEmpty(x, y, z) {
			return y + 1
		}
	}
	return 0
}
