package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/cubefall/internal/core"
	"github.com/vovakirdan/cubefall/internal/engine"
)

// Every grid cell is drawn two characters wide so that cubes look square.
const cellW = 2

// HUD panel size. Short grids still get the full HUD height.
const (
	hudWidth  = 20
	hudHeight = 16
)

// Glyphs for one projected cell.
const (
	glyphBlock  = "██"
	glyphActive = "▓▓"
	glyphGhost  = "░░"
)

// Layout places the three projections and the HUD on screen.
type Layout struct {
	Front core.Rect // x across, y up
	Side  core.Rect // z across, y up
	Top   core.Rect // x across, z down
	HUD   core.Rect
	W, H  int
}

// NewLayout computes the layout for a grid of the given size. Each
// projection is boxed; panels are separated by one column.
func NewLayout(rows, cols, depth int) Layout {
	front := core.NewRect(0, 0, cols*cellW+2, rows+2)
	side := core.NewRect(front.Right()+1, 0, depth*cellW+2, rows+2)
	top := core.NewRect(side.Right()+1, 0, cols*cellW+2, depth+2)
	h := max(rows+2, depth+2, hudHeight)
	hud := core.NewRect(top.Right()+1, 0, hudWidth, h)
	return Layout{
		Front: front,
		Side:  side,
		Top:   top,
		HUD:   hud,
		W:     hud.Right(),
		H:     h,
	}
}

// Fits reports whether the layout fits a w x h terminal.
func (l Layout) Fits(w, h int) bool {
	return l.W <= w && l.H <= h
}

// projected is what one screen cell of a projection shows.
type projected struct {
	glyph string
	color core.Color
}

// projection maps a screen cell (u, v) of a panel to grid coordinates.
// Depth is iterated from nearest to farthest.
type projection struct {
	w, h   int
	depth  int
	cellAt func(u, v, d int) core.Vec3
	// hides reports whether active-piece cell c covers screen cell (u, v).
	hides func(c core.Vec3, u, v int) bool
}

func frontProjection(g *engine.Grid) projection {
	rows, depth := g.Rows(), g.Depth()
	return projection{
		w: g.Cols(), h: rows, depth: depth,
		cellAt: func(u, v, d int) core.Vec3 { return core.V(u, rows-1-v, depth-1-d) },
		hides:  func(c core.Vec3, u, v int) bool { return c.X == u && c.Y == rows-1-v },
	}
}

func sideProjection(g *engine.Grid) projection {
	rows, cols := g.Rows(), g.Cols()
	return projection{
		w: g.Depth(), h: rows, depth: cols,
		cellAt: func(u, v, d int) core.Vec3 { return core.V(cols-1-d, rows-1-v, u) },
		hides:  func(c core.Vec3, u, v int) bool { return c.Z == u && c.Y == rows-1-v },
	}
}

func topProjection(g *engine.Grid) projection {
	rows := g.Rows()
	return projection{
		w: g.Cols(), h: g.Depth(), depth: rows,
		cellAt: func(u, v, d int) core.Vec3 { return core.V(u, rows-1-d, v) },
		hides:  func(c core.Vec3, u, v int) bool { return c.X == u && c.Z == v },
	}
}

// cell resolves one projected cell: the active piece wins, then the
// nearest locked block, then the ghost.
func (p projection) cell(s engine.Snapshot, u, v int) projected {
	if s.Active != nil {
		for _, c := range s.Active.Cells() {
			if c.Y < s.Grid.Rows() && p.hides(c, u, v) {
				return projected{glyphActive, s.Active.Shape.Color}
			}
		}
	}
	for d := 0; d < p.depth; d++ {
		c := p.cellAt(u, v, d)
		if col := s.Grid.Get(c.X, c.Y, c.Z); !col.IsNone() {
			return projected{glyphBlock, col}
		}
	}
	if s.Ghost != nil {
		for _, c := range s.Ghost.Cells() {
			if c.Y < s.Grid.Rows() && p.hides(c, u, v) {
				return projected{glyphGhost, core.ColorDim}
			}
		}
	}
	return projected{}
}

func drawProjection(dst *core.Screen, r core.Rect, title string, p projection, s engine.Snapshot) {
	dst.DrawBox(r, core.ColorFrame)
	dst.DrawTextColored(r.X+2, r.Y, title, core.ColorWhite)
	for v := 0; v < p.h; v++ {
		for u := 0; u < p.w; u++ {
			c := p.cell(s, u, v)
			if c.glyph == "" {
				continue
			}
			dst.DrawTextColored(r.X+1+u*cellW, r.Y+1+v, c.glyph, c.color)
		}
	}
}

// Draw renders a snapshot into dst using layout l. status is an optional
// one-line message shown in the HUD.
func Draw(dst *core.Screen, l Layout, s engine.Snapshot, status string) {
	if s.Grid == nil {
		return
	}
	drawProjection(dst, l.Front, "FRONT", frontProjection(s.Grid), s)
	drawProjection(dst, l.Side, "SIDE", sideProjection(s.Grid), s)
	drawProjection(dst, l.Top, "TOP", topProjection(s.Grid), s)
	drawHUD(dst, l.HUD, s, status)

	if msg := phaseBanner(s.Phase); msg != "" {
		x := core.Clamp(l.Front.X+(l.Front.W-len(msg))/2, 0, l.W-len(msg))
		dst.DrawTextColored(x, l.Front.Y+l.Front.H/2, msg, core.ColorWhite)
	}
}

func phaseBanner(p engine.Phase) string {
	switch p {
	case engine.PhaseReady:
		return " READY "
	case engine.PhasePaused:
		return " PAUSED "
	case engine.PhaseGameOver:
		return " GAME OVER "
	default:
		return ""
	}
}

func drawHUD(dst *core.Screen, r core.Rect, s engine.Snapshot, status string) {
	x, y := r.X+1, r.Y
	dst.DrawTextColored(x, y, "CUBEFALL", core.ColorFrame)
	y += 2

	lines := []struct {
		label string
		value string
	}{
		{"SCORE", fmt.Sprintf("%d", s.Score)},
		{"LEVEL", fmt.Sprintf("%d", s.Level)},
		{"LINES", fmt.Sprintf("%d", s.Lines)},
		{"SPEED", fmt.Sprintf("%dms", s.Interval.Milliseconds())},
		{"STATE", s.Phase.String()},
	}
	for _, ln := range lines {
		dst.DrawTextColored(x, y, ln.label, core.ColorGray)
		dst.DrawTextColored(x+7, y, ln.value, core.ColorWhite)
		y++
	}

	y++
	box := core.NewRect(x, y, 4*cellW+2, 6)
	dst.DrawBox(box, core.ColorFrame)
	dst.DrawTextColored(box.X+2, box.Y, "NEXT", core.ColorWhite)
	if s.HasNext {
		drawPreview(dst, box, s.Next)
	}

	if status != "" {
		dst.DrawTextColored(x, r.Bottom()-1, truncate(status, r.W-1), core.ColorGray)
	}
}

// drawPreview draws the FRONT view of a shape centered in box.
func drawPreview(dst *core.Screen, box core.Rect, shape engine.Shape) {
	lo, hi := shape.Bounds()
	w := hi.X - lo.X + 1
	h := hi.Y - lo.Y + 1
	ox := box.X + 1 + (4-w)*cellW/2
	oy := box.Y + 1 + (4-h)/2
	for _, b := range shape.Blocks {
		dst.DrawTextColored(ox+(b.X-lo.X)*cellW, oy+(hi.Y-b.Y), glyphBlock, shape.Color)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// DrawTooSmall shows a resize hint centered on dst.
func DrawTooSmall(dst *core.Screen, l Layout) {
	y := dst.Height() / 2
	dst.DrawTextCentered(y-1, "Terminal too small")
	dst.DrawTextCentered(y, fmt.Sprintf("need %dx%d, have %dx%d", l.W, l.H+1, dst.Width(), dst.Height()))
}

var (
	styleMu    sync.Mutex
	styleCache = map[core.Color]lipgloss.Style{}
)

// styleFor returns the lipgloss style for a color tag. The cache is shared
// by every SSH session.
func styleFor(c core.Color) lipgloss.Style {
	styleMu.Lock()
	defer styleMu.Unlock()

	if st, ok := styleCache[c]; ok {
		return st
	}
	st := lipgloss.NewStyle()
	if !c.IsNone() {
		st = st.Foreground(lipgloss.Color(c.Hex()))
	}
	styleCache[c] = st
	return st
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			start := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != start {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}
			sb.WriteString(styleFor(start).Render(run.String()))
		}
	}
	return sb.String()
}
