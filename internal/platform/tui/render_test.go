package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/cubefall/internal/core"
	"github.com/vovakirdan/cubefall/internal/engine"
)

// renderGrid draws a 4x3x3 grid snapshot and returns the screen and layout.
func renderGrid(t *testing.T, s engine.Snapshot) (*core.Screen, Layout) {
	t.Helper()
	l := NewLayout(s.Grid.Rows(), s.Grid.Cols(), s.Grid.Depth())
	scr := core.NewScreen(l.W, l.H)
	Draw(scr, l, s, "")
	return scr, l
}

func smallGrid(t *testing.T) *engine.Grid {
	t.Helper()
	g, err := engine.NewGrid(4, 3, 3)
	require.NoError(t, err)
	return g
}

// panelCell returns the screen cell for projected cell (u, v) of panel r.
func panelCell(scr *core.Screen, r core.Rect, u, v int) core.Cell {
	return scr.GetCell(r.X+1+u*cellW, r.Y+1+v)
}

func TestLayout(t *testing.T) {
	l := NewLayout(20, 7, 7)

	assert.Equal(t, 16, l.Front.W)
	assert.Equal(t, 22, l.Front.H)
	assert.Equal(t, l.Front.Right()+1, l.Side.X)
	assert.Equal(t, 9, l.Top.H)
	assert.Equal(t, l.HUD.Right(), l.W)
	assert.True(t, l.Fits(80, 24))
	assert.False(t, l.Fits(60, 24))
}

func TestFrontShowsNearestDepth(t *testing.T) {
	g := smallGrid(t)
	g.Set(0, 0, 0, core.ColorBlue)
	g.Set(0, 0, 2, core.ColorRed)

	scr, l := renderGrid(t, engine.Snapshot{Grid: g, Phase: engine.PhasePlaying})

	c := panelCell(scr, l.Front, 0, 3)
	assert.Equal(t, '█', c.Rune)
	assert.Equal(t, core.ColorRed, c.Color)
}

func TestSideShowsNearestColumn(t *testing.T) {
	g := smallGrid(t)
	g.Set(0, 0, 1, core.ColorBlue)
	g.Set(2, 0, 1, core.ColorGreen)

	scr, l := renderGrid(t, engine.Snapshot{Grid: g, Phase: engine.PhasePlaying})

	c := panelCell(scr, l.Side, 1, 3)
	assert.Equal(t, core.ColorGreen, c.Color)
	assert.Equal(t, ' ', panelCell(scr, l.Side, 0, 3).Rune)
}

func TestTopShowsHighestRow(t *testing.T) {
	g := smallGrid(t)
	g.Set(1, 0, 2, core.ColorBlue)
	g.Set(1, 2, 2, core.ColorYellow)

	scr, l := renderGrid(t, engine.Snapshot{Grid: g, Phase: engine.PhasePlaying})

	c := panelCell(scr, l.Top, 1, 2)
	assert.Equal(t, core.ColorYellow, c.Color)
}

func TestActivePieceAndGhost(t *testing.T) {
	g := smallGrid(t)
	o, ok := engine.ArchetypeNamed("O")
	require.True(t, ok)

	active := engine.Piece{Shape: o.Shape, Pos: core.V(0, 2, 0)}
	ghost := engine.Piece{Shape: o.Shape, Pos: core.V(0, 0, 0)}
	scr, l := renderGrid(t, engine.Snapshot{
		Grid:   g,
		Phase:  engine.PhasePlaying,
		Active: &active,
		Ghost:  &ghost,
	})

	// Active blocks at y 2..3 are rows 0..1 on screen; ghost at y 0..1.
	assert.Equal(t, '▓', panelCell(scr, l.Front, 0, 0).Rune)
	assert.Equal(t, '▓', panelCell(scr, l.Front, 1, 1).Rune)
	ghostCell := panelCell(scr, l.Front, 0, 3)
	assert.Equal(t, '░', ghostCell.Rune)
	assert.Equal(t, core.ColorDim, ghostCell.Color)
}

func TestActiveCellsAboveCeilingAreSkipped(t *testing.T) {
	g := smallGrid(t)
	i, ok := engine.ArchetypeNamed("I")
	require.True(t, ok)

	// Pivot at the spawn row: the top block sits at y == rows.
	active := engine.Piece{Shape: i.Shape, Pos: core.V(1, 2, 1)}
	scr, l := renderGrid(t, engine.Snapshot{Grid: g, Phase: engine.PhasePlaying, Active: &active})

	assert.Equal(t, '▓', panelCell(scr, l.Front, 1, 0).Rune)
	assert.Equal(t, ' ', panelCell(scr, l.Front, 1, 3).Rune)
}

func TestHUDAndBanner(t *testing.T) {
	g := smallGrid(t)
	next, _ := engine.ArchetypeNamed("T")

	scr, _ := renderGrid(t, engine.Snapshot{
		Grid:    g,
		Phase:   engine.PhaseGameOver,
		Score:   1400,
		Level:   2,
		Lines:   6,
		Next:    next.Shape,
		HasNext: true,
	})
	out := scr.String()

	for _, want := range []string{"FRONT", "SIDE", "TOP", "NEXT", "SCORE", "1400", "GAME OVER"} {
		assert.Contains(t, out, want)
	}
}

func TestDrawTooSmall(t *testing.T) {
	l := NewLayout(20, 7, 7)
	scr := core.NewScreen(40, 10)

	DrawTooSmall(scr, l)

	assert.Contains(t, scr.String(), "Terminal too small")
}

func TestRenderScreenKeepsText(t *testing.T) {
	scr := core.NewScreen(12, 2)
	scr.DrawTextColored(0, 0, "CUBE", core.ColorRed)
	scr.DrawText(0, 1, "fall")
	assert.Equal(t, "fall        ", scr.Row(1))

	out := RenderScreen(scr)

	assert.Contains(t, out, "CUBE")
	assert.Contains(t, out, "fall")
	assert.Equal(t, 2, len(strings.Split(out, "\n")))
}
