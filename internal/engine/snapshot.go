package engine

import "time"

// Snapshot is a read-only copy of the game state for renderers and other
// observers. Nothing in a snapshot aliases the live game.
type Snapshot struct {
	Phase Phase
	Grid  *Grid

	Active *Piece // nil when no piece is in play
	Ghost  *Piece // Active at its landing position
	Next   Shape
	// HasNext is false before the first Start and after End.
	HasNext bool

	Score    int
	Level    int
	Lines    int
	Interval time.Duration
	Pieces   int // pieces spawned this game
	Seed     int64
}

// Snapshot copies the current state.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Phase:    g.phase,
		Grid:     g.grid.Clone(),
		Next:     g.next,
		HasNext:  g.hasNext,
		Score:    g.score,
		Level:    g.level,
		Lines:    g.lines,
		Interval: g.interval,
		Pieces:   g.pieces,
		Seed:     g.seed,
	}
	if g.active != nil {
		active := *g.active
		ghost := active.landing(g.grid)
		s.Active = &active
		s.Ghost = &ghost
	}
	return s
}
