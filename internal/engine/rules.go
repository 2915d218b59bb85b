package engine

import (
	"fmt"
	"time"
)

// Rules holds the scoring table and the level/speed curve.
type Rules struct {
	// LayerPoints is indexed by layers cleared in one lock. Counts beyond the
	// end of the table use the last entry.
	LayerPoints []int

	LinesPerLevel int

	BaseInterval time.Duration // drop interval at level 1
	IntervalStep time.Duration // reduction per level
	MinInterval  time.Duration // floor
}

// DefaultRules returns the standard table and curve.
func DefaultRules() Rules {
	return Rules{
		LayerPoints:   []int{0, 400, 1000, 3000, 12000},
		LinesPerLevel: 5,
		BaseInterval:  1000 * time.Millisecond,
		IntervalStep:  50 * time.Millisecond,
		MinInterval:   100 * time.Millisecond,
	}
}

// Validate checks that the rules describe a playable curve.
func (r Rules) Validate() error {
	switch {
	case len(r.LayerPoints) < 2:
		return fmt.Errorf("%w: layer point table needs at least 2 entries", ErrInvalidRules)
	case r.LinesPerLevel <= 0:
		return fmt.Errorf("%w: lines per level must be positive", ErrInvalidRules)
	case r.MinInterval <= 0:
		return fmt.Errorf("%w: min interval must be positive", ErrInvalidRules)
	case r.BaseInterval < r.MinInterval:
		return fmt.Errorf("%w: base interval %v below min interval %v", ErrInvalidRules, r.BaseInterval, r.MinInterval)
	case r.IntervalStep < 0:
		return fmt.Errorf("%w: interval step must not be negative", ErrInvalidRules)
	}
	for i, p := range r.LayerPoints {
		if p < 0 {
			return fmt.Errorf("%w: negative points for %d layers", ErrInvalidRules, i)
		}
	}
	return nil
}

// Points returns the score awarded for clearing layers at once at level.
func (r Rules) Points(layers, level int) int {
	if layers <= 0 {
		return 0
	}
	idx := min(layers, len(r.LayerPoints)-1)
	return r.LayerPoints[idx] * level
}

// LevelFor returns the level reached after lines cleared layers in total.
func (r Rules) LevelFor(lines int) int {
	return lines/r.LinesPerLevel + 1
}

// IntervalFor returns the drop interval at level, never below MinInterval.
func (r Rules) IntervalFor(level int) time.Duration {
	d := r.BaseInterval - time.Duration(level-1)*r.IntervalStep
	return max(d, r.MinInterval)
}
