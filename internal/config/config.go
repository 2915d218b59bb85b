// Package config provides YAML-based configuration loading and
// difficulty presets for cubefall.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/cubefall/internal/engine"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// CubefallConfig contains all configuration for the game.
type CubefallConfig struct {
	Grid    GridConfig    `yaml:"grid"`
	Timing  TimingConfig  `yaml:"timing"`
	Scoring ScoringConfig `yaml:"scoring"`
	Keys    KeysConfig    `yaml:"keys"`
	Replays ReplaysConfig `yaml:"replays"`
}

// GridConfig defines the playfield dimensions and the pieces dealt into it.
type GridConfig struct {
	Rows   int      `yaml:"rows"`
	Cols   int      `yaml:"cols"`
	Depth  int      `yaml:"depth"`
	Pieces []string `yaml:"pieces"` // standard archetype names, empty means all seven
}

// TimingConfig defines the level and drop speed curve.
type TimingConfig struct {
	BaseIntervalMs int `yaml:"base_interval_ms"` // Drop interval at level 1
	IntervalStepMs int `yaml:"interval_step_ms"` // Reduction per level
	MinIntervalMs  int `yaml:"min_interval_ms"`  // Floor
	LinesPerLevel  int `yaml:"lines_per_level"`
}

// ScoringConfig defines points per lock, indexed by layers cleared.
type ScoringConfig struct {
	LayerPoints []int `yaml:"layer_points"`
}

// KeysConfig lists the terminal key names bound to each command.
type KeysConfig struct {
	MoveLeft    []string `yaml:"move_left"`
	MoveRight   []string `yaml:"move_right"`
	MoveBack    []string `yaml:"move_back"`
	MoveForward []string `yaml:"move_forward"`
	SoftDrop    []string `yaml:"soft_drop"`
	HardDrop    []string `yaml:"hard_drop"`
	RotateXPos  []string `yaml:"rotate_x_pos"`
	RotateXNeg  []string `yaml:"rotate_x_neg"`
	RotateYPos  []string `yaml:"rotate_y_pos"`
	RotateYNeg  []string `yaml:"rotate_y_neg"`
	RotateZPos  []string `yaml:"rotate_z_pos"`
	RotateZNeg  []string `yaml:"rotate_z_neg"`
	Pause       []string `yaml:"pause"`
	Start       []string `yaml:"start"`
	End         []string `yaml:"end"`
	Quit        []string `yaml:"quit"`
	Screenshot  []string `yaml:"screenshot"`
}

// ReplaysConfig controls replay recording.
type ReplaysConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // SQLite file, ~ is expanded
}

// Rules converts the timing and scoring sections to engine rules.
func (c CubefallConfig) Rules() engine.Rules {
	return engine.Rules{
		LayerPoints:   append([]int(nil), c.Scoring.LayerPoints...),
		LinesPerLevel: c.Timing.LinesPerLevel,
		BaseInterval:  ms(c.Timing.BaseIntervalMs),
		IntervalStep:  ms(c.Timing.IntervalStepMs),
		MinInterval:   ms(c.Timing.MinIntervalMs),
	}
}

// Options returns engine options for a game seeded with seed.
func (c CubefallConfig) Options(seed int64) engine.Options {
	return engine.Options{
		Rows:    c.Grid.Rows,
		Cols:    c.Grid.Cols,
		Depth:   c.Grid.Depth,
		Rules:   c.Rules(),
		Catalog: c.Catalog(),
		Seed:    seed,
	}
}

// Catalog returns the archetypes named by grid.pieces, or nil for the
// standard seven. Unknown names are skipped; Validate reports them.
func (c CubefallConfig) Catalog() []engine.Archetype {
	if len(c.Grid.Pieces) == 0 {
		return nil
	}
	out := make([]engine.Archetype, 0, len(c.Grid.Pieces))
	for _, name := range c.Grid.Pieces {
		if a, ok := engine.ArchetypeNamed(name); ok {
			out = append(out, a)
		}
	}
	return out
}

// Validate checks the configuration for values the engine would reject,
// and for commands left without a key.
func (c CubefallConfig) Validate() error {
	if c.Grid.Rows <= 0 || c.Grid.Cols <= 0 || c.Grid.Depth <= 0 {
		return fmt.Errorf("%w: grid rows=%d cols=%d depth=%d", ErrInvalid, c.Grid.Rows, c.Grid.Cols, c.Grid.Depth)
	}
	// Spawn is two rows below the top; a shorter grid cannot hold a piece
	if c.Grid.Rows < 4 {
		return fmt.Errorf("%w: grid needs at least 4 rows, got %d", ErrInvalid, c.Grid.Rows)
	}
	for _, name := range c.Grid.Pieces {
		if _, ok := engine.ArchetypeNamed(name); !ok {
			return fmt.Errorf("%w: unknown piece %q", ErrInvalid, name)
		}
	}
	if err := c.Rules().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	for name, keys := range c.Keys.bindings() {
		if len(keys) == 0 {
			return fmt.Errorf("%w: no key bound to %s", ErrInvalid, name)
		}
	}
	if c.Replays.Enabled && c.Replays.Path == "" {
		return fmt.Errorf("%w: replays enabled without a path", ErrInvalid)
	}
	return nil
}

func (k KeysConfig) bindings() map[string][]string {
	return map[string][]string{
		"move_left":    k.MoveLeft,
		"move_right":   k.MoveRight,
		"move_back":    k.MoveBack,
		"move_forward": k.MoveForward,
		"soft_drop":    k.SoftDrop,
		"hard_drop":    k.HardDrop,
		"rotate_x_pos": k.RotateXPos,
		"rotate_x_neg": k.RotateXNeg,
		"rotate_y_pos": k.RotateYPos,
		"rotate_y_neg": k.RotateYNeg,
		"rotate_z_pos": k.RotateZPos,
		"rotate_z_neg": k.RotateZNeg,
		"pause":        k.Pause,
		"start":        k.Start,
		"end":          k.End,
		"quit":         k.Quit,
		"screenshot":   k.Screenshot,
	}
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
