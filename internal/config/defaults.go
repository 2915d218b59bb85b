package config

import (
	_ "embed"

	"github.com/vovakirdan/cubefall/internal/engine"
)

//go:embed defaults/cubefall.yaml
var defaultCubefallYAML []byte

// DefaultConfig returns the built-in configuration. It matches the
// embedded defaults/cubefall.yaml.
func DefaultConfig() CubefallConfig {
	return CubefallConfig{
		Grid: GridConfig{
			Rows:  engine.DefaultRows,
			Cols:  engine.DefaultCols,
			Depth: engine.DefaultDepth,
		},
		Timing: TimingConfig{
			BaseIntervalMs: 1000,
			IntervalStepMs: 50,
			MinIntervalMs:  100,
			LinesPerLevel:  5,
		},
		Scoring: ScoringConfig{
			LayerPoints: []int{0, 400, 1000, 3000, 12000},
		},
		Keys: KeysConfig{
			MoveLeft:    []string{"left"},
			MoveRight:   []string{"right"},
			MoveBack:    []string{"down", "q"},
			MoveForward: []string{"up", "e"},
			SoftDrop:    []string{"f"},
			HardDrop:    []string{"enter"},
			RotateXPos:  []string{"w"},
			RotateXNeg:  []string{"s"},
			RotateYPos:  []string{"a"},
			RotateYNeg:  []string{"d"},
			RotateZPos:  []string{"z"},
			RotateZNeg:  []string{"x"},
			Pause:       []string{" "},
			Start:       []string{"n"},
			End:         []string{"backspace"},
			Quit:        []string{"ctrl+c", "Q"},
			Screenshot:  []string{"ctrl+s"},
		},
		Replays: ReplaysConfig{
			Enabled: true,
			Path:    "~/.cubefall/replays.db",
		},
	}
}
