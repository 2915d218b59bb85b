package config

import (
	"fmt"
	"strings"
)

// DifficultyPreset represents a named difficulty level. Presets only change
// how fast pieces fall; scoring and level thresholds stay the same.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// Presets lists the known presets from slowest to fastest.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard}
}

// ParsePreset parses a preset name, case-insensitively.
// An empty name selects DifficultyNormal.
func ParsePreset(name string) (DifficultyPreset, error) {
	if name == "" {
		return DifficultyNormal, nil
	}
	p := DifficultyPreset(strings.ToLower(name))
	for _, known := range Presets() {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", name)
}

// BaseIntervalForPreset returns the level 1 drop interval in milliseconds.
// Normal returns 0, meaning the configured value is kept.
func BaseIntervalForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyEasy:
		return 1200
	case DifficultyHard:
		return 700
	default:
		return 0
	}
}

// ApplyPreset modifies the timing section based on a difficulty preset.
func ApplyPreset(cfg *CubefallConfig, preset DifficultyPreset) {
	base := BaseIntervalForPreset(preset)
	if base == 0 {
		return
	}
	cfg.Timing.BaseIntervalMs = base
	if cfg.Timing.MinIntervalMs > base {
		cfg.Timing.MinIntervalMs = base
	}
}
