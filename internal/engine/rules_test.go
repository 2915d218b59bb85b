package engine

import (
	"errors"
	"testing"
	"time"
)

func TestPoints(t *testing.T) {
	r := DefaultRules()

	tests := []struct {
		layers, level int
		expected      int
	}{
		{0, 1, 0},
		{1, 1, 400},
		{2, 1, 1000},
		{2, 3, 3000},
		{3, 2, 6000},
		{4, 1, 12000},
		{6, 2, 24000}, // beyond the table
	}

	for _, tc := range tests {
		if got := r.Points(tc.layers, tc.level); got != tc.expected {
			t.Errorf("Points(%d, %d) = %d, expected %d", tc.layers, tc.level, got, tc.expected)
		}
	}
}

func TestLevelFor(t *testing.T) {
	r := DefaultRules()

	tests := []struct {
		lines, expected int
	}{
		{0, 1},
		{4, 1},
		{5, 2},
		{9, 2},
		{10, 3},
		{47, 10},
	}

	for _, tc := range tests {
		if got := r.LevelFor(tc.lines); got != tc.expected {
			t.Errorf("LevelFor(%d) = %d, expected %d", tc.lines, got, tc.expected)
		}
	}
}

func TestIntervalFor(t *testing.T) {
	r := DefaultRules()

	tests := []struct {
		level    int
		expected time.Duration
	}{
		{1, 1000 * time.Millisecond},
		{2, 950 * time.Millisecond},
		{10, 550 * time.Millisecond},
		{19, 100 * time.Millisecond},
		{40, 100 * time.Millisecond},
	}

	for _, tc := range tests {
		if got := r.IntervalFor(tc.level); got != tc.expected {
			t.Errorf("IntervalFor(%d) = %v, expected %v", tc.level, got, tc.expected)
		}
	}
}

func TestRulesValidate(t *testing.T) {
	if err := DefaultRules().Validate(); err != nil {
		t.Fatalf("DefaultRules().Validate() = %v", err)
	}

	tests := []struct {
		name   string
		modify func(*Rules)
	}{
		{"short table", func(r *Rules) { r.LayerPoints = []int{0} }},
		{"negative points", func(r *Rules) { r.LayerPoints = []int{0, -1} }},
		{"zero lines per level", func(r *Rules) { r.LinesPerLevel = 0 }},
		{"zero floor", func(r *Rules) { r.MinInterval = 0 }},
		{"base below floor", func(r *Rules) { r.BaseInterval = 50 * time.Millisecond }},
		{"negative step", func(r *Rules) { r.IntervalStep = -time.Millisecond }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := DefaultRules()
			tc.modify(&r)
			if err := r.Validate(); !errors.Is(err, ErrInvalidRules) {
				t.Errorf("Validate() = %v, expected ErrInvalidRules", err)
			}
		})
	}
}
