// Package tui provides the Bubble Tea front end for cubefall.
// It handles the terminal UI loop, key bindings, rendering, the replay
// browser and SSH serving.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// dropTickMsg asks the model to apply one gravity tick. Ticks carry the
// timer generation they were scheduled under; a stale generation means
// the timer was re-armed or disarmed since, and the tick is dropped.
type dropTickMsg struct {
	gen int
}

// dropTickCmd returns a Bubble Tea command that fires one drop tick.
func dropTickCmd(interval time.Duration, gen int) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return dropTickMsg{gen: gen}
	})
}

// teaTimer implements engine.Timer on top of tea.Tick. The game calls it
// from inside Update; the model then collects the scheduled tick with take.
type teaTimer struct {
	gen      int
	armed    bool
	interval time.Duration
	pending  bool
}

// Arm implements engine.Timer.
func (t *teaTimer) Arm(interval time.Duration) {
	t.gen++
	t.armed = true
	t.interval = interval
	t.pending = true
}

// Disarm implements engine.Timer.
func (t *teaTimer) Disarm() {
	t.gen++
	t.armed = false
	t.pending = false
}

// take returns the tick command for a fresh arm, if any.
func (t *teaTimer) take() tea.Cmd {
	if !t.pending {
		return nil
	}
	t.pending = false
	return dropTickCmd(t.interval, t.gen)
}

// current reports whether a tick of generation gen is still wanted.
func (t *teaTimer) current(gen int) bool {
	return t.armed && gen == t.gen
}

// next schedules the following tick of the current generation.
func (t *teaTimer) next() tea.Cmd {
	return dropTickCmd(t.interval, t.gen)
}
