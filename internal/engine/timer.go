package engine

import "time"

// Timer is the drop-tick scheduler a host provides. The game arms it on
// start, resume and level-up, and disarms it on pause, game over and end.
// Arm must replace any outstanding schedule so that at most one tick stream
// exists; the host calls Game.Tick when it fires.
type Timer interface {
	Arm(interval time.Duration)
	Disarm()
}

type nopTimer struct{}

func (nopTimer) Arm(time.Duration) {}
func (nopTimer) Disarm()           {}

// ManualTimer records arm/disarm calls without scheduling anything.
// It is used for re-simulation and tests, where ticks are applied explicitly.
type ManualTimer struct {
	Armed    bool
	Interval time.Duration
	Arms     int
	Disarms  int
}

// Arm implements Timer.
func (t *ManualTimer) Arm(interval time.Duration) {
	t.Armed = true
	t.Interval = interval
	t.Arms++
}

// Disarm implements Timer.
func (t *ManualTimer) Disarm() {
	t.Armed = false
	t.Disarms++
}
