package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/cubefall/internal/config"
	"github.com/vovakirdan/cubefall/internal/core"
	"github.com/vovakirdan/cubefall/internal/engine"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyMapDefaults(t *testing.T) {
	km := NewKeyMap(config.DefaultConfig().Keys)

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.Action
	}{
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionMoveLeft},
		{"right arrow", tea.KeyMsg{Type: tea.KeyRight}, core.ActionMoveRight},
		{"down arrow", tea.KeyMsg{Type: tea.KeyDown}, core.ActionMoveBack},
		{"q", runes("q"), core.ActionMoveBack},
		{"up arrow", tea.KeyMsg{Type: tea.KeyUp}, core.ActionMoveForward},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionHardDrop},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionPause},
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, core.ActionEnd},
		{"n", runes("n"), core.ActionStart},
		{"shift q", runes("Q"), core.ActionQuit},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{"ctrl+s", tea.KeyMsg{Type: tea.KeyCtrlS}, core.ActionScreenshot},
		{"help", runes("?"), core.ActionHelp},
		{"unbound", runes("y"), core.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, km.Action(tt.msg))
		})
	}
}

func TestKeyMapRebinding(t *testing.T) {
	keys := config.DefaultConfig().Keys
	keys.Start = []string{"g"}
	km := NewKeyMap(keys)

	assert.Equal(t, core.ActionStart, km.Action(runes("g")))
	assert.Equal(t, core.ActionNone, km.Action(runes("n")))
	assert.Equal(t, "g", km.Start.Help().Key)
}

func TestKeyLabels(t *testing.T) {
	km := NewKeyMap(config.DefaultConfig().Keys)

	assert.Equal(t, "space", km.Pause.Help().Key)
	assert.Equal(t, "↓/q", km.MoveBack.Help().Key)
	assert.Equal(t, "bksp", km.End.Help().Key)
}

func TestCommandFor(t *testing.T) {
	tests := []struct {
		action core.Action
		want   engine.Command
	}{
		{core.ActionStart, engine.StartCmd()},
		{core.ActionEnd, engine.EndCmd()},
		{core.ActionPause, engine.PauseCmd()},
		{core.ActionMoveLeft, engine.MoveCmd(-1, 0, 0)},
		{core.ActionMoveForward, engine.MoveCmd(0, 0, 1)},
		{core.ActionSoftDrop, engine.MoveCmd(0, -1, 0)},
		{core.ActionHardDrop, engine.HardDropCmd()},
		{core.ActionRotateYNeg, engine.RotateCmd(engine.AxisY, -90)},
		{core.ActionRotateZPos, engine.RotateCmd(engine.AxisZ, 90)},
	}

	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			got, ok := CommandFor(tt.action)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, a := range []core.Action{core.ActionNone, core.ActionQuit, core.ActionScreenshot, core.ActionHelp} {
		_, ok := CommandFor(a)
		assert.False(t, ok, a.String())
	}
}
