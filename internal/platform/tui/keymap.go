package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/cubefall/internal/config"
	"github.com/vovakirdan/cubefall/internal/core"
	"github.com/vovakirdan/cubefall/internal/engine"
)

// KeyMap holds the game key bindings. It is built from the keys section of
// the configuration, so bindings can be swapped while the game runs.
type KeyMap struct {
	MoveLeft    key.Binding
	MoveRight   key.Binding
	MoveBack    key.Binding
	MoveForward key.Binding
	SoftDrop    key.Binding
	HardDrop    key.Binding
	RotateXPos  key.Binding
	RotateXNeg  key.Binding
	RotateYPos  key.Binding
	RotateYNeg  key.Binding
	RotateZPos  key.Binding
	RotateZNeg  key.Binding
	Pause       key.Binding
	Start       key.Binding
	End         key.Binding
	Quit        key.Binding
	Screenshot  key.Binding
	Help        key.Binding
}

// NewKeyMap builds bindings from the configuration.
func NewKeyMap(k config.KeysConfig) KeyMap {
	return KeyMap{
		MoveLeft:    binding(k.MoveLeft, "move x-"),
		MoveRight:   binding(k.MoveRight, "move x+"),
		MoveBack:    binding(k.MoveBack, "move z-"),
		MoveForward: binding(k.MoveForward, "move z+"),
		SoftDrop:    binding(k.SoftDrop, "soft drop"),
		HardDrop:    binding(k.HardDrop, "hard drop"),
		RotateXPos:  binding(k.RotateXPos, "rot x+"),
		RotateXNeg:  binding(k.RotateXNeg, "rot x-"),
		RotateYPos:  binding(k.RotateYPos, "rot y+"),
		RotateYNeg:  binding(k.RotateYNeg, "rot y-"),
		RotateZPos:  binding(k.RotateZPos, "rot z+"),
		RotateZNeg:  binding(k.RotateZNeg, "rot z-"),
		Pause:       binding(k.Pause, "pause"),
		Start:       binding(k.Start, "new game"),
		End:         binding(k.End, "end game"),
		Quit:        binding(k.Quit, "quit"),
		Screenshot:  binding(k.Screenshot, "screenshot"),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
	}
}

func binding(keys []string, desc string) key.Binding {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = keyLabel(k)
	}
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(names, "/"), desc),
	)
}

// keyLabel returns a short printable name for a key.
func keyLabel(k string) string {
	switch k {
	case " ":
		return "space"
	case "up":
		return "↑"
	case "down":
		return "↓"
	case "left":
		return "←"
	case "right":
		return "→"
	case "backspace":
		return "bksp"
	}
	return k
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Pause, k.HardDrop, k.Quit, k.Help}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.MoveLeft, k.MoveRight, k.MoveBack, k.MoveForward},
		{k.RotateXPos, k.RotateXNeg, k.RotateYPos, k.RotateYNeg},
		{k.RotateZPos, k.RotateZNeg, k.SoftDrop, k.HardDrop},
		{k.Start, k.Pause, k.End, k.Screenshot, k.Quit},
	}
}

// Action translates a key message to a platform action.
func (k KeyMap) Action(msg tea.KeyMsg) core.Action {
	// Quit is checked first so that it can never be shadowed
	pairs := []struct {
		b key.Binding
		a core.Action
	}{
		{k.Quit, core.ActionQuit},
		{k.Screenshot, core.ActionScreenshot},
		{k.Help, core.ActionHelp},
		{k.Start, core.ActionStart},
		{k.End, core.ActionEnd},
		{k.Pause, core.ActionPause},
		{k.MoveLeft, core.ActionMoveLeft},
		{k.MoveRight, core.ActionMoveRight},
		{k.MoveBack, core.ActionMoveBack},
		{k.MoveForward, core.ActionMoveForward},
		{k.SoftDrop, core.ActionSoftDrop},
		{k.HardDrop, core.ActionHardDrop},
		{k.RotateXPos, core.ActionRotateXPos},
		{k.RotateXNeg, core.ActionRotateXNeg},
		{k.RotateYPos, core.ActionRotateYPos},
		{k.RotateYNeg, core.ActionRotateYNeg},
		{k.RotateZPos, core.ActionRotateZPos},
		{k.RotateZNeg, core.ActionRotateZNeg},
	}
	for _, p := range pairs {
		if key.Matches(msg, p.b) {
			return p.a
		}
	}
	return core.ActionNone
}

// CommandFor returns the game command an action issues, if it issues one.
func CommandFor(a core.Action) (engine.Command, bool) {
	switch a {
	case core.ActionStart:
		return engine.StartCmd(), true
	case core.ActionEnd:
		return engine.EndCmd(), true
	case core.ActionPause:
		return engine.PauseCmd(), true
	case core.ActionMoveLeft:
		return engine.MoveCmd(-1, 0, 0), true
	case core.ActionMoveRight:
		return engine.MoveCmd(1, 0, 0), true
	case core.ActionMoveBack:
		return engine.MoveCmd(0, 0, -1), true
	case core.ActionMoveForward:
		return engine.MoveCmd(0, 0, 1), true
	case core.ActionSoftDrop:
		return engine.MoveCmd(0, -1, 0), true
	case core.ActionHardDrop:
		return engine.HardDropCmd(), true
	case core.ActionRotateXPos:
		return engine.RotateCmd(engine.AxisX, 90), true
	case core.ActionRotateXNeg:
		return engine.RotateCmd(engine.AxisX, -90), true
	case core.ActionRotateYPos:
		return engine.RotateCmd(engine.AxisY, 90), true
	case core.ActionRotateYNeg:
		return engine.RotateCmd(engine.AxisY, -90), true
	case core.ActionRotateZPos:
		return engine.RotateCmd(engine.AxisZ, 90), true
	case core.ActionRotateZNeg:
		return engine.RotateCmd(engine.AxisZ, -90), true
	}
	return engine.Command{}, false
}
