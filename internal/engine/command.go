package engine

import (
	"fmt"

	"github.com/vovakirdan/cubefall/internal/core"
)

// CommandKind identifies a game command.
type CommandKind uint8

const (
	CmdNone CommandKind = iota
	CmdStart
	CmdEnd
	CmdTogglePause
	CmdMove
	CmdRotate
	CmdHardDrop
	CmdTick
)

var commandNames = map[CommandKind]string{
	CmdNone:        "none",
	CmdStart:       "start",
	CmdEnd:         "end",
	CmdTogglePause: "pause",
	CmdMove:        "move",
	CmdRotate:      "rotate",
	CmdHardDrop:    "drop",
	CmdTick:        "tick",
}

// String returns the stable name used in replays.
func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseCommandKind is the inverse of CommandKind.String.
func ParseCommandKind(s string) (CommandKind, error) {
	for k, name := range commandNames {
		if name == s && k != CmdNone {
			return k, nil
		}
	}
	return CmdNone, fmt.Errorf("engine: unknown command kind %q", s)
}

// Command is a serializable request to the game. A seed plus the ordered
// commands of a session, ticks included, reproduce the session exactly.
type Command struct {
	Kind    CommandKind
	Delta   core.Vec3 // CmdMove
	Axis    Axis      // CmdRotate
	Degrees int       // CmdRotate
}

// StartCmd returns a start command.
func StartCmd() Command { return Command{Kind: CmdStart} }

// EndCmd returns an end command.
func EndCmd() Command { return Command{Kind: CmdEnd} }

// PauseCmd returns a pause toggle command.
func PauseCmd() Command { return Command{Kind: CmdTogglePause} }

// MoveCmd returns a translation command.
func MoveCmd(dx, dy, dz int) Command {
	return Command{Kind: CmdMove, Delta: core.V(dx, dy, dz)}
}

// RotateCmd returns a rotation command.
func RotateCmd(axis Axis, degrees int) Command {
	return Command{Kind: CmdRotate, Axis: axis, Degrees: degrees}
}

// HardDropCmd returns a hard drop command.
func HardDropCmd() Command { return Command{Kind: CmdHardDrop} }

// TickCmd returns a gravity tick.
func TickCmd() Command { return Command{Kind: CmdTick} }

// String implements fmt.Stringer.
func (c Command) String() string {
	switch c.Kind {
	case CmdMove:
		return fmt.Sprintf("move%v", c.Delta)
	case CmdRotate:
		return fmt.Sprintf("rotate(%s,%+d)", c.Axis, c.Degrees)
	default:
		return c.Kind.String()
	}
}

// StepResult reports what a command did.
type StepResult struct {
	Accepted bool // the command changed state
	Locked   bool // the active piece was written into the grid
	Dropped  int  // rows fallen during a hard drop
	Cleared  int  // layers cleared by the lock
	Awarded  int  // points added by the lock
	LevelUp  bool
	GameOver bool // the lock's respawn collided
	Phase    Phase
}
