package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows the platform to bind keys from configuration while the game
// works with high-level intents.
type Action int

const (
	ActionNone        Action = iota
	ActionMoveLeft           // x-1
	ActionMoveRight          // x+1
	ActionMoveBack           // z-1
	ActionMoveForward        // z+1
	ActionSoftDrop           // y-1
	ActionHardDrop           // drop until blocked, then lock
	ActionRotateXPos         // +90 around X
	ActionRotateXNeg         // -90 around X
	ActionRotateYPos         // +90 around Y
	ActionRotateYNeg         // -90 around Y
	ActionRotateZPos         // +90 around Z
	ActionRotateZNeg         // -90 around Z
	ActionPause              // toggle pause
	ActionStart              // start a new game
	ActionEnd                // abort to Ready
	ActionQuit               // exit the program/session
	ActionScreenshot         // save the screen as text
	ActionHelp               // toggle the full key help
)

var actionNames = map[Action]string{
	ActionNone:        "None",
	ActionMoveLeft:    "MoveLeft",
	ActionMoveRight:   "MoveRight",
	ActionMoveBack:    "MoveBack",
	ActionMoveForward: "MoveForward",
	ActionSoftDrop:    "SoftDrop",
	ActionHardDrop:    "HardDrop",
	ActionRotateXPos:  "RotateX+",
	ActionRotateXNeg:  "RotateX-",
	ActionRotateYPos:  "RotateY+",
	ActionRotateYNeg:  "RotateY-",
	ActionRotateZPos:  "RotateZ+",
	ActionRotateZNeg:  "RotateZ-",
	ActionPause:       "Pause",
	ActionStart:       "Start",
	ActionEnd:         "End",
	ActionQuit:        "Quit",
	ActionScreenshot:  "Screenshot",
	ActionHelp:        "Help",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}
