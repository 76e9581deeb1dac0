package input

import "github.com/arlojohansen/dmgcore/input/action"

// DefaultKeyMap maps a backend's key-name strings (tcell key names, SDL
// scancode names, whatever the backend normalizes to) to an Action. A
// backend may extend or override entries before wiring them to a Manager.
var DefaultKeyMap = map[string]action.Action{
	"z":     action.GBButtonA,
	"x":     action.GBButtonB,
	"Enter": action.GBButtonStart,
	"Shift": action.GBButtonSelect,
	"Up":    action.GBDPadUp,
	"Down":  action.GBDPadDown,
	"Left":  action.GBDPadLeft,
	"Right": action.GBDPadRight,

	"Space":  action.EmulatorPauseToggle,
	"f":      action.EmulatorStepFrame,
	"n":      action.EmulatorStepInstruction,
	"Escape": action.EmulatorQuit,
	"q":      action.EmulatorQuit,
}

// Lookup returns the action bound to key, if any.
func Lookup(key string) (action.Action, bool) {
	act, ok := DefaultKeyMap[key]
	return act, ok
}
