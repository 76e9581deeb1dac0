// Package action enumerates the logical inputs a backend can report,
// independent of which physical key or controller produced them.
package action

// Action is one logical input: a Game Boy button or an emulator/debug
// control a backend exposes on top of it.
type Action int

const (
	GBButtonA Action = iota
	GBButtonB
	GBButtonStart
	GBButtonSelect
	GBDPadUp
	GBDPadDown
	GBDPadLeft
	GBDPadRight

	EmulatorPauseToggle
	EmulatorStepFrame
	EmulatorStepInstruction
	EmulatorQuit
)

// Category groups actions for routing: GB controls go straight to the
// joypad, everything else is the emulator/debugger's concern.
type Category int

const (
	CategoryGameInput Category = iota
	CategoryEmulator
)

// Info is metadata about an action: which category it routes to, and
// whether it is marked as a debounced control. input.Manager does not
// consult Debounce: its Trigger debounces every Press/Release event.
type Info struct {
	Category    Category
	Debounce    bool
	Description string
}

var infoByAction = map[Action]Info{
	GBButtonA:      {Category: CategoryGameInput, Description: "A button"},
	GBButtonB:      {Category: CategoryGameInput, Description: "B button"},
	GBButtonStart:  {Category: CategoryGameInput, Description: "Start button"},
	GBButtonSelect: {Category: CategoryGameInput, Description: "Select button"},
	GBDPadUp:       {Category: CategoryGameInput, Description: "D-pad up"},
	GBDPadDown:     {Category: CategoryGameInput, Description: "D-pad down"},
	GBDPadLeft:     {Category: CategoryGameInput, Description: "D-pad left"},
	GBDPadRight:    {Category: CategoryGameInput, Description: "D-pad right"},

	EmulatorPauseToggle:     {Category: CategoryEmulator, Debounce: true, Description: "Toggle pause"},
	EmulatorStepFrame:       {Category: CategoryEmulator, Debounce: true, Description: "Step one frame"},
	EmulatorStepInstruction: {Category: CategoryEmulator, Debounce: true, Description: "Step one instruction"},
	EmulatorQuit:            {Category: CategoryEmulator, Debounce: true, Description: "Quit"},
}

// Describe returns metadata for a, or a permissive default for an action
// this table doesn't know (never debounced, routed to the emulator).
func Describe(a Action) Info {
	if info, ok := infoByAction[a]; ok {
		return info
	}
	return Info{Category: CategoryEmulator, Description: "unknown action"}
}
