// Package input routes backend key events to either the joypad (for Game
// Boy controls) or a registered callback (for everything else), with
// debouncing for discrete press/release events.
package input

import (
	"time"

	"github.com/arlojohansen/dmgcore/input/action"
	"github.com/arlojohansen/dmgcore/input/event"
	"github.com/arlojohansen/dmgcore/memory"
)

const debounceDuration = 300 * time.Millisecond

// Manager dispatches actions: Game Boy controls go straight to a joypad
// sink, everything else runs whatever callbacks On registered for it.
type Manager struct {
	handlers      map[action.Action]map[event.Type][]func()
	lastTriggered map[action.Action]map[event.Type]time.Time
	joypad        JoypadSink
}

// JoypadSink is the two calls a Manager needs to forward GB button edges.
// *memory.Bus satisfies this directly.
type JoypadSink interface {
	HandleKeyPress(key memory.JoypadKey)
	HandleKeyRelease(key memory.JoypadKey)
}

// NewManager creates a Manager that forwards GB controls to joypad.
func NewManager(joypad JoypadSink) *Manager {
	return &Manager{
		handlers:      make(map[action.Action]map[event.Type][]func()),
		lastTriggered: make(map[action.Action]map[event.Type]time.Time),
		joypad:        joypad,
	}
}

// On registers callback to run whenever act/evt is triggered and act is not
// a Game Boy control (those always go to the joypad instead).
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}
	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger dispatches one action/event pair, debouncing Press/Release.
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	if evt == event.Press || evt == event.Release {
		if m.lastTriggered[act] == nil {
			m.lastTriggered[act] = make(map[event.Type]time.Time)
		}
		now := time.Now()
		if now.Sub(m.lastTriggered[act][evt]) < debounceDuration {
			return
		}
		m.lastTriggered[act][evt] = now
	}

	if key, ok := joypadKey(act); ok {
		switch evt {
		case event.Press:
			m.joypad.HandleKeyPress(key)
		case event.Release:
			m.joypad.HandleKeyRelease(key)
		}
		return
	}

	for _, callback := range m.handlers[act][evt] {
		callback()
	}
}

func joypadKey(act action.Action) (memory.JoypadKey, bool) {
	switch act {
	case action.GBButtonA:
		return memory.JoypadA, true
	case action.GBButtonB:
		return memory.JoypadB, true
	case action.GBButtonStart:
		return memory.JoypadStart, true
	case action.GBButtonSelect:
		return memory.JoypadSelect, true
	case action.GBDPadUp:
		return memory.JoypadUp, true
	case action.GBDPadDown:
		return memory.JoypadDown, true
	case action.GBDPadLeft:
		return memory.JoypadLeft, true
	case action.GBDPadRight:
		return memory.JoypadRight, true
	default:
		return 0, false
	}
}
