package input

import (
	"testing"

	"github.com/arlojohansen/dmgcore/input/action"
	"github.com/arlojohansen/dmgcore/input/event"
	"github.com/arlojohansen/dmgcore/memory"
	"github.com/stretchr/testify/assert"
)

type fakeJoypad struct {
	pressed  []memory.JoypadKey
	released []memory.JoypadKey
}

func (f *fakeJoypad) HandleKeyPress(key memory.JoypadKey)   { f.pressed = append(f.pressed, key) }
func (f *fakeJoypad) HandleKeyRelease(key memory.JoypadKey) { f.released = append(f.released, key) }

func TestTriggerRoutesGBButtonToJoypad(t *testing.T) {
	joypad := &fakeJoypad{}
	m := NewManager(joypad)

	m.Trigger(action.GBButtonA, event.Press)

	assert.Equal(t, []memory.JoypadKey{memory.JoypadA}, joypad.pressed)
}

func TestTriggerRoutesNonGBActionToCallback(t *testing.T) {
	joypad := &fakeJoypad{}
	m := NewManager(joypad)
	called := false
	m.On(action.EmulatorPauseToggle, event.Press, func() { called = true })

	m.Trigger(action.EmulatorPauseToggle, event.Press)

	assert.True(t, called)
	assert.Empty(t, joypad.pressed)
}

func TestTriggerDebouncesRepeatedPress(t *testing.T) {
	joypad := &fakeJoypad{}
	m := NewManager(joypad)

	m.Trigger(action.GBButtonA, event.Press)
	m.Trigger(action.GBButtonA, event.Press)

	assert.Len(t, joypad.pressed, 1)
}

func TestLookupFindsDefaultBinding(t *testing.T) {
	act, ok := Lookup("z")

	assert.True(t, ok)
	assert.Equal(t, action.GBButtonA, act)
}

func TestLookupMissingKeyReturnsFalse(t *testing.T) {
	_, ok := Lookup("F13")

	assert.False(t, ok)
}
