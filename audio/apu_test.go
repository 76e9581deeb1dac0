package audio

import (
	"testing"

	"github.com/arlojohansen/dmgcore/addr"
	"github.com/stretchr/testify/assert"
)

func newEnabledAPU() *APU {
	a := New(44100, 4194304)
	a.WriteRegister(addr.NR52, 0x80) // power on
	return a
}

func TestTriggerEnablesChannelWithNonZeroVolume(t *testing.T) {
	a := newEnabledAPU()
	a.WriteRegister(addr.NR12, 0xF0) // volume 15, envelope decreasing pace 0
	a.WriteRegister(addr.NR14, 0x80) // trigger

	assert.True(t, a.ch.enabled)
	assert.True(t, a.ch.dacEnabled)
}

func TestTriggerWithZeroVolumeAndNoEnvelopeLeavesDacOff(t *testing.T) {
	a := newEnabledAPU()
	a.WriteRegister(addr.NR12, 0x00)
	a.WriteRegister(addr.NR14, 0x80)

	assert.False(t, a.ch.dacEnabled)
	assert.False(t, a.ch.enabled)
}

func TestLengthCounterDisablesChannel(t *testing.T) {
	a := newEnabledAPU()
	a.WriteRegister(addr.NR11, 0x3F) // length = 64 - 63 = 1
	a.WriteRegister(addr.NR12, 0xF0)
	a.WriteRegister(addr.NR14, 0xC0) // trigger + length enable

	assert.True(t, a.ch.enabled)

	// advance one frame-sequencer step; length clocks on step 0.
	a.Tick(cyclesPerStep)
	assert.False(t, a.ch.enabled, "channel should disable once length reaches zero")
}

func TestPowerOffClearsRegisters(t *testing.T) {
	a := newEnabledAPU()
	a.WriteRegister(addr.NR12, 0xF0)
	a.WriteRegister(addr.NR14, 0x80)
	a.WriteRegister(addr.NR52, 0x00)

	assert.False(t, a.ch.enabled)
	assert.Equal(t, uint8(0), a.NR12)
}

func TestGetSamplesZeroFillsWhenDry(t *testing.T) {
	a := New(44100, 4194304)
	out := a.GetSamples(4)
	assert.Len(t, out, 4)
	for _, s := range out {
		assert.Equal(t, int16(0), s)
	}
}
