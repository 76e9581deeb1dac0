package debugger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBreaksAtResetVector(t *testing.T) {
	d := New()

	assert.True(t, d.ShouldBreak(0x0000))
}

func TestShouldBreakIgnoresUnsetAddress(t *testing.T) {
	d := New()

	assert.False(t, d.ShouldBreak(0x0150))
}

func TestParseBreakpointAddsAddress(t *testing.T) {
	d := New()

	cmd := d.Parse("breakpoint 150")

	assert.Equal(t, SetBreakpoint, cmd.Kind)
	assert.Equal(t, uint16(0x0150), cmd.Address)
	assert.True(t, d.ShouldBreak(0x0150))
}

func TestParseRemoveBreakpointClearsAddress(t *testing.T) {
	d := New()
	d.Parse("b 150")

	cmd := d.Parse("-b 150")

	assert.Equal(t, ClearBreakpoint, cmd.Kind)
	assert.False(t, d.ShouldBreak(0x0150))
}

func TestParseNextDefaultsToOneStep(t *testing.T) {
	d := New()

	cmd := d.Parse("next")

	assert.Equal(t, Next, cmd.Kind)
	assert.True(t, d.ShouldBreak(0xC000))
}

func TestParseNextWithCountStepsMultipleTimes(t *testing.T) {
	d := New()

	d.Parse("next 3")

	assert.False(t, d.ShouldBreak(0xC000))
	assert.False(t, d.ShouldBreak(0xC001))
	assert.True(t, d.ShouldBreak(0xC002))
}

func TestParseMemoryDefaultsLengthToOne(t *testing.T) {
	d := New()

	cmd := d.Parse("memory FF80")

	assert.Equal(t, MemoryPrint, cmd.Kind)
	assert.Equal(t, uint16(0xFF80), cmd.Address)
	assert.Equal(t, 1, cmd.Length)
}

func TestParseMemoryWithExplicitLength(t *testing.T) {
	d := New()

	cmd := d.Parse("mem FF80 16")

	assert.Equal(t, 16, cmd.Length)
}

func TestParseTogglesAreIndependent(t *testing.T) {
	d := New()

	d.Parse("background-on")
	d.Parse("log-on")
	d.Parse("cpu-print-on")

	assert.True(t, d.ShowBackground)
	assert.True(t, d.LogEnabled)
	assert.True(t, d.CPUPrintEnabled)

	d.Parse("background-off")
	assert.False(t, d.ShowBackground)
	assert.True(t, d.LogEnabled)
}

func TestParseUnknownCommandIsInvalid(t *testing.T) {
	d := New()

	cmd := d.Parse("frobnicate")

	assert.Equal(t, Invalid, cmd.Kind)
	assert.Contains(t, cmd.Error(), "frobnicate")
}

func TestParseQuitAliases(t *testing.T) {
	d := New()

	for _, alias := range []string{"quit", "q", "exit", "e"} {
		assert.Equal(t, Quit, d.Parse(alias).Kind)
	}
}
