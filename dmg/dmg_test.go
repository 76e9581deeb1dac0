package dmg

import (
	"testing"

	"github.com/arlojohansen/dmgcore/memory"
	"github.com/stretchr/testify/assert"
)

func TestRunFrameConsumesExactlyOneFrameOfCycles(t *testing.T) {
	m := New(memory.NewCartridge(), nil)

	code, err := m.RunFrame()

	assert.Equal(t, ExitOK, code)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), m.FrameCount())
	assert.Greater(t, m.InstructionCount(), uint64(0))
}

func TestBootROMStartsExecutionAtZero(t *testing.T) {
	boot := make([]byte, 0x100)
	boot[0] = 0x00 // NOP
	m := New(memory.NewCartridge(), boot)

	assert.Equal(t, uint16(0x0000), m.Snapshot().PC)

	m.Step()

	assert.Equal(t, uint16(0x0001), m.Snapshot().PC)
}

func TestNoBootROMStartsAtPostBootState(t *testing.T) {
	m := New(memory.NewCartridge(), nil)

	assert.Equal(t, uint16(0x0100), m.Snapshot().PC)
}

func TestUnimplementedOpcodeReportsExitCode(t *testing.T) {
	cart := memory.NewCartridge()
	m := New(cart, nil)
	m.CPU.SetPC(0xC000)
	m.Bus.Write(0xC000, 0xD3) // illegal opcode, in work RAM since ROM ignores writes

	code, err := m.RunFrame()

	assert.Equal(t, ExitUnimplementedOpcode, code)
	assert.Error(t, err)
}

func TestStrictIOViolationReportsExitCode(t *testing.T) {
	cart := memory.NewCartridge()
	m := New(cart, nil)
	m.SetStrictIO(true)
	m.CPU.SetPC(0xC000)
	m.Bus.Write(0xC000, 0xEA) // LD (nn),A, in work RAM since ROM ignores writes
	m.Bus.Write(0xC001, 0x6F) // target 0xFF6F: unspecified register
	m.Bus.Write(0xC002, 0xFF)

	code, err := m.RunFrame()

	assert.Equal(t, ExitStrictIOViolation, code)
	assert.Error(t, err)
}

func TestHandleKeyPressRaisesJoypadInterrupt(t *testing.T) {
	m := New(memory.NewCartridge(), nil)
	m.Bus.Write(0xFF0F, 0x00)

	m.HandleKeyPress(memory.JoypadStart)

	assert.True(t, m.Bus.Read(0xFF0F)&0x10 != 0)
}
