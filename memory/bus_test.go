package memory

import (
	"testing"

	"github.com/arlojohansen/dmgcore/addr"
	"github.com/stretchr/testify/assert"
)

func TestBootROMOverlayDisablesOnWrite(t *testing.T) {
	bus := New()
	bootROM := make([]byte, 0x100)
	bootROM[0] = 0xAB
	bus.LoadBootROM(bootROM)

	assert.Equal(t, byte(0xAB), bus.Read(0x0000))

	bus.Write(addr.BootROMDisable, 0x01)
	assert.NotEqual(t, byte(0xAB), bus.Read(0x0000)) // now reads through to cartridge ROM

	bus.LoadBootROM(bootROM)
	bus.Write(addr.BootROMDisable, 0x00) // any value disables, not just nonzero
	assert.NotEqual(t, byte(0xAB), bus.Read(0x0000))
}

func TestOAMDMACopiesFromSourcePage(t *testing.T) {
	bus := New()
	for i := uint16(0); i < 160; i++ {
		bus.Write(0xC000+i, byte(i))
	}

	bus.Write(addr.DMA, 0xC0)

	for i := uint16(0); i < 160; i++ {
		assert.Equal(t, byte(i), bus.Read(addr.OAMStart+i))
	}
}

func TestJoypadSelectsDpadOrButtons(t *testing.T) {
	bus := New()
	bus.HandleKeyPress(JoypadRight)
	bus.HandleKeyPress(JoypadA)

	bus.Write(addr.P1, 0b0010_0000) // bit4=0 selects dpad
	p1 := bus.Read(addr.P1)
	assert.False(t, p1&0x01 != 0) // right pressed -> bit 0 low

	bus.Write(addr.P1, 0b0001_0000) // bit5=0 selects buttons
	p1 = bus.Read(addr.P1)
	assert.False(t, p1&0x01 != 0) // A pressed -> bit 0 low
}

func TestJoypadInterruptOnPress(t *testing.T) {
	bus := New()
	bus.Write(addr.IF, 0x00)

	bus.HandleKeyPress(JoypadStart)

	assert.True(t, bus.Read(addr.IF)&uint8(addr.JoypadInterrupt) != 0)
}

func TestVRAMGatingBlocksReadsAndWrites(t *testing.T) {
	bus := New()
	bus.Write(0x8000, 0x42)
	assert.Equal(t, byte(0x42), bus.Read(0x8000))

	bus.SetAccessGates(true, false)
	assert.Equal(t, byte(0xFF), bus.Read(0x8000))

	bus.Write(0x8000, 0x99) // dropped while blocked
	bus.SetAccessGates(false, false)
	assert.Equal(t, byte(0x42), bus.Read(0x8000))
}

func TestIFRegisterForcesHighBits(t *testing.T) {
	bus := New()
	bus.Write(addr.IF, 0x01)
	assert.Equal(t, byte(0xE1), bus.Read(addr.IF))
}

func TestStrictIOPanicsOnUnspecifiedRegister(t *testing.T) {
	bus := New()
	bus.StrictIO = true

	assert.Panics(t, func() {
		bus.Write(0xFF6F, 0x00)
	})
}

func TestNonStrictIOWarnsOnUnspecifiedRegister(t *testing.T) {
	bus := New()

	assert.NotPanics(t, func() {
		bus.Write(0xFF6F, 0x00)
	})
}

func TestEchoRAMMirrorsWorkRAM(t *testing.T) {
	bus := New()
	bus.Write(0xC010, 0x77)
	assert.Equal(t, byte(0x77), bus.Read(0xE010))

	bus.Write(0xE020, 0x88)
	assert.Equal(t, byte(0x88), bus.Read(0xC020))
}
