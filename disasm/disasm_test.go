package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeBus map[uint16]byte

func (f fakeBus) Read(address uint16) byte { return f[address] }

func TestDisassembleAtSingleByteInstruction(t *testing.T) {
	bus := fakeBus{0xC000: 0x00}

	line := DisassembleAt(0xC000, bus)

	assert.Equal(t, "NOP", line.Instruction)
	assert.Equal(t, 1, line.Length)
}

func TestDisassembleAtEightBitImmediate(t *testing.T) {
	bus := fakeBus{0xC000: 0x3E, 0xC001: 0x42}

	line := DisassembleAt(0xC000, bus)

	assert.Equal(t, "LD A,0x42", line.Instruction)
	assert.Equal(t, 2, line.Length)
}

func TestDisassembleAtSixteenBitImmediate(t *testing.T) {
	bus := fakeBus{0xC000: 0xC3, 0xC001: 0x34, 0xC002: 0x12}

	line := DisassembleAt(0xC000, bus)

	assert.Equal(t, "JP 0x1234", line.Instruction)
	assert.Equal(t, 3, line.Length)
}

func TestDisassembleAtRegisterToRegisterLoad(t *testing.T) {
	bus := fakeBus{0xC000: 0x78} // LD A,B

	line := DisassembleAt(0xC000, bus)

	assert.Equal(t, "LD A,B", line.Instruction)
}

func TestDisassembleAtCBPrefixed(t *testing.T) {
	bus := fakeBus{0xC000: 0xCB, 0xC001: 0x7E} // BIT 7,(HL)

	line := DisassembleAt(0xC000, bus)

	assert.Equal(t, "BIT 7,(HL)", line.Instruction)
	assert.Equal(t, 2, line.Length)
}

func TestDisassembleAtIllegalOpcode(t *testing.T) {
	bus := fakeBus{0xC000: 0xD3}

	line := DisassembleAt(0xC000, bus)

	assert.Equal(t, "DB 0xD3", line.Instruction)
}

func TestDisassembleRangeFollowsInstructionLengths(t *testing.T) {
	bus := fakeBus{
		0xC000: 0x00,       // NOP, length 1
		0xC001: 0x3E, 0xC002: 0x05, // LD A,5, length 2
		0xC003: 0xC3, 0xC004: 0x00, 0xC005: 0xC0, // JP, length 3
	}

	lines := DisassembleRange(0xC000, 3, bus)

	assert.Len(t, lines, 3)
	assert.Equal(t, uint16(0xC000), lines[0].Address)
	assert.Equal(t, uint16(0xC001), lines[1].Address)
	assert.Equal(t, uint16(0xC003), lines[2].Address)
}

func TestFormatMarksCurrentPC(t *testing.T) {
	line := Line{Address: 0x0100, Instruction: "NOP", Length: 1}

	assert.Equal(t, ">0x0100: NOP", Format(line, true))
	assert.Equal(t, " 0x0100: NOP", Format(line, false))
}
