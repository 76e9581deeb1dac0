package cpu

import (
	"testing"

	"github.com/arlojohansen/dmgcore/memory"
	"github.com/stretchr/testify/assert"
)

func TestRegisterPairs(t *testing.T) {
	c := New(memory.New())

	c.setBC(0xBEEF)
	assert.Equal(t, uint16(0xBEEF), c.getBC())
	assert.Equal(t, uint8(0xBE), c.b)
	assert.Equal(t, uint8(0xEF), c.c)

	c.setDE(0xCAFE)
	assert.Equal(t, uint16(0xCAFE), c.getDE())

	c.setHL(0x1234)
	assert.Equal(t, uint16(0x1234), c.getHL())
}

func TestAFMasksLowNibbleOfF(t *testing.T) {
	c := New(memory.New())

	c.setAF(0x01FF)

	assert.Equal(t, uint8(0x01), c.a)
	assert.Equal(t, uint8(0xF0), c.f) // low nibble of F is always zero
	assert.Equal(t, uint16(0x01F0), c.getAF())
}

func TestFlagHelpers(t *testing.T) {
	c := New(memory.New())
	c.f = 0

	c.setFlag(zeroFlag)
	assert.True(t, c.isSetFlag(zeroFlag))
	assert.Equal(t, uint8(1), c.flagToBit(zeroFlag))

	c.resetFlag(zeroFlag)
	assert.False(t, c.isSetFlag(zeroFlag))
	assert.Equal(t, uint8(0), c.flagToBit(zeroFlag))

	c.setFlagToCondition(carryFlag, true)
	assert.True(t, c.isSetFlag(carryFlag))
	c.setFlagToCondition(carryFlag, false)
	assert.False(t, c.isSetFlag(carryFlag))
}

func TestStackPushPop(t *testing.T) {
	c := New(memory.New())
	c.sp = 0xFFFE

	c.pushStack(0xBEEF)
	assert.Equal(t, uint16(0xFFFC), c.sp)

	v := c.popStack()
	assert.Equal(t, uint16(0xBEEF), v)
	assert.Equal(t, uint16(0xFFFE), c.sp)
}

func TestReadImmediateAdvancesPC(t *testing.T) {
	bus := memory.New()
	c := New(bus)
	c.pc = 0xC000
	bus.Write(0xC000, 0x34)
	bus.Write(0xC001, 0x12)

	word := c.readImmediateWord()

	assert.Equal(t, uint16(0x1234), word)
	assert.Equal(t, uint16(0xC002), c.pc)
}

func TestNewSeedsPostBootRegisterValues(t *testing.T) {
	c := New(memory.New())

	assert.Equal(t, uint16(0x0100), c.pc)
	assert.Equal(t, uint16(0xFFFE), c.sp)
	assert.Equal(t, uint16(0x01B0), c.getAF())
}
