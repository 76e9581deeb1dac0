package cpu

import (
	"testing"

	"github.com/arlojohansen/dmgcore/memory"
	"github.com/stretchr/testify/assert"
)

func TestCPUInc(t *testing.T) {
	c := New(memory.New())

	testCases := []struct {
		desc  string
		arg   uint8
		want  uint8
		flags Flag
	}{
		{desc: "increases", arg: 0x0A, want: 0x0B},
		{desc: "sets zero flag", arg: 0xFF, want: 0, flags: zeroFlag | halfCarryFlag},
		{desc: "sets half carry crossing nibble", arg: 0x0F, want: 0x10, flags: halfCarryFlag},
		{desc: "no half carry mid-nibble", arg: 0x01, want: 0x02},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c.f = 0
			c.a = tC.arg
			c.inc(&c.a)
			assert.Equal(t, tC.want, c.a)
			assert.Equal(t, uint8(tC.flags), c.f)
		})
	}
}

func TestCPUDec(t *testing.T) {
	c := New(memory.New())

	testCases := []struct {
		desc  string
		arg   uint8
		want  uint8
		flags Flag
	}{
		{desc: "decreases", arg: 0x0A, want: 0x09, flags: subFlag},
		{desc: "sets half carry on borrow", arg: 0, want: 0xFF, flags: subFlag | halfCarryFlag},
		{desc: "sets zero flag", arg: 0x01, want: 0, flags: subFlag | zeroFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c.f = 0
			c.a = tC.arg
			c.dec(&c.a)
			assert.Equal(t, tC.want, c.a)
			assert.Equal(t, uint8(tC.flags), c.f)
		})
	}
}

func TestCPURlc(t *testing.T) {
	c := New(memory.New())

	testCases := []struct {
		desc  string
		arg   uint8
		want  uint8
		flags Flag
	}{
		{desc: "rotates left", arg: 0x01, want: 0x02},
		{desc: "sets carry flag", arg: 0x80, want: 0x01, flags: carryFlag},
		{desc: "sets zero flag", arg: 0, want: 0, flags: zeroFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c.f = 0
			c.a = tC.arg
			c.rlc(&c.a)
			assert.Equal(t, tC.want, c.a)
			assert.Equal(t, uint8(tC.flags), c.f)
		})
	}
}

func TestCPURrc(t *testing.T) {
	c := New(memory.New())

	testCases := []struct {
		desc  string
		arg   uint8
		want  uint8
		flags Flag
	}{
		{desc: "rotates right", arg: 0x02, want: 0x01},
		{desc: "sets carry flag from bit 0", arg: 0x01, want: 0x80, flags: carryFlag},
		{desc: "sets zero flag", arg: 0, want: 0, flags: zeroFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c.f = 0
			c.a = tC.arg
			c.rrc(&c.a)
			assert.Equal(t, tC.want, c.a)
			assert.Equal(t, uint8(tC.flags), c.f)
		})
	}
}

func TestCPURr(t *testing.T) {
	c := New(memory.New())

	testCases := []struct {
		desc         string
		arg          uint8
		want         uint8
		initialFlags Flag
		flags        Flag
	}{
		{desc: "rotates right", arg: 0x02, want: 0x01},
		{desc: "folds in carry at bit 7", arg: 0x02, want: 0x81, initialFlags: carryFlag},
		{desc: "sets carry flag from bit 0", arg: 1, want: 0, flags: carryFlag | zeroFlag},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			c.f = uint8(tC.initialFlags)
			c.a = tC.arg
			c.rr(&c.a)
			assert.Equal(t, tC.want, c.a)
			assert.Equal(t, uint8(tC.flags), c.f)
		})
	}
}

func TestCPUSlaSraSrl(t *testing.T) {
	c := New(memory.New())

	c.f = 0
	c.a = 0x81
	c.sla(&c.a)
	assert.Equal(t, uint8(0x02), c.a)
	assert.True(t, c.isSetFlag(carryFlag))

	c.f = 0
	c.a = 0x81
	c.sra(&c.a)
	assert.Equal(t, uint8(0xC0), c.a) // sign bit (0x80) preserved
	assert.True(t, c.isSetFlag(carryFlag))

	c.f = 0
	c.a = 0x01
	c.srl(&c.a)
	assert.Equal(t, uint8(0), c.a)
	assert.True(t, c.isSetFlag(carryFlag))
	assert.True(t, c.isSetFlag(zeroFlag))
}

func TestCPUSwap(t *testing.T) {
	c := New(memory.New())
	c.a = 0xAB

	c.swap(&c.a)

	assert.Equal(t, uint8(0xBA), c.a)
	assert.False(t, c.isSetFlag(carryFlag))
}

func TestCPUBitTest(t *testing.T) {
	c := New(memory.New())
	c.f = 0

	c.bitTest(3, 0x08)
	assert.False(t, c.isSetFlag(zeroFlag))
	assert.True(t, c.isSetFlag(halfCarryFlag))

	c.bitTest(3, 0x00)
	assert.True(t, c.isSetFlag(zeroFlag))
}

func TestCPUAddToA(t *testing.T) {
	c := New(memory.New())

	c.f = 0
	c.a = 0x0F
	c.addToA(0x01)
	assert.Equal(t, uint8(0x10), c.a)
	assert.True(t, c.isSetFlag(halfCarryFlag))
	assert.False(t, c.isSetFlag(carryFlag))

	c.f = 0
	c.a = 0xFF
	c.addToA(0x01)
	assert.Equal(t, uint8(0), c.a)
	assert.True(t, c.isSetFlag(zeroFlag))
	assert.True(t, c.isSetFlag(carryFlag))
}

func TestCPUAdcIncludesCarryIn(t *testing.T) {
	c := New(memory.New())
	c.f = uint8(carryFlag)
	c.a = 0x0E

	c.adc(0x01)

	assert.Equal(t, uint8(0x10), c.a)
	assert.True(t, c.isSetFlag(halfCarryFlag))
}

func TestCPUSubAndSbc(t *testing.T) {
	c := New(memory.New())

	c.f = 0
	c.a = 0x10
	c.sub(0x01)
	assert.Equal(t, uint8(0x0F), c.a)
	assert.True(t, c.isSetFlag(halfCarryFlag))
	assert.False(t, c.isSetFlag(carryFlag))

	c.f = uint8(carryFlag)
	c.a = 0x10
	c.sbc(0x01)
	assert.Equal(t, uint8(0x0E), c.a)
}

func TestCPUCpLeavesARegisterUnchanged(t *testing.T) {
	c := New(memory.New())
	c.a = 0x10

	c.cp(0x10)

	assert.Equal(t, uint8(0x10), c.a)
	assert.True(t, c.isSetFlag(zeroFlag))
}

func TestCPUAndOrXor(t *testing.T) {
	c := New(memory.New())

	c.a = 0xF0
	c.and(0x0F)
	assert.Equal(t, uint8(0), c.a)
	assert.True(t, c.isSetFlag(zeroFlag))
	assert.True(t, c.isSetFlag(halfCarryFlag))

	c.a = 0xF0
	c.or(0x0F)
	assert.Equal(t, uint8(0xFF), c.a)
	assert.False(t, c.isSetFlag(halfCarryFlag))

	c.a = 0xFF
	c.xor(0xFF)
	assert.Equal(t, uint8(0), c.a)
	assert.True(t, c.isSetFlag(zeroFlag))
}

func TestCPUDaaAfterBCDAddition(t *testing.T) {
	c := New(memory.New())
	c.f = 0
	c.a = 0x09
	c.addToA(0x08) // binary 0x11, needs decimal-adjust to 0x17

	c.daa()

	assert.Equal(t, uint8(0x17), c.a)
	assert.False(t, c.isSetFlag(carryFlag))
}

func TestCPUAddToHLSetsCarryNotZero(t *testing.T) {
	c := New(memory.New())
	c.f = uint8(zeroFlag)
	c.setHL(0xFFFF)

	c.addToHL(0x0001)

	assert.Equal(t, uint16(0), c.getHL())
	assert.True(t, c.isSetFlag(carryFlag))
	assert.True(t, c.isSetFlag(zeroFlag)) // addToHL never touches Z
}

func TestCPUAddToSPComputesHalfAndFullCarryOnLowByte(t *testing.T) {
	c := New(memory.New())
	c.sp = 0x00FF

	result := c.addToSP(1)

	assert.Equal(t, uint16(0x0100), result)
	assert.True(t, c.isSetFlag(halfCarryFlag))
	assert.True(t, c.isSetFlag(carryFlag))
	assert.False(t, c.isSetFlag(zeroFlag))
}
