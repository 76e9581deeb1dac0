package cpu

import "github.com/arlojohansen/dmgcore/bit"

func (c *CPU) inc(r *uint8) {
	*r++
	v := *r
	c.setFlagToCondition(zeroFlag, v == 0)
	c.setFlagToCondition(halfCarryFlag, (v&0xF) == 0x0)
	c.resetFlag(subFlag)
}

func (c *CPU) dec(r *uint8) {
	*r--
	v := *r
	c.setFlagToCondition(zeroFlag, v == 0)
	c.setFlagToCondition(halfCarryFlag, (v&0xF) == 0xF)
	c.setFlag(subFlag)
}

func (c *CPU) rlc(r *uint8) {
	v := *r
	c.setFlagToCondition(carryFlag, v > 0x7F)
	v = (v << 1) | (v >> 7)
	*r = v
	c.setFlagToCondition(zeroFlag, v == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
}

func (c *CPU) rl(r *uint8) {
	v := *r
	carry := c.flagToBit(carryFlag)
	c.setFlagToCondition(carryFlag, v > 0x7F)
	v = (v << 1) | carry
	*r = v
	c.setFlagToCondition(zeroFlag, v == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
}

func (c *CPU) rrc(r *uint8) {
	v := *r
	c.setFlagToCondition(carryFlag, v&1 == 1)
	v = (v >> 1) | ((v & 1) << 7)
	*r = v
	c.setFlagToCondition(zeroFlag, v == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
}

func (c *CPU) rr(r *uint8) {
	v := *r
	carry := c.flagToBit(carryFlag) << 7
	c.setFlagToCondition(carryFlag, v&1 == 1)
	v = (v >> 1) | carry
	*r = v
	c.setFlagToCondition(zeroFlag, v == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
}

func (c *CPU) sla(r *uint8) {
	v := *r
	c.setFlagToCondition(carryFlag, v > 0x7F)
	v <<= 1
	*r = v
	c.setFlagToCondition(zeroFlag, v == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
}

func (c *CPU) sra(r *uint8) {
	v := *r
	c.setFlagToCondition(carryFlag, v&1 == 1)
	v = (v >> 1) | (v & 0x80)
	*r = v
	c.setFlagToCondition(zeroFlag, v == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
}

func (c *CPU) srl(r *uint8) {
	v := *r
	c.setFlagToCondition(carryFlag, v&1 == 1)
	v >>= 1
	*r = v
	c.setFlagToCondition(zeroFlag, v == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
}

func (c *CPU) swap(r *uint8) {
	v := *r
	v = (v << 4) | (v >> 4)
	*r = v
	c.setFlagToCondition(zeroFlag, v == 0)
	c.resetFlag(subFlag)
	c.resetFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

func (c *CPU) bitTest(index uint8, v uint8) {
	c.setFlagToCondition(zeroFlag, !bit.IsSet(index, v))
	c.resetFlag(subFlag)
	c.setFlag(halfCarryFlag)
}

// addToA adds value to A, setting all relevant flags.
func (c *CPU) addToA(value uint8) {
	a := c.a
	result := a + value

	c.setFlagToCondition(carryFlag, (uint16(a)+uint16(value)) > 0xFF)
	c.setFlagToCondition(halfCarryFlag, (a&0xF)+(value&0xF) > 0xF)
	c.resetFlag(subFlag)
	c.setFlagToCondition(zeroFlag, result == 0)

	c.a = result
}

func (c *CPU) adc(value uint8) {
	a := c.a
	carry := c.flagToBit(carryFlag)
	result := uint16(a) + uint16(value) + uint16(carry)

	c.setFlagToCondition(carryFlag, result > 0xFF)
	c.setFlagToCondition(halfCarryFlag, (a&0xF)+(value&0xF)+carry > 0xF)
	c.resetFlag(subFlag)
	c.setFlagToCondition(zeroFlag, uint8(result) == 0)

	c.a = uint8(result)
}

// addToHL adds reg to HL, setting relevant flags (Z is left unaffected).
func (c *CPU) addToHL(reg uint16) {
	hl := c.getHL()
	result := hl + reg

	c.resetFlag(subFlag)
	c.setFlagToCondition(carryFlag, (uint32(hl)+uint32(reg)) > 0xFFFF)
	c.setFlagToCondition(halfCarryFlag, (hl&0xFFF)+(reg&0xFFF) > 0xFFF)

	c.setHL(result)
}

// addToSP implements ADD SP,e / LD HL,SP+e: the signed 8-bit immediate is
// added, with carry/half-carry computed on the low byte as real hardware
// does, and Z/N always cleared.
func (c *CPU) addToSP(offset int8) uint16 {
	sp := c.sp
	result := uint16(int32(sp) + int32(offset))

	c.resetFlag(zeroFlag)
	c.resetFlag(subFlag)
	c.setFlagToCondition(halfCarryFlag, (sp&0xF)+(uint16(uint8(offset))&0xF) > 0xF)
	c.setFlagToCondition(carryFlag, (sp&0xFF)+(uint16(uint8(offset))&0xFF) > 0xFF)

	return result
}

func (c *CPU) sub(value uint8) {
	a := c.a
	c.a = a - value

	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(carryFlag, a < value)
	c.setFlagToCondition(halfCarryFlag, (a&0xF) < (value&0xF))
}

func (c *CPU) sbc(value uint8) {
	a := c.a
	carry := c.flagToBit(carryFlag)
	result := int(a) - int(value) - int(carry)

	c.setFlagToCondition(zeroFlag, uint8(result) == 0)
	c.setFlag(subFlag)
	c.setFlagToCondition(carryFlag, result < 0)
	c.setFlagToCondition(halfCarryFlag, (int(a)&0xF)-(int(value)&0xF)-int(carry) < 0)

	c.a = uint8(result)
}

func (c *CPU) and(value uint8) {
	c.a &= value
	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.setFlag(halfCarryFlag)
	c.resetFlag(carryFlag)
}

func (c *CPU) or(value uint8) {
	c.a |= value
	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.resetFlag(carryFlag)
	c.resetFlag(halfCarryFlag)
}

func (c *CPU) xor(value uint8) {
	c.a ^= value
	c.setFlagToCondition(zeroFlag, c.a == 0)
	c.resetFlag(subFlag)
	c.resetFlag(carryFlag)
	c.resetFlag(halfCarryFlag)
}

// cp compares value against A without storing the result.
func (c *CPU) cp(value uint8) {
	a := c.a
	c.sub(value)
	c.a = a
}

func (c *CPU) daa() {
	a := c.a
	adjust := uint8(0)
	carry := false

	if c.isSetFlag(subFlag) {
		if c.isSetFlag(halfCarryFlag) {
			adjust += 0x06
		}
		if c.isSetFlag(carryFlag) {
			adjust += 0x60
			carry = true
		}
		a -= adjust
	} else {
		if c.isSetFlag(halfCarryFlag) || a&0xF > 0x9 {
			adjust += 0x06
		}
		if c.isSetFlag(carryFlag) || a > 0x99 {
			adjust += 0x60
			carry = true
		}
		a += adjust
	}

	c.a = a
	c.setFlagToCondition(zeroFlag, a == 0)
	c.resetFlag(halfCarryFlag)
	c.setFlagToCondition(carryFlag, carry)
}
