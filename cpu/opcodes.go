package cpu

import "github.com/arlojohansen/dmgcore/bit"

// buildBaseTable fills every base-opcode slot not covered by the regular
// LD r,r' (0x40-0x7F) and ALU A,r (0x80-0xBF) blocks: the irregular 0x00-0x3F
// range, HALT, and the stack/branch/misc 0xC0-0xFF range.
func buildBaseTable() {
	opcodeTable[0x00] = func(c *CPU) int { return 4 } // NOP

	opcodeTable[0x01] = func(c *CPU) int { c.setBC(c.readImmediateWord()); return 12 }
	opcodeTable[0x02] = func(c *CPU) int { return 8 + c.writeByte(c.getBC(), c.a) }
	opcodeTable[0x03] = func(c *CPU) int { c.setBC(c.getBC() + 1); return 8 }
	opcodeTable[0x04] = func(c *CPU) int { c.inc(&c.b); return 4 }
	opcodeTable[0x05] = func(c *CPU) int { c.dec(&c.b); return 4 }
	opcodeTable[0x06] = func(c *CPU) int { c.b = c.readImmediate(); return 8 }
	opcodeTable[0x07] = func(c *CPU) int { c.rlc(&c.a); c.resetFlag(zeroFlag); return 4 }
	opcodeTable[0x08] = func(c *CPU) int {
		target := c.readImmediateWord()
		extra := c.writeByte(target, bit.Low(c.sp))
		extra += c.writeByte(target+1, bit.High(c.sp))
		return 20 + extra
	}
	opcodeTable[0x09] = func(c *CPU) int { c.addToHL(c.getBC()); return 8 }
	opcodeTable[0x0A] = func(c *CPU) int { c.a = c.bus.Read(c.getBC()); return 8 }
	opcodeTable[0x0B] = func(c *CPU) int { c.setBC(c.getBC() - 1); return 8 }
	opcodeTable[0x0C] = func(c *CPU) int { c.inc(&c.c); return 4 }
	opcodeTable[0x0D] = func(c *CPU) int { c.dec(&c.c); return 4 }
	opcodeTable[0x0E] = func(c *CPU) int { c.c = c.readImmediate(); return 8 }
	opcodeTable[0x0F] = func(c *CPU) int { c.rrc(&c.a); c.resetFlag(zeroFlag); return 4 }

	opcodeTable[0x10] = func(c *CPU) int { c.readImmediate(); c.stopped = true; return 4 } // STOP (00 operand byte)
	opcodeTable[0x11] = func(c *CPU) int { c.setDE(c.readImmediateWord()); return 12 }
	opcodeTable[0x12] = func(c *CPU) int { return 8 + c.writeByte(c.getDE(), c.a) }
	opcodeTable[0x13] = func(c *CPU) int { c.setDE(c.getDE() + 1); return 8 }
	opcodeTable[0x14] = func(c *CPU) int { c.inc(&c.d); return 4 }
	opcodeTable[0x15] = func(c *CPU) int { c.dec(&c.d); return 4 }
	opcodeTable[0x16] = func(c *CPU) int { c.d = c.readImmediate(); return 8 }
	opcodeTable[0x17] = func(c *CPU) int { c.rl(&c.a); c.resetFlag(zeroFlag); return 4 }
	opcodeTable[0x18] = func(c *CPU) int { return c.jr(true) }
	opcodeTable[0x19] = func(c *CPU) int { c.addToHL(c.getDE()); return 8 }
	opcodeTable[0x1A] = func(c *CPU) int { c.a = c.bus.Read(c.getDE()); return 8 }
	opcodeTable[0x1B] = func(c *CPU) int { c.setDE(c.getDE() - 1); return 8 }
	opcodeTable[0x1C] = func(c *CPU) int { c.inc(&c.e); return 4 }
	opcodeTable[0x1D] = func(c *CPU) int { c.dec(&c.e); return 4 }
	opcodeTable[0x1E] = func(c *CPU) int { c.e = c.readImmediate(); return 8 }
	opcodeTable[0x1F] = func(c *CPU) int { c.rr(&c.a); c.resetFlag(zeroFlag); return 4 }

	opcodeTable[0x20] = func(c *CPU) int { return c.jr(!c.isSetFlag(zeroFlag)) }
	opcodeTable[0x21] = func(c *CPU) int { c.setHL(c.readImmediateWord()); return 12 }
	opcodeTable[0x22] = func(c *CPU) int {
		extra := c.writeByte(c.getHL(), c.a)
		c.setHL(c.getHL() + 1)
		return 8 + extra
	}
	opcodeTable[0x23] = func(c *CPU) int { c.setHL(c.getHL() + 1); return 8 }
	opcodeTable[0x24] = func(c *CPU) int { c.inc(&c.h); return 4 }
	opcodeTable[0x25] = func(c *CPU) int { c.dec(&c.h); return 4 }
	opcodeTable[0x26] = func(c *CPU) int { c.h = c.readImmediate(); return 8 }
	opcodeTable[0x27] = func(c *CPU) int { c.daa(); return 4 }
	opcodeTable[0x28] = func(c *CPU) int { return c.jr(c.isSetFlag(zeroFlag)) }
	opcodeTable[0x29] = func(c *CPU) int { c.addToHL(c.getHL()); return 8 }
	opcodeTable[0x2A] = func(c *CPU) int { c.a = c.bus.Read(c.getHL()); c.setHL(c.getHL() + 1); return 8 }
	opcodeTable[0x2B] = func(c *CPU) int { c.setHL(c.getHL() - 1); return 8 }
	opcodeTable[0x2C] = func(c *CPU) int { c.inc(&c.l); return 4 }
	opcodeTable[0x2D] = func(c *CPU) int { c.dec(&c.l); return 4 }
	opcodeTable[0x2E] = func(c *CPU) int { c.l = c.readImmediate(); return 8 }
	opcodeTable[0x2F] = func(c *CPU) int {
		c.a = ^c.a
		c.setFlag(subFlag)
		c.setFlag(halfCarryFlag)
		return 4
	}

	opcodeTable[0x30] = func(c *CPU) int { return c.jr(!c.isSetFlag(carryFlag)) }
	opcodeTable[0x31] = func(c *CPU) int { c.sp = c.readImmediateWord(); return 12 }
	opcodeTable[0x32] = func(c *CPU) int {
		extra := c.writeByte(c.getHL(), c.a)
		c.setHL(c.getHL() - 1)
		return 8 + extra
	}
	opcodeTable[0x33] = func(c *CPU) int { c.sp++; return 8 }
	opcodeTable[0x34] = func(c *CPU) int {
		v := c.bus.Read(c.getHL())
		c.inc(&v)
		return 12 + c.writeByte(c.getHL(), v)
	}
	opcodeTable[0x35] = func(c *CPU) int {
		v := c.bus.Read(c.getHL())
		c.dec(&v)
		return 12 + c.writeByte(c.getHL(), v)
	}
	opcodeTable[0x36] = func(c *CPU) int { return 12 + c.writeByte(c.getHL(), c.readImmediate()) }
	opcodeTable[0x37] = func(c *CPU) int {
		c.resetFlag(subFlag)
		c.resetFlag(halfCarryFlag)
		c.setFlag(carryFlag)
		return 4
	}
	opcodeTable[0x38] = func(c *CPU) int { return c.jr(c.isSetFlag(carryFlag)) }
	opcodeTable[0x39] = func(c *CPU) int { c.addToHL(c.sp); return 8 }
	opcodeTable[0x3A] = func(c *CPU) int { c.a = c.bus.Read(c.getHL()); c.setHL(c.getHL() - 1); return 8 }
	opcodeTable[0x3B] = func(c *CPU) int { c.sp--; return 8 }
	opcodeTable[0x3C] = func(c *CPU) int { c.inc(&c.a); return 4 }
	opcodeTable[0x3D] = func(c *CPU) int { c.dec(&c.a); return 4 }
	opcodeTable[0x3E] = func(c *CPU) int { c.a = c.readImmediate(); return 8 }
	opcodeTable[0x3F] = func(c *CPU) int {
		c.resetFlag(subFlag)
		c.resetFlag(halfCarryFlag)
		c.setFlagToCondition(carryFlag, !c.isSetFlag(carryFlag))
		return 4
	}

	opcodeTable[0x76] = func(c *CPU) int { return c.halt() }

	opcodeTable[0xC0] = func(c *CPU) int { return c.ret(!c.isSetFlag(zeroFlag), 20, 8) }
	opcodeTable[0xC1] = func(c *CPU) int { c.setBC(c.popStack()); return 12 }
	opcodeTable[0xC2] = func(c *CPU) int { return c.jp(!c.isSetFlag(zeroFlag)) }
	opcodeTable[0xC3] = func(c *CPU) int { c.jp(true); return 16 }
	opcodeTable[0xC4] = func(c *CPU) int { return c.call(!c.isSetFlag(zeroFlag)) }
	opcodeTable[0xC5] = func(c *CPU) int { return 16 + c.pushStack(c.getBC()) }
	opcodeTable[0xC6] = func(c *CPU) int { c.addToA(c.readImmediate()); return 8 }
	opcodeTable[0xC7] = func(c *CPU) int { return c.rst(0x00) }
	opcodeTable[0xC8] = func(c *CPU) int { return c.ret(c.isSetFlag(zeroFlag), 20, 8) }
	opcodeTable[0xC9] = func(c *CPU) int { c.pc = c.popStack(); return 16 }
	opcodeTable[0xCA] = func(c *CPU) int { return c.jp(c.isSetFlag(zeroFlag)) }
	opcodeTable[0xCB] = func(c *CPU) int {
		cb := c.readImmediate()
		fn := cbTable[cb]
		if fn == nil {
			panic(&UnimplementedOpcodeError{Opcode: 0xCB00 | uint16(cb)})
		}
		return fn(c)
	}
	opcodeTable[0xCC] = func(c *CPU) int { return c.call(c.isSetFlag(zeroFlag)) }
	opcodeTable[0xCD] = func(c *CPU) int { return c.call(true) }
	opcodeTable[0xCE] = func(c *CPU) int { c.adc(c.readImmediate()); return 8 }
	opcodeTable[0xCF] = func(c *CPU) int { return c.rst(0x08) }

	opcodeTable[0xD0] = func(c *CPU) int { return c.ret(!c.isSetFlag(carryFlag), 20, 8) }
	opcodeTable[0xD1] = func(c *CPU) int { c.setDE(c.popStack()); return 12 }
	opcodeTable[0xD2] = func(c *CPU) int { return c.jp(!c.isSetFlag(carryFlag)) }
	opcodeTable[0xD3] = illegalOpcode
	opcodeTable[0xD4] = func(c *CPU) int { return c.call(!c.isSetFlag(carryFlag)) }
	opcodeTable[0xD5] = func(c *CPU) int { return 16 + c.pushStack(c.getDE()) }
	opcodeTable[0xD6] = func(c *CPU) int { c.sub(c.readImmediate()); return 8 }
	opcodeTable[0xD7] = func(c *CPU) int { return c.rst(0x10) }
	opcodeTable[0xD8] = func(c *CPU) int { return c.ret(c.isSetFlag(carryFlag), 20, 8) }
	opcodeTable[0xD9] = func(c *CPU) int { c.pc = c.popStack(); c.ime = true; c.pendingEI = false; return 16 } // RETI
	opcodeTable[0xDA] = func(c *CPU) int { return c.jp(c.isSetFlag(carryFlag)) }
	opcodeTable[0xDB] = illegalOpcode
	opcodeTable[0xDC] = func(c *CPU) int { return c.call(c.isSetFlag(carryFlag)) }
	opcodeTable[0xDD] = illegalOpcode
	opcodeTable[0xDE] = func(c *CPU) int { c.sbc(c.readImmediate()); return 8 }
	opcodeTable[0xDF] = func(c *CPU) int { return c.rst(0x18) }

	opcodeTable[0xE0] = func(c *CPU) int {
		return 12 + c.writeByte(0xFF00+uint16(c.readImmediate()), c.a)
	}
	opcodeTable[0xE1] = func(c *CPU) int { c.setHL(c.popStack()); return 12 }
	opcodeTable[0xE2] = func(c *CPU) int { return 8 + c.writeByte(0xFF00+uint16(c.c), c.a) }
	opcodeTable[0xE3] = illegalOpcode
	opcodeTable[0xE4] = illegalOpcode
	opcodeTable[0xE5] = func(c *CPU) int { return 16 + c.pushStack(c.getHL()) }
	opcodeTable[0xE6] = func(c *CPU) int { c.and(c.readImmediate()); return 8 }
	opcodeTable[0xE7] = func(c *CPU) int { return c.rst(0x20) }
	opcodeTable[0xE8] = func(c *CPU) int {
		c.sp = c.addToSP(int8(c.readImmediate()))
		return 16
	}
	opcodeTable[0xE9] = func(c *CPU) int { c.pc = c.getHL(); return 4 }
	opcodeTable[0xEA] = func(c *CPU) int { return 16 + c.writeByte(c.readImmediateWord(), c.a) }
	opcodeTable[0xEB] = illegalOpcode
	opcodeTable[0xEC] = illegalOpcode
	opcodeTable[0xED] = illegalOpcode
	opcodeTable[0xEE] = func(c *CPU) int { c.xor(c.readImmediate()); return 8 }
	opcodeTable[0xEF] = func(c *CPU) int { return c.rst(0x28) }

	opcodeTable[0xF0] = func(c *CPU) int {
		c.a = c.bus.Read(0xFF00 + uint16(c.readImmediate()))
		return 12
	}
	opcodeTable[0xF1] = func(c *CPU) int { c.setAF(c.popStack()); return 12 }
	opcodeTable[0xF2] = func(c *CPU) int { c.a = c.bus.Read(0xFF00 + uint16(c.c)); return 8 }
	opcodeTable[0xF3] = func(c *CPU) int { c.ime = false; c.pendingEI = false; return 4 } // DI
	opcodeTable[0xF4] = illegalOpcode
	opcodeTable[0xF5] = func(c *CPU) int { return 16 + c.pushStack(c.getAF()) }
	opcodeTable[0xF6] = func(c *CPU) int { c.or(c.readImmediate()); return 8 }
	opcodeTable[0xF7] = func(c *CPU) int { return c.rst(0x30) }
	opcodeTable[0xF8] = func(c *CPU) int {
		c.setHL(c.addToSP(int8(c.readImmediate())))
		return 12
	}
	opcodeTable[0xF9] = func(c *CPU) int { c.sp = c.getHL(); return 8 }
	opcodeTable[0xFA] = func(c *CPU) int { c.a = c.bus.Read(c.readImmediateWord()); return 16 }
	opcodeTable[0xFB] = func(c *CPU) int { c.pendingEI = true; return 4 } // EI
	opcodeTable[0xFC] = illegalOpcode
	opcodeTable[0xFD] = illegalOpcode
	opcodeTable[0xFE] = func(c *CPU) int { c.cp(c.readImmediate()); return 8 }
	opcodeTable[0xFF] = func(c *CPU) int { return c.rst(0x38) }
}

func illegalOpcode(c *CPU) int {
	panic(&UnimplementedOpcodeError{Opcode: uint16(c.currentOpcode)})
}

// jr implements the four JR forms, relative to the byte following the
// displacement operand.
func (c *CPU) jr(condition bool) int {
	offset := int8(c.readImmediate())
	if !condition {
		return 8
	}
	c.pc = uint16(int32(c.pc) + int32(offset))
	return 12
}

// jp implements the four conditional JP nn forms; JP nn itself (0xC3) calls
// this with condition true directly and ignores the cycle count.
func (c *CPU) jp(condition bool) int {
	target := c.readImmediateWord()
	if !condition {
		return 12
	}
	c.pc = target
	return 16
}

// ret implements the four conditional RET forms.
func (c *CPU) ret(condition bool, takenCycles, notTakenCycles int) int {
	if !condition {
		return notTakenCycles
	}
	c.pc = c.popStack()
	return takenCycles
}

// call implements the four conditional CALL forms and the unconditional one.
func (c *CPU) call(condition bool) int {
	target := c.readImmediateWord()
	if !condition {
		return 12
	}
	extra := c.pushStack(c.pc)
	c.pc = target
	return 24 + extra
}

func (c *CPU) rst(vector uint16) int {
	extra := c.pushStack(c.pc)
	c.pc = vector
	return 16 + extra
}

// halt implements HALT, including the documented halt bug: with IME clear
// and an interrupt already pending, the CPU does not actually halt and the
// byte following HALT is fetched twice.
func (c *CPU) halt() int {
	pending := c.bus.Read(0xFFFF) & c.bus.Read(0xFF0F) & 0x1F
	if !c.ime && pending != 0 {
		c.haltBugPending = true
	} else {
		c.halted = true
	}
	return 4
}
