package cpu

// step is a single opcode implementation: it performs the instruction's
// effect and returns the number of T-states it took.
type step func(*CPU) int

var opcodeTable [256]step
var cbTable [256]step

// regGet/regSet index the B,C,D,E,H,L,(HL),A register group used by every
// regular LD r,r' and ALU A,r opcode, and by every CB-prefixed opcode.
// Index 6 means "through (HL)", charging the caller an extra 4 cycles that
// the regular-block builders below account for.
func (c *CPU) regGet(idx uint8) uint8 {
	switch idx {
	case 0:
		return c.b
	case 1:
		return c.c
	case 2:
		return c.d
	case 3:
		return c.e
	case 4:
		return c.h
	case 5:
		return c.l
	case 6:
		return c.bus.Read(c.getHL())
	default:
		return c.a
	}
}

// regSet returns any extra T-states the write charged (non-zero only when
// idx is 6 and the address happens to be the OAM DMA register).
func (c *CPU) regSet(idx uint8, v uint8) int {
	switch idx {
	case 0:
		c.b = v
	case 1:
		c.c = v
	case 2:
		c.d = v
	case 3:
		c.e = v
	case 4:
		c.h = v
	case 5:
		c.l = v
	case 6:
		return c.writeByte(c.getHL(), v)
	default:
		c.a = v
	}
	return 0
}

func init() {
	buildBaseTable()
	buildRegularLoadBlock()
	buildRegularALUBlock()
	buildCBTable()
}

// buildRegularLoadBlock fills 0x40-0x7F: LD r,r' for every (dst,src) pair,
// except 0x76 which is HALT (registered separately in buildBaseTable).
func buildRegularLoadBlock() {
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			opcode := 0x40 + dst*8 + src
			if opcode == 0x76 {
				continue
			}
			d, s := dst, src
			cycles := 4
			if d == 6 || s == 6 {
				cycles = 8
			}
			opcodeTable[opcode] = func(c *CPU) int {
				return cycles + c.regSet(d, c.regGet(s))
			}
		}
	}
}

// buildRegularALUBlock fills 0x80-0xBF: ADD/ADC/SUB/SBC/AND/XOR/OR/CP A,r.
func buildRegularALUBlock() {
	ops := [8]func(*CPU, uint8){
		(*CPU).addToA,
		(*CPU).adc,
		(*CPU).sub,
		(*CPU).sbc,
		(*CPU).and,
		(*CPU).xor,
		(*CPU).or,
		(*CPU).cp,
	}
	for kind := uint8(0); kind < 8; kind++ {
		for src := uint8(0); src < 8; src++ {
			opcode := 0x80 + kind*8 + src
			op, s := ops[kind], src
			cycles := 4
			if s == 6 {
				cycles = 8
			}
			opcodeTable[opcode] = func(c *CPU) int {
				op(c, c.regGet(s))
				return cycles
			}
		}
	}
}

// buildCBTable fills all 256 CB-prefixed opcodes: eight shift/rotate kinds
// over the 8 registers (0x00-0x3F), then BIT/RES/SET over 8 bit indices and
// the 8 registers (0x40-0xFF).
func buildCBTable() {
	shifts := [8]func(*CPU, *uint8){
		(*CPU).rlc, (*CPU).rrc, (*CPU).rl, (*CPU).rr,
		(*CPU).sla, (*CPU).sra, (*CPU).swap, (*CPU).srl,
	}

	for kind := uint8(0); kind < 8; kind++ {
		for reg := uint8(0); reg < 8; reg++ {
			opcode := kind*8 + reg
			op, r := shifts[kind], reg
			cycles := 8
			if r == 6 {
				cycles = 16
			}
			cbTable[opcode] = func(c *CPU) int {
				v := c.regGet(r)
				op(c, &v)
				return cycles + c.regSet(r, v)
			}
		}
	}

	for bitIdx := uint8(0); bitIdx < 8; bitIdx++ {
		for reg := uint8(0); reg < 8; reg++ {
			opcode := 0x40 + bitIdx*8 + reg
			b, r := bitIdx, reg
			readCycles := 8
			if r == 6 {
				readCycles = 12
			}
			cbTable[opcode] = func(c *CPU) int {
				c.bitTest(b, c.regGet(r))
				return readCycles
			}
		}
	}

	for bitIdx := uint8(0); bitIdx < 8; bitIdx++ {
		for reg := uint8(0); reg < 8; reg++ {
			opcode := 0x80 + bitIdx*8 + reg
			b, r := bitIdx, reg
			cycles := 8
			if r == 6 {
				cycles = 16
			}
			cbTable[opcode] = func(c *CPU) int {
				return cycles + c.regSet(r, c.regGet(r)&^(1<<b))
			}
		}
	}

	for bitIdx := uint8(0); bitIdx < 8; bitIdx++ {
		for reg := uint8(0); reg < 8; reg++ {
			opcode := 0xC0 + bitIdx*8 + reg
			b, r := bitIdx, reg
			cycles := 8
			if r == 6 {
				cycles = 16
			}
			cbTable[opcode] = func(c *CPU) int {
				return cycles + c.regSet(r, c.regGet(r)|(1<<b))
			}
		}
	}
}
