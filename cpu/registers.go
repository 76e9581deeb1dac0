// Package cpu implements the Sharp LR35902 instruction set: registers,
// flags, the fetch-decode-execute step, and interrupt dispatch.
package cpu

import (
	"github.com/arlojohansen/dmgcore/addr"
	"github.com/arlojohansen/dmgcore/bit"
	"github.com/arlojohansen/dmgcore/memory"
)

// Flag is one of the four flags held in the upper nibble of F.
type Flag uint8

const (
	zeroFlag      Flag = 0x80
	subFlag       Flag = 0x40
	halfCarryFlag Flag = 0x20
	carryFlag     Flag = 0x10
)

// CPU holds the full register file, interrupt-master-enable state, and the
// bus it executes against.
type CPU struct {
	bus *memory.Bus

	a, b, c, d, e, h, l uint8
	f                   uint8
	sp, pc              uint16

	ime            bool
	pendingEI      bool
	halted         bool
	stopped        bool
	haltBugPending bool

	currentOpcode uint16
}

// New creates a CPU bound to bus, with registers and PC at their
// post-boot-ROM hardware values (the core always starts past the boot ROM;
// a loaded boot ROM, if any, is executed by stepping from PC 0 instead and
// the caller is responsible for seeding pc to 0 in that case).
func New(bus *memory.Bus) *CPU {
	return &CPU{
		bus: bus,
		a:   0x01, f: 0xB0,
		b: 0x00, c: 0x13,
		d: 0x00, e: 0xD8,
		h: 0x01, l: 0x4D,
		sp: 0xFFFE,
		pc: 0x0100,
	}
}

func (c *CPU) getAF() uint16 { return bit.Combine(c.a, c.f&0xF0) }
func (c *CPU) setAF(v uint16) {
	c.a = bit.High(v)
	c.f = bit.Low(v) & 0xF0
}

func (c *CPU) getBC() uint16  { return bit.Combine(c.b, c.c) }
func (c *CPU) setBC(v uint16) { c.b, c.c = bit.High(v), bit.Low(v) }

func (c *CPU) getDE() uint16  { return bit.Combine(c.d, c.e) }
func (c *CPU) setDE(v uint16) { c.d, c.e = bit.High(v), bit.Low(v) }

func (c *CPU) getHL() uint16  { return bit.Combine(c.h, c.l) }
func (c *CPU) setHL(v uint16) { c.h, c.l = bit.High(v), bit.Low(v) }

func (c *CPU) setFlag(flag Flag)   { c.f |= uint8(flag) }
func (c *CPU) resetFlag(flag Flag) { c.f &^= uint8(flag) }

func (c *CPU) setFlagToCondition(flag Flag, condition bool) {
	if condition {
		c.setFlag(flag)
	} else {
		c.resetFlag(flag)
	}
}

func (c *CPU) isSetFlag(flag Flag) bool { return c.f&uint8(flag) != 0 }

func (c *CPU) flagToBit(flag Flag) uint8 {
	if c.isSetFlag(flag) {
		return 1
	}
	return 0
}

// writeByte wraps a bus write so the CPU can charge the extra 160 T-states
// OAM DMA costs; every other address passes straight through.
func (c *CPU) writeByte(address uint16, value uint8) int {
	c.bus.Write(address, value)
	if address == addr.DMA {
		return 160
	}
	return 0
}

func (c *CPU) readImmediate() uint8 {
	v := c.bus.Read(c.pc)
	c.pc++
	return v
}

func (c *CPU) readImmediateWord() uint16 {
	low := c.readImmediate()
	high := c.readImmediate()
	return bit.Combine(high, low)
}

// pushStack returns any extra T-states its writes charged (only possible if
// SP has wandered onto the OAM DMA register, which real ROMs never do, but
// the charge has to be correct regardless of how SP got there).
func (c *CPU) pushStack(v uint16) int {
	c.sp--
	extra := c.writeByte(c.sp, bit.High(v))
	c.sp--
	extra += c.writeByte(c.sp, bit.Low(v))
	return extra
}

func (c *CPU) popStack() uint16 {
	low := c.bus.Read(c.sp)
	c.sp++
	high := c.bus.Read(c.sp)
	c.sp++
	return bit.Combine(high, low)
}

// PC exposes the program counter for the debugger and orchestrator.
func (c *CPU) PC() uint16 { return c.pc }

// SetPC overrides the program counter; dmg.New uses it to start execution
// at 0x0000 when a boot ROM is loaded.
func (c *CPU) SetPC(v uint16) { c.pc = v }

// Halted reports whether the CPU is in the HALT low-power state.
func (c *CPU) Halted() bool { return c.halted }

// Stopped reports whether the CPU is in the STOP state.
func (c *CPU) Stopped() bool { return c.stopped }

// Snapshot is a read-only copy of the register file, for the debugger and
// fatal-error diagnostics. Opcode is the last byte fetched at a PC boundary
// (not updated by the duplicate fetch the halt bug performs).
type Snapshot struct {
	A, B, C, D, E, H, L, F uint8
	SP, PC                 uint16
	IME                    bool
	Halted, Stopped        bool
	Opcode                 uint8
}

func (c *CPU) Snapshot() Snapshot {
	return Snapshot{
		A: c.a, B: c.b, C: c.c, D: c.d, E: c.e, H: c.h, L: c.l, F: c.f,
		SP: c.sp, PC: c.pc,
		IME: c.ime, Halted: c.halted, Stopped: c.stopped,
		Opcode: uint8(c.currentOpcode),
	}
}
