package cpu

import "log/slog"

// Step fetches, decodes and executes a single instruction, returning the
// number of T-states it took. Interrupt servicing is a separate call
// (ServiceInterrupts) so the orchestrator can tick the timer and PPU for
// exactly the cycles an instruction consumed before interrupts are raised.
func (c *CPU) Step() int {
	if c.haltBugPending {
		c.haltBugPending = false
		opcode := c.bus.Read(c.pc) // duplicate fetch: pc is not advanced
		return c.execute(opcode)
	}

	if c.pendingEI {
		c.ime = true
		c.pendingEI = false
	}

	if c.stopped {
		return 4
	}

	if c.halted {
		return 4
	}

	warnIfOutOfStandardBankSpace(c.pc)

	opcode := c.bus.Read(c.pc)
	c.pc++
	c.currentOpcode = uint16(opcode)
	return c.execute(opcode)
}

// warnIfOutOfStandardBankSpace flags a fetch from VRAM (0x8000-0x9FFF),
// external RAM (0xA000-0xBFFF) or the IE register (0xFFFF): addresses real
// ROM code never executes from. It's a diagnostic only, execution continues
// regardless. Grounded on original_source/src/cpu.rs's equivalent PC check.
func warnIfOutOfStandardBankSpace(pc uint16) {
	if pc >= 0x8000 && (pc < 0xC000 || pc > 0xFFFE) {
		slog.Warn("PC outside standard ROM bank space", "pc", pc)
	}
}

func (c *CPU) execute(opcode uint8) int {
	fn := opcodeTable[opcode]
	if fn == nil {
		panic(&UnimplementedOpcodeError{Opcode: uint16(opcode)})
	}
	return fn(c)
}

// Resume clears the STOP state. ServiceInterrupts does the same when the
// Joypad interrupt is requested, which is how a button press ends STOP.
func (c *CPU) Resume() { c.stopped = false }
