package cpu

import (
	"fmt"

	"github.com/arlojohansen/dmgcore/addr"
)

// UnimplementedOpcodeError is raised by an illegal or unimplemented opcode.
// The orchestrator recovers it at the top level and exits with the
// unimplemented-opcode status.
type UnimplementedOpcodeError struct {
	Opcode uint16
}

func (e *UnimplementedOpcodeError) Error() string {
	return fmt.Sprintf("unimplemented opcode 0x%04X", e.Opcode)
}

// ServiceInterrupts checks IE & IF against IME and dispatches the
// highest-priority pending interrupt, if any. It must be called once per
// instruction boundary, after the CPU and its peripherals have ticked.
// It also wakes a halted CPU on a pending interrupt regardless of IME, since
// HALT exits as soon as an enabled interrupt source is requested even if the
// CPU never jumps to service it. A requested Joypad interrupt (a button
// press) also ends STOP, whether or not IE enables it.
func (c *CPU) ServiceInterrupts() int {
	ie := c.bus.Read(addr.IE)
	iflag := c.bus.Read(addr.IF)
	pending := ie & iflag & 0x1F

	if pending != 0 {
		c.halted = false
	}
	if iflag&uint8(addr.JoypadInterrupt) != 0 {
		c.stopped = false
	}

	if !c.ime || pending == 0 {
		return 0
	}

	for _, interrupt := range addr.Priority {
		mask := uint8(interrupt)
		if pending&mask == 0 {
			continue
		}
		c.ime = false
		c.pendingEI = false
		c.bus.Write(addr.IF, iflag&^mask)
		extra := c.pushStack(c.pc)
		c.pc = addr.InterruptVector(interrupt)
		return 20 + extra
	}

	return 0
}
