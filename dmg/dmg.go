// Package dmg wires the CPU, bus and PPU together into a runnable machine:
// one shared machine-cycle counter drives instruction execution, interrupt
// dispatch, timer/serial/audio ticking and scanline rendering in lockstep,
// the way the real hardware's clock does.
package dmg

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/arlojohansen/dmgcore/bit"
	"github.com/arlojohansen/dmgcore/cpu"
	"github.com/arlojohansen/dmgcore/memory"
	"github.com/arlojohansen/dmgcore/video"
)

// pcHistoryDepth bounds the PC trail a fatalError carries: enough to see
// how execution arrived at the fault, not a full run log.
const pcHistoryDepth = 32

// CyclesPerFrame is the number of T-states in one 59.7Hz DMG frame.
const CyclesPerFrame = 70224

// ExitCode mirrors the core's process-exit contract: 0 clean shutdown,
// 1 ROM/cartridge load failure, 2 an unimplemented or illegal opcode was
// fetched, 3 a strict-mode I/O violation.
type ExitCode int

const (
	ExitOK ExitCode = iota
	ExitCartridgeError
	ExitUnimplementedOpcode
	ExitStrictIOViolation
)

// Machine is the complete DMG core: CPU, bus, and PPU sharing one clock.
// It does not own a window, an audio sink, or a ROM loader — those are the
// caller's concern; Machine only runs cycles and exposes their effects.
type Machine struct {
	CPU *cpu.CPU
	Bus *memory.Bus
	GPU *video.GPU

	instructionCount uint64
	frameCount       uint64
	pcHistory        *bit.RingBuffer
}

// New creates a Machine around cart, with a boot ROM overlay if bootROM is
// non-nil. With no boot ROM the CPU starts at its post-boot register state
// (PC=0x0100) exactly as if the boot sequence had already run.
func New(cart *memory.Cartridge, bootROM []byte) *Machine {
	bus := memory.NewWithCartridge(cart)
	c := cpu.New(bus)
	if bootROM != nil {
		bus.LoadBootROM(bootROM)
		c.SetPC(0x0000)
	}

	return &Machine{
		CPU:       c,
		Bus:       bus,
		GPU:       video.NewGPU(bus),
		pcHistory: bit.NewRingBuffer(pcHistoryDepth),
	}
}

// SetStrictIO enables the core's strict I/O mode: a write to an address
// with no defined MMIO behavior panics a *memory.BusError instead of just
// logging a warning. RunFrame recovers it and reports ExitStrictIOViolation.
func (m *Machine) SetStrictIO(strict bool) {
	m.Bus.StrictIO = strict
}

// Step executes exactly one instruction, advancing every peripheral by the
// same number of T-states and servicing at most one interrupt afterward.
// It returns the total T-states consumed, including any interrupt dispatch.
func (m *Machine) Step() int {
	m.pcHistory.Push(m.CPU.Snapshot().PC)
	cycles := m.CPU.Step()
	m.Bus.Tick(cycles)
	m.GPU.Tick(cycles)
	m.instructionCount++

	if interruptCycles := m.CPU.ServiceInterrupts(); interruptCycles > 0 {
		m.Bus.Tick(interruptCycles)
		m.GPU.Tick(interruptCycles)
		cycles += interruptCycles
	}

	return cycles
}

// RunFrame steps the machine until one full frame's worth of cycles has
// elapsed, recovering an unimplemented-opcode panic or a strict-mode bus
// violation into an ExitCode instead of letting it escape to the caller.
func (m *Machine) RunFrame() (code ExitCode, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case *cpu.UnimplementedOpcodeError:
				code, err = ExitUnimplementedOpcode, m.newFatalError(e)
			case *memory.BusError:
				code, err = ExitStrictIOViolation, m.newFatalError(e)
			case *memory.BankError:
				code, err = ExitCartridgeError, m.newFatalError(e)
			default:
				panic(r)
			}
		}
	}()

	total := 0
	for total < CyclesPerFrame {
		total += m.Step()
	}
	m.frameCount++

	return ExitOK, nil
}

// fatalError is the single shape every unwound fatal condition takes: the
// CPU snapshot and a bounded PC trail at the moment of the fault, plus the
// cause that triggered it. Error prints per spec's "PC=…, opcode=…,
// snapshot=…" diagnostic contract.
type fatalError struct {
	cause    error
	snapshot cpu.Snapshot
	history  []uint16
}

func (e *fatalError) Error() string {
	return fmt.Sprintf("PC=0x%04X, opcode=0x%02X, snapshot=%+v, history=%04X: %v",
		e.snapshot.PC, e.snapshot.Opcode, e.snapshot, e.history, e.cause)
}

func (e *fatalError) Unwrap() error { return e.cause }

func (m *Machine) newFatalError(cause error) *fatalError {
	return &fatalError{
		cause:    cause,
		snapshot: m.CPU.Snapshot(),
		history:  m.pcHistory.Values(),
	}
}

// WrapFatal attaches the machine's current CPU snapshot and PC history to
// cause, for callers that recover a panic from Step() directly instead of
// going through RunFrame (the debugger's instruction-at-a-time stepping).
func (m *Machine) WrapFatal(cause error) error {
	return m.newFatalError(cause)
}

// FrameBuffer returns the 160x144 buffer the PPU is drawing into.
func (m *Machine) FrameBuffer() *video.FrameBuffer {
	return m.GPU.FrameBuffer()
}

// HandleKeyPress/HandleKeyRelease forward button state changes to the bus,
// which raises the Joypad interrupt on press edges.
func (m *Machine) HandleKeyPress(key memory.JoypadKey)   { m.Bus.HandleKeyPress(key) }
func (m *Machine) HandleKeyRelease(key memory.JoypadKey) { m.Bus.HandleKeyRelease(key) }

// InstructionCount and FrameCount expose run counters for logging and the
// debugger's status display.
func (m *Machine) InstructionCount() uint64 { return m.instructionCount }
func (m *Machine) FrameCount() uint64       { return m.frameCount }

// Snapshot returns a read-only copy of the CPU register file.
func (m *Machine) Snapshot() cpu.Snapshot { return m.CPU.Snapshot() }

// LoadROMFile reads a ROM image from disk and builds a cartridge from it. A
// read failure is returned as an error; cmd/dmgcore reports it with
// ExitCartridgeError.
func LoadROMFile(path string) (*memory.Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ROM file: %w", err)
	}
	cart := memory.NewCartridgeWithData(data)
	slog.Info("cartridge loaded", "title", cart.Title(), "path", path, "size", len(data))
	return cart, nil
}
