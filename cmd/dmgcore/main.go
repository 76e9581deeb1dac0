// Command dmgcore runs a ROM against the core: a terminal window by
// default, or a fixed number of frames with no display in --headless mode.
// --debug attaches a stdin-driven debugger session.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/arlojohansen/dmgcore/backend"
	"github.com/arlojohansen/dmgcore/bit"
	"github.com/arlojohansen/dmgcore/cpu"
	"github.com/arlojohansen/dmgcore/debug"
	"github.com/arlojohansen/dmgcore/debugger"
	"github.com/arlojohansen/dmgcore/disasm"
	"github.com/arlojohansen/dmgcore/dmg"
	"github.com/arlojohansen/dmgcore/input"
	"github.com/arlojohansen/dmgcore/input/action"
	"github.com/arlojohansen/dmgcore/input/event"
	"github.com/arlojohansen/dmgcore/memory"
	"github.com/urfave/cli"
)

// errQuit signals the user quit the debugger repl, distinguished from a
// machine fault by carrying dmg.ExitOK alongside it.
var errQuit = errors.New("debugger quit")

func faultCodeFor(r any) dmg.ExitCode {
	switch r.(type) {
	case *cpu.UnimplementedOpcodeError:
		return dmg.ExitUnimplementedOpcode
	case *memory.BusError:
		return dmg.ExitStrictIOViolation
	case *memory.BankError:
		return dmg.ExitCartridgeError
	default:
		panic(r)
	}
}

func toError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}

func main() {
	app := cli.NewApp()
	app.Name = "dmgcore"
	app.Usage = "dmgcore [options] <ROM file>"
	app.Description = "A Game Boy (DMG) core: CPU, memory bus, PPU, timer, and one pulse audio channel"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "debug",
			Usage: "attach an interactive debugger on stdin",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "run without a terminal display",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "frame count to run in headless mode (required with --headless)",
		},
		cli.BoolFlag{
			Name:  "strict-io",
			Usage: "treat a write to an unspecified I/O register as fatal instead of logging it",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("dmgcore exited with an error", "error", err)
		os.Exit(exitCodeFor(err))
	}
}

// cliError carries the process exit code a failure should report, per the
// core's 0/1/2/3 contract.
type cliError struct {
	code dmg.ExitCode
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }

func exitCodeFor(err error) int {
	var ce *cliError
	if errors.As(err, &ce) {
		return int(ce.code)
	}
	return 1
}

func run(c *cli.Context) error {
	if c.NArg() == 0 {
		cli.ShowAppHelp(c)
		return &cliError{code: dmg.ExitCartridgeError, err: errors.New("no ROM path provided")}
	}
	romPath := c.Args().Get(0)

	cart, err := dmg.LoadROMFile(romPath)
	if err != nil {
		return &cliError{code: dmg.ExitCartridgeError, err: err}
	}

	machine := dmg.New(cart, nil)
	machine.SetStrictIO(c.Bool("strict-io"))

	if c.Bool("headless") {
		frames := c.Int("frames")
		if frames <= 0 {
			return &cliError{code: dmg.ExitCartridgeError, err: errors.New("headless mode requires --frames with a positive value")}
		}
		return runHeadless(machine, frames)
	}

	if c.Bool("debug") {
		return runDebugSession(machine)
	}

	return runDisplay(machine)
}

func runHeadless(machine *dmg.Machine, frames int) error {
	b := backend.NewHeadless()
	if err := b.Init(backend.Config{Title: "dmgcore"}); err != nil {
		return err
	}
	defer b.Cleanup()

	for i := 0; i < frames; i++ {
		code, err := machine.RunFrame()
		if code != dmg.ExitOK {
			return &cliError{code: code, err: err}
		}
		if _, err := b.Update(machine.FrameBuffer()); err != nil {
			return err
		}
	}
	slog.Info("headless run complete", "frames", frames)
	return nil
}

func runDisplay(machine *dmg.Machine) error {
	b := backend.NewTerminal()
	return drive(machine, b, nil)
}

// runDebugSession runs the same frame loop as runDisplay, but consults a
// debugger.Debugger before each instruction and services a stdin command
// loop whenever it signals a break.
func runDebugSession(machine *dmg.Machine) error {
	b := backend.NewTerminal()
	dbg := debugger.New()
	history := debug.NewHistory(256)
	return drive(machine, b, &debugSession{dbg: dbg, history: history, stdin: bufio.NewScanner(os.Stdin)})
}

type debugSession struct {
	dbg     *debugger.Debugger
	history *debug.History
	stdin   *bufio.Scanner
}

func drive(machine *dmg.Machine, b backend.Backend, session *debugSession) error {
	if err := b.Init(backend.Config{Title: "dmgcore"}); err != nil {
		return err
	}
	defer b.Cleanup()

	joypad := input.NewManager(machine.Bus)

	for {
		var code dmg.ExitCode
		var err error
		if session != nil {
			code, err = session.runFrame(machine)
		} else {
			code, err = machine.RunFrame()
		}
		if errors.Is(err, errQuit) {
			return nil
		}
		if code != dmg.ExitOK {
			return &cliError{code: code, err: err}
		}

		events, err := b.Update(machine.FrameBuffer())
		if err != nil {
			return err
		}
		for _, ev := range events {
			if ev.Action == action.EmulatorQuit && ev.Type == event.Press {
				return nil
			}
			joypad.Trigger(ev.Action, ev.Type)
		}
	}
}

// runFrame steps one instruction at a time so the debugger can break before
// any instruction, not just at frame boundaries, unlike the free-running
// machine.RunFrame() path used with no session attached. A non-nil error
// with ExitOK means the user quit the repl, not a machine fault.
func (s *debugSession) runFrame(machine *dmg.Machine) (dmg.ExitCode, error) {
	total := 0
	for total < dmg.CyclesPerFrame {
		pc := machine.Snapshot().PC
		s.history.Record(pc)
		if s.dbg.ShouldBreak(pc) {
			if quit := s.repl(machine); quit {
				return dmg.ExitOK, errQuit
			}
		}

		var cycles int
		var faultCode dmg.ExitCode
		var fault error
		func() {
			defer func() {
				if r := recover(); r != nil {
					faultCode = faultCodeFor(r)
					fault = machine.WrapFatal(toError(r))
				}
			}()
			cycles = machine.Step()
		}()
		if fault != nil {
			return faultCode, fault
		}
		total += cycles
	}
	return dmg.ExitOK, nil
}

// repl services debugger commands from stdin until the user lets execution
// continue (next/continue) or quits. It returns true on quit.
func (s *debugSession) repl(machine *dmg.Machine) bool {
	for {
		fmt.Print("[dmgcore]> ")
		if !s.stdin.Scan() {
			return true
		}

		cmd := s.dbg.Parse(s.stdin.Text())
		switch cmd.Kind {
		case debugger.Quit:
			return true
		case debugger.Next, debugger.Continue:
			return false
		case debugger.CPUPrint:
			printRegisters(machine.Snapshot())
		case debugger.MemoryPrint:
			for i := 0; i < cmd.Length; i++ {
				fmt.Printf("0x%04X: 0x%02X\n", cmd.Address+uint16(i), machine.Bus.Read(cmd.Address+uint16(i)))
			}
		case debugger.History:
			for _, pc := range s.history.Values() {
				line := disasm.DisassembleAt(pc, machine.Bus)
				fmt.Println(disasm.Format(line, pc == machine.Snapshot().PC))
			}
		case debugger.BackgroundMap:
			bg := debug.ExtractBackgroundMap(machine.Bus)
			fmt.Printf("background active:%v window active:%v using tile map 1:%v\n",
				bg.BackgroundActive, bg.WindowActive, bg.UsingTileMap1)
		case debugger.Invalid:
			fmt.Println(cmd.Error())
		}
	}
}

// printRegisters is the cpu command's output format, adopted verbatim from
// original_source/src/cpu.rs's registers_debug_print.
func printRegisters(snap cpu.Snapshot) {
	fmt.Println("-----------------")
	fmt.Printf("[A: 0x%02x F: 0x%02x]\n", snap.A, snap.F)
	fmt.Printf("[B: 0x%02x C: 0x%02x]\n", snap.B, snap.C)
	fmt.Printf("[D: 0x%02x E: 0x%02x]\n", snap.D, snap.E)
	fmt.Printf("[H: 0x%02x L: 0x%02x]\n", snap.H, snap.L)
	fmt.Printf("[PC: 0x%04x]\n", snap.PC)
	fmt.Printf("[SP: 0x%04x]\n", snap.SP)
	fmt.Printf("[Z:%d N:%d H:%d C:%d]\n",
		bit.GetBitValue(7, snap.F), bit.GetBitValue(6, snap.F), bit.GetBitValue(5, snap.F), bit.GetBitValue(4, snap.F))
	fmt.Println("-----------------")
}
