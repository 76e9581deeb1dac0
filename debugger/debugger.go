// Package debugger implements the command grammar and run-state held by an
// interactive stdin session attached to a running machine: breakpoints,
// single/multi-instruction stepping, and toggles for the optional debug
// views. It holds no reference to the machine itself — cmd/dmgcore wires
// Debugger's decisions (ShouldBreak, the parsed Command) against a
// *dmg.Machine from the outside.
package debugger

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies a parsed debugger command.
type Kind int

const (
	Invalid Kind = iota
	Next
	Continue
	SetBreakpoint
	ClearBreakpoint
	MemoryPrint
	CPUPrint
	Display
	BackgroundMap
	History
	BackgroundOn
	BackgroundOff
	LogOn
	LogOff
	CPUPrintOn
	CPUPrintOff
	Quit
)

// Command is one parsed line from the debugger prompt.
type Command struct {
	Kind    Kind
	Address uint16 // SetBreakpoint, ClearBreakpoint, MemoryPrint
	Length  int    // MemoryPrint, byte count (default 1)
	Raw     string // the original input, for Invalid's error message
}

// Debugger tracks breakpoints and step-count state across commands.
type Debugger struct {
	breakpoints map[uint16]bool
	nextCount   int

	ShowBackground  bool
	LogEnabled      bool
	CPUPrintEnabled bool
}

// New creates a Debugger with a breakpoint at the reset vector, matching the
// "break at start" behavior of a freshly attached session.
func New() *Debugger {
	return &Debugger{breakpoints: map[uint16]bool{0x0000: true}}
}

// ShouldBreak reports whether execution should pause before pc, consuming
// one step of any outstanding Next count.
func (d *Debugger) ShouldBreak(pc uint16) bool {
	if d.nextCount > 0 {
		d.nextCount--
		return d.nextCount == 0
	}
	return d.breakpoints[pc]
}

// Breakpoints returns the currently set breakpoint addresses.
func (d *Debugger) Breakpoints() []uint16 {
	out := make([]uint16, 0, len(d.breakpoints))
	for addr := range d.breakpoints {
		out = append(out, addr)
	}
	return out
}

// Parse tokenizes one input line into a Command and applies any
// command-local state change (setting next_count, adding/removing a
// breakpoint, toggling a view) immediately, the way read_command does.
func (d *Debugger) Parse(line string) Command {
	parts := strings.Fields(strings.TrimSpace(line))
	if len(parts) == 0 {
		return Command{Kind: Invalid, Raw: line}
	}

	switch parts[0] {
	case "next", "n":
		n := 1
		if len(parts) > 1 {
			if v, err := strconv.Atoi(parts[1]); err == nil && v > 0 {
				n = v
			}
		}
		d.nextCount = n
		return Command{Kind: Next}

	case "continue", "c", "run":
		return Command{Kind: Continue}

	case "breakpoint", "break", "b":
		addr, ok := parseHex16(parts, 1)
		if !ok {
			return Command{Kind: Invalid, Raw: line}
		}
		d.breakpoints[addr] = true
		return Command{Kind: SetBreakpoint, Address: addr}

	case "-breakpoint", "-break", "-b":
		addr, ok := parseHex16(parts, 1)
		if !ok {
			return Command{Kind: Invalid, Raw: line}
		}
		delete(d.breakpoints, addr)
		return Command{Kind: ClearBreakpoint, Address: addr}

	case "memory", "mem", "m":
		addr, ok := parseHex16(parts, 1)
		if !ok {
			return Command{Kind: Invalid, Raw: line}
		}
		length := 1
		if len(parts) > 2 {
			if v, err := strconv.Atoi(parts[2]); err == nil && v > 0 {
				length = v
			}
		}
		return Command{Kind: MemoryPrint, Address: addr, Length: length}

	case "cpu":
		return Command{Kind: CPUPrint}

	case "display", "d":
		return Command{Kind: Display}

	case "backgroundmap", "bgmap", "bgm":
		return Command{Kind: BackgroundMap}

	case "history", "hist":
		return Command{Kind: History}

	case "background-on":
		d.ShowBackground = true
		return Command{Kind: BackgroundOn}
	case "background-off":
		d.ShowBackground = false
		return Command{Kind: BackgroundOff}

	case "log-on":
		d.LogEnabled = true
		return Command{Kind: LogOn}
	case "log-off":
		d.LogEnabled = false
		return Command{Kind: LogOff}

	case "cpu-print-on":
		d.CPUPrintEnabled = true
		return Command{Kind: CPUPrintOn}
	case "cpu-print-off":
		d.CPUPrintEnabled = false
		return Command{Kind: CPUPrintOff}

	case "exit", "e", "quit", "q":
		return Command{Kind: Quit}

	default:
		return Command{Kind: Invalid, Raw: line}
	}
}

func parseHex16(parts []string, index int) (uint16, bool) {
	if index >= len(parts) {
		return 0, false
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(parts[index], "0x"), 16, 16)
	if err != nil {
		return 0, false
	}
	return uint16(v), true
}

// Error renders an unrecognized command message matching the prompt's style.
func (c Command) Error() string {
	return fmt.Sprintf("unrecognized debugger command: %q", c.Raw)
}
