// Package serial implements the SB/SC register pair and a stub transfer
// completion timer. No link-cable peer protocol is implemented: a started
// transfer always "completes" against an absent peer, leaving SB at 0xFF.
package serial

import (
	"log/slog"

	"github.com/arlojohansen/dmgcore/addr"
	"github.com/arlojohansen/dmgcore/bit"
)

// cyclesPerByte approximates the DMG's ~8192 Hz internal serial clock: one
// bit every 512 T-states, 8 bits per byte.
const cyclesPerByte = 512 * 8

// Port is a minimal serial device: SB/SC register access plus a
// cycle-driven transfer-complete timer that requests the Serial interrupt.
type Port struct {
	sb, sc         byte
	transferActive bool
	countdown      int

	irqHandler func()
	line       []byte
}

// New creates a serial port. irq is invoked when a transfer completes and
// should request the Serial interrupt.
func New(irq func()) *Port {
	return &Port{sb: 0x00, sc: 0x00, irqHandler: irq}
}

func (p *Port) Read(address uint16) byte {
	switch address {
	case addr.SB:
		return p.sb
	case addr.SC:
		return p.sc | 0x7E
	default:
		return 0xFF
	}
}

func (p *Port) Write(address uint16, value byte) {
	switch address {
	case addr.SB:
		p.sb = value
	case addr.SC:
		p.sc = value
		p.maybeStartTransfer()
	}
}

// Tick advances the in-flight transfer countdown, if any.
func (p *Port) Tick(cycles int) {
	if !p.transferActive {
		return
	}
	p.countdown -= cycles
	if p.countdown <= 0 {
		p.completeTransfer()
	}
}

func (p *Port) maybeStartTransfer() {
	if p.transferActive {
		return
	}
	// bit 7 (start) and bit 0 (internal clock) must both be set; an
	// external-clock transfer with no peer never completes on real
	// hardware, so it's simply ignored here.
	if !bit.IsSet(7, p.sc) || !bit.IsSet(0, p.sc) {
		return
	}

	b := p.sb
	if b == 0 || b == '\n' || b == '\r' {
		if len(p.line) > 0 {
			slog.Info("serial transfer", "line", string(p.line))
			p.line = p.line[:0]
		}
	} else {
		p.line = append(p.line, b)
	}

	p.transferActive = true
	p.countdown = cyclesPerByte
}

func (p *Port) completeTransfer() {
	p.sb = 0xFF
	p.sc = bit.Clear(7, p.sc)
	p.transferActive = false
	p.countdown = 0
	if p.irqHandler != nil {
		p.irqHandler()
	}
}
