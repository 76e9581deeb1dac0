// Package audio implements a single square-wave channel with envelope and
// length: duty-cycle generation, a 512Hz frame sequencer clocking length and
// envelope, and a mutex-protected mono sample packet pulled by a backend.
package audio

import (
	"sync"

	"github.com/arlojohansen/dmgcore/addr"
	"github.com/arlojohansen/dmgcore/bit"
)

const cyclesPerStep = 8192 // 512Hz frame sequencer, at the 4.194304MHz CPU clock

var dutyPatterns = [4][8]int64{
	{0, 1, 0, 0, 0, 0, 0, 0},
	{0, 1, 1, 0, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 0, 0, 0},
	{1, 0, 0, 1, 1, 1, 1, 1},
}

const sampleScale = 32767.0 / 15.0

// channel holds the pulse channel's derived playback state.
type channel struct {
	enabled    bool
	dacEnabled bool

	duty   uint8
	length uint16

	volume          uint8
	envelopeUp      bool
	envelopePace    uint8
	envelopeCounter uint8
	envelopeLatched bool

	period       uint16
	lengthEnable bool

	freqTimer int
	dutyStep  uint8
}

// APU is a single-channel Audio Processing Unit: CH1's square/envelope/
// length logic without the sweep unit, matching the one-pulse-channel scope.
type APU struct {
	mu sync.Mutex

	enabled bool
	ch      channel
	volume  uint8 // NR50 master volume (0-7), single output lane

	cycles int // cycles since last frame-sequencer tick
	step   int // frame sequencer step, 0-7

	mixAcc      int64
	mixCycles   int
	pcmCycleAcc float64
	pcmPerSamp  float64
	pcmBuffer   []int16
	pcmCursor   int

	NR11, NR12, NR13, NR14 uint8
	NR50, NR51, NR52       uint8
}

// New creates an APU producing samples at the given host sample rate.
func New(hostSampleRate int, cpuFrequency int) *APU {
	if hostSampleRate <= 0 {
		hostSampleRate = 44100
	}
	return &APU{pcmPerSamp: float64(cpuFrequency) / float64(hostSampleRate)}
}

// Tick advances the APU by the given number of T-states.
func (a *APU) Tick(cycles int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.enabled {
		return
	}

	a.tickGenerator(cycles)

	a.cycles += cycles
	for a.cycles >= cyclesPerStep {
		a.cycles -= cyclesPerStep
		a.tickSequence()
	}
}

func (a *APU) tickGenerator(cycles int) {
	if cycles <= 0 {
		return
	}

	var level int64
	if a.ch.enabled && a.ch.dacEnabled {
		level = a.stepSquare(cycles)
	}

	a.mixAcc += level * int64(cycles)
	a.mixCycles += cycles
	a.flushMix(cycles)
}

func (a *APU) stepSquare(cycles int) int64 {
	period := a.periodCycles()
	if period == 0 {
		return 0
	}
	if a.ch.freqTimer <= 0 {
		a.ch.freqTimer = period
	}

	a.ch.freqTimer -= cycles
	for a.ch.freqTimer <= 0 {
		a.ch.freqTimer += period
		a.ch.dutyStep = (a.ch.dutyStep + 1) & 0x7
	}

	if a.ch.volume == 0 {
		return 0
	}
	pattern := dutyPatterns[a.ch.duty&0x3][a.ch.dutyStep]
	level := int64(a.ch.volume)
	if pattern == 0 {
		return -level
	}
	return level
}

func (a *APU) periodCycles() int {
	period := 2048 - int(a.ch.period&0x7FF)
	if period <= 0 {
		return 0
	}
	return period * 4
}

func (a *APU) flushMix(cycles int) {
	if a.pcmPerSamp <= 0 {
		return
	}
	a.pcmCycleAcc += float64(cycles)
	if a.pcmCycleAcc < a.pcmPerSamp {
		return
	}
	a.pcmCycleAcc -= a.pcmPerSamp

	var avg float64
	if a.mixCycles > 0 {
		avg = float64(a.mixAcc) / float64(a.mixCycles)
	}
	gain := float64(a.volume+1) / 8.0
	sample := avg * gain * sampleScale
	if sample > 32767 {
		sample = 32767
	} else if sample < -32768 {
		sample = -32768
	}
	a.pcmBuffer = append(a.pcmBuffer, int16(sample))

	a.mixAcc = 0
	a.mixCycles = 0
}

// tickSequence advances the frame sequencer. Length clocks at steps
// 0,2,4,6 (256Hz); envelope clocks at step 7 (64Hz). Sweep (steps 2,6) is
// not implemented: this channel has no sweep unit.
func (a *APU) tickSequence() {
	switch a.step {
	case 0, 2, 4, 6:
		a.tickLength()
	case 7:
		a.tickEnvelope()
	}
	a.step = (a.step + 1) % 8
}

func (a *APU) tickLength() {
	if a.ch.lengthEnable && a.ch.length > 0 {
		a.ch.length--
		if a.ch.length == 0 {
			a.ch.enabled = false
		}
	}
}

func (a *APU) tickEnvelope() {
	if !a.ch.dacEnabled || a.ch.envelopeLatched {
		return
	}

	pace := a.ch.envelopePace
	if pace == 0 {
		pace = 8
	}
	if a.ch.envelopeCounter == 0 {
		a.ch.envelopeCounter = pace
	}
	a.ch.envelopeCounter--
	if a.ch.envelopeCounter > 0 {
		return
	}

	if a.ch.envelopeUp {
		if a.ch.volume < 15 {
			a.ch.volume++
			a.ch.envelopeCounter = pace
		} else {
			a.ch.envelopeLatched = true
		}
	} else {
		if a.ch.volume > 0 {
			a.ch.volume--
			a.ch.envelopeCounter = pace
		} else {
			a.ch.envelopeLatched = true
		}
	}
}

// ReadRegister returns a masked register value; write-only bits read as 1.
func (a *APU) ReadRegister(address uint16) uint8 {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch address {
	case addr.NR11:
		return a.NR11 | 0b0011_1111
	case addr.NR12:
		return a.NR12
	case addr.NR13:
		return 0xFF
	case addr.NR14:
		return a.NR14 | 0b1011_1111
	case addr.NR50:
		return a.NR50
	case addr.NR51:
		return a.NR51
	case addr.NR52:
		status := uint8(0b0111_0000)
		if a.enabled {
			status = bit.Set(7, status)
		}
		if a.ch.enabled {
			status = bit.Set(0, status)
		}
		return status
	default:
		return 0xFF
	}
}

// WriteRegister handles a write to one of the sound registers.
func (a *APU) WriteRegister(address uint16, value uint8) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.enabled && address != addr.NR52 {
		return
	}

	switch address {
	case addr.NR11:
		a.NR11 = value
		a.ch.length = 64 - uint16(bit.ExtractBits(value, 5, 0))
	case addr.NR12:
		a.NR12 = value
		pace := bit.ExtractBits(value, 2, 0)
		if pace == 0 {
			a.ch.envelopeCounter = 8
		} else {
			a.ch.envelopeCounter = pace
		}
		a.ch.envelopeLatched = false
	case addr.NR13:
		a.NR13 = value
	case addr.NR14:
		a.NR14 = value
	case addr.NR50:
		a.NR50 = value
	case addr.NR51:
		a.NR51 = value
	case addr.NR52:
		a.NR52 = value
	default:
		return
	}

	a.mapRegistersToState()
}

func (a *APU) mapRegistersToState() {
	a.enabled = bit.IsSet(7, a.NR52)
	if !a.enabled {
		a.NR11, a.NR12, a.NR13, a.NR14 = 0, 0, 0, 0
		a.NR50, a.NR51 = 0, 0
		a.ch.enabled = false
		return
	}

	a.volume = bit.ExtractBits(a.NR50, 2, 0)

	a.ch.duty = bit.ExtractBits(a.NR11, 7, 6)
	a.ch.volume = bit.ExtractBits(a.NR12, 7, 4)
	a.ch.envelopeUp = bit.IsSet(3, a.NR12)
	a.ch.envelopePace = bit.ExtractBits(a.NR12, 2, 0)
	a.ch.dacEnabled = a.ch.volume > 0 || a.ch.envelopeUp

	a.ch.period = bit.Combine(a.NR14&0b111, a.NR13)

	prevLenEnable := a.ch.lengthEnable
	lengthBefore := a.ch.length
	triggered := bit.IsSet(7, a.NR14)
	a.ch.lengthEnable = bit.IsSet(6, a.NR14)

	if triggered {
		if a.ch.dacEnabled {
			a.ch.enabled = true
		}
		a.ch.envelopeLatched = false
		if a.ch.envelopePace == 0 {
			a.ch.envelopeCounter = 8
		} else {
			a.ch.envelopeCounter = a.ch.envelopePace
		}
		a.ch.dutyStep = 0
		a.ch.freqTimer = a.periodCycles()
		a.NR14 = bit.Reset(7, a.NR14)
	}

	if triggered && lengthBefore == 0 {
		a.ch.length = 64
	}
	if a.ch.lengthEnable && !prevLenEnable && a.step%2 == 1 && a.ch.length > 0 {
		a.ch.length--
		if a.ch.length == 0 {
			a.ch.enabled = false
		}
	}

	if !a.ch.dacEnabled {
		a.ch.enabled = false
	}
}

// GetSamples returns count mono samples, zero-filled if the buffer has run
// dry. Safe to call from a different goroutine than Tick/WriteRegister.
func (a *APU) GetSamples(count int) []int16 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if count <= 0 {
		return nil
	}

	out := make([]int16, count)
	available := len(a.pcmBuffer) - a.pcmCursor
	toCopy := min(available, count)
	if toCopy > 0 {
		copy(out, a.pcmBuffer[a.pcmCursor:a.pcmCursor+toCopy])
		a.pcmCursor += toCopy
	}

	if a.pcmCursor >= len(a.pcmBuffer) {
		a.pcmBuffer = a.pcmBuffer[:0]
		a.pcmCursor = 0
	}

	return out
}
