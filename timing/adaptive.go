package timing

import (
	"log/slog"
	"time"
)

// Adaptive combines a coarse sleep with a short busy-wait tail for
// sub-millisecond frame accuracy, and nudges its schedule back in line
// every 60 frames if the two have drifted apart.
type Adaptive struct {
	frameDuration time.Duration
	nextFrame     time.Time
	frameCount    int64
}

// NewAdaptive creates a Limiter with drift correction, its schedule
// starting from the moment of construction.
func NewAdaptive() *Adaptive {
	return &Adaptive{
		frameDuration: FrameDuration(),
		nextFrame:     time.Now(),
	}
}

func (a *Adaptive) Wait() {
	now := time.Now()
	remaining := a.nextFrame.Sub(now)

	switch {
	case remaining > 2*time.Millisecond:
		time.Sleep(remaining - time.Millisecond)
		for time.Now().Before(a.nextFrame) {
		}
	case remaining > 0:
		for time.Now().Before(a.nextFrame) {
		}
	case remaining < -5*time.Millisecond:
		// fell too far behind to catch up; resync instead of bursting frames
		a.nextFrame = now
	}

	a.nextFrame = a.nextFrame.Add(a.frameDuration)
	a.frameCount++

	if a.frameCount%60 == 0 {
		drift := time.Now().Sub(a.nextFrame)
		if drift.Abs() > 10*time.Millisecond {
			a.nextFrame = a.nextFrame.Add(drift / 10)
			slog.Debug("frame timing drift correction", "drift_ms", drift.Milliseconds())
		}
	}
}

func (a *Adaptive) Reset() {
	a.nextFrame = time.Now()
	a.frameCount = 0
}
