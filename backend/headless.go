package backend

import (
	"log/slog"

	"github.com/arlojohansen/dmgcore/video"
)

// Headless renders nothing and reports no input; it exists for batch runs
// and tests that only care about cycle-accurate execution, not display.
type Headless struct {
	frameCount int
}

func NewHeadless() *Headless {
	return &Headless{}
}

func (h *Headless) Init(cfg Config) error {
	slog.Info("running headless backend", "title", cfg.Title)
	return nil
}

func (h *Headless) Update(frame *video.FrameBuffer) ([]InputEvent, error) {
	h.frameCount++
	return nil, nil
}

func (h *Headless) Cleanup() error {
	return nil
}

// FrameCount returns the number of frames presented so far.
func (h *Headless) FrameCount() int {
	return h.frameCount
}
