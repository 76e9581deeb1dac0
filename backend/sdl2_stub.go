//go:build !sdl2

package backend

import (
	"fmt"

	"github.com/arlojohansen/dmgcore/video"
)

// SDL2 stub for builds without the sdl2 tag: SDL2's development headers
// aren't something every environment has installed, so the default build
// skips linking against them.
type SDL2 struct{}

func NewSDL2() *SDL2 {
	return &SDL2{}
}

func (s *SDL2) Init(cfg Config) error {
	return fmt.Errorf("SDL2 backend not available: rebuild with -tags sdl2")
}

func (s *SDL2) Update(frame *video.FrameBuffer) ([]InputEvent, error) {
	return nil, fmt.Errorf("SDL2 backend not available")
}

func (s *SDL2) Cleanup() error {
	return nil
}
