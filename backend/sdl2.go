//go:build sdl2

package backend

import (
	"fmt"
	"log/slog"

	"github.com/arlojohansen/dmgcore/input/action"
	"github.com/arlojohansen/dmgcore/input/event"
	"github.com/arlojohansen/dmgcore/video"
	"github.com/veandco/go-sdl2/sdl"
)

// SDL2 implements Backend with a real window, requiring SDL2's development
// libraries at build time (hence the build tag gating it out by default).
type SDL2 struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	running  bool
}

func NewSDL2() *SDL2 {
	return &SDL2{}
}

func (s *SDL2) Init(cfg Config) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("initializing SDL2: %w", err)
	}

	scale := cfg.Scale
	if scale <= 0 {
		scale = 2
	}

	window, err := sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(video.FramebufferWidth*scale), int32(video.FramebufferHeight*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("creating window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("creating renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth, video.FramebufferHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("creating texture: %w", err)
	}
	s.texture = texture
	s.running = true

	slog.Info("SDL2 backend initialized", "scale", scale)
	return nil
}

func (s *SDL2) Update(frame *video.FrameBuffer) ([]InputEvent, error) {
	if !s.running {
		return nil, nil
	}

	var events []InputEvent
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		events = append(events, s.translate(ev)...)
	}

	if err := s.present(frame); err != nil {
		return events, err
	}
	return events, nil
}

func (s *SDL2) present(frame *video.FrameBuffer) error {
	pixels := make([]byte, video.FramebufferWidth*video.FramebufferHeight*4)
	for y := uint(0); y < video.FramebufferHeight; y++ {
		for x := uint(0); x < video.FramebufferWidth; x++ {
			c := frame.GetPixel(x, y)
			i := (y*video.FramebufferWidth + x) * 4
			pixels[i] = byte(c >> 24)
			pixels[i+1] = byte(c >> 16)
			pixels[i+2] = byte(c >> 8)
			pixels[i+3] = byte(c)
		}
	}

	if err := s.texture.Update(nil, pixels, video.FramebufferWidth*4); err != nil {
		return fmt.Errorf("updating texture: %w", err)
	}
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
	return nil
}

func (s *SDL2) translate(ev sdl.Event) []InputEvent {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		s.running = false
		return []InputEvent{{Action: action.EmulatorQuit, Type: event.Press}}
	case *sdl.KeyboardEvent:
		act, ok := sdlAction(e.Keysym.Sym)
		if !ok {
			return nil
		}
		evtType := event.Press
		if e.Type == sdl.KEYUP {
			evtType = event.Release
		}
		return []InputEvent{{Action: act, Type: evtType}}
	default:
		return nil
	}
}

func sdlAction(key sdl.Keycode) (action.Action, bool) {
	switch key {
	case sdl.K_RETURN:
		return action.GBButtonStart, true
	case sdl.K_RSHIFT, sdl.K_LSHIFT:
		return action.GBButtonSelect, true
	case sdl.K_UP:
		return action.GBDPadUp, true
	case sdl.K_DOWN:
		return action.GBDPadDown, true
	case sdl.K_LEFT:
		return action.GBDPadLeft, true
	case sdl.K_RIGHT:
		return action.GBDPadRight, true
	case sdl.K_z:
		return action.GBButtonA, true
	case sdl.K_x:
		return action.GBButtonB, true
	case sdl.K_SPACE:
		return action.EmulatorPauseToggle, true
	case sdl.K_f:
		return action.EmulatorStepFrame, true
	case sdl.K_n:
		return action.EmulatorStepInstruction, true
	case sdl.K_ESCAPE:
		return action.EmulatorQuit, true
	default:
		return 0, false
	}
}

func (s *SDL2) Cleanup() error {
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}
