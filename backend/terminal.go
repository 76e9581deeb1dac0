package backend

import (
	"fmt"

	"github.com/arlojohansen/dmgcore/input"
	"github.com/arlojohansen/dmgcore/input/event"
	"github.com/arlojohansen/dmgcore/video"
	"github.com/gdamore/tcell/v2"
)

// shadeChars renders a GBColor's 4 shades darkest-first, spanning the full
// block down to a space for white.
var shadeChars = []rune{'█', '▓', '▒', ' '}

// Terminal renders the framebuffer as shaded terminal cells via tcell, one
// cell per vertically-stacked pixel pair: each cell shows the shade of the
// upper pixel, and the lower pixel of the pair is not drawn. Key events
// become InputEvents via input.DefaultKeyMap.
type Terminal struct {
	screen tcell.Screen
}

func NewTerminal() *Terminal {
	return &Terminal{}
}

func (t *Terminal) Init(cfg Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()
	t.screen = screen
	return nil
}

func (t *Terminal) Update(frame *video.FrameBuffer) ([]InputEvent, error) {
	t.render(frame)
	return t.pollEvents(), nil
}

func (t *Terminal) render(frame *video.FrameBuffer) {
	style := tcell.StyleDefault
	for y := uint(0); y < video.FramebufferHeight; y += 2 {
		for x := uint(0); x < video.FramebufferWidth; x++ {
			top := shadeIndex(frame.GetPixel(x, y))
			t.screen.SetContent(int(x), int(y/2), shadeChars[top], nil, style)
		}
	}
	t.screen.Show()
}

func shadeIndex(pixel uint32) int {
	switch video.GBColor(pixel) {
	case video.BlackColor:
		return 0
	case video.DarkGreyColor:
		return 1
	case video.LightGreyColor:
		return 2
	default:
		return 3
	}
}

func (t *Terminal) pollEvents() []InputEvent {
	var events []InputEvent
	for t.screen.HasPendingEvent() {
		ev := t.screen.PollEvent()
		key, ok := ev.(*tcell.EventKey)
		if !ok {
			continue
		}
		name := keyName(key)
		act, ok := input.Lookup(name)
		if !ok {
			continue
		}
		events = append(events, InputEvent{Action: act, Type: event.Press})
	}
	return events
}

func keyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyUp:
		return "Up"
	case tcell.KeyDown:
		return "Down"
	case tcell.KeyLeft:
		return "Left"
	case tcell.KeyRight:
		return "Right"
	case tcell.KeyEnter:
		return "Enter"
	case tcell.KeyEscape:
		return "Escape"
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			return "Space"
		}
		return string(ev.Rune())
	default:
		return ""
	}
}

func (t *Terminal) Cleanup() error {
	if t.screen != nil {
		t.screen.Fini()
	}
	return nil
}
