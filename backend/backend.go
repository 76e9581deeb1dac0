// Package backend defines the presentation-layer contract the core hands
// frames to and takes input events from: a pixel sink, nothing more. The
// core never imports a concrete backend; cmd/dmgcore picks one.
package backend

import (
	"github.com/arlojohansen/dmgcore/input/action"
	"github.com/arlojohansen/dmgcore/input/event"
	"github.com/arlojohansen/dmgcore/video"
)

// InputEvent is one action/event pair a backend observed this Update.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// Config configures a backend at Init time.
type Config struct {
	Title string
	Scale int
}

// Backend is a complete presentation platform: it renders the frame it's
// handed and reports whatever input occurred since the last Update.
type Backend interface {
	Init(cfg Config) error
	Update(frame *video.FrameBuffer) ([]InputEvent, error)
	Cleanup() error
}
