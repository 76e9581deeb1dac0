package backend

import (
	"testing"

	"github.com/arlojohansen/dmgcore/video"
	"github.com/stretchr/testify/assert"
)

func TestHeadlessCountsFrames(t *testing.T) {
	h := NewHeadless()
	assert.NoError(t, h.Init(Config{Title: "test"}))

	frame := video.NewFrameBuffer()
	_, err := h.Update(frame)
	assert.NoError(t, err)
	_, err = h.Update(frame)
	assert.NoError(t, err)

	assert.Equal(t, 2, h.FrameCount())
	assert.NoError(t, h.Cleanup())
}

func TestSDL2StubReturnsUnavailableError(t *testing.T) {
	s := NewSDL2()

	err := s.Init(Config{})

	assert.Error(t, err)
}
