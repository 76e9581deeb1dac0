// Package video implements the DMG pixel-processing unit: the mode state
// machine, the scanline rasteriser (background, window, sprites), and the
// framebuffer it draws into.
package video

import "math/rand"

// GBColor is one of the four DMG shades, stored packed RGBA.
type GBColor uint32

const (
	FramebufferWidth  = 160
	FramebufferHeight = 144
	FramebufferSize   = FramebufferWidth * FramebufferHeight
)

const (
	WhiteColor     GBColor = 0xFFFFFFFF
	LightGreyColor GBColor = 0x989898FF
	DarkGreyColor  GBColor = 0x4C4C4CFF
	BlackColor     GBColor = 0x000000FF
)

// ByteToColor maps a 2-bit palette index (0-3) to a display color.
func ByteToColor(value byte) GBColor {
	switch value {
	case 0:
		return BlackColor
	case 1:
		return DarkGreyColor
	case 2:
		return LightGreyColor
	case 3:
		return WhiteColor
	}
	return 0
}

// FrameBuffer is the 160x144 pixel grid the PPU renders into, and the sink's
// consumption point.
type FrameBuffer struct {
	width, height uint
	buffer        []uint32
}

func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{
		width:  FramebufferWidth,
		height: FramebufferHeight,
		buffer: make([]uint32, FramebufferSize),
	}
}

func (fb FrameBuffer) GetPixel(x, y uint) uint32 {
	return fb.buffer[y*fb.width+x]
}

func (fb *FrameBuffer) SetPixel(x, y uint, color GBColor) {
	fb.buffer[y*fb.width+x] = uint32(color)
}

// ToSlice exposes the raw pixel buffer for a backend's render call.
func (fb *FrameBuffer) ToSlice() []uint32 {
	return fb.buffer
}

// Clear resets the framebuffer to black.
func (fb *FrameBuffer) Clear() {
	for i := range fb.buffer {
		fb.buffer[i] = 0
	}
}

// DrawNoise fills the buffer with random DMG shades; used by backends as a
// placeholder when no ROM is loaded.
func (fb *FrameBuffer) DrawNoise() {
	palette := [4]GBColor{WhiteColor, BlackColor, LightGreyColor, DarkGreyColor}
	for i := range fb.buffer {
		fb.buffer[i] = uint32(palette[rand.Uint32()%4])
	}
}

// ToGrayscale converts the framebuffer to 0-3 shade indices, for test
// comparison against golden frames.
func (fb *FrameBuffer) ToGrayscale() []byte {
	data := make([]byte, len(fb.buffer))
	for i, pixel := range fb.buffer {
		switch GBColor(pixel) {
		case BlackColor:
			data[i] = 0
		case DarkGreyColor:
			data[i] = 1
		case LightGreyColor:
			data[i] = 2
		case WhiteColor:
			data[i] = 3
		}
	}
	return data
}
