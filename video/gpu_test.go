package video

import (
	"testing"

	"github.com/arlojohansen/dmgcore/addr"
	"github.com/arlojohansen/dmgcore/memory"
	"github.com/stretchr/testify/assert"
)

func TestGPUBackgroundAllWhiteTile(t *testing.T) {
	bus := memory.New()
	gpu := NewGPU(bus)

	bus.Write(addr.LCDC, 0x91) // LCD + BG enabled, tileset 1
	bus.Write(addr.BGP, 0xE4)
	bus.Write(addr.SCX, 0)
	bus.Write(addr.SCY, 0)

	for i := 0; i < 16; i++ {
		bus.Write(0x8000+uint16(i), 0xFF)
	}
	bus.Write(0x9800, 0x00)

	gpu.line = 0
	gpu.drawBackground()

	fb := gpu.FrameBuffer()
	assert.Equal(t, uint32(WhiteColor), fb.GetPixel(0, 0))
	assert.Equal(t, uint32(WhiteColor), fb.GetPixel(7, 0))
}

func TestGPUBackgroundCheckeredTile(t *testing.T) {
	bus := memory.New()
	gpu := NewGPU(bus)

	bus.Write(addr.LCDC, 0x91)
	bus.Write(addr.BGP, 0xE4) // 11 10 01 00: color1->DarkGrey, color0->Black
	bus.Write(0x8000, 0xAA)
	bus.Write(0x8001, 0x00)
	bus.Write(0x9800, 0x00)

	gpu.line = 0
	gpu.drawBackground()

	fb := gpu.FrameBuffer()
	assert.Equal(t, uint32(DarkGreyColor), fb.GetPixel(0, 0))
	assert.Equal(t, uint32(BlackColor), fb.GetPixel(1, 0))
}

func TestGPUTileAddressSignedAndUnsigned(t *testing.T) {
	bus := memory.New()
	gpu := NewGPU(bus)

	addr0 := gpu.resolveTileAddr(addr.TileData0, 0x01, false, 0)
	assert.Equal(t, uint16(0x8010), addr0)

	addrSigned := gpu.resolveTileAddr(addr.TileData2, 0x80, true, 0) // -128
	assert.Equal(t, uint16(0x8800), addrSigned)

	addrSignedPos := gpu.resolveTileAddr(addr.TileData2, 0x7F, true, 0) // +127
	assert.Equal(t, uint16(0x97F0), addrSignedPos)
}

func TestGPUModeTransitionGatesAccess(t *testing.T) {
	bus := memory.New()
	gpu := NewGPU(bus)

	gpu.setMode(vramReadMode)
	bus.Write(0x8000, 0x11) // dropped: VRAM blocked during mode 3
	assert.Equal(t, byte(0xFF), bus.Read(0x8000))

	gpu.setMode(hblankMode)
	bus.Write(0x8000, 0x11)
	assert.Equal(t, byte(0x11), bus.Read(0x8000))
}

func TestGPUSpritePriorityLowerXWins(t *testing.T) {
	bus := memory.New()
	gpu := NewGPU(bus)

	bus.Write(addr.LCDC, 0x93) // LCD+BG+sprites enabled, 8x8 sprites
	bus.Write(addr.OBP0, 0xE4)

	// two sprites overlapping at screen X=5: one at X=0 (OAM idx 0), one at X=2 (idx 1)
	bus.Write(addr.OAMStart+0, 16) // Y
	bus.Write(addr.OAMStart+1, 8)  // X=0
	bus.Write(addr.OAMStart+2, 0)  // tile 0
	bus.Write(addr.OAMStart+3, 0)  // flags

	bus.Write(addr.OAMStart+4, 16) // Y
	bus.Write(addr.OAMStart+5, 10) // X=2
	bus.Write(addr.OAMStart+6, 0)
	bus.Write(addr.OAMStart+7, 0)

	for i := 0; i < 16; i++ {
		bus.Write(0x8000+uint16(i), 0xFF)
	}

	gpu.line = 0
	gpu.drawSprites()

	assert.Equal(t, 0, gpu.spritePriority.GetOwner(5))
}
