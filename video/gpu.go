package video

import (
	"fmt"
	"log/slog"

	"github.com/arlojohansen/dmgcore/addr"
	"github.com/arlojohansen/dmgcore/bit"
	"github.com/arlojohansen/dmgcore/memory"
)

// GpuMode represents the PPU's current rendering stage. These values match
// the STAT register bits 1-0.
type GpuMode int

const (
	// hblankMode (Mode 0): horizontal blank, CPU can access VRAM/OAM.
	hblankMode GpuMode = 0
	// vblankMode (Mode 1): vertical blank, CPU can access VRAM/OAM.
	vblankMode GpuMode = 1
	// oamReadMode (Mode 2): PPU is scanning OAM, CPU cannot access OAM.
	oamReadMode GpuMode = 2
	// vramReadMode (Mode 3): PPU is reading VRAM, CPU cannot access VRAM/OAM.
	vramReadMode GpuMode = 3
)

const (
	hblankCycles       = 204
	oamScanlineCycles  = 80
	vramScanlineCycles = 172
	scanlineCycles     = oamScanlineCycles + vramScanlineCycles + hblankCycles
	cyclesPerFrame     = 70224
)

// GPU is the scanline-based pixel processing unit: it drives LY/STAT timing,
// gates the bus's VRAM/OAM windows according to its current mode, and
// rasterizes background, window, and sprite layers one scanline at a time.
type GPU struct {
	bus            *memory.Bus
	framebuffer    *FrameBuffer
	bgPixelBuffer  []byte
	spritePriority spritePriorityBuffer

	mode                 GpuMode
	line                 int
	cycles               int
	modeCounterAux       int
	vBlankLine           int
	isScanLineTransfered bool
	windowLine           int
}

// NewGPU creates a PPU bound to the given bus, starting in vblank at line
// 144 (the post-boot hardware state when a boot ROM hands off control).
func NewGPU(bus *memory.Bus) *GPU {
	gpu := &GPU{
		bus:           bus,
		framebuffer:   NewFrameBuffer(),
		bgPixelBuffer: make([]byte, FramebufferSize),
		mode:          vblankMode,
		line:          144,
	}

	lcdc := bus.Read(addr.LCDC)
	slog.Debug("PPU initialized", "LCDC", fmt.Sprintf("0x%02X", lcdc), "enabled", (lcdc&0x80) != 0)

	return gpu
}

// FrameBuffer returns the 160x144 pixel buffer the PPU draws into.
func (g *GPU) FrameBuffer() *FrameBuffer {
	return g.framebuffer
}

// Tick advances the PPU state machine by the given number of T-states,
// gating the bus's VRAM/OAM windows on every mode transition.
func (g *GPU) Tick(cycles int) {
	g.cycles += cycles

	switch g.mode {
	case hblankMode:
		if g.cycles < hblankCycles {
			break
		}
		g.cycles -= hblankCycles
		g.setMode(oamReadMode)
		g.setLY(g.line + 1)

		if g.line == 144 {
			g.setMode(vblankMode)
			g.vBlankLine = 0
			g.modeCounterAux = g.cycles
			g.windowLine = 0

			g.bus.RequestInterrupt(addr.VBlankInterrupt)
			if g.bus.ReadBit(statVblankIrq, addr.STAT) {
				g.bus.RequestInterrupt(addr.LCDSTATInterrupt)
			}
		} else if g.bus.ReadBit(statOamIrq, addr.STAT) {
			g.bus.RequestInterrupt(addr.LCDSTATInterrupt)
		}
	case vblankMode:
		g.modeCounterAux += cycles

		if g.modeCounterAux >= scanlineCycles {
			g.modeCounterAux -= scanlineCycles
			g.vBlankLine++

			if g.vBlankLine <= 9 {
				g.setLY(g.line + 1)
			}
		}

		if g.cycles >= 4104 && g.modeCounterAux >= 4 && g.line == 153 {
			g.setLY(0)
		}

		if g.cycles >= 4560 {
			g.cycles -= 4560
			g.setMode(oamReadMode)
			if g.bus.ReadBit(statOamIrq, addr.STAT) {
				g.bus.RequestInterrupt(addr.LCDSTATInterrupt)
			}
		}
	case oamReadMode:
		if g.cycles >= oamScanlineCycles {
			g.cycles -= oamScanlineCycles
			g.setMode(vramReadMode)
			g.isScanLineTransfered = false
		}
	case vramReadMode:
		if !g.isScanLineTransfered {
			if g.readLCDCVariable(lcdDisplayEnable) == 1 {
				g.drawScanline()
			}
			g.isScanLineTransfered = true
		}

		if g.cycles >= vramScanlineCycles {
			g.cycles -= vramScanlineCycles
			g.setMode(hblankMode)

			if g.bus.ReadBit(statHblankIrq, addr.STAT) {
				g.bus.RequestInterrupt(addr.LCDSTATInterrupt)
			}
		}
	}

	if g.cycles >= cyclesPerFrame {
		g.cycles -= cyclesPerFrame
	}
}

func (g *GPU) drawScanline() {
	if g.readLCDCVariable(lcdDisplayEnable) == 0 {
		lineWidth := g.line * FramebufferWidth
		for i := 0; i < FramebufferWidth; i++ {
			g.framebuffer.buffer[lineWidth+i] = 0xFFFFFFFF
		}
		return
	}

	g.drawBackground()
	g.drawWindow()
	g.drawSprites()
}

func (g *GPU) drawBackground() {
	lineWidth := g.line * FramebufferWidth
	backgroundEnabled := g.readLCDCVariable(bgDisplay) == 1

	if !backgroundEnabled {
		palette := g.bus.Read(addr.BGP)
		color0 := palette & 0x03
		displayColor := uint32(ByteToColor(color0))

		for i := range FramebufferWidth {
			g.framebuffer.buffer[lineWidth+i] = displayColor
			g.bgPixelBuffer[lineWidth+i] = 0
		}
		return
	}

	useSignedTileSet := g.readLCDCVariable(bgWindowTileDataSelect) == 0
	useTileMapZero := g.readLCDCVariable(bgTileMapDisplaySelect) == 0

	tilesAddr := addr.TileData0
	if useSignedTileSet {
		tilesAddr = addr.TileData2
	}

	tileMapAddr := addr.TileMap1
	if useTileMapZero {
		tileMapAddr = addr.TileMap0
	}

	scrollX := g.bus.Read(addr.SCX)
	scrollY := g.bus.Read(addr.SCY)
	lineScrolled := (g.line + int(scrollY)) & 0xFF
	lineScrolled32 := (lineScrolled / 8) * 32
	tilePixelY := lineScrolled % 8
	tilePixelY2 := tilePixelY * 2

	for screenPixelX := 0; screenPixelX < FramebufferWidth; screenPixelX++ {
		mapPixelX := (screenPixelX + int(scrollX)) & 0xFF
		mapTileX := mapPixelX / 8
		mapTileXOffset := mapPixelX % 8
		mapTileAddr := tileMapAddr + uint16(lineScrolled32+mapTileX)

		mapTileValue := g.bus.VRAMByte(mapTileAddr)

		tileAddr := g.resolveTileAddr(tilesAddr, mapTileValue, useSignedTileSet, tilePixelY2)

		low := g.bus.VRAMByte(tileAddr)
		high := g.bus.VRAMByte(tileAddr + 1)

		pixelIndex := uint8(7 - mapTileXOffset)
		pixel := pixelValue(pixelIndex, low, high)

		pixelPosition := lineWidth + screenPixelX

		palette := g.bus.Read(addr.BGP)
		color := (palette >> (pixel * 2)) & 0x03
		g.framebuffer.buffer[pixelPosition] = uint32(ByteToColor(color))
		g.bgPixelBuffer[pixelPosition] = color
	}
}

func (g *GPU) drawWindow() {
	if g.windowLine > 143 {
		return
	}

	if g.readLCDCVariable(windowDisplayEnable) == 0 {
		return
	}

	wx := g.bus.Read(addr.WX) - 7
	wy := g.bus.Read(addr.WY)

	if wx > 159 {
		return
	}
	if wy > 143 || int(wy) > g.line {
		return
	}

	useSignedTileSet := g.readLCDCVariable(bgWindowTileDataSelect) == 0
	useTileMapZero := g.readLCDCVariable(windowTileMapSelect) == 0

	tilesAddr := addr.TileData0
	if useSignedTileSet {
		tilesAddr = addr.TileData2
	}

	tileMapAddr := addr.TileMap1
	if useTileMapZero {
		tileMapAddr = addr.TileMap0
	}

	y32 := (g.windowLine / 8) * 32
	pixelY2 := (g.windowLine & 7) * 2
	lineWidth := g.line * FramebufferWidth

	endTileX := (FramebufferWidth - int(wx) + 7) / 8
	if endTileX > 32 {
		endTileX = 32
	}

	for x := 0; x < endTileX; x++ {
		tileValue := g.bus.VRAMByte(tileMapAddr + uint16(y32+x))
		xOffset := x * 8

		tileAddr := g.resolveTileAddr(tilesAddr, tileValue, useSignedTileSet, pixelY2)
		low := g.bus.VRAMByte(tileAddr)
		high := g.bus.VRAMByte(tileAddr + 1)

		for pixelX := 0; pixelX < 8; pixelX++ {
			bufferX := xOffset + pixelX + int(wx)
			if bufferX < int(wx) || bufferX >= FramebufferWidth {
				continue
			}

			pixel := pixelValue(uint8(7-pixelX), low, high)
			position := lineWidth + bufferX
			if position >= len(g.framebuffer.buffer) {
				continue
			}

			palette := g.bus.Read(addr.BGP)
			color := (palette >> (pixel * 2)) & 0x03
			g.framebuffer.buffer[position] = uint32(ByteToColor(color))
			g.bgPixelBuffer[position] = color
		}
	}
	g.windowLine++
}

func (g *GPU) drawSprites() {
	if g.readLCDCVariable(spriteDisplayEnable) != 1 {
		return
	}

	spriteHeight := 8
	if g.readLCDCVariable(spriteSize) == 1 {
		spriteHeight = 16
	}

	lineWidth := g.line * FramebufferWidth
	var spritesToDraw []int

	// OAM selection: scan sequentially 0xFE00-0xFE9F, comparing LY to each
	// sprite's Y; only Y affects selection, up to 10 sprites per line.
	for sprite := 0; sprite < 40; sprite++ {
		oamAddr := addr.OAMStart + uint16(sprite*4)
		spriteY := int(g.bus.OAMByte(oamAddr)) - 16

		if spriteY > g.line || (spriteY+spriteHeight) <= g.line {
			continue
		}
		spritesToDraw = append(spritesToDraw, sprite)
		if len(spritesToDraw) >= 10 {
			break
		}
	}

	g.spritePriority.Clear()

	for _, sprite := range spritesToDraw {
		oamAddr := addr.OAMStart + uint16(sprite*4)
		spriteX := int(g.bus.OAMByte(oamAddr+1)) - 8
		for pixelOffset := range 8 {
			g.spritePriority.TryClaimPixel(spriteX+pixelOffset, sprite, spriteX)
		}
	}

	for _, sprite := range spritesToDraw {
		oamAddr := addr.OAMStart + uint16(sprite*4)
		spriteY := int(g.bus.OAMByte(oamAddr)) - 16
		spriteX := int(g.bus.OAMByte(oamAddr+1)) - 8
		spriteTile := g.bus.OAMByte(oamAddr + 2)
		spriteFlags := g.bus.OAMByte(oamAddr + 3)

		hasPixels := false
		for x := 0; x < 8; x++ {
			if g.spritePriority.GetOwner(spriteX+x) == sprite {
				hasPixels = true
				break
			}
		}
		if !hasPixels {
			continue
		}

		spriteMask := 0xFF
		if spriteHeight == 16 {
			spriteMask = 0xFE
		}
		spriteTile16 := (int(spriteTile) & spriteMask) * 16

		objPaletteAddr := addr.OBP0
		if bit.IsSet(4, spriteFlags) {
			objPaletteAddr = addr.OBP1
		}

		flipX := bit.IsSet(5, spriteFlags)
		flipY := bit.IsSet(6, spriteFlags)
		aboveBG := !bit.IsSet(7, spriteFlags)

		pixelY := g.line - spriteY
		if flipY {
			pixelY = spriteHeight - 1 - pixelY
		}

		var pixelY2, offset int
		if spriteHeight == 16 && pixelY >= 8 {
			pixelY2 = (pixelY - 8) * 2
			offset = 16
		} else {
			pixelY2 = pixelY * 2
		}

		tileAddr := addr.TileData0 + uint16(spriteTile16+pixelY2+offset)
		low := g.bus.VRAMByte(tileAddr)
		high := g.bus.VRAMByte(tileAddr + 1)

		for pixelX := 0; pixelX < 8; pixelX++ {
			bufferX := spriteX + pixelX
			if g.spritePriority.GetOwner(bufferX) != sprite {
				continue
			}

			pixelIdx := 7 - pixelX
			if flipX {
				pixelIdx = pixelX
			}
			pixel := pixelValue(uint8(pixelIdx), low, high)
			if pixel == 0 {
				continue
			}

			position := lineWidth + bufferX
			if !aboveBG && g.bgPixelBuffer[position] != 0 {
				continue
			}

			palette := g.bus.Read(objPaletteAddr)
			color := (palette >> (pixel * 2)) & 0x03
			g.framebuffer.buffer[position] = uint32(ByteToColor(color))
		}
	}
}

func (g *GPU) resolveTileAddr(tilesAddr uint16, tileValue byte, signed bool, pixelY2 int) uint16 {
	if signed {
		tileOffset := int(int8(tileValue)) * 16
		return uint16(int(tilesAddr) + tileOffset + pixelY2)
	}
	return tilesAddr + uint16(int(tileValue)*16) + uint16(pixelY2)
}

func pixelValue(index uint8, low, high byte) byte {
	pixel := byte(0)
	if bit.IsSet(index, low) {
		pixel |= 1
	}
	if bit.IsSet(index, high) {
		pixel |= 2
	}
	return pixel
}

// statFlag indexes the STAT register's interrupt-enable and mode bits.
type statFlag = uint8

const (
	statLycIrq       statFlag = 6
	statOamIrq       statFlag = 5
	statVblankIrq    statFlag = 4
	statHblankIrq    statFlag = 3
	statLycCondition statFlag = 2
)

// lcdcFlag indexes the LCDC register's control bits.
type lcdcFlag = uint8

const (
	lcdDisplayEnable       lcdcFlag = 7
	windowTileMapSelect    lcdcFlag = 6
	windowDisplayEnable    lcdcFlag = 5
	bgWindowTileDataSelect lcdcFlag = 4
	bgTileMapDisplaySelect lcdcFlag = 3
	spriteSize             lcdcFlag = 2
	spriteDisplayEnable    lcdcFlag = 1
	bgDisplay              lcdcFlag = 0
)

func (g *GPU) readLCDCVariable(flag lcdcFlag) byte {
	if bit.IsSet(flag, g.bus.Read(addr.LCDC)) {
		return 1
	}
	return 0
}

func (g *GPU) compareLYToLYC() {
	ly := g.bus.Read(addr.LY)
	lyc := g.bus.Read(addr.LYC)
	stat := g.bus.Read(addr.STAT)

	if ly == lyc {
		stat = bit.Set(statLycCondition, stat)
		if bit.IsSet(statLycIrq, stat) {
			g.bus.RequestInterrupt(addr.LCDSTATInterrupt)
		}
	} else {
		stat = bit.Reset(statLycCondition, stat)
	}

	g.bus.Write(addr.STAT, stat)
}

// setMode writes STAT bits 1-0 and gates the bus's VRAM/OAM windows to
// match the new mode: VRAM is blocked during pixel transfer (mode 3); OAM
// is blocked during OAM scan and pixel transfer (modes 2 and 3).
func (g *GPU) setMode(mode GpuMode) {
	g.mode = mode
	stat := g.bus.Read(addr.STAT)
	stat = stat&0xFC | byte(mode)
	g.bus.Write(addr.STAT, stat)

	g.bus.SetAccessGates(mode == vramReadMode, mode == oamReadMode || mode == vramReadMode)
}

func (g *GPU) setLY(line int) {
	g.line = line
	g.bus.Write(addr.LY, byte(g.line))
	g.compareLYToLYC()
}
