package ppu

import (
	"image"
	"image/color"
)

const (
	ScreenWidth  = 240
	ScreenHeight = 160

	cyclesPerScanline = 1232
	totalScanlines    = 228
	vblankStart       = 160

	vramSize   = 0x18000
	oamSize    = 0x400
	paletteLen = 0x400
)

// PPU owns its own VRAM/OAM/palette storage and is addressed by the bus
// through its Read/Write*8 accessors (spec §6 video-unit collaborator
// contract: the CPU core never touches these arrays directly).
type PPU struct {
	Frame      *image.RGBA
	VCount     uint16
	dispcnt    uint32
	frameReady bool
	cycleAcc   int

	palette [paletteLen]byte
	vram    [vramSize]byte
	oam     [oamSize]byte
}

func NewPPU() *PPU {
	p := &PPU{}
	p.Reset()
	return p
}

func (p *PPU) Reset() {
	p.Frame = image.NewRGBA(image.Rect(0, 0, ScreenWidth, ScreenHeight))
	p.VCount = 0
	p.dispcnt = 0
	p.frameReady = false
	p.cycleAcc = 0
	p.palette = [paletteLen]byte{}
	p.vram = [vramSize]byte{}
	p.oam = [oamSize]byte{}
}

func (p *PPU) IsPPUIORegister(addr uint32) bool {
	return addr <= 0x005F
}

func (p *PPU) ReadIORegister8(addr uint32) uint8 {
	switch addr {
	case 0x0000:
		return uint8(p.dispcnt & 0xFF)
	case 0x0001:
		return uint8((p.dispcnt >> 8) & 0xFF)
	case 0x0006:
		return uint8(p.VCount & 0xFF)
	case 0x0007:
		return uint8(p.VCount >> 8)
	}
	return 0
}

func (p *PPU) WriteIORegister8(addr uint32, value uint8) {
	switch addr {
	case 0x0000:
		p.dispcnt = (p.dispcnt & 0xFF00) | uint32(value)
	case 0x0001:
		p.dispcnt = (p.dispcnt & 0x00FF) | (uint32(value) << 8)
	}
}

func (p *PPU) ReadPaletteRAM8(addr uint32) uint8 {
	return p.palette[addr%paletteLen]
}

func (p *PPU) WritePaletteRAM8(addr uint32, value uint8) {
	p.palette[addr%paletteLen] = value
}

func (p *PPU) ReadVRAM8(addr uint32) uint8 {
	return p.vram[addr%vramSize]
}

func (p *PPU) WriteVRAM8(addr uint32, value uint8) {
	p.vram[addr%vramSize] = value
}

func (p *PPU) ReadOAM8(addr uint32) uint8 {
	return p.oam[addr%oamSize]
}

func (p *PPU) WriteOAM8(addr uint32, value uint8) {
	p.oam[addr%oamSize] = value
}

func (p *PPU) renderScanline() {
	mode := p.dispcnt & 0x7
	switch mode {
	case 3:
		p.renderMode3()
	default:
		for x := 0; x < ScreenWidth; x++ {
			p.Frame.SetRGBA(x, int(p.VCount), color.RGBA{0, 0, 0, 255})
		}
	}
}

func (p *PPU) renderMode3() {
	rowBase := uint32(p.VCount) * ScreenWidth * 2
	for x := 0; x < ScreenWidth; x++ {
		addr := rowBase + uint32(x*2)
		c16 := uint16(p.vram[addr]) | uint16(p.vram[addr+1])<<8

		r := uint8((c16 & 0x1F) * 8)
		g := uint8(((c16 >> 5) & 0x1F) * 8)
		b := uint8(((c16 >> 10) & 0x1F) * 8)
		p.Frame.SetRGBA(x, int(p.VCount), color.RGBA{r, g, b, 255})
	}
}

// Step advances the PPU's scanline counter by the CPU cycles just spent,
// rendering a line as the beam crosses the visible area and latching
// frameReady once VBlank begins (spec §5/§6).
func (p *PPU) Step(cycles int) {
	p.cycleAcc += cycles
	for p.cycleAcc >= cyclesPerScanline {
		p.cycleAcc -= cyclesPerScanline
		if p.VCount < vblankStart {
			p.renderScanline()
		}
		p.VCount = (p.VCount + 1) % totalScanlines
		if p.VCount == vblankStart {
			p.frameReady = true
		}
	}
}

func (p *PPU) FrameReady() bool { return p.frameReady }

func (p *PPU) ClearFrameReady() { p.frameReady = false }

func (p *PPU) Framebuffer() []byte { return p.Frame.Pix }
