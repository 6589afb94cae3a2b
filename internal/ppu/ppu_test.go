package ppu_test

import (
	"testing"

	"github.com/ljsoft/gba7/internal/ppu"
)

func TestPPUResetClearsState(t *testing.T) {
	p := ppu.NewPPU()
	if p.VCount != 0 {
		t.Errorf("expected VCount=0 after reset, got %d", p.VCount)
	}
	if p.FrameReady() {
		t.Error("expected frameReady clear after reset")
	}
}

func TestPPUFrameReadyAtVBlank(t *testing.T) {
	p := ppu.NewPPU()
	for i := 0; i < 160; i++ {
		p.Step(1232)
		if i < 159 && p.FrameReady() {
			t.Fatalf("expected frameReady only once VCount reaches 160, tripped early at scanline %d", i+1)
		}
	}
	if !p.FrameReady() {
		t.Error("expected frameReady set once VCount reaches VBlank start (160)")
	}
	if p.VCount != 160 {
		t.Errorf("expected VCount=160, got %d", p.VCount)
	}
}

func TestPPUClearFrameReady(t *testing.T) {
	p := ppu.NewPPU()
	p.Step(1232 * 160)
	p.ClearFrameReady()
	if p.FrameReady() {
		t.Error("expected ClearFrameReady to reset the flag")
	}
}

func TestPPUMode3RendersPixelFromVRAM(t *testing.T) {
	p := ppu.NewPPU()
	p.WriteIORegister8(0x0000, 0x03) // DISPCNT low byte: mode 3

	// Pixel (0,0): BGR555 0x7FFF = white, little-endian in VRAM.
	p.WriteVRAM8(0, 0xFF)
	p.WriteVRAM8(1, 0x7F)

	p.Step(1232) // render scanline 0, advance to scanline 1

	r, g, b, a := p.Frame.At(0, 0).RGBA()
	if r>>8 != 248 || g>>8 != 248 || b>>8 != 248 || a>>8 != 255 {
		t.Errorf("expected a bright white pixel at (0,0), got (%d,%d,%d,%d)", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestPPUVRAMAndOAMRoundTrip(t *testing.T) {
	p := ppu.NewPPU()
	p.WriteVRAM8(0x100, 0xAB)
	if got := p.ReadVRAM8(0x100); got != 0xAB {
		t.Errorf("expected VRAM round trip, got 0x%X", got)
	}
	p.WriteOAM8(0x10, 0xCD)
	if got := p.ReadOAM8(0x10); got != 0xCD {
		t.Errorf("expected OAM round trip, got 0x%X", got)
	}
	p.WritePaletteRAM8(0x4, 0xEF)
	if got := p.ReadPaletteRAM8(0x4); got != 0xEF {
		t.Errorf("expected palette RAM round trip, got 0x%X", got)
	}
}
