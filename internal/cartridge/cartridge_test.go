package cartridge_test

import (
	"testing"

	"github.com/ljsoft/gba7/internal/cartridge"
)

func makeROM(size int) []byte {
	rom := make([]byte, size)
	copy(rom[0xA0:0xAC], []byte("TESTGAME    "))
	return rom
}

func TestNewCartridgeRejectsShortROM(t *testing.T) {
	_, err := cartridge.NewCartridge(make([]byte, cartridge.HeaderSize-1))
	if err == nil {
		t.Error("expected an error for a ROM shorter than the header")
	}
}

func TestNewCartridgeAcceptsHeaderSizedROM(t *testing.T) {
	c, err := cartridge.NewCartridge(makeROM(cartridge.HeaderSize))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.SRAM) != cartridge.SRAMSize {
		t.Errorf("expected SRAM allocated at %d bytes, got %d", cartridge.SRAMSize, len(c.SRAM))
	}
}

func TestGameTitleReadsHeaderField(t *testing.T) {
	c, _ := cartridge.NewCartridge(makeROM(cartridge.HeaderSize))
	if got := c.GameTitle(); got != "TESTGAME    " {
		t.Errorf("expected title %q, got %q", "TESTGAME    ", got)
	}
}

func TestReadROM8ReturnsOpenBusPastEnd(t *testing.T) {
	rom := makeROM(cartridge.HeaderSize)
	rom[0] = 0x42
	c, _ := cartridge.NewCartridge(rom)

	if got := c.ReadROM8(0); got != 0x42 {
		t.Errorf("expected byte 0 = 0x42, got 0x%X", got)
	}
	if got := c.ReadROM8(uint32(len(rom))); got != 0xFF {
		t.Errorf("expected 0xFF past the end of a short ROM image, got 0x%X", got)
	}
}

func TestSRAMReadWriteRoundTrip(t *testing.T) {
	c, _ := cartridge.NewCartridge(makeROM(cartridge.HeaderSize))
	c.WriteSRAM8(0x10, 0x99)
	if got := c.ReadSRAM8(0x10); got != 0x99 {
		t.Errorf("expected SRAM round trip, got 0x%X", got)
	}
}
