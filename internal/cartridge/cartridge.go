package cartridge

import "fmt"

const (
	SRAMSize = 0x8000 // 32KB, a common GBA save size (actual size is game-dependent)

	// HeaderSize is the fixed 192-byte GBA cartridge header (spec §6 load_rom).
	HeaderSize = 0xC0

	romWindowSize = 0x02000000 // one game-pak wait-state window (32MB)
)

// Cartridge holds the loaded game-pak ROM and its battery-backed SRAM.
type Cartridge struct {
	ROM  []byte
	SRAM []byte
}

// NewCartridge validates and wraps romData. A ROM shorter than the fixed
// header is rejected outright; real cartridges are never smaller.
func NewCartridge(romData []byte) (*Cartridge, error) {
	if len(romData) < HeaderSize {
		return nil, fmt.Errorf("cartridge: ROM too small (%d bytes, need at least %d for header)", len(romData), HeaderSize)
	}
	return &Cartridge{
		ROM:  romData,
		SRAM: make([]byte, SRAMSize),
	}, nil
}

// ReadROM8 takes the full bus address (0x08000000-0x0DFFFFFF) and maps it
// into the ROM image, mirroring across the three wait-state windows. Reads
// past the end of a short ROM image return the open-bus value 0xFF.
func (c *Cartridge) ReadROM8(addr uint32) uint8 {
	offset := addr % romWindowSize
	if int(offset) >= len(c.ROM) {
		return 0xFF
	}
	return c.ROM[offset]
}

func (c *Cartridge) ReadSRAM8(addr uint32) uint8 {
	return c.SRAM[int(addr)%len(c.SRAM)]
}

func (c *Cartridge) WriteSRAM8(addr uint32, value uint8) {
	c.SRAM[int(addr)%len(c.SRAM)] = value
}

// GameTitle reads the 12-byte ASCII title field from the header.
func (c *Cartridge) GameTitle() string {
	return string(c.ROM[0xA0:0xAC])
}
