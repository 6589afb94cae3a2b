// Package memory holds the GBA's fixed on-chip RAM regions (BIOS, EWRAM,
// IWRAM). VRAM, OAM and palette RAM live in internal/ppu; cartridge ROM
// and SRAM live in internal/cartridge. internal/bus owns the address-range
// dispatch across all of them.
package memory

const (
	BIOS_START  = 0x00000000
	BIOS_END    = 0x00003FFF
	BIOS_SIZE   = BIOS_END - BIOS_START + 1 // 16KB
	EWRAM_START = 0x02000000
	EWRAM_END   = 0x0203FFFF
	EWRAM_SIZE  = EWRAM_END - EWRAM_START + 1 // 256KB
	IWRAM_START = 0x03000000
	IWRAM_END   = 0x03007FFF
	IWRAM_SIZE  = IWRAM_END - IWRAM_START + 1 // 32KB
)
