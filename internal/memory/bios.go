package memory

import (
	"fmt"

	"github.com/ljsoft/gba7/internal/interfaces"
)

var _ interfaces.MemoryDevice = (*BIOS)(nil)

// BIOS represents the GBA's internal Boot ROM. Its contents are supplied
// at runtime through LoadBIOS rather than compiled in, since redistributing
// the real GBA BIOS image isn't something this module does (spec §6
// load_bios operation).
type BIOS struct {
	data []byte
}

// NewBIOS returns a BIOS backed by an all-zero image until LoadBIOS runs.
func NewBIOS() *BIOS {
	return &BIOS{data: make([]byte, BIOS_SIZE)}
}

// LoadBIOS installs a BIOS image, zero-padding or truncating it to size.
func (b *BIOS) LoadBIOS(data []byte) {
	b.data = make([]byte, BIOS_SIZE)
	copy(b.data, data)
}

func (b *BIOS) Read8(addr uint32) byte {
	if addr >= BIOS_START && addr <= BIOS_END {
		return b.data[addr-BIOS_START]
	}
	panic(fmt.Sprintf("BIOS: Attempted to read byte from out-of-bounds address: 0x%X", addr))
}

func (b *BIOS) ReadHalfWord(addr uint32) uint16 {
	if addr >= BIOS_START && addr <= BIOS_END-1 {
		low := uint16(b.data[addr-BIOS_START])
		high := uint16(b.data[addr-BIOS_START+1])
		return low | (high << 8)
	}
	panic(fmt.Sprintf("BIOS: Attempted to read half-word from out-of-bounds or unaligned address: 0x%X", addr))
}

func (b *BIOS) ReadWord(addr uint32) uint32 {
	if addr >= BIOS_START && addr <= BIOS_END-3 {
		b0 := uint32(b.data[addr-BIOS_START])
		b1 := uint32(b.data[addr-BIOS_START+1])
		b2 := uint32(b.data[addr-BIOS_START+2])
		b3 := uint32(b.data[addr-BIOS_START+3])
		return b0 | (b1 << 8) | (b2 << 16) | (b3 << 24)
	}
	panic(fmt.Sprintf("BIOS: Attempted to read word from out-of-bounds or unaligned address: 0x%X", addr))
}

// Write8/WriteHalfWord/WriteWord are silent no-ops: BIOS is read-only on
// real hardware and a misbehaving test ROM shouldn't be able to crash the
// emulator by writing to it.
func (b *BIOS) Write8(addr uint32, value byte) {}

func (b *BIOS) WriteHalfWord(addr uint32, value uint16) {}

func (b *BIOS) WriteWord(addr uint32, value uint32) {}

func (b *BIOS) Contains(addr uint32) bool {
	return addr >= BIOS_START && addr <= BIOS_END
}
