package memory

import "github.com/ljsoft/gba7/internal/interfaces"

var _ interfaces.MemoryDevice = (*EWRAM)(nil)

// EWRAM is the GBA's 256KB external work RAM.
type EWRAM struct {
	data []byte
}

func NewEWRAM() *EWRAM {
	return &EWRAM{
		data: make([]byte, EWRAM_SIZE),
	}
}

func (e *EWRAM) Read8(addr uint32) uint8 {
	return e.data[addr]
}

func (e *EWRAM) Write8(addr uint32, value uint8) {
	e.data[addr] = value
}

func (e *EWRAM) ReadHalfWord(addr uint32) uint16 {
	return uint16(e.data[addr]) | uint16(e.data[addr+1])<<8
}

func (e *EWRAM) WriteHalfWord(addr uint32, value uint16) {
	e.data[addr] = byte(value)
	e.data[addr+1] = byte(value >> 8)
}

func (e *EWRAM) ReadWord(addr uint32) uint32 {
	return uint32(e.data[addr]) | uint32(e.data[addr+1])<<8 |
		uint32(e.data[addr+2])<<16 | uint32(e.data[addr+3])<<24
}

func (e *EWRAM) WriteWord(addr uint32, value uint32) {
	e.data[addr] = byte(value)
	e.data[addr+1] = byte(value >> 8)
	e.data[addr+2] = byte(value >> 16)
	e.data[addr+3] = byte(value >> 24)
}

func (e *EWRAM) Contains(addr uint32) bool {
	return addr >= EWRAM_START && addr <= EWRAM_END
}
