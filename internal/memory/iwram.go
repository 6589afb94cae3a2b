package memory

import "github.com/ljsoft/gba7/internal/interfaces"

var _ interfaces.MemoryDevice = (*IWRAM)(nil)

// IWRAM is the GBA's 32KB internal work RAM.
type IWRAM struct {
	data []byte
}

func NewIWRAM() *IWRAM {
	return &IWRAM{
		data: make([]byte, IWRAM_SIZE),
	}
}

func (i *IWRAM) Read8(addr uint32) uint8 {
	return i.data[addr]
}

func (i *IWRAM) Write8(addr uint32, value uint8) {
	i.data[addr] = value
}

func (i *IWRAM) ReadHalfWord(addr uint32) uint16 {
	return uint16(i.data[addr]) | uint16(i.data[addr+1])<<8
}

func (i *IWRAM) WriteHalfWord(addr uint32, value uint16) {
	i.data[addr] = byte(value)
	i.data[addr+1] = byte(value >> 8)
}

func (i *IWRAM) ReadWord(addr uint32) uint32 {
	return uint32(i.data[addr]) | uint32(i.data[addr+1])<<8 |
		uint32(i.data[addr+2])<<16 | uint32(i.data[addr+3])<<24
}

func (i *IWRAM) WriteWord(addr uint32, value uint32) {
	i.data[addr] = byte(value)
	i.data[addr+1] = byte(value >> 8)
	i.data[addr+2] = byte(value >> 16)
	i.data[addr+3] = byte(value >> 24)
}

func (i *IWRAM) Contains(addr uint32) bool {
	return addr >= IWRAM_START && addr <= IWRAM_END
}
