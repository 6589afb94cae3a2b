package cpu_test

// testBus is a flat byte-addressable memory backing interfaces.MemoryBus,
// used only to drive the CPU core in isolation from internal/bus's real
// memory map.
type testBus struct {
	mem [1 << 20]byte
}

func newTestBus() *testBus { return &testBus{} }

func (b *testBus) Read8(addr uint32) uint8 { return b.mem[addr%uint32(len(b.mem))] }

func (b *testBus) Write8(addr uint32, value uint8) { b.mem[addr%uint32(len(b.mem))] = value }

func (b *testBus) Read16(addr uint32) uint16 {
	return uint16(b.Read8(addr)) | uint16(b.Read8(addr+1))<<8
}

func (b *testBus) Write16(addr uint32, value uint16) {
	b.Write8(addr, uint8(value))
	b.Write8(addr+1, uint8(value>>8))
}

func (b *testBus) Read32(addr uint32) uint32 {
	return uint32(b.Read8(addr)) | uint32(b.Read8(addr+1))<<8 |
		uint32(b.Read8(addr+2))<<16 | uint32(b.Read8(addr+3))<<24
}

func (b *testBus) Write32(addr uint32, value uint32) {
	b.Write8(addr, uint8(value))
	b.Write8(addr+1, uint8(value>>8))
	b.Write8(addr+2, uint8(value>>16))
	b.Write8(addr+3, uint8(value>>24))
}

func (b *testBus) putARM(addr uint32, instr uint32) { b.Write32(addr, instr) }
func (b *testBus) putThumb(addr uint32, instr uint16) { b.Write16(addr, instr) }
