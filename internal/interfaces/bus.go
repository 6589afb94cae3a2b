package interfaces

// MemoryBus is the contract the CPU core consumes. It deliberately knows
// nothing about wait states, mirroring, or which device backs an address —
// that is the bus implementation's problem (internal/bus).
type MemoryBus interface {
	Read8(addr uint32) uint8
	Read16(addr uint32) uint16
	Read32(addr uint32) uint32
	Write8(addr uint32, value uint8)
	Write16(addr uint32, value uint16)
	Write32(addr uint32, value uint32)
}
