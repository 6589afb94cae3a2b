package interfaces

// Peripheral is the minimal contract shared by PPU, APU and the timer
// controller: they reset to a known state and advance by a number of CPU
// cycles each tick (spec §6 "Peripheral contract").
type Peripheral interface {
	Reset()
	Step(cycles int)
}

// DMAEngine is stepped before the CPU every tick; it reports how many
// cycles it consumed so the tick loop can decide whether the CPU gets to
// run this step (spec §5 item 1 — DMA has bus priority).
type DMAEngine interface {
	Reset()
	Step(cycles int) int
}

// VideoUnit is the PPU collaborator contract: a frame_ready latch the
// system clears before a frame and the PPU sets on completion, plus an
// opaque framebuffer.
type VideoUnit interface {
	Peripheral
	FrameReady() bool
	ClearFrameReady()
	Framebuffer() []byte
}

// AudioUnit is the APU collaborator contract.
type AudioUnit interface {
	Peripheral
	GetSamples(count int) []int16
}

// Keypad accepts host key-state changes and exposes the packed KEYINPUT
// register the bus reads through I/O.
type Keypad interface {
	SetKeyState(index int, pressed bool)
	KeyInput() uint16
}
