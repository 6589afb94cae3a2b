package interfaces

// CPUCore represents the ARM7TDMI core as consumed by the system tick
// loop and by the interrupt controller wiring in internal/system.
type CPUCore interface {
	Reset()

	// Step fetches, decodes and executes exactly one instruction (ARM or
	// Thumb depending on the current T flag) and returns the number of
	// cycles it consumed (always >= 1).
	Step() int

	TriggerIRQ()
	Halted() bool
}
