package cpu

import (
	"github.com/ljsoft/gba7/internal/interfaces"
	"github.com/ljsoft/gba7/util/dbg"
)

// Exception vector addresses, fixed by the ARM7TDMI memory map.
const (
	VectorReset         uint32 = 0x00000000
	VectorUndefined     uint32 = 0x00000004
	VectorSWI           uint32 = 0x00000008
	VectorPrefetchAbort uint32 = 0x0000000C
	VectorDataAbort     uint32 = 0x00000010
	VectorIRQ           uint32 = 0x00000018
	VectorFIQ           uint32 = 0x0000001C
)

var _ interfaces.CPUCore = (*CPU)(nil)

// CPU is the ARM7TDMI core. It holds no pipeline queue: PC is modeled
// arithmetically (PC+8 while an ARM instruction executes, PC+4 for Thumb)
// by passing the address of the instruction under execution down to the
// handlers rather than keeping prefetched words around.
type CPU struct {
	Registers *Registers
	Bus       interfaces.MemoryBus

	cycles  uint64
	halted  bool
	irqLine bool
}

func NewCPU(bus interfaces.MemoryBus) *CPU {
	c := &CPU{
		Registers: NewRegisters(),
		Bus:       bus,
	}
	return c
}

func (c *CPU) Reset() {
	c.Registers.Reset()
	c.cycles = 0
	c.halted = false
	c.irqLine = false
}

func (c *CPU) Cycles() uint64 { return c.cycles }

func (c *CPU) Halted() bool { return c.halted }

// Halt puts the core to sleep until the next IRQ (GBA's HALTCNT/SWI 0x02).
func (c *CPU) Halt() { c.halted = true }

// Step executes exactly one instruction, or consumes one cycle while
// halted waiting for an interrupt, and returns the cycle count spent.
func (c *CPU) Step() int {
	if c.irqLine && !c.Registers.IRQDisabled() {
		c.halted = false
		c.enterException(VectorIRQ, ModeIRQ, true)
		c.irqLine = false
		return cyclesBranch
	}

	if c.halted {
		c.cycles++
		return 1
	}

	var spent int
	if c.Registers.Thumb() {
		spent = c.stepThumb()
	} else {
		spent = c.stepArm()
	}
	c.cycles += uint64(spent)
	return spent
}

func (c *CPU) stepArm() int {
	pc := c.Registers.PC()
	instruction := c.Bus.Read32(pc)
	c.Registers.SetPCRaw(pc + 4)

	cond := uint8(instruction >> 28)
	if !c.Registers.CheckCondition(cond) {
		return 1
	}

	decoded := DecodeInstruction_Arm(instruction)
	return c.executeArm(decoded, pc)
}

// TriggerIRQ latches a pending hardware interrupt. It is serviced at the
// start of the next Step once IRQs are unmasked.
func (c *CPU) TriggerIRQ() {
	c.irqLine = true
}

// TriggerSWI enters the Supervisor exception, as invoked by the SWI
// instruction (spec §4.4 software interrupt dispatch).
func (c *CPU) TriggerSWI() {
	c.enterException(VectorSWI, ModeSupervisor, false)
}

// TriggerUndefined enters the Undefined Instruction exception. The ARM
// executor does not call it: undefined ARM encodings run as 1-cycle no-ops.
func (c *CPU) TriggerUndefined() {
	c.enterException(VectorUndefined, ModeUndefined, false)
}

// enterException banks CPSR into the target mode's SPSR, computes the
// exception-specific LR, switches mode, masks IRQs (and FIQs for
// Reset/FIQ), clears Thumb, and vectors PC. isIRQ selects the return-address
// bias: +4 for IRQ, none for SWI/Undefined, which are entered after the
// triggering instruction already advanced PC past it.
func (c *CPU) enterException(vector uint32, mode Mode, isIRQ bool) {
	returnAddr := c.Registers.PC()
	if isIRQ {
		// IRQ interrupts between instructions: LR = address of the next
		// instruction to execute, plus 4, so "SUBS PC, LR, #4" resumes there.
		returnAddr += 4
	}
	c.Registers.SwitchMode(mode, true)
	c.Registers.SetLR(returnAddr)
	c.Registers.SetThumb(false)
	c.Registers.SetIRQDisabled(true)
	if mode == ModeFIQ || vector == VectorReset {
		c.Registers.SetFIQDisabled(true)
	}
	c.Registers.SetPCRaw(vector)
	dbg.Printf("cpu: exception vector=%#08x mode=%s\n", vector, modeName(mode))
}
