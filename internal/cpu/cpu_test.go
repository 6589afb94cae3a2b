package cpu_test

import (
	"testing"

	"github.com/ljsoft/gba7/internal/cpu"
)

func TestTriggerIRQVectorsAndBiasesLR(t *testing.T) {
	c, _ := newTestCPU()
	c.Registers.SetPCRaw(0x1008)
	c.Registers.SetIRQDisabled(false)
	c.TriggerIRQ()
	c.Step()

	if got := c.Registers.PC(); got != cpu.VectorIRQ {
		t.Errorf("expected PC=VectorIRQ, got 0x%X", got)
	}
	if got := c.Registers.LR(); got != 0x1008+4 {
		t.Errorf("expected LR biased by +4, got 0x%X", got)
	}
	if c.Registers.Mode() != cpu.ModeIRQ {
		t.Errorf("expected mode IRQ, got %v", c.Registers.Mode())
	}
	if !c.Registers.IRQDisabled() {
		t.Error("expected IRQs masked on exception entry")
	}
	if c.Registers.Thumb() {
		t.Error("expected ARM state after exception entry")
	}
}

func TestTriggerIRQMaskedDoesNotVector(t *testing.T) {
	c, _ := newTestCPU()
	c.Registers.SetPCRaw(0x1008)
	c.Registers.SetIRQDisabled(true)
	c.TriggerIRQ()
	c.Step()

	if got := c.Registers.PC(); got == cpu.VectorIRQ {
		t.Error("expected IRQ to stay pending while masked, but it vectored")
	}
}

func TestTriggerSWIVectorsAndBanksSPSR(t *testing.T) {
	c, _ := newTestCPU()
	c.Registers.SetPCRaw(0x1010)
	c.Registers.SetFlagN(true)
	c.TriggerSWI()

	if got := c.Registers.PC(); got != cpu.VectorSWI {
		t.Errorf("expected PC=VectorSWI, got 0x%X", got)
	}
	if got := c.Registers.LR(); got != 0x1010 {
		t.Errorf("expected LR=return address with no bias for SWI, got 0x%X", got)
	}
	if c.Registers.Mode() != cpu.ModeSupervisor {
		t.Errorf("expected mode Supervisor, got %v", c.Registers.Mode())
	}
	if !c.Registers.FlagN() {
		t.Error("expected CPSR flags to survive the mode switch into Supervisor")
	}

	c.Registers.SetFlagN(false)
	c.Registers.RestoreCPSRFromSPSR()
	if !c.Registers.FlagN() {
		t.Error("expected N restored from the banked SPSR")
	}
}

func TestTriggerUndefinedVectors(t *testing.T) {
	c, _ := newTestCPU()
	c.Registers.SetPCRaw(0x1020)
	c.TriggerUndefined()

	if got := c.Registers.PC(); got != cpu.VectorUndefined {
		t.Errorf("expected PC=VectorUndefined, got 0x%X", got)
	}
	if c.Registers.Mode() != cpu.ModeUndefined {
		t.Errorf("expected mode Undefined, got %v", c.Registers.Mode())
	}
}

func TestHaltConsumesOneCycleUntilIRQ(t *testing.T) {
	c, _ := newTestCPU()
	c.Halt()
	if spent := c.Step(); spent != 1 {
		t.Errorf("expected halted Step to consume 1 cycle, got %d", spent)
	}
	if !c.Halted() {
		t.Error("expected CPU to remain halted with no pending IRQ")
	}

	c.Registers.SetIRQDisabled(false)
	c.TriggerIRQ()
	c.Step()
	if c.Halted() {
		t.Error("expected IRQ to wake the CPU from halt")
	}
	if got := c.Registers.PC(); got != cpu.VectorIRQ {
		t.Errorf("expected IRQ to vector on wake, got PC=0x%X", got)
	}
}
