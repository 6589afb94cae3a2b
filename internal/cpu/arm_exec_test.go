package cpu_test

import (
	"testing"

	"github.com/ljsoft/gba7/internal/cpu"
)

func newTestCPU() (*cpu.CPU, *testBus) {
	bus := newTestBus()
	c := cpu.NewCPU(bus)
	c.Reset()
	c.Registers.SetPCRaw(0x1000)
	return c, bus
}

func TestExecMovImmediate(t *testing.T) {
	c, bus := newTestCPU()
	bus.putARM(0x1000, 0xE3A00005) // MOV R0, #5
	c.Step()
	if got := c.Registers.Get(0); got != 5 {
		t.Errorf("expected R0=5, got %d", got)
	}
}

func TestExecAddRegister(t *testing.T) {
	c, bus := newTestCPU()
	c.Registers.Set(0, 7)
	c.Registers.Set(1, 3)
	bus.putARM(0x1000, 0xE0812000) // ADD R2, R1, R0
	c.Step()
	if got := c.Registers.Get(2); got != 10 {
		t.Errorf("expected R2=10, got %d", got)
	}
}

func TestExecSubsSetsFlags(t *testing.T) {
	c, bus := newTestCPU()
	c.Registers.Set(2, 3)
	c.Registers.Set(1, 5)
	bus.putARM(0x1000, 0xE0523001) // SUBS R3, R2, R1 -> 3-5, borrows
	c.Step()
	if got := c.Registers.Get(3); got != 0xFFFFFFFE {
		t.Errorf("expected R3=0xFFFFFFFE, got 0x%X", got)
	}
	if c.Registers.FlagC() {
		t.Error("expected carry clear (borrow occurred)")
	}
	if !c.Registers.FlagN() {
		t.Error("expected N set (result is negative)")
	}
}

func TestExecStoreThenLoadRoundTrip(t *testing.T) {
	c, bus := newTestCPU()
	c.Registers.Set(0, 0xCAFEBABE)
	c.Registers.Set(1, 0x2000)
	bus.putARM(0x1000, 0xE5810000) // STR R0, [R1]
	c.Step()

	c.Registers.Set(1, 0x2000)
	c.Registers.SetPCRaw(0x1004)
	bus.putARM(0x1004, 0xE5912000) // LDR R2, [R1]
	c.Step()

	if got := c.Registers.Get(2); got != 0xCAFEBABE {
		t.Errorf("expected R2=0xCAFEBABE round-tripped through memory, got 0x%X", got)
	}
}

func TestExecBlockTransferRoundTrip(t *testing.T) {
	c, bus := newTestCPU()
	c.Registers.Set(0, 0x3000)
	c.Registers.Set(1, 0x11111111)
	c.Registers.Set(2, 0x22222222)
	bus.putARM(0x1000, 0xE8A00006) // STMIA R0!, {R1, R2}
	c.Step()

	if got := c.Registers.Get(0); got != 0x3008 {
		t.Errorf("expected R0 advanced by 8 (2 words) after writeback, got 0x%X", got)
	}

	c.Registers.Set(3, 0x3000)
	c.Registers.SetPCRaw(0x1004)
	bus.putARM(0x1004, 0xE8B30006) // LDMIA R3!, {R1, R2} into fresh regs
	c.Registers.Set(1, 0)
	c.Registers.Set(2, 0)
	c.Step()

	if got := c.Registers.Get(1); got != 0x11111111 {
		t.Errorf("expected R1 restored, got 0x%X", got)
	}
	if got := c.Registers.Get(2); got != 0x22222222 {
		t.Errorf("expected R2 restored, got 0x%X", got)
	}
}

func TestExecBranch(t *testing.T) {
	c, bus := newTestCPU()
	bus.putARM(0x1000, 0xEA000000) // B <PC+8>
	c.Step()
	if got := c.Registers.PC(); got != 0x1000+8 {
		t.Errorf("expected PC=0x%X, got 0x%X", 0x1000+8, got)
	}
}

func TestExecBX(t *testing.T) {
	c, bus := newTestCPU()
	c.Registers.Set(0, 0x2001) // bit0 set -> switch to Thumb
	bus.putARM(0x1000, 0xE12FFF10) // BX R0
	c.Step()
	if !c.Registers.Thumb() {
		t.Error("expected Thumb state after BX to an odd address")
	}
	if got := c.Registers.PC(); got != 0x2000 {
		t.Errorf("expected PC=0x2000 (bit0 cleared), got 0x%X", got)
	}
}

func TestConditionalSkipsInstruction(t *testing.T) {
	c, bus := newTestCPU()
	c.Registers.SetFlagZ(false)
	bus.putARM(0x1000, 0x03A00005) // MOVEQ R0, #5 (cond=EQ, should not execute)
	c.Step()
	if got := c.Registers.Get(0); got != 0 {
		t.Errorf("expected R0 unchanged (condition false), got %d", got)
	}
}
