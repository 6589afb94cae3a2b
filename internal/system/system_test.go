package system_test

import (
	"testing"

	"github.com/ljsoft/gba7/internal/cartridge"
	"github.com/ljsoft/gba7/internal/system"
)

func newTestGBA(t *testing.T) *system.GBA {
	t.Helper()
	rom := make([]byte, cartridge.HeaderSize)
	g, err := system.New(rom, nil)
	if err != nil {
		t.Fatalf("unexpected error constructing system: %v", err)
	}
	return g
}

func TestNewRejectsInvalidROM(t *testing.T) {
	_, err := system.New(make([]byte, 4), nil)
	if err == nil {
		t.Error("expected an error for a ROM shorter than the header")
	}
}

func TestStepAdvancesCPUWhenDMAIdle(t *testing.T) {
	g := newTestGBA(t)
	spent := g.Step()
	if spent == 0 {
		t.Error("expected Step to report nonzero cycles spent")
	}
	if g.Bus.CycleCount != uint64(spent) {
		t.Errorf("expected bus cycle count to advance by the reported spend, got %d want %d", g.Bus.CycleCount, spent)
	}
}

func TestStepGivesDMABusPriorityOverCPU(t *testing.T) {
	g := newTestGBA(t)

	g.Bus.Write32(0x02000000, 0xDEADBEEF)
	g.Bus.DMAController.WriteSrc(0, 0x02000000)
	g.Bus.DMAController.WriteDst(0, 0x02000100)
	g.Bus.DMAController.WriteCount(0, 1)
	g.Bus.DMAController.WriteControl(0, 0x8000|0x0400) // enable, 32-bit, immediate start

	spent := g.Step()
	if got := g.Bus.Read32(0x02000100); got != 0xDEADBEEF {
		t.Errorf("expected the DMA transfer to run on this Step before the CPU, got 0x%X", got)
	}
	if spent != 2 { // count(1) * 2 cycles, the DMA controller's own cost report
		t.Errorf("expected Step to report the DMA's cycle cost (2), got %d", spent)
	}
}

func TestRunFrameStopsAtFrameBoundary(t *testing.T) {
	g := newTestGBA(t)
	g.RunFrame()
	if !g.PPU.FrameReady() {
		t.Error("expected RunFrame to stop once a frame boundary is reached")
	}
}

func TestConsumeFrameClearsReadyLatch(t *testing.T) {
	g := newTestGBA(t)
	g.RunFrame()
	g.ConsumeFrame()
	if g.PPU.FrameReady() {
		t.Error("expected ConsumeFrame to clear the frame-ready latch")
	}
}
