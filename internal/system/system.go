// Package system implements the top-level cooperative tick loop that
// arbitrates DMA, the CPU core, and the PPU/APU/Timer peripherals on a
// single goroutine (spec §5). DMA has bus priority: its Step result tells
// the loop how many cycles were already spent before the CPU gets to run.
package system

import (
	"github.com/ljsoft/gba7/internal/bus"
	"github.com/ljsoft/gba7/internal/cartridge"
	"github.com/ljsoft/gba7/internal/cpu"
	"github.com/ljsoft/gba7/internal/interfaces"
	"github.com/ljsoft/gba7/internal/io"
	"github.com/ljsoft/gba7/internal/memory"
	"github.com/ljsoft/gba7/internal/ppu"
)

// CyclesPerFrame is the fixed GBA frame length: 228 scanlines of 1232
// cycles each (spec §5 frame-boundary constant).
const CyclesPerFrame = 228 * 1232

// GBA ties together the CPU core and its peripherals and drives the
// emulation forward one step (one instruction's worth of cycles) at a
// time.
type GBA struct {
	CPU interfaces.CPUCore
	Bus *bus.Bus
	PPU *ppu.PPU
}

// New constructs a fully wired system from a loaded ROM and, optionally,
// a BIOS image (nil leaves the BIOS region zeroed). Either way the CPU
// starts at the cartridge entry point 0x08000000 after Reset.
func New(romData []byte, biosData []byte) (*GBA, error) {
	cart, err := cartridge.NewCartridge(romData)
	if err != nil {
		return nil, err
	}

	videoUnit := ppu.NewPPU()
	b := bus.NewBus(memory.NewBIOS(), memory.NewEWRAM(), memory.NewIWRAM(), videoUnit, cart, io.NewIORegs())
	if biosData != nil {
		b.LoadBIOS(biosData)
	}

	core := cpu.NewCPU(b)
	core.Reset()

	return &GBA{CPU: core, Bus: b, PPU: videoUnit}, nil
}

// Step runs exactly one "tick": DMA gets first refusal on the bus, and
// only if it left cycles unclaimed does the CPU execute an instruction.
// Either way the cycles spent are fed back into the peripherals before
// returning. Reports the cycles the step cost.
func (g *GBA) Step() int {
	dmaCycles := g.Bus.DMAController.Step(1)
	if dmaCycles > 0 {
		g.Bus.Tick(dmaCycles)
		return dmaCycles
	}

	cpuCycles := g.CPU.Step()
	g.Bus.Tick(cpuCycles)

	if g.PPU.FrameReady() {
		g.Bus.DMAController.TriggerVBlank()
	}
	return cpuCycles
}

// RunFrame steps the system until the PPU latches frame-ready or a full
// frame's worth of cycles has elapsed. It leaves the latch set for the
// caller to observe; ConsumeFrame clears it.
func (g *GBA) RunFrame() {
	spent := 0
	for spent < CyclesPerFrame {
		spent += g.Step()
		if g.PPU.FrameReady() {
			return
		}
	}
}

// ConsumeFrame clears the frame-ready latch so the next RunFrame call can
// detect the following frame boundary.
func (g *GBA) ConsumeFrame() {
	g.PPU.ClearFrameReady()
}
