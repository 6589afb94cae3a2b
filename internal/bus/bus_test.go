package bus_test

import (
	"testing"

	"github.com/ljsoft/gba7/internal/bus"
	"github.com/ljsoft/gba7/internal/cartridge"
	"github.com/ljsoft/gba7/internal/io"
	"github.com/ljsoft/gba7/internal/memory"
	"github.com/ljsoft/gba7/internal/ppu"
)

func newTestBus(t *testing.T) *bus.Bus {
	t.Helper()
	rom := make([]byte, cartridge.HeaderSize)
	cart, err := cartridge.NewCartridge(rom)
	if err != nil {
		t.Fatalf("unexpected cartridge error: %v", err)
	}
	return bus.NewBus(memory.NewBIOS(), memory.NewEWRAM(), memory.NewIWRAM(), ppu.NewPPU(), cart, io.NewIORegs())
}

func TestBusEWRAMReadWriteRoundTrip(t *testing.T) {
	b := newTestBus(t)
	b.Write32(bus.EWRAMAddrStart+0x100, 0xCAFEBABE)
	if got := b.Read32(bus.EWRAMAddrStart + 0x100); got != 0xCAFEBABE {
		t.Errorf("expected EWRAM round trip, got 0x%X", got)
	}
}

func TestBusIWRAMReadWriteRoundTrip(t *testing.T) {
	b := newTestBus(t)
	b.Write16(bus.IWRAMAddrStart+0x10, 0xBEEF)
	if got := b.Read16(bus.IWRAMAddrStart + 0x10); got != 0xBEEF {
		t.Errorf("expected IWRAM round trip, got 0x%X", got)
	}
}

func TestBusBIOSIsReadOnly(t *testing.T) {
	b := newTestBus(t)
	b.LoadBIOS([]byte{0xAA, 0xBB})
	b.Write8(bus.BIOSAddrStart, 0xFF)
	if got := b.Read8(bus.BIOSAddrStart); got != 0xAA {
		t.Errorf("expected BIOS write to be ignored, got 0x%X", got)
	}
}

func TestBusKeypadDefaultsAllReleased(t *testing.T) {
	b := newTestBus(t)
	lo := b.Read8(bus.IOAddrStart + 0x130)
	hi := b.Read8(bus.IOAddrStart + 0x131)
	got := uint16(lo) | uint16(hi)<<8
	if got != 0x03FF {
		t.Errorf("expected KEYINPUT=0x03FF with nothing pressed, got 0x%X", got)
	}
}

func TestBusKeypadReflectsPressedButton(t *testing.T) {
	b := newTestBus(t)
	b.SetKeyState(0, true) // Button A
	lo := b.Read8(bus.IOAddrStart + 0x130)
	if lo&0x1 != 0 {
		t.Errorf("expected bit 0 cleared for pressed A button, got 0x%X", lo)
	}
}

func TestBusVRAMRoundTripThroughPPU(t *testing.T) {
	b := newTestBus(t)
	b.Write8(bus.VRAMAddrStart+4, 0x42)
	if got := b.Read8(bus.VRAMAddrStart + 4); got != 0x42 {
		t.Errorf("expected VRAM round trip through PPU, got 0x%X", got)
	}
}

func TestBusCartridgeSRAMRoundTrip(t *testing.T) {
	b := newTestBus(t)
	b.Write8(bus.GamePakSRAMAddrStart+8, 0x7A)
	if got := b.Read8(bus.GamePakSRAMAddrStart + 8); got != 0x7A {
		t.Errorf("expected cartridge SRAM round trip, got 0x%X", got)
	}
}
