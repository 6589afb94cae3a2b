package cpu

import (
	"fmt"

	"github.com/ljsoft/gba7/util/convert"
	"github.com/ljsoft/gba7/util/dbg"
)

// Mode is one of the seven ARM7TDMI processor modes, encoded with its
// canonical 5-bit CPSR value.
type Mode uint8

const (
	ModeUser       Mode = 0x10
	ModeFIQ        Mode = 0x11
	ModeIRQ        Mode = 0x12
	ModeSupervisor Mode = 0x13
	ModeAbort      Mode = 0x17
	ModeUndefined  Mode = 0x1B
	ModeSystem     Mode = 0x1F
)

// CPSR bit positions.
const (
	flagNBit = 31
	flagZBit = 30
	flagCBit = 29
	flagVBit = 28
	flagIBit = 7
	flagFBit = 6
	flagTBit = 5
	modeMask = 0x1F
)

// bank indexes the six distinct R13/R14/SPSR banks. System shares User's.
type bank int

const (
	bankUser bank = iota
	bankFIQ
	bankIRQ
	bankSupervisor
	bankAbort
	bankUndefined
	bankCount
)

func bankFor(m Mode) bank {
	switch m {
	case ModeFIQ:
		return bankFIQ
	case ModeIRQ:
		return bankIRQ
	case ModeSupervisor:
		return bankSupervisor
	case ModeAbort:
		return bankAbort
	case ModeUndefined:
		return bankUndefined
	default: // User, System, and any stray value fall back to User's bank.
		return bankUser
	}
}

func hasSPSR(m Mode) bool {
	switch m {
	case ModeFIQ, ModeIRQ, ModeSupervisor, ModeAbort, ModeUndefined:
		return true
	default:
		return false
	}
}

func isValidMode(m Mode) bool {
	switch m {
	case ModeUser, ModeFIQ, ModeIRQ, ModeSupervisor, ModeAbort, ModeUndefined, ModeSystem:
		return true
	default:
		return false
	}
}

// Registers is the ARM7TDMI register file: R0-R7 are unbanked, R8-R12 bank
// only for FIQ, R13/R14 bank per mode (System aliases User), R15 is
// unbanked and alignment-masked on write, and CPSR/SPSR are backed by a
// packed word plus a flag cache kept in sync at every cross-boundary
// access (spec §3/§4.1).
type Registers struct {
	common [8]uint32 // R0-R7
	mid    [5]uint32 // R8-R12, all modes except FIQ
	midFIQ [5]uint32 // R8-R12, FIQ only
	sp     [bankCount]uint32
	lr     [bankCount]uint32
	spsr   [bankCount]uint32
	pc     uint32
	mode   Mode
	flagN  bool
	flagZ  bool
	flagC  bool
	flagV  bool
	irqDis bool
	fiqDis bool
	thumb  bool
}

// NewRegisters builds a register file already in its post-reset state.
func NewRegisters() *Registers {
	r := &Registers{}
	r.Reset()
	return r
}

// Reset state per spec §3: GPRs zero except the seeded SP values, System
// mode with IRQ/FIQ disabled, ARM state, PC at the ROM entry point.
func (r *Registers) Reset() {
	*r = Registers{}
	r.sp[bankUser] = 0x03007F00
	r.sp[bankIRQ] = 0x03007FA0
	r.sp[bankSupervisor] = 0x03007FE0
	r.mode = ModeSystem
	r.irqDis = true
	r.fiqDis = true
	r.thumb = false
	r.pc = 0x08000000
}

func (r *Registers) Mode() Mode { return r.mode }

// Get returns the active-mode view of register reg (0..15).
func (r *Registers) Get(reg uint8) uint32 {
	switch {
	case reg == 15:
		return r.pc
	case reg == 14:
		return r.lr[bankFor(r.mode)]
	case reg == 13:
		return r.sp[bankFor(r.mode)]
	case reg >= 8:
		if r.mode == ModeFIQ {
			return r.midFIQ[reg-8]
		}
		return r.mid[reg-8]
	default:
		return r.common[reg]
	}
}

// Set writes the active-mode bank of register reg (0..15). Writes to R15
// are alignment-masked per the current T state.
func (r *Registers) Set(reg uint8, value uint32) {
	switch {
	case reg == 15:
		if r.thumb {
			r.pc = value &^ 1
		} else {
			r.pc = value &^ 3
		}
	case reg == 14:
		r.lr[bankFor(r.mode)] = value
	case reg == 13:
		r.sp[bankFor(r.mode)] = value
	case reg >= 8:
		if r.mode == ModeFIQ {
			r.midFIQ[reg-8] = value
		} else {
			r.mid[reg-8] = value
		}
	default:
		r.common[reg] = value
	}
}

func (r *Registers) PC() uint32         { return r.pc }
func (r *Registers) SetPC(value uint32) { r.Set(15, value) }
func (r *Registers) SP() uint32         { return r.Get(13) }
func (r *Registers) SetSP(value uint32) { r.Set(13, value) }
func (r *Registers) LR() uint32         { return r.Get(14) }
func (r *Registers) SetLR(value uint32) { r.Set(14, value) }

// SetPCRaw sets PC without the alignment mask; used by the fetch/exception
// paths which already guarantee alignment (vectors, branch targets).
func (r *Registers) SetPCRaw(value uint32) { r.pc = value }

func (r *Registers) packCPSR() uint32 {
	var v uint32
	v |= uint32(convert.BoolToInt(r.flagN)) << flagNBit
	v |= uint32(convert.BoolToInt(r.flagZ)) << flagZBit
	v |= uint32(convert.BoolToInt(r.flagC)) << flagCBit
	v |= uint32(convert.BoolToInt(r.flagV)) << flagVBit
	v |= uint32(convert.BoolToInt(r.irqDis)) << flagIBit
	v |= uint32(convert.BoolToInt(r.fiqDis)) << flagFBit
	v |= uint32(convert.BoolToInt(r.thumb)) << flagTBit
	v |= uint32(r.mode) & modeMask
	return v
}

func (r *Registers) unpackCPSR(v uint32) {
	r.flagN = v&(1<<flagNBit) != 0
	r.flagZ = v&(1<<flagZBit) != 0
	r.flagC = v&(1<<flagCBit) != 0
	r.flagV = v&(1<<flagVBit) != 0
	r.irqDis = v&(1<<flagIBit) != 0
	r.fiqDis = v&(1<<flagFBit) != 0
	r.thumb = v&(1<<flagTBit) != 0
	m := Mode(v & modeMask)
	if isValidMode(m) {
		r.mode = m
	}
}

// CPSR materializes the packed register from the flag cache.
func (r *Registers) CPSR() uint32 { return r.packCPSR() }

// SetCPSR re-derives the flag cache and mode from a packed value.
func (r *Registers) SetCPSR(value uint32) { r.unpackCPSR(value) }

// SPSR returns the saved PSR for the active mode, or the current CPSR in
// User/System (which have none).
func (r *Registers) SPSR() uint32 {
	if !hasSPSR(r.mode) {
		return r.packCPSR()
	}
	return r.spsr[bankFor(r.mode)]
}

// SetSPSR writes the saved PSR for the active mode; a no-op in User/System.
func (r *Registers) SetSPSR(value uint32) {
	if !hasSPSR(r.mode) {
		return
	}
	r.spsr[bankFor(r.mode)] = value
}

// SwitchMode optionally banks the current CPSR into the target mode's
// SPSR, then rewrites the mode field. It never touches I/F/T — callers
// (exception entry, MSR) own those bits explicitly.
func (r *Registers) SwitchMode(newMode Mode, saveCPSR bool) {
	if !isValidMode(newMode) {
		// Unpredictable on real hardware; the source silently no-ops (spec §7/§9).
		dbg.Printf("cpu: SwitchMode to invalid mode %#x ignored\n", newMode)
		return
	}
	if saveCPSR && hasSPSR(newMode) {
		r.spsr[bankFor(newMode)] = r.packCPSR()
	}
	r.mode = newMode
}

// RestoreCPSRFromSPSR implements the exception-return idiom: copy this
// mode's SPSR back into CPSR, which also restores the T bit of the
// interrupted code. No-op in User/System.
func (r *Registers) RestoreCPSRFromSPSR() {
	if !hasSPSR(r.mode) {
		return
	}
	r.unpackCPSR(r.spsr[bankFor(r.mode)])
}

// --- flag accessors -------------------------------------------------

func (r *Registers) FlagN() bool { return r.flagN }
func (r *Registers) FlagZ() bool { return r.flagZ }
func (r *Registers) FlagC() bool { return r.flagC }
func (r *Registers) FlagV() bool { return r.flagV }

func (r *Registers) SetFlagN(v bool) { r.flagN = v }
func (r *Registers) SetFlagZ(v bool) { r.flagZ = v }
func (r *Registers) SetFlagC(v bool) { r.flagC = v }
func (r *Registers) SetFlagV(v bool) { r.flagV = v }

func (r *Registers) IRQDisabled() bool     { return r.irqDis }
func (r *Registers) SetIRQDisabled(v bool) { r.irqDis = v }
func (r *Registers) FIQDisabled() bool     { return r.fiqDis }
func (r *Registers) SetFIQDisabled(v bool) { r.fiqDis = v }

func (r *Registers) Thumb() bool         { return r.thumb }
func (r *Registers) SetThumb(thumb bool) { r.thumb = thumb }

// SetFlagsNZ updates N and Z from result; used by logical/move ops whose
// S-bit does not touch C/V.
func (r *Registers) SetFlagsNZ(result uint32) {
	r.flagN = result&0x80000000 != 0
	r.flagZ = result == 0
}

// SetFlagsNZCV updates all four flags; used by arithmetic ops.
func (r *Registers) SetFlagsNZCV(result uint32, carry, overflow bool) {
	r.SetFlagsNZ(result)
	r.flagC = carry
	r.flagV = overflow
}

// CheckCondition implements the standard ARM condition field. AL and the
// reserved NV both evaluate true — NV is never emitted by a correct
// program and the spec asks that it not be special-cased into a NOP.
func (r *Registers) CheckCondition(cond uint8) bool {
	switch cond & 0xF {
	case 0x0: // EQ
		return r.flagZ
	case 0x1: // NE
		return !r.flagZ
	case 0x2: // CS/HS
		return r.flagC
	case 0x3: // CC/LO
		return !r.flagC
	case 0x4: // MI
		return r.flagN
	case 0x5: // PL
		return !r.flagN
	case 0x6: // VS
		return r.flagV
	case 0x7: // VC
		return !r.flagV
	case 0x8: // HI
		return r.flagC && !r.flagZ
	case 0x9: // LS
		return !r.flagC || r.flagZ
	case 0xA: // GE
		return r.flagN == r.flagV
	case 0xB: // LT
		return r.flagN != r.flagV
	case 0xC: // GT
		return !r.flagZ && r.flagN == r.flagV
	case 0xD: // LE
		return r.flagZ || r.flagN != r.flagV
	default: // AL, NV
		return true
	}
}

// String dumps register + flag state for debugging (spec §1's "text state
// dump" allowance).
func (r *Registers) String() string {
	state := "ARM"
	if r.thumb {
		state = "THUMB"
	}
	return fmt.Sprintf(
		"R0 =%08X R1 =%08X R2 =%08X R3 =%08X\n"+
			"R4 =%08X R5 =%08X R6 =%08X R7 =%08X\n"+
			"R8 =%08X R9 =%08X R10=%08X R11=%08X\n"+
			"R12=%08X SP =%08X LR =%08X PC =%08X\n"+
			"CPSR=%08X (%s %s N:%t Z:%t C:%t V:%t I:%t F:%t)",
		r.Get(0), r.Get(1), r.Get(2), r.Get(3),
		r.Get(4), r.Get(5), r.Get(6), r.Get(7),
		r.Get(8), r.Get(9), r.Get(10), r.Get(11),
		r.Get(12), r.Get(13), r.Get(14), r.Get(15),
		r.packCPSR(), modeName(r.mode), state,
		r.flagN, r.flagZ, r.flagC, r.flagV, r.irqDis, r.fiqDis,
	)
}

func modeName(m Mode) string {
	switch m {
	case ModeUser:
		return "USR"
	case ModeFIQ:
		return "FIQ"
	case ModeIRQ:
		return "IRQ"
	case ModeSupervisor:
		return "SVC"
	case ModeAbort:
		return "ABT"
	case ModeUndefined:
		return "UND"
	case ModeSystem:
		return "SYS"
	default:
		return fmt.Sprintf("?%02X?", uint8(m))
	}
}
