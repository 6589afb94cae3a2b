package cpu

import "testing"

func TestShiftLSLByZero(t *testing.T) {
	result, carry := barrelShift(ShiftLSL, 0xAAAAAAAA, 0, true, true)
	if result != 0xAAAAAAAA {
		t.Errorf("expected unchanged value, got 0x%X", result)
	}
	if !carry {
		t.Error("expected carry-in to pass through unchanged on LSL #0")
	}
}

func TestShiftLSLBy32(t *testing.T) {
	result, carry := barrelShift(ShiftLSL, 0x00000001, 32, false, false)
	if result != 0 {
		t.Errorf("expected 0, got 0x%X", result)
	}
	if !carry {
		t.Error("expected carry-out = bit 0 of value on LSL #32")
	}
}

func TestShiftLSRImmediateZeroMeans32(t *testing.T) {
	// LSR #0 in an immediate-shift encoding means LSR #32.
	result, carry := barrelShift(ShiftLSR, 0x80000000, 0, false, true)
	if result != 0 {
		t.Errorf("expected 0, got 0x%X", result)
	}
	if !carry {
		t.Error("expected carry-out = bit 31 of value on LSR #32")
	}
}

func TestShiftASRSignExtends(t *testing.T) {
	result, carry := barrelShift(ShiftASR, 0x80000000, 31, false, false)
	if result != 0xFFFFFFFF {
		t.Errorf("expected sign-extended 0xFFFFFFFF, got 0x%X", result)
	}
	if carry {
		t.Error("expected carry-out clear (bit 30 of value)")
	}
}

func TestShiftRORRotatesBitsAround(t *testing.T) {
	result, carry := barrelShift(ShiftROR, 0x00000001, 1, false, false)
	if result != 0x80000000 {
		t.Errorf("expected 0x80000000, got 0x%X", result)
	}
	if !carry {
		t.Error("expected carry-out set from the bit rotated off the bottom")
	}
}

func TestShiftRORByZeroIsRRX(t *testing.T) {
	// Immediate ROR #0 means RRX: rotate right through carry by one bit.
	result, carry := barrelShift(ShiftROR, 0x00000001, 0, true, true)
	if result != 0x80000000 {
		t.Errorf("expected carry rotated into bit 31, got 0x%X", result)
	}
	if !carry {
		t.Error("expected carry-out = original bit 0")
	}
}
