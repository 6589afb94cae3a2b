package joypad_test

import (
	"testing"

	"github.com/ljsoft/gba7/internal/joypad"
)

func TestJoypadResetAllReleased(t *testing.T) {
	j := joypad.NewJoypad()
	if got := j.KeyInput(); got != 0x03FF {
		t.Errorf("expected all buttons released (0x03FF), got 0x%X", got)
	}
}

func TestJoypadPressClearsBit(t *testing.T) {
	j := joypad.NewJoypad()
	j.SetKeyState(joypad.ButtonA, true)
	if got := j.KeyInput(); got&0x1 != 0 {
		t.Errorf("expected bit 0 cleared when A pressed, got 0x%X", got)
	}
	j.SetKeyState(joypad.ButtonA, false)
	if got := j.KeyInput(); got&0x1 == 0 {
		t.Errorf("expected bit 0 set again when A released, got 0x%X", got)
	}
}

func TestJoypadOutOfRangeIndexIgnored(t *testing.T) {
	j := joypad.NewJoypad()
	before := j.KeyInput()
	j.SetKeyState(-1, true)
	j.SetKeyState(10, true)
	if got := j.KeyInput(); got != before {
		t.Errorf("expected out-of-range index to be a no-op, got 0x%X", got)
	}
}
