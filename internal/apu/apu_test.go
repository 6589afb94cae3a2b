package apu_test

import (
	"testing"

	"github.com/ljsoft/gba7/internal/apu"
)

func TestAPUAccumulatesSamplesAtSampleRate(t *testing.T) {
	a := apu.NewAPU()
	a.Step(16777216) // exactly one second of CPU cycles

	samples := a.GetSamples(100000)
	if len(samples) != 32768 {
		t.Errorf("expected 32768 samples produced per second, got %d", len(samples))
	}
}

func TestAPUGetSamplesNeverExceedsPending(t *testing.T) {
	a := apu.NewAPU()
	a.Step(1000)

	samples := a.GetSamples(1 << 20)
	if len(samples) > 1 {
		t.Errorf("expected at most a handful of pending samples for 1000 cycles, got %d", len(samples))
	}
	for _, s := range samples {
		if s != 0 {
			t.Error("expected silence (zeroed samples) from the stand-in mixer")
		}
	}
}

func TestAPUResetClearsPendingSamples(t *testing.T) {
	a := apu.NewAPU()
	a.Step(16777216)
	a.Reset()
	if samples := a.GetSamples(10); len(samples) != 0 {
		t.Errorf("expected no pending samples after Reset, got %d", len(samples))
	}
}
