package creacode

import (
	"math"
	"testing"
)

func TestManualClock(t *testing.T) {
	clk := &ManualClock{}
	if clk.Now() != 0 {
		t.Errorf("zero value should start at 0, got %f", clk.Now())
	}
	clk.Set(2.5)
	clk.Advance(0.5)
	if math.Abs(clk.Now()-3) > 1e-9 {
		t.Errorf("got %f, want 3", clk.Now())
	}
}

func TestSampleClock(t *testing.T) {
	clk := NewSampleClock(48000)
	clk.Advance(48000)
	if math.Abs(clk.Now()-1) > 1e-9 {
		t.Errorf("48000 frames at 48kHz: got %f, want 1s", clk.Now())
	}
	clk.Advance(24000)
	if math.Abs(clk.Now()-1.5) > 1e-9 {
		t.Errorf("got %f, want 1.5s", clk.Now())
	}
}

func TestResolveTime(t *testing.T) {
	clk := &ManualClock{}
	clk.Set(10)

	for _, tc := range []struct {
		expr string
		want float64
	}{
		{"+1.5", 11.5},
		{"2.5", 2.5},
		{"now", 10},
		{"", 10},
		{" +0.25 ", 10.25},
	} {
		got, err := ResolveTime(clk, tc.expr)
		if err != nil {
			t.Errorf("%q: %v", tc.expr, err)
			continue
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%q: got %f, want %f", tc.expr, got, tc.want)
		}
	}

	if _, err := ResolveTime(clk, "later"); err == nil {
		t.Error("garbage expression should not parse")
	}
}
