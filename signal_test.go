package creacode

import (
	"errors"
	"math"
	"testing"
)

func TestConnectOverridesDestination(t *testing.T) {
	clk := &ManualClock{}
	b := NewSignal(WithClock(clk))
	b.SetValueAtTime(0, 0)
	b.LinearRampToValueAtTime(1, 2)

	a := NewSignal(WithValue(5), WithClock(clk))
	clk.Set(1) // connect mid-ramp
	a.Connect(b)

	if !b.Overridden() {
		t.Fatal("destination should be overridden after connect")
	}
	// The destination's own automation is silenced; the driving source alone
	// determines what a downstream consumer sees.
	if v := b.RawValueAtTime(1); v != 0 {
		t.Errorf("own contribution should be zero while overridden, got %f", v)
	}
	if len(a.Connections()) != 1 {
		t.Errorf("expected one connection record, got %d", len(a.Connections()))
	}
}

func TestDisconnectRestoresSchedule(t *testing.T) {
	clk := &ManualClock{}
	b := NewSignal(WithClock(clk))
	b.SetValueAtTime(0, 0)
	b.LinearRampToValueAtTime(1, 2)

	a := NewSignal(WithValue(5), WithClock(clk))
	clk.Set(1)
	a.Connect(b)
	if err := a.Disconnect(b); err != nil {
		t.Fatalf("disconnect: %v", err)
	}

	if b.Overridden() {
		t.Error("override flag should clear on disconnect")
	}
	// The pre-override curve resumes: the ramp still reads 0.75 at t=1.5.
	if v := b.GetValueAtTime(1.5); math.Abs(v-0.75) > 1e-9 {
		t.Errorf("restored ramp at 1.5: got %f, want 0.75", v)
	}
	if len(a.Connections()) != 0 {
		t.Errorf("record should be consumed, %d left", len(a.Connections()))
	}
}

func TestDisconnectUnknownDestinationFails(t *testing.T) {
	a := NewSignal(WithValue(1))
	b := NewSignal()
	if err := a.Disconnect(b); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestDisconnectMatchesIndices(t *testing.T) {
	a := NewSignal(WithValue(1))
	b := NewSignal()
	a.Connect(b, 0, 0)

	if err := a.Disconnect(b, 1, 0); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("mismatched output index should not match, got %v", err)
	}
	if err := a.Disconnect(b, 0, 0); err != nil {
		t.Fatalf("matching indices: %v", err)
	}
}

func TestDisconnectAllRemovesEveryRecord(t *testing.T) {
	a := NewSignal(WithValue(1))
	b := NewSignal()
	c := NewSignal()
	a.Connect(b)
	a.Connect(c)

	if err := a.Disconnect(nil); err != nil {
		t.Fatalf("disconnect all: %v", err)
	}
	if b.Overridden() || c.Overridden() {
		t.Error("all destinations should be released")
	}
	if len(a.Connections()) != 0 {
		t.Errorf("expected no records, got %d", len(a.Connections()))
	}
}

func TestStackedOverridesUnwindInReverseOrder(t *testing.T) {
	clk := &ManualClock{}
	dst := NewSignal(WithValue(3), WithClock(clk))

	a := NewSignal(WithValue(1), WithClock(clk))
	b := NewSignal(WithValue(2), WithClock(clk))
	a.Connect(dst)
	b.Connect(dst) // last-connect-wins; snapshots the silenced state

	if err := b.Disconnect(dst); err != nil {
		t.Fatalf("disconnect b: %v", err)
	}
	if err := a.Disconnect(dst); err != nil {
		t.Fatalf("disconnect a: %v", err)
	}
	if dst.Overridden() {
		t.Error("override flag should clear after both disconnects")
	}
	if v := dst.Value(); math.Abs(v-3) > 1e-9 {
		t.Errorf("original value should be restored, got %f", v)
	}
}

func TestStackedOverridesRestoreOriginalAutomation(t *testing.T) {
	clk := &ManualClock{}
	dst := NewSignal(WithClock(clk))
	dst.SetValueAtTime(0, 0)
	dst.LinearRampToValueAtTime(1, 2)

	a := NewSignal(WithValue(1), WithClock(clk))
	b := NewSignal(WithValue(2), WithClock(clk))
	a.Connect(dst)
	b.Connect(dst)

	if err := b.Disconnect(dst); err != nil {
		t.Fatalf("disconnect b: %v", err)
	}
	if err := a.Disconnect(dst); err != nil {
		t.Fatalf("disconnect a: %v", err)
	}
	// Each override stashed its own schedule, so the full unwind brings the
	// ramp back, not just the value it had at connect time.
	if v := dst.GetValueAtTime(1.5); math.Abs(v-0.75) > 1e-9 {
		t.Errorf("restored ramp at 1.5: got %f, want 0.75", v)
	}
}

func TestNonOverridableSinkIsWiredWithoutOverride(t *testing.T) {
	a := NewSignal(WithValue(1))
	sink := &plainSink{}
	a.Connect(sink)
	if len(a.Connections()) != 1 {
		t.Fatal("the wiring record is kept even without override")
	}
	if sink.touched {
		t.Error("non-overridable sink must not be snapshotted")
	}
	if err := a.Disconnect(sink); err != nil {
		t.Fatalf("disconnect sink: %v", err)
	}
}

func TestSignalDisposeReleasesConnections(t *testing.T) {
	a := NewSignal(WithValue(1))
	b := NewSignal()
	a.Connect(b)
	a.Dispose()
	if b.Overridden() {
		t.Error("dispose should release the destination")
	}
}

// plainSink is a destination variant that cannot be overridden.
type plainSink struct {
	touched bool
}

func (s *plainSink) IsOverridable() bool    { return false }
func (s *plainSink) SnapshotValue() float64 { s.touched = true; return 0 }
func (s *plainSink) RestoreValue(float64)   { s.touched = true }
func (s *plainSink) SetOverridden(bool)     { s.touched = true }
