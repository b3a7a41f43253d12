package timeline

import (
	"errors"
	"testing"
)

func TestInsertKeepsTimeOrder(t *testing.T) {
	tl := New()
	for _, at := range []float64{2.0, 0.5, 1.0, 3.0, 0.1} {
		if err := tl.Insert(Event{Time: at, Kind: KindSetValue, Value: at}); err != nil {
			t.Fatalf("insert at %f: %v", at, err)
		}
	}
	events := tl.Snapshot()
	for i := 1; i < len(events); i++ {
		if events[i].Time < events[i-1].Time {
			t.Fatalf("events out of order: %f before %f", events[i-1].Time, events[i].Time)
		}
	}
}

func TestInsertSameTimeReplaces(t *testing.T) {
	tl := New()
	tl.Insert(Event{Time: 1, Kind: KindSetValue, Value: 5})
	tl.Insert(Event{Time: 1, Kind: KindSetValue, Value: 7})
	if tl.Len() != 1 {
		t.Fatalf("expected 1 event after same-time insert, got %d", tl.Len())
	}
	ev, ok := tl.Before(1)
	if !ok || ev.Value != 7 {
		t.Errorf("expected the newer event to win, got %+v", ev)
	}
}

func TestInsertRetainsEarlierSetTarget(t *testing.T) {
	tl := New()
	tl.Insert(Event{Time: 0.5, Kind: KindSetTarget, Value: 0, TimeConstant: 1})
	if err := tl.Insert(Event{Time: 1, Kind: KindSetValue, Value: 3}); err != nil {
		t.Fatalf("insert after open target: %v", err)
	}
	if tl.Len() != 2 {
		t.Fatalf("open target should be retained, got %d events", tl.Len())
	}
}

func TestInsertRampAfterOpenTargetFails(t *testing.T) {
	tl := New()
	tl.Insert(Event{Time: 0.5, Kind: KindSetTarget, Value: 0, TimeConstant: 1})
	err := tl.Insert(Event{Time: 1, Kind: KindLinearRamp, Value: 3})
	if !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder, got %v", err)
	}
}

func TestInsertTargetBeforeRampFails(t *testing.T) {
	tl := New()
	tl.Insert(Event{Time: 0, Kind: KindSetValue, Value: 1})
	tl.Insert(Event{Time: 2, Kind: KindLinearRamp, Value: 3})
	err := tl.Insert(Event{Time: 1, Kind: KindSetTarget, Value: 0, TimeConstant: 1})
	if !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("expected ErrInvalidOrder, got %v", err)
	}
	if tl.Len() != 2 {
		t.Fatalf("rejected target should not enter the queue, got %d events", tl.Len())
	}
}

func TestInsertRejectsNegativeAndNaNTimes(t *testing.T) {
	tl := New()
	if err := tl.Insert(Event{Time: -1, Kind: KindSetValue}); !errors.Is(err, ErrInvalidOrder) {
		t.Errorf("negative time: expected ErrInvalidOrder, got %v", err)
	}
}

func TestCancelFromTruncates(t *testing.T) {
	tl := New()
	for _, at := range []float64{0, 1, 2, 3} {
		tl.Insert(Event{Time: at, Kind: KindSetValue, Value: at})
	}
	tl.CancelFrom(2)
	if tl.Len() != 2 {
		t.Fatalf("expected 2 events after cancel, got %d", tl.Len())
	}
	if _, ok := tl.After(1.5); ok {
		t.Error("no events should remain at or after the cancel time")
	}
}

func TestBeforeAfterBracketing(t *testing.T) {
	tl := New()
	tl.Insert(Event{Time: 1, Kind: KindSetValue, Value: 10})
	tl.Insert(Event{Time: 3, Kind: KindSetValue, Value: 30})

	if _, ok := tl.Before(0.5); ok {
		t.Error("expected no event before the first")
	}
	if ev, ok := tl.After(0.5); !ok || ev.Value != 10 {
		t.Errorf("expected next event value 10, got %+v ok=%v", ev, ok)
	}
	if ev, ok := tl.Before(2); !ok || ev.Value != 10 {
		t.Errorf("expected previous event value 10, got %+v ok=%v", ev, ok)
	}
	if ev, ok := tl.Before(3); !ok || ev.Value != 30 {
		t.Errorf("Before is inclusive at the event time, got %+v ok=%v", ev, ok)
	}
	if _, ok := tl.After(3); ok {
		t.Error("expected no event after the last")
	}
}

func TestLastOfKind(t *testing.T) {
	tl := New()
	tl.Insert(Event{Time: 0, Kind: KindSetValue, Value: 1})
	tl.Insert(Event{Time: 1, Kind: KindSetTarget, Value: 0, TimeConstant: 1})
	tl.Insert(Event{Time: 2, Kind: KindSetValue, Value: 2})

	ev, ok := tl.LastOfKind(KindSetTarget, 5)
	if !ok || ev.Time != 1 {
		t.Errorf("expected target at t=1, got %+v ok=%v", ev, ok)
	}
	if _, ok := tl.LastOfKind(KindLinearRamp, 5); ok {
		t.Error("no ramp was scheduled")
	}
	ev, ok = tl.LastOfKind(KindSetValue, 1.5)
	if !ok || ev.Time != 0 {
		t.Errorf("expected set value at t=0, got %+v ok=%v", ev, ok)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	tl := New()
	tl.Insert(Event{Time: 0, Kind: KindSetValue, Value: 1})
	snap := tl.Snapshot()
	tl.Insert(Event{Time: 1, Kind: KindSetValue, Value: 2})
	if len(snap) != 1 {
		t.Errorf("snapshot should not grow with the live timeline, got %d", len(snap))
	}
}
