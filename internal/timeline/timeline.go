package timeline

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidOrder is returned when an event cannot be consistently ordered
// against the events already scheduled.
var ErrInvalidOrder = errors.New("event cannot be ordered against existing schedule")

// Kind identifies the automation event classes.
type Kind int

const (
	KindSetValue Kind = iota
	KindLinearRamp
	KindExponentialRamp
	KindSetTarget
	KindCurve
)

func (k Kind) String() string {
	switch k {
	case KindSetValue:
		return "setValue"
	case KindLinearRamp:
		return "linearRamp"
	case KindExponentialRamp:
		return "exponentialRamp"
	case KindSetTarget:
		return "setTarget"
	case KindCurve:
		return "curve"
	default:
		return "unknown"
	}
}

// Event is one scheduled automation instruction. Time is the absolute schedule
// time in seconds. Value is the set value (SetValue), the ramp end value
// (Linear/ExponentialRamp), or the asymptotic target (SetTarget). TimeConstant
// is only meaningful for SetTarget; Curve, Duration and Scaling only for Curve
// events.
type Event struct {
	Time         float64
	Kind         Kind
	Value        float64
	TimeConstant float64
	Curve        []float64
	Duration     float64
	Scaling      float64
}

// Timeline keeps the events for one parameter in increasing time order.
// Not safe for concurrent use; the owning parameter serializes access.
type Timeline struct {
	events []Event
}

func New() *Timeline {
	return &Timeline{}
}

// FromEvents wraps an already-ordered event slice without copying. Used by
// render paths to evaluate a snapshot while the live timeline keeps mutating.
func FromEvents(events []Event) *Timeline {
	return &Timeline{events: events}
}

// Insert places ev preserving time order.
//
// Same-time policy: the new event replaces an existing event at exactly the
// same time, except that a SetTarget which started strictly earlier is
// open-ended and is never displaced by a later same-time insert elsewhere in
// the queue.
//
// Ordering policy: a ramp event needs a concrete anchor to interpolate from,
// so a Linear/ExponentialRamp whose immediately preceding event is an earlier
// SetTarget is rejected with ErrInvalidOrder. Callers anchor the ramp first
// (see Param.SetRampPoint). Negative or non-finite times are also rejected.
func (t *Timeline) Insert(ev Event) error {
	if math.IsNaN(ev.Time) || math.IsInf(ev.Time, 0) || ev.Time < 0 {
		return fmt.Errorf("insert at time %v: %w", ev.Time, ErrInvalidOrder)
	}
	idx := t.searchAfter(ev.Time)
	if ev.Kind == KindLinearRamp || ev.Kind == KindExponentialRamp {
		if prev := t.at(idx - 1); prev != nil && prev.Kind == KindSetTarget && prev.Time < ev.Time {
			return fmt.Errorf("%s at %v follows an open setTarget at %v: %w",
				ev.Kind, ev.Time, prev.Time, ErrInvalidOrder)
		}
	}
	if ev.Kind == KindSetTarget {
		// The mirror image of the guard above: slotting an open target in
		// front of a scheduled ramp would leave that ramp without an anchor.
		if next := t.at(idx); next != nil && (next.Kind == KindLinearRamp || next.Kind == KindExponentialRamp) {
			return fmt.Errorf("setTarget at %v precedes %s at %v: %w",
				ev.Time, next.Kind, next.Time, ErrInvalidOrder)
		}
	}
	if prev := t.at(idx - 1); prev != nil && prev.Time == ev.Time {
		// A SetTarget that started strictly earlier never reaches this branch
		// (prev.Time < ev.Time); a same-time event of any kind is replaced.
		t.events[idx-1] = ev
		return nil
	}
	t.events = append(t.events, Event{})
	copy(t.events[idx+1:], t.events[idx:])
	t.events[idx] = ev
	return nil
}

// CancelFrom removes every event scheduled at or after the given time.
func (t *Timeline) CancelFrom(time float64) {
	idx := sort.Search(len(t.events), func(i int) bool {
		return t.events[i].Time >= time
	})
	t.events = t.events[:idx]
}

// Before returns the latest event at or before the given time.
func (t *Timeline) Before(time float64) (Event, bool) {
	idx := t.searchAfter(time)
	if ev := t.at(idx - 1); ev != nil {
		return *ev, true
	}
	return Event{}, false
}

// After returns the earliest event strictly after the given time.
func (t *Timeline) After(time float64) (Event, bool) {
	idx := t.searchAfter(time)
	if ev := t.at(idx); ev != nil {
		return *ev, true
	}
	return Event{}, false
}

// Previous returns the event immediately preceding the event at the given
// time, used to find the start value of an open-ended target approach.
func (t *Timeline) Previous(time float64) (Event, bool) {
	idx := sort.Search(len(t.events), func(i int) bool {
		return t.events[i].Time >= time
	})
	if ev := t.at(idx - 1); ev != nil {
		return *ev, true
	}
	return Event{}, false
}

// LastOfKind returns the latest event of the given kind at or before time.
func (t *Timeline) LastOfKind(kind Kind, time float64) (Event, bool) {
	idx := t.searchAfter(time)
	for i := idx - 1; i >= 0; i-- {
		if t.events[i].Kind == kind {
			return t.events[i], true
		}
	}
	return Event{}, false
}

func (t *Timeline) Len() int {
	return len(t.events)
}

// Snapshot returns a copy of the event queue. The copy is safe to read from
// another goroutine while the original keeps mutating.
func (t *Timeline) Snapshot() []Event {
	out := make([]Event, len(t.events))
	copy(out, t.events)
	return out
}

// searchAfter returns the index of the first event strictly after time.
func (t *Timeline) searchAfter(time float64) int {
	return sort.Search(len(t.events), func(i int) bool {
		return t.events[i].Time > time
	})
}

func (t *Timeline) at(i int) *Event {
	if i < 0 || i >= len(t.events) {
		return nil
	}
	return &t.events[i]
}
