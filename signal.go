package creacode

import (
	"fmt"
	"sync"
)

// Overridable is the capability surface a connection destination exposes.
// Connecting a driving signal to an overridable destination suppresses the
// destination's own automation for the life of the connection; disconnecting
// restores it. Destinations that are plain sinks report false from
// IsOverridable and the remaining methods are never called on them.
type Overridable interface {
	IsOverridable() bool
	// SnapshotValue captures the destination's current value and schedule,
	// then mutes its own automation so the driving source alone determines
	// the output.
	SnapshotValue() float64
	// RestoreValue reinstates the captured schedule and re-anchors the
	// captured value at time zero.
	RestoreValue(v float64)
	SetOverridden(overridden bool)
}

// ConnectionRecord describes one edge this signal has made. Records are owned
// by the source signal; the destination reference never extends the
// destination's lifetime.
type ConnectionRecord struct {
	Destination   Overridable
	OutputIndex   int
	InputIndex    int
	PreviousValue float64

	overriding bool
}

// Signal is a Param that can drive other parameters. It owns the connection
// records for every destination it has overridden; there is no global
// connection registry.
type Signal struct {
	*Param

	connMu sync.Mutex
	conns  []ConnectionRecord
}

func NewSignal(opts ...ParamOption) *Signal {
	return &Signal{Param: NewParam(opts...)}
}

// Connect wires this signal to a destination. indices supplies the optional
// output and input indices, both defaulting to 0. If the destination is
// overridable its current value is snapshotted, its own automation silenced
// and its overridden flag set. The wiring record is kept either way.
//
// A destination that is already overridden may be connected again;
// last-connect-wins. The second snapshot then captures the silenced state, so
// exact restoration requires disconnecting in reverse connect order.
func (s *Signal) Connect(dst Overridable, indices ...int) {
	out, in := connIndices(indices)
	rec := ConnectionRecord{Destination: dst, OutputIndex: out, InputIndex: in}
	if dst != nil && dst.IsOverridable() {
		rec.PreviousValue = dst.SnapshotValue()
		dst.SetOverridden(true)
		rec.overriding = true
	}
	s.connMu.Lock()
	s.conns = append(s.conns, rec)
	s.connMu.Unlock()
}

// Disconnect tears down connections made by Connect. A nil destination
// removes every record this signal holds. When a destination is given,
// indices narrows the match to a specific output/input pair; ErrNotConnected
// is returned when nothing matches. Overridden destinations have their
// snapshotted value and schedule restored.
func (s *Signal) Disconnect(dst Overridable, indices ...int) error {
	matchIdx := len(indices) > 0
	out, in := connIndices(indices)

	s.connMu.Lock()
	var kept, removed []ConnectionRecord
	for _, rec := range s.conns {
		match := dst == nil || (rec.Destination == dst &&
			(!matchIdx || (rec.OutputIndex == out && rec.InputIndex == in)))
		if match {
			removed = append(removed, rec)
		} else {
			kept = append(kept, rec)
		}
	}
	if dst != nil && len(removed) == 0 {
		s.connMu.Unlock()
		return fmt.Errorf("disconnect: %w", ErrNotConnected)
	}
	s.conns = kept
	s.connMu.Unlock()

	// Restore in reverse connect order so stacked overrides unwind cleanly.
	for i := len(removed) - 1; i >= 0; i-- {
		rec := removed[i]
		if !rec.overriding {
			continue
		}
		rec.Destination.SetOverridden(false)
		rec.Destination.RestoreValue(rec.PreviousValue)
	}
	return nil
}

// Connections returns a copy of the signal's live connection records.
func (s *Signal) Connections() []ConnectionRecord {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	out := make([]ConnectionRecord, len(s.conns))
	copy(out, s.conns)
	return out
}

// Dispose disconnects everything and releases the schedule.
func (s *Signal) Dispose() {
	_ = s.Disconnect(nil)
	s.Param.Dispose()
}

func connIndices(indices []int) (out, in int) {
	if len(indices) > 0 {
		out = indices[0]
	}
	if len(indices) > 1 {
		in = indices[1]
	}
	return out, in
}
