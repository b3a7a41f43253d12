package creacode

import (
	"fmt"
	"math"
	"sync"

	"github.com/mikpatings/creacode-boys/internal/curve"
	"github.com/mikpatings/creacode-boys/internal/timeline"
	"github.com/mikpatings/creacode-boys/internal/units"
)

// ParamConfig configures a Param at construction. Zero bounds fields (NaN)
// select the default range for the configured unit.
type ParamConfig struct {
	Value    float64    // initial value, in human units when Convert is on
	Units    units.Unit // numeric domain of the stored automation values
	Convert  bool       // convert between human units and the raw domain
	MinValue float64    // raw-domain lower clamp bound; NaN = unit default
	MaxValue float64    // raw-domain upper clamp bound; NaN = unit default
	Clock    Clock      // now source for value get/set and relative scheduling
}

func DefaultParamConfig() ParamConfig {
	return ParamConfig{
		Convert:  true,
		MinValue: math.NaN(),
		MaxValue: math.NaN(),
		Clock:    &ManualClock{},
	}
}

type ParamOption func(*ParamConfig)

func WithValue(v float64) ParamOption {
	return func(cfg *ParamConfig) { cfg.Value = v }
}

func WithUnits(u units.Unit) ParamOption {
	return func(cfg *ParamConfig) { cfg.Units = u }
}

func WithConvert(enabled bool) ParamOption {
	return func(cfg *ParamConfig) { cfg.Convert = enabled }
}

// WithRange overrides the unit's default clamp bounds. Bounds are in the raw
// automation domain.
func WithRange(min, max float64) ParamOption {
	return func(cfg *ParamConfig) {
		cfg.MinValue = min
		cfg.MaxValue = max
	}
}

func WithClock(clock Clock) ParamOption {
	return func(cfg *ParamConfig) { cfg.Clock = clock }
}

// Param is a continuous-valued parameter automated by time-stamped events.
// Scheduling calls validate synchronously; evaluation is a pure function of
// the stored schedule and the query time. All methods are safe for use from
// one scheduling goroutine while a render path reads values concurrently.
type Param struct {
	mu       sync.Mutex
	tl       *timeline.Timeline
	initial  float64 // raw domain
	min, max float64
	units    units.Unit
	convert  bool
	clock    Clock

	overridden bool
	saved      [][]timeline.Event // schedules stashed while overridden, one per override
}

func NewParam(opts ...ParamOption) *Param {
	cfg := DefaultParamConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	lo, hi := units.Range(cfg.Units)
	if !math.IsNaN(cfg.MinValue) {
		lo = cfg.MinValue
	}
	if !math.IsNaN(cfg.MaxValue) {
		hi = cfg.MaxValue
	}
	clock := cfg.Clock
	if clock == nil {
		clock = &ManualClock{}
	}
	p := &Param{
		tl:      timeline.New(),
		min:     lo,
		max:     hi,
		units:   cfg.Units,
		convert: cfg.Convert,
		clock:   clock,
	}
	p.initial = p.clampRaw(p.toRaw(cfg.Value))
	return p
}

// Units returns the parameter's numeric domain.
func (p *Param) Units() units.Unit { return p.units }

// MinValue returns the lower clamp bound in the raw domain.
func (p *Param) MinValue() float64 { return p.min }

// MaxValue returns the upper clamp bound in the raw domain.
func (p *Param) MaxValue() float64 { return p.max }

// SetValueAtTime schedules the parameter to jump to value at the given time.
func (p *Param) SetValueAtTime(value, time float64) error {
	raw, err := p.checkRaw(value)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tl.Insert(timeline.Event{Time: time, Kind: timeline.KindSetValue, Value: raw})
}

// LinearRampToValueAtTime schedules a linear ramp ending at value at endTime,
// starting from the previous scheduled point.
func (p *Param) LinearRampToValueAtTime(value, endTime float64) error {
	raw, err := p.checkRaw(value)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tl.Insert(timeline.Event{Time: endTime, Kind: timeline.KindLinearRamp, Value: raw})
}

// ExponentialRampToValueAtTime schedules an exponential ramp ending at value
// at endTime. When the segment crosses or touches zero the evaluator degrades
// it to a linear ramp; that is documented policy, not an error.
func (p *Param) ExponentialRampToValueAtTime(value, endTime float64) error {
	raw, err := p.checkRaw(value)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tl.Insert(timeline.Event{Time: endTime, Kind: timeline.KindExponentialRamp, Value: raw})
}

// SetTargetAtTime schedules an open-ended exponential approach toward value,
// beginning at startTime with the given time constant.
func (p *Param) SetTargetAtTime(value, startTime, timeConstant float64) error {
	if timeConstant <= 0 {
		return fmt.Errorf("timeConstant %v: %w", timeConstant, ErrRange)
	}
	raw, err := p.checkRaw(value)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tl.Insert(timeline.Event{
		Time:         startTime,
		Kind:         timeline.KindSetTarget,
		Value:        raw,
		TimeConstant: timeConstant,
	})
}

// SetValueCurveAtTime schedules an explicit value curve over duration,
// scaled by scaling. Curve points between samples are linearly interpolated.
func (p *Param) SetValueCurveAtTime(values []float64, startTime, duration, scaling float64) error {
	if duration <= 0 {
		return fmt.Errorf("duration %v: %w", duration, ErrRange)
	}
	if len(values) == 0 {
		return fmt.Errorf("empty value curve: %w", ErrRange)
	}
	converted := make([]float64, len(values))
	for i, v := range values {
		raw := p.toRaw(v)
		scaled := raw * scaling
		if (!math.IsInf(p.min, -1) && scaled < p.min) || (!math.IsInf(p.max, 1) && scaled > p.max) {
			return fmt.Errorf("curve point %v outside [%v, %v]: %w", v, p.min, p.max, ErrRange)
		}
		converted[i] = raw
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tl.Insert(timeline.Event{
		Time:     startTime,
		Kind:     timeline.KindCurve,
		Curve:    converted,
		Duration: duration,
		Scaling:  scaling,
	})
}

// SetRampPoint anchors the evaluator's current output at time as an explicit
// SetValue event, so a subsequent ramp has a defined start point. It also
// terminates an open target approach at that instant.
func (p *Param) SetRampPoint(time float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	raw := p.clampRaw(curve.Value(p.tl, p.initial, time))
	return p.tl.Insert(timeline.Event{Time: time, Kind: timeline.KindSetValue, Value: raw})
}

// LinearRampTo ramps to value over rampTime starting now.
func (p *Param) LinearRampTo(value, rampTime float64) error {
	return p.LinearRampToAt(value, rampTime, p.clock.Now())
}

// LinearRampToAt anchors a ramp point at startTime and ramps linearly to
// value by startTime+rampTime.
func (p *Param) LinearRampToAt(value, rampTime, startTime float64) error {
	if err := p.SetRampPoint(startTime); err != nil {
		return err
	}
	return p.LinearRampToValueAtTime(value, startTime+rampTime)
}

// ExponentialRampTo ramps exponentially to value over rampTime starting now.
func (p *Param) ExponentialRampTo(value, rampTime float64) error {
	return p.ExponentialRampToAt(value, rampTime, p.clock.Now())
}

// ExponentialRampToAt anchors a ramp point at startTime and ramps
// exponentially to value by startTime+rampTime.
func (p *Param) ExponentialRampToAt(value, rampTime, startTime float64) error {
	if err := p.SetRampPoint(startTime); err != nil {
		return err
	}
	return p.ExponentialRampToValueAtTime(value, startTime+rampTime)
}

// TargetRampTo approaches value over roughly rampTime starting now.
func (p *Param) TargetRampTo(value, rampTime float64) error {
	return p.TargetRampToAt(value, rampTime, p.clock.Now())
}

// TargetRampToAt anchors a ramp point at startTime, approaches value with a
// time constant of rampTime/6 (within 0.25% by the end of the ramp), then
// pins the final value at startTime+rampTime.
func (p *Param) TargetRampToAt(value, rampTime, startTime float64) error {
	if rampTime <= 0 {
		return fmt.Errorf("rampTime %v: %w", rampTime, ErrRange)
	}
	if err := p.SetRampPoint(startTime); err != nil {
		return err
	}
	if err := p.SetTargetAtTime(value, startTime, rampTime/6); err != nil {
		return err
	}
	return p.SetValueAtTime(value, startTime+rampTime)
}

// RampTo ramps to value over rampTime starting now, picking an exponential
// sweep for pitch- and tempo-like units and a linear one otherwise.
func (p *Param) RampTo(value, rampTime float64) error {
	if units.Ramped(p.units) {
		return p.ExponentialRampTo(value, rampTime)
	}
	return p.LinearRampTo(value, rampTime)
}

// CancelScheduledValues removes all events at or after time. A ramp or open
// target in flight at that moment is cut off: the value it had reached holds
// from the cancellation point onward.
func (p *Param) CancelScheduledValues(time float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancelAndHold(time)
}

// CancelAndHoldAtTime is the explicit form of the same cut: events after time
// are removed and the evaluated value at that instant is pinned there.
func (p *Param) CancelAndHoldAtTime(time float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancelAndHold(time)
}

// cancelAndHold evaluates before truncating so the held value reflects the
// schedule being cancelled. An event sitting exactly at the cut is itself
// cancelled, so the hold is evaluated with it excluded; an in-flight ramp
// ending later still brackets the cut and interpolates. Caller holds p.mu.
func (p *Param) cancelAndHold(time float64) error {
	_, hadLater := p.tl.After(time)
	events := p.tl.Snapshot()
	filtered := events[:0]
	atCut := false
	for _, ev := range events {
		if ev.Time == time {
			atCut = true
			continue
		}
		filtered = append(filtered, ev)
	}
	view := timeline.FromEvents(filtered)
	before, hadBefore := view.Before(time)
	openBefore := hadBefore && (before.Kind == timeline.KindSetTarget ||
		(before.Kind == timeline.KindCurve && time < before.Time+before.Duration))
	if !hadLater && !atCut && !openBefore {
		return nil
	}
	raw := p.clampRaw(curve.Value(view, p.initial, time))
	p.tl.CancelFrom(time)
	return p.tl.Insert(timeline.Event{Time: time, Kind: timeline.KindSetValue, Value: raw})
}

// GetValueAtTime evaluates the automation curve at the given time. The result
// is clamped to the configured bounds and reported in human units when
// conversion is on.
func (p *Param) GetValueAtTime(time float64) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fromRaw(p.clampRaw(curve.Value(p.tl, p.initial, time)))
}

// RawValueAtTime evaluates the curve at time in the raw automation domain,
// bypassing unit conversion. Render paths use this.
func (p *Param) RawValueAtTime(time float64) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clampRaw(curve.Value(p.tl, p.initial, time))
}

// RawValues fills dst with the raw value at start + i*dt for each i. The
// schedule is snapshotted once, so a concurrent scheduling call never tears
// the buffer mid-render.
func (p *Param) RawValues(dst []float64, start, dt float64) {
	p.mu.Lock()
	events := p.tl.Snapshot()
	initial := p.initial
	p.mu.Unlock()
	view := timeline.FromEvents(events)
	for i := range dst {
		dst[i] = p.clampRaw(curve.Value(view, initial, start+float64(i)*dt))
	}
}

// Value evaluates the parameter at the clock's current time.
func (p *Param) Value() float64 {
	return p.GetValueAtTime(p.clock.Now())
}

// SetValue anchors value at the clock's current time. It does not cancel
// future scheduled events; only CancelScheduledValues does that.
func (p *Param) SetValue(value float64) error {
	return p.SetValueAtTime(value, p.clock.Now())
}

// Dispose releases the schedule. The parameter evaluates to its initial
// value afterwards.
func (p *Param) Dispose() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tl = timeline.New()
	p.saved = nil
	p.overridden = false
}

// IsOverridable reports that a Param's own automation can be suppressed by a
// driving connection.
func (p *Param) IsOverridable() bool { return true }

// SnapshotValue captures the current raw value and pushes the schedule onto
// the stash stack, then silences the parameter's own automation: the schedule
// is cancelled and the raw value pinned to zero so a driving source alone
// determines the output. Stacked overrides stash one schedule each, so
// unwinding them in reverse connect order restores the original automation.
func (p *Param) SnapshotValue() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := p.clock.Now()
	v := p.clampRaw(curve.Value(p.tl, p.initial, now))
	p.saved = append(p.saved, p.tl.Snapshot())
	p.tl.CancelFrom(0)
	_ = p.tl.Insert(timeline.Event{Time: 0, Kind: timeline.KindSetValue, Value: p.clampRaw(0)})
	return v
}

// RestoreValue pops the schedule captured by the matching SnapshotValue and
// re-anchors the captured raw value at time zero.
func (p *Param) RestoreValue(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tl = timeline.New()
	_ = p.tl.Insert(timeline.Event{Time: 0, Kind: timeline.KindSetValue, Value: p.clampRaw(v)})
	if n := len(p.saved); n > 0 {
		for _, ev := range p.saved[n-1] {
			_ = p.tl.Insert(ev)
		}
		p.saved = p.saved[:n-1]
	}
}

// SetOverridden marks whether an upstream connection is driving this
// parameter.
func (p *Param) SetOverridden(overridden bool) {
	p.mu.Lock()
	p.overridden = overridden
	p.mu.Unlock()
}

// Overridden reports whether an upstream connection is driving this
// parameter.
func (p *Param) Overridden() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.overridden
}

func (p *Param) toRaw(v float64) float64 {
	if p.convert {
		return units.Convert(p.units, v)
	}
	return v
}

func (p *Param) fromRaw(v float64) float64 {
	if p.convert {
		return units.Reverse(p.units, v)
	}
	return v
}

// checkRaw converts a human value to the raw domain and validates it against
// finite bounds. Out-of-range values error at schedule time rather than being
// silently clamped.
func (p *Param) checkRaw(v float64) (float64, error) {
	raw := p.toRaw(v)
	if (!math.IsInf(p.min, -1) && raw < p.min) || (!math.IsInf(p.max, 1) && raw > p.max) {
		return 0, fmt.Errorf("value %v outside [%v, %v]: %w", v, p.min, p.max, ErrRange)
	}
	return raw, nil
}

func (p *Param) clampRaw(v float64) float64 {
	if v < p.min {
		return p.min
	}
	if v > p.max {
		return p.max
	}
	return v
}
