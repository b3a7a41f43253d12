package curve

import (
	"math"

	"github.com/mikpatings/creacode-boys/internal/timeline"
)

// Linear interpolates between (t0,v0) and (t1,v1). Query times outside the
// interval clamp to the nearer endpoint.
func Linear(t0, v0, t1, v1, t float64) float64 {
	if t1 <= t0 {
		return v1
	}
	if t <= t0 {
		return v0
	}
	if t >= t1 {
		return v1
	}
	return v0 + (v1-v0)*(t-t0)/(t1-t0)
}

// Exponential interpolates v(t) = v0 * (v1/v0)^((t-t0)/(t1-t0)). The curve is
// undefined when either endpoint is zero or the endpoints differ in sign; in
// that case it falls back to Linear. The fallback is policy, not an error.
func Exponential(t0, v0, t1, v1, t float64) float64 {
	if v0 == 0 || v1 == 0 || (v0 < 0) != (v1 < 0) {
		return Linear(t0, v0, t1, v1, t)
	}
	if t1 <= t0 {
		return v1
	}
	if t <= t0 {
		return v0
	}
	if t >= t1 {
		return v1
	}
	return v0 * math.Pow(v1/v0, (t-t0)/(t1-t0))
}

// Target computes the open-ended exponential approach
// v(t) = target + (v0-target) * e^(-(t-t0)/tau).
func Target(t0, v0, target, tau, t float64) float64 {
	if t <= t0 {
		return v0
	}
	return target + (v0-target)*math.Exp(-(t-t0)/tau)
}

// Sample reads a value curve at time t. Positions between curve points are
// linearly interpolated; the result is scaled by scaling. Before the start the
// first point holds, at or past t0+duration the last point holds.
func Sample(values []float64, t0, duration, scaling, t float64) float64 {
	if len(values) == 0 {
		return 0
	}
	if len(values) == 1 || t <= t0 {
		return values[0] * scaling
	}
	if t >= t0+duration {
		return values[len(values)-1] * scaling
	}
	pos := (t - t0) / duration * float64(len(values)-1)
	i := int(pos)
	if i >= len(values)-1 {
		return values[len(values)-1] * scaling
	}
	frac := pos - float64(i)
	return (values[i] + (values[i+1]-values[i])*frac) * scaling
}

// Value evaluates the timeline at the query time. It is a pure function of
// the stored events, the parameter's initial value and the query time, which
// keeps offline rendering reproducible.
func Value(tl *timeline.Timeline, initial, at float64) float64 {
	before, ok := tl.Before(at)
	if !ok {
		return initial
	}
	if after, ok := tl.After(at); ok {
		// A value curve still in progress keeps sampling; the ramp only takes
		// over once the curve has run out (see anchor).
		inCurve := before.Kind == timeline.KindCurve && at < before.Time+before.Duration
		switch {
		case inCurve:
		case after.Kind == timeline.KindLinearRamp:
			t0, v0 := anchor(tl, before, initial)
			return Linear(t0, v0, after.Time, after.Value, at)
		case after.Kind == timeline.KindExponentialRamp:
			t0, v0 := anchor(tl, before, initial)
			return Exponential(t0, v0, after.Time, after.Value, at)
		}
	}
	return eventValue(tl, before, initial, at)
}

// eventValue is the value the given event contributes at time t assuming no
// later event intervenes: the set or ramp-end value for point events, the
// sampled (then held) curve for curve events, and the running exponential
// approach for open-ended targets.
func eventValue(tl *timeline.Timeline, ev timeline.Event, initial, t float64) float64 {
	switch ev.Kind {
	case timeline.KindCurve:
		return Sample(ev.Curve, ev.Time, ev.Duration, ev.Scaling, t)
	case timeline.KindSetTarget:
		start := initial
		if prev, ok := tl.Previous(ev.Time); ok {
			start = eventValue(tl, prev, initial, ev.Time)
		}
		return Target(ev.Time, start, ev.Value, ev.TimeConstant, t)
	default:
		return ev.Value
	}
}

// anchor is the point a ramp interpolates from: the preceding event's time
// and settled value. A curve event anchors at its end rather than its start,
// so a ramp scheduled after a value curve departs from the curve's last point.
func anchor(tl *timeline.Timeline, before timeline.Event, initial float64) (float64, float64) {
	t0 := before.Time
	if before.Kind == timeline.KindCurve {
		t0 = before.Time + before.Duration
	}
	return t0, eventValue(tl, before, initial, t0)
}
