// Package lfo provides a deterministic low-frequency oscillator used to
// superimpose periodic modulation on scheduled parameter values.
package lfo

import "math"

// Waveform selects the oscillation shape.
type Waveform int

const (
	Sine Waveform = iota
	Triangle
	Saw
	Square
)

func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Triangle:
		return "triangle"
	case Saw:
		return "saw"
	case Square:
		return "square"
	}
	return "unknown"
}

// LFO is a stateless low-frequency oscillator. Its output is a pure function
// of time, so evaluating the same instant twice yields the same value and
// offline renders match real-time playback exactly.
type LFO struct {
	Rate  float64  // oscillation rate in Hz
	Shape Waveform // waveform shape
	Phase float64  // initial phase offset in cycles, [0, 1)
}

// ValueAt returns the oscillator output at time t, in [-1, 1].
// A zero rate yields a constant derived from the initial phase.
func (l LFO) ValueAt(t float64) float64 {
	phase := l.Rate*t + l.Phase
	phase -= math.Floor(phase)

	switch l.Shape {
	case Triangle:
		if phase < 0.5 {
			return 4*phase - 1
		}
		return 3 - 4*phase
	case Saw:
		return 1 - 2*phase
	case Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}
