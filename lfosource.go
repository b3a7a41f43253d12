package creacode

import (
	"math"
	"sync"

	"github.com/mikpatings/creacode-boys/internal/lfo"
)

// LFOSource renders a parameter's automation curve with a low-frequency
// oscillation superimposed: each output frame carries the scheduled raw value
// plus depth times the oscillator output at that frame's time. The oscillator
// is evaluated as a pure function of the render position, so an offline render
// produces the same frames as live playback.
type LFOSource struct {
	param *Param
	clock *SampleClock

	mu      sync.Mutex
	osc     lfo.LFO
	depth   float64
	stopAt  float64
	scratch []float64
}

// NewLFOSource modulates param at the given sample rate, starting at t=0.
// The oscillator defaults to a 1 Hz sine with zero depth; configure it with
// SetOscillator and SetDepth.
func NewLFOSource(sampleRate int, param *Param) *LFOSource {
	return &LFOSource{
		param:  param,
		clock:  NewSampleClock(sampleRate),
		osc:    lfo.LFO{Rate: 1},
		stopAt: math.Inf(1),
	}
}

// Clock returns the source's render clock, for wiring into the parameter
// with WithClock.
func (s *LFOSource) Clock() *SampleClock {
	return s.clock
}

// SetOscillator replaces the modulation oscillator. Takes effect on the next
// processed buffer.
func (s *LFOSource) SetOscillator(osc lfo.LFO) {
	s.mu.Lock()
	s.osc = osc
	s.mu.Unlock()
}

// SetDepth sets the peak modulation amount added to the scheduled value.
// Zero depth passes the schedule through unmodified.
func (s *LFOSource) SetDepth(depth float64) {
	s.mu.Lock()
	s.depth = depth
	s.mu.Unlock()
}

// StopAt schedules the end of output, as on ConstantSource.
func (s *LFOSource) StopAt(t float64) {
	s.mu.Lock()
	s.stopAt = t
	s.mu.Unlock()
}

// Process fills dst with interleaved stereo frames.
func (s *LFOSource) Process(dst []float32) {
	frames := len(dst) / 2
	if frames == 0 {
		return
	}
	s.mu.Lock()
	osc := s.osc
	depth := s.depth
	stopAt := s.stopAt
	if cap(s.scratch) < frames {
		s.scratch = make([]float64, frames)
	}
	values := s.scratch[:frames]
	s.mu.Unlock()

	start := s.clock.Now()
	dt := 1.0 / s.clock.SampleRate()
	s.param.RawValues(values, start, dt)
	for i := 0; i < frames; i++ {
		t := start + float64(i)*dt
		v := float32(values[i] + depth*osc.ValueAt(t))
		if t >= stopAt {
			v = 0
		}
		dst[i*2] = v
		dst[i*2+1] = v
	}
	s.clock.Advance(frames)
}

// Finished reports whether the render position has passed the stop time.
func (s *LFOSource) Finished() bool {
	s.mu.Lock()
	stopAt := s.stopAt
	s.mu.Unlock()
	return s.clock.Now() >= stopAt
}
