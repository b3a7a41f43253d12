package creacode

import (
	"math"
	"sync"
)

// SampleSource produces interleaved stereo float32 frames. Implemented by
// ConstantSource and satisfied by anything the playback backend can drive.
type SampleSource interface {
	Process(dst []float32)
}

// FinishingSource is a SampleSource that can report the end of its output.
type FinishingSource interface {
	SampleSource
	Finished() bool
}

// ConstantSource renders a parameter's automation curve as a constant-valued
// stereo source: every output frame carries the raw evaluated value at that
// frame's time. It owns a SampleClock that advances as frames are produced,
// which makes it the natural now-source for the parameters it renders.
type ConstantSource struct {
	param *Param
	clock *SampleClock

	mu      sync.Mutex
	stopAt  float64
	scratch []float64
}

// NewConstantSource renders param at the given sample rate, starting at t=0.
func NewConstantSource(sampleRate int, param *Param) *ConstantSource {
	return &ConstantSource{
		param:  param,
		clock:  NewSampleClock(sampleRate),
		stopAt: math.Inf(1),
	}
}

// Clock returns the source's render clock. Wire it into the parameter with
// WithClock so "now"-relative scheduling tracks the render position.
func (c *ConstantSource) Clock() *SampleClock {
	return c.clock
}

// StopAt schedules the end of output: frames at or after t render as silence
// and Finished reports true once the render position passes t.
func (c *ConstantSource) StopAt(t float64) {
	c.mu.Lock()
	c.stopAt = t
	c.mu.Unlock()
}

// Process fills dst with interleaved stereo frames. Runs on the render
// thread; the parameter schedule is read through a snapshot, so scheduling
// calls on other goroutines never tear a buffer.
func (c *ConstantSource) Process(dst []float32) {
	frames := len(dst) / 2
	if frames == 0 {
		return
	}
	c.mu.Lock()
	stopAt := c.stopAt
	if cap(c.scratch) < frames {
		c.scratch = make([]float64, frames)
	}
	values := c.scratch[:frames]
	c.mu.Unlock()

	start := c.clock.Now()
	dt := 1.0 / c.clock.SampleRate()
	c.param.RawValues(values, start, dt)
	for i := 0; i < frames; i++ {
		v := float32(values[i])
		if start+float64(i)*dt >= stopAt {
			v = 0
		}
		dst[i*2] = v
		dst[i*2+1] = v
	}
	c.clock.Advance(frames)
}

// Finished reports whether the render position has passed the stop time.
func (c *ConstantSource) Finished() bool {
	c.mu.Lock()
	stopAt := c.stopAt
	c.mu.Unlock()
	return c.clock.Now() >= stopAt
}
