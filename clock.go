package creacode

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Clock supplies the current time coordinate, in seconds, used to resolve
// "now"-relative scheduling. The engine never reads wall time on its own.
type Clock interface {
	Now() float64
}

// ManualClock is a Clock advanced explicitly by the caller. The zero value is
// a clock stopped at t=0, which suits offline scheduling and tests.
type ManualClock struct {
	mu sync.Mutex
	t  float64
}

func (c *ManualClock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Set moves the clock to the given absolute time.
func (c *ManualClock) Set(t float64) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

// Advance moves the clock forward by dt seconds.
func (c *ManualClock) Advance(dt float64) {
	c.mu.Lock()
	c.t += dt
	c.mu.Unlock()
}

// SampleClock counts rendered frames and reports time as frames/rate. The
// frame counter is atomic so Now may be read while the render path advances.
type SampleClock struct {
	frames atomic.Int64
	rate   float64
}

func NewSampleClock(sampleRate int) *SampleClock {
	return &SampleClock{rate: float64(sampleRate)}
}

func (c *SampleClock) Now() float64 {
	return float64(c.frames.Load()) / c.rate
}

// Advance moves the clock forward by n frames. Called from the render path.
func (c *SampleClock) Advance(n int) {
	c.frames.Add(int64(n))
}

// SampleRate returns the rate the clock counts frames at.
func (c *SampleClock) SampleRate() float64 {
	return c.rate
}

// ResolveTime resolves a time expression against a clock: "+1.5" means 1.5
// seconds from now, a bare number is an absolute time, and "now" is the
// clock's current time.
func ResolveTime(clock Clock, expr string) (float64, error) {
	s := strings.TrimSpace(expr)
	if s == "" || strings.EqualFold(s, "now") {
		return clock.Now(), nil
	}
	relative := strings.HasPrefix(s, "+")
	if relative {
		s = s[1:]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid time expression %q", expr)
	}
	if relative {
		return clock.Now() + v, nil
	}
	return v, nil
}
