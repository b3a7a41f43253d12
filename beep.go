package creacode

import "github.com/gopxl/beep"

// Streamer adapts a SampleSource to gopxl/beep's Streamer interface, so
// automation-driven sources can feed beep pipelines (speaker, mixers, effect
// stages) instead of the built-in backend.
type Streamer struct {
	source SampleSource
	buf    []float32
}

var _ beep.Streamer = (*Streamer)(nil)

func NewStreamer(source SampleSource) *Streamer {
	return &Streamer{source: source}
}

func (s *Streamer) Stream(samples [][2]float64) (int, bool) {
	if len(samples) == 0 {
		return 0, true
	}
	if fs, ok := s.source.(FinishingSource); ok && fs.Finished() {
		return 0, false
	}
	need := len(samples) * 2
	if cap(s.buf) < need {
		s.buf = make([]float32, need)
	}
	s.buf = s.buf[:need]
	s.source.Process(s.buf)
	for i := range samples {
		samples[i][0] = float64(s.buf[i*2])
		samples[i][1] = float64(s.buf[i*2+1])
	}
	return len(samples), true
}

func (s *Streamer) Err() error { return nil }
