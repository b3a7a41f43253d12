package creacode

import (
	"errors"
	"sync"

	intaudio "github.com/mikpatings/creacode-boys/internal/audio"
)

type PlayerOption func(*playerConfig)

type playerConfig struct {
	sampleTap func([]float32)
	volume    float64
}

func defaultPlayerConfig() playerConfig {
	return playerConfig{volume: 1}
}

// WithSampleTap installs a callback invoked with each rendered stereo buffer.
// The callback runs on the audio thread; keep work brief and non-blocking.
func WithSampleTap(tap func([]float32)) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.sampleTap = tap
	}
}

// WithVolume sets the initial output volume scalar, 0..1.
func WithVolume(volume float64) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.volume = volume
	}
}

// tapSource wraps a SampleSource to mirror each buffer into the tap callback
// while preserving finish signalling.
type tapSource struct {
	source SampleSource
	tap    func([]float32)
}

func (w *tapSource) Process(dst []float32) {
	w.source.Process(dst)
	if w.tap != nil {
		w.tap(dst)
	}
}

func (w *tapSource) Finished() bool {
	if fs, ok := w.source.(FinishingSource); ok {
		return fs.Finished()
	}
	return false
}

// Player plays a SampleSource through the output device. It is the audible
// end of the engine: typically the source is a ConstantSource, or a
// caller-built source whose parameters this engine automates.
type Player struct {
	mu         sync.Mutex
	sampleRate int
	audio      *intaudio.Player
	volume     float64
}

func NewPlayer(sampleRate int, source SampleSource, opts ...PlayerOption) (*Player, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	if source == nil {
		return nil, errors.New("source must not be nil")
	}
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	backend, err := intaudio.NewPlayer(sampleRate, &tapSource{source: source, tap: cfg.sampleTap})
	if err != nil {
		return nil, err
	}
	backend.SetVolume(clampVolume(cfg.volume))
	return &Player{
		sampleRate: sampleRate,
		audio:      backend,
		volume:     cfg.volume,
	}, nil
}

func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Play()
	}
}

func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio != nil {
		p.audio.Pause()
	}
}

func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.audio != nil && p.audio.IsPlaying()
}

func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.audio == nil {
		return nil
	}
	err := p.audio.Stop()
	p.audio = nil
	return err
}

// SetVolume sets the output volume scalar. 1.0 is default.
func (p *Player) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = volume
	if p.audio != nil {
		p.audio.SetVolume(clampVolume(volume))
	}
}

func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// PlaybackPosition returns the current output position of the audio driver in
// frames, i.e. what the listener actually hears right now. Returns 0 when not
// playing.
func (p *Player) PlaybackPosition() int64 {
	p.mu.Lock()
	a := p.audio
	p.mu.Unlock()
	if a == nil {
		return 0
	}
	return int64(a.Position().Seconds() * float64(p.sampleRate))
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
