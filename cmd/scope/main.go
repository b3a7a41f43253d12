package main

import (
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	creacode "github.com/mikpatings/creacode-boys"
	"github.com/mikpatings/creacode-boys/internal/units"
)

const (
	windowW    = 900
	windowH    = 520
	sampleRate = 48000
	viewAhead  = 4.0 // seconds of schedule drawn ahead of the playhead
)

var (
	bgColor   = color.RGBA{14, 16, 22, 255}
	gridColor = color.RGBA{40, 44, 58, 255}
	freqColor = color.RGBA{80, 200, 255, 220}
	gainColor = color.RGBA{255, 180, 80, 220}
	headColor = color.RGBA{220, 60, 60, 255}
)

// toneSource is a sine oscillator whose frequency and gain are automated
// parameters. The oscillator itself is demo glue; the automation engine only
// supplies the per-frame values.
type toneSource struct {
	clock *creacode.SampleClock
	freq  *creacode.Param
	gain  *creacode.Param
	phase float64
	fbuf  []float64
	gbuf  []float64
}

func (s *toneSource) Process(dst []float32) {
	frames := len(dst) / 2
	if frames == 0 {
		return
	}
	if cap(s.fbuf) < frames {
		s.fbuf = make([]float64, frames)
		s.gbuf = make([]float64, frames)
	}
	fv := s.fbuf[:frames]
	gv := s.gbuf[:frames]
	start := s.clock.Now()
	dt := 1.0 / s.clock.SampleRate()
	s.freq.RawValues(fv, start, dt)
	s.gain.RawValues(gv, start, dt)
	for i := 0; i < frames; i++ {
		s.phase += fv[i] * dt
		if s.phase >= 1 {
			s.phase -= 1
		}
		v := float32(math.Sin(2*math.Pi*s.phase) * gv[i])
		dst[i*2] = v
		dst[i*2+1] = v
	}
	s.clock.Advance(frames)
}

type game struct {
	source *toneSource
	player *creacode.Player
	freq   *creacode.Param
	gain   *creacode.Param
}

func newGame() (*game, error) {
	clock := creacode.NewSampleClock(sampleRate)
	freq := creacode.NewParam(
		creacode.WithUnits(units.Frequency),
		creacode.WithValue(220),
		creacode.WithClock(clock),
	)
	gain := creacode.NewParam(
		creacode.WithUnits(units.NormalRange),
		creacode.WithValue(0),
		creacode.WithClock(clock),
	)
	src := &toneSource{clock: clock, freq: freq, gain: gain}
	pl, err := creacode.NewPlayer(sampleRate, src, creacode.WithVolume(0.6))
	if err != nil {
		return nil, err
	}
	g := &game{source: src, player: pl, freq: freq, gain: gain}
	g.trigger()
	pl.Play()
	return g, nil
}

// trigger schedules a pluck: the gain snaps up and decays away while the
// frequency sweeps up an octave and glides back down.
func (g *game) trigger() {
	now := g.source.clock.Now()
	if err := g.gain.CancelScheduledValues(now); err != nil {
		log.Print(err)
	}
	if err := g.gain.SetValueAtTime(0.9, now); err != nil {
		log.Print(err)
	}
	if err := g.gain.SetTargetAtTime(0, now+0.05, 0.4); err != nil {
		log.Print(err)
	}

	if err := g.freq.CancelScheduledValues(now); err != nil {
		log.Print(err)
	}
	if err := g.freq.SetValueAtTime(220, now); err != nil {
		log.Print(err)
	}
	if err := g.freq.ExponentialRampToValueAtTime(440, now+0.8); err != nil {
		log.Print(err)
	}
	if err := g.freq.ExponentialRampToValueAtTime(220, now+2.0); err != nil {
		log.Print(err)
	}
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.trigger()
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	half := h / 2

	ebitenutil.DrawRect(screen, 0, float64(half), float64(w), 1, gridColor)

	now := g.source.clock.Now()
	g.drawCurve(screen, g.freq, now, 0, half, 100, 500, freqColor)
	g.drawCurve(screen, g.gain, now, half+1, h-half-1, 0, 1, gainColor)

	// Playhead at the left quarter of the view.
	headX := float64(w) / 4
	ebitenutil.DrawRect(screen, headX, 0, 1, float64(h), headColor)

	msg := fmt.Sprintf("t=%6.2fs  freq=%6.1f Hz  gain=%.3f  [space/click: trigger]",
		now, g.freq.GetValueAtTime(now), g.gain.GetValueAtTime(now))
	ebitenutil.DebugPrintAt(screen, msg, 8, 8)
}

// drawCurve plots the evaluated automation values over a window around now:
// a quarter of the window behind the playhead, the rest ahead of it.
func (g *game) drawCurve(screen *ebiten.Image, p *creacode.Param, now float64, top, height int, lo, hi float64, col color.Color) {
	w := screen.Bounds().Dx()
	t0 := now - viewAhead/4
	prevY := 0.0
	for px := 0; px < w; px++ {
		t := t0 + viewAhead*float64(px)/float64(w)
		v := p.GetValueAtTime(math.Max(t, 0))
		frac := (v - lo) / (hi - lo)
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		y := float64(top) + (1-frac)*float64(height-2) + 1
		if px > 0 {
			ebitenutil.DrawLine(screen, float64(px-1), prevY, float64(px), y, col)
		}
		prevY = y
	}
}

func (g *game) Layout(outsideW, outsideH int) (int, int) {
	return windowW, windowH
}

func main() {
	g, err := newGame()
	if err != nil {
		log.Fatal(err)
	}
	ebiten.SetWindowSize(windowW, windowH)
	ebiten.SetWindowTitle("signal scope")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
