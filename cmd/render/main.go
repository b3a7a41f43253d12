package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	creacode "github.com/mikpatings/creacode-boys"
	"github.com/mikpatings/creacode-boys/internal/units"
)

func main() {
	var (
		sampleRate = flag.Int("sample-rate", 48000, "output sample rate")
		seconds    = flag.Float64("seconds", 2.0, "length of the rendered curve")
		outPath    = flag.String("out", "envelope.wav", "output WAV path")
		peak       = flag.Float64("peak", 1.0, "envelope peak value")
		attack     = flag.Float64("attack", 0.05, "linear attack time in seconds")
		release    = flag.Float64("release", 0.5, "release time constant in seconds")
		hold       = flag.Float64("hold", 0.25, "hold time at the peak before release")
	)
	flag.Parse()

	sig := creacode.NewSignal(creacode.WithUnits(units.NormalRange), creacode.WithValue(0))
	if err := scheduleEnvelope(sig, *peak, *attack, *hold, *release); err != nil {
		log.Fatal(err)
	}

	samples := creacode.RenderSignal(sig, *sampleRate, *seconds)
	wav := creacode.EncodeWAVFloat32LE(samples, *sampleRate, 2)
	if err := os.WriteFile(*outPath, wav, 0o644); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %s (%d frames, peak at t=%.3fs)\n", *outPath, len(samples)/2, *attack)
}

// scheduleEnvelope builds an attack/hold/release gain envelope: a linear ramp
// to the peak, a hold, then an exponential approach back to zero.
func scheduleEnvelope(sig *creacode.Signal, peak, attack, hold, release float64) error {
	if err := sig.SetValueAtTime(0, 0); err != nil {
		return err
	}
	if err := sig.LinearRampToValueAtTime(peak, attack); err != nil {
		return err
	}
	return sig.SetTargetAtTime(0, attack+hold, release)
}
