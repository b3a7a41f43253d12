package creacode

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func TestRenderParamIsDeterministic(t *testing.T) {
	schedule := func() *Param {
		p := NewParam()
		p.SetValueAtTime(0, 0)
		p.LinearRampToValueAtTime(1, 0.5)
		p.SetTargetAtTime(0, 0.5, 0.1)
		return p
	}
	a := RenderParam(schedule(), 8000, 1)
	b := RenderParam(schedule(), 8000, 1)
	if len(a) != 8000*2 {
		t.Fatalf("expected %d samples, got %d", 8000*2, len(a))
	}
	if !bytes.Equal(float32Bytes(a), float32Bytes(b)) {
		t.Fatal("two renders of the same schedule differ")
	}
}

func TestRenderFollowsSchedule(t *testing.T) {
	sig := NewSignal()
	sig.SetValueAtTime(0.25, 0)
	sig.SetValueAtTime(0.75, 0.5)

	samples := RenderSignal(sig, 1000, 1)
	// Frame 100 (t=0.1) carries the first value on both channels.
	if v := samples[100*2]; math.Abs(float64(v)-0.25) > 1e-6 {
		t.Errorf("t=0.1: got %f, want 0.25", v)
	}
	if l, r := samples[800*2], samples[800*2+1]; l != r || math.Abs(float64(l)-0.75) > 1e-6 {
		t.Errorf("t=0.8: got l=%f r=%f, want 0.75 on both", l, r)
	}
}

func TestEncodeWAVHeader(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1}
	wav := EncodeWAVFloat32LE(samples, 48000, 2)

	if len(wav) != 44+len(samples)*4 {
		t.Fatalf("unexpected size %d", len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Error("missing RIFF/WAVE markers")
	}
	if format := binary.LittleEndian.Uint16(wav[20:]); format != 3 {
		t.Errorf("format tag: got %d, want 3 (float)", format)
	}
	if rate := binary.LittleEndian.Uint32(wav[24:]); rate != 48000 {
		t.Errorf("sample rate: got %d", rate)
	}
	if bits := binary.LittleEndian.Uint16(wav[34:]); bits != 32 {
		t.Errorf("bits per sample: got %d", bits)
	}
	got := math.Float32frombits(binary.LittleEndian.Uint32(wav[44+4:]))
	if got != 0.5 {
		t.Errorf("first payload sample: got %f", got)
	}
}

func TestConstantSourceStopAt(t *testing.T) {
	p := NewParam(WithValue(1))
	src := NewConstantSource(1000, p)
	src.StopAt(0.5)

	buf := make([]float32, 1000*2)
	src.Process(buf)
	if v := buf[100*2]; v != 1 {
		t.Errorf("before stop: got %f, want 1", v)
	}
	if v := buf[700*2]; v != 0 {
		t.Errorf("after stop: got %f, want silence", v)
	}
	if !src.Finished() {
		t.Error("source should report finished past the stop time")
	}
}

func TestConstantSourceClockAdvances(t *testing.T) {
	p := NewParam(WithValue(1))
	src := NewConstantSource(1000, p)
	buf := make([]float32, 250*2)
	src.Process(buf)
	src.Process(buf)
	if got := src.Clock().Now(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("clock: got %f, want 0.5", got)
	}
}

func TestStreamerBridgesSampleSource(t *testing.T) {
	p := NewParam(WithValue(0.5))
	src := NewConstantSource(1000, p)
	st := NewStreamer(src)

	frames := make([][2]float64, 64)
	n, ok := st.Stream(frames)
	if n != 64 || !ok {
		t.Fatalf("stream: got n=%d ok=%v", n, ok)
	}
	if math.Abs(frames[10][0]-0.5) > 1e-6 || math.Abs(frames[10][1]-0.5) > 1e-6 {
		t.Errorf("got %v, want 0.5 on both channels", frames[10])
	}

	src.StopAt(0) // already passed
	if n, ok := st.Stream(frames); n != 0 || ok {
		t.Errorf("finished source should drain the streamer, got n=%d ok=%v", n, ok)
	}
}

func float32Bytes(samples []float32) []byte {
	out := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(s))
	}
	return out
}
