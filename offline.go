package creacode

import (
	"encoding/binary"
	"math"
)

// RenderParam renders seconds of a parameter's raw automation curve into an
// interleaved stereo float32 buffer. Rendering is deterministic: the same
// schedule always produces the same samples.
func RenderParam(p *Param, sampleRate int, seconds float64) []float32 {
	src := NewConstantSource(sampleRate, p)
	frames := int(float64(sampleRate) * seconds)
	out := make([]float32, frames*2)
	src.Process(out)
	return out
}

// RenderSignal renders seconds of a signal's raw automation curve.
func RenderSignal(sig *Signal, sampleRate int, seconds float64) []float32 {
	return RenderParam(sig.Param, sampleRate, seconds)
}

// EncodeWAVFloat32LE wraps interleaved float32 samples in a RIFF/WAVE header
// (format 3, 32-bit float, little endian).
func EncodeWAVFloat32LE(samples []float32, sampleRate int, channels int) []byte {
	dataSize := len(samples) * 4
	byteRate := sampleRate * channels * 4
	blockAlign := channels * 4
	chunkSize := 36 + dataSize
	out := make([]byte, 44+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(s))
	}
	return out
}
