package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit names the numeric domain a parameter stores and schedules in.
type Unit int

const (
	// Default is an unconstrained scalar; no conversion, no implicit range.
	Default Unit = iota
	// Gain is a linear amplitude factor.
	Gain
	// Decibels are converted to linear gain at the scheduling boundary and
	// stored as gain.
	Decibels
	// Frequency is in Hz; always non-negative.
	Frequency
	// BPM is beats per minute; always positive.
	BPM
	// NormalRange is a scalar constrained to [0, 1].
	NormalRange
	// AudioRange is a scalar constrained to [-1, 1].
	AudioRange
	// Positive is a non-negative scalar.
	Positive
	// Time is a duration in seconds; always non-negative.
	Time
)

func (u Unit) String() string {
	switch u {
	case Gain:
		return "gain"
	case Decibels:
		return "decibels"
	case Frequency:
		return "frequency"
	case BPM:
		return "bpm"
	case NormalRange:
		return "normalRange"
	case AudioRange:
		return "audioRange"
	case Positive:
		return "positive"
	case Time:
		return "time"
	default:
		return "default"
	}
}

// Range returns the default clamp bounds for a unit. Unbounded sides are
// reported as -Inf / +Inf.
func Range(u Unit) (min, max float64) {
	switch u {
	case NormalRange:
		return 0, 1
	case AudioRange:
		return -1, 1
	case Positive, Frequency, BPM, Time:
		return 0, math.Inf(1)
	default:
		return math.Inf(-1), math.Inf(1)
	}
}

// Convert maps a human-facing value into the raw automation domain.
// Only Decibels changes representation; every other unit is already raw.
func Convert(u Unit, value float64) float64 {
	if u == Decibels {
		return DbToGain(value)
	}
	return value
}

// Reverse maps a raw automation value back to the human-facing domain.
func Reverse(u Unit, value float64) float64 {
	if u == Decibels {
		return GainToDb(value)
	}
	return value
}

// Ramped reports whether values in this unit are naturally swept on an
// exponential curve (pitch- and tempo-like units) rather than a linear one.
func Ramped(u Unit) bool {
	return u == Frequency || u == BPM
}

// DbToGain converts decibels to a linear gain factor.
func DbToGain(db float64) float64 {
	return math.Pow(10, db/20)
}

// GainToDb converts a linear gain factor to decibels.
func GainToDb(gain float64) float64 {
	return 20 * math.Log10(gain)
}

// MidiToFrequency converts a MIDI note number to Hz with A4 = note 69 = 440 Hz.
func MidiToFrequency(note int) float64 {
	return 440 * math.Pow(2, float64(note-69)/12)
}

// FrequencyToMidi converts Hz to the nearest MIDI note number.
func FrequencyToMidi(freq float64) int {
	if freq <= 0 {
		return 0
	}
	return int(math.Round(69 + 12*math.Log2(freq/440)))
}

var noteOffsets = map[byte]int{'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11}

// NoteToFrequency parses a scientific pitch name ("A4", "c#3", "Bb2") into Hz.
func NoteToFrequency(name string) (float64, error) {
	s := strings.TrimSpace(strings.ToLower(name))
	if s == "" {
		return 0, fmt.Errorf("empty note name")
	}
	offset, ok := noteOffsets[s[0]]
	if !ok {
		return 0, fmt.Errorf("invalid note name %q", name)
	}
	rest := s[1:]
	for len(rest) > 0 && (rest[0] == '#' || rest[0] == '+' || rest[0] == 'b' || rest[0] == '-') {
		if rest[0] == '#' || rest[0] == '+' {
			offset++
		} else {
			offset--
		}
		rest = rest[1:]
	}
	octave := 4
	if rest != "" {
		o, err := strconv.Atoi(rest)
		if err != nil {
			return 0, fmt.Errorf("invalid octave in note %q", name)
		}
		octave = o
	}
	// C4 is MIDI note 60.
	return MidiToFrequency((octave+1)*12 + offset), nil
}
