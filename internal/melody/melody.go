// Package melody compiles declarative (pitch, length) lists into timed
// notes for a fixed tempo. Melodies are built once at startup and shared
// read-only by every program.
package melody

import (
	"fmt"
	"time"

	"github.com/sweeney/shotbox/internal/hardware"
)

// DefaultTempo is the tempo of every built-in melody, in beats per minute.
const DefaultTempo = 200

// GapFactor is the silence after every note, in beats.
const GapFactor = 0.25

// Length is a note length in beats (quarter notes).
type Length float64

const (
	Whole     Length = 4
	Half      Length = 2
	Quarter   Length = 1
	Eighth    Length = 0.5
	Sixteenth Length = 0.25
)

// Pitches used by the built-in melodies.
const (
	C4  hardware.Frequency = 261.63
	D4  hardware.Frequency = 293.66
	Eb4 hardware.Frequency = 311.13
	E4  hardware.Frequency = 329.63
	F4  hardware.Frequency = 349.23
	G4  hardware.Frequency = 392.00
	A4  hardware.Frequency = 440.00
	B4  hardware.Frequency = 493.88
	C5  hardware.Frequency = 523.25
	D5  hardware.Frequency = 587.33
	E5  hardware.Frequency = 659.25
	F5  hardware.Frequency = 698.46
	G5  hardware.Frequency = 783.99
)

// Rest is a step that keeps the speaker silent.
const Rest = hardware.Silence

// Step is one declarative entry of a melody.
type Step struct {
	Freq   hardware.Frequency
	Length Length
}

// Note is a compiled step: the tone sounds for Sound, then the speaker is
// silent for Gap.
type Note struct {
	Freq  hardware.Frequency
	Sound time.Duration
	Gap   time.Duration
}

// Total returns the time from the start of n to the start of the next note.
func (n Note) Total() time.Duration {
	return n.Sound + n.Gap
}

// Melody is an immutable sequence of notes.
type Melody []Note

// Duration returns the sum of every note's Total.
func (m Melody) Duration() time.Duration {
	var d time.Duration
	for _, n := range m {
		d += n.Total()
	}
	return d
}

// Prefix returns the first n notes of m, or all of m if it is shorter.
func (m Melody) Prefix(n int) Melody {
	if n < 0 {
		n = 0
	}
	return m[:min(n, len(m))]
}

// Compile resolves steps to whole milliseconds at tempo bpm. It panics if
// bpm is not positive.
func Compile(steps []Step, bpm float64) Melody {
	if bpm <= 0 {
		panic(fmt.Sprintf("melody: invalid tempo %v", bpm))
	}
	gap := beats(GapFactor, bpm)
	m := make(Melody, len(steps))
	for i, s := range steps {
		m[i] = Note{
			Freq:  s.Freq,
			Sound: beats(float64(s.Length), bpm),
			Gap:   gap,
		}
	}
	return m
}

// beats converts a number of beats at bpm to whole milliseconds,
// truncating any fraction.
func beats(n, bpm float64) time.Duration {
	ms := n * 60000 / bpm
	return time.Duration(int64(ms)) * time.Millisecond
}

// steps builds a step list from alternating pitch and length arguments.
func steps(pairs ...any) []Step {
	if len(pairs)%2 != 0 {
		panic("melody: odd number of step arguments")
	}
	out := make([]Step, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, Step{
			Freq:   pairs[i].(hardware.Frequency),
			Length: pairs[i+1].(Length),
		})
	}
	return out
}
