// Package hardware is the boundary between the control loop and the
// physical machine: twelve switches, two PWM lamps, a speaker and the pump
// relay. The GPIO implementation drives a Linux board; Fake records every
// output for tests; Line maps text lines to switch presses on a host.
package hardware

import (
	"fmt"
	"math"
	"time"

	"github.com/sweeney/shotbox/internal/input"
)

// Lamp identifies one of the two status lamps.
type Lamp uint8

const (
	LampLeft Lamp = iota
	LampRight
)

// NumLamps is the number of lamps.
const NumLamps = 2

// Lamps returns both lamps in order.
func Lamps() [NumLamps]Lamp {
	return [NumLamps]Lamp{LampLeft, LampRight}
}

func (l Lamp) String() string {
	switch l {
	case LampLeft:
		return "left"
	case LampRight:
		return "right"
	default:
		return fmt.Sprintf("lamp(%d)", uint8(l))
	}
}

// Frequency is a speaker tone in hertz. Silence turns the speaker off.
type Frequency float64

// Silence is the absence of a tone.
const Silence Frequency = 0

// IsSilence reports whether f produces no tone.
func (f Frequency) IsSilence() bool {
	return f <= 0
}

func (f Frequency) String() string {
	if f.IsSilence() {
		return "silence"
	}
	return fmt.Sprintf("%.2fHz", float64(f))
}

// MIDIKey returns the nearest MIDI note number (A4 = 69) for f, clamped to
// 0..127. Silence maps to 0.
func (f Frequency) MIDIKey() uint8 {
	if f.IsSilence() {
		return 0
	}
	key := math.Round(69 + 12*math.Log2(float64(f)/440))
	return uint8(math.Max(0, math.Min(127, key)))
}

// Interface is everything the control loop needs from the machine.
// None of the outputs feed back into scheduling decisions; errors are
// reported so the caller can log them.
type Interface interface {
	input.Sampler

	// SetLEDBrightness sets a lamp to a perceived brightness in [0, 1].
	SetLEDBrightness(l Lamp, brightness float64) error
	// SetRelay switches the pump relay.
	SetRelay(on bool) error
	// SetSpeaker plays a square wave at f, or silences the speaker.
	SetSpeaker(f Frequency) error
	// Elapsed returns the monotonic time since the hardware was started.
	Elapsed() time.Duration
}
