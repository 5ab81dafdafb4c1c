package hardware

import (
	"time"

	"github.com/sweeney/shotbox/internal/input"
)

// OutputKind names the output an Event was written to.
type OutputKind string

const (
	OutputRelay   OutputKind = "relay"
	OutputSpeaker OutputKind = "speaker"
)

// Event is one recorded relay or speaker write.
type Event struct {
	At      time.Duration
	Kind    OutputKind
	Relay   bool
	Speaker Frequency
}

// Fake is a test double with a scripted clock and switch levels.
// Relay and speaker writes are appended to Events; lamp writes only update
// Brightness since they happen every tick.
type Fake struct {
	// Now is returned by Elapsed.
	Now time.Duration

	// Levels are the switch levels returned by ReadSwitch.
	Levels input.Snapshot

	// ReadError, if set, is returned by every ReadSwitch call.
	ReadError error

	Events     []Event
	Relay      bool
	Speaker    Frequency
	Brightness [NumLamps]float64
	LampWrites int
}

// NewFake creates a Fake at time zero with every switch released.
func NewFake() *Fake {
	return &Fake{}
}

// Press holds the given switches until Release is called.
func (f *Fake) Press(switches ...input.Switch) {
	for _, s := range switches {
		f.Levels[s] = input.Pressed
	}
}

// Release lets go of the given switches, or of all of them if none are given.
func (f *Fake) Release(switches ...input.Switch) {
	if len(switches) == 0 {
		f.Levels = input.Snapshot{}
		return
	}
	for _, s := range switches {
		f.Levels[s] = input.Released
	}
}

// Advance moves the clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.Now += d
}

// ReadSwitch returns the scripted level of s.
func (f *Fake) ReadSwitch(s input.Switch) (input.Level, error) {
	if f.ReadError != nil {
		return input.Released, f.ReadError
	}
	return f.Levels[s], nil
}

// SetLEDBrightness records the brightness of l.
func (f *Fake) SetLEDBrightness(l Lamp, brightness float64) error {
	f.Brightness[l] = brightness
	f.LampWrites++
	return nil
}

// SetRelay records a relay write.
func (f *Fake) SetRelay(on bool) error {
	f.Relay = on
	f.Events = append(f.Events, Event{At: f.Now, Kind: OutputRelay, Relay: on})
	return nil
}

// SetSpeaker records a speaker write.
func (f *Fake) SetSpeaker(freq Frequency) error {
	f.Speaker = freq
	f.Events = append(f.Events, Event{At: f.Now, Kind: OutputSpeaker, Speaker: freq})
	return nil
}

// Elapsed returns Now.
func (f *Fake) Elapsed() time.Duration {
	return f.Now
}

// EventsOf returns the recorded events of one kind, in order.
func (f *Fake) EventsOf(kind OutputKind) []Event {
	var out []Event
	for _, e := range f.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// ClearEvents forgets recorded events but keeps output state.
func (f *Fake) ClearEvents() {
	f.Events = nil
}
