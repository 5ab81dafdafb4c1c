package machine

import (
	"fmt"
	"time"

	"github.com/sweeney/shotbox/internal/hardware"
)

// Command is a hardware directive held in the queue until it is due.
// The set of commands is closed: RelayCommand, SpeakerCommand and
// LEDRampCommand.
type Command interface {
	fmt.Stringer
	dispatch(m *Machine, hw hardware.Interface) error
}

// RelayCommand switches the pump relay.
type RelayCommand struct {
	On bool
}

func (c RelayCommand) String() string {
	if c.On {
		return "relay on"
	}
	return "relay off"
}

func (c RelayCommand) dispatch(m *Machine, hw hardware.Interface) error {
	m.relay = c.On
	return hw.SetRelay(c.On)
}

// SpeakerCommand plays a square wave at Freq, or silences the speaker.
type SpeakerCommand struct {
	Freq hardware.Frequency
}

func (c SpeakerCommand) String() string {
	return "speaker " + c.Freq.String()
}

func (c SpeakerCommand) dispatch(m *Machine, hw hardware.Interface) error {
	m.speaker = c.Freq
	return hw.SetSpeaker(c.Freq)
}

// LEDRampCommand starts a brightness ramp on a lamp when it is dispatched,
// anchored at the dispatch time.
type LEDRampCommand struct {
	Lamp     hardware.Lamp
	From, To float64
	Duration time.Duration
}

func (c LEDRampCommand) String() string {
	return fmt.Sprintf("%s lamp %.2f->%.2f over %v", c.Lamp, c.From, c.To, c.Duration)
}

func (c LEDRampCommand) dispatch(m *Machine, _ hardware.Interface) error {
	m.StartRamp(c.Lamp, c.From, c.To, c.Duration)
	return nil
}
