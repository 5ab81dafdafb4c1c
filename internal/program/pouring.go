package program

import (
	"github.com/sweeney/shotbox/internal/hardware"
	"github.com/sweeney/shotbox/internal/input"
	"github.com/sweeney/shotbox/internal/machine"
	"github.com/sweeney/shotbox/internal/melody"
)

// continuousTone is played for as long as the pump runs.
const continuousTone hardware.Frequency = 400

// SimplePouring pours n shots when digit n is pressed.
type SimplePouring struct{}

func (SimplePouring) Update(m *machine.Machine, in input.State) {
	for s := range in.IterJustPressed() {
		if n, ok := s.Num(); ok {
			m.PlayMelody(melody.Scale.Prefix(n))
			m.Pour(n)
			m.RaiseBarrier()
			return
		}
	}
}

func (SimplePouring) CleanupBeforeSwitch(*machine.Machine) {}

// ContinuousPouring runs the pump and a tone while any switch is held.
type ContinuousPouring struct{}

func (ContinuousPouring) Update(m *machine.Machine, in input.State) {
	if in.AnythingPressed() {
		m.SetRelay(true)
		m.SetSpeaker(continuousTone)
		return
	}
	m.SetRelay(false)
	m.SetSpeaker(hardware.Silence)
}

func (ContinuousPouring) CleanupBeforeSwitch(m *machine.Machine) {
	m.SetRelay(false)
	m.SetSpeaker(hardware.Silence)
}
