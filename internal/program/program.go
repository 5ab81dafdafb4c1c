// Package program holds the machine's interchangeable behaviours and the
// dispatcher that switches between them.
package program

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/sweeney/shotbox/internal/hardware"
	"github.com/sweeney/shotbox/internal/machine"
	"github.com/sweeney/shotbox/internal/melody"
)

// Idle lamp animation used while waiting for the players.
const (
	pulseTransition = 400 * time.Millisecond
	pulseOn         = 100 * time.Millisecond
)

// Phased is implemented by programs with an inspectable game phase.
type Phased interface {
	Phase() string
}

type entry struct {
	name  string
	cue   melody.Melody
	build func(m *machine.Machine, logger zerolog.Logger) machine.Program
}

// catalog maps selection-mode digits to programs.
var catalog = map[int]entry{
	1: {"continuous-pouring", melody.Beethoven5, func(*machine.Machine, zerolog.Logger) machine.Program {
		return ContinuousPouring{}
	}},
	2: {"simple-pouring", melody.Beethoven9, func(*machine.Machine, zerolog.Logger) machine.Program {
		return SimplePouring{}
	}},
	3: {"russian-roulette", melody.Twinkle, func(m *machine.Machine, l zerolog.Logger) machine.Program {
		return NewRussianRoulette(m, l)
	}},
	4: {"reaction-tester", melody.Fanfare, func(m *machine.Machine, l zerolog.Logger) machine.Program {
		return NewReactionTester(m, l)
	}},
	5: {"configuration", melody.ConfirmSelection, func(_ *machine.Machine, l zerolog.Logger) machine.Program {
		return NewConfigurationProgram(l)
	}},
}

// pulseLamps flashes both lamps once.
func pulseLamps(m *machine.Machine) {
	for _, l := range hardware.Lamps() {
		m.FlashLED(l, pulseTransition, pulseOn)
	}
}
