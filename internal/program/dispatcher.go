package program

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/sweeney/shotbox/internal/hardware"
	"github.com/sweeney/shotbox/internal/input"
	"github.com/sweeney/shotbox/internal/machine"
	"github.com/sweeney/shotbox/internal/melody"
)

const (
	selectFlashTransition = 250 * time.Millisecond
	selectFlashOn         = 250 * time.Millisecond
)

// Dispatcher runs one program at a time. Holding Left and Right together
// suspends it and enters selection mode, where a digit picks the next
// program.
type Dispatcher struct {
	logger    zerolog.Logger
	active    machine.Program
	name      string
	selecting bool
}

// NewDispatcher starts with SimplePouring active.
func NewDispatcher(logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		logger: logger,
		active: SimplePouring{},
		name:   catalog[2].name,
	}
}

// Active returns the name of the running program.
func (d *Dispatcher) Active() string {
	return d.name
}

// Selecting reports whether the dispatcher is waiting for a program digit.
func (d *Dispatcher) Selecting() bool {
	return d.selecting
}

// Phase returns the active program's phase, if it has one.
func (d *Dispatcher) Phase() string {
	if d.selecting {
		return "selecting"
	}
	if p, ok := d.active.(Phased); ok {
		return p.Phase()
	}
	return ""
}

func (d *Dispatcher) Update(m *machine.Machine, in input.State) {
	if d.selecting {
		d.selectProgram(m, in)
		return
	}

	if in.Pressed(input.Left) && in.Pressed(input.Right) {
		d.active.CleanupBeforeSwitch(m)
		for _, l := range hardware.Lamps() {
			m.FlashLED(l, selectFlashTransition, selectFlashOn)
		}
		m.PlayMelody(melody.ModeSwitch)
		d.selecting = true
		d.logger.Info().Str("from", d.name).Msg("program selection")
		return
	}

	d.active.Update(m, in)
}

func (d *Dispatcher) selectProgram(m *machine.Machine, in input.State) {
	if m.NoOngoingTransition() {
		pulseLamps(m)
	}

	for s := range in.IterJustPressed() {
		n, ok := s.Num()
		if !ok {
			continue
		}
		e, ok := catalog[n]
		if !ok {
			continue
		}
		d.active = e.build(m, d.logger.With().Str("program", e.name).Logger())
		d.name = e.name
		d.selecting = false
		m.PlayMelody(e.cue)
		m.RaiseBarrier()
		d.logger.Info().Str("program", e.name).Msg("program selected")
		return
	}
}

func (d *Dispatcher) CleanupBeforeSwitch(m *machine.Machine) {
	d.active.CleanupBeforeSwitch(m)
}
