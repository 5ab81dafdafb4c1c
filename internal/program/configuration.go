package program

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/sweeney/shotbox/internal/input"
	"github.com/sweeney/shotbox/internal/machine"
	"github.com/sweeney/shotbox/internal/melody"
)

// maxTyped stops the typed number from growing once it is certainly out of
// every variable's range.
const maxTyped = 1_000_000

// ConfigurationProgram edits the game configuration from the keypad. A
// digit picks the variable, further digits type its value, Right commits
// and Left cancels.
type ConfigurationProgram struct {
	logger   zerolog.Logger
	selected machine.Variable
	active   bool
	typed    int
}

// NewConfigurationProgram starts with no variable selected.
func NewConfigurationProgram(logger zerolog.Logger) *ConfigurationProgram {
	return &ConfigurationProgram{logger: logger}
}

func (c *ConfigurationProgram) Phase() string {
	if !c.active {
		return "select-variable"
	}
	return "edit " + c.selected.String()
}

// Typed returns the value typed so far.
func (c *ConfigurationProgram) Typed() int {
	return c.typed
}

func (c *ConfigurationProgram) Update(m *machine.Machine, in input.State) {
	if !c.active {
		c.selectVariable(m, in)
		return
	}

	for s := range in.IterJustPressed() {
		if d, ok := s.Num(); ok && c.typed < maxTyped {
			c.typed = c.typed*10 + d
		}
	}

	if in.JustPressed(input.Right) {
		err := m.Configure(c.selected, c.typed)
		if err == nil {
			m.PlayMelody(melody.ConfirmSelection)
			c.reset()
		} else {
			if !errors.Is(err, machine.ErrOutOfRange) {
				c.logger.Warn().Err(err).Msg("configure failed")
			} else {
				c.logger.Info().Err(err).Msg("value rejected")
			}
			m.PlayMelody(melody.Error)
			c.typed = 0
		}
		m.RaiseBarrier()
	}
	if in.JustPressed(input.Left) {
		c.reset()
	}
}

func (c *ConfigurationProgram) selectVariable(m *machine.Machine, in input.State) {
	d, ok := in.LowestPressedNumberKey()
	if !ok {
		return
	}
	v, ok := machine.VariableForDigit(d)
	if !ok {
		return
	}
	c.selected = v
	c.active = true
	c.typed = 0
	m.PlayMelody(melody.ConfirmSelection)
	m.RaiseBarrier()
	c.logger.Info().Stringer("variable", v).Int("current", m.Config().Value(v)).Msg("variable selected")
}

func (c *ConfigurationProgram) reset() {
	c.active = false
	c.selected = 0
	c.typed = 0
}

func (c *ConfigurationProgram) CleanupBeforeSwitch(*machine.Machine) {}
