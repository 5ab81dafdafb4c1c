//go:build linux

package hardware

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocdev"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/sweeney/shotbox/internal/input"
)

// lampPWMFrequency is high enough that the lamps do not visibly flicker.
const lampPWMFrequency = physic.KiloHertz

// GPIO drives the real machine. Switches (active low, pulled up) and the
// relay use the GPIO character device; speaker and lamps use periph PWM.
type GPIO struct {
	chip     *gpiocdev.Chip
	switches [input.NumSwitches]*gpiocdev.Line
	relay    *gpiocdev.Line

	speaker gpio.PinIO
	lamps   [NumLamps]gpio.PinIO
	duty    [NumLamps]gpio.Duty

	start time.Time
}

// NewGPIO claims every line and pin in p.
func NewGPIO(p Pins) (*GPIO, error) {
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid pins")
	}

	chip, err := gpiocdev.NewChip(p.Chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	g := &GPIO{chip: chip, start: time.Now()}

	for _, s := range input.All() {
		line, err := chip.RequestLine(p.SwitchLine(s), gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.AsActiveLow)
		if err != nil {
			g.Close()
			return nil, fmt.Errorf("request switch %s line %d: %w", s, p.SwitchLine(s), err)
		}
		g.switches[s] = line
	}

	relay, err := chip.RequestLine(p.Relay, gpiocdev.AsOutput(0))
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("request relay line %d: %w", p.Relay, err)
	}
	g.relay = relay

	if _, err := host.Init(); err != nil {
		g.Close()
		return nil, errors.Wrap(err, "init periph host")
	}
	if g.speaker = gpioreg.ByName(p.Speaker); g.speaker == nil {
		g.Close()
		return nil, fmt.Errorf("unknown speaker pin %q", p.Speaker)
	}
	for _, l := range Lamps() {
		if g.lamps[l] = gpioreg.ByName(p.Lamps[l]); g.lamps[l] == nil {
			g.Close()
			return nil, fmt.Errorf("unknown %s lamp pin %q", l, p.Lamps[l])
		}
	}
	return g, nil
}

// ReadSwitch returns the logical level of s. The lines are active low, so a
// value of 1 means the switch is closed.
func (g *GPIO) ReadSwitch(s input.Switch) (input.Level, error) {
	v, err := g.switches[s].Value()
	if err != nil {
		return input.Released, fmt.Errorf("read switch %s: %w", s, err)
	}
	if v == 1 {
		return input.Pressed, nil
	}
	return input.Released, nil
}

// SetLEDBrightness sets the lamp duty from a perceived brightness.
// Unchanged duties are not rewritten.
func (g *GPIO) SetLEDBrightness(l Lamp, brightness float64) error {
	duty := gpio.Duty(PerceivedToDuty(brightness) * float64(gpio.DutyMax))
	if duty == g.duty[l] {
		return nil
	}
	g.duty[l] = duty
	if duty == 0 {
		return errors.Wrapf(g.lamps[l].Out(gpio.Low), "switch off %s lamp", l)
	}
	return errors.Wrapf(g.lamps[l].PWM(duty, lampPWMFrequency), "set %s lamp duty", l)
}

// SetRelay drives the relay line.
func (g *GPIO) SetRelay(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := g.relay.SetValue(v); err != nil {
		return fmt.Errorf("set relay: %w", err)
	}
	return nil
}

// SetSpeaker plays a 50% duty square wave at f, or drives the pin low.
func (g *GPIO) SetSpeaker(f Frequency) error {
	if f.IsSilence() {
		return errors.Wrap(g.speaker.Out(gpio.Low), "silence speaker")
	}
	freq := physic.Frequency(float64(f) * float64(physic.Hertz))
	return errors.Wrapf(g.speaker.PWM(gpio.DutyHalf, freq), "play %s", f)
}

// Elapsed returns the time since NewGPIO.
func (g *GPIO) Elapsed() time.Duration {
	return time.Since(g.start)
}

// Close turns every output off and releases all lines and pins. Switch
// lines are left as pulled-down inputs, matching the Pi boot defaults.
func (g *GPIO) Close() error {
	var errs []error

	if g.relay != nil {
		if err := g.relay.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("switch off relay: %w", err))
		}
		if err := g.relay.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure relay: %w", err))
		}
		if err := g.relay.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close relay: %w", err))
		}
	}
	for s, line := range g.switches {
		if line == nil {
			continue
		}
		if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure switch %s: %w", input.Switch(s), err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close switch %s: %w", input.Switch(s), err))
		}
	}
	if g.speaker != nil {
		if err := g.speaker.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("halt speaker: %w", err))
		}
	}
	for l, pin := range g.lamps {
		if pin == nil {
			continue
		}
		if err := pin.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("halt %s lamp: %w", Lamp(l), err))
		}
	}
	if g.chip != nil {
		if err := g.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
