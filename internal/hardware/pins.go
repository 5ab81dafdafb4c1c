package hardware

import (
	"fmt"

	"github.com/sweeney/shotbox/internal/input"
)

// Pins maps the machine onto a Raspberry Pi. Switch and relay lines are
// offsets on a GPIO character device; speaker and lamps are periph pin
// names since they need PWM.
type Pins struct {
	Chip    string   `toml:"chip"`
	Numbers []int    `toml:"numbers"`
	Left    int      `toml:"left"`
	Right   int      `toml:"right"`
	Relay   int      `toml:"relay"`
	Speaker string   `toml:"speaker"`
	Lamps   []string `toml:"lamps"`
}

// DefaultPins returns the wiring of the reference build (BCM numbering).
func DefaultPins() Pins {
	return Pins{
		Chip:    "gpiochip0",
		Numbers: []int{4, 5, 16, 17, 22, 23, 24, 25, 26, 27},
		Left:    20,
		Right:   21,
		Relay:   8,
		Speaker: "GPIO18",
		Lamps:   []string{"GPIO13", "GPIO6"},
	}
}

// SwitchLine returns the line offset wired to s.
func (p Pins) SwitchLine(s input.Switch) int {
	if n, ok := s.Num(); ok {
		return p.Numbers[n]
	}
	if s == input.Left {
		return p.Left
	}
	return p.Right
}

// Validate checks that no line offset is used twice and that every PWM pin
// is named.
func (p Pins) Validate() error {
	if p.Chip == "" {
		return fmt.Errorf("gpio chip not set")
	}
	if len(p.Numbers) != 10 {
		return fmt.Errorf("expected 10 number switch lines, got %d", len(p.Numbers))
	}
	if len(p.Lamps) != NumLamps {
		return fmt.Errorf("expected %d lamp pins, got %d", NumLamps, len(p.Lamps))
	}
	seen := map[int]string{}
	claim := func(line int, what string) error {
		if line < 0 {
			return fmt.Errorf("%s: negative line offset %d", what, line)
		}
		if other, ok := seen[line]; ok {
			return fmt.Errorf("line %d used by both %s and %s", line, other, what)
		}
		seen[line] = what
		return nil
	}
	for _, s := range input.All() {
		if err := claim(p.SwitchLine(s), "switch "+s.String()); err != nil {
			return err
		}
	}
	if err := claim(p.Relay, "relay"); err != nil {
		return err
	}
	if p.Speaker == "" {
		return fmt.Errorf("speaker pin not set")
	}
	for i, name := range p.Lamps {
		if name == "" {
			return fmt.Errorf("%s lamp pin not set", Lamp(i))
		}
		if name == p.Speaker {
			return fmt.Errorf("%s lamp shares pin %s with the speaker", Lamp(i), name)
		}
	}
	return nil
}
