// Package config loads the daemon configuration: which hardware driver to
// use, loop timing and pin wiring. Game settings are not stored here; they
// always start from their defaults.
package config

import (
	"encoding"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/sweeney/shotbox/internal/hardware"
)

// Drivers.
const (
	DriverGPIO = "gpio"
	DriverLine = "line"
)

// DefaultPath is where the daemon looks for its configuration file.
const DefaultPath = "/etc/shotbox.toml"

// Config is the daemon configuration.
type Config struct {
	// Driver selects the hardware: "gpio" for the real machine or "line"
	// for the text stand-in fed from stdin or a serial port.
	Driver string `toml:"driver"`
	// Tick is the control loop interval.
	Tick Duration `toml:"tick"`
	// Heartbeat is the status log interval. Zero disables it.
	Heartbeat Duration `toml:"heartbeat"`
	// Hold is how long a line keeps its switch pressed.
	Hold Duration `toml:"hold"`
	// Serial is the device the line driver reads from. Empty means stdin.
	Serial string `toml:"serial"`
	// Baud is the serial baud rate.
	Baud int `toml:"baud"`
	// Pins is the GPIO wiring.
	Pins hardware.Pins `toml:"pins"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Driver:    DriverGPIO,
		Tick:      Duration(time.Millisecond),
		Heartbeat: Duration(15 * time.Minute),
		Hold:      Duration(hardware.DefaultHold),
		Baud:      hardware.DefaultBaud,
		Pins:      hardware.DefaultPins(),
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverGPIO:
		if c.Serial != "" {
			return errors.New("serial is only used by the line driver")
		}
		if err := c.Pins.Validate(); err != nil {
			return errors.Wrap(err, "invalid pins")
		}
	case DriverLine:
		if c.Serial != "" && c.Baud <= 0 {
			return fmt.Errorf("invalid baud rate %d", c.Baud)
		}
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	if c.Tick <= 0 {
		return fmt.Errorf("tick must be positive, got %v", c.Tick)
	}
	if c.Heartbeat < 0 {
		return fmt.Errorf("heartbeat must not be negative, got %v", c.Heartbeat)
	}
	if c.Hold <= 0 {
		return fmt.Errorf("hold must be positive, got %v", c.Hold)
	}
	return nil
}

// Duration is a duration that can be parsed from TOML.
type Duration time.Duration

var (
	_ encoding.TextUnmarshaler = (*Duration)(nil)
	_ encoding.TextMarshaler   = (*Duration)(nil)
)

func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// Parse reads a configuration from r. Keys missing from r keep their
// default values.
func Parse(r io.Reader) (Config, error) {
	tree, err := toml.LoadReader(r)
	if err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}
	var file Config
	if err := tree.Unmarshal(&file); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}

	c := Default()
	fields := []struct {
		key  string
		copy func()
	}{
		{"driver", func() { c.Driver = file.Driver }},
		{"tick", func() { c.Tick = file.Tick }},
		{"heartbeat", func() { c.Heartbeat = file.Heartbeat }},
		{"hold", func() { c.Hold = file.Hold }},
		{"serial", func() { c.Serial = file.Serial }},
		{"baud", func() { c.Baud = file.Baud }},
		{"pins.chip", func() { c.Pins.Chip = file.Pins.Chip }},
		{"pins.numbers", func() { c.Pins.Numbers = file.Pins.Numbers }},
		{"pins.left", func() { c.Pins.Left = file.Pins.Left }},
		{"pins.right", func() { c.Pins.Right = file.Pins.Right }},
		{"pins.relay", func() { c.Pins.Relay = file.Pins.Relay }},
		{"pins.speaker", func() { c.Pins.Speaker = file.Pins.Speaker }},
		{"pins.lamps", func() { c.Pins.Lamps = file.Pins.Lamps }},
	}
	for _, f := range fields {
		if tree.Has(f.key) {
			f.copy()
		}
	}
	return c, nil
}

// Load reads the configuration file at path. A missing file yields the
// defaults.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, errors.Wrap(err, "open config")
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return Config{}, errors.Wrapf(err, "load %s", path)
	}
	return c, nil
}
