package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/shotbox/internal/hardware"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if c.Driver != DriverGPIO {
		t.Errorf("Driver: got %q, want gpio", c.Driver)
	}
	if time.Duration(c.Tick) != time.Millisecond {
		t.Errorf("Tick: got %v", c.Tick)
	}
}

func TestParseOverridesOnlyGivenKeys(t *testing.T) {
	c, err := Parse(strings.NewReader(`
driver = "line"
tick = "5ms"
heartbeat = "0s"
serial = "/dev/ttyACM0"
baud = 115200

[pins]
relay = 12
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if c.Driver != DriverLine {
		t.Errorf("Driver: got %q", c.Driver)
	}
	if time.Duration(c.Tick) != 5*time.Millisecond {
		t.Errorf("Tick: got %v", c.Tick)
	}
	if c.Heartbeat != 0 {
		t.Errorf("Heartbeat: got %v, want disabled", c.Heartbeat)
	}
	if time.Duration(c.Hold) != hardware.DefaultHold {
		t.Errorf("Hold: got %v, want default", c.Hold)
	}
	if c.Serial != "/dev/ttyACM0" || c.Baud != 115200 {
		t.Errorf("serial: got %q @ %d", c.Serial, c.Baud)
	}
	if c.Pins.Relay != 12 {
		t.Errorf("Pins.Relay: got %d, want 12", c.Pins.Relay)
	}
	def := hardware.DefaultPins()
	if c.Pins.Chip != def.Chip || c.Pins.Left != def.Left || len(c.Pins.Numbers) != 10 {
		t.Errorf("unset pins should keep defaults: %+v", c.Pins)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParsePins(t *testing.T) {
	c, err := Parse(strings.NewReader(`
[pins]
chip = "gpiochip4"
numbers = [2, 3, 4, 5, 6, 7, 8, 9, 10, 11]
left = 14
right = 15
relay = 17
speaker = "GPIO12"
lamps = ["GPIO13", "GPIO19"]
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Pins.Chip != "gpiochip4" || c.Pins.Numbers[9] != 11 || c.Pins.Lamps[1] != "GPIO19" {
		t.Errorf("unexpected pins %+v", c.Pins)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"syntax", `driver = `},
		{"bad duration", `tick = "soon"`},
	}
	for _, tt := range tests {
		if _, err := Parse(strings.NewReader(tt.doc)); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Driver = "usb" }},
		{"zero tick", func(c *Config) { c.Tick = 0 }},
		{"negative heartbeat", func(c *Config) { c.Heartbeat = Duration(-time.Second) }},
		{"zero hold", func(c *Config) { c.Hold = 0 }},
		{"serial with gpio", func(c *Config) { c.Serial = "/dev/ttyUSB0" }},
		{"bad baud", func(c *Config) { c.Driver, c.Serial, c.Baud = DriverLine, "/dev/ttyUSB0", 0 }},
		{"bad pins", func(c *Config) { c.Pins.Relay = c.Pins.Left }},
	}
	for _, tt := range tests {
		c := Default()
		tt.modify(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}

	c := Default()
	c.Driver = DriverLine
	c.Pins = hardware.Pins{}
	if err := c.Validate(); err != nil {
		t.Errorf("line driver should not need pins: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	c, err := Load(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if c.Driver != DriverGPIO {
		t.Errorf("missing file should give defaults, got %+v", c)
	}

	path := filepath.Join(dir, "shotbox.toml")
	if err := os.WriteFile(path, []byte(`driver = "line"`), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err = Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Driver != DriverLine {
		t.Errorf("Driver: got %q", c.Driver)
	}

	if err := os.WriteFile(path, []byte(`driver = [`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), path) {
		t.Errorf("expected error naming the file, got %v", err)
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1m30s")); err != nil {
		t.Fatal(err)
	}
	if time.Duration(d) != 90*time.Second {
		t.Errorf("got %v", d)
	}
	text, _ := d.MarshalText()
	if string(text) != "1m30s" {
		t.Errorf("MarshalText: got %q", text)
	}
}
