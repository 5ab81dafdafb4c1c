//go:build !linux

package hardware

import (
	"errors"
	"time"

	"github.com/sweeney/shotbox/internal/input"
)

var errUnsupported = errors.New("hardware: gpio not supported on this platform (requires Linux)")

// GPIO is not available on non-Linux platforms.
type GPIO struct{}

// NewGPIO returns an error on non-Linux platforms.
func NewGPIO(p Pins) (*GPIO, error) {
	return nil, errUnsupported
}

// ReadSwitch is not implemented on non-Linux platforms.
func (g *GPIO) ReadSwitch(s input.Switch) (input.Level, error) {
	return input.Released, errUnsupported
}

// SetLEDBrightness is not implemented on non-Linux platforms.
func (g *GPIO) SetLEDBrightness(l Lamp, brightness float64) error { return errUnsupported }

// SetRelay is not implemented on non-Linux platforms.
func (g *GPIO) SetRelay(on bool) error { return errUnsupported }

// SetSpeaker is not implemented on non-Linux platforms.
func (g *GPIO) SetSpeaker(f Frequency) error { return errUnsupported }

// Elapsed always returns zero on non-Linux platforms.
func (g *GPIO) Elapsed() time.Duration { return 0 }

// Close is a no-op on non-Linux platforms.
func (g *GPIO) Close() error { return nil }
