package hardware

import (
	"io"

	"github.com/pkg/errors"
	"go.bug.st/serial"
)

// DefaultBaud is the baud rate of the serial button box.
const DefaultBaud = 9600

// OpenSerial opens a serial device that speaks the Line protocol, one
// switch name per line. The returned port feeds ReadLines; closing it
// unblocks a pending read.
func OpenSerial(device string, baud int) (io.ReadCloser, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, errors.Wrapf(err, "open serial port %s", device)
	}
	if err := port.SetReadTimeout(serial.NoTimeout); err != nil {
		port.Close()
		return nil, errors.Wrap(err, "reset read timeout")
	}
	return port, nil
}
