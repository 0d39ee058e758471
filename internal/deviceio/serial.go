// Package deviceio opens the printer's serial sink, grounded on the
// teacher's SerialConnection wrapper around github.com/tarm/serial.
package deviceio

import (
	"io"

	"github.com/tarm/serial"

	"github.com/thereceipt/printcore/internal/errs"
)

// OpenSerial opens device at baud and returns it as an io.WriteCloser
// suitable for transport.New's sink parameter.
func OpenSerial(device string, baud int) (io.WriteCloser, error) {
	if baud == 0 {
		baud = 9600
	}
	port, err := serial.OpenPort(&serial.Config{Name: device, Baud: baud})
	if err != nil {
		return nil, errs.Wrap(errs.DeviceUnavailable, err, "opening serial port %s", device)
	}
	return port, nil
}
