package emg

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
)

// SerialSource reads ASCII decimal samples, one per line, from a serial
// port. Short reads are buffered until a full line arrives.
type SerialSource struct {
	port   serial.Port
	buffer strings.Builder
	read   []byte
}

// OpenSerialSource opens the sensor's serial port. The short read timeout
// keeps Poll non-blocking when the sensor is quiet.
func OpenSerialSource(portName string, baudRate int) (*SerialSource, error) {
	port, err := serial.Open(portName, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, errors.Wrapf(err, "open EMG port %s", portName)
	}
	if err := port.SetReadTimeout(10 * time.Millisecond); err != nil {
		port.Close()
		return nil, errors.Wrap(err, "set EMG read timeout")
	}
	return &SerialSource{port: port, read: make([]byte, 32)}, nil
}

// ReadValue drains available bytes and returns the next complete sample.
// Lines that do not parse as a decimal number are dropped. Samples above
// the ADC ceiling are clipped to it.
func (s *SerialSource) ReadValue() (uint16, bool, error) {
	n, err := s.port.Read(s.read)
	if err != nil {
		return 0, false, errors.Wrap(err, "EMG read")
	}
	if n == 0 {
		return 0, false, nil
	}
	s.buffer.Write(s.read[:n])

	buffered := s.buffer.String()
	idx := strings.IndexByte(buffered, '\n')
	if idx < 0 {
		return 0, false, nil
	}
	line := strings.TrimSpace(buffered[:idx])
	s.buffer.Reset()
	s.buffer.WriteString(buffered[idx+1:])

	value, parseErr := strconv.ParseUint(line, 10, 16)
	if parseErr != nil {
		return 0, false, nil
	}
	if value > MaxSample {
		value = MaxSample
	}
	return uint16(value), true, nil
}

func (s *SerialSource) Close() error { return s.port.Close() }
