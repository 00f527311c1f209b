package protocol

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
)

// TextSerial speaks the "S{id}:{angle}\n" line protocol understood by the
// Arduino servo sketch.
type TextSerial struct {
	port serial.Port
}

// OpenTextSerial opens the servo board's serial port. Opening the port
// resets the Arduino, so it waits for the sketch to come back up and
// drains its banner before returning.
func OpenTextSerial(portName string, baudRate int) (*TextSerial, error) {
	port, err := serial.Open(portName, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, errors.Wrapf(err, "open servo port %s", portName)
	}
	if err := port.SetReadTimeout(100 * time.Millisecond); err != nil {
		port.Close()
		return nil, errors.Wrap(err, "set servo port read timeout")
	}

	time.Sleep(2 * time.Second)
	banner := make([]byte, 256)
	port.Read(banner)

	return &TextSerial{port: port}, nil
}

// SendServoCommand formats and sends one angle command. The board only
// accepts whole degrees.
func (t *TextSerial) SendServoCommand(servoID uint8, _ string, angle float64) error {
	return t.SendRaw(fmt.Sprintf("S%d:%d\n", servoID, int(angle)))
}

// SendRaw writes a command line and drains the board's acknowledgment so
// replies do not pile up in the OS buffer.
func (t *TextSerial) SendRaw(command string) error {
	if _, err := t.port.Write([]byte(command)); err != nil {
		return errors.Wrap(err, "send servo command")
	}

	reply := make([]byte, 256)
	deadline := time.Now().Add(300 * time.Millisecond)
	for time.Now().Before(deadline) {
		n, err := t.port.Read(reply)
		if err != nil || n == 0 {
			break
		}
	}
	return nil
}

func (t *TextSerial) Close() error { return t.port.Close() }
