package hardware

import (
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
)

// MockBus is an in-memory MotorController for tests and dry runs. It records
// every PWM and data write so tests can assert on what reached the bus.
type MockBus struct {
	pwm  map[uint8]uint16
	data map[uint8][]byte
}

func NewMockBus() *MockBus {
	return &MockBus{
		pwm:  make(map[uint8]uint16),
		data: make(map[uint8][]byte),
	}
}

func (b *MockBus) WritePWM(channel uint8, value uint16) error {
	b.pwm[channel] = value
	return nil
}

func (b *MockBus) ReadPWM(channel uint8) (uint16, error) {
	return b.pwm[channel], nil
}

func (b *MockBus) WriteData(address uint8, data []byte) error {
	b.data[address] = append([]byte(nil), data...)
	return nil
}

func (b *MockBus) ReadData(address uint8, buf []byte) (int, error) {
	stored, ok := b.data[address]
	if !ok {
		return 0, nil
	}
	n := copy(buf, stored)
	return n, nil
}

// SerialBus is a MotorController over a raw serial link to a PWM driver
// board. Each PWM write is a 3-byte frame: channel, value high, value low.
type SerialBus struct {
	port serial.Port
}

// OpenSerialBus opens the serial port at the given baud rate.
func OpenSerialBus(portName string, baudRate int) (*SerialBus, error) {
	mode := &serial.Mode{BaudRate: baudRate}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, errors.Wrapf(err, "open motor bus %s", portName)
	}
	if err := port.SetReadTimeout(100 * time.Millisecond); err != nil {
		port.Close()
		return nil, errors.Wrap(err, "set motor bus read timeout")
	}
	return &SerialBus{port: port}, nil
}

func (b *SerialBus) WritePWM(channel uint8, value uint16) error {
	frame := []byte{channel, byte(value >> 8), byte(value & 0xFF)}
	return b.WriteData(0, frame)
}

func (b *SerialBus) ReadPWM(channel uint8) (uint16, error) {
	buf := make([]byte, 2)
	if _, err := b.ReadData(channel, buf); err != nil {
		return 0, err
	}
	return uint16(buf[0])<<8 | uint16(buf[1]), nil
}

func (b *SerialBus) WriteData(_ uint8, data []byte) error {
	if _, err := b.port.Write(data); err != nil {
		return errors.Wrap(err, "motor bus write")
	}
	return nil
}

func (b *SerialBus) ReadData(_ uint8, buf []byte) (int, error) {
	n, err := b.port.Read(buf)
	if err != nil {
		return 0, errors.Wrap(err, "motor bus read")
	}
	return n, nil
}

func (b *SerialBus) Close() error { return b.port.Close() }
