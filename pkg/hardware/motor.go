// Package hardware provides the motor abstraction for the hand's actuators:
// a capability interface for position-controlled motors, concrete PWM servo,
// stepper and DC implementations, and the servo mapping layer that translates
// logical finger angles into the angles a physically mounted servo expects.
package hardware

// Motor is a position-controlled actuator. Angles are in degrees and must
// fall within the motor's configured limits.
type Motor interface {
	// SetPosition commands the motor to the given angle. Returns
	// *InvalidAngleError if the angle is outside the motor's limits.
	SetPosition(angle float64) error

	// Position returns the last successfully commanded angle.
	Position() (float64, error)

	// Enable powers the motor. Idempotent.
	Enable() error

	// Disable cuts power to the motor. Idempotent.
	Disable() error

	// Enabled reports whether the motor is currently enabled.
	Enabled() bool

	// Limits returns the (min, max) angle range in degrees.
	Limits() (float64, float64)
}

// MotorController is the low-level bus a motor writes through (PWM driver
// board, I2C expander, raw serial). Implementations live behind this
// boundary so motors never touch bus registers directly.
type MotorController interface {
	WritePWM(channel uint8, value uint16) error
	ReadPWM(channel uint8) (uint16, error)
	WriteData(address uint8, data []byte) error
	ReadData(address uint8, buf []byte) (int, error)
}
