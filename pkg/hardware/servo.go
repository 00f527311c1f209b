package hardware

import "math"

// PwmServo is a hobby servo driven by pulse width. Angles map linearly onto
// the configured pulse range and are written through the bus controller.
type PwmServo struct {
	channel  uint8
	position float64
	enabled  bool
	minAngle float64
	maxAngle float64
	minPulse uint16
	maxPulse uint16
	bus      MotorController
}

// NewPwmServo creates a servo on the given bus channel.
func NewPwmServo(channel uint8, minAngle, maxAngle float64, minPulse, maxPulse uint16, bus MotorController) *PwmServo {
	return &PwmServo{
		channel:  channel,
		minAngle: minAngle,
		maxAngle: maxAngle,
		minPulse: minPulse,
		maxPulse: maxPulse,
		bus:      bus,
	}
}

func (s *PwmServo) angleToPulse(angle float64) uint16 {
	normalized := (angle - s.minAngle) / (s.maxAngle - s.minAngle)
	pulseRange := float64(s.maxPulse - s.minPulse)
	return s.minPulse + uint16(math.Round(normalized*pulseRange))
}

func (s *PwmServo) SetPosition(angle float64) error {
	if angle < s.minAngle || angle > s.maxAngle {
		return &InvalidAngleError{
			JointID: int(s.channel),
			Angle:   angle,
			Min:     s.minAngle,
			Max:     s.maxAngle,
		}
	}
	if err := s.bus.WritePWM(s.channel, s.angleToPulse(angle)); err != nil {
		return err
	}
	s.position = angle
	return nil
}

func (s *PwmServo) Position() (float64, error) { return s.position, nil }

func (s *PwmServo) Enable() error {
	s.enabled = true
	return nil
}

func (s *PwmServo) Disable() error {
	s.enabled = false
	return nil
}

func (s *PwmServo) Enabled() bool { return s.enabled }

func (s *PwmServo) Limits() (float64, float64) { return s.minAngle, s.maxAngle }

// StepperMotor models a stepper-driven joint. Position is tracked in angle
// space; step conversion is exposed for drivers that count steps.
type StepperMotor struct {
	id           int
	position     float64
	enabled      bool
	minAngle     float64
	maxAngle     float64
	stepsPerRev  uint32
}

func NewStepperMotor(id int, minAngle, maxAngle float64, stepsPerRev uint32) *StepperMotor {
	return &StepperMotor{
		id:          id,
		minAngle:    minAngle,
		maxAngle:    maxAngle,
		stepsPerRev: stepsPerRev,
	}
}

func (m *StepperMotor) angleToSteps(angle float64) int {
	normalized := (angle - m.minAngle) / (m.maxAngle - m.minAngle)
	return int(normalized * float64(m.stepsPerRev))
}

func (m *StepperMotor) stepsToAngle(steps int) float64 {
	normalized := float64(steps) / float64(m.stepsPerRev)
	return m.minAngle + normalized*(m.maxAngle-m.minAngle)
}

// CurrentSteps returns the step count for the current position.
func (m *StepperMotor) CurrentSteps() int { return m.angleToSteps(m.position) }

// SetSteps commands the motor by step count instead of angle.
func (m *StepperMotor) SetSteps(steps int) error {
	return m.SetPosition(m.stepsToAngle(steps))
}

func (m *StepperMotor) StepsPerRevolution() uint32 { return m.stepsPerRev }

func (m *StepperMotor) SetPosition(angle float64) error {
	if angle < m.minAngle || angle > m.maxAngle {
		return &InvalidAngleError{JointID: m.id, Angle: angle, Min: m.minAngle, Max: m.maxAngle}
	}
	m.position = angle
	return nil
}

func (m *StepperMotor) Position() (float64, error) { return m.position, nil }

func (m *StepperMotor) Enable() error {
	m.enabled = true
	return nil
}

func (m *StepperMotor) Disable() error {
	m.enabled = false
	return nil
}

func (m *StepperMotor) Enabled() bool { return m.enabled }

func (m *StepperMotor) Limits() (float64, float64) { return m.minAngle, m.maxAngle }

// DCMotor is a position-tracked DC actuator (external encoder assumed).
type DCMotor struct {
	id       int
	position float64
	enabled  bool
	minAngle float64
	maxAngle float64
}

func NewDCMotor(id int, minAngle, maxAngle float64) *DCMotor {
	return &DCMotor{id: id, minAngle: minAngle, maxAngle: maxAngle}
}

func (m *DCMotor) SetPosition(angle float64) error {
	if angle < m.minAngle || angle > m.maxAngle {
		return &InvalidAngleError{JointID: m.id, Angle: angle, Min: m.minAngle, Max: m.maxAngle}
	}
	m.position = angle
	return nil
}

func (m *DCMotor) Position() (float64, error) { return m.position, nil }

func (m *DCMotor) Enable() error {
	m.enabled = true
	return nil
}

func (m *DCMotor) Disable() error {
	m.enabled = false
	return nil
}

func (m *DCMotor) Enabled() bool { return m.enabled }

func (m *DCMotor) Limits() (float64, float64) { return m.minAngle, m.maxAngle }
