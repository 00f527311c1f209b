// Package hand models the articulated hand: joints wrapping raw motors,
// fingers grouping joints, an optional wrist, and the Hand assembling them.
package hand

import "github.com/dexhand/dexhand/pkg/hardware"

// Joint wraps a motor with a mounting offset. Joint angles are in joint
// space, zero meaning fully extended. The motor sees joint angle plus
// offset.
type Joint struct {
	motor  hardware.Motor
	name   string
	offset float64
}

func NewJoint(motor hardware.Motor, name string, offset float64) *Joint {
	return &Joint{motor: motor, name: name, offset: offset}
}

// SetAngle commands the joint in joint space.
func (j *Joint) SetAngle(angle float64) error {
	return j.motor.SetPosition(angle + j.offset)
}

// Angle reports the current joint-space angle.
func (j *Joint) Angle() (float64, error) {
	pos, err := j.motor.Position()
	if err != nil {
		return 0, err
	}
	return pos - j.offset, nil
}

func (j *Joint) Enable() error  { return j.motor.Enable() }
func (j *Joint) Disable() error { return j.motor.Disable() }

func (j *Joint) Name() string { return j.name }

// Limits reports the joint-space range, the motor limits shifted by the
// mounting offset.
func (j *Joint) Limits() (float64, float64) {
	min, max := j.motor.Limits()
	return min - j.offset, max - j.offset
}
