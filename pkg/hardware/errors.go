package hardware

import "fmt"

// InvalidAngleError is returned when a commanded angle falls outside a
// motor's configured limits. The command is rejected before any bus write.
type InvalidAngleError struct {
	JointID int
	Angle   float64
	Min     float64
	Max     float64
}

func (e *InvalidAngleError) Error() string {
	return fmt.Sprintf("invalid joint angle: %.1f (joint %d, limits: %.1f..%.1f)",
		e.Angle, e.JointID, e.Min, e.Max)
}

// MotorFailureError reports a hardware-level fault on a specific joint.
type MotorFailureError struct {
	JointID int
	Reason  string
}

func (e *MotorFailureError) Error() string {
	return fmt.Sprintf("motor failure on joint %d: %s", e.JointID, e.Reason)
}
