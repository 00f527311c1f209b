package hand

import "fmt"

// InvalidFingerIDError is returned for finger indexes outside the hand.
type InvalidFingerIDError struct {
	FingerID int
}

func (e *InvalidFingerIDError) Error() string {
	return fmt.Sprintf("invalid finger id: %d", e.FingerID)
}

// JointCountError is returned when a pose has the wrong number of angles
// for a finger.
type JointCountError struct {
	Expected int
	Actual   int
}

func (e *JointCountError) Error() string {
	return fmt.Sprintf("invalid joint count: expected %d, got %d", e.Expected, e.Actual)
}
