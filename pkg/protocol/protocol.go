// Package protocol carries servo commands to the hand hardware. Two wire
// flavors exist: a plain-text line protocol for hobby servo boards, and the
// half-duplex smart-servo bus used by STS-series servos. A mock records
// commands for tests and dry runs.
package protocol

// ServoProtocol sends angle commands to individual servos. Angles are in
// degrees, 0..180.
type ServoProtocol interface {
	SendServoCommand(servoID uint8, fingerName string, angle float64) error
	SendRaw(command string) error
}
