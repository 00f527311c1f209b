package control

import (
	"time"

	"github.com/dexhand/dexhand/pkg/protocol"
	"github.com/dexhand/dexhand/pkg/vision"
)

// SequenceStep is one phase of the pickup sequence.
type SequenceStep int

const (
	StepApproach SequenceStep = iota
	StepOpen
	StepGrasp
	StepLift
	StepMove
	StepRelease
	StepComplete
)

func (s SequenceStep) String() string {
	switch s {
	case StepApproach:
		return "approach"
	case StepOpen:
		return "open"
	case StepGrasp:
		return "grasp"
	case StepLift:
		return "lift"
	case StepMove:
		return "move"
	case StepRelease:
		return "release"
	case StepComplete:
		return "complete"
	}
	return "unknown"
}

// fingerOrder fixes the command order for whole-hand writes.
var fingerOrder = []string{"Thumb", "Index", "Middle", "Ring", "Pinky"}

// DefaultFingerServoMap assigns sequential servo IDs, thumb first.
func DefaultFingerServoMap() map[string]uint8 {
	return map[string]uint8{
		"Thumb":  0,
		"Index":  1,
		"Middle": 2,
		"Ring":   3,
		"Pinky":  4,
	}
}

// PickupSequence walks a grip pattern through the fixed pickup phases:
// approach, open, grasp, lift, move, release. Each Execute call performs
// one phase and advances; the dwell after each phase gives the servos time
// to settle.
type PickupSequence struct {
	currentStep SequenceStep
	gripPattern vision.GripPattern
	planner     *MotionPlanner

	sleep func(time.Duration)
}

func NewPickupSequence(gripPattern vision.GripPattern) *PickupSequence {
	return &PickupSequence{
		currentStep: StepApproach,
		gripPattern: gripPattern,
		planner:     DefaultMotionPlanner(),
		sleep:       time.Sleep,
	}
}

func (s *PickupSequence) CurrentStep() SequenceStep { return s.currentStep }

func (s *PickupSequence) Complete() bool { return s.currentStep == StepComplete }

func (s *PickupSequence) GripPattern() vision.GripPattern { return s.gripPattern }

// Execute performs the current phase and advances to the next. Executing
// the Complete step is a no-op.
func (s *PickupSequence) Execute(p protocol.ServoProtocol, servoMap map[string]uint8) error {
	switch s.currentStep {
	case StepApproach:
		s.sleep(500 * time.Millisecond)
		s.currentStep = StepOpen
	case StepOpen:
		if err := s.openHand(p, servoMap); err != nil {
			return err
		}
		s.sleep(800 * time.Millisecond)
		s.currentStep = StepGrasp
	case StepGrasp:
		if err := s.graspObject(p, servoMap); err != nil {
			return err
		}
		s.sleep(1000 * time.Millisecond)
		s.currentStep = StepLift
	case StepLift:
		s.sleep(800 * time.Millisecond)
		s.currentStep = StepMove
	case StepMove:
		s.sleep(600 * time.Millisecond)
		s.currentStep = StepRelease
	case StepRelease:
		if err := s.openHand(p, servoMap); err != nil {
			return err
		}
		s.sleep(500 * time.Millisecond)
		s.currentStep = StepComplete
	case StepComplete:
	}
	return nil
}

// ExecuteStep runs one phase and reports whether the sequence is done.
func (s *PickupSequence) ExecuteStep(p protocol.ServoProtocol, servoMap map[string]uint8) (bool, error) {
	if s.Complete() {
		return true, nil
	}
	if err := s.Execute(p, servoMap); err != nil {
		return false, err
	}
	return s.Complete(), nil
}

// Reset rewinds the sequence to the approach phase.
func (s *PickupSequence) Reset() { s.currentStep = StepApproach }

func (s *PickupSequence) openHand(p protocol.ServoProtocol, servoMap map[string]uint8) error {
	for _, finger := range fingerOrder {
		id, ok := servoMap[finger]
		if !ok {
			continue
		}
		if err := p.SendServoCommand(id, finger, 0); err != nil {
			return err
		}
	}
	return nil
}

// graspObject commands each finger to the first-stage angle of the grip
// pattern, staggered so the fingers wrap in sequence.
func (s *PickupSequence) graspObject(p protocol.ServoProtocol, servoMap map[string]uint8) error {
	for _, finger := range fingerOrder {
		angles, ok := s.gripPattern.FingerAngles[finger]
		if !ok || len(angles) == 0 {
			continue
		}
		id, ok := servoMap[finger]
		if !ok {
			continue
		}
		if err := p.SendServoCommand(id, finger, angles[0]); err != nil {
			return err
		}
		s.sleep(50 * time.Millisecond)
	}
	return nil
}
