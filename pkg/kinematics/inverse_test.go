package kinematics

import (
	"math"
	"testing"
)

func TestSolveOutOfReachGivesApproachPose(t *testing.T) {
	ik := NewDefaultInverseKinematics(Position3D{})
	joints := ik.SolveForGraspPosition(NewPosition3D(0, 0, 50), nil)

	for i, angle := range joints.Fingers() {
		if angle != 0 {
			t.Errorf("finger %d = %v, want 0 (open) for out-of-reach target", i, angle)
		}
	}
	if joints.WristPitch == nil || joints.WristRoll == nil {
		t.Fatal("approach pose should set both wrist axes")
	}
	if *joints.WristPitch != 45 {
		t.Errorf("wrist pitch = %v, want 45 (clamped toward overhead target)", *joints.WristPitch)
	}
}

func TestSolveVeryCloseTargetOpensHand(t *testing.T) {
	ik := NewDefaultInverseKinematics(Position3D{})
	joints := ik.SolveForGraspPosition(NewPosition3D(0, 0, 1), nil)

	if joints != Open() {
		t.Errorf("joints = %+v, want open pose for target inside the palm", joints)
	}
}

func TestSolveNearbyTargetConverges(t *testing.T) {
	ik := NewDefaultInverseKinematics(Position3D{})
	target := NewPosition3D(0, 0, 15)
	joints := ik.SolveForGraspPosition(target, nil)

	if joints.Thumb >= 45 {
		t.Errorf("thumb = %v, want light curl for a far-but-reachable target", joints.Thumb)
	}
	for _, angle := range joints.Fingers() {
		if angle < 0 || angle > 90 {
			t.Errorf("finger angle %v outside [0, 90]", angle)
		}
	}
}

func TestSolveMovesAllFingersTogether(t *testing.T) {
	ik := NewDefaultInverseKinematics(Position3D{})
	joints := ik.SolveForGraspPosition(NewPosition3D(0, 0, 12), nil)

	// Descent applies one shared step per iteration, so fingers starting
	// from the same guess stay equal.
	if joints.Thumb != joints.Index || joints.Index != joints.Middle ||
		joints.Middle != joints.Ring || joints.Ring != joints.Pinky {
		t.Errorf("fingers diverged: %+v", joints)
	}
}

func TestSolveWristAxesOnlyAdjustedWhenPresent(t *testing.T) {
	ik := NewDefaultInverseKinematics(Position3D{})
	target := NewPosition3D(2, 2, 12)

	noWrist := ik.SolveForGraspPosition(target, nil)
	if noWrist.WristPitch != nil || noWrist.WristRoll != nil {
		t.Error("solver set wrist axes that were absent from the guess")
	}

	guess := Open().WithWrist(0, 0)
	withWrist := ik.SolveForGraspPosition(target, &guess)
	if withWrist.WristPitch == nil || withWrist.WristRoll == nil {
		t.Fatal("solver dropped wrist axes present in the guess")
	}
	if math.Abs(*withWrist.WristPitch) > 45 || math.Abs(*withWrist.WristRoll) > 45 {
		t.Errorf("wrist exceeded limits: pitch=%v roll=%v", *withWrist.WristPitch, *withWrist.WristRoll)
	}
}

func TestObjectGraspClosureScalesWithSize(t *testing.T) {
	ik := NewDefaultInverseKinematics(Position3D{})
	pos := NewPosition3D(0, 0, 20)

	small := ik.SolveForObjectGrasp(pos, 2)
	large := ik.SolveForObjectGrasp(pos, 6)

	if small.Index <= large.Index {
		t.Errorf("small object index = %v, large = %v; smaller objects should close more",
			small.Index, large.Index)
	}

	// 5 cm object: closure 5/8, base 90*3/8 = 33.75.
	mid := ik.SolveForObjectGrasp(pos, 5)
	if math.Abs(mid.Index-33.75) > 1e-9 {
		t.Errorf("index = %v, want 33.75", mid.Index)
	}
	if math.Abs(mid.Thumb-33.75*0.8) > 1e-9 {
		t.Errorf("thumb = %v, want %v", mid.Thumb, 33.75*0.8)
	}
	if math.Abs(mid.Pinky-33.75*0.9) > 1e-9 {
		t.Errorf("pinky = %v, want %v", mid.Pinky, 33.75*0.9)
	}
}

func TestObjectGraspHugeObjectStaysOpen(t *testing.T) {
	ik := NewDefaultInverseKinematics(Position3D{})
	joints := ik.SolveForObjectGrasp(NewPosition3D(0, 0, 20), 20)

	if joints.Index != 0 {
		t.Errorf("index = %v, want 0 for an object wider than the grip", joints.Index)
	}
}

func TestObjectGraspWristClamped(t *testing.T) {
	ik := NewDefaultInverseKinematics(Position3D{})
	joints := ik.SolveForObjectGrasp(NewPosition3D(0, 0, 20), 5)

	if joints.WristPitch == nil || joints.WristRoll == nil {
		t.Fatal("object grasp should always set the wrist")
	}
	// Straight overhead: raw pitch is 90, clamped to 30.
	if *joints.WristPitch != 30 {
		t.Errorf("wrist pitch = %v, want 30", *joints.WristPitch)
	}
	if math.Abs(*joints.WristRoll) > 30 {
		t.Errorf("wrist roll = %v, want within [-30, 30]", *joints.WristRoll)
	}
}
