package hand

import (
	"errors"
	"testing"

	"github.com/dexhand/dexhand/pkg/hardware"
)

func testFinger(t *testing.T, id int, name string, jointCount int) *Finger {
	t.Helper()
	bus := hardware.NewMockBus()
	joints := make([]*Joint, jointCount)
	for i := range joints {
		servo := hardware.NewPwmServo(uint8(id*3+i), 0, 180, 500, 2500, bus)
		joints[i] = NewJoint(servo, name, 0)
	}
	return NewFinger(id, name, joints)
}

func testHand(t *testing.T) *Hand {
	t.Helper()
	bus := hardware.NewMockBus()
	fingers := []*Finger{
		testFinger(t, 0, "Thumb", 3),
		testFinger(t, 1, "Index", 3),
		testFinger(t, 2, "Middle", 3),
		testFinger(t, 3, "Ring", 3),
		testFinger(t, 4, "Pinky", 3),
	}
	wrist := NewWrist(
		hardware.NewPwmServo(20, -90, 90, 500, 2500, bus),
		hardware.NewPwmServo(21, -90, 90, 500, 2500, bus),
		nil,
	)
	return New(fingers, wrist)
}

func TestJointOffset(t *testing.T) {
	bus := hardware.NewMockBus()
	servo := hardware.NewPwmServo(0, 0, 180, 500, 2500, bus)
	joint := NewJoint(servo, "knuckle", 15)

	if err := joint.SetAngle(30); err != nil {
		t.Fatalf("SetAngle failed: %v", err)
	}
	pos, err := servo.Position()
	if err != nil {
		t.Fatalf("Position failed: %v", err)
	}
	if pos != 45 {
		t.Errorf("motor position = %v, want 45 (joint angle plus offset)", pos)
	}

	angle, err := joint.Angle()
	if err != nil {
		t.Fatalf("Angle failed: %v", err)
	}
	if angle != 30 {
		t.Errorf("joint angle = %v, want 30", angle)
	}

	min, max := joint.Limits()
	if min != -15 || max != 165 {
		t.Errorf("limits = (%v, %v), want (-15, 165)", min, max)
	}
}

func TestFingerPoseArityCheck(t *testing.T) {
	finger := testFinger(t, 0, "Index", 3)

	err := finger.SetPose([]float64{10, 20})
	var jcErr *JointCountError
	if !errors.As(err, &jcErr) {
		t.Fatalf("SetPose with 2 angles error = %v, want JointCountError", err)
	}
	if jcErr.Expected != 3 || jcErr.Actual != 2 {
		t.Errorf("JointCountError = %+v, want Expected 3, Actual 2", jcErr)
	}

	// The short pose must not move any joint.
	pose, err := finger.Pose()
	if err != nil {
		t.Fatalf("Pose failed: %v", err)
	}
	for i, angle := range pose {
		if angle != 0 {
			t.Errorf("joint %d moved to %v after rejected pose", i, angle)
		}
	}
}

func TestFingerSetPose(t *testing.T) {
	finger := testFinger(t, 1, "Middle", 3)
	want := []float64{10, 20, 30}
	if err := finger.SetPose(want); err != nil {
		t.Fatalf("SetPose failed: %v", err)
	}
	got, err := finger.Pose()
	if err != nil {
		t.Fatalf("Pose failed: %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("joint %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestWristAbsentAxisNoOp(t *testing.T) {
	bus := hardware.NewMockBus()
	wrist := NewWrist(hardware.NewPwmServo(20, -90, 90, 500, 2500, bus), nil, nil)

	if err := wrist.SetOrientation(10, 20, 30); err != nil {
		t.Fatalf("SetOrientation failed: %v", err)
	}
	pitch, roll, yaw := wrist.Orientation()
	if pitch != 10 {
		t.Errorf("pitch = %v, want 10", pitch)
	}
	if roll != 0 || yaw != 0 {
		t.Errorf("absent axes moved: roll=%v yaw=%v, want 0", roll, yaw)
	}
	if wrist.HasRoll() || wrist.HasYaw() {
		t.Error("roll and yaw should report absent")
	}
	if !wrist.HasPitch() {
		t.Error("pitch should report present")
	}
}

func TestHandInitializeShutdown(t *testing.T) {
	h := testHand(t)

	if h.Initialized() {
		t.Error("new hand should not be initialized")
	}
	if err := h.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if !h.Initialized() {
		t.Error("hand should be initialized after Initialize")
	}
	if err := h.Shutdown(); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if h.Initialized() {
		t.Error("hand should not be initialized after Shutdown")
	}
}

func TestHandInvalidFingerID(t *testing.T) {
	h := testHand(t)

	err := h.SetFingerPose(5, []float64{0, 0, 0})
	var idErr *InvalidFingerIDError
	if !errors.As(err, &idErr) {
		t.Fatalf("SetFingerPose(5) error = %v, want InvalidFingerIDError", err)
	}
	if idErr.FingerID != 5 {
		t.Errorf("FingerID = %d, want 5", idErr.FingerID)
	}

	if _, err := h.FingerPose(-1); !errors.As(err, &idErr) {
		t.Fatalf("FingerPose(-1) error = %v, want InvalidFingerIDError", err)
	}

	if h.Finger(10) != nil {
		t.Error("Finger(10) should be nil")
	}
}

func TestHandFingerPoseRoundTrip(t *testing.T) {
	h := testHand(t)
	want := []float64{15, 25, 35}
	if err := h.SetFingerPose(2, want); err != nil {
		t.Fatalf("SetFingerPose failed: %v", err)
	}
	got, err := h.FingerPose(2)
	if err != nil {
		t.Fatalf("FingerPose failed: %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("joint %d = %v, want %v", i, got[i], want[i])
		}
	}
}
