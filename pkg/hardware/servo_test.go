package hardware

import (
	"errors"
	"testing"
)

func TestPwmServoSetPosition(t *testing.T) {
	tests := []struct {
		name      string
		angle     float64
		wantPulse uint16
		wantErr   bool
	}{
		{"minimum", 0, 500, false},
		{"midpoint", 90, 1500, false},
		{"maximum", 180, 2500, false},
		{"below range", -10, 0, true},
		{"above range", 190, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := NewMockBus()
			servo := NewPwmServo(3, 0, 180, 500, 2500, bus)
			err := servo.SetPosition(tt.angle)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("SetPosition(%v) succeeded, want error", tt.angle)
				}
				var invalid *InvalidAngleError
				if !errors.As(err, &invalid) {
					t.Fatalf("SetPosition(%v) error = %v, want InvalidAngleError", tt.angle, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SetPosition(%v) failed: %v", tt.angle, err)
			}
			pulse, err := bus.ReadPWM(3)
			if err != nil {
				t.Fatalf("ReadPWM failed: %v", err)
			}
			if pulse != tt.wantPulse {
				t.Errorf("pulse = %d, want %d", pulse, tt.wantPulse)
			}
			got, err := servo.Position()
			if err != nil {
				t.Fatalf("Position failed: %v", err)
			}
			if got != tt.angle {
				t.Errorf("Position() = %v, want %v", got, tt.angle)
			}
		})
	}
}

func TestPwmServoRejectedWriteKeepsPosition(t *testing.T) {
	bus := NewMockBus()
	servo := NewPwmServo(0, 0, 180, 500, 2500, bus)
	if err := servo.SetPosition(45); err != nil {
		t.Fatalf("SetPosition(45) failed: %v", err)
	}
	if err := servo.SetPosition(200); err == nil {
		t.Fatal("SetPosition(200) succeeded, want error")
	}
	got, _ := servo.Position()
	if got != 45 {
		t.Errorf("Position() after rejected write = %v, want 45", got)
	}
}

func TestStepperMotorAngleConversion(t *testing.T) {
	stepper := NewStepperMotor(1, 0, 360, 200)

	if err := stepper.SetPosition(180); err != nil {
		t.Fatalf("SetPosition(180) failed: %v", err)
	}
	if got := stepper.CurrentSteps(); got != 100 {
		t.Errorf("CurrentSteps() = %d, want 100", got)
	}
	got, _ := stepper.Position()
	if got != 180 {
		t.Errorf("Position() = %v, want 180", got)
	}
}

func TestStepperMotorRangeCheck(t *testing.T) {
	stepper := NewStepperMotor(1, 0, 360, 200)
	err := stepper.SetPosition(400)
	var invalid *InvalidAngleError
	if !errors.As(err, &invalid) {
		t.Fatalf("SetPosition(400) error = %v, want InvalidAngleError", err)
	}
}

func TestDCMotorEnableDisable(t *testing.T) {
	motor := NewDCMotor(2, 0, 180)

	if motor.Enabled() {
		t.Error("new motor should start disabled")
	}
	if err := motor.Enable(); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	if !motor.Enabled() {
		t.Error("motor should be enabled after Enable")
	}
	if err := motor.Disable(); err != nil {
		t.Fatalf("Disable failed: %v", err)
	}
	if motor.Enabled() {
		t.Error("motor should be disabled after Disable")
	}
}
