package hand

import "github.com/dexhand/dexhand/pkg/hardware"

// Wrist drives up to three orientation axes. Any motor may be nil; setting
// an absent axis is a no-op so hands without a full wrist still work.
type Wrist struct {
	pitchMotor hardware.Motor
	rollMotor  hardware.Motor
	yawMotor   hardware.Motor

	pitch float64
	roll  float64
	yaw   float64
}

func NewWrist(pitchMotor, rollMotor, yawMotor hardware.Motor) *Wrist {
	return &Wrist{pitchMotor: pitchMotor, rollMotor: rollMotor, yawMotor: yawMotor}
}

// SetOrientation commands all three axes at once.
func (w *Wrist) SetOrientation(pitch, roll, yaw float64) error {
	if err := w.SetPitch(pitch); err != nil {
		return err
	}
	if err := w.SetRoll(roll); err != nil {
		return err
	}
	return w.SetYaw(yaw)
}

func (w *Wrist) SetPitch(pitch float64) error {
	if w.pitchMotor == nil {
		return nil
	}
	if err := w.pitchMotor.SetPosition(pitch); err != nil {
		return err
	}
	w.pitch = pitch
	return nil
}

func (w *Wrist) SetRoll(roll float64) error {
	if w.rollMotor == nil {
		return nil
	}
	if err := w.rollMotor.SetPosition(roll); err != nil {
		return err
	}
	w.roll = roll
	return nil
}

func (w *Wrist) SetYaw(yaw float64) error {
	if w.yawMotor == nil {
		return nil
	}
	if err := w.yawMotor.SetPosition(yaw); err != nil {
		return err
	}
	w.yaw = yaw
	return nil
}

// Orientation reports the last commanded pitch, roll and yaw.
func (w *Wrist) Orientation() (pitch, roll, yaw float64) {
	return w.pitch, w.roll, w.yaw
}

func (w *Wrist) Enable() error {
	for _, m := range []hardware.Motor{w.pitchMotor, w.rollMotor, w.yawMotor} {
		if m == nil {
			continue
		}
		if err := m.Enable(); err != nil {
			return err
		}
	}
	return nil
}

func (w *Wrist) Disable() error {
	for _, m := range []hardware.Motor{w.pitchMotor, w.rollMotor, w.yawMotor} {
		if m == nil {
			continue
		}
		if err := m.Disable(); err != nil {
			return err
		}
	}
	return nil
}

func (w *Wrist) HasPitch() bool { return w.pitchMotor != nil }
func (w *Wrist) HasRoll() bool  { return w.rollMotor != nil }
func (w *Wrist) HasYaw() bool   { return w.yawMotor != nil }
