package hand

// Finger groups the joints of one digit, base to tip.
type Finger struct {
	id     int
	name   string
	joints []*Joint
}

func NewFinger(id int, name string, joints []*Joint) *Finger {
	return &Finger{id: id, name: name, joints: joints}
}

// SetPose commands every joint of the finger. The angle count must match
// the joint count; the arity is checked before any motor is written.
func (f *Finger) SetPose(angles []float64) error {
	if len(angles) != len(f.joints) {
		return &JointCountError{Expected: len(f.joints), Actual: len(angles)}
	}
	for i, joint := range f.joints {
		if err := joint.SetAngle(angles[i]); err != nil {
			return err
		}
	}
	return nil
}

// Pose reports the current joint-space angles, base to tip.
func (f *Finger) Pose() ([]float64, error) {
	angles := make([]float64, len(f.joints))
	for i, joint := range f.joints {
		angle, err := joint.Angle()
		if err != nil {
			return nil, err
		}
		angles[i] = angle
	}
	return angles, nil
}

func (f *Finger) Enable() error {
	for _, joint := range f.joints {
		if err := joint.Enable(); err != nil {
			return err
		}
	}
	return nil
}

func (f *Finger) Disable() error {
	for _, joint := range f.joints {
		if err := joint.Disable(); err != nil {
			return err
		}
	}
	return nil
}

func (f *Finger) ID() int      { return f.id }
func (f *Finger) Name() string { return f.name }

func (f *Finger) JointCount() int { return len(f.joints) }

// Joint returns the joint at index, or nil if out of range.
func (f *Finger) Joint(index int) *Joint {
	if index < 0 || index >= len(f.joints) {
		return nil
	}
	return f.joints[index]
}
