package kinematics

import (
	"math"

	"github.com/golang/geo/r3"
)

// ForwardKinematics maps joint angles to workspace positions using a
// simplified planar finger model: a finger's tip sits above the palm at an
// extension proportional to how far the finger is from fully curled.
type ForwardKinematics struct {
	geometry     HandGeometry
	basePosition Position3D
}

func NewForwardKinematics(geometry HandGeometry, basePosition Position3D) *ForwardKinematics {
	return &ForwardKinematics{geometry: geometry, basePosition: basePosition}
}

func NewDefaultForwardKinematics(basePosition Position3D) *ForwardKinematics {
	return NewForwardKinematics(DefaultGeometry(), basePosition)
}

// PalmCenter computes the palm center from the wrist orientation. Absent
// wrist axes count as zero.
func (fk *ForwardKinematics) PalmCenter(joints JointAngles) Position3D {
	var pitch, roll float64
	if joints.WristPitch != nil {
		pitch = *joints.WristPitch
	}
	if joints.WristRoll != nil {
		roll = *joints.WristRoll
	}

	pitchRad := pitch * math.Pi / 180
	rollRad := roll * math.Pi / 180

	offset := r3.Vector{
		X: fk.geometry.PalmLength * math.Cos(pitchRad) * math.Cos(rollRad),
		Y: fk.geometry.PalmLength * math.Sin(rollRad),
		Z: fk.geometry.PalmLength * math.Sin(pitchRad),
	}
	return FromVec(fk.basePosition.Vec().Add(offset))
}

// FingerTip computes the tip position of one finger. Index 0 is the thumb,
// which has its own link lengths and palm offset.
func (fk *ForwardKinematics) FingerTip(fingerIndex int, angle float64, joints JointAngles) Position3D {
	palm := fk.PalmCenter(joints)

	links := fk.geometry.FingerLinks
	if fingerIndex == 0 {
		links = fk.geometry.ThumbLinks
	}

	var lateral, forward float64
	if fingerIndex == 0 {
		lateral = fk.geometry.ThumbOffsetX
		forward = fk.geometry.ThumbOffsetY
	} else {
		lateral = (float64(fingerIndex) - 2) * fk.geometry.FingerSpacing
	}

	extension := links.Total() * (1 - angle/90)

	return Position3D{
		X: palm.X + lateral,
		Y: palm.Y + forward,
		Z: palm.Z + extension,
	}
}

// AllFingerTips computes all five tips in thumb-to-pinky order.
func (fk *ForwardKinematics) AllFingerTips(joints JointAngles) []Position3D {
	angles := joints.Fingers()
	tips := make([]Position3D, len(angles))
	for i, angle := range angles {
		tips[i] = fk.FingerTip(i, angle, joints)
	}
	return tips
}

// GraspCenter computes the centroid of the five fingertips.
func (fk *ForwardKinematics) GraspCenter(joints JointAngles) Position3D {
	var sum r3.Vector
	tips := fk.AllFingerTips(joints)
	for _, tip := range tips {
		sum = sum.Add(tip.Vec())
	}
	return FromVec(sum.Mul(1 / float64(len(tips))))
}

// UpdateBasePosition moves the wrist mount point.
func (fk *ForwardKinematics) UpdateBasePosition(pos Position3D) {
	fk.basePosition = pos
}

func (fk *ForwardKinematics) BasePosition() Position3D { return fk.basePosition }

func (fk *ForwardKinematics) Geometry() HandGeometry { return fk.geometry }
