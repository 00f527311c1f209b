package kinematics

import "math"

// InverseKinematics solves for joint angles reaching a workspace target by
// gradient descent over the forward model. Targets beyond reach produce a
// best-effort approach pose rather than an error.
type InverseKinematics struct {
	fk            *ForwardKinematics
	maxIterations int
	tolerance     float64
}

func NewInverseKinematics(geometry HandGeometry, basePosition Position3D) *InverseKinematics {
	return &InverseKinematics{
		fk:            NewForwardKinematics(geometry, basePosition),
		maxIterations: 100,
		tolerance:     0.5,
	}
}

func NewDefaultInverseKinematics(basePosition Position3D) *InverseKinematics {
	return NewInverseKinematics(DefaultGeometry(), basePosition)
}

// SolveForGraspPosition finds a pose whose grasp center approaches target.
// Targets beyond reach get an open hand oriented toward the target; targets
// closer than 2 cm get a plain open pose. Descent runs at most 100
// iterations with a decaying step and returns the best pose found even when
// the tolerance was not met.
func (ik *InverseKinematics) SolveForGraspPosition(target Position3D, initialGuess *JointAngles) JointAngles {
	base := ik.fk.BasePosition()
	distance := base.DistanceTo(target)

	maxReach := ik.fk.Geometry().FingerLinks.Total() + ik.fk.Geometry().PalmLength
	if distance > maxReach {
		return ik.approachPose(target)
	}
	if distance < 2.0 {
		return Open()
	}

	current := Open()
	if initialGuess != nil {
		current = *initialGuess
	}

	for iteration := 0; iteration < ik.maxIterations; iteration++ {
		graspCenter := ik.fk.GraspCenter(current)
		if target.DistanceTo(graspCenter) < ik.tolerance {
			return current
		}

		deltaX := target.X - graspCenter.X
		deltaY := target.Y - graspCenter.Y
		deltaZ := target.Z - graspCenter.Z

		learningRate := 0.1 * (1 - float64(iteration)/float64(ik.maxIterations))

		// Positive z error means the target is beyond the fingertips, so
		// extend; negative means curl further. All fingers move together.
		step := math.Abs(deltaZ) * learningRate * 10
		if deltaZ > 0 {
			step = -step
		}
		current.Thumb = clamp(current.Thumb+step, 0, 90)
		current.Index = clamp(current.Index+step, 0, 90)
		current.Middle = clamp(current.Middle+step, 0, 90)
		current.Ring = clamp(current.Ring+step, 0, 90)
		current.Pinky = clamp(current.Pinky+step, 0, 90)

		if current.WristPitch != nil {
			pitch := clamp(*current.WristPitch+deltaY*learningRate*5, -45, 45)
			current.WristPitch = &pitch
		}
		if current.WristRoll != nil {
			roll := clamp(*current.WristRoll+deltaX*learningRate*5, -45, 45)
			current.WristRoll = &roll
		}
	}

	return current
}

// SolveForObjectGrasp computes a grasp preshape from object position and
// size. Larger objects close less; the thumb and pinky close a bit less
// than the long fingers. The wrist tilts toward the object within 30
// degrees per axis.
func (ik *InverseKinematics) SolveForObjectGrasp(objectPosition Position3D, objectSizeCm float64) JointAngles {
	closure := clamp(objectSizeCm/8, 0, 1)
	base := 90 * (1 - closure)

	joints := NewJointAngles(base*0.8, base, base, base, base*0.9)

	approach := objectPosition.Vec().Sub(ik.fk.BasePosition().Vec())
	pitch := math.Atan2(approach.Z, math.Hypot(approach.X, approach.Y)) * 180 / math.Pi
	roll := math.Atan2(approach.Y, approach.X) * 180 / math.Pi

	return joints.WithWrist(clamp(pitch, -30, 30), clamp(roll, -30, 30))
}

// approachPose orients an open hand toward an out-of-reach target.
func (ik *InverseKinematics) approachPose(target Position3D) JointAngles {
	delta := target.Vec().Sub(ik.fk.BasePosition().Vec())

	pitch := math.Atan2(delta.Z, math.Hypot(delta.X, delta.Y)) * 180 / math.Pi
	roll := math.Atan2(delta.Y, delta.X) * 180 / math.Pi

	return Open().WithWrist(clamp(pitch, -45, 45), clamp(roll, -45, 45))
}

// UpdateBasePosition moves the wrist mount point.
func (ik *InverseKinematics) UpdateBasePosition(pos Position3D) {
	ik.fk.UpdateBasePosition(pos)
}

// ForwardKinematics exposes the underlying forward model.
func (ik *InverseKinematics) ForwardKinematics() *ForwardKinematics { return ik.fk }

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
