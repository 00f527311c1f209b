// Package kinematics provides the geometric hand model plus forward and
// inverse kinematics over it. Lengths are centimeters, angles degrees.
// Finger angles run 0 (extended) to 90 (curled).
package kinematics

import "github.com/golang/geo/r3"

// Position3D is a point in the hand's workspace frame, in centimeters.
type Position3D struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

func NewPosition3D(x, y, z float64) Position3D {
	return Position3D{X: x, Y: y, Z: z}
}

// Vec converts to an r3 vector for geometric operations.
func (p Position3D) Vec() r3.Vector {
	return r3.Vector{X: p.X, Y: p.Y, Z: p.Z}
}

// FromVec converts an r3 vector back to a position.
func FromVec(v r3.Vector) Position3D {
	return Position3D{X: v.X, Y: v.Y, Z: v.Z}
}

// DistanceTo reports the Euclidean distance to another position.
func (p Position3D) DistanceTo(other Position3D) float64 {
	return p.Vec().Distance(other.Vec())
}

// Orientation is a pitch/roll/yaw triple in degrees.
type Orientation struct {
	Pitch float64 `json:"pitch" yaml:"pitch"`
	Roll  float64 `json:"roll" yaml:"roll"`
	Yaw   float64 `json:"yaw" yaml:"yaw"`
}

// JointAngles is a full hand pose: one curl angle per finger, plus optional
// wrist pitch and roll. Nil wrist fields mean the axis is unconstrained.
type JointAngles struct {
	Thumb      float64  `json:"thumb"`
	Index      float64  `json:"index"`
	Middle     float64  `json:"middle"`
	Ring       float64  `json:"ring"`
	Pinky      float64  `json:"pinky"`
	WristPitch *float64 `json:"wrist_pitch,omitempty"`
	WristRoll  *float64 `json:"wrist_roll,omitempty"`
}

func NewJointAngles(thumb, index, middle, ring, pinky float64) JointAngles {
	return JointAngles{Thumb: thumb, Index: index, Middle: middle, Ring: ring, Pinky: pinky}
}

// WithWrist sets both wrist axes.
func (j JointAngles) WithWrist(pitch, roll float64) JointAngles {
	j.WristPitch = &pitch
	j.WristRoll = &roll
	return j
}

// Open is the fully extended pose.
func Open() JointAngles { return NewJointAngles(0, 0, 0, 0, 0) }

// Closed is the fully curled pose.
func Closed() JointAngles { return NewJointAngles(90, 90, 90, 90, 90) }

// Fingers returns the five finger angles in thumb-to-pinky order.
func (j JointAngles) Fingers() [5]float64 {
	return [5]float64{j.Thumb, j.Index, j.Middle, j.Ring, j.Pinky}
}

// HandPose pairs a workspace position and orientation with joint angles.
type HandPose struct {
	Position    Position3D  `json:"position"`
	Orientation Orientation `json:"orientation"`
	JointAngles JointAngles `json:"joint_angles"`
}

// FingerLinkLengths holds the three phalanx lengths of a digit.
type FingerLinkLengths struct {
	Proximal float64 `yaml:"proximal"`
	Middle   float64 `yaml:"middle"`
	Distal   float64 `yaml:"distal"`
}

func (l FingerLinkLengths) Total() float64 {
	return l.Proximal + l.Middle + l.Distal
}

// HandGeometry describes the physical hand dimensions in centimeters.
type HandGeometry struct {
	PalmWidth     float64           `yaml:"palm_width"`
	PalmLength    float64           `yaml:"palm_length"`
	ThumbOffsetX  float64           `yaml:"thumb_offset_x"`
	ThumbOffsetY  float64           `yaml:"thumb_offset_y"`
	FingerSpacing float64           `yaml:"finger_spacing"`
	ThumbLinks    FingerLinkLengths `yaml:"thumb_links"`
	FingerLinks   FingerLinkLengths `yaml:"finger_links"`
}

// DefaultGeometry matches the stock printed hand.
func DefaultGeometry() HandGeometry {
	return HandGeometry{
		PalmWidth:     8,
		PalmLength:    10,
		ThumbOffsetX:  -2,
		ThumbOffsetY:  3,
		FingerSpacing: 2,
		ThumbLinks:    FingerLinkLengths{Proximal: 3.5, Middle: 2.5, Distal: 2},
		FingerLinks:   FingerLinkLengths{Proximal: 4, Middle: 3, Distal: 2.5},
	}
}
