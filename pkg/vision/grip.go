package vision

// GripType names one of the preset grip patterns.
type GripType int

const (
	PowerGrasp GripType = iota
	PrecisionGrip
	PinchGrip
	LateralGrip
	TripodGrip
)

func (g GripType) String() string {
	switch g {
	case PowerGrasp:
		return "power_grasp"
	case PrecisionGrip:
		return "precision_grip"
	case PinchGrip:
		return "pinch_grip"
	case LateralGrip:
		return "lateral_grip"
	case TripodGrip:
		return "tripod_grip"
	}
	return "unknown"
}

// GripPattern is a preset hand shape: per-finger joint angles base to tip,
// an optional wrist orientation, and how close to approach before closing.
type GripPattern struct {
	Type               GripType
	FingerAngles       map[string][]float64
	WristOrientation   *[3]float64
	ApproachDistanceCm float64
}

func wrist(pitch, roll, yaw float64) *[3]float64 {
	return &[3]float64{pitch, roll, yaw}
}

// NewPowerGrasp wraps all fingers firmly around a large object.
func NewPowerGrasp() GripPattern {
	return GripPattern{
		Type: PowerGrasp,
		FingerAngles: map[string][]float64{
			"Thumb":  {60, 60, 60},
			"Index":  {80, 80, 80},
			"Middle": {80, 80, 80},
			"Ring":   {80, 80, 80},
			"Pinky":  {80, 80, 80},
		},
		WristOrientation:   wrist(0, 0, 0),
		ApproachDistanceCm: 10,
	}
}

// NewPrecisionGrip opposes thumb, index and middle for flat objects.
func NewPrecisionGrip() GripPattern {
	return GripPattern{
		Type: PrecisionGrip,
		FingerAngles: map[string][]float64{
			"Thumb":  {45, 45, 30},
			"Index":  {60, 50, 40},
			"Middle": {60, 50, 40},
			"Ring":   {10, 10, 10},
			"Pinky":  {10, 10, 10},
		},
		WristOrientation:   wrist(5, 0, 0),
		ApproachDistanceCm: 8,
	}
}

// NewPinchGrip opposes thumb and index only, for thin objects.
func NewPinchGrip() GripPattern {
	return GripPattern{
		Type: PinchGrip,
		FingerAngles: map[string][]float64{
			"Thumb":  {50, 40, 30},
			"Index":  {70, 60, 50},
			"Middle": {20, 20, 20},
			"Ring":   {10, 10, 10},
			"Pinky":  {10, 10, 10},
		},
		WristOrientation:   wrist(0, 0, 0),
		ApproachDistanceCm: 6,
	}
}

// NewLateralGrip presses the thumb against the side of a curled index, the
// key-holding grip.
func NewLateralGrip() GripPattern {
	return GripPattern{
		Type: LateralGrip,
		FingerAngles: map[string][]float64{
			"Thumb":  {80, 70, 60},
			"Index":  {90, 90, 90},
			"Middle": {20, 20, 20},
			"Ring":   {10, 10, 10},
			"Pinky":  {10, 10, 10},
		},
		WristOrientation:   wrist(0, 10, 0),
		ApproachDistanceCm: 7,
	}
}

// NewTripodGrip opposes thumb, index and middle in a three-point pinch.
func NewTripodGrip() GripPattern {
	return GripPattern{
		Type: TripodGrip,
		FingerAngles: map[string][]float64{
			"Thumb":  {45, 40, 35},
			"Index":  {65, 55, 45},
			"Middle": {65, 55, 45},
			"Ring":   {15, 15, 15},
			"Pinky":  {10, 10, 10},
		},
		WristOrientation:   wrist(3, 0, 0),
		ApproachDistanceCm: 7,
	}
}

// GripForObjectType maps a classified object type to its grip pattern.
// Unknown types get the power grasp.
func GripForObjectType(objectType string) GripPattern {
	switch objectType {
	case "cup", "mug", "glass", "bottle":
		return NewPowerGrasp()
	case "phone", "book":
		return NewPrecisionGrip()
	case "pen", "pencil":
		return NewPinchGrip()
	case "card":
		return NewLateralGrip()
	default:
		return NewPowerGrasp()
	}
}
