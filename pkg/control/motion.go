package control

import (
	"math"
	"time"
)

// MotionPlanner turns pose targets into smooth intermediate poses under
// speed and acceleration limits. Units are degrees and seconds.
type MotionPlanner struct {
	maxSpeed        float64
	maxAcceleration float64
}

func NewMotionPlanner(maxSpeed, maxAcceleration float64) *MotionPlanner {
	return &MotionPlanner{maxSpeed: maxSpeed, maxAcceleration: maxAcceleration}
}

// DefaultMotionPlanner uses limits suited to hobby servos.
func DefaultMotionPlanner() *MotionPlanner {
	return NewMotionPlanner(90, 180)
}

// Interpolate linearly blends start toward end by t in [0, 1].
func (p *MotionPlanner) Interpolate(start, end, t float64) float64 {
	return start + (end-start)*t
}

// InterpolateTrajectory produces steps+1 evenly spaced poses from start to
// end inclusive.
func (p *MotionPlanner) InterpolateTrajectory(start, end []float64, steps int) [][]float64 {
	trajectory := make([][]float64, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		pose := make([]float64, len(start))
		for j := range start {
			pose[j] = p.Interpolate(start[j], end[j], t)
		}
		trajectory = append(trajectory, pose)
	}
	return trajectory
}

// SmoothStep is the cubic ease-in-out curve over t in [0, 1].
func (p *MotionPlanner) SmoothStep(t float64) float64 {
	return t * t * (3 - 2*t)
}

// EstimateDuration computes how long a trapezoidal velocity profile takes
// to cover the largest joint delta between the two poses.
func (p *MotionPlanner) EstimateDuration(start, end []float64) time.Duration {
	maxDelta := 0.0
	for i := range start {
		if d := math.Abs(end[i] - start[i]); d > maxDelta {
			maxDelta = d
		}
	}

	accelTime := p.maxSpeed / p.maxAcceleration
	accelDistance := 0.5 * p.maxAcceleration * accelTime * accelTime

	var seconds float64
	if maxDelta <= 2*accelDistance {
		// Never reaches cruise speed: triangular profile.
		seconds = math.Sqrt(2 * maxDelta / p.maxAcceleration)
	} else {
		seconds = 2*accelTime + (maxDelta-2*accelDistance)/p.maxSpeed
	}
	return time.Duration(seconds * float64(time.Second))
}

// VelocityProfile samples the trapezoidal velocity over a move of the
// given distance.
func (p *MotionPlanner) VelocityProfile(distance float64, steps int) []float64 {
	profile := make([]float64, 0, steps)
	accelTime := p.maxSpeed / p.maxAcceleration
	totalTime := p.EstimateDuration([]float64{0}, []float64{distance}).Seconds()

	for i := 0; i < steps; i++ {
		t := float64(i) / float64(steps-1) * totalTime
		var velocity float64
		switch {
		case t < accelTime:
			velocity = p.maxAcceleration * t
		case t > totalTime-accelTime:
			velocity = p.maxAcceleration * (totalTime - t)
		default:
			velocity = p.maxSpeed
		}
		profile = append(profile, velocity)
	}
	return profile
}

// StepCount is how many interpolation steps a move needs so no joint jumps
// more than stepSize per step.
func (p *MotionPlanner) StepCount(start, end []float64, stepSize float64) int {
	maxDelta := 0.0
	for i := range start {
		if d := math.Abs(end[i] - start[i]); d > maxDelta {
			maxDelta = d
		}
	}
	steps := int(math.Ceil(maxDelta / stepSize))
	if steps < 1 {
		return 1
	}
	return steps
}

// TrajectoryPoint is one timestamped pose along a trajectory.
type TrajectoryPoint struct {
	Pose      []float64
	Timestamp time.Duration
}

// Trajectory is a timestamped pose sequence that can be sampled at any
// intermediate time.
type Trajectory struct {
	Points []TrajectoryPoint
}

func (tr *Trajectory) AddPoint(pose []float64, timestamp time.Duration) {
	tr.Points = append(tr.Points, TrajectoryPoint{Pose: pose, Timestamp: timestamp})
}

// InterpolateAt samples the trajectory at the given time. Before the first
// point it returns the first pose segment interpolation applies to; past
// the last point it holds the final pose.
func (tr *Trajectory) InterpolateAt(at time.Duration) []float64 {
	if len(tr.Points) == 0 {
		return nil
	}
	if len(tr.Points) == 1 {
		return append([]float64(nil), tr.Points[0].Pose...)
	}

	for i := 0; i < len(tr.Points)-1; i++ {
		p1, p2 := tr.Points[i], tr.Points[i+1]
		if at >= p1.Timestamp && at <= p2.Timestamp {
			dt := (p2.Timestamp - p1.Timestamp).Seconds()
			t := (at - p1.Timestamp).Seconds() / dt
			pose := make([]float64, len(p1.Pose))
			for j := range pose {
				pose[j] = p1.Pose[j] + (p2.Pose[j]-p1.Pose[j])*t
			}
			return pose
		}
	}
	return append([]float64(nil), tr.Points[len(tr.Points)-1].Pose...)
}
