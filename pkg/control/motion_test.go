package control

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolate(t *testing.T) {
	p := DefaultMotionPlanner()

	assert.Equal(t, 0.0, p.Interpolate(0, 90, 0))
	assert.Equal(t, 90.0, p.Interpolate(0, 90, 1))
	assert.Equal(t, 45.0, p.Interpolate(0, 90, 0.5))
	assert.Equal(t, 60.0, p.Interpolate(90, 30, 0.5))
}

func TestSmoothStep(t *testing.T) {
	p := DefaultMotionPlanner()

	assert.Equal(t, 0.0, p.SmoothStep(0))
	assert.Equal(t, 1.0, p.SmoothStep(1))
	assert.Equal(t, 0.5, p.SmoothStep(0.5))
	// Eases in: below linear in the first half.
	assert.Less(t, p.SmoothStep(0.25), 0.25)
	assert.Greater(t, p.SmoothStep(0.75), 0.75)
}

func TestInterpolateTrajectory(t *testing.T) {
	p := DefaultMotionPlanner()

	start := []float64{0, 0, 0}
	end := []float64{90, 45, 30}
	traj := p.InterpolateTrajectory(start, end, 4)

	require.Len(t, traj, 5)
	assert.Equal(t, start, traj[0])
	assert.Equal(t, end, traj[4])
	assert.InDelta(t, 45.0, traj[2][0], 1e-9)
	assert.InDelta(t, 22.5, traj[2][1], 1e-9)
}

func TestEstimateDuration(t *testing.T) {
	// maxSpeed 90 deg/s, maxAcceleration 180 deg/s^2: accel phase lasts
	// 0.5s and covers 22.5 degrees.
	p := DefaultMotionPlanner()

	// 90 degrees exceeds twice the accel distance: trapezoidal,
	// 2*0.5s + (90-45)/90 = 1.5s.
	d := p.EstimateDuration([]float64{0}, []float64{90})
	assert.InDelta(t, 1.5, d.Seconds(), 1e-6)

	// 10 degrees never reaches cruise: triangular, sqrt(2*10/180).
	d = p.EstimateDuration([]float64{0}, []float64{10})
	assert.InDelta(t, 0.3333, d.Seconds(), 1e-3)

	// No movement takes no time.
	d = p.EstimateDuration([]float64{30, 30}, []float64{30, 30})
	assert.Equal(t, time.Duration(0), d)
}

func TestStepCount(t *testing.T) {
	p := DefaultMotionPlanner()

	assert.Equal(t, 18, p.StepCount([]float64{0}, []float64{90}, 5))
	assert.Equal(t, 1, p.StepCount([]float64{45}, []float64{45}, 5))
	assert.Equal(t, 1, p.StepCount([]float64{0}, []float64{3}, 5))
}

func TestVelocityProfile(t *testing.T) {
	p := DefaultMotionPlanner()

	profile := p.VelocityProfile(90, 11)
	require.Len(t, profile, 11)
	assert.Equal(t, 0.0, profile[0])
	// Cruises at max speed through the middle.
	assert.InDelta(t, 90.0, profile[5], 1e-6)
}

func TestTrajectoryInterpolateAt(t *testing.T) {
	var tr Trajectory
	assert.Nil(t, tr.InterpolateAt(time.Second))

	tr.AddPoint([]float64{0, 0}, 0)
	got := tr.InterpolateAt(5 * time.Second)
	assert.Equal(t, []float64{0, 0}, got)

	tr.AddPoint([]float64{90, 30}, time.Second)
	got = tr.InterpolateAt(500 * time.Millisecond)
	assert.InDelta(t, 45.0, got[0], 1e-9)
	assert.InDelta(t, 15.0, got[1], 1e-9)

	// Past the end holds the final pose.
	got = tr.InterpolateAt(10 * time.Second)
	assert.Equal(t, []float64{90, 30}, got)

	// Returned slices are copies.
	got[0] = -1
	assert.Equal(t, 90.0, tr.Points[1].Pose[0])
}
