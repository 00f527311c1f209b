package control

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexhand/dexhand/pkg/emg"
	"github.com/dexhand/dexhand/pkg/protocol"
	"github.com/dexhand/dexhand/pkg/vision"
)

type failingDetector struct{}

func (failingDetector) DetectObjects() ([]vision.DetectedObject, error) {
	return nil, errors.New("camera disconnected")
}

func (failingDetector) FrameSize() (int, int) { return 640, 480 }

func centeredCup() vision.DetectedObject {
	return vision.DetectedObject{
		Label:      "coffee cup",
		Confidence: 0.9,
		BoundingBox: vision.BoundingBox{
			X: 300, Y: 220, Width: 40, Height: 40,
		},
		Distance: 0.3,
	}
}

func newScriptedController(detector vision.ObjectDetector) *VisionController {
	trigger := emg.NewTrigger(nil, emg.DefaultThreshold)
	return NewVisionController(detector, trigger, protocol.NewMock(),
		DefaultVisionControllerConfig())
}

func TestStepIdleWithoutTrigger(t *testing.T) {
	detector := vision.NewMockDetector(640, 480)
	detector.AddObject(centeredCup())
	c := newScriptedController(detector)

	require.NoError(t, c.Step())
	assert.Nil(t, c.Sequence())
	assert.Equal(t, emg.Idle, c.Trigger().State())
}

func TestTriggerStartsPickup(t *testing.T) {
	detector := vision.NewMockDetector(640, 480)
	detector.AddObject(centeredCup())
	c := newScriptedController(detector)

	assert.True(t, c.InjectTrigger(emg.DefaultThreshold + 1))
	assert.Equal(t, emg.Triggered, c.Trigger().State())

	require.NoError(t, c.Step())
	assert.Equal(t, emg.Executing, c.Trigger().State())
	require.NotNil(t, c.Sequence())
	assert.Equal(t, vision.PowerGrasp, c.Sequence().GripPattern().Type)
}

func TestSequenceRunsToCompletion(t *testing.T) {
	detector := vision.NewMockDetector(640, 480)
	detector.AddObject(centeredCup())
	c := newScriptedController(detector)

	c.InjectTrigger(emg.DefaultThreshold + 1)
	require.NoError(t, c.Step())
	require.NotNil(t, c.Sequence())
	c.sequence.sleep = func(time.Duration) {}

	for i := 0; i < 6; i++ {
		require.NoError(t, c.Step())
	}

	assert.Nil(t, c.Sequence())
	assert.Equal(t, emg.Idle, c.Trigger().State())

	// The full cycle opened, grasped and released.
	mock := c.protocol.(*protocol.Mock)
	assert.Len(t, mock.Commands(), 15)
}

func TestNoObjectsReturnsToIdle(t *testing.T) {
	detector := vision.NewMockDetector(640, 480)
	c := newScriptedController(detector)

	c.InjectTrigger(emg.DefaultThreshold + 1)
	require.NoError(t, c.Step())

	assert.Nil(t, c.Sequence())
	assert.Equal(t, emg.Idle, c.Trigger().State())
}

func TestDetectionErrorIsRecoverable(t *testing.T) {
	c := newScriptedController(failingDetector{})

	c.InjectTrigger(emg.DefaultThreshold + 1)
	require.NoError(t, c.Step())

	assert.Nil(t, c.Sequence())
	assert.Equal(t, emg.Idle, c.Trigger().State())
}
