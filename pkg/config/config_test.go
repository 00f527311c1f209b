package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
fingers:
  - name: Thumb
    joints:
      - name: Thumb-0
        motor_type: pwmservo
        channel: 0
        min_angle: 0
        max_angle: 180
        min_pulse: 500
        max_pulse: 2500
wrist:
  pitch:
    name: wrist-pitch
    motor_type: pwmservo
    channel: 10
    min_angle: -90
    max_angle: 90
    min_pulse: 500
    max_pulse: 2500
communication:
  protocol: mock
emg:
  enabled: true
  threshold: 600
`

func TestParseValidConfig(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	require.Len(t, cfg.Fingers, 1)
	assert.Equal(t, "Thumb", cfg.Fingers[0].Name)
	assert.Equal(t, MotorPwmServo, cfg.Fingers[0].Joints[0].MotorType)
	require.NotNil(t, cfg.Wrist.Pitch)
	assert.Nil(t, cfg.Wrist.Roll)
	assert.Equal(t, ProtocolMock, cfg.Communication.Protocol)
	assert.Equal(t, 115200, cfg.Communication.BaudRate, "default baud rate applied")
	assert.True(t, cfg.EMG.Enabled)
	assert.Equal(t, uint16(600), cfg.EMG.Threshold)
}

func TestParseRejectsNoFingers(t *testing.T) {
	_, err := Parse([]byte("fingers: []\ncommunication:\n  protocol: mock\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one finger")
}

func TestParseRejectsFingerWithoutJoints(t *testing.T) {
	yaml := `
fingers:
  - name: Index
    joints: []
communication:
  protocol: mock
`
	_, err := Parse([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one joint")
}

func TestParseRejectsBadMotorType(t *testing.T) {
	yaml := `
fingers:
  - name: Index
    joints:
      - name: j0
        motor_type: hydraulic
        channel: 0
        min_angle: 0
        max_angle: 90
communication:
  protocol: mock
`
	_, err := Parse([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "motor_type")
}

func TestParseRejectsEmptyAngleRange(t *testing.T) {
	yaml := `
fingers:
  - name: Index
    joints:
      - name: j0
        motor_type: dc
        channel: 0
        min_angle: 90
        max_angle: 90
communication:
  protocol: mock
`
	_, err := Parse([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "angle range")
}

func TestParseSerialRequiresPort(t *testing.T) {
	yaml := `
fingers:
  - name: Index
    joints:
      - name: j0
        motor_type: dc
        channel: 0
        min_angle: 0
        max_angle: 90
communication:
  protocol: serial
`
	_, err := Parse([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serial_port")
}

func TestDefaultHandIsValid(t *testing.T) {
	cfg := DefaultHand()
	require.NoError(t, cfg.Validate())

	assert.Len(t, cfg.Fingers, 5)
	for _, f := range cfg.Fingers {
		assert.Len(t, f.Joints, 3)
	}
	require.NotNil(t, cfg.Wrist.Pitch)
	require.NotNil(t, cfg.Wrist.Roll)
	assert.Nil(t, cfg.Wrist.Yaw)
	assert.Equal(t, ProtocolMock, cfg.Communication.Protocol)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hand.yaml")
	cfg := DefaultHand()
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Fingers, loaded.Fingers)
	assert.Equal(t, cfg.Communication, loaded.Communication)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/hand.yaml")
	require.Error(t, err)
}
