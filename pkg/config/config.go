// Package config loads and validates the hand's YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dexhand/dexhand/pkg/kinematics"
)

// MotorType selects the actuator implementation for one joint.
type MotorType string

const (
	MotorPwmServo MotorType = "pwmservo"
	MotorStepper  MotorType = "stepper"
	MotorDC       MotorType = "dc"
)

// Protocol selects how servo commands reach the hardware.
type Protocol string

const (
	ProtocolSerial  Protocol = "serial"
	ProtocolFeetech Protocol = "feetech"
	ProtocolMock    Protocol = "mock"
)

// HandConfig is the full hand description.
type HandConfig struct {
	Fingers       []FingerConfig          `yaml:"fingers"`
	Wrist         WristConfig             `yaml:"wrist"`
	Communication CommunicationConfig     `yaml:"communication"`
	EMG           EMGConfig               `yaml:"emg"`
	Geometry      *kinematics.HandGeometry `yaml:"geometry,omitempty"`
}

type FingerConfig struct {
	Name   string        `yaml:"name"`
	Joints []JointConfig `yaml:"joints"`
}

type JointConfig struct {
	Name      string    `yaml:"name"`
	MotorType MotorType `yaml:"motor_type"`
	Channel   uint8     `yaml:"channel"`
	MinAngle  float64   `yaml:"min_angle"`
	MaxAngle  float64   `yaml:"max_angle"`
	Offset    float64   `yaml:"offset"`
	MinPulse  uint16    `yaml:"min_pulse,omitempty"`
	MaxPulse  uint16    `yaml:"max_pulse,omitempty"`
}

type WristConfig struct {
	Pitch *JointConfig `yaml:"pitch,omitempty"`
	Roll  *JointConfig `yaml:"roll,omitempty"`
	Yaw   *JointConfig `yaml:"yaw,omitempty"`
}

type CommunicationConfig struct {
	Protocol   Protocol `yaml:"protocol"`
	SerialPort string   `yaml:"serial_port,omitempty"`
	BaudRate   int      `yaml:"baud_rate,omitempty"`
	// MotorPort, when set, is the serial link to the PWM driver board that
	// carries the per-joint motor writes.
	MotorPort string `yaml:"motor_port,omitempty"`
}

type EMGConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Port      string `yaml:"port,omitempty"`
	BaudRate  int    `yaml:"baud_rate,omitempty"`
	Threshold uint16 `yaml:"threshold,omitempty"`
}

// DefaultCommunication is a mock protocol at the usual hobby-board rate.
func DefaultCommunication() CommunicationConfig {
	return CommunicationConfig{Protocol: ProtocolMock, BaudRate: 115200}
}

// Load reads and validates a config file.
func Load(path string) (*HandConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates raw YAML.
func Parse(data []byte) (*HandConfig, error) {
	var cfg HandConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config YAML: %w", err)
	}
	if cfg.Communication.BaudRate == 0 {
		cfg.Communication.BaudRate = 115200
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config as YAML.
func (c *HandConfig) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks structural invariants the constructors rely on.
func (c *HandConfig) Validate() error {
	if len(c.Fingers) == 0 {
		return fmt.Errorf("config: at least one finger must be configured")
	}
	for i, finger := range c.Fingers {
		if len(finger.Joints) == 0 {
			return fmt.Errorf("config: finger %d (%s) must have at least one joint", i, finger.Name)
		}
		for _, joint := range finger.Joints {
			if err := joint.validate(finger.Name); err != nil {
				return err
			}
		}
	}
	for _, axis := range []*JointConfig{c.Wrist.Pitch, c.Wrist.Roll, c.Wrist.Yaw} {
		if axis == nil {
			continue
		}
		if err := axis.validate("wrist"); err != nil {
			return err
		}
	}
	switch c.Communication.Protocol {
	case ProtocolSerial, ProtocolFeetech:
		if c.Communication.SerialPort == "" {
			return fmt.Errorf("config: protocol %q requires a serial_port", c.Communication.Protocol)
		}
	case ProtocolMock:
	default:
		return fmt.Errorf("config: unknown protocol %q", c.Communication.Protocol)
	}
	return nil
}

func (j JointConfig) validate(owner string) error {
	switch j.MotorType {
	case MotorPwmServo, MotorStepper, MotorDC:
	default:
		return fmt.Errorf("config: %s joint %s has unknown motor_type %q", owner, j.Name, j.MotorType)
	}
	if j.MinAngle >= j.MaxAngle {
		return fmt.Errorf("config: %s joint %s has empty angle range [%v, %v]",
			owner, j.Name, j.MinAngle, j.MaxAngle)
	}
	if j.MotorType == MotorPwmServo && j.MinPulse >= j.MaxPulse {
		return fmt.Errorf("config: %s joint %s needs min_pulse < max_pulse", owner, j.Name)
	}
	return nil
}

// DefaultHand is the stock five-finger, three-joint hand on a mock
// protocol, handy for tests and first runs.
func DefaultHand() *HandConfig {
	fingerNames := []string{"Thumb", "Index", "Middle", "Ring", "Pinky"}
	fingers := make([]FingerConfig, len(fingerNames))
	channel := uint8(0)
	for i, name := range fingerNames {
		joints := make([]JointConfig, 3)
		for j := range joints {
			joints[j] = JointConfig{
				Name:      fmt.Sprintf("%s-%d", name, j),
				MotorType: MotorPwmServo,
				Channel:   channel,
				MinAngle:  0,
				MaxAngle:  180,
				MinPulse:  500,
				MaxPulse:  2500,
			}
			channel++
		}
		fingers[i] = FingerConfig{Name: name, Joints: joints}
	}

	pitch := JointConfig{
		Name: "wrist-pitch", MotorType: MotorPwmServo, Channel: channel,
		MinAngle: -90, MaxAngle: 90, MinPulse: 500, MaxPulse: 2500,
	}
	roll := JointConfig{
		Name: "wrist-roll", MotorType: MotorPwmServo, Channel: channel + 1,
		MinAngle: -90, MaxAngle: 90, MinPulse: 500, MaxPulse: 2500,
	}

	return &HandConfig{
		Fingers:       fingers,
		Wrist:         WristConfig{Pitch: &pitch, Roll: &roll},
		Communication: DefaultCommunication(),
		EMG:           EMGConfig{Threshold: 600, BaudRate: 115200},
	}
}
