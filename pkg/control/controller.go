// Package control builds the hand from configuration and runs the control
// loops: the scripted EMG+vision pickup loop and the planner-driven loop.
package control

import (
	"fmt"
	"io"

	"github.com/dexhand/dexhand/pkg/config"
	"github.com/dexhand/dexhand/pkg/hand"
	"github.com/dexhand/dexhand/pkg/hardware"
)

// HandController owns a Hand built from config and offers whole-hand
// gestures on top of it.
type HandController struct {
	hand *hand.Hand
	cfg  *config.HandConfig
	bus  hardware.MotorController
}

// NewHandController constructs the motor tree described by the config.
// Joint motors drive the serial PWM board named by motor_port, or an
// in-memory bus when none is configured.
func NewHandController(cfg *config.HandConfig) (*HandController, error) {
	bus, err := buildBus(cfg.Communication)
	if err != nil {
		return nil, err
	}

	fingers := make([]*hand.Finger, len(cfg.Fingers))
	for i, fc := range cfg.Fingers {
		joints := make([]*hand.Joint, len(fc.Joints))
		for j, jc := range fc.Joints {
			motor, err := buildMotor(jc, bus)
			if err != nil {
				return nil, fmt.Errorf("finger %s joint %s: %w", fc.Name, jc.Name, err)
			}
			joints[j] = hand.NewJoint(motor, jc.Name, jc.Offset)
		}
		fingers[i] = hand.NewFinger(i, fc.Name, joints)
	}

	wrist, err := buildWrist(cfg.Wrist, bus)
	if err != nil {
		return nil, err
	}

	return &HandController{hand: hand.New(fingers, wrist), cfg: cfg, bus: bus}, nil
}

func buildBus(cfg config.CommunicationConfig) (hardware.MotorController, error) {
	if cfg.MotorPort == "" {
		return hardware.NewMockBus(), nil
	}
	baud := cfg.BaudRate
	if baud == 0 {
		baud = 115200
	}
	return hardware.OpenSerialBus(cfg.MotorPort, baud)
}

func buildMotor(jc config.JointConfig, bus hardware.MotorController) (hardware.Motor, error) {
	switch jc.MotorType {
	case config.MotorPwmServo:
		return hardware.NewPwmServo(jc.Channel, jc.MinAngle, jc.MaxAngle, jc.MinPulse, jc.MaxPulse, bus), nil
	case config.MotorStepper:
		return hardware.NewStepperMotor(int(jc.Channel), jc.MinAngle, jc.MaxAngle, 200), nil
	case config.MotorDC:
		return hardware.NewDCMotor(int(jc.Channel), jc.MinAngle, jc.MaxAngle), nil
	}
	return nil, fmt.Errorf("unknown motor type %q", jc.MotorType)
}

func buildWrist(wc config.WristConfig, bus hardware.MotorController) (*hand.Wrist, error) {
	var pitch, roll, yaw hardware.Motor
	var err error
	if wc.Pitch != nil {
		if pitch, err = buildMotor(*wc.Pitch, bus); err != nil {
			return nil, fmt.Errorf("wrist pitch: %w", err)
		}
	}
	if wc.Roll != nil {
		if roll, err = buildMotor(*wc.Roll, bus); err != nil {
			return nil, fmt.Errorf("wrist roll: %w", err)
		}
	}
	if wc.Yaw != nil {
		if yaw, err = buildMotor(*wc.Yaw, bus); err != nil {
			return nil, fmt.Errorf("wrist yaw: %w", err)
		}
	}
	return hand.NewWrist(pitch, roll, yaw), nil
}

func (c *HandController) Initialize() error { return c.hand.Initialize() }

// Shutdown parks the hand and releases the motor bus.
func (c *HandController) Shutdown() error {
	err := c.hand.Shutdown()
	if closer, ok := c.bus.(io.Closer); ok {
		closer.Close()
	}
	return err
}

// MoveFinger commands one finger's joints.
func (c *HandController) MoveFinger(fingerID int, angles []float64) error {
	return c.hand.SetFingerPose(fingerID, angles)
}

// MoveWrist commands the wrist orientation as [pitch, roll, yaw].
func (c *HandController) MoveWrist(orientation [3]float64) error {
	return c.hand.SetWristOrientation(orientation[0], orientation[1], orientation[2])
}

// OpenHand extends every finger fully.
func (c *HandController) OpenHand() error {
	return c.setAllFingers(0)
}

// CloseHand curls every finger fully.
func (c *HandController) CloseHand() error {
	return c.setAllFingers(90)
}

// Grasp closes all fingers by an amount inversely proportional to object
// size: size 10 closes to 90 degrees, size 100 stays open.
func (c *HandController) Grasp(objectSize float64) error {
	closeAmount := 100 - objectSize
	if closeAmount < 0 {
		closeAmount = 0
	}
	if closeAmount > 90 {
		closeAmount = 90
	}
	return c.setAllFingers(closeAmount)
}

func (c *HandController) setAllFingers(angle float64) error {
	for i := 0; i < c.hand.FingerCount(); i++ {
		finger := c.hand.Finger(i)
		pose := make([]float64, finger.JointCount())
		for j := range pose {
			pose[j] = angle
		}
		if err := c.hand.SetFingerPose(i, pose); err != nil {
			return err
		}
	}
	return nil
}

func (c *HandController) Hand() *hand.Hand           { return c.hand }
func (c *HandController) Config() *config.HandConfig { return c.cfg }
