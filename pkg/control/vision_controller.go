package control

import (
	"context"
	"fmt"
	"time"

	"github.com/dexhand/dexhand/pkg/emg"
	"github.com/dexhand/dexhand/pkg/protocol"
	"github.com/dexhand/dexhand/pkg/vision"
)

// VisionControllerConfig tunes the scripted pickup loop.
type VisionControllerConfig struct {
	CameraPollInterval time.Duration
	EmgPollInterval    time.Duration
	FingerServoMap     map[string]uint8
}

func DefaultVisionControllerConfig() VisionControllerConfig {
	return VisionControllerConfig{
		CameraPollInterval: 100 * time.Millisecond,
		EmgPollInterval:    10 * time.Millisecond,
		FingerServoMap:     DefaultFingerServoMap(),
	}
}

// VisionController is the scripted pickup loop: an EMG trigger starts a
// detect/classify/grip cycle, then the pickup sequence runs one phase per
// loop tick until complete. Detection errors log and return the trigger to
// idle; only actuator errors stop the loop.
type VisionController struct {
	detector vision.ObjectDetector
	trigger  *emg.Trigger
	protocol protocol.ServoProtocol
	cfg      VisionControllerConfig

	sequence *PickupSequence
	logCh    chan string
}

func NewVisionController(
	detector vision.ObjectDetector,
	trigger *emg.Trigger,
	proto protocol.ServoProtocol,
	cfg VisionControllerConfig,
) *VisionController {
	if cfg.FingerServoMap == nil {
		cfg.FingerServoMap = DefaultFingerServoMap()
	}
	if cfg.EmgPollInterval <= 0 {
		cfg.EmgPollInterval = 10 * time.Millisecond
	}
	return &VisionController{
		detector: detector,
		trigger:  trigger,
		protocol: proto,
		cfg:      cfg,
		logCh:    make(chan string, 10),
	}
}

// Logs returns a channel that receives log messages.
func (c *VisionController) Logs() <-chan string {
	return c.logCh
}

func (c *VisionController) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// Trigger exposes the EMG trigger, for manual injection.
func (c *VisionController) Trigger() *emg.Trigger { return c.trigger }

// InjectTrigger feeds a synthetic EMG sample.
func (c *VisionController) InjectTrigger(value uint16) bool {
	return c.trigger.Inject(value)
}

// Sequence returns the active pickup sequence, or nil between pickups.
func (c *VisionController) Sequence() *PickupSequence { return c.sequence }

// Run drives Step until the context is canceled.
func (c *VisionController) Run(ctx context.Context) error {
	c.log("Pickup loop started, threshold %d", c.trigger.Threshold())
	ticker := time.NewTicker(c.cfg.EmgPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log("Pickup loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := c.Step(); err != nil {
				return err
			}
		}
	}
}

// Step runs one loop iteration: continue the active sequence if one is
// executing, otherwise watch for a trigger and start a new one.
func (c *VisionController) Step() error {
	if c.sequence != nil && c.trigger.State() == emg.Executing {
		done, err := c.sequence.ExecuteStep(c.protocol, c.cfg.FingerServoMap)
		if err != nil {
			return err
		}
		c.log("Sequence step: %s", c.sequence.CurrentStep())
		if done {
			c.log("Pickup sequence completed")
			c.sequence = nil
			c.trigger.SetState(emg.Idle)
		}
		return nil
	}

	switch {
	case c.trigger.State() == emg.Triggered:
		c.log("Manual trigger activated")
		c.trigger.SetState(emg.Executing)
	default:
		fired, err := c.trigger.Poll()
		if err != nil {
			c.log("EMG read error: %v", err)
			return nil
		}
		if !fired {
			return nil
		}
		c.log("EMG threshold triggered")
		c.trigger.SetState(emg.Executing)
	}

	return c.startPickup()
}

func (c *VisionController) startPickup() error {
	objects, err := c.detector.DetectObjects()
	if err != nil {
		c.log("Detection error: %v", err)
		c.trigger.SetState(emg.Idle)
		return nil
	}
	c.log("Detected %d objects", len(objects))

	if len(objects) == 0 {
		c.trigger.SetState(emg.Idle)
		return nil
	}

	frameWidth, frameHeight := c.detector.FrameSize()
	best := vision.SelectBestObject(objects, frameWidth/2, frameHeight/2)
	if best == nil {
		c.trigger.SetState(emg.Idle)
		return nil
	}

	objectType := vision.ClassifyObjectType(best.Label)
	grip := vision.GripForObjectType(objectType)
	c.log("Selected %s -> %s -> %s", best.Label, objectType, grip.Type)

	c.sequence = NewPickupSequence(grip)
	return nil
}
