package control

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dexhand/dexhand/pkg/emg"
	"github.com/dexhand/dexhand/pkg/hardware"
	"github.com/dexhand/dexhand/pkg/kinematics"
	"github.com/dexhand/dexhand/pkg/protocol"
	"github.com/dexhand/dexhand/pkg/vision"
)

// movementPlanner is what the controller needs from an LLM planner.
type movementPlanner interface {
	GenerateMovementPlan(ctx context.Context, scene *SceneState) ([]MovementCommand, error)
}

// depthRanger is what the controller needs from a depth service.
type depthRanger interface {
	ProcessImageWithCleanup(imagePath string, objects []vision.DetectedObject, cleanup bool) ([]vision.ObjectDepth, error)
}

// depthStreamer is the asynchronous depth path: frames go in during the
// idle poll, the newest completed result is merged at pickup.
type depthStreamer interface {
	Submit(imagePath string, objects []vision.DetectedObject) bool
	Latest() ([]vision.ObjectDepth, bool)
}

// HandTracker estimates the hand's pose in the camera frame so the planner
// can reason about the hand relative to the target.
type HandTracker interface {
	EstimateHandPose() (*HandPoseEstimate, error)
}

// FrameSaver is implemented by detectors that can snapshot the current
// camera frame to disk, which the depth service needs.
type FrameSaver interface {
	SaveCurrentFrame(path string) error
}

// LLMControllerConfig tunes the planner-driven pickup loop.
type LLMControllerConfig struct {
	CameraPollInterval time.Duration
	EmgPollInterval    time.Duration
	ServoMap           *hardware.ServoMap
	AutoTrigger        bool
	AutoTriggerDelay   time.Duration
	HandBasePosition   kinematics.Position3D
	Geometry           *kinematics.HandGeometry
	CommandInterval    time.Duration
	TempDir            string
}

func DefaultLLMControllerConfig() LLMControllerConfig {
	return LLMControllerConfig{
		CameraPollInterval: 100 * time.Millisecond,
		EmgPollInterval:    10 * time.Millisecond,
		ServoMap:           hardware.HardwareDefault(),
		AutoTrigger:        false,
		AutoTriggerDelay:   2 * time.Second,
		HandBasePosition:   kinematics.NewPosition3D(0, 0, 0),
		CommandInterval:    500 * time.Millisecond,
		TempDir:            "temp",
	}
}

// LLMVisionController is the planner-driven pickup loop. A trigger starts
// a detect/plan cycle; the planned commands then execute one per loop
// tick. When planning fails or no planner is configured, the scripted
// grip logic takes over for that pickup.
type LLMVisionController struct {
	detector vision.ObjectDetector
	trigger  *emg.Trigger
	protocol protocol.ServoProtocol
	cfg      LLMControllerConfig

	planner movementPlanner
	depth   depthRanger
	stream  depthStreamer
	tracker HandTracker

	commands  []MovementCommand
	cmdIndex  int
	lastFrame time.Time

	fk     *kinematics.ForwardKinematics
	ik     *kinematics.InverseKinematics
	angles kinematics.JointAngles

	logCh chan string
	sleep func(time.Duration)
}

func NewLLMVisionController(
	detector vision.ObjectDetector,
	trigger *emg.Trigger,
	proto protocol.ServoProtocol,
	cfg LLMControllerConfig,
) *LLMVisionController {
	if cfg.ServoMap == nil {
		cfg.ServoMap = hardware.HardwareDefault()
	}
	if cfg.EmgPollInterval <= 0 {
		cfg.EmgPollInterval = 10 * time.Millisecond
	}
	if cfg.CommandInterval <= 0 {
		cfg.CommandInterval = 500 * time.Millisecond
	}
	if cfg.AutoTriggerDelay <= 0 {
		cfg.AutoTriggerDelay = 2 * time.Second
	}
	geometry := kinematics.DefaultGeometry()
	if cfg.Geometry != nil {
		geometry = *cfg.Geometry
	}
	return &LLMVisionController{
		detector: detector,
		trigger:  trigger,
		protocol: proto,
		cfg:      cfg,
		fk:       kinematics.NewForwardKinematics(geometry, cfg.HandBasePosition),
		ik:       kinematics.NewInverseKinematics(geometry, cfg.HandBasePosition),
		angles:   kinematics.Open(),
		logCh:    make(chan string, 10),
		sleep:    time.Sleep,
	}
}

// SetPlanner installs the LLM planner. Without one, every pickup uses the
// scripted grip logic.
func (c *LLMVisionController) SetPlanner(p movementPlanner) { c.planner = p }

// SetDepthService installs the depth service used to refine object
// distances before planning. Depth estimation blocks the pickup until the
// result is in; SetDepthStream is the non-blocking alternative.
func (c *LLMVisionController) SetDepthService(d depthRanger) { c.depth = d }

// SetDepthStream installs the asynchronous depth worker. Frames feed it
// during the idle camera poll and the newest completed result refines the
// object distances at pickup, so the loop never waits on the estimator.
func (c *LLMVisionController) SetDepthStream(s depthStreamer) { c.stream = s }

// SetHandTracker installs an external hand pose estimator. Its estimate is
// attached to the scene handed to the planner.
func (c *LLMVisionController) SetHandTracker(t HandTracker) { c.tracker = t }

// Logs returns a channel that receives log messages.
func (c *LLMVisionController) Logs() <-chan string { return c.logCh }

func (c *LLMVisionController) log(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// Trigger exposes the EMG trigger, for manual injection.
func (c *LLMVisionController) Trigger() *emg.Trigger { return c.trigger }

// JointAngles returns the last commanded pose.
func (c *LLMVisionController) JointAngles() kinematics.JointAngles { return c.angles }

// PendingCommands reports how many planned commands remain unexecuted.
func (c *LLMVisionController) PendingCommands() int {
	return len(c.commands) - c.cmdIndex
}

// Run drives Step until the context is canceled.
func (c *LLMVisionController) Run(ctx context.Context) error {
	if c.cfg.AutoTrigger {
		c.log("Auto-trigger mode: objects in view start a pickup")
	}
	if err := os.MkdirAll(c.cfg.TempDir, 0o755); err != nil {
		c.log("Temp dir unavailable: %v", err)
	}

	ticker := time.NewTicker(c.cfg.EmgPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log("Planner loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := c.Step(ctx); err != nil {
				return err
			}
		}
	}
}

// Step runs one loop iteration: execute the next planned command if a
// plan is in flight, otherwise watch for a trigger and plan a new pickup.
func (c *LLMVisionController) Step(ctx context.Context) error {
	if len(c.commands) > 0 && c.trigger.State() == emg.Executing {
		if c.cmdIndex < len(c.commands) {
			cmd := c.commands[c.cmdIndex]
			c.log("Step %d/%d: %s", c.cmdIndex+1, len(c.commands), cmd.Action)
			if err := c.executeMovementCommand(cmd); err != nil {
				return err
			}
			c.cmdIndex++
			c.sleep(c.cfg.CommandInterval)
			return nil
		}
		c.log("Plan complete")
		c.commands = nil
		c.cmdIndex = 0
		c.trigger.SetState(emg.Idle)
		if c.cfg.AutoTrigger {
			c.sleep(c.cfg.AutoTriggerDelay)
		}
		return nil
	}

	if c.stream != nil && time.Since(c.lastFrame) >= c.cfg.CameraPollInterval {
		c.lastFrame = time.Now()
		c.submitFrame()
	}

	var fired bool
	if c.cfg.AutoTrigger {
		var err error
		fired, err = c.checkAutoTrigger()
		if err != nil {
			c.log("Auto-trigger error: %v", err)
			return nil
		}
	} else {
		switch {
		case c.trigger.State() == emg.Triggered:
			fired = true
		default:
			var err error
			fired, err = c.trigger.Poll()
			if err != nil {
				c.log("EMG read error: %v", err)
				return nil
			}
		}
	}
	if !fired {
		return nil
	}

	c.log("Triggered")
	c.trigger.SetState(emg.Executing)
	return c.startPickup(ctx)
}

// submitFrame hands the current frame to the depth worker. Busy workers
// and frame save failures just drop the frame; the next poll retries.
func (c *LLMVisionController) submitFrame() {
	saver, ok := c.detector.(FrameSaver)
	if !ok {
		return
	}
	objects, err := c.detector.DetectObjects()
	if err != nil || len(objects) == 0 {
		return
	}
	path := c.saveFrame(saver)
	if path == "" {
		return
	}
	c.stream.Submit(path, objects)
}

func (c *LLMVisionController) saveFrame(saver FrameSaver) string {
	path := filepath.Join(c.cfg.TempDir,
		fmt.Sprintf("frame_%d.jpg", time.Now().UnixMilli()))
	if err := saver.SaveCurrentFrame(path); err != nil {
		return ""
	}
	return path
}

func (c *LLMVisionController) startPickup(ctx context.Context) error {
	framePath := ""
	if c.depth != nil || c.stream != nil {
		if saver, ok := c.detector.(FrameSaver); ok {
			framePath = c.saveFrame(saver)
		}
	}

	objects, err := c.detector.DetectObjects()
	if err != nil {
		c.log("Detection error: %v", err)
		c.trigger.SetState(emg.Idle)
		return nil
	}
	if len(objects) == 0 {
		c.log("No objects found")
		c.trigger.SetState(emg.Idle)
		return nil
	}

	switch {
	case c.stream != nil:
		if framePath != "" {
			c.stream.Submit(framePath, objects)
		}
		if depths, _ := c.stream.Latest(); len(depths) > 0 {
			mergeDepths(objects, depths)
		}
	case c.depth != nil && framePath != "":
		if depths, err := c.depth.ProcessImageWithCleanup(framePath, objects, true); err == nil {
			mergeDepths(objects, depths)
		} else {
			c.log("Depth refinement failed: %v", err)
		}
	}

	frameWidth, frameHeight := c.detector.FrameSize()
	best := vision.SelectBestObject(objects, frameWidth/2, frameHeight/2)
	if best == nil {
		c.trigger.SetState(emg.Idle)
		return nil
	}
	c.log("Target: %s (%.0fcm away)", best.Label, best.Distance*100)

	commands, err := c.planMovement(ctx, best, objects)
	if err != nil {
		c.log("LLM planning failed: %v", err)
		commands = nil
	}
	if len(commands) == 0 {
		return c.fallbackPickup(best)
	}

	c.log("Planning: %d steps", len(commands))
	c.commands = commands
	c.cmdIndex = 0
	return nil
}

func (c *LLMVisionController) planMovement(
	ctx context.Context,
	target *vision.DetectedObject,
	all []vision.DetectedObject,
) ([]MovementCommand, error) {
	if c.planner == nil {
		return nil, nil
	}

	others := make([]vision.DetectedObject, 0, len(all))
	for _, obj := range all {
		if obj.Label != target.Label {
			others = append(others, obj)
		}
	}

	var pose *HandPoseEstimate
	if c.tracker != nil {
		var err error
		pose, err = c.tracker.EstimateHandPose()
		if err != nil {
			c.log("Hand tracking failed: %v", err)
			pose = nil
		}
	}

	scene := &SceneState{
		TargetObject:        *target,
		ObjectDepthCm:       target.Distance * 100,
		HandPose:            pose,
		OtherObjects:        others,
		CameraFovHorizontal: 60.0,
		CameraFovVertical:   45.0,
	}
	return c.planner.GenerateMovementPlan(ctx, scene)
}

// mergeDepths replaces estimated distances with measured ones, pairing
// detections and depth entries by index.
func mergeDepths(objects []vision.DetectedObject, depths []vision.ObjectDepth) {
	for i := range objects {
		if i >= len(depths) {
			break
		}
		objects[i].Distance = depths[i].DepthCm / 100.0
	}
}

// fallbackPickup runs the scripted grip sequence for the selected object
// when the planner is unavailable.
func (c *LLMVisionController) fallbackPickup(target *vision.DetectedObject) error {
	c.log("Using fallback grip")
	objectType := vision.ClassifyObjectType(target.Label)
	grip := vision.GripForObjectType(objectType)

	seq := NewPickupSequence(grip)
	seq.sleep = c.sleep
	servoIDs := c.cfg.ServoMap.FingerIDs()
	for !seq.Complete() {
		if err := seq.Execute(c.protocol, servoIDs); err != nil {
			return err
		}
	}
	c.trigger.SetState(emg.Idle)
	return nil
}

func (c *LLMVisionController) executeMovementCommand(cmd MovementCommand) error {
	switch cmd.Action {
	case ActionOpenHand, ActionApproach, ActionRelease:
		c.angles = kinematics.Open()
		if err := c.sendJointAngles(c.angles); err != nil {
			return err
		}
	case ActionCloseHand:
		c.angles = kinematics.Closed()
		if err := c.sendJointAngles(c.angles); err != nil {
			return err
		}
	case ActionGrasp:
		if cmd.Parameters.GripStrength != nil {
			angle := *cmd.Parameters.GripStrength * 90.0
			c.angles.Thumb = angle * 0.8
			c.angles.Index = angle
			c.angles.Middle = angle
			c.angles.Ring = angle
			c.angles.Pinky = angle * 0.9
			if err := c.sendJointAngles(c.angles); err != nil {
				return err
			}
		}
	case ActionMoveToPosition:
		p := cmd.Parameters
		if p.TargetXCm != nil && p.TargetYCm != nil && p.TargetZCm != nil {
			target := kinematics.NewPosition3D(*p.TargetXCm, *p.TargetYCm, *p.TargetZCm)
			guess := c.angles
			c.angles = c.ik.SolveForGraspPosition(target, &guess)
			if err := c.sendJointAngles(c.angles); err != nil {
				return err
			}
		}
	case ActionRotateWrist:
		if cmd.Parameters.WristPitch != nil && cmd.Parameters.WristRoll != nil {
			pitch, roll := *cmd.Parameters.WristPitch, *cmd.Parameters.WristRoll
			c.angles.WristPitch = &pitch
			c.angles.WristRoll = &roll
			if err := c.sendJointAngles(c.angles); err != nil {
				return err
			}
		}
	case ActionRetreat:
		c.log("Retreat")
	case ActionWait:
		if cmd.Parameters.DurationMs != nil {
			c.sleep(time.Duration(*cmd.Parameters.DurationMs) * time.Millisecond)
		}
	}

	c.sleep(100 * time.Millisecond)
	return nil
}

// sendJointAngles writes every mapped finger plus any commanded wrist
// axis, then updates the kinematics base from the new palm center.
func (c *LLMVisionController) sendJointAngles(angles kinematics.JointAngles) error {
	fingers := angles.Fingers()
	for i, finger := range hardware.Fingers {
		cfg, ok := c.cfg.ServoMap.Get(finger)
		if !ok {
			continue
		}
		translated := cfg.TranslateAngle(fingers[i])
		if err := c.protocol.SendServoCommand(cfg.ID, finger.String(), translated); err != nil {
			return err
		}
	}

	if angles.WristPitch != nil {
		if err := c.protocol.SendServoCommand(10, "WristPitch", *angles.WristPitch); err != nil {
			return err
		}
	}
	if angles.WristRoll != nil {
		if err := c.protocol.SendServoCommand(11, "WristRoll", *angles.WristRoll); err != nil {
			return err
		}
	}

	c.ik.UpdateBasePosition(c.fk.PalmCenter(angles))
	return nil
}

func (c *LLMVisionController) checkAutoTrigger() (bool, error) {
	if c.trigger.State() != emg.Idle {
		return false, nil
	}
	objects, err := c.detector.DetectObjects()
	if err != nil {
		return false, err
	}
	if len(objects) == 0 {
		return false, nil
	}
	return c.trigger.Inject(c.trigger.Threshold() + 1), nil
}
