package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dexhand/dexhand/pkg/config"
	"github.com/dexhand/dexhand/pkg/control"
	"github.com/dexhand/dexhand/pkg/emg"
	"github.com/dexhand/dexhand/pkg/hardware"
	"github.com/dexhand/dexhand/pkg/protocol"
	"github.com/dexhand/dexhand/pkg/vision"
)

// Files written by hand-info next to dexhand.yaml.
const (
	servoMapFile    = "servo_map.yaml"
	calibrationFile = "calibration.json"
)

type RunCommand struct {
	Config     string `long:"config" short:"c" default:"dexhand.yaml" description:"Hand configuration file"`
	DemoObject string `long:"demo-object" description:"Seed the detector with a fake object label (no camera needed)"`
}

func (c *RunCommand) Execute(args []string) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "No configuration found at %s. Run 'hand-info' first.\n", c.Config)
		os.Exit(1)
	}

	proto, err := openProtocol(cfg.Communication)
	if err != nil {
		return err
	}
	if closer, ok := proto.(io.Closer); ok {
		defer closer.Close()
	}

	trigger, src, err := openTrigger(cfg.EMG)
	if err != nil {
		return err
	}
	if src != nil {
		defer src.Close()
	}

	detector := vision.NewMockDetector(640, 480)
	if c.DemoObject != "" {
		detector.AddObject(demoObject(c.DemoObject))
	}

	runCfg := control.DefaultVisionControllerConfig()
	if sm := loadServoMap(); sm != nil {
		runCfg.FingerServoMap = sm.FingerIDs()
	}
	ctrl := control.NewVisionController(detector, trigger, proto, runCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go drainLogs(ctrl.Logs())

	fmt.Printf("Pickup loop running (threshold %d). Ctrl-C to stop.\n", trigger.Threshold())
	if err := ctrl.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	fmt.Println("Stopped.")
	return nil
}

func openProtocol(cfg config.CommunicationConfig) (protocol.ServoProtocol, error) {
	switch cfg.Protocol {
	case config.ProtocolSerial:
		return protocol.OpenTextSerial(cfg.SerialPort, cfg.BaudRate)
	case config.ProtocolFeetech:
		cal, err := hardware.LoadCalibration(calibrationFile)
		if err != nil {
			fmt.Println("No servo calibration found; commanding the full horn range.")
			cal = nil
		}
		return protocol.OpenSmartBus(cfg.SerialPort, nil, cal)
	default:
		return protocol.NewMock(), nil
	}
}

// loadServoMap reads the finger identification recorded by hand-info, or
// nil when none exists.
func loadServoMap() *hardware.ServoMap {
	sm, err := hardware.LoadServoMap(servoMapFile)
	if err != nil {
		fmt.Printf("No servo map at %s; using stock wiring.\n", servoMapFile)
		return nil
	}
	return sm
}

func openTrigger(cfg config.EMGConfig) (*emg.Trigger, *emg.SerialSource, error) {
	threshold := cfg.Threshold
	if threshold == 0 {
		threshold = emg.DefaultThreshold
	}

	if !cfg.Enabled || cfg.Port == "" {
		fmt.Println("EMG disabled: triggers are keyboard-injected only.")
		return emg.NewTrigger(nil, threshold), nil, nil
	}

	baud := cfg.BaudRate
	if baud == 0 {
		baud = 115200
	}
	src, err := emg.OpenSerialSource(cfg.Port, baud)
	if err != nil {
		return nil, nil, err
	}
	return emg.NewTrigger(src, threshold), src, nil
}

func demoObject(label string) vision.DetectedObject {
	return vision.DetectedObject{
		Label:       label,
		Confidence:  0.9,
		BoundingBox: vision.BoundingBox{X: 300, Y: 220, Width: 40, Height: 60},
		Distance:    0.25,
	}
}

func drainLogs(logs <-chan string) {
	for msg := range logs {
		fmt.Println(msg)
	}
}
