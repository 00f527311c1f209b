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
	"github.com/dexhand/dexhand/pkg/vision"
)

type AutoCommand struct {
	Config      string `long:"config" short:"c" default:"dexhand.yaml" description:"Hand configuration file"`
	Model       string `long:"model" description:"Override the planner model name"`
	BaseURL     string `long:"base-url" description:"OpenAI-compatible API endpoint"`
	AutoTrigger bool   `long:"auto-trigger" description:"Start a pickup whenever objects are in view"`
	NoDepth     bool   `long:"no-depth" description:"Skip the depth estimation subprocess"`
	Python      string `long:"python" default:"python3" description:"Python interpreter for the depth service"`
	DepthScript string `long:"depth-script" default:"depth_service.py" description:"Depth service script path"`
	DemoObject  string `long:"demo-object" description:"Seed the detector with a fake object label (no camera needed)"`
}

func (c *AutoCommand) Execute(args []string) error {
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

	ctrlCfg := control.DefaultLLMControllerConfig()
	ctrlCfg.AutoTrigger = c.AutoTrigger
	ctrlCfg.Geometry = cfg.Geometry
	if sm := loadServoMap(); sm != nil {
		ctrlCfg.ServoMap = sm
	}
	ctrl := control.NewLLMVisionController(detector, trigger, proto, ctrlCfg)

	planner, err := control.NewPlanner()
	if err != nil {
		fmt.Printf("LLM planner unavailable: %v\n", err)
		fmt.Println("Continuing with the scripted fallback grip.")
	} else {
		if c.Model != "" {
			planner.WithModel(c.Model)
		}
		if c.BaseURL != "" {
			planner.WithBaseURL(c.BaseURL)
		}
		ctrl.SetPlanner(planner)
		fmt.Println("LLM planner initialized.")
	}

	if !c.NoDepth {
		depth, err := vision.StartDepthService(c.Python, c.DepthScript)
		if err != nil {
			fmt.Printf("Depth service unavailable: %v\n", err)
			fmt.Println("Continuing with estimated depths.")
		} else {
			defer depth.Close()
			stream := vision.NewDepthStream(depth)
			defer stream.Close()
			ctrl.SetDepthStream(stream)
			fmt.Println("Depth service initialized.")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go drainLogs(ctrl.Logs())

	fmt.Println("Planner loop running. Ctrl-C to stop.")
	if err := ctrl.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	fmt.Println("Stopped.")
	return nil
}
