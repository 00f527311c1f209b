package vision

import (
	"bufio"
	"encoding/json"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// DepthService drives the external monocular depth estimator as a child
// process, exchanging newline-delimited JSON over its pipes. Calls are
// serialized; the stream wrapper below adds non-blocking use.
type DepthService struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  *bufio.Writer
	stdout *bufio.Reader
}

type depthRequest struct {
	Command       string   `json:"command"`
	ImagePath     string   `json:"image_path,omitempty"`
	BoundingBoxes [][4]int `json:"bounding_boxes,omitempty"`
}

type depthResponse struct {
	Status        string        `json:"status"`
	Error         *string       `json:"error"`
	FocalLengthPx *float64      `json:"focal_length_px"`
	DepthMapShape []int         `json:"depth_map_shape"`
	Objects       []ObjectDepth `json:"objects"`
}

// ObjectDepth is the estimator's answer for one bounding box. Depths are
// taken at the box center; mean and min cover the whole box.
type ObjectDepth struct {
	BBox            [4]int  `json:"bbox"`
	DepthMeters     float64 `json:"depth_meters"`
	DepthCm         float64 `json:"depth_cm"`
	DepthMeanMeters float64 `json:"depth_mean_meters"`
	DepthMinMeters  float64 `json:"depth_min_meters"`
}

// StartDepthService launches the estimator script and waits for it to load
// its model: a fixed grace period, then a ping.
func StartDepthService(pythonPath, scriptPath string) (*DepthService, error) {
	if pythonPath == "" {
		pythonPath = "python3"
	}
	if scriptPath == "" {
		scriptPath = "depth_service.py"
	}

	cmd := exec.Command(pythonPath, scriptPath)
	cmd.Stderr = os.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(err, "depth service stdin")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "depth service stdout")
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(err, "start depth service")
	}

	s := &DepthService{
		cmd:    cmd,
		stdin:  bufio.NewWriter(stdin),
		stdout: bufio.NewReader(stdout),
	}

	// Model load takes a while; give it a grace period before probing.
	time.Sleep(2 * time.Second)
	if err := s.Ping(); err != nil {
		s.Close()
		return nil, errors.Wrap(err, "depth service not ready")
	}

	return s, nil
}

// ProcessImage asks the estimator for per-object depths in the image.
func (s *DepthService) ProcessImage(imagePath string, objects []DetectedObject) ([]ObjectDepth, error) {
	return s.ProcessImageWithCleanup(imagePath, objects, false)
}

// ProcessImageWithCleanup optionally removes the image file afterwards,
// for frames written to temp storage just for this call.
func (s *DepthService) ProcessImageWithCleanup(imagePath string, objects []DetectedObject, cleanup bool) ([]ObjectDepth, error) {
	boxes := make([][4]int, len(objects))
	for i, obj := range objects {
		b := obj.BoundingBox
		boxes[i] = [4]int{b.X, b.Y, b.Width, b.Height}
	}

	resp, err := s.roundTrip(depthRequest{
		Command:       "process",
		ImagePath:     imagePath,
		BoundingBoxes: boxes,
	})

	if cleanup {
		os.Remove(imagePath)
	}
	if err != nil {
		return nil, err
	}

	if resp.Status != "success" {
		msg := "unknown"
		if resp.Error != nil {
			msg = *resp.Error
		}
		return nil, errors.Errorf("depth service error: %s", msg)
	}
	return resp.Objects, nil
}

// Ping checks the estimator is alive and responding.
func (s *DepthService) Ping() error {
	resp, err := s.roundTrip(depthRequest{Command: "ping"})
	if err != nil {
		return err
	}
	if resp.Status != "ok" {
		return errors.Errorf("depth service ping: status %q", resp.Status)
	}
	return nil
}

func (s *DepthService) roundTrip(req depthRequest) (*depthResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "encode depth request")
	}
	payload = append(payload, '\n')
	if _, err := s.stdin.Write(payload); err != nil {
		return nil, errors.Wrap(err, "write depth request")
	}
	if err := s.stdin.Flush(); err != nil {
		return nil, errors.Wrap(err, "flush depth request")
	}

	line, err := s.stdout.ReadBytes('\n')
	if err != nil {
		return nil, errors.Wrap(err, "read depth response")
	}
	var resp depthResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, errors.Wrap(err, "parse depth response")
	}
	return &resp, nil
}

// Close asks the estimator to exit, then reaps the process.
func (s *DepthService) Close() error {
	s.mu.Lock()
	s.stdin.WriteString(`{"command":"exit"}` + "\n")
	s.stdin.Flush()
	s.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- s.cmd.Wait() }()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		s.cmd.Process.Kill()
		return <-done
	}
}
