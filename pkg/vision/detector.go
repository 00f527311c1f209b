package vision

import "os"

// ObjectDetector produces detections for the current camera frame.
type ObjectDetector interface {
	DetectObjects() ([]DetectedObject, error)
	FrameSize() (width, height int)
}

// MockDetector serves a scripted set of detections. Used by tests and by
// the control loops when no camera is attached.
type MockDetector struct {
	frameWidth  int
	frameHeight int
	objects     []DetectedObject
}

func NewMockDetector(frameWidth, frameHeight int) *MockDetector {
	return &MockDetector{frameWidth: frameWidth, frameHeight: frameHeight}
}

func (d *MockDetector) AddObject(obj DetectedObject) {
	d.objects = append(d.objects, obj)
}

func (d *MockDetector) ClearObjects() {
	d.objects = nil
}

func (d *MockDetector) DetectObjects() ([]DetectedObject, error) {
	return append([]DetectedObject(nil), d.objects...), nil
}

func (d *MockDetector) FrameSize() (int, int) {
	return d.frameWidth, d.frameHeight
}

// stub frame: a bare SOI/EOI JPEG, enough for consumers that only need a
// file on disk.
var mockFrame = []byte{0xFF, 0xD8, 0xFF, 0xD9}

// SaveCurrentFrame writes a placeholder frame so the depth pipeline can run
// without a camera attached.
func (d *MockDetector) SaveCurrentFrame(path string) error {
	return os.WriteFile(path, mockFrame, 0o644)
}
