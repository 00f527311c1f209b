package hand

// Hand assembles fingers and a wrist into one articulated unit.
type Hand struct {
	fingers     []*Finger
	wrist       *Wrist
	initialized bool
}

func New(fingers []*Finger, wrist *Wrist) *Hand {
	return &Hand{fingers: fingers, wrist: wrist}
}

// Initialize enables every motor in the hand.
func (h *Hand) Initialize() error {
	for _, finger := range h.fingers {
		if err := finger.Enable(); err != nil {
			return err
		}
	}
	if err := h.wrist.Enable(); err != nil {
		return err
	}
	h.initialized = true
	return nil
}

// Shutdown disables every motor in the hand.
func (h *Hand) Shutdown() error {
	for _, finger := range h.fingers {
		if err := finger.Disable(); err != nil {
			return err
		}
	}
	if err := h.wrist.Disable(); err != nil {
		return err
	}
	h.initialized = false
	return nil
}

func (h *Hand) Initialized() bool { return h.initialized }

// SetFingerPose commands one finger by index.
func (h *Hand) SetFingerPose(fingerID int, angles []float64) error {
	if fingerID < 0 || fingerID >= len(h.fingers) {
		return &InvalidFingerIDError{FingerID: fingerID}
	}
	return h.fingers[fingerID].SetPose(angles)
}

// FingerPose reports one finger's joint angles by index.
func (h *Hand) FingerPose(fingerID int) ([]float64, error) {
	if fingerID < 0 || fingerID >= len(h.fingers) {
		return nil, &InvalidFingerIDError{FingerID: fingerID}
	}
	return h.fingers[fingerID].Pose()
}

func (h *Hand) SetWristOrientation(pitch, roll, yaw float64) error {
	return h.wrist.SetOrientation(pitch, roll, yaw)
}

func (h *Hand) WristOrientation() (pitch, roll, yaw float64) {
	return h.wrist.Orientation()
}

func (h *Hand) FingerCount() int { return len(h.fingers) }

// Finger returns the finger at index, or nil if out of range.
func (h *Hand) Finger(fingerID int) *Finger {
	if fingerID < 0 || fingerID >= len(h.fingers) {
		return nil
	}
	return h.fingers[fingerID]
}

func (h *Hand) Wrist() *Wrist { return h.wrist }
