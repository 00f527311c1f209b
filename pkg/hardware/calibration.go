package hardware

import (
	"encoding/json"
	"fmt"
	"os"
)

// ServoCalibration holds calibration data for a single smart servo.
type ServoCalibration struct {
	ID           int `json:"id"`
	DriveMode    int `json:"drive_mode"`
	HomingOffset int `json:"homing_offset"`
	RangeMin     int `json:"range_min"`
	RangeMax     int `json:"range_max"`
}

// Calibration holds calibration data for all servos, keyed by finger name.
type Calibration map[string]ServoCalibration

// LoadCalibration loads calibration data from a JSON file.
func LoadCalibration(path string) (Calibration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calibration file: %w", err)
	}

	var cal Calibration
	if err := json.Unmarshal(data, &cal); err != nil {
		return nil, fmt.Errorf("parse calibration JSON: %w", err)
	}

	return cal, nil
}

// Save writes calibration data to a JSON file.
func (c Calibration) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal calibration: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write calibration file: %w", err)
	}
	return nil
}

// Normalize converts a raw servo count to a normalized value in [-100, 100].
func (c ServoCalibration) Normalize(raw int) float64 {
	rangeSize := float64(c.RangeMax - c.RangeMin)
	if rangeSize == 0 {
		return 0
	}
	return (float64(raw-c.RangeMin)/rangeSize)*200 - 100
}

// Denormalize converts a normalized value [-100, 100] to a raw servo count.
func (c ServoCalibration) Denormalize(norm float64) int {
	rangeSize := float64(c.RangeMax - c.RangeMin)
	return int((norm+100)/200*rangeSize) + c.RangeMin
}

// ServoIDs returns the bus IDs for all servos in the calibration, in
// thumb-to-pinky order for finger entries.
func (c Calibration) ServoIDs() []int {
	ids := make([]int, 0, len(c))
	for _, finger := range Fingers {
		if sc, ok := c[finger.String()]; ok {
			ids = append(ids, sc.ID)
		}
	}
	for name, sc := range c {
		if _, _, isFinger := HardwareDefault().GetByName(name); !isFinger {
			ids = append(ids, sc.ID)
		}
	}
	return ids
}

// ByID returns the entry name and calibration for a given servo ID.
func (c Calibration) ByID(id int) (string, ServoCalibration, bool) {
	for name, sc := range c {
		if sc.ID == id {
			return name, sc, true
		}
	}
	return "", ServoCalibration{}, false
}
