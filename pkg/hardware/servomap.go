package hardware

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FingerName identifies one of the five fingers.
type FingerName int

const (
	Thumb FingerName = iota
	Index
	Middle
	Ring
	Pinky
)

func (f FingerName) String() string {
	switch f {
	case Thumb:
		return "Thumb"
	case Index:
		return "Index"
	case Middle:
		return "Middle"
	case Ring:
		return "Ring"
	case Pinky:
		return "Pinky"
	}
	return "Unknown"
}

// Fingers lists all fingers in thumb-to-pinky order.
var Fingers = []FingerName{Thumb, Index, Middle, Ring, Pinky}

// ServoConfig holds the per-finger servo wiring: bus ID, rotation direction
// and the angle limits the servo horn can reach.
type ServoConfig struct {
	ID       uint8   `yaml:"id" json:"id"`
	Inverted bool    `yaml:"inverted" json:"inverted"`
	MinAngle float64 `yaml:"min_angle" json:"min_angle"`
	MaxAngle float64 `yaml:"max_angle" json:"max_angle"`
}

// TranslateAngle clamps the requested angle to the servo limits and mirrors
// it around 90 degrees for inverted servos.
func (c ServoConfig) TranslateAngle(angle float64) float64 {
	clamped := angle
	if clamped < c.MinAngle {
		clamped = c.MinAngle
	}
	if clamped > c.MaxAngle {
		clamped = c.MaxAngle
	}
	if c.Inverted {
		return 180 - clamped
	}
	return clamped
}

// ServoMap maps fingers to their servo configs.
type ServoMap struct {
	Servos map[FingerName]ServoConfig
}

// HardwareDefault returns the servo map matching the stock hand wiring. The
// index servo is mounted mirrored and runs inverted.
func HardwareDefault() *ServoMap {
	return &ServoMap{Servos: map[FingerName]ServoConfig{
		Ring:   {ID: 1, MinAngle: 0, MaxAngle: 180},
		Middle: {ID: 2, MinAngle: 0, MaxAngle: 180},
		Pinky:  {ID: 3, MinAngle: 0, MaxAngle: 180},
		Index:  {ID: 4, Inverted: true, MinAngle: 0, MaxAngle: 180},
		Thumb:  {ID: 5, MinAngle: 0, MaxAngle: 180},
	}}
}

// SimpleMapping returns a servo map with sequential IDs starting at zero,
// thumb first.
func SimpleMapping() *ServoMap {
	return &ServoMap{Servos: map[FingerName]ServoConfig{
		Thumb:  {ID: 0, MinAngle: 0, MaxAngle: 180},
		Index:  {ID: 1, MinAngle: 0, MaxAngle: 180},
		Middle: {ID: 2, MinAngle: 0, MaxAngle: 180},
		Ring:   {ID: 3, MinAngle: 0, MaxAngle: 180},
		Pinky:  {ID: 4, MinAngle: 0, MaxAngle: 180},
	}}
}

// Get returns the servo config for a finger.
func (m *ServoMap) Get(finger FingerName) (ServoConfig, bool) {
	cfg, ok := m.Servos[finger]
	return cfg, ok
}

// GetByName looks a finger up by name, case-insensitively. It also accepts
// the colloquial aliases "pointer" for the index finger and "left" for the
// pinky.
func (m *ServoMap) GetByName(name string) (FingerName, ServoConfig, bool) {
	finger, ok := fingerByName(name)
	if !ok {
		return 0, ServoConfig{}, false
	}
	cfg, ok := m.Servos[finger]
	return finger, cfg, ok
}

func fingerByName(name string) (FingerName, bool) {
	switch strings.ToLower(name) {
	case "thumb":
		return Thumb, true
	case "index", "pointer":
		return Index, true
	case "middle":
		return Middle, true
	case "ring":
		return Ring, true
	case "pinky", "left":
		return Pinky, true
	}
	return 0, false
}

// FingerIDs flattens the map to bare servo IDs keyed by finger name, the
// shape the scripted pickup sequence consumes.
func (m *ServoMap) FingerIDs() map[string]uint8 {
	ids := make(map[string]uint8, len(m.Servos))
	for finger, cfg := range m.Servos {
		ids[finger.String()] = cfg.ID
	}
	return ids
}

// LoadServoMap reads a servo map from a YAML file keyed by finger name, as
// written by the identification tool.
func LoadServoMap(path string) (*ServoMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read servo map: %w", err)
	}

	var byName map[string]ServoConfig
	if err := yaml.Unmarshal(data, &byName); err != nil {
		return nil, fmt.Errorf("parse servo map YAML: %w", err)
	}

	m := &ServoMap{Servos: make(map[FingerName]ServoConfig, len(byName))}
	for name, cfg := range byName {
		finger, ok := fingerByName(name)
		if !ok {
			return nil, fmt.Errorf("servo map: unknown finger %q", name)
		}
		m.Servos[finger] = cfg
	}
	if len(m.Servos) == 0 {
		return nil, fmt.Errorf("servo map %s maps no fingers", path)
	}
	return m, nil
}

// Save writes the map as YAML keyed by finger name.
func (m *ServoMap) Save(path string) error {
	byName := make(map[string]ServoConfig, len(m.Servos))
	for finger, cfg := range m.Servos {
		byName[finger.String()] = cfg
	}
	data, err := yaml.Marshal(byName)
	if err != nil {
		return fmt.Errorf("marshal servo map: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write servo map: %w", err)
	}
	return nil
}
