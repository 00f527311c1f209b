package hardware

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTranslateAngle(t *testing.T) {
	tests := []struct {
		name  string
		cfg   ServoConfig
		angle float64
		want  float64
	}{
		{"normal passthrough", ServoConfig{MinAngle: 0, MaxAngle: 180}, 90, 90},
		{"clamp low", ServoConfig{MinAngle: 10, MaxAngle: 170}, 0, 10},
		{"clamp high", ServoConfig{MinAngle: 10, MaxAngle: 170}, 180, 170},
		{"inverted zero", ServoConfig{Inverted: true, MinAngle: 0, MaxAngle: 180}, 0, 180},
		{"inverted midpoint", ServoConfig{Inverted: true, MinAngle: 0, MaxAngle: 180}, 90, 90},
		{"inverted full", ServoConfig{Inverted: true, MinAngle: 0, MaxAngle: 180}, 180, 0},
		{"inverted after clamp", ServoConfig{Inverted: true, MinAngle: 20, MaxAngle: 160}, 0, 160},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.TranslateAngle(tt.angle); got != tt.want {
				t.Errorf("TranslateAngle(%v) = %v, want %v", tt.angle, got, tt.want)
			}
		})
	}
}

func TestHardwareDefaultMapping(t *testing.T) {
	m := HardwareDefault()
	wantIDs := map[FingerName]uint8{Ring: 1, Middle: 2, Pinky: 3, Index: 4, Thumb: 5}
	for finger, wantID := range wantIDs {
		cfg, ok := m.Get(finger)
		if !ok {
			t.Fatalf("missing config for %s", finger)
		}
		if cfg.ID != wantID {
			t.Errorf("%s servo ID = %d, want %d", finger, cfg.ID, wantID)
		}
	}
	idx, _ := m.Get(Index)
	if !idx.Inverted {
		t.Error("index servo should be inverted in hardware default mapping")
	}
}

func TestSimpleMappingSequentialIDs(t *testing.T) {
	m := SimpleMapping()
	for i, finger := range Fingers {
		cfg, ok := m.Get(finger)
		if !ok {
			t.Fatalf("missing config for %s", finger)
		}
		if cfg.ID != uint8(i) {
			t.Errorf("%s servo ID = %d, want %d", finger, cfg.ID, i)
		}
		if cfg.Inverted {
			t.Errorf("%s should not be inverted in simple mapping", finger)
		}
	}
}

func TestServoMapRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "servo_map.yaml")
	if err := HardwareDefault().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadServoMap(path)
	if err != nil {
		t.Fatalf("LoadServoMap failed: %v", err)
	}
	if len(loaded.Servos) != 5 {
		t.Fatalf("loaded %d fingers, want 5", len(loaded.Servos))
	}
	idx, ok := loaded.Get(Index)
	if !ok {
		t.Fatal("missing index finger after round trip")
	}
	if idx.ID != 4 || !idx.Inverted {
		t.Errorf("Index = %+v, want ID 4 inverted", idx)
	}
}

func TestLoadServoMapRejectsUnknownFinger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "servo_map.yaml")
	data := []byte("Toe:\n  id: 1\n  min_angle: 0\n  max_angle: 180\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadServoMap(path); err == nil {
		t.Fatal("expected error for unknown finger name")
	}
}

func TestLoadServoMapMissingFile(t *testing.T) {
	if _, err := LoadServoMap("/nonexistent/servo_map.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFingerIDs(t *testing.T) {
	ids := HardwareDefault().FingerIDs()
	want := map[string]uint8{"Ring": 1, "Middle": 2, "Pinky": 3, "Index": 4, "Thumb": 5}
	if len(ids) != len(want) {
		t.Fatalf("FingerIDs has %d entries, want %d", len(ids), len(want))
	}
	for name, id := range want {
		if ids[name] != id {
			t.Errorf("FingerIDs[%s] = %d, want %d", name, ids[name], id)
		}
	}
}

func TestGetByName(t *testing.T) {
	m := HardwareDefault()
	tests := []struct {
		name   string
		finger FingerName
		ok     bool
	}{
		{"thumb", Thumb, true},
		{"Index", Index, true},
		{"pointer", Index, true},
		{"left", Pinky, true},
		{"PINKY", Pinky, true},
		{"toe", 0, false},
	}

	for _, tt := range tests {
		finger, _, ok := m.GetByName(tt.name)
		if ok != tt.ok {
			t.Errorf("GetByName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			continue
		}
		if ok && finger != tt.finger {
			t.Errorf("GetByName(%q) = %s, want %s", tt.name, finger, tt.finger)
		}
	}
}
