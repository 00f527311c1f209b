package protocol

import "testing"

func TestMockRecordsCommands(t *testing.T) {
	m := NewMock()

	if err := m.SendServoCommand(5, "Thumb", 45); err != nil {
		t.Fatalf("SendServoCommand failed: %v", err)
	}
	if err := m.SendServoCommand(4, "Index", 90); err != nil {
		t.Fatalf("SendServoCommand failed: %v", err)
	}

	cmds := m.Commands()
	if len(cmds) != 2 {
		t.Fatalf("got %d commands, want 2", len(cmds))
	}
	want := SentCommand{ServoID: 5, FingerName: "Thumb", Angle: 45}
	if cmds[0] != want {
		t.Errorf("commands[0] = %+v, want %+v", cmds[0], want)
	}

	last, ok := m.LastCommand()
	if !ok || last.ServoID != 4 {
		t.Errorf("LastCommand = %+v, %v", last, ok)
	}
}

func TestMockRaw(t *testing.T) {
	m := NewMock()
	if err := m.SendRaw("S1:90\n"); err != nil {
		t.Fatalf("SendRaw failed: %v", err)
	}
	raw := m.Raw()
	if len(raw) != 1 || raw[0] != "S1:90\n" {
		t.Errorf("Raw = %v", raw)
	}
}

func TestMockReset(t *testing.T) {
	m := NewMock()
	m.SendServoCommand(1, "Ring", 10)
	m.SendRaw("ping\n")
	m.Reset()
	if len(m.Commands()) != 0 || len(m.Raw()) != 0 {
		t.Error("Reset did not clear recorded commands")
	}
	if _, ok := m.LastCommand(); ok {
		t.Error("LastCommand should report empty after Reset")
	}
}

func TestSmartBusIDRange(t *testing.T) {
	tests := []struct {
		name     string
		ids      []uint8
		min, max int
	}{
		{"empty defaults", nil, 1, 6},
		{"single", []uint8{3}, 3, 3},
		{"unsorted", []uint8{4, 1, 5, 2}, 1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max := idRange(tt.ids)
			if min != tt.min || max != tt.max {
				t.Errorf("idRange(%v) = (%d, %d), want (%d, %d)", tt.ids, min, max, tt.min, tt.max)
			}
		})
	}
}
