package protocol

import "sync"

// SentCommand is one recorded servo command.
type SentCommand struct {
	ServoID    uint8
	FingerName string
	Angle      float64
}

// Mock records commands instead of sending them. Safe for concurrent use.
type Mock struct {
	mu       sync.Mutex
	commands []SentCommand
	raw      []string
}

func NewMock() *Mock { return &Mock{} }

func (m *Mock) SendServoCommand(servoID uint8, fingerName string, angle float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = append(m.commands, SentCommand{ServoID: servoID, FingerName: fingerName, Angle: angle})
	return nil
}

func (m *Mock) SendRaw(command string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.raw = append(m.raw, command)
	return nil
}

// Commands returns a copy of every recorded servo command.
func (m *Mock) Commands() []SentCommand {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentCommand(nil), m.commands...)
}

// Raw returns a copy of every recorded raw command.
func (m *Mock) Raw() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.raw...)
}

// LastCommand returns the most recent servo command, if any.
func (m *Mock) LastCommand() (SentCommand, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.commands) == 0 {
		return SentCommand{}, false
	}
	return m.commands[len(m.commands)-1], true
}

// Reset discards all recorded commands.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = nil
	m.raw = nil
}
