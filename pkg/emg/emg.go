// Package emg reads a muscle-activity sensor and turns sustained activation
// into debounced trigger events. The sensor streams ASCII decimal samples,
// one per line, in the ADC range 0..1023.
package emg

import (
	"time"
)

// MaxSample is the sensor's ADC ceiling. Parsed samples are clipped to it.
const MaxSample = 1023

// DefaultThreshold is the activation level that counts as a muscle flex.
const DefaultThreshold = 600

// DefaultDebounce is the minimum gap between two trigger events.
const DefaultDebounce = 200 * time.Millisecond

// State tracks where the trigger cycle is.
type State int

const (
	// Idle means the trigger is armed and waiting for activation.
	Idle State = iota
	// Triggered means activation was seen and not yet acted on.
	Triggered
	// Executing means a consumer is acting on the trigger.
	Executing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Triggered:
		return "triggered"
	case Executing:
		return "executing"
	}
	return "unknown"
}

// Source produces sensor samples. ReadValue returns ok=false when no
// complete sample is available yet; that is not an error.
type Source interface {
	ReadValue() (value uint16, ok bool, err error)
}

// Trigger is the debounced activation detector. A trigger fires only from
// the Idle state, and no sooner than the debounce interval after the
// previous one. Consumers drive the state onward with SetState.
type Trigger struct {
	source      Source
	threshold   uint16
	debounce    time.Duration
	lastTrigger time.Time
	hasFired    bool
	state       State

	now func() time.Time
}

// NewTrigger builds a trigger over a sample source. A nil source is allowed
// for injection-only use.
func NewTrigger(source Source, threshold uint16) *Trigger {
	return &Trigger{
		source:    source,
		threshold: threshold,
		debounce:  DefaultDebounce,
		state:     Idle,
		now:       time.Now,
	}
}

func (t *Trigger) SetThreshold(threshold uint16) { t.threshold = threshold }
func (t *Trigger) Threshold() uint16             { return t.threshold }

func (t *Trigger) SetDebounce(d time.Duration) { t.debounce = d }

func (t *Trigger) State() State         { return t.state }
func (t *Trigger) SetState(state State) { t.state = state }

// Poll reads one sample from the source and reports whether it fired a
// trigger. No sample available means no trigger.
func (t *Trigger) Poll() (bool, error) {
	if t.source == nil {
		return false, nil
	}
	value, ok, err := t.source.ReadValue()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	return t.evaluate(value), nil
}

// Inject feeds a sample directly, bypassing the source. Used by tests and
// the keyboard fallback in the monitor UI.
func (t *Trigger) Inject(value uint16) bool {
	return t.evaluate(value)
}

func (t *Trigger) evaluate(value uint16) bool {
	if value < t.threshold || t.state != Idle {
		return false
	}
	if t.hasFired && t.now().Sub(t.lastTrigger) < t.debounce {
		return false
	}
	t.state = Triggered
	t.lastTrigger = t.now()
	t.hasFired = true
	return true
}
