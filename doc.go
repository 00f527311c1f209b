// Package dexhand drives a five-finger robotic hand from an EMG trigger
// and camera-based object detection.
//
// A flex of the forearm (read as a scalar EMG value over serial) arms the
// controller; the vision pipeline picks the best object in view, a grip
// pattern or an LLM-generated movement plan is selected, and the resulting
// joint angles are streamed to the servos.
//
// # Installation
//
//	go install github.com/dexhand/dexhand/cmd/dexhand@latest
//
// # Usage
//
// First, scan for hardware and write an initial configuration:
//
//	hand-info
//
// Then run the scripted pickup loop, or the LLM-planned loop:
//
//	dexhand run
//	dexhand auto
//
// The live EMG signal and commanded finger angles can be watched with:
//
//	dexhand monitor
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/dexhand: CLI with run, auto and monitor commands
//   - cmd/hand-info: hardware discovery and initial configuration
//   - pkg/hand: joint/finger/wrist ownership tree
//   - pkg/hardware: motor abstraction and servo mapping
//   - pkg/kinematics: forward/inverse kinematics for the hand geometry
//   - pkg/emg: debounced EMG trigger state machine
//   - pkg/vision: object detection types, grip patterns, depth service
//   - pkg/protocol: servo wire protocols (text serial, Feetech bus, mock)
//   - pkg/control: pickup sequence FSM and the control loops
//   - pkg/config: YAML hand configuration
package dexhand
