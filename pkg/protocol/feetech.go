package protocol

import (
	"context"
	"math"
	"time"

	"github.com/hipsterbrown/feetech-servo/feetech"
	"github.com/pkg/errors"

	"github.com/dexhand/dexhand/pkg/hardware"
)

// smart servo bus geometry: STS-series servos count 0..4095 over 360
// degrees of horn travel.
const servoCountMax = 4095

// SmartBus drives STS-series smart servos over their half-duplex bus. It
// maps the protocol's 0..180 degree commands onto the servo count range,
// through the recorded per-servo range when a calibration is present.
type SmartBus struct {
	bus     *feetech.Bus
	servos  map[uint8]*feetech.Servo
	cal     hardware.Calibration
	model   *feetech.Model
	timeout time.Duration
}

// OpenSmartBus opens the servo bus and resolves the given servo IDs by
// scanning, so commands fail fast when a servo is missing. A nil
// calibration commands the full horn travel.
func OpenSmartBus(portName string, ids []uint8, cal hardware.Calibration) (*SmartBus, error) {
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     portName,
		BaudRate: 1_000_000,
		Protocol: feetech.ProtocolSTS,
		Timeout:  100 * time.Millisecond,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open servo bus %s", portName)
	}

	sb := &SmartBus{
		bus:     bus,
		servos:  make(map[uint8]*feetech.Servo, len(ids)),
		cal:     cal,
		timeout: 2 * time.Second,
	}

	ctx, cancel := context.WithTimeout(context.Background(), sb.timeout)
	defer cancel()

	min, max := idRange(ids)
	found, err := bus.Scan(ctx, min, max)
	if err != nil {
		bus.Close()
		return nil, errors.Wrap(err, "scan servo bus")
	}
	byID := make(map[int]feetech.FoundServo, len(found))
	for _, fs := range found {
		byID[fs.ID] = fs
	}
	for _, id := range ids {
		fs, ok := byID[int(id)]
		if !ok {
			bus.Close()
			return nil, errors.Errorf("servo %d not found on %s", id, portName)
		}
		sb.servos[id] = feetech.NewServo(bus, fs.ID, fs.Model)
		sb.model = fs.Model
	}

	return sb, nil
}

func idRange(ids []uint8) (int, int) {
	if len(ids) == 0 {
		return 1, 6
	}
	min, max := int(ids[0]), int(ids[0])
	for _, id := range ids[1:] {
		if int(id) < min {
			min = int(id)
		}
		if int(id) > max {
			max = int(id)
		}
	}
	return min, max
}

func (s *SmartBus) SendServoCommand(servoID uint8, _ string, angle float64) error {
	servo, ok := s.servos[servoID]
	if !ok {
		return errors.Errorf("servo %d not on bus", servoID)
	}

	counts := int(math.Round(angle / 360 * servoCountMax))
	if _, sc, ok := s.cal.ByID(int(servoID)); ok {
		counts = calibratedCounts(sc, angle)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := servo.SetPosition(ctx, counts); err != nil {
		return errors.Wrapf(err, "set servo %d position", servoID)
	}
	return nil
}

// calibratedCounts maps a 0..180 degree command onto the servo's recorded
// travel range. Drive mode 1 marks a servo mounted mirrored.
func calibratedCounts(sc hardware.ServoCalibration, angle float64) int {
	norm := angle/180*200 - 100
	if norm < -100 {
		norm = -100
	}
	if norm > 100 {
		norm = 100
	}
	if sc.DriveMode != 0 {
		norm = -norm
	}
	counts := sc.Denormalize(norm)
	if counts < 0 {
		counts = 0
	}
	if counts > servoCountMax {
		counts = servoCountMax
	}
	return counts
}

// SendRaw is unsupported on the smart bus; the wire format is binary.
func (s *SmartBus) SendRaw(string) error {
	return errors.New("smart servo bus does not accept raw text commands")
}

// EnableAll turns torque on for every resolved servo.
func (s *SmartBus) EnableAll(ctx context.Context) error {
	for id, servo := range s.servos {
		if err := servo.Enable(ctx); err != nil {
			return errors.Wrapf(err, "enable servo %d", id)
		}
	}
	return nil
}

// DisableAll turns torque off for every resolved servo.
func (s *SmartBus) DisableAll(ctx context.Context) error {
	for id, servo := range s.servos {
		if err := servo.Disable(ctx); err != nil {
			return errors.Wrapf(err, "disable servo %d", id)
		}
	}
	return nil
}

func (s *SmartBus) Close() error { return s.bus.Close() }
