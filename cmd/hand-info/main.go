package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/hipsterbrown/feetech-servo/feetech"
	"go.bug.st/serial"

	"github.com/dexhand/dexhand/pkg/config"
	"github.com/dexhand/dexhand/pkg/hardware"
)

const (
	configFile      = "dexhand.yaml"
	servoMapFile    = "servo_map.yaml"
	calibrationFile = "calibration.json"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func main() {
	fmt.Println(headerStyle.Render("DexHand Port Scanner"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println()

	hands := findHands()

	if len(hands) == 0 {
		fmt.Println("No servo hands found.")
		fmt.Println("Make sure the hand is connected and powered on.")
		os.Exit(1)
	}

	hand := hands[0]
	if len(hands) > 1 {
		hand = pickHand(hands)
	}
	for _, h := range hands {
		if h.port != hand.port {
			h.bus.Close()
		}
	}
	defer hand.bus.Close()

	fmt.Printf("\nUsing hand on %s (%d servos).\n", hand.port, len(hand.servos))
	fmt.Println("Each servo will wiggle in turn so you can name the finger it drives.")

	servoMap := identifyFingers(hand)

	cal := recordRanges(hand, servoMap)

	emgPort := askEMGPort(hand.port)

	if err := servoMap.Save(servoMapFile); err != nil {
		fmt.Printf("Error saving servo map: %v\n", err)
		os.Exit(1)
	}
	if err := cal.Save(calibrationFile); err != nil {
		fmt.Printf("Error saving calibration: %v\n", err)
		os.Exit(1)
	}
	if err := saveHandConfig(hand.port, emgPort); err != nil {
		fmt.Printf("Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println(successStyle.Render(
		fmt.Sprintf("Configuration saved to %s, %s and %s",
			configFile, servoMapFile, calibrationFile)))
	fmt.Println()
	fmt.Println("Start the pickup loop with: " + headerStyle.Render("dexhand run"))
}

type handInfo struct {
	port   string
	servos []feetech.FoundServo
	bus    *feetech.Bus
}

func findHands() []handInfo {
	ports, err := serial.GetPortsList()
	if err != nil {
		fmt.Printf("Error listing ports: %v\n", err)
		return nil
	}

	var hands []handInfo

	for _, port := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(port, "Bluetooth") {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)

		bus, err := feetech.NewBus(feetech.BusConfig{
			Port:     port,
			BaudRate: 1_000_000,
			Protocol: feetech.ProtocolSTS,
			Timeout:  100 * time.Millisecond,
		})
		if err != nil {
			cancel()
			continue
		}

		servos, err := bus.Scan(ctx, 1, 6)
		cancel()

		if err != nil {
			bus.Close()
			continue
		}

		// Five finger servos at minimum, a sixth may drive the wrist.
		if len(servos) >= 5 {
			fmt.Printf("  Found hand on %s (%d servos)\n", port, len(servos))
			hands = append(hands, handInfo{port: port, servos: servos, bus: bus})
		} else {
			bus.Close()
		}
	}

	return hands
}

func pickHand(hands []handInfo) handInfo {
	options := make([]huh.Option[string], len(hands))
	for i, h := range hands {
		options[i] = huh.NewOption(
			fmt.Sprintf("%s (%d servos)", h.port, len(h.servos)), h.port)
	}

	var port string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Multiple hands found, which one to configure?").
			Options(options...).
			Value(&port),
	))
	if err := form.Run(); err != nil {
		os.Exit(0)
	}

	for _, h := range hands {
		if h.port == port {
			return h
		}
	}
	return hands[0]
}

func identifyFingers(hand handInfo) *hardware.ServoMap {
	ctx := context.Background()
	servoMap := &hardware.ServoMap{Servos: map[hardware.FingerName]hardware.ServoConfig{}}
	assigned := map[hardware.FingerName]bool{}

	for _, found := range hand.servos {
		servo := feetech.NewServo(hand.bus, found.ID, found.Model)
		if !wiggle(ctx, servo, hand.port, found.ID) {
			continue
		}

		finger, skip := askFinger(found.ID, assigned)
		if skip {
			continue
		}

		assigned[finger] = true
		servoMap.Servos[finger] = hardware.ServoConfig{
			ID:       uint8(found.ID),
			MinAngle: 0,
			MaxAngle: 180,
		}

		if len(assigned) == len(hardware.Fingers) {
			break
		}
	}

	for _, finger := range hardware.Fingers {
		if !assigned[finger] {
			fmt.Printf("  Warning: no servo assigned to %s\n", finger)
		}
	}

	return servoMap
}

func wiggle(ctx context.Context, servo *feetech.Servo, port string, id int) bool {
	originalPos, err := servo.Position(ctx)
	if err != nil {
		fmt.Printf("  Error reading servo %d position: %v\n", id, err)
		return false
	}

	if err := servo.Enable(ctx); err != nil {
		fmt.Printf("  Error enabling servo %d: %v\n", id, err)
		return false
	}
	defer servo.Disable(ctx)

	fmt.Printf("\n  Wiggling servo %d on %s...\n", id, port)

	wiggleAmount := 100
	for i := 0; i < 3; i++ {
		servo.SetPosition(ctx, originalPos+wiggleAmount)
		time.Sleep(150 * time.Millisecond)
		servo.SetPosition(ctx, originalPos-wiggleAmount)
		time.Sleep(150 * time.Millisecond)
	}

	servo.SetPosition(ctx, originalPos)
	time.Sleep(100 * time.Millisecond)
	return true
}

func askFinger(servoID int, assigned map[hardware.FingerName]bool) (hardware.FingerName, bool) {
	var options []huh.Option[string]
	for _, finger := range hardware.Fingers {
		if !assigned[finger] {
			options = append(options, huh.NewOption(finger.String(), finger.String()))
		}
	}
	options = append(options, huh.NewOption("Skip this servo", "skip"))

	var choice string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(fmt.Sprintf("Which finger did servo %d move?", servoID)).
			Description("The finger that just wiggled").
			Options(options...).
			Value(&choice),
	))
	if err := form.Run(); err != nil {
		os.Exit(0)
	}

	if choice == "skip" {
		return hardware.Thumb, true
	}

	finger, _, ok := hardware.SimpleMapping().GetByName(choice)
	if !ok {
		return hardware.Thumb, true
	}
	return finger, false
}

func askEMGPort(handPort string) string {
	ports, _ := serial.GetPortsList()
	options := []huh.Option[string]{huh.NewOption("No EMG sensor", "")}
	for _, port := range ports {
		if port == handPort || strings.Contains(port, "Bluetooth") {
			continue
		}
		options = append(options, huh.NewOption(port, port))
	}

	var port string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Which port has the EMG sensor?").
			Options(options...).
			Value(&port),
	))
	if err := form.Run(); err != nil {
		os.Exit(0)
	}
	return port
}

// recordRanges captures each identified servo's physical travel: torque
// off, the user moves the finger through its range while we sample the
// position. Servos that are not moved keep the full horn travel.
func recordRanges(hand handInfo, servoMap *hardware.ServoMap) hardware.Calibration {
	ctx := context.Background()
	cal := hardware.Calibration{}

	modelByID := map[int]*feetech.Model{}
	for _, found := range hand.servos {
		modelByID[found.ID] = found.Model
	}

	fmt.Println("\nRange recording: move each finger through its full travel when prompted.")

	for _, finger := range hardware.Fingers {
		sc, ok := servoMap.Get(finger)
		if !ok {
			continue
		}
		servo := feetech.NewServo(hand.bus, int(sc.ID), modelByID[int(sc.ID)])
		servo.Disable(ctx)

		pos, err := servo.Position(ctx)
		if err != nil {
			fmt.Printf("  Error reading servo %d: %v, keeping full range\n", sc.ID, err)
			cal[finger.String()] = hardware.ServoCalibration{ID: int(sc.ID), RangeMin: 0, RangeMax: 4095}
			continue
		}

		fmt.Printf("  Move the %s through its full range (3 seconds)...\n", finger)
		min, max := pos, pos
		deadline := time.Now().Add(3 * time.Second)
		for time.Now().Before(deadline) {
			if pos, err = servo.Position(ctx); err == nil {
				if pos < min {
					min = pos
				}
				if pos > max {
					max = pos
				}
			}
			time.Sleep(50 * time.Millisecond)
		}

		// Barely moved: the user skipped this finger.
		if max-min < 100 {
			fmt.Printf("  %s barely moved, keeping full range\n", finger)
			min, max = 0, 4095
		} else {
			fmt.Printf("  %s range: %d..%d\n", finger, min, max)
		}
		cal[finger.String()] = hardware.ServoCalibration{ID: int(sc.ID), RangeMin: min, RangeMax: max}
	}

	return cal
}

func saveHandConfig(handPort, emgPort string) error {
	cfg := config.DefaultHand()
	cfg.Communication = config.CommunicationConfig{
		Protocol:   config.ProtocolFeetech,
		SerialPort: handPort,
		BaudRate:   1_000_000,
	}
	cfg.EMG = config.EMGConfig{
		Enabled:   emgPort != "",
		Port:      emgPort,
		BaudRate:  115200,
		Threshold: 600,
	}
	return cfg.Save(configFile)
}
