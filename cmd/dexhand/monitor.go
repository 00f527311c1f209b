package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/dexhand/dexhand/pkg/config"
	"github.com/dexhand/dexhand/pkg/control"
	"github.com/dexhand/dexhand/pkg/emg"
	"github.com/dexhand/dexhand/pkg/protocol"
	"github.com/dexhand/dexhand/pkg/vision"
)

type MonitorCommand struct {
	Config     string `long:"config" short:"c" default:"dexhand.yaml" description:"Hand configuration file"`
	DemoObject string `long:"demo-object" description:"Seed the detector with a fake object label (no camera needed)"`
}

const (
	headerHeight = 2 // title + blank line
	legendHeight = 2 // legend row + blank
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

const (
	emgSeries       = "emg"
	thresholdSeries = "threshold"
)

var fingerNames = []string{"Thumb", "Index", "Middle", "Ring", "Pinky"}

// Finger colors - distinct colors for each finger
var fingerColors = map[string]string{
	"Thumb":  "196", // red
	"Index":  "208", // orange
	"Middle": "226", // yellow
	"Ring":   "46",  // green
	"Pinky":  "51",  // cyan
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	emgStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))  // green
	threshStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")) // red
)

// recordingProtocol forwards servo commands and remembers the last angle
// sent per finger so the monitor can chart commanded positions.
type recordingProtocol struct {
	inner  protocol.ServoProtocol
	mu     sync.Mutex
	angles map[string]float64
}

func newRecordingProtocol(inner protocol.ServoProtocol) *recordingProtocol {
	return &recordingProtocol{inner: inner, angles: make(map[string]float64)}
}

func (r *recordingProtocol) SendServoCommand(servoID uint8, fingerName string, angle float64) error {
	if err := r.inner.SendServoCommand(servoID, fingerName, angle); err != nil {
		return err
	}
	r.mu.Lock()
	r.angles[fingerName] = angle
	r.mu.Unlock()
	return nil
}

func (r *recordingProtocol) SendRaw(command string) error {
	return r.inner.SendRaw(command)
}

func (r *recordingProtocol) Angles() map[string]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	angles := make(map[string]float64, len(r.angles))
	for name, angle := range r.angles {
		angles[name] = angle
	}
	return angles
}

type monitorModel struct {
	ctrl        *control.VisionController
	source      *emg.SerialSource
	recorder    *recordingProtocol
	emgChart    *streamlinechart.Model
	fingerChart *streamlinechart.Model
	width       int
	height      int
	logs        []string
	lastEMG     uint16
	quitting    bool
}

type monitorTickMsg time.Time
type monitorLogMsg string

func monitorTick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return monitorTickMsg(t)
	})
}

func waitForMonitorLog(ctrl *control.VisionController) tea.Cmd {
	return func() tea.Msg {
		return monitorLogMsg(<-ctrl.Logs())
	}
}

func (m *monitorModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m *monitorModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 10 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	// Two stacked charts share the space above the log box.
	height = (m.height - headerHeight - 2*legendHeight - footerHeight - 2*borderSize) / 2
	if height < 6 {
		height = 6
	}
	return width, height
}

func (m *monitorModel) resizeCharts() {
	w, h := m.chartSize()
	m.emgChart.Resize(w, h)
	m.fingerChart.Resize(w, h)
}

func initialMonitorModel(ctrl *control.VisionController, source *emg.SerialSource, recorder *recordingProtocol) monitorModel {
	emgChart := streamlinechart.New(80, 10,
		streamlinechart.WithYRange(0, float64(emg.MaxSample)),
	)
	emgChart.SetDataSetStyles(emgSeries, runes.ThinLineStyle, emgStyle)
	emgChart.SetDataSetStyles(thresholdSeries, runes.ThinLineStyle, threshStyle)

	fingerChart := streamlinechart.New(80, 10,
		streamlinechart.WithYRange(0, 180),
	)
	for _, name := range fingerNames {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(fingerColors[name]))
		fingerChart.SetDataSetStyles(name, runes.ThinLineStyle, style)
	}

	return monitorModel{
		ctrl:        ctrl,
		source:      source,
		recorder:    recorder,
		emgChart:    &emgChart,
		fingerChart: &fingerChart,
	}
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(monitorTick(), waitForMonitorLog(m.ctrl))
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeCharts()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case " ":
			m.ctrl.InjectTrigger(m.ctrl.Trigger().Threshold() + 1)
			m.addLog("Trigger injected")
			return m, nil
		}

	case monitorTickMsg:
		if m.source != nil {
			if value, ok, err := m.source.ReadValue(); err == nil && ok {
				m.lastEMG = value
				m.ctrl.Trigger().Inject(value)
			}
		}
		m.emgChart.PushDataSet(emgSeries, float64(m.lastEMG))
		m.emgChart.PushDataSet(thresholdSeries, float64(m.ctrl.Trigger().Threshold()))
		m.emgChart.DrawAll()

		angles := m.recorder.Angles()
		for _, name := range fingerNames {
			m.fingerChart.PushDataSet(name, angles[name])
		}
		m.fingerChart.DrawAll()
		return m, monitorTick()

	case monitorLogMsg:
		m.addLog(string(msg))
		return m, waitForMonitorLog(m.ctrl)
	}

	return m, nil
}

func (m monitorModel) View() string {
	if m.quitting {
		return "Monitor stopped.\n"
	}

	var sb strings.Builder

	sb.WriteString(titleStyle.Render("DexHand Monitor"))
	sb.WriteString(fmt.Sprintf(" - %s", m.ctrl.Trigger().State()))
	if seq := m.ctrl.Sequence(); seq != nil {
		sb.WriteString(fmt.Sprintf(" (%s)", seq.CurrentStep()))
	}
	if m.width > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%dx%d]", m.width, m.height)))
	}
	sb.WriteString("\n\n")

	sb.WriteString(chartStyle.Render(m.emgChart.View()))
	sb.WriteString("\n")
	emgLegend := emgStyle.Bold(true).Render("━━") + " emg  " +
		threshStyle.Bold(true).Render("━━") + " threshold"
	if m.source == nil {
		emgLegend += statusStyle.Render("  (no EMG sensor, space injects a trigger)")
	}
	sb.WriteString(emgLegend)
	sb.WriteString("\n")

	sb.WriteString(chartStyle.Render(m.fingerChart.View()))
	sb.WriteString("\n")
	sb.WriteString(renderFingerLegend())
	sb.WriteString("\n")

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.width - 4)

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("Space to trigger, 'q' to quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func renderFingerLegend() string {
	var items []string
	for _, name := range fingerNames {
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(fingerColors[name])).Bold(true)
		items = append(items, colorStyle.Render("━━")+" "+name)
	}
	return strings.Join(items, "  ")
}

func (c *MonitorCommand) Execute(args []string) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "No configuration found at %s. Run 'hand-info' first.\n", c.Config)
		os.Exit(1)
	}

	proto, err := openProtocol(cfg.Communication)
	if err != nil {
		return err
	}
	if closer, ok := proto.(io.Closer); ok {
		defer closer.Close()
	}
	recorder := newRecordingProtocol(proto)

	// The monitor reads the sensor itself and injects samples, so the
	// controller gets a sourceless trigger.
	threshold := cfg.EMG.Threshold
	if threshold == 0 {
		threshold = emg.DefaultThreshold
	}
	trigger := emg.NewTrigger(nil, threshold)

	var source *emg.SerialSource
	if cfg.EMG.Enabled && cfg.EMG.Port != "" {
		baud := cfg.EMG.BaudRate
		if baud == 0 {
			baud = 115200
		}
		source, err = emg.OpenSerialSource(cfg.EMG.Port, baud)
		if err != nil {
			fmt.Printf("EMG sensor unavailable: %v\n", err)
			fmt.Println("Running in inject-only mode.")
		} else {
			defer source.Close()
		}
	}

	detector := vision.NewMockDetector(640, 480)
	if c.DemoObject != "" {
		detector.AddObject(demoObject(c.DemoObject))
	}

	monCfg := control.DefaultVisionControllerConfig()
	if sm := loadServoMap(); sm != nil {
		monCfg.FingerServoMap = sm.FingerIDs()
	}
	ctrl := control.NewVisionController(detector, trigger, recorder, monCfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := ctrl.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("Controller error: %v", err)
		}
	}()

	p := tea.NewProgram(initialMonitorModel(ctrl, source, recorder), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}

	return nil
}
