package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/gwillem/tcode-emu/pkg/device"
	"github.com/gwillem/tcode-emu/pkg/tcode"
)

const (
	headerHeight = 2 // title + blank line
	legendHeight = 2 // legend row + blank
	valuesHeight = 2 // axis readout + blank
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

// Channel colors - distinct colors for each axis
var channelColors = map[tcode.Channel]string{
	tcode.Stroke: "196", // red
	tcode.Surge:  "208", // orange
	tcode.Sway:   "226", // yellow
	tcode.Twist:  "46",  // green
	tcode.Roll:   "51",  // cyan
	tcode.Pitch:  "201", // magenta
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type visualModel struct {
	ctrl     *device.Controller
	title    string
	chart    *streamlinechart.Model
	width    int      // terminal width
	height   int      // terminal height
	logs     []string // last N log messages
	quitting bool
	axes     map[tcode.Channel]float64 // latest snapshot for the readout
	lastAxes map[tcode.Channel]float64 // previous frame, to freeze the chart when idle
}

func (m *visualModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// hasMovement checks if any axis position has changed from the last frame
func (m *visualModel) hasMovement(axes map[tcode.Channel]float64) bool {
	if m.lastAxes == nil {
		return true // first frame, consider it movement
	}
	for ch, pos := range axes {
		if last, ok := m.lastAxes[ch]; !ok || pos != last {
			return true
		}
	}
	return false
}

// Messages from the controller
type stateMsg device.State
type logMsg string

func waitForState(ctrl *device.Controller) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ctrl.States())
	}
}

func waitForLog(ctrl *device.Controller) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ctrl.Logs())
	}
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *visualModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - legendHeight - valuesHeight - footerHeight - borderSize
	if height < 10 {
		height = 10
	}
	return width, height
}

func (m *visualModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func initialModel(ctrl *device.Controller, title string) visualModel {
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(0, 1),
	)

	// Set up data set styles for each channel
	for _, ch := range tcode.AllChannels() {
		color := channelColors[ch]
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		chart.SetDataSetStyles(string(ch), runes.ThinLineStyle, style)
	}

	return visualModel{
		ctrl:  ctrl,
		title: title,
		chart: &chart,
	}
}

func (m visualModel) Init() tea.Cmd {
	// Start listening for state and log updates
	return tea.Batch(
		waitForState(m.ctrl),
		waitForLog(m.ctrl),
	)
}

func (m visualModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case stateMsg:
		state := device.State(msg)
		if state.Axes != nil {
			m.axes = state.Axes
			// Only update chart if there's movement (freeze when idle)
			if m.hasMovement(state.Axes) {
				for ch, pos := range state.Axes {
					m.chart.PushDataSet(string(ch), pos)
				}
				m.chart.DrawAll()
				m.lastAxes = state.Axes
			}
		}
		return m, waitForState(m.ctrl)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.ctrl)
	}

	return m, nil
}

func (m visualModel) View() string {
	if m.quitting {
		return "Emulator stopped.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString(fmt.Sprintf(" - %d fps", m.ctrl.FPS()))
	if m.width > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%dx%d]", m.width, m.height)))
	}
	sb.WriteString("\n\n")

	// Chart
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	// Legend
	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	// Axis readout
	sb.WriteString(m.renderValues())
	sb.WriteString("\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.width - 4).
		Foreground(lipgloss.Color("9")) // bright red

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("Press 'q' to quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func renderLegend() string {
	var items []string
	for _, ch := range tcode.AllChannels() {
		color := channelColors[ch]
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
		item := colorStyle.Render("━━") + " " + string(ch) + " " + ch.Description()
		items = append(items, item)
	}
	return strings.Join(items, "  ")
}

func (m visualModel) renderValues() string {
	var items []string
	for _, ch := range tcode.AllChannels() {
		color := channelColors[ch]
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
		items = append(items, colorStyle.Render(string(ch))+fmt.Sprintf(" %.3f", m.axes[ch]))
	}
	return strings.Join(items, "   ")
}

// runUI starts the controller plus any companion loops and runs the
// visualizer until the user quits. Keyboard input comes from the terminal
// even when the stream arrives on stdin.
func runUI(ctrl *device.Controller, title string, loops ...func(context.Context) error) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := ctrl.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Controller error: %v", err)
		}
	}()

	for _, loop := range loops {
		go func() {
			if err := loop(ctx); err != nil && err != context.Canceled {
				ctrl.Logf("Error: %v", err)
			}
		}()
	}

	p := tea.NewProgram(initialModel(ctrl, title), tea.WithAltScreen(), tea.WithInputTTY())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}

	return nil
}
