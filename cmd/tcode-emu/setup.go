package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/hipsterbrown/feetech-servo/feetech"
	"go.bug.st/serial"

	"github.com/gwillem/tcode-emu/pkg/device"
	"github.com/gwillem/tcode-emu/pkg/mirror"
	"github.com/gwillem/tcode-emu/pkg/tcode"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	subHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type SetupCommand struct{}

func (c *SetupCommand) Execute(args []string) error {
	fmt.Println(headerStyle.Render("TCode Emulator Setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println()

	config := &device.Config{}

	// Step 1: Pick the device port
	configureDevice(config)

	// Save after the device so a cancelled mirror step keeps the port
	if err := config.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	// Step 2: Optional servo mirror
	fmt.Println()
	fmt.Println(subHeaderStyle.Render("━━━ Mirror Servos (optional) ━━━"))
	fmt.Println()
	configureMirror(config)

	if err := config.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Configuration saved to %s\n", device.DefaultConfigFile)
	fmt.Println()
	fmt.Println("Watch the device with: " + headerStyle.Render("tcode-emu monitor"))

	return nil
}

func configureDevice(config *device.Config) {
	ports := listPorts()
	if len(ports) == 0 {
		fmt.Println("No serial ports found.")
		fmt.Println("Connect the device, or stream without one using 'tcode-emu monitor --stdin' or '--listen'.")
		os.Exit(1)
	}

	options := make([]huh.Option[string], 0, len(ports))
	for _, p := range ports {
		options = append(options, huh.NewOption(p, p))
	}

	var port string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which port is the TCode device on?").
				Options(options...).
				Value(&port),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}

	baud := device.DefaultBaud
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Baud rate").
				Options(
					huh.NewOption("115200", 115200),
					huh.NewOption("250000", 250000),
					huh.NewOption("500000", 500000),
					huh.NewOption("921600", 921600),
				).
				Value(&baud),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}

	config.Device.Port = port
	config.Device.Baud = baud

	fmt.Println(successStyle.Render("Device configured:"))
	fmt.Printf("  Port: %s @ %d baud\n", config.Device.Port, config.Device.Baud)
}

func configureMirror(config *device.Config) {
	var wantMirror bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Mirror the axes onto feetech servos?").
				Description("Requires a servo bus on a separate port").
				Value(&wantMirror),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}
	if !wantMirror {
		return
	}

	ports := listPorts()
	options := make([]huh.Option[string], 0, len(ports))
	for _, p := range ports {
		if p == config.Device.Port {
			continue
		}
		options = append(options, huh.NewOption(p, p))
	}
	if len(options) == 0 {
		fmt.Println("No free port left for the servo bus, skipping mirror setup.")
		return
	}

	var busPort string
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which port is the servo bus on?").
				Options(options...).
				Value(&busPort),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}

	fmt.Printf("Scanning %s for servos...\n", busPort)
	servos, err := scanServos(busPort)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning bus: %v\n", err)
		os.Exit(1)
	}
	if len(servos) == 0 {
		fmt.Println("No servos found on the bus.")
		os.Exit(1)
	}

	// Pair found servos with channels in display order
	channels := tcode.AllChannels()
	n := len(servos)
	if n > len(channels) {
		n = len(channels)
	}

	maps := make([]mirror.ServoMap, 0, n)
	for i := 0; i < n; i++ {
		maps = append(maps, mirror.ServoMap{
			Channel:  channels[i],
			ID:       servos[i].ID,
			RangeMin: 1000,
			RangeMax: 3000,
		})
	}

	config.Mirror = &mirror.Config{
		Port:   busPort,
		Servos: maps,
	}

	fmt.Println()
	printServoTable(servos, maps)
	fmt.Println()
	fmt.Printf("Default range is 1000-3000 raw units, edit %s to adjust.\n", device.DefaultConfigFile)
}

func listPorts() []string {
	ports, err := serial.GetPortsList()
	if err != nil {
		fmt.Printf("Error listing ports: %v\n", err)
		return nil
	}

	var out []string
	for _, port := range ports {
		// Skip Bluetooth ports on macOS
		if strings.Contains(port, "Bluetooth") {
			continue
		}
		out = append(out, port)
	}
	return out
}

func scanServos(port string) ([]feetech.FoundServo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: 1_000_000,
		Protocol: feetech.ProtocolSTS,
		Timeout:  100 * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}
	defer bus.Close()

	return bus.Scan(ctx, 1, 6)
}

func printServoTable(servos []feetech.FoundServo, maps []mirror.ServoMap) {
	tableHeaderStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	tableChannelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	tableCellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, 0, len(maps))
	for i, m := range maps {
		rows = append(rows, []string{
			fmt.Sprintf("%d", m.ID),
			fmt.Sprintf("%v", servos[i].Model),
			string(m.Channel),
			m.Channel.Description(),
			fmt.Sprintf("%d-%d", m.RangeMin, m.RangeMax),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Servo", "Model", "Channel", "Axis", "Range").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			switch col {
			case 2, 3:
				return tableChannelStyle
			default:
				return tableCellStyle
			}
		})

	fmt.Println(t.Render())
}
