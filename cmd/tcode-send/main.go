package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.bug.st/serial"
)

// Config matches the format written by tcode-emu setup
type Config struct {
	Device struct {
		Port string `json:"port"`
		Baud int    `json:"baud"`
	} `json:"device"`
}

const configFile = "tcode-emu.json"

func loadConfig() (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func main() {
	var (
		port = flag.String("port", "", "Serial port (optional if tcode-emu.json exists)")
		baud = flag.Int("baud", 115200, "Baud rate")
	)
	flag.Parse()

	devicePort := *port
	deviceBaud := *baud
	if devicePort == "" {
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "No port specified and cannot load %s: %v\n", configFile, err)
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Run 'tcode-emu setup' to configure the port,")
			fmt.Fprintln(os.Stderr, "or specify it manually with -port")
			os.Exit(1)
		}
		devicePort = cfg.Device.Port
		if cfg.Device.Baud > 0 {
			deviceBaud = cfg.Device.Baud
		}
		fmt.Printf("Loaded configuration from %s\n", configFile)
	}

	p, err := serial.Open(devicePort, &serial.Mode{BaudRate: deviceBaud})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", devicePort, err)
		os.Exit(1)
	}
	defer p.Close()

	// Arguments form a single command line; without arguments, lines are
	// forwarded from stdin.
	if flag.NArg() > 0 {
		line := strings.Join(flag.Args(), " ")
		if err := send(p, line); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✓ Sent %q to %s\n", line, devicePort)
		return
	}

	fmt.Printf("Forwarding stdin to %s, one command line per input line. Ctrl-D ends.\n", devicePort)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if err := send(p, scanner.Text()); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing: %v\n", err)
			os.Exit(1)
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
		os.Exit(1)
	}
}

func send(w io.Writer, line string) error {
	_, err := io.WriteString(w, line+"\n")
	return err
}
