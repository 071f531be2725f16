package main

import (
	"fmt"
	"os"

	"github.com/gwillem/tcode-emu/pkg/device"
)

type MonitorCommand struct {
	Port   string `long:"port" short:"p" description:"Serial port of the device (default from config)"`
	Baud   int    `long:"baud" default:"115200" description:"Serial baud rate"`
	Listen string `long:"listen" description:"Accept TCode over websocket on this address instead of serial"`
	Stdin  bool   `long:"stdin" description:"Read TCode from standard input"`
	FPS    int    `long:"fps" default:"30" description:"Render frequency"`
}

func (c *MonitorCommand) Execute(args []string) error {
	src, err := openSource(c.Port, c.Baud, c.Listen, c.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctrl := device.NewController(src, c.FPS)
	defer ctrl.Close()

	return runUI(ctrl, "TCode Monitor")
}

// openSource picks the transport from the flags, falling back to the
// configured serial port when none is given.
func openSource(port string, baud int, listen string, stdin bool) (device.Source, error) {
	switch {
	case stdin:
		return device.NewReaderSource(os.Stdin, "stdin"), nil
	case listen != "":
		return device.Listen(listen)
	case port != "":
		return device.OpenSerial(port, baud)
	}

	cfg, err := device.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("no source given and no configuration found, run 'tcode-emu setup' first")
	}
	if cfg.Device.Port == "" {
		return nil, fmt.Errorf("no device port configured, run 'tcode-emu setup' first")
	}
	if cfg.Device.Baud > 0 {
		baud = cfg.Device.Baud
	}
	fmt.Printf("Loaded configuration from %s\n", device.DefaultConfigFile)
	return device.OpenSerial(cfg.Device.Port, baud)
}
