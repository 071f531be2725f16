package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gwillem/tcode-emu/pkg/device"
	"github.com/gwillem/tcode-emu/pkg/mirror"
)

type MirrorCommand struct {
	Port   string `long:"port" short:"p" description:"Serial port of the device (default from config)"`
	Baud   int    `long:"baud" default:"115200" description:"Serial baud rate"`
	Listen string `long:"listen" description:"Accept TCode over websocket on this address instead of serial"`
	Stdin  bool   `long:"stdin" description:"Read TCode from standard input"`
	FPS    int    `long:"fps" default:"30" description:"Render frequency"`
}

func (c *MirrorCommand) Execute(args []string) error {
	cfg, err := device.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "No configuration found. Run 'tcode-emu setup' first.")
		os.Exit(1)
	}
	if cfg.Mirror == nil || len(cfg.Mirror.Servos) == 0 {
		fmt.Fprintln(os.Stderr, "No mirror servos configured. Run 'tcode-emu setup' first.")
		os.Exit(1)
	}

	src, err := openSource(c.Port, c.Baud, c.Listen, c.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctrl := device.NewController(src, c.FPS)
	defer ctrl.Close()

	m, err := mirror.New(*cfg.Mirror, ctrl.Axes, ctrl.Logf)
	if err != nil {
		log.Fatalf("Failed to open servo bus: %v", err)
	}
	defer m.Close()

	return runUI(ctrl, "TCode Mirror", m.Run)
}
