package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Setup   SetupCommand   `command:"setup" description:"Pick the device port and map mirror servos"`
	Monitor MonitorCommand `command:"monitor" alias:"mon" description:"Visualize a live TCode stream"`
	Play    PlayCommand    `command:"play" description:"Run a waveform pattern through the emulator"`
	Mirror  MirrorCommand  `command:"mirror" description:"Visualize a stream and shadow it onto servos"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "tcode-emu - Terminal emulator and visualizer for TCode motion devices"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
