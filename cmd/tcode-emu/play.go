package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gwillem/tcode-emu/pkg/device"
	"github.com/gwillem/tcode-emu/pkg/pattern"
)

type PlayCommand struct {
	Pattern string `long:"pattern" short:"p" description:"Pattern file (YAML); built-in demo when omitted"`
	FPS     int    `long:"fps" default:"30" description:"Render frequency"`
}

func (c *PlayCommand) Execute(args []string) error {
	pat := pattern.Default()
	if c.Pattern != "" {
		var err error
		pat, err = pattern.Load(c.Pattern)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	// The player feeds the emulator through a pipe, same path as a real
	// transport.
	pr, pw := io.Pipe()
	player := pattern.NewPlayer(pat, pw)

	ctrl := device.NewController(device.NewReaderSource(pr, "pattern:"+pat.Name), c.FPS)
	defer ctrl.Close()

	return runUI(ctrl, "TCode Play", func(ctx context.Context) error {
		defer pw.Close()
		return player.Run(ctx)
	})
}
