// Package pattern generates TCode command streams from declarative waveform
// descriptions, for demoing and testing the emulator without a real sender.
package pattern

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gwillem/tcode-emu/pkg/tcode"
)

// Wave names a waveform shape.
type Wave string

const (
	WaveSine     Wave = "sine"
	WaveTriangle Wave = "triangle"
	WaveSquare   Wave = "square"
	WaveSaw      Wave = "saw"
)

// ChannelPattern is one oscillating channel: a wave bouncing between Min
// and Max over PeriodMs, shifted by Phase cycles.
type ChannelPattern struct {
	Channel  tcode.Channel `yaml:"channel"`
	Wave     Wave          `yaml:"wave"`
	PeriodMs int           `yaml:"period_ms"`
	Min      int           `yaml:"min"`
	Max      int           `yaml:"max"`
	Phase    float64       `yaml:"phase"`
}

// Value returns the channel position at the given elapsed time. Every wave
// starts a cycle at Min. A non-positive period holds the channel at Min.
func (p ChannelPattern) Value(elapsed time.Duration) int {
	if p.PeriodMs <= 0 {
		return p.Min
	}
	period := time.Duration(p.PeriodMs) * time.Millisecond
	cycles := float64(elapsed)/float64(period) + p.Phase
	frac := cycles - math.Floor(cycles)

	var v float64
	switch p.Wave {
	case WaveSine:
		v = 0.5 - 0.5*math.Cos(2*math.Pi*frac)
	case WaveTriangle:
		if frac < 0.5 {
			v = 2 * frac
		} else {
			v = 2 - 2*frac
		}
	case WaveSquare:
		if frac >= 0.5 {
			v = 1
		}
	case WaveSaw:
		v = frac
	}

	return p.Min + int(math.Round(v*float64(p.Max-p.Min)))
}

// Pattern is a set of channel waveforms emitted together, one command line
// per frame.
type Pattern struct {
	Name       string           `yaml:"name"`
	IntervalMs int              `yaml:"interval_ms"`
	Smooth     bool             `yaml:"smooth"`
	Channels   []ChannelPattern `yaml:"channels"`
}

// Line renders the command line for the given elapsed time, without the
// trailing terminator. With Smooth set, every token carries a timed move
// over the frame interval so the device glides between frames instead of
// stepping.
func (p *Pattern) Line(elapsed time.Duration) string {
	var sb strings.Builder
	for i, ch := range p.Channels {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s%04d", ch.Channel, ch.Value(elapsed))
		if p.Smooth {
			fmt.Fprintf(&sb, "I%d", p.IntervalMs)
		}
	}
	return sb.String()
}

// Parse decodes and validates a YAML pattern. Missing fields get defaults:
// sine wave, 50 ms frame interval, full-scale range.
func Parse(data []byte) (*Pattern, error) {
	var p Pattern
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse pattern: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads a pattern from a YAML file.
func Load(path string) (*Pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pattern file: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func (p *Pattern) validate() error {
	if p.IntervalMs <= 0 {
		p.IntervalMs = 50
	}
	if len(p.Channels) == 0 {
		return fmt.Errorf("pattern has no channels")
	}

	known := make(map[tcode.Channel]bool)
	for _, ch := range tcode.AllChannels() {
		known[ch] = true
	}

	for i := range p.Channels {
		ch := &p.Channels[i]
		if !known[ch.Channel] {
			return fmt.Errorf("channel %d: unknown channel %q", i, ch.Channel)
		}
		if ch.Wave == "" {
			ch.Wave = WaveSine
		}
		switch ch.Wave {
		case WaveSine, WaveTriangle, WaveSquare, WaveSaw:
		default:
			return fmt.Errorf("channel %s: unknown wave %q", ch.Channel, ch.Wave)
		}
		if ch.PeriodMs <= 0 {
			return fmt.Errorf("channel %s: period must be positive", ch.Channel)
		}
		if ch.Min == 0 && ch.Max == 0 {
			ch.Max = tcode.FullScale
		}
		if ch.Min < 0 || ch.Max > tcode.FullScale || ch.Min >= ch.Max {
			return fmt.Errorf("channel %s: range [%d, %d] invalid", ch.Channel, ch.Min, ch.Max)
		}
		if ch.Phase < 0 || ch.Phase >= 1 {
			return fmt.Errorf("channel %s: phase %v outside [0, 1)", ch.Channel, ch.Phase)
		}
	}
	return nil
}

// Default returns a demo pattern that exercises all six channels.
func Default() *Pattern {
	return &Pattern{
		Name:       "demo",
		IntervalMs: 50,
		Smooth:     true,
		Channels: []ChannelPattern{
			{Channel: tcode.Stroke, Wave: WaveSine, PeriodMs: 2000, Min: 500, Max: 9500},
			{Channel: tcode.Surge, Wave: WaveSine, PeriodMs: 3000, Min: 2000, Max: 8000, Phase: 0.25},
			{Channel: tcode.Sway, Wave: WaveTriangle, PeriodMs: 2600, Min: 2000, Max: 8000, Phase: 0.5},
			{Channel: tcode.Twist, Wave: WaveSaw, PeriodMs: 4000, Min: 1000, Max: 9000},
			{Channel: tcode.Roll, Wave: WaveSine, PeriodMs: 1800, Min: 3000, Max: 7000, Phase: 0.75},
			{Channel: tcode.Pitch, Wave: WaveSquare, PeriodMs: 3600, Min: 2500, Max: 7500},
		},
	}
}
