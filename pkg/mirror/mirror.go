// Package mirror drives physical hobby servos from the emulated axes, so a
// bench rig can shadow whatever the visualizer shows.
package mirror

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gwillem/tcode-emu/pkg/tcode"
	"github.com/hipsterbrown/feetech-servo/feetech"
)

// ServoMap binds one TCode channel to a servo on the bus.
type ServoMap struct {
	Channel  tcode.Channel `json:"channel"`
	ID       int           `json:"id"`
	RangeMin int           `json:"range_min"`
	RangeMax int           `json:"range_max"`
	Invert   bool          `json:"invert,omitempty"`
}

// Raw converts a normalized axis position in [0, 1] to a raw servo position
// within the mapped range.
func (m ServoMap) Raw(norm float64) int {
	if m.Invert {
		norm = 1 - norm
	}
	span := float64(m.RangeMax - m.RangeMin)
	return m.RangeMin + int(math.Round(norm*span))
}

// Config holds the servo bridge configuration.
type Config struct {
	Port   string     `json:"port"`
	Baud   int        `json:"baud,omitempty"`
	Hz     int        `json:"hz,omitempty"`
	Servos []ServoMap `json:"servos"`
}

// AxesFunc supplies the normalized axis positions to shadow.
type AxesFunc func() map[tcode.Channel]float64

// Mirror shadows the emulated axes onto a feetech servo bus.
type Mirror struct {
	bus    *feetech.Bus
	group  *feetech.ServoGroup
	port   string
	servos []ServoMap
	hz     int
	axes   AxesFunc
	logf   func(format string, args ...any)
}

// New opens the servo bus named by cfg. axes is polled every cycle; logf
// receives servo warnings and may be nil.
func New(cfg Config, axes AxesFunc, logf func(string, ...any)) (*Mirror, error) {
	if len(cfg.Servos) == 0 {
		return nil, fmt.Errorf("no servos mapped")
	}

	baud := cfg.Baud
	if baud <= 0 {
		baud = 1_000_000
	}
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     cfg.Port,
		BaudRate: baud,
		Protocol: feetech.ProtocolSTS,
	})
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}

	ids := make([]int, 0, len(cfg.Servos))
	for _, s := range cfg.Servos {
		ids = append(ids, s.ID)
	}
	group := feetech.NewServoGroupByIDs(bus, ids...)

	hz := cfg.Hz
	if hz <= 0 {
		hz = 50
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}

	return &Mirror{
		bus:    bus,
		group:  group,
		port:   cfg.Port,
		servos: cfg.Servos,
		hz:     hz,
		axes:   axes,
		logf:   logf,
	}, nil
}

// Close closes the bus connection.
func (m *Mirror) Close() error {
	return m.bus.Close()
}

// positions maps the current axis snapshot onto raw servo targets.
func (m *Mirror) positions() feetech.PositionMap {
	axes := m.axes()
	raw := make(feetech.PositionMap, len(m.servos))
	for _, s := range m.servos {
		raw[s.ID] = s.Raw(axes[s.Channel])
	}
	return raw
}

// Run enables torque and shadows the axes until ctx is done. Torque is
// released on the way out. A failed write is logged and the loop keeps
// going; a stalled bus should not stop the visualizer.
func (m *Mirror) Run(ctx context.Context) error {
	if err := m.group.EnableAll(ctx); err != nil {
		return fmt.Errorf("enable servos: %w", err)
	}
	defer func() {
		if err := m.group.DisableAll(context.Background()); err != nil {
			m.logf("Warning: failed to disable servos: %v", err)
		}
	}()

	m.logf("Mirroring %d servos on %s at %d Hz", len(m.servos), m.port, m.hz)

	ticker := time.NewTicker(time.Second / time.Duration(m.hz))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := m.group.SetPositions(ctx, m.positions()); err != nil {
				m.logf("Servo write error: %v", err)
			}
		}
	}
}
