// Package device runs the emulated TCode device: a transport pumping bytes
// into the command router, and a frame loop publishing axis snapshots for
// rendering.
package device

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gwillem/tcode-emu/pkg/tcode"
)

// State is one rendered frame of the device: all axis positions normalized
// into [0, 1].
type State struct {
	Axes      map[tcode.Channel]float64
	Timestamp time.Time
}

// Controller owns the command router and the transport feeding it, and
// publishes axis snapshots at the frame rate.
type Controller struct {
	router *tcode.Router
	source Source
	fps    int

	mu      sync.Mutex
	running bool
	stateCh chan State
	logCh   chan string
}

// NewController wires a byte source to a fresh router. fps is the snapshot
// rate for the States channel; non-positive values fall back to 30.
func NewController(src Source, fps int) *Controller {
	if fps <= 0 {
		fps = 30
	}
	return &Controller{
		router:  tcode.NewRouter(),
		source:  src,
		fps:     fps,
		stateCh: make(chan State, 1),
		logCh:   make(chan string, 10),
	}
}

// Close stops the controller and closes the transport.
func (c *Controller) Close() error {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
	return c.source.Close()
}

// States returns a channel that receives frame snapshots.
func (c *Controller) States() <-chan State {
	return c.stateCh
}

// Logs returns a channel that receives log messages.
func (c *Controller) Logs() <-chan string {
	return c.logCh
}

// FPS returns the snapshot rate.
func (c *Controller) FPS() int {
	return c.fps
}

// Axes returns the normalized axis positions at the time of the call.
func (c *Controller) Axes() map[tcode.Channel]float64 {
	return c.router.Axes()
}

// Logf adds a timestamped line to the log stream.
func (c *Controller) Logf(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case c.logCh <- msg:
	default:
		// Drop if channel full
	}
}

// Start pumps the transport and publishes snapshots until ctx is done.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return fmt.Errorf("already running")
	}
	c.running = true
	c.mu.Unlock()

	c.Logf("Reading from %s", c.source.Name())
	c.Logf("Rendering at %d fps", c.fps)

	go c.pump()

	ticker := time.NewTicker(time.Second / time.Duration(c.fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.mu.Lock()
			c.running = false
			c.mu.Unlock()
			return ctx.Err()
		case <-ticker.C:
			c.sendState(State{
				Axes:      c.router.Axes(),
				Timestamp: time.Now(),
			})
		}
	}
}

// pump copies transport bytes into the router until the stream ends. The
// router consumes malformed input silently, so the only terminal events
// are transport level, reported here exactly once.
func (c *Controller) pump() {
	if _, err := io.Copy(c.router, c.source); err != nil {
		c.Logf("Transport error: %v", err)
		return
	}
	c.Logf("Transport closed")
}

func (c *Controller) sendState(s State) {
	select {
	case c.stateCh <- s:
	default:
		// Drop old state if channel full, replace with new
		select {
		case <-c.stateCh:
		default:
		}
		c.stateCh <- s
	}
}
