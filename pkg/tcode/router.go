package tcode

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Command token patterns: a bare position, or a position with a timed (I) or
// speed (S) extension. Anchoring keeps everything else out.
var (
	plainPattern = regexp.MustCompile(`^([LR][0-9])([0-9]+)$`)
	extPattern   = regexp.MustCompile(`^([LR][0-9])([0-9]+)([IS])([0-9]+)$`)
)

// Router reassembles the incoming byte stream into newline-terminated
// command lines, parses them, and dispatches to the six axes it owns.
// Writers and Axes readers may run on different goroutines.
type Router struct {
	mu   sync.RWMutex
	line []byte
	axes map[Channel]*Axis
	now  func() time.Time
}

// NewRouter returns a router with all six axes at position zero.
func NewRouter() *Router {
	axes := make(map[Channel]*Axis, len(AllChannels()))
	for _, ch := range AllChannels() {
		axes[ch] = &Axis{}
	}
	return &Router{
		axes: axes,
		now:  time.Now,
	}
}

// Write appends a fragment of protocol text, one byte at a time. Every
// line-feed hands the accumulated line to the command executor and resets
// the accumulator; fragments without a line-feed stay pending until one
// arrives, with no bound on the pending line. Write never fails: malformed
// input is discarded token by token.
func (r *Router) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range p {
		r.line = append(r.line, b)
		if b == '\n' {
			r.execLine(string(r.line))
			r.line = r.line[:0]
		}
	}
	return len(p), nil
}

// WriteString is Write for string fragments.
func (r *Router) WriteString(s string) {
	_, _ = r.Write([]byte(s))
}

// execLine parses one terminated line. Tokens are independent: a malformed
// token or an unknown channel never affects its siblings. Called with the
// write lock held.
func (r *Router) execLine(line string) {
	now := r.now()

	for _, tok := range strings.Fields(line) {
		if m := plainPattern.FindStringSubmatch(tok); m != nil {
			if axis, ok := r.axes[Channel(m[1])]; ok {
				axis.MoveTo(magnitude(m[2]), now)
			}
			continue
		}

		m := extPattern.FindStringSubmatch(tok)
		if m == nil {
			continue
		}
		axis, ok := r.axes[Channel(m[1])]
		if !ok {
			continue
		}
		param, err := strconv.Atoi(m[4])
		if err != nil {
			continue // parameter too large to represent
		}
		switch m[3] {
		case "I":
			if int64(param) > maxTimedMs {
				continue // duration too large to represent
			}
			axis.Interpolate(magnitude(m[2]), param, now)
		case "S":
			axis.MoveAt(magnitude(m[2]), param, now)
		}
	}
}

// magnitude decodes a digit run as a 4-digit fixed-point value: the first
// four digits are kept and shorter runs are right-padded with zeros, so "5"
// reads as 5000. Producers send most-significant digits first and may
// truncate trailing precision.
func magnitude(digits string) int {
	if len(digits) > 4 {
		digits = digits[:4]
	}
	n, _ := strconv.Atoi(digits) // digits only, cannot fail
	for i := len(digits); i < 4; i++ {
		n *= 10
	}
	return n
}

// Axes returns the six channel positions at the time of the call, each
// normalized into [0, 1] by the domain maximum. Always six entries, all
// zero before any command has arrived. Safe to call at any frequency; a
// read never mutates axis state.
func (r *Router) Axes() map[Channel]float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	out := make(map[Channel]float64, len(r.axes))
	for ch, a := range r.axes {
		out[ch] = float64(a.PositionAt(now)) / FullScale
	}
	return out
}
