// Package tcode implements the TCode command protocol: a line-oriented
// stream of per-axis position commands with optional timed or speed-limited
// motion extensions.
package tcode

import (
	"math"
	"time"
)

// FullScale is the domain maximum of the 4-digit fixed-point encoding.
const FullScale = 9999

// Channel identifies one motion channel of a TCode device.
type Channel string

// The six channels of a TCode device: three linear, three rotary.
const (
	Stroke Channel = "L0" // up/down
	Surge  Channel = "L1" // back/forward
	Sway   Channel = "L2" // left/right
	Twist  Channel = "R0"
	Roll   Channel = "R1"
	Pitch  Channel = "R2"
)

// AllChannels returns all channels in display order.
func AllChannels() []Channel {
	return []Channel{Stroke, Surge, Sway, Twist, Roll, Pitch}
}

// Description returns the conventional axis assignment for display.
func (c Channel) Description() string {
	switch c {
	case Stroke:
		return "stroke"
	case Surge:
		return "surge"
	case Sway:
		return "sway"
	case Twist:
		return "twist"
	case Roll:
		return "roll"
	case Pitch:
		return "pitch"
	}
	return string(c)
}

type moveMode int

const (
	modeIdle moveMode = iota
	modeTimed
	modeSpeed
)

// Axis is the motion state machine for a single channel. Moves resolve
// lazily against a caller-supplied instant, so reads never mutate state and
// motion is deterministic under test. Durations and speeds use milliseconds
// as the protocol time-unit. The zero value is an idle axis at position 0.
type Axis struct {
	position int // resolved position when the current move was issued
	target   int
	mode     moveMode
	param    int       // duration in ms (timed) or units per ms (speed)
	issued   time.Time // when the current move was issued
}

// MoveTo snaps the axis to value immediately.
func (a *Axis) MoveTo(value int, now time.Time) {
	v := clamp(value)
	a.position = v
	a.target = v
	a.mode = modeIdle
	a.param = 0
	a.issued = now
}

// Interpolate starts a move that reaches value exactly after ms
// milliseconds, linear in time. A non-positive duration degrades to an
// immediate move; a duration too long for a time.Duration saturates to
// the longest representable move.
func (a *Axis) Interpolate(value, ms int, now time.Time) {
	if ms <= 0 {
		a.MoveTo(value, now)
		return
	}
	a.rebase(now)
	a.target = clamp(value)
	a.mode = modeTimed
	a.param = ms
	a.issued = now
}

// MoveAt starts a move toward value at speed domain-units per millisecond.
// A non-positive speed degrades to an immediate move.
func (a *Axis) MoveAt(value, speed int, now time.Time) {
	if speed <= 0 {
		a.MoveTo(value, now)
		return
	}
	a.rebase(now)
	a.target = clamp(value)
	a.mode = modeSpeed
	a.param = speed
	a.issued = now
}

// rebase resolves the in-flight move so a new one originates from the
// position the axis actually holds, not the previous move's endpoint.
func (a *Axis) rebase(now time.Time) {
	a.position = a.PositionAt(now)
}

// PositionAt resolves the axis position at the given instant: the last
// commanded position for an idle axis, the interpolated or advancing value
// for a move in flight. Never past the target, never mutating.
func (a *Axis) PositionAt(now time.Time) int {
	elapsed := now.Sub(a.issued)
	if elapsed < 0 {
		elapsed = 0
	}

	switch a.mode {
	case modeTimed:
		total := msDuration(a.param)
		if elapsed >= total {
			return a.target
		}
		frac := float64(elapsed) / float64(total)
		return a.position + int(math.Round(frac*float64(a.target-a.position)))

	case modeSpeed:
		travelled := float64(elapsed) / float64(time.Millisecond) * float64(a.param)
		if travelled >= float64(abs(a.target-a.position)) {
			return a.target
		}
		if a.target < a.position {
			return a.position - int(math.Round(travelled))
		}
		return a.position + int(math.Round(travelled))
	}

	return a.position
}

// Target returns the pending destination of the axis.
func (a *Axis) Target() int {
	return a.target
}

// maxTimedMs is the longest duration, in milliseconds, that fits a
// time.Duration.
const maxTimedMs = math.MaxInt64 / int64(time.Millisecond)

// msDuration converts a millisecond count to a Duration, saturating at the
// maximum rather than wrapping for counts beyond the representable range.
func msDuration(ms int) time.Duration {
	if int64(ms) > maxTimedMs {
		return math.MaxInt64
	}
	return time.Duration(ms) * time.Millisecond
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > FullScale {
		return FullScale
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
