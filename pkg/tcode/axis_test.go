package tcode

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// at returns t0 shifted by ms milliseconds.
func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func TestAxisMoveTo(t *testing.T) {
	var a Axis

	a.MoveTo(5000, t0)
	if got := a.PositionAt(t0); got != 5000 {
		t.Errorf("PositionAt(t0) = %d, want 5000", got)
	}

	// Immediate moves do not drift with time.
	if got := a.PositionAt(at(60_000)); got != 5000 {
		t.Errorf("PositionAt(+60s) = %d, want 5000", got)
	}
	if got := a.Target(); got != 5000 {
		t.Errorf("Target() = %d, want 5000", got)
	}
}

func TestAxisMoveToClamps(t *testing.T) {
	tests := []struct {
		value int
		want  int
	}{
		{-5, 0},
		{0, 0},
		{9999, 9999},
		{12000, 9999},
	}

	for _, tt := range tests {
		var a Axis
		a.MoveTo(tt.value, t0)
		if got := a.PositionAt(t0); got != tt.want {
			t.Errorf("MoveTo(%d): position = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestAxisInterpolate(t *testing.T) {
	var a Axis
	a.MoveTo(1000, t0)
	a.Interpolate(2000, 500, t0)

	tests := []struct {
		ms   int
		want int
	}{
		{0, 1000},
		{125, 1250},
		{250, 1500},
		{500, 2000},
		{900, 2000}, // settled at target after the duration
	}

	for _, tt := range tests {
		if got := a.PositionAt(at(tt.ms)); got != tt.want {
			t.Errorf("PositionAt(+%dms) = %d, want %d", tt.ms, got, tt.want)
		}
	}
}

func TestAxisInterpolateDownward(t *testing.T) {
	var a Axis
	a.MoveTo(9000, t0)
	a.Interpolate(1000, 1000, t0)

	if got := a.PositionAt(at(500)); got != 5000 {
		t.Errorf("PositionAt(+500ms) = %d, want 5000", got)
	}
	if got := a.PositionAt(at(1000)); got != 1000 {
		t.Errorf("PositionAt(+1000ms) = %d, want 1000", got)
	}
}

func TestAxisInterpolateStaysWithinEndpoints(t *testing.T) {
	var a Axis
	a.MoveTo(7000, t0)
	a.Interpolate(2000, 730, t0)

	for ms := 0; ms <= 2000; ms += 10 {
		got := a.PositionAt(at(ms))
		if got < 2000 || got > 7000 {
			t.Fatalf("PositionAt(+%dms) = %d, outside [2000, 7000]", ms, got)
		}
	}
}

func TestAxisInterpolateZeroDuration(t *testing.T) {
	var a Axis
	a.Interpolate(4000, 0, t0)

	if got := a.PositionAt(t0); got != 4000 {
		t.Errorf("PositionAt(t0) = %d, want 4000", got)
	}
}

func TestAxisInterpolateHugeDuration(t *testing.T) {
	var a Axis
	// Almost 295 years. The nanosecond total does not fit an int64, so the
	// conversion saturates instead of wrapping negative.
	a.Interpolate(9999, 9_300_000_000_000, t0)

	if got := a.PositionAt(at(1)); got != 0 {
		t.Errorf("PositionAt(+1ms) = %d, want 0", got)
	}
	if got := a.PositionAt(at(86_400_000)); got != 0 {
		t.Errorf("PositionAt(+24h) = %d, want 0", got)
	}
	if got := a.Target(); got != 9999 {
		t.Errorf("Target() = %d, want 9999", got)
	}
}

func TestAxisMoveAt(t *testing.T) {
	var a Axis
	a.MoveAt(9000, 10, t0) // 10 units/ms from 0

	tests := []struct {
		ms   int
		want int
	}{
		{0, 0},
		{100, 1000},
		{450, 4500},
		{900, 9000},
		{5000, 9000}, // arrived, holds position
	}

	for _, tt := range tests {
		if got := a.PositionAt(at(tt.ms)); got != tt.want {
			t.Errorf("PositionAt(+%dms) = %d, want %d", tt.ms, got, tt.want)
		}
	}
}

func TestAxisMoveAtNeverOvershoots(t *testing.T) {
	var a Axis
	a.MoveTo(8000, t0)
	a.MoveAt(8500, 100, t0)

	for ms := 0; ms <= 10_000; ms += 100 {
		if got := a.PositionAt(at(ms)); got > 8500 {
			t.Fatalf("PositionAt(+%dms) = %d, overshoots target 8500", ms, got)
		}
	}
}

func TestAxisMoveAtDownward(t *testing.T) {
	var a Axis
	a.MoveTo(6000, t0)
	a.MoveAt(1000, 5, t0)

	if got := a.PositionAt(at(200)); got != 5000 {
		t.Errorf("PositionAt(+200ms) = %d, want 5000", got)
	}
	if got := a.PositionAt(at(2000)); got != 1000 {
		t.Errorf("PositionAt(+2000ms) = %d, want 1000", got)
	}
}

func TestAxisMoveAtZeroSpeed(t *testing.T) {
	var a Axis
	a.MoveAt(3000, 0, t0)

	if got := a.PositionAt(t0); got != 3000 {
		t.Errorf("PositionAt(t0) = %d, want 3000", got)
	}
}

func TestAxisOverrideStartsFromResolvedPosition(t *testing.T) {
	var a Axis
	a.Interpolate(8000, 1000, t0)

	// Redirect halfway through: the new move originates from the live
	// position (4000), not from 0 or the old target.
	a.Interpolate(0, 1000, at(500))

	if got := a.PositionAt(at(500)); got != 4000 {
		t.Errorf("PositionAt(+500ms) = %d, want 4000", got)
	}
	if got := a.PositionAt(at(1000)); got != 2000 {
		t.Errorf("PositionAt(+1000ms) = %d, want 2000", got)
	}
	if got := a.PositionAt(at(1500)); got != 0 {
		t.Errorf("PositionAt(+1500ms) = %d, want 0", got)
	}
}

func TestAxisIdleReadsIdempotent(t *testing.T) {
	var a Axis
	a.MoveTo(1234, t0)

	first := a.PositionAt(at(50))
	for i := 0; i < 10; i++ {
		if got := a.PositionAt(at(50)); got != first {
			t.Fatalf("read %d = %d, want %d", i, got, first)
		}
	}
}

func TestAxisZeroValue(t *testing.T) {
	var a Axis
	if got := a.PositionAt(t0); got != 0 {
		t.Errorf("zero-value PositionAt = %d, want 0", got)
	}
	if got := a.Target(); got != 0 {
		t.Errorf("zero-value Target = %d, want 0", got)
	}
}

func TestChannelDescription(t *testing.T) {
	if got := Stroke.Description(); got != "stroke" {
		t.Errorf("Stroke.Description() = %q, want %q", got, "stroke")
	}
	if got := Channel("L7").Description(); got != "L7" {
		t.Errorf("unknown channel Description() = %q, want %q", got, "L7")
	}
}

func TestAllChannels(t *testing.T) {
	chans := AllChannels()
	if len(chans) != 6 {
		t.Fatalf("AllChannels returned %d channels, want 6", len(chans))
	}

	seen := make(map[Channel]bool)
	for _, ch := range chans {
		seen[ch] = true
	}
	for _, want := range []Channel{Stroke, Surge, Sway, Twist, Roll, Pitch} {
		if !seen[want] {
			t.Errorf("AllChannels missing %s", want)
		}
	}
}
