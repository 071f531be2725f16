package tcode

import (
	"math"
	"testing"
	"time"
)

// fixedRouter returns a Router whose clock is pinned to t0 until the
// test moves it.
func fixedRouter() (*Router, *time.Time) {
	clock := t0
	r := NewRouter()
	r.now = func() time.Time { return clock }
	return r, &clock
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMagnitude(t *testing.T) {
	tests := []struct {
		digits string
		want   int
	}{
		{"7", 7000},
		{"73", 7300},
		{"730", 7300},
		{"7300", 7300},
		{"73005", 7300}, // extra digits beyond four are ignored
		{"0", 0},
		{"00", 0},
		{"5", 5000},
		{"9999", 9999},
		{"99999", 9999},
	}

	for _, tt := range tests {
		if got := magnitude(tt.digits); got != tt.want {
			t.Errorf("magnitude(%q) = %d, want %d", tt.digits, got, tt.want)
		}
	}
}

func TestRouterPlainCommand(t *testing.T) {
	r, _ := fixedRouter()
	r.WriteString("L0500\n")

	if got, want := r.Axes()[Stroke], 5000.0/FullScale; !approx(got, want) {
		t.Errorf("Axes()[Stroke] = %v, want %v", got, want)
	}
}

func TestRouterCommandSplitAcrossWrites(t *testing.T) {
	r, _ := fixedRouter()
	r.WriteString("L05")

	// Nothing executes until the newline arrives.
	if got := r.Axes()[Stroke]; !approx(got, 0) {
		t.Errorf("Axes()[Stroke] before newline = %v, want 0", got)
	}

	r.WriteString("00\n")
	if got, want := r.Axes()[Stroke], 5000.0/FullScale; !approx(got, want) {
		t.Errorf("Axes()[Stroke] after newline = %v, want %v", got, want)
	}
}

func TestRouterMultipleCommandsPerLine(t *testing.T) {
	r, _ := fixedRouter()
	r.WriteString("L0100 R0200 R2999\n")

	axes := r.Axes()
	if got, want := axes[Stroke], 1000.0/FullScale; !approx(got, want) {
		t.Errorf("Stroke = %v, want %v", got, want)
	}
	if got, want := axes[Twist], 2000.0/FullScale; !approx(got, want) {
		t.Errorf("Twist = %v, want %v", got, want)
	}
	if got, want := axes[Pitch], 9990.0/FullScale; !approx(got, want) {
		t.Errorf("Pitch = %v, want %v", got, want)
	}
}

func TestRouterMultipleLinesPerWrite(t *testing.T) {
	r, _ := fixedRouter()
	r.WriteString("L01\nL02\nL03\n")

	if got, want := r.Axes()[Stroke], 3000.0/FullScale; !approx(got, want) {
		t.Errorf("Stroke = %v, want %v", got, want)
	}
}

func TestRouterDiscardsMalformedTokens(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"garbage", "ZZ9 hello !!\n"},
		{"lowercase channel", "l0500\n"},
		{"missing digits", "L0\n"},
		{"unknown channel", "L9500\n"},
		{"unknown extension", "L0500X100\n"},
		{"extension without param", "L0500I\n"},
		{"oversized extension param", "L0500I99999999999999999999\n"},
		{"trailing junk", "L0500junk\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := fixedRouter()
			r.WriteString(tt.line)
			for ch, v := range r.Axes() {
				if !approx(v, 0) {
					t.Errorf("%s = %v, want 0 (token should be discarded)", ch, v)
				}
			}
		})
	}
}

func TestRouterMalformedTokenDoesNotPoisonLine(t *testing.T) {
	r, _ := fixedRouter()
	r.WriteString("ZZ1234 L0500 !! R1250\n")

	axes := r.Axes()
	if got, want := axes[Stroke], 5000.0/FullScale; !approx(got, want) {
		t.Errorf("Stroke = %v, want %v", got, want)
	}
	if got, want := axes[Roll], 2500.0/FullScale; !approx(got, want) {
		t.Errorf("Roll = %v, want %v", got, want)
	}
}

func TestRouterHandlesCRLFAndBlankLines(t *testing.T) {
	r, _ := fixedRouter()
	r.WriteString("\n\nL0500\r\n\r\n")

	if got, want := r.Axes()[Stroke], 5000.0/FullScale; !approx(got, want) {
		t.Errorf("Stroke = %v, want %v", got, want)
	}
}

func TestRouterAxesComplete(t *testing.T) {
	r, _ := fixedRouter()
	r.WriteString("L0999\n")

	axes := r.Axes()
	if len(axes) != 6 {
		t.Fatalf("Axes() returned %d entries, want 6", len(axes))
	}
	for _, ch := range AllChannels() {
		v, ok := axes[ch]
		if !ok {
			t.Errorf("Axes() missing %s", ch)
			continue
		}
		if v < 0 || v > 1 {
			t.Errorf("%s = %v, outside [0, 1]", ch, v)
		}
	}
}

func TestRouterInterpolateCommand(t *testing.T) {
	r, clock := fixedRouter()
	r.WriteString("L09999I1000\n")

	*clock = at(250)
	if got, want := r.Axes()[Stroke], 2500.0/FullScale; !approx(got, want) {
		t.Errorf("Stroke at +250ms = %v, want %v", got, want)
	}

	*clock = at(1500)
	if got := r.Axes()[Stroke]; !approx(got, 1) {
		t.Errorf("Stroke at +1500ms = %v, want 1", got)
	}
}

func TestRouterDiscardsUnrepresentableDuration(t *testing.T) {
	r, clock := fixedRouter()
	// A thirteen-digit parameter parses as an int but overflows the
	// nanosecond representation of a duration. The token is dropped
	// whole, so the axis must not snap to target.
	r.WriteString("L09999I9300000000000\n")

	*clock = at(1)
	if got := r.Axes()[Stroke]; !approx(got, 0) {
		t.Errorf("Stroke at +1ms = %v, want 0", got)
	}

	*clock = at(86_400_000)
	if got := r.Axes()[Stroke]; !approx(got, 0) {
		t.Errorf("Stroke at +24h = %v, want 0", got)
	}

	// The channel still follows later commands.
	r.WriteString("L05000\n")
	if got, want := r.Axes()[Stroke], 5000.0/FullScale; !approx(got, want) {
		t.Errorf("Stroke after plain command = %v, want %v", got, want)
	}
}

func TestRouterSpeedCommand(t *testing.T) {
	r, clock := fixedRouter()
	r.WriteString("R02000S10\n")

	*clock = at(100)
	if got, want := r.Axes()[Twist], 1000.0/FullScale; !approx(got, want) {
		t.Errorf("Twist at +100ms = %v, want %v", got, want)
	}

	*clock = at(1000)
	if got, want := r.Axes()[Twist], 2000.0/FullScale; !approx(got, want) {
		t.Errorf("Twist at +1000ms = %v, want %v", got, want)
	}
}

func TestRouterOverrideMidMove(t *testing.T) {
	r, clock := fixedRouter()
	r.WriteString("L08000I1000\n")

	// Halfway through the first move, redirect to zero. The new ramp
	// starts from the live position.
	*clock = at(500)
	r.WriteString("L00000I1000\n")

	if got, want := r.Axes()[Stroke], 4000.0/FullScale; !approx(got, want) {
		t.Errorf("Stroke at +500ms = %v, want %v", got, want)
	}

	*clock = at(1000)
	if got, want := r.Axes()[Stroke], 2000.0/FullScale; !approx(got, want) {
		t.Errorf("Stroke at +1000ms = %v, want %v", got, want)
	}

	*clock = at(1500)
	if got := r.Axes()[Stroke]; !approx(got, 0) {
		t.Errorf("Stroke at +1500ms = %v, want 0", got)
	}
}

func TestRouterWriteReportsFullLength(t *testing.T) {
	r, _ := fixedRouter()
	p := []byte("L0500\nL06")
	n, err := r.Write(p)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != len(p) {
		t.Errorf("Write returned %d, want %d", n, len(p))
	}
}

func TestRouterRepeatedReadsStable(t *testing.T) {
	r, _ := fixedRouter()
	r.WriteString("L07300 R15000\n")

	first := r.Axes()
	for i := 0; i < 5; i++ {
		again := r.Axes()
		for ch, v := range first {
			if !approx(again[ch], v) {
				t.Fatalf("read %d: %s = %v, want %v", i, ch, again[ch], v)
			}
		}
	}
}
