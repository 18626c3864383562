package colormodel

import (
	"image/color"
	"math"
	"testing"
)

func approx(a, b [3]float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestSlopes(t *testing.T) {
	m := Default()
	wantHigh := [3]float64{(215 - 255) / 2.5, (25 - 255) / 2.5, (28 - 191) / 2.5}
	wantLow := [3]float64{26 - 255, 150 - 255, 65 - 191}
	if !approx(m.HighSlope(), wantHigh) {
		t.Fatalf("high got=%v want=%v", m.HighSlope(), wantHigh)
	}
	if !approx(m.LowSlope(), wantLow) {
		t.Fatalf("low got=%v want=%v", m.LowSlope(), wantLow)
	}
}

func TestColorAtOneIsCentral(t *testing.T) {
	m := Default()
	if got := m.Color(1); !approx(got, [3]float64{255, 255, 191}) {
		t.Fatalf("got=%v want central", got)
	}
	if got := m.RGBA(1); got != (color.RGBA{255, 255, 191, 255}) {
		t.Fatalf("got=%v want central", got)
	}
}

func TestColorContinuousAtOne(t *testing.T) {
	m := Default()
	below := m.Color(1 - 1e-9)
	above := m.Color(1 + 1e-9)
	for i := range below {
		if math.Abs(below[i]-above[i]) > 1e-6 {
			t.Fatalf("channel %d jumps: below=%v above=%v", i, below[i], above[i])
		}
	}
}

func TestColorAtTwo(t *testing.T) {
	m := Default()
	got := m.Color(2)
	want := [3]float64{255 + (215-255)/2.5, 255 + (25-255)/2.5, 191 + (28-191)/2.5}
	if !approx(got, want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
	if rgb := m.RGBA(2); rgb != (color.RGBA{239, 163, 125, 255}) {
		t.Fatalf("rgba got=%v", rgb)
	}
}

func TestColorReachesEndpoints(t *testing.T) {
	m := Default()
	if got := m.RGBA(3.5); got != DefaultMax {
		t.Fatalf("q=3.5 got=%v want=%v", got, DefaultMax)
	}
	if got := m.RGBA(0); got != DefaultMin {
		t.Fatalf("q=0 got=%v want=%v", got, DefaultMin)
	}
}

func TestColorMonotonicTowardMax(t *testing.T) {
	m := Default()
	prev := m.Color(1)
	for q := 1.1; q < 6; q += 0.1 {
		cur := m.Color(q)
		for i := range cur {
			// Past Max the channel keeps moving in the same direction.
			if m.highSlope[i] < 0 && cur[i] > prev[i] || m.highSlope[i] > 0 && cur[i] < prev[i] {
				t.Fatalf("q=%.1f channel %d moved backwards: %v -> %v", q, i, prev[i], cur[i])
			}
		}
		prev = cur
	}
}

func TestColorMonotonicTowardMin(t *testing.T) {
	m := Default()
	prev := m.Color(1)
	for q := 0.9; q >= 0; q -= 0.1 {
		cur := m.Color(q)
		for i := range cur {
			if math.Abs(cur[i]-m.min[i]) > math.Abs(prev[i]-m.min[i])+1e-9 {
				t.Fatalf("q=%.1f channel %d moved away from min: %v -> %v", q, i, prev[i], cur[i])
			}
		}
		prev = cur
	}
}

func TestRGBAClampsHighSide(t *testing.T) {
	m := Default()
	got := m.RGBA(10)
	// G and B overshoot below zero well before 10g.
	if got.G != 0 || got.B != 0 {
		t.Fatalf("got=%v want G=0 B=0", got)
	}
	if got.R > 255 {
		t.Fatalf("got=%v", got)
	}
}

func TestClamp(t *testing.T) {
	cases := []struct {
		in   float64
		want uint8
	}{
		{-10, 0}, {0, 0}, {12.9, 12}, {254.99, 254}, {255, 255}, {300, 255}, {math.NaN(), 0},
	}
	for _, c := range cases {
		if got := clamp(c.in); got != c.want {
			t.Fatalf("clamp(%v) got=%d want=%d", c.in, got, c.want)
		}
	}
}

func TestParseRGB(t *testing.T) {
	got, err := ParseRGB(" 215, 25,28")
	if err != nil {
		t.Fatalf("ParseRGB: %v", err)
	}
	if got != DefaultMax {
		t.Fatalf("got=%v want=%v", got, DefaultMax)
	}
	for _, bad := range []string{"", "1,2", "1,2,3,4", "a,b,c", "0,0,256", "-1,0,0"} {
		if _, err := ParseRGB(bad); err == nil {
			t.Fatalf("ParseRGB(%q) expected error", bad)
		}
	}
}
