package common

import (
	"math"
	"testing"
)

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestInverseLerp(t *testing.T) {
	tests := []struct {
		name    string
		a, b, v float64
		want    float64
	}{
		{"start", 0, 10, 0, 0},
		{"mid", 0, 10, 5, 0.5},
		{"clamped_low", 0, 10, -3, 0},
		{"clamped_high", 0, 10, 12, 1},
		{"degenerate", 1, 1, 1, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := InverseLerp(tc.a, tc.b, tc.v); !almost(got, tc.want) {
				t.Fatalf("InverseLerp(%v,%v,%v) = %v, want %v", tc.a, tc.b, tc.v, got, tc.want)
			}
		})
	}
}

func TestWrapAndLerpAngle(t *testing.T) {
	if got := WrapAngle(2.5 * math.Pi); !almost(got, math.Pi/2) {
		t.Fatalf("WrapAngle(2.5pi) = %v", got)
	}
	if got := WrapAngle(-math.Pi / 2); !almost(got, -math.Pi/2) {
		t.Fatalf("WrapAngle(-pi/2) = %v", got)
	}
	// shortest arc from just below +pi to just above -pi crosses the seam
	a, b := math.Pi-0.1, -math.Pi+0.1
	if got := LerpAngle(a, b, 0.5); !almost(WrapAngle(got), math.Pi) && !almost(WrapAngle(got), -math.Pi) {
		t.Fatalf("LerpAngle crossed the long way: %v", got)
	}
	if got := LerpAngle(0, 1, 1); !almost(got, 1) {
		t.Fatalf("LerpAngle full step = %v", got)
	}
}

func TestDamp(t *testing.T) {
	if got := Damp(0, 1, 0, DeltaTime); got != 1 {
		t.Fatalf("zero damp should snap, got %v", got)
	}
	got := Damp(0, 1, 0.1, DeltaTime)
	if got <= 0 || got >= 1 {
		t.Fatalf("damped step out of range: %v", got)
	}
}

func TestToLocal(t *testing.T) {
	// facing +Y, a world +Y vector is local forward (+X)
	x, y := ToLocal(0, 1, math.Pi/2)
	if !almost(x, 1) || !almost(y, 0) {
		t.Fatalf("ToLocal = (%v,%v), want (1,0)", x, y)
	}
}
