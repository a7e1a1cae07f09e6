package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// InverseLerp returns where v sits between a and b, clamped to [0,1].
func InverseLerp(a, b, v float64) float64 {
	if a == b {
		return 0
	}
	return Clamp01((v - a) / (b - a))
}

func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// WrapAngle maps an angle into (-Pi, Pi].
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// LerpAngle interpolates along the shortest arc.
func LerpAngle(a, b, t float64) float64 {
	return a + WrapAngle(b-a)*Clamp01(t)
}

// SlerpFactor converts a per-second rate into a frame-rate independent
// interpolation factor.
func SlerpFactor(rate, dt float64) float64 {
	if rate <= 0 {
		return 1
	}
	return 1 - math.Exp(-rate*dt)
}

// Damp moves current toward target with a time constant of damp seconds.
// A zero damp snaps.
func Damp(current, target, damp, dt float64) float64 {
	if damp <= 0 {
		return target
	}
	return Lerp(current, target, 1-math.Exp(-dt/damp))
}

// Length returns the magnitude of (x, y).
func Length(x, y float64) float64 {
	return math.Hypot(x, y)
}

// ToLocal returns (x, y) rotated by -angle, i.e. into the local frame of
// something facing angle.
func ToLocal(x, y, angle float64) (float64, float64) {
	c, s := math.Cos(angle), math.Sin(angle)
	return x*c + y*s, -x*s + y*c
}
