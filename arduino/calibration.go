package arduino

import (
	"math"

	"github.com/milk9111/keyhold/common"
)

// NormalizeAxis maps raw to [-1, 1] around center. Each half of the travel
// is scaled separately so an off-center rest position still reaches both
// ends. Values inside the deadzone read 0 and the rest is rescaled to start
// at the deadzone edge.
func NormalizeAxis(raw, center, rawMin, rawMax int, deadzone float64) float64 {
	rng := float64(center - rawMin)
	if raw >= center {
		rng = float64(rawMax - center)
	}
	if rng <= 0.0001 {
		return 0
	}
	v := common.Clamp(float64(raw-center)/rng, -1, 1)
	mag := math.Abs(v)
	if mag < deadzone {
		return 0
	}
	return common.Clamp(common.InverseLerp(deadzone, 1, mag)*common.Sign(v), -1, 1)
}

// SmoothFactor converts a per-frame smoothing amount into the blend for a
// step of dt seconds.
func SmoothFactor(smoothing, dt float64) float64 {
	if smoothing <= 0 {
		return 1
	}
	return 1 - math.Pow(1-smoothing, dt*60)
}

func (c Calibration) Axes(raw Raw) (float64, float64) {
	return NormalizeAxis(raw.X, c.CenterX, c.RawMin, c.RawMax, c.Deadzone),
		NormalizeAxis(raw.Y, c.CenterY, c.RawMin, c.RawMax, c.Deadzone)
}

func (c Calibration) ZPressed(raw Raw) bool {
	return pressed(raw.Z, c.ZActiveLow)
}

func (c Calibration) BPressed(raw Raw) bool {
	return pressed(raw.B, c.BActiveLow)
}

func pressed(v int, activeLow bool) bool {
	if activeLow {
		return v == 0
	}
	return v != 0
}

// Rest returns the raw reading of an untouched controller.
func (c Calibration) Rest() Raw {
	r := Raw{X: c.CenterX, Y: c.CenterY}
	if c.ZActiveLow {
		r.Z = 1
	}
	if c.BActiveLow {
		r.B = 1
	}
	return r
}
