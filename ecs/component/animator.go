package component

// Animator holds blend parameters consumed by the renderer. Floats are
// written through system.SetAnimFloat so damping applies; Flags carry an
// optional auto-clear timer.
type Animator struct {
	Floats map[string]float64
	Flags  map[string]bool
	// FlagTimers counts down seconds until the matching flag clears.
	FlagTimers map[string]float64
}

// Float returns a parameter, zero when unset.
func (a *Animator) Float(name string) float64 {
	if a == nil || a.Floats == nil {
		return 0
	}
	return a.Floats[name]
}

// Flag returns a boolean parameter.
func (a *Animator) Flag(name string) bool {
	if a == nil || a.Flags == nil {
		return false
	}
	return a.Flags[name]
}

func NewAnimator() *Animator {
	return &Animator{
		Floats:     make(map[string]float64),
		Flags:      make(map[string]bool),
		FlagTimers: make(map[string]float64),
	}
}

var AnimatorComponent = NewComponent[Animator]()
