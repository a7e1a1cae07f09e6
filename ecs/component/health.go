package component

// Health is a clamped damage pool. Dead latches at zero until Revive.
type Health struct {
	Current float64
	Max     float64
	Dead    bool
	// DestroyDelay is how long a dead entity lingers before removal.
	// Zero with DestroyOnDeath false keeps the entity (players).
	DestroyDelay   float64
	DestroyOnDeath bool
	// DeathHandled is set once the death was reported.
	DeathHandled bool
}

// Ratio returns Current/Max in [0,1].
func (h Health) Ratio() float64 {
	if h.Max <= 0 {
		return 0
	}
	r := h.Current / h.Max
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

var HealthComponent = NewComponent[Health]()

// Revive is a pending revive timer. Token must match the session's live
// token for the revive to apply, so cancelled timers simply lapse.
type Revive struct {
	Remaining float64
	Token     uint64
}

var ReviveComponent = NewComponent[Revive]()
