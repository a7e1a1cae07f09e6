package component

type Player struct {
	// Number is the 1-based join order; it selects the spawn point and the
	// health bar slot.
	Number    int
	SessionID string

	MoveSpeed     float64
	RotationSpeed float64
	AnimDamp      float64
	MoveDeadzone  float64
	LookDeadzone  float64
	ContactDamage float64

	Walking bool
}

var PlayerComponent = NewComponent[Player]()
