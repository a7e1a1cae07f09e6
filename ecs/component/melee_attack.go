package component

// MeleeAttack is the player's forward ray attack.
type MeleeAttack struct {
	Range    float64
	Damage   float64
	Cooldown float64
	// Remaining counts down to zero; attacks start only at zero.
	Remaining float64
	// FlagHold is how long the animator Attack flag stays raised.
	FlagHold float64
	HitSound string
	Sound    string
	HitVol   float64
}

var MeleeAttackComponent = NewComponent[MeleeAttack]()
