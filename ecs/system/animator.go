package system

import (
	"github.com/milk9111/keyhold/common"
	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
)

// Animator parameter names.
const (
	AnimSpeed = "Speed"
	AnimMoveX = "MoveX"
	AnimMoveY = "MoveY"

	AnimAttack = "Attack"

	AnimEnemyMoveX  = "Enemy_MoveX"
	AnimEnemyMoveY  = "Enemy_MoveY"
	AnimEnemySpeed  = "Enemy_Speed"
	AnimEnemyAttack = "Enemy_Attack"
)

// SetAnimFloat moves a parameter toward value with damp seconds of
// smoothing; zero damp sets it outright.
func SetAnimFloat(a *component.Animator, name string, value, damp float64) {
	if a == nil {
		return
	}
	if a.Floats == nil {
		a.Floats = make(map[string]float64)
	}
	a.Floats[name] = common.Damp(a.Floats[name], value, damp, common.DeltaTime)
}

// SetAnimFlag raises or lowers a flag. A positive hold lowers it again
// after hold seconds.
func SetAnimFlag(a *component.Animator, name string, on bool, hold float64) {
	if a == nil {
		return
	}
	if a.Flags == nil {
		a.Flags = make(map[string]bool)
	}
	if a.FlagTimers == nil {
		a.FlagTimers = make(map[string]float64)
	}
	a.Flags[name] = on
	if on && hold > 0 {
		a.FlagTimers[name] = hold
		return
	}
	delete(a.FlagTimers, name)
}

// AnimatorSystem expires timed flags.
type AnimatorSystem struct{}

func NewAnimatorSystem() *AnimatorSystem {
	return &AnimatorSystem{}
}

func (s *AnimatorSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.AnimatorComponent.Kind(), func(_ ecs.Entity, a *component.Animator) {
		for name, left := range a.FlagTimers {
			left -= common.DeltaTime
			if left <= 0 {
				a.Flags[name] = false
				delete(a.FlagTimers, name)
				continue
			}
			a.FlagTimers[name] = left
		}
	})
}
