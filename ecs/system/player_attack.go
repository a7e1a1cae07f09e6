package system

import (
	"github.com/milk9111/keyhold/common"
	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
)

const defaultHitVolume = 0.4

// PlayerAttackSystem runs the player's forward ray attack: on an attack
// press with the cooldown elapsed it raises the Attack flag, plays the
// swing and damages the first enemy along the ray.
type PlayerAttackSystem struct {
	physics *PhysicsSystem
}

func NewPlayerAttackSystem(physics *PhysicsSystem) *PlayerAttackSystem {
	return &PlayerAttackSystem{physics: physics}
}

func (pa *PlayerAttackSystem) Update(w *ecs.World) {
	ecs.ForEach3(w, component.MeleeAttackComponent.Kind(), component.InputComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, m *component.MeleeAttack, in *component.Input, t *component.Transform) {
		if m.Remaining > 0 {
			m.Remaining = max(0, m.Remaining-common.DeltaTime)
		}
		if !in.AttackPressed || m.Remaining > 0 || isDead(w, e) {
			return
		}
		m.Remaining = m.Cooldown

		anim, _ := ecs.Get(w, e, component.AnimatorComponent.Kind())
		SetAnimFlag(anim, AnimAttack, true, m.FlagHold)
		if m.Sound != "" {
			w.Events().PlaySound(m.Sound, 1)
		}

		hit, ok := RaycastAngle(pa.physics.Space(), t.X, t.Y, t.Rotation, m.Range, component.CategoryAll, e)
		if !ok || hit.Category&component.CategoryEnemy == 0 {
			return
		}
		if !ApplyDamage(w, hit.Entity, m.Damage) {
			return
		}
		vol := m.HitVol
		if vol <= 0 {
			vol = defaultHitVolume
		}
		if m.HitSound != "" {
			w.Events().PlaySound(m.HitSound, vol)
		}
	})
}
