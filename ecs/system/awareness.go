package system

import (
	"github.com/milk9111/keyhold/common"
	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
)

// AwarenessSystem runs each enemy's proximity sensor against the physics
// space. Dead targets are never sensed.
type AwarenessSystem struct {
	physics *PhysicsSystem
}

func NewAwarenessSystem(physics *PhysicsSystem) *AwarenessSystem {
	return &AwarenessSystem{physics: physics}
}

func (s *AwarenessSystem) Update(w *ecs.World) {
	space := s.physics.Space()
	ecs.ForEach2(w, component.EnemyAwarenessComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, aw *component.EnemyAwareness, t *component.Transform) {
		if isDead(w, e) {
			aw.Aware = false
			aw.Targets = aw.Targets[:0]
			return
		}
		if aw.CheckInterval > 0 {
			aw.Timer -= common.DeltaTime
			if aw.Timer > 0 {
				return
			}
			aw.Timer = aw.CheckInterval
		}

		mask := aw.TargetMask
		if mask == 0 {
			mask = component.CategoryPlayer
		}
		aw.Targets = aw.Targets[:0]
		for _, hit := range OverlapCircle(space, t.X, t.Y, aw.DetectionRadius, mask) {
			if hit == e || isDead(w, hit) {
				continue
			}
			aw.Targets = append(aw.Targets, uint64(hit))
		}
		aw.Aware = len(aw.Targets) > 0
	})
}

func isDead(w *ecs.World, e ecs.Entity) bool {
	if !ecs.IsAlive(w, e) {
		return true
	}
	h, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	return ok && h.Dead
}
