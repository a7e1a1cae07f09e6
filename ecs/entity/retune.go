package entity

import (
	"fmt"

	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
	"github.com/milk9111/keyhold/prefabs"
)

type retuneFn func(w *ecs.World, e ecs.Entity, raw any) error

// retuneRegistry lists the components whose tunables can change on a live
// entity. Runtime state (timers, targets, paths) is kept.
var retuneRegistry = map[string]retuneFn{
	"player":          retunePlayer,
	"melee_attack":    retuneMeleeAttack,
	"enemy_awareness": retuneEnemyAwareness,
	"enemy_ai":        retuneEnemyAI,
	"nav_agent":       retuneNavAgent,
	"camera":          retuneCamera,
}

// Retune reapplies a changed prefab's tunables to every entity built from
// it and returns how many entities were updated.
func Retune(w *ecs.World, prefabPath string) (int, error) {
	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("retune: %w", err)
	}

	var targets []ecs.Entity
	ecs.ForEach(w, component.PrefabComponent.Kind(), func(e ecs.Entity, p *component.Prefab) {
		if p.Path == prefabPath {
			targets = append(targets, e)
		}
	})

	for _, e := range targets {
		for _, name := range orderedComponents(spec.Components) {
			fn, ok := retuneRegistry[name]
			if !ok {
				continue
			}
			if err := fn(w, e, spec.Components[name]); err != nil {
				return 0, fmt.Errorf("retune %q: %s: %w", prefabPath, name, err)
			}
		}
	}
	return len(targets), nil
}

func retunePlayer(w *ecs.World, e ecs.Entity, raw any) error {
	p, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	if !ok {
		return nil
	}
	spec, err := prefabs.DecodeComponentSpec[playerSpec](raw)
	if err != nil {
		return err
	}
	fresh := playerFromSpec(spec)
	fresh.Number, fresh.SessionID, fresh.Walking = p.Number, p.SessionID, p.Walking
	*p = fresh
	return nil
}

func retuneMeleeAttack(w *ecs.World, e ecs.Entity, raw any) error {
	m, ok := ecs.Get(w, e, component.MeleeAttackComponent.Kind())
	if !ok {
		return nil
	}
	spec, err := prefabs.DecodeComponentSpec[meleeAttackSpec](raw)
	if err != nil {
		return err
	}
	fresh := meleeAttackFromSpec(spec)
	fresh.Remaining = min(m.Remaining, fresh.Cooldown)
	*m = fresh
	return nil
}

func retuneEnemyAwareness(w *ecs.World, e ecs.Entity, raw any) error {
	aw, ok := ecs.Get(w, e, component.EnemyAwarenessComponent.Kind())
	if !ok {
		return nil
	}
	spec, err := prefabs.DecodeComponentSpec[enemyAwarenessSpec](raw)
	if err != nil {
		return err
	}
	fresh, err := enemyAwarenessFromSpec(spec)
	if err != nil {
		return err
	}
	fresh.Timer, fresh.Aware, fresh.Targets = aw.Timer, aw.Aware, aw.Targets
	*aw = fresh
	return nil
}

func retuneEnemyAI(w *ecs.World, e ecs.Entity, raw any) error {
	ai, ok := ecs.Get(w, e, component.EnemyAIComponent.Kind())
	if !ok {
		return nil
	}
	spec, err := prefabs.DecodeComponentSpec[enemyAISpec](raw)
	if err != nil {
		return err
	}
	fresh := enemyAIFromSpec(spec)
	fresh.HomeX, fresh.HomeY = ai.HomeX, ai.HomeY
	fresh.State, fresh.Target, fresh.HadTarget = ai.State, ai.Target, ai.HadTarget
	fresh.Attacking, fresh.AttackLeft, fresh.Cooldown, fresh.Struck = ai.Attacking, ai.AttackLeft, ai.Cooldown, ai.Struck
	*ai = fresh
	return nil
}

func retuneNavAgent(w *ecs.World, e ecs.Entity, raw any) error {
	agent, ok := ecs.Get(w, e, component.NavAgentComponent.Kind())
	if !ok {
		return nil
	}
	spec, err := prefabs.DecodeComponentSpec[navAgentSpec](raw)
	if err != nil {
		return err
	}
	fresh := navAgentFromSpec(spec)
	agent.Speed = fresh.Speed
	agent.Acceleration = fresh.Acceleration
	agent.StoppingDistance = fresh.StoppingDistance
	agent.RepathInterval = fresh.RepathInterval
	return nil
}

func retuneCamera(w *ecs.World, e ecs.Entity, raw any) error {
	c, ok := ecs.Get(w, e, component.CameraComponent.Kind())
	if !ok {
		return nil
	}
	spec, err := prefabs.DecodeComponentSpec[cameraSpec](raw)
	if err != nil {
		return err
	}
	fresh := cameraFromSpec(spec)
	fresh.Target = c.Target
	*c = fresh
	return nil
}
