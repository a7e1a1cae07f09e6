package system

import (
	"math"

	"github.com/milk9111/keyhold/common"
	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
)

// EnemyAISystem decides, once per tick, whether each enemy idles, walks
// toward a target or home, or attacks. It drives the nav agent's
// destination, the enemy's facing and its animator blend.
type EnemyAISystem struct {
	physics *PhysicsSystem
}

func NewEnemyAISystem(physics *PhysicsSystem) *EnemyAISystem {
	return &EnemyAISystem{physics: physics}
}

type targetInfo struct {
	entity ecs.Entity
	x      float64
	y      float64
}

func (s *EnemyAISystem) Update(w *ecs.World) {
	ecs.ForEach4(w,
		component.EnemyAIComponent.Kind(),
		component.NavAgentComponent.Kind(),
		component.TransformComponent.Kind(),
		component.EnemyAwarenessComponent.Kind(),
		func(e ecs.Entity, ai *component.EnemyAI, agent *component.NavAgent, t *component.Transform, aw *component.EnemyAwareness) {
			if isDead(w, e) {
				return
			}
			anim, _ := ecs.Get(w, e, component.AnimatorComponent.Kind())
			s.tick(w, e, ai, agent, t, aw, anim)
		})
}

func (s *EnemyAISystem) tick(w *ecs.World, e ecs.Entity, ai *component.EnemyAI, agent *component.NavAgent, t *component.Transform, aw *component.EnemyAwareness, anim *component.Animator) {
	target, hasTarget := closestTarget(w, aw, t)
	lost := ai.HadTarget && !hasTarget
	ai.HadTarget = hasTarget
	ai.Target = 0
	if hasTarget {
		ai.Target = uint64(target.entity)
	}

	if !agent.OnNavMesh {
		agent.Stopped = true
		agent.ClearDestination()
		abortAttack(ai, anim)
		snapLocomotionZero(ai, anim)
		ai.State = combatState(ai, hasTarget)
		return
	}

	if hasTarget {
		agent.SetDestination(target.x, target.y)
	} else {
		agent.SetDestination(ai.HomeX, ai.HomeY)
	}
	agent.Stopped = ai.Attacking && ai.FreezeOnAttack

	s.locomotion(ai, agent, t, anim, target, hasTarget, lost)

	s.progressAttack(w, e, ai, agent, t, anim)
	if hasTarget {
		s.tryStartAttack(w, e, ai, agent, t, anim, target)
	}
	ai.State = combatState(ai, hasTarget)
}

func (s *EnemyAISystem) locomotion(ai *component.EnemyAI, agent *component.NavAgent, t *component.Transform, anim *component.Animator, target targetInfo, hasTarget, lost bool) {
	if ai.Attacking {
		if hasTarget {
			face(ai, t, target.x-t.X, target.y-t.Y)
		}
		snapLocomotionZero(ai, anim)
		return
	}
	if lost || agent.PathPending || !agent.HasPath() {
		snapLocomotionZero(ai, anim)
		return
	}

	arrived := agent.RemainingDistance <= agent.StoppingDistance+ai.ArriveTolerance
	var mx, my float64
	if !arrived {
		mx, my = worldMove(ai, agent, t)
	}
	speed := math.Hypot(mx, my)
	if speed <= ai.SpeedDeadzone {
		snapLocomotionZero(ai, anim)
		return
	}

	fx, fy := mx, my
	if hasTarget {
		if dx, dy := target.x-t.X, target.y-t.Y; math.Hypot(dx, dy) > 1e-6 {
			fx, fy = dx, dy
		}
	}
	face(ai, t, fx, fy)

	forward, lateral := common.ToLocal(mx/speed, my/speed, t.Rotation)
	norm := 0.0
	if agent.Speed > 1e-4 {
		norm = common.Clamp01(speed / agent.Speed)
	}

	x := snap(lateral, ai.SnapDeadzone)
	y := snap(forward, ai.SnapDeadzone)
	if norm < ai.SnapDeadzone {
		norm = 0
	}
	SetAnimFloat(anim, AnimEnemyMoveX, x, ai.AnimDampMoving)
	SetAnimFloat(anim, AnimEnemyMoveY, y, ai.AnimDampMoving)
	SetAnimFloat(anim, AnimEnemySpeed, norm, ai.AnimDampMoving)
}

// worldMove prefers the measured velocity, then the desired velocity, then
// the heading to the next corner at full speed. The later fallbacks cover
// the first ticks of a path before the body picked up speed.
func worldMove(ai *component.EnemyAI, agent *component.NavAgent, t *component.Transform) (float64, float64) {
	vx, vy := agent.VelX, agent.VelY
	if math.Hypot(vx, vy) > ai.SpeedDeadzone {
		return vx, vy
	}
	if math.Hypot(agent.DesiredX, agent.DesiredY) > 0.01 {
		return agent.DesiredX, agent.DesiredY
	}
	if corner, ok := agent.SteeringTarget(); ok {
		dx, dy := corner.X-t.X, corner.Y-t.Y
		if d := math.Hypot(dx, dy); d > 0.01 {
			return dx / d * agent.Speed, dy / d * agent.Speed
		}
	}
	return vx, vy
}

func face(ai *component.EnemyAI, t *component.Transform, dx, dy float64) {
	if math.Hypot(dx, dy) < 1e-6 {
		return
	}
	t.Rotation = common.WrapAngle(common.LerpAngle(t.Rotation, math.Atan2(dy, dx), ai.RotationSpeed*common.DeltaTime))
}

func snap(v, deadzone float64) float64 {
	if math.Abs(v) < deadzone {
		return 0
	}
	return v
}

func snapLocomotionZero(ai *component.EnemyAI, anim *component.Animator) {
	SetAnimFloat(anim, AnimEnemyMoveX, 0, ai.AnimDampStopping)
	SetAnimFloat(anim, AnimEnemyMoveY, 0, ai.AnimDampStopping)
	SetAnimFloat(anim, AnimEnemySpeed, 0, ai.AnimDampStopping)
}

func (s *EnemyAISystem) progressAttack(w *ecs.World, e ecs.Entity, ai *component.EnemyAI, agent *component.NavAgent, t *component.Transform, anim *component.Animator) {
	if !ai.Attacking {
		ai.Cooldown = math.Max(0, ai.Cooldown-common.DeltaTime)
		return
	}
	ai.AttackLeft -= common.DeltaTime

	if !ai.Struck && ai.AttackLeft <= ai.AttackDuration/2 {
		ai.Struck = true
		hit, ok := RaycastAngle(s.physics.Space(), t.X, t.Y, t.Rotation, ai.AttackRange, component.CategoryAll, e)
		if ok && hit.Category&component.CategoryPlayer != 0 {
			if ApplyDamage(w, hit.Entity, ai.AttackDamage) {
				w.Events().PlaySound("player_hurt", 0.6)
			}
		}
	}

	if ai.AttackLeft <= 0 {
		ai.Attacking = false
		ai.AttackLeft = 0
		ai.Cooldown = ai.AttackCooldown
		agent.Stopped = false
		SetAnimFlag(anim, AnimEnemyAttack, false, 0)
	}
}

func (s *EnemyAISystem) tryStartAttack(w *ecs.World, e ecs.Entity, ai *component.EnemyAI, agent *component.NavAgent, t *component.Transform, anim *component.Animator, target targetInfo) {
	if ai.Attacking || ai.Cooldown > 0 {
		return
	}
	if math.Hypot(target.x-t.X, target.y-t.Y) > ai.AttackRange {
		return
	}
	if !LineOfSight(s.physics.Space(), t.X, t.Y, target.x, target.y) {
		return
	}
	ai.Attacking = true
	ai.Struck = false
	ai.AttackLeft = ai.AttackDuration
	agent.Stopped = ai.FreezeOnAttack
	SetAnimFlag(anim, AnimEnemyAttack, true, 0)
	if ai.AttackSound != "" {
		w.Events().PlaySound(ai.AttackSound, 1)
	}
}

func abortAttack(ai *component.EnemyAI, anim *component.Animator) {
	if !ai.Attacking {
		return
	}
	ai.Attacking = false
	ai.AttackLeft = 0
	ai.Struck = false
	SetAnimFlag(anim, AnimEnemyAttack, false, 0)
}

func combatState(ai *component.EnemyAI, hasTarget bool) component.CombatState {
	switch {
	case ai.Attacking:
		return component.CombatAttacking
	case hasTarget:
		return component.CombatSeeking
	}
	return component.CombatIdle
}

// closestTarget picks the nearest living sensed target; ties go to the lower
// entity.
func closestTarget(w *ecs.World, aw *component.EnemyAwareness, t *component.Transform) (targetInfo, bool) {
	if !aw.Aware {
		return targetInfo{}, false
	}
	best := targetInfo{}
	bestDist := math.Inf(1)
	for _, id := range aw.Targets {
		e := ecs.Entity(id)
		if isDead(w, e) {
			continue
		}
		tt, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		d := (tt.X-t.X)*(tt.X-t.X) + (tt.Y-t.Y)*(tt.Y-t.Y)
		if d < bestDist {
			best = targetInfo{entity: e, x: tt.X, y: tt.Y}
			bestDist = d
		}
	}
	return best, !math.IsInf(bestDist, 1)
}
