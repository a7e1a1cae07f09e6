package system

import (
	"math"

	"github.com/milk9111/keyhold/common"
	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
)

const walkClip = "walk"

// PlayerControllerSystem turns Input into body velocity, facing, animator
// parameters and the walking loop.
type PlayerControllerSystem struct{}

func NewPlayerControllerSystem() *PlayerControllerSystem {
	return &PlayerControllerSystem{}
}

func (pc *PlayerControllerSystem) Update(w *ecs.World) {
	ecs.ForEach3(w, component.PlayerComponent.Kind(), component.InputComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.Player, in *component.Input, t *component.Transform) {
		body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		anim, _ := ecs.Get(w, e, component.AnimatorComponent.Kind())
		sounds, _ := ecs.Get(w, e, component.AudioComponent.Kind())

		mx, my := in.MoveX, in.MoveY
		mag := math.Hypot(mx, my)
		if mag < p.MoveDeadzone || isDead(w, e) {
			mx, my, mag = 0, 0, 0
		}

		SetVelocity(body, mx*p.MoveSpeed, my*p.MoveSpeed)

		if !isDead(w, e) {
			if target, ok := facingTarget(p, in, t, mx, my, mag); ok {
				t.Rotation = common.WrapAngle(common.LerpAngle(t.Rotation, target, common.SlerpFactor(p.RotationSpeed, common.DeltaTime)))
			}
		}

		forward, lateral := common.ToLocal(mx, my, t.Rotation)
		SetAnimFloat(anim, AnimSpeed, common.Clamp01(mag), p.AnimDamp)
		SetAnimFloat(anim, AnimMoveX, lateral, p.AnimDamp)
		SetAnimFloat(anim, AnimMoveY, forward, p.AnimDamp)

		walking := mag > 0
		if walking != p.Walking {
			sounds.Request(walkClip, walking)
			p.Walking = walking
		}
	})
}

// facingTarget picks the heading in priority order: mouse aim for
// keyboard+mouse players, then the right stick, then the move direction.
func facingTarget(p *component.Player, in *component.Input, t *component.Transform, mx, my, mag float64) (float64, bool) {
	if in.UsesMouse && in.Device.Kind == component.DeviceKeyboardMouse {
		dx, dy := in.AimX-t.X, in.AimY-t.Y
		if math.Hypot(dx, dy) > 1 {
			return math.Atan2(dy, dx), true
		}
	}
	if math.Hypot(in.LookX, in.LookY) > p.LookDeadzone {
		return math.Atan2(in.LookY, in.LookX), true
	}
	if mag > p.MoveDeadzone {
		return math.Atan2(my, mx), true
	}
	return 0, false
}
