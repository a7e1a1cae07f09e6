package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/keyhold/common"
	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeActor
	collisionTypeSensor
)

// PhysicsSystem mirrors PhysicsBody components into a Chipmunk space, steps
// it and copies positions back. The space is top-down: no gravity, and
// actors get an infinite moment so collisions never spin them.
type PhysicsSystem struct {
	space    *cp.Space
	entities map[ecs.Entity]*bodyInfo
}

type bodyInfo struct {
	body   *cp.Body
	shape  *cp.Shape
	static bool
}

func newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{})
	space.SetDamping(1)
	return space
}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{
		space:    newSpace(),
		entities: make(map[ecs.Entity]*bodyInfo),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// Reset drops every body, used when a level is reloaded into a fresh world.
func (ps *PhysicsSystem) Reset() {
	ps.space = newSpace()
	ps.entities = make(map[ecs.Entity]*bodyInfo)
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	ps.Sync(w)
	ps.space.Step(common.DeltaTime)
	ps.syncTransforms(w)
}

// Sync creates bodies for new PhysicsBody components and removes bodies whose
// entity died or was disabled. Queries issued before the next step see the
// synced set.
func (ps *PhysicsSystem) Sync(w *ecs.World) {
	ps.cleanupEntities(w)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Disabled {
			return
		}
		if info := ps.entities[e]; info != nil {
			bodyComp.Body = info.body
			bodyComp.Shape = info.shape
			return
		}

		layer := component.CollisionLayer{}
		if l, ok := ecs.Get(w, e, component.CollisionLayerComponent.Kind()); ok {
			layer = *l
		}
		info := ps.createBodyInfo(e, transform, bodyComp, layer)
		ps.entities[e] = info
		bodyComp.Body = info.body
		bodyComp.Shape = info.shape
	})
}

func (ps *PhysicsSystem) createBodyInfo(e ecs.Entity, transform *component.Transform, bodyComp *component.PhysicsBody, layer component.CollisionLayer) *bodyInfo {
	width := bodyComp.Width
	height := bodyComp.Height
	radius := bodyComp.Radius
	if radius <= 0 && (width <= 0 || height <= 0) {
		width = common.TileSize
		height = common.TileSize
	}

	category, mask := layer.Resolved()
	info := &bodyInfo{static: bodyComp.Static}

	var shape *cp.Shape
	if bodyComp.Static {
		center := cp.Vector{X: transform.X, Y: transform.Y}
		if radius > 0 {
			shape = cp.NewCircle(ps.space.StaticBody, radius, center)
		} else {
			bb := cp.BB{L: center.X - width/2, B: center.Y - height/2, R: center.X + width/2, T: center.Y + height/2}
			shape = cp.NewBox2(ps.space.StaticBody, bb, 0)
		}
		shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(category), uint(mask)))
		info.body = ps.space.StaticBody
	} else {
		mass := bodyComp.Mass
		if mass <= 0 {
			mass = 1
		}
		body := cp.NewBody(mass, cp.INFINITY)
		body.SetPosition(cp.Vector{X: transform.X, Y: transform.Y})
		if radius > 0 {
			shape = cp.NewCircle(body, radius, cp.Vector{})
		} else {
			shape = cp.NewBox(body, width, height, 0)
		}
		// a per-entity group lets ray queries skip the caster's own shape
		shape.SetFilter(cp.NewShapeFilter(uint(e), uint(category), uint(mask)))
		ps.space.AddBody(body)
		info.body = body
	}

	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(0)
	switch {
	case bodyComp.Sensor:
		shape.SetSensor(true)
		shape.SetCollisionType(collisionTypeSensor)
	case bodyComp.Static:
		shape.SetCollisionType(collisionTypeSolid)
	default:
		shape.SetCollisionType(collisionTypeActor)
	}
	shape.UserData = e
	ps.space.AddShape(shape)
	info.shape = shape
	return info
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Body == nil || bodyComp.Static || bodyComp.Disabled {
			return
		}
		pos := bodyComp.Body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if ecs.IsAlive(w, e) {
			if bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && !bodyComp.Disabled {
				continue
			}
		}
		ps.removeBody(info)
		delete(ps.entities, e)
		if bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
			bodyComp.Body = nil
			bodyComp.Shape = nil
		}
	}
}

func (ps *PhysicsSystem) removeBody(info *bodyInfo) {
	if info.shape != nil && info.shape.Space() == ps.space {
		ps.space.RemoveShape(info.shape)
	}
	if info.body != nil && !info.static && ps.space.ContainsBody(info.body) {
		ps.space.RemoveBody(info.body)
	}
}

// SetVelocity drives an actor's body; it is a no-op until the body exists.
func SetVelocity(bodyComp *component.PhysicsBody, vx, vy float64) {
	if bodyComp == nil || bodyComp.Body == nil || bodyComp.Static {
		return
	}
	bodyComp.Body.SetVelocity(vx, vy)
}

// Teleport moves an actor and its transform together.
func Teleport(bodyComp *component.PhysicsBody, transform *component.Transform, x, y float64) {
	transform.X = x
	transform.Y = y
	if bodyComp == nil || bodyComp.Body == nil || bodyComp.Static {
		return
	}
	bodyComp.Body.SetPosition(cp.Vector{X: x, Y: y})
	bodyComp.Body.SetVelocity(0, 0)
}
