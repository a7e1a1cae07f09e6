package system

import (
	"math"

	"github.com/milk9111/keyhold/common"
	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
)

const (
	defaultAgentAcceleration = 8 * common.TileSize
	cornerReach              = 4.0
)

// NavAgentSystem steers agent bodies along their paths and keeps the
// agent's derived state (velocity, remaining distance, surface) current.
type NavAgentSystem struct{}

func NewNavAgentSystem() *NavAgentSystem {
	return &NavAgentSystem{}
}

func (s *NavAgentSystem) Update(w *ecs.World) {
	grid, hasGrid := navGrid(w)

	ecs.ForEach2(w, component.NavAgentComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, agent *component.NavAgent, t *component.Transform) {
		body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if body != nil && body.Body != nil {
			v := body.Body.Velocity()
			agent.VelX, agent.VelY = v.X, v.Y
		}
		if hasGrid {
			col, row := grid.Cell(t.X, t.Y)
			agent.OnNavMesh = grid.Walkable(col, row)
		} else {
			agent.OnNavMesh = false
		}

		if !agent.HasPath() {
			agent.DesiredX, agent.DesiredY = 0, 0
			agent.RemainingDistance = 0
			if agent.HasDestination {
				agent.RemainingDistance = math.Hypot(agent.DestX-t.X, agent.DestY-t.Y)
			}
			steer(agent, body, 0, 0)
			return
		}

		advanceCorners(agent, t.X, t.Y)
		agent.RemainingDistance = remainingDistance(agent, t.X, t.Y)

		dx, dy := desiredVelocity(agent, t.X, t.Y)
		agent.DesiredX, agent.DesiredY = dx, dy
		if agent.Stopped {
			SetVelocity(body, 0, 0)
			return
		}
		steer(agent, body, dx, dy)
	})
}

func advanceCorners(agent *component.NavAgent, x, y float64) {
	for agent.Corner < len(agent.Path)-1 {
		c := agent.Path[agent.Corner]
		if math.Hypot(c.X-x, c.Y-y) > cornerReach {
			return
		}
		agent.Corner++
	}
}

func remainingDistance(agent *component.NavAgent, x, y float64) float64 {
	corner, ok := agent.SteeringTarget()
	if !ok {
		return 0
	}
	total := math.Hypot(corner.X-x, corner.Y-y)
	for i := agent.Corner + 1; i < len(agent.Path); i++ {
		a, b := agent.Path[i-1], agent.Path[i]
		total += math.Hypot(b.X-a.X, b.Y-a.Y)
	}
	return total
}

// desiredVelocity heads for the steering corner at full speed and brakes
// on the final leg so the agent settles at the stopping distance.
func desiredVelocity(agent *component.NavAgent, x, y float64) (float64, float64) {
	if agent.RemainingDistance <= agent.StoppingDistance {
		return 0, 0
	}
	corner, ok := agent.SteeringTarget()
	if !ok {
		return 0, 0
	}
	dx, dy := corner.X-x, corner.Y-y
	d := math.Hypot(dx, dy)
	if d < 1e-6 {
		return 0, 0
	}
	speed := agent.Speed
	accel := agent.Acceleration
	if accel <= 0 {
		accel = defaultAgentAcceleration
	}
	if brake := speed * speed / (2 * accel); brake > 0 {
		left := agent.RemainingDistance - agent.StoppingDistance
		if left < brake {
			speed *= math.Sqrt(left / brake)
		}
	}
	return dx / d * speed, dy / d * speed
}

// steer changes the body velocity toward (vx, vy), limited by the agent's
// acceleration.
func steer(agent *component.NavAgent, body *component.PhysicsBody, vx, vy float64) {
	if body == nil || body.Body == nil {
		return
	}
	accel := agent.Acceleration
	if accel <= 0 {
		accel = defaultAgentAcceleration
	}
	cur := body.Body.Velocity()
	dx, dy := vx-cur.X, vy-cur.Y
	maxDelta := accel * common.DeltaTime
	if d := math.Hypot(dx, dy); d > maxDelta {
		dx, dy = dx/d*maxDelta, dy/d*maxDelta
	}
	SetVelocity(body, cur.X+dx, cur.Y+dy)
}
