package system

import (
	"testing"

	"github.com/milk9111/keyhold/common"
	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
)

// newGridWorld builds a world holding a nav grid parsed from rows, where
// '#' marks a blocked cell.
func newGridWorld(t *testing.T, rows ...string) (*ecs.World, *component.NavGrid) {
	t.Helper()
	w := ecs.NewWorld()
	grid := &component.NavGrid{
		Cols:     len(rows[0]),
		Rows:     len(rows),
		CellSize: common.TileSize,
		Blocked:  make([]bool, len(rows[0])*len(rows)),
	}
	for y, row := range rows {
		for x, c := range row {
			if c == '#' {
				grid.SetBlocked(x, y, true)
			}
		}
	}
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.NavGridComponent.Kind(), grid)
	return w, grid
}

func mustAdd[T any](t *testing.T, w *ecs.World, e ecs.Entity, kind component.ComponentKind[T], v *T) {
	t.Helper()
	if err := ecs.Add(w, e, kind, v); err != nil {
		t.Fatalf("add component: %v", err)
	}
}

func spawnWall(t *testing.T, w *ecs.World, x, y, width, height float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y})
	mustAdd(t, w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Width: width, Height: height, Static: true})
	mustAdd(t, w, e, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{Category: component.CategoryObstacle})
	return e
}

func spawnTestPlayer(t *testing.T, w *ecs.World, number int, x, y float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y})
	mustAdd(t, w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Radius: 12, Mass: 1})
	mustAdd(t, w, e, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{Category: component.CategoryPlayer})
	mustAdd(t, w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	mustAdd(t, w, e, component.PlayerComponent.Kind(), &component.Player{Number: number, ContactDamage: 10})
	mustAdd(t, w, e, component.HealthComponent.Kind(), &component.Health{Current: 100, Max: 100})
	return e
}

func spawnTestEnemy(t *testing.T, w *ecs.World, x, y float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y})
	mustAdd(t, w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Radius: 12, Mass: 1})
	mustAdd(t, w, e, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{Category: component.CategoryEnemy})
	mustAdd(t, w, e, component.EnemyTagComponent.Kind(), &component.EnemyTag{})
	mustAdd(t, w, e, component.HealthComponent.Kind(), &component.Health{Current: 10, Max: 10, DestroyOnDeath: true, DestroyDelay: 0.2})
	mustAdd(t, w, e, component.EnemyAwarenessComponent.Kind(), &component.EnemyAwareness{DetectionRadius: 320})
	mustAdd(t, w, e, component.NavAgentComponent.Kind(), &component.NavAgent{Speed: 96, StoppingDistance: 8, OnNavMesh: true})
	mustAdd(t, w, e, component.AnimatorComponent.Kind(), component.NewAnimator())
	mustAdd(t, w, e, component.EnemyAIComponent.Kind(), &component.EnemyAI{
		RotationSpeed:  8,
		SpeedDeadzone:  0.035 * common.TileSize,
		SnapDeadzone:   0.02,
		AttackRange:    64,
		AttackDamage:   15,
		AttackDuration: 0.5,
		AttackCooldown: 1,
		FreezeOnAttack: true,
		HomeX:          x,
		HomeY:          y,
	})
	return e
}

func get[T any](t *testing.T, w *ecs.World, e ecs.Entity, kind component.ComponentKind[T]) *T {
	t.Helper()
	v, ok := ecs.Get(w, e, kind)
	if !ok {
		t.Fatalf("entity %s missing component", e)
	}
	return v
}
