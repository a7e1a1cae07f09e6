package entity

import (
	"testing"

	"github.com/milk9111/keyhold/common"
	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
	"github.com/milk9111/keyhold/levels"
)

func TestNewPlayerScalesPrefab(t *testing.T) {
	w := ecs.NewWorld()
	device := component.Device{Kind: component.DeviceGamepad, GamepadID: 3}
	e, err := NewPlayer(w, 2, "abc", device, 100, 50)
	if err != nil {
		t.Fatal(err)
	}

	p, _ := ecs.Get(w, e, component.PlayerComponent.Kind())
	if p.Number != 2 || p.SessionID != "abc" {
		t.Fatalf("unexpected identity %+v", p)
	}
	if p.MoveSpeed != 4.5*common.TileSize {
		t.Fatalf("move speed = %v", p.MoveSpeed)
	}
	m, _ := ecs.Get(w, e, component.MeleeAttackComponent.Kind())
	if m.Range != 2*common.TileSize || m.Damage != 2 || m.Cooldown != 0.8 {
		t.Fatalf("unexpected melee %+v", m)
	}
	body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if body.Radius != 0.375*common.TileSize {
		t.Fatalf("radius = %v", body.Radius)
	}
	layer, _ := ecs.Get(w, e, component.CollisionLayerComponent.Kind())
	if layer.Category != component.CategoryPlayer || layer.Mask&component.CategoryObstacle == 0 {
		t.Fatalf("unexpected layer %+v", layer)
	}
	in, _ := ecs.Get(w, e, component.InputComponent.Kind())
	if in.Device != device {
		t.Fatalf("device = %+v", in.Device)
	}
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if tr.X != 100 || tr.Y != 50 {
		t.Fatalf("transform = %+v", tr)
	}
	h, _ := ecs.Get(w, e, component.HealthComponent.Kind())
	if h.Current != 100 || h.Max != 100 || h.DestroyOnDeath {
		t.Fatalf("unexpected health %+v", h)
	}
	s, _ := ecs.Get(w, e, component.SpriteComponent.Kind())
	if s.Color != playerColors[0] {
		t.Fatalf("player 2 should get the first alternate color")
	}
}

func TestNewEnemySetsHome(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewEnemy(w, "enemy.yaml", 64, 96)
	if err != nil {
		t.Fatal(err)
	}
	ai, _ := ecs.Get(w, e, component.EnemyAIComponent.Kind())
	if ai.HomeX != 64 || ai.HomeY != 96 {
		t.Fatalf("home = %v,%v", ai.HomeX, ai.HomeY)
	}
	agent, _ := ecs.Get(w, e, component.NavAgentComponent.Kind())
	if agent.StoppingDistance < 0.1*common.TileSize {
		t.Fatalf("stopping distance %v below minimum", agent.StoppingDistance)
	}
	aw, _ := ecs.Get(w, e, component.EnemyAwarenessComponent.Kind())
	if aw.DetectionRadius != 10*common.TileSize || aw.TargetMask != component.CategoryPlayer {
		t.Fatalf("unexpected awareness %+v", aw)
	}

	brute, err := NewEnemy(w, "enemy_brute.yaml", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	script, ok := ecs.Get(w, brute, component.AIScriptComponent.Kind())
	if !ok || script.Name != "brute" {
		t.Fatalf("brute should carry its script, got %+v", script)
	}
}

func TestBuildEntityMissingPrefab(t *testing.T) {
	w := ecs.NewWorld()
	if _, err := BuildEntity(w, "nope.yaml"); err == nil {
		t.Fatalf("expected an error")
	}
	if n := len(ecs.Entities(w)); n != 0 {
		t.Fatalf("failed build left %d entities", n)
	}
}

func TestOrderedComponents(t *testing.T) {
	got := orderedComponents(map[string]any{
		"physics_body": nil,
		"zeta":         nil,
		"transform":    nil,
		"alpha":        nil,
	})
	want := []string{"transform", "physics_body", "alpha", "zeta"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestLoadLevelToWorld(t *testing.T) {
	lvl := &levels.Level{Rows: []string{
		"#######",
		"#1.K.T#",
		"#..D.E#",
		"#######",
	}}
	w := ecs.NewWorld()
	if err := LoadLevelToWorld(w, lvl); err != nil {
		t.Fatal(err)
	}

	gridEntity, ok := ecs.First(w, component.NavGridComponent.Kind())
	if !ok {
		t.Fatalf("no nav grid")
	}
	grid, _ := ecs.Get(w, gridEntity, component.NavGridComponent.Kind())
	if grid.Walkable(3, 2) {
		t.Fatalf("door cell should start blocked")
	}
	if !grid.Walkable(1, 1) || grid.Walkable(0, 0) {
		t.Fatalf("grid should mirror walls")
	}
	bounds, _ := ecs.Get(w, gridEntity, component.LevelBoundsComponent.Kind())
	if bounds.Width != 7*32 || bounds.Height != 4*32 {
		t.Fatalf("bounds = %+v", bounds)
	}

	kinds := map[component.InteractionKind]int{}
	ecs.ForEach(w, component.InteractableComponent.Kind(), func(_ ecs.Entity, it *component.Interactable) {
		kinds[it.Kind]++
	})
	if kinds[component.InteractionKey] != 1 || kinds[component.InteractionLockedDoor] != 1 || kinds[component.InteractionTreasure] != 1 {
		t.Fatalf("interactables = %v", kinds)
	}

	spawners := 0
	ecs.ForEach(w, component.EnemySpawnerComponent.Kind(), func(_ ecs.Entity, s *component.EnemySpawner) {
		spawners++
		if s.Prefab != "enemy.yaml" {
			t.Fatalf("spawner prefab = %q", s.Prefab)
		}
	})
	if spawners != 1 {
		t.Fatalf("spawners = %d", spawners)
	}

	walls := 0
	ecs.ForEach(w, component.ObstacleTagComponent.Kind(), func(e ecs.Entity, _ *component.ObstacleTag) {
		if !ecs.Has(w, e, component.InteractableComponent.Kind()) {
			walls++
		}
	})
	if walls != len(lvl.MergeRects()) {
		t.Fatalf("walls = %d, want %d", walls, len(lvl.MergeRects()))
	}

	x, y, ok := SpawnPoint(w, 1)
	if !ok || x != 48 || y != 48 {
		t.Fatalf("spawn 1 = %v,%v,%v", x, y, ok)
	}
	x, y, ok = SpawnPoint(w, 2)
	if !ok || x != 48 || y != 48 {
		t.Fatalf("spawn 2 should fall back to spawn 1, got %v,%v,%v", x, y, ok)
	}
}

func TestRetuneKeepsRuntimeState(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewEnemy(w, "enemy.yaml", 10, 20)
	if err != nil {
		t.Fatal(err)
	}
	ai, _ := ecs.Get(w, e, component.EnemyAIComponent.Kind())
	ai.AttackRange = 1
	ai.Attacking = true
	ai.Cooldown = 0.5
	agent, _ := ecs.Get(w, e, component.NavAgentComponent.Kind())
	agent.Speed = 1
	agent.Path = []component.PathNode{{X: 1, Y: 2}}

	n, err := Retune(w, "enemy.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("retuned %d entities", n)
	}
	ai, _ = ecs.Get(w, e, component.EnemyAIComponent.Kind())
	if ai.AttackRange != 1.2*common.TileSize {
		t.Fatalf("attack range not reapplied: %v", ai.AttackRange)
	}
	if !ai.Attacking || ai.Cooldown != 0.5 || ai.HomeX != 10 || ai.HomeY != 20 {
		t.Fatalf("runtime state lost: %+v", ai)
	}
	agent, _ = ecs.Get(w, e, component.NavAgentComponent.Kind())
	if agent.Speed != 3*common.TileSize || len(agent.Path) != 1 {
		t.Fatalf("nav agent = %+v", agent)
	}
}
