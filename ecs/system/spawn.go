package system

import (
	"log"

	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
	"github.com/milk9111/keyhold/ecs/entity"
)

// SpawnSystem instantiates each EnemySpawner's prefab once at the
// spawner's position.
type SpawnSystem struct{}

func NewSpawnSystem() *SpawnSystem {
	return &SpawnSystem{}
}

func (s *SpawnSystem) Update(w *ecs.World) {
	ecs.ForEach2(w, component.EnemySpawnerComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, sp *component.EnemySpawner, t *component.Transform) {
		if sp.Spawned {
			return
		}
		sp.Spawned = true
		if _, err := entity.NewEnemy(w, sp.Prefab, t.X, t.Y); err != nil {
			log.Printf("spawn: %s: %v", sp.Prefab, err)
		}
	})
}
