package entity

import (
	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
)

// NewEnemy builds an enemy prefab at x, y and makes that point its home.
func NewEnemy(w *ecs.World, prefab string, x, y float64) (ecs.Entity, error) {
	e, err := BuildEntity(w, prefab)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, e, x, y, 0); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	if ai, ok := ecs.Get(w, e, component.EnemyAIComponent.Kind()); ok {
		ai.HomeX, ai.HomeY = x, y
	}
	return e, nil
}
