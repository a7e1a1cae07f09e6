package entity

import (
	"github.com/milk9111/keyhold/ecs"
)

const cameraPrefab = "camera.yaml"

// NewCameraAt builds the camera centered on x, y.
func NewCameraAt(w *ecs.World, x, y float64) (ecs.Entity, error) {
	e, err := BuildEntity(w, cameraPrefab)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, e, x, y, 0); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	return e, nil
}
