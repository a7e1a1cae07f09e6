package system

import (
	"github.com/milk9111/keyhold/common"
	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
)

// CameraSystem eases the camera toward the centroid of the living players
// and keeps the view inside the level.
type CameraSystem struct{}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

func (cs *CameraSystem) Update(w *ecs.World) {
	camEntity, ok := ecs.First(w, component.CameraComponent.Kind())
	if !ok {
		return
	}
	cam, _ := ecs.Get(w, camEntity, component.CameraComponent.Kind())
	camTransform, ok := ecs.Get(w, camEntity, component.TransformComponent.Kind())
	if !ok {
		return
	}

	tx, ty, ok := cameraTarget(w, cam)
	if !ok {
		return
	}
	smooth := cam.Smoothness
	if smooth <= 0 || smooth > 1 {
		smooth = 1
	}
	camTransform.X = common.Lerp(camTransform.X, tx, smooth)
	camTransform.Y = common.Lerp(camTransform.Y, ty, smooth)
	camTransform.X, camTransform.Y = clampToBounds(w, camTransform.X, camTransform.Y, zoomOf(cam))
}

func cameraTarget(w *ecs.World, cam *component.Camera) (float64, float64, bool) {
	if cam.Target != 0 {
		if t, ok := ecs.Get(w, ecs.Entity(cam.Target), component.TransformComponent.Kind()); ok {
			return t.X, t.Y, true
		}
	}
	return PlayerCentroid(w)
}

// PlayerCentroid averages the positions of the living players.
func PlayerCentroid(w *ecs.World) (float64, float64, bool) {
	var sx, sy float64
	n := 0
	ecs.ForEach2(w, component.PlayerTagComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.PlayerTag, t *component.Transform) {
		if isDead(w, e) {
			return
		}
		sx += t.X
		sy += t.Y
		n++
	})
	if n == 0 {
		return 0, 0, false
	}
	return sx / float64(n), sy / float64(n), true
}

func clampToBounds(w *ecs.World, x, y, zoom float64) (float64, float64) {
	be, ok := ecs.First(w, component.LevelBoundsComponent.Kind())
	if !ok {
		return x, y
	}
	b, _ := ecs.Get(w, be, component.LevelBoundsComponent.Kind())
	return clampAxis(x, common.BaseWidth/zoom, b.Width), clampAxis(y, common.BaseHeight/zoom, b.Height)
}

// clampAxis keeps a view of size view inside [0, extent], centering it
// when the level is smaller than the view.
func clampAxis(center, view, extent float64) float64 {
	if extent <= view {
		return extent / 2
	}
	return common.Clamp(center, view/2, extent-view/2)
}

func zoomOf(cam *component.Camera) float64 {
	if cam == nil || cam.Zoom <= 0 {
		return 1
	}
	return cam.Zoom
}

// CameraView returns the camera center and zoom, defaulting to the screen
// center when the world has no camera.
func CameraView(w *ecs.World) (cx, cy, zoom float64) {
	cx, cy, zoom = common.BaseWidth/2, common.BaseHeight/2, 1
	camEntity, ok := ecs.First(w, component.CameraComponent.Kind())
	if !ok {
		return cx, cy, zoom
	}
	cam, _ := ecs.Get(w, camEntity, component.CameraComponent.Kind())
	zoom = zoomOf(cam)
	if t, ok := ecs.Get(w, camEntity, component.TransformComponent.Kind()); ok {
		cx, cy = t.X, t.Y
	}
	return cx, cy, zoom
}

// ScreenToWorld maps a point on the base-resolution screen into the world.
func ScreenToWorld(w *ecs.World, sx, sy float64) (float64, float64) {
	cx, cy, zoom := CameraView(w)
	return cx + (sx-common.BaseWidth/2)/zoom, cy + (sy-common.BaseHeight/2)/zoom
}

// WorldToScreen is the inverse of ScreenToWorld.
func WorldToScreen(w *ecs.World, x, y float64) (float64, float64) {
	cx, cy, zoom := CameraView(w)
	return (x-cx)*zoom + common.BaseWidth/2, (y-cy)*zoom + common.BaseHeight/2
}
