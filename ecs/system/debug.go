package system

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
)

const debugCircleSegments = 24

// DrawPhysicsDebug outlines every collision shape in the space.
func DrawPhysicsDebug(space *cp.Space, w *ecs.World, screen *ebiten.Image) {
	if space == nil || w == nil || screen == nil {
		return
	}
	cp.DrawSpace(space, &physicsDebugDrawer{screen: screen, world: w})
}

// DrawNavDebug draws every agent's remaining path and the enemies'
// detection radii.
func DrawNavDebug(w *ecs.World, screen *ebiten.Image) {
	pathColor := color.RGBA{R: 0x66, G: 0xcc, B: 0xff, A: 0xcc}
	senseColor := color.RGBA{R: 0xff, G: 0xaa, B: 0x33, A: 0x88}

	ecs.ForEach2(w, component.NavAgentComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, agent *component.NavAgent, t *component.Transform) {
		px, py := WorldToScreen(w, t.X, t.Y)
		for i := agent.Corner; i < len(agent.Path); i++ {
			nx, ny := WorldToScreen(w, agent.Path[i].X, agent.Path[i].Y)
			vector.StrokeLine(screen, float32(px), float32(py), float32(nx), float32(ny), 1, pathColor, false)
			px, py = nx, ny
		}
	})
	ecs.ForEach2(w, component.EnemyAwarenessComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, aw *component.EnemyAwareness, t *component.Transform) {
		_, _, zoom := CameraView(w)
		sx, sy := WorldToScreen(w, t.X, t.Y)
		vector.StrokeCircle(screen, float32(sx), float32(sy), float32(aw.DetectionRadius*zoom), 1, senseColor, false)
	})
}

// DrawStateDebug prints the tick's entity and event counts.
func DrawStateDebug(w *ecs.World, screen *ebiten.Image, tps float64) {
	enemies := len(w.Query(component.EnemyTagComponent.Kind().ID()))
	players := len(w.Query(component.PlayerTagComponent.Kind().ID()))
	msg := fmt.Sprintf("TPS %.0f  entities %d  players %d  enemies %d", tps, len(ecs.Entities(w)), players, enemies)
	ebitenutil.DebugPrintAt(screen, msg, 10, screen.Bounds().Dy()-20)
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
	world  *ecs.World
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	if radius > 0 {
		d.drawCircle(a, radius, outline)
		d.drawCircle(b, radius, outline)
	}
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	half := math.Max(size, 4) / 2
	d.drawLine(cp.Vector{X: pos.X - half, Y: pos.Y}, cp.Vector{X: pos.X + half, Y: pos.Y}, fill)
	d.drawLine(cp.Vector{X: pos.X, Y: pos.Y - half}, cp.Vector{X: pos.X, Y: pos.Y + half}, fill)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

// ShapeColor tints sensors yellow so pickups stand out from solids.
func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape.Sensor() {
		return cp.FColor{R: 0.9, G: 0.8, B: 0.1, A: 0.6}
	}
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, clr cp.FColor) {
	x1, y1 := WorldToScreen(d.world, a.X, a.Y)
	x2, y2 := WorldToScreen(d.world, b.X, b.Y)
	vector.StrokeLine(d.screen, float32(x1), float32(y1), float32(x2), float32(y2), 1, toNRGBA(clr), false)
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, clr cp.FColor) {
	for i := range verts {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], clr)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, clr cp.FColor) {
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, clr)
}

func toNRGBA(c cp.FColor) color.NRGBA {
	unit := func(v float32) uint8 {
		return uint8(math.Max(0, math.Min(1, float64(v))) * 255)
	}
	return color.NRGBA{R: unit(c.R), G: unit(c.G), B: unit(c.B), A: unit(c.A)}
}
