package system

import (
	"image/color"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
)

var (
	floorColor  = color.RGBA{R: 0x1c, G: 0x1a, B: 0x22, A: 0xff}
	facingColor = color.RGBA{R: 0xf5, G: 0xf5, B: 0xf5, A: 0xff}
	deadTint    = 0.35
)

// RenderSystem draws every Sprite as a vector shape, ordered by
// RenderLayer then entity id.
type RenderSystem struct{}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil {
		return
	}
	screen.Fill(floorColor)
	_, _, zoom := CameraView(w)

	for _, e := range drawOrder(w) {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		s, ok := ecs.Get(w, e, component.SpriteComponent.Kind())
		if !ok || s.Hidden {
			continue
		}

		clr := s.Color
		if isDead(w, e) {
			clr = dim(clr, deadTint)
		}
		sx, sy := WorldToScreen(w, t.X, t.Y)
		switch s.Shape {
		case component.ShapeCircle:
			rad := s.Radius * zoom
			vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(rad), clr, true)
			if s.Facing {
				ex := sx + math.Cos(t.Rotation)*rad
				ey := sy + math.Sin(t.Rotation)*rad
				vector.StrokeLine(screen, float32(sx), float32(sy), float32(ex), float32(ey), 2, facingColor, true)
			}
		default:
			width, height := s.Width*zoom, s.Height*zoom
			vector.DrawFilledRect(screen, float32(sx-width/2), float32(sy-height/2), float32(width), float32(height), clr, false)
		}
	}
}

// drawOrder returns the drawable entities sorted by layer, ties broken by
// entity id.
func drawOrder(w *ecs.World) []ecs.Entity {
	entities := w.Query(component.TransformComponent.Kind().ID(), component.SpriteComponent.Kind().ID())
	layer := func(e ecs.Entity) int {
		if l, ok := ecs.Get(w, e, component.RenderLayerComponent.Kind()); ok {
			return l.Index
		}
		return 0
	}
	sort.SliceStable(entities, func(i, j int) bool {
		li, lj := layer(entities[i]), layer(entities[j])
		if li != lj {
			return li < lj
		}
		return uint64(entities[i]) < uint64(entities[j])
	})
	return entities
}

func dim(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: c.A,
	}
}
