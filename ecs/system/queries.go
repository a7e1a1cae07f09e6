package system

import (
	"math"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
)

// RayHit is the first solid shape crossed by a ray.
type RayHit struct {
	Entity   ecs.Entity
	Category uint32
	X        float64
	Y        float64
	Distance float64
}

func shapeEntity(shape *cp.Shape) (ecs.Entity, bool) {
	if shape == nil {
		return 0, false
	}
	e, ok := shape.UserData.(ecs.Entity)
	return e, ok
}

// OverlapCircle returns the entities whose shapes intersect the circle and
// belong to any category in mask, in ascending entity order.
func OverlapCircle(space *cp.Space, x, y, radius float64, mask uint32) []ecs.Entity {
	if space == nil || radius <= 0 {
		return nil
	}
	center := cp.Vector{X: x, Y: y}
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(mask))

	seen := make(map[ecs.Entity]struct{})
	space.BBQuery(cp.NewBBForCircle(center, radius), filter, func(shape *cp.Shape, _ interface{}) {
		e, ok := shapeEntity(shape)
		if !ok {
			return
		}
		if shape.PointQuery(center).Distance > radius {
			return
		}
		seen[e] = struct{}{}
	}, nil)

	out := make([]ecs.Entity, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// OverlapBox returns entities in mask whose bounding boxes intersect the
// box centered at (x, y).
func OverlapBox(space *cp.Space, x, y, halfW, halfH float64, mask uint32, ignore ecs.Entity) []ecs.Entity {
	if space == nil {
		return nil
	}
	filter := cp.NewShapeFilter(uint(ignore), cp.ALL_CATEGORIES, uint(mask))
	bb := cp.BB{L: x - halfW, B: y - halfH, R: x + halfW, T: y + halfH}

	seen := make(map[ecs.Entity]struct{})
	space.BBQuery(bb, filter, func(shape *cp.Shape, _ interface{}) {
		if e, ok := shapeEntity(shape); ok && e != ignore {
			seen[e] = struct{}{}
		}
	}, nil)

	out := make([]ecs.Entity, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Raycast returns the first non-sensor shape in mask along the segment.
// The ignored entity's own shape is skipped.
func Raycast(space *cp.Space, fromX, fromY, toX, toY float64, mask uint32, ignore ecs.Entity) (RayHit, bool) {
	if space == nil {
		return RayHit{}, false
	}
	from := cp.Vector{X: fromX, Y: fromY}
	to := cp.Vector{X: toX, Y: toY}
	if from.Distance(to) == 0 {
		return RayHit{}, false
	}
	filter := cp.NewShapeFilter(uint(ignore), cp.ALL_CATEGORIES, uint(mask))
	info := space.SegmentQueryFirst(from, to, 0, filter)
	e, ok := shapeEntity(info.Shape)
	if !ok {
		return RayHit{}, false
	}
	return RayHit{
		Entity:   e,
		Category: uint32(info.Shape.Filter.Categories),
		X:        info.Point.X,
		Y:        info.Point.Y,
		Distance: from.Distance(to) * info.Alpha,
	}, true
}

// RaycastAngle casts length units from (x, y) along angle.
func RaycastAngle(space *cp.Space, x, y, angle, length float64, mask uint32, ignore ecs.Entity) (RayHit, bool) {
	return Raycast(space, x, y, x+math.Cos(angle)*length, y+math.Sin(angle)*length, mask, ignore)
}

// LineOfSight reports whether the segment crosses no obstacle.
func LineOfSight(space *cp.Space, fromX, fromY, toX, toY float64) bool {
	_, blocked := Raycast(space, fromX, fromY, toX, toY, component.CategoryObstacle, 0)
	return !blocked
}
