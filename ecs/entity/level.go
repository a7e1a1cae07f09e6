package entity

import (
	"fmt"
	"image/color"

	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
	"github.com/milk9111/keyhold/levels"
)

var wallColor = color.RGBA{R: 0x3b, G: 0x3f, B: 0x4a, A: 0xff}

var interactablePrefabs = map[levels.MarkerKind]string{
	levels.MarkerKey:        "key.yaml",
	levels.MarkerLockedDoor: "locked_door.yaml",
	levels.MarkerTreasure:   "treasure.yaml",
}

// LoadLevelToWorld populates the world with the level: bounds and nav grid,
// merged wall colliders, player spawns, interactables and enemy spawners.
func LoadLevelToWorld(world *ecs.World, lvl *levels.Level) error {
	cols, rows := lvl.Size()
	tileSize := lvl.Tile()

	grid := &component.NavGrid{
		Cols:     cols,
		Rows:     rows,
		CellSize: tileSize,
		Blocked:  make([]bool, cols*rows),
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			grid.SetBlocked(x, y, lvl.Wall(x, y))
		}
	}

	boundsEntity := ecs.CreateEntity(world)
	if err := ecs.Add(world, boundsEntity, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		Width:  float64(cols) * tileSize,
		Height: float64(rows) * tileSize,
	}); err != nil {
		return err
	}
	if err := ecs.Add(world, boundsEntity, component.NavGridComponent.Kind(), grid); err != nil {
		return err
	}

	for _, r := range lvl.MergeRects() {
		if err := addWall(world, r, tileSize); err != nil {
			return err
		}
	}

	markers, err := lvl.Markers()
	if err != nil {
		return err
	}
	for _, m := range markers {
		x, y := grid.CellCenter(m.Col, m.Row)
		switch m.Kind {
		case levels.MarkerPlayerSpawn:
			e := ecs.CreateEntity(world)
			if err := ecs.Add(world, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y}); err != nil {
				return err
			}
			if err := ecs.Add(world, e, component.PlayerSpawnComponent.Kind(), &component.PlayerSpawn{Number: m.Number}); err != nil {
				return err
			}
		case levels.MarkerEnemySpawner:
			e := ecs.CreateEntity(world)
			if err := ecs.Add(world, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y}); err != nil {
				return err
			}
			if err := ecs.Add(world, e, component.EnemySpawnerComponent.Kind(), &component.EnemySpawner{Prefab: m.Prefab}); err != nil {
				return err
			}
		default:
			prefab, ok := interactablePrefabs[m.Kind]
			if !ok {
				return fmt.Errorf("level: no prefab for marker %q", m.Kind)
			}
			e, err := BuildEntity(world, prefab)
			if err != nil {
				return err
			}
			if err := SetEntityTransform(world, e, x, y, 0); err != nil {
				return err
			}
			if m.Kind == levels.MarkerLockedDoor {
				grid.SetBlocked(m.Col, m.Row, true)
				if err := ecs.Add(world, e, component.DoorCellsComponent.Kind(), &component.DoorCells{
					Cells: [][2]int{{m.Col, m.Row}},
				}); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func addWall(world *ecs.World, r levels.Rect, tileSize float64) error {
	w := float64(r.Width) * tileSize
	h := float64(r.Height) * tileSize
	e := ecs.CreateEntity(world)
	if err := ecs.Add(world, e, component.TransformComponent.Kind(), &component.Transform{
		X: float64(r.Col)*tileSize + w/2,
		Y: float64(r.Row)*tileSize + h/2,
	}); err != nil {
		return err
	}
	if err := ecs.Add(world, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:    w,
		Height:   h,
		Friction: 0.9,
		Static:   true,
	}); err != nil {
		return err
	}
	if err := ecs.Add(world, e, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{Category: component.CategoryObstacle}); err != nil {
		return err
	}
	if err := ecs.Add(world, e, component.ObstacleTagComponent.Kind(), &component.ObstacleTag{}); err != nil {
		return err
	}
	if err := ecs.Add(world, e, component.SpriteComponent.Kind(), &component.Sprite{Shape: component.ShapeRect, Width: w, Height: h, Color: wallColor}); err != nil {
		return err
	}
	return ecs.Add(world, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: 0})
}

// SpawnPoint returns player number's spawn, falling back to spawn 1.
func SpawnPoint(world *ecs.World, number int) (float64, float64, bool) {
	var fx, fy float64
	var found, fallback bool
	ecs.ForEach2(world, component.PlayerSpawnComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, s *component.PlayerSpawn, t *component.Transform) {
		if found {
			return
		}
		if s.Number == number {
			fx, fy, found = t.X, t.Y, true
			return
		}
		if s.Number == 1 && !fallback {
			fx, fy, fallback = t.X, t.Y, true
		}
	})
	return fx, fy, found || fallback
}
