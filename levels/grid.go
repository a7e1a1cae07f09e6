package levels

import (
	"errors"
	"fmt"
	"sort"
)

const DefaultTileSize = 32

var (
	ErrEmpty      = errors.New("levels: no rows")
	ErrNoSpawn    = errors.New("levels: no player 1 spawn")
	ErrNoTreasure = errors.New("levels: no treasure")
)

type MarkerKind string

const (
	MarkerPlayerSpawn  MarkerKind = "player_spawn"
	MarkerKey          MarkerKind = "key"
	MarkerLockedDoor   MarkerKind = "locked_door"
	MarkerTreasure     MarkerKind = "treasure"
	MarkerEnemySpawner MarkerKind = "enemy_spawner"
)

// Marker is a non-wall thing placed on a tile.
type Marker struct {
	Kind MarkerKind
	Col  int
	Row  int
	// Number is the player number of a spawn.
	Number int
	// Prefab is the enemy prefab of a spawner.
	Prefab string
}

// Rect is a run of tiles in tile coordinates.
type Rect struct {
	Col, Row      int
	Width, Height int
}

func (l *Level) Size() (cols, rows int) {
	if len(l.Rows) == 0 {
		return 0, 0
	}
	return len(l.Rows[0]), len(l.Rows)
}

func (l *Level) Tile() float64 {
	if l.TileSize <= 0 {
		return DefaultTileSize
	}
	return l.TileSize
}

// Wall reports whether the tile is a wall. Tiles outside the map are walls.
func (l *Level) Wall(col, row int) bool {
	cols, rows := l.Size()
	if col < 0 || row < 0 || col >= cols || row >= rows {
		return true
	}
	return l.Rows[row][col] == '#'
}

func (l *Level) Validate() error {
	cols, rows := l.Size()
	if rows == 0 || cols == 0 {
		return ErrEmpty
	}
	for i, r := range l.Rows {
		if len(r) != cols {
			return fmt.Errorf("levels: row %d has width %d, want %d", i, len(r), cols)
		}
	}
	markers, err := l.Markers()
	if err != nil {
		return err
	}
	var spawn, treasure bool
	for _, m := range markers {
		switch {
		case m.Kind == MarkerPlayerSpawn && m.Number == 1:
			spawn = true
		case m.Kind == MarkerTreasure:
			treasure = true
		}
	}
	if !spawn {
		return ErrNoSpawn
	}
	if !treasure {
		return ErrNoTreasure
	}
	return nil
}

// Markers lists the glyph markers in row-major order followed by the
// explicit entities.
func (l *Level) Markers() ([]Marker, error) {
	var out []Marker
	for row, line := range l.Rows {
		for col := 0; col < len(line); col++ {
			m := Marker{Col: col, Row: row}
			switch c := line[col]; {
			case c == '#' || c == '.' || c == ' ':
				continue
			case c >= '1' && c <= '9':
				m.Kind, m.Number = MarkerPlayerSpawn, int(c-'0')
			case c == 'K':
				m.Kind = MarkerKey
			case c == 'D':
				m.Kind = MarkerLockedDoor
			case c == 'T':
				m.Kind = MarkerTreasure
			case c == 'E':
				m.Kind, m.Prefab = MarkerEnemySpawner, "enemy.yaml"
			case c == 'B':
				m.Kind, m.Prefab = MarkerEnemySpawner, "enemy_brute.yaml"
			default:
				return nil, fmt.Errorf("levels: unknown tile %q at %d,%d", c, col, row)
			}
			out = append(out, m)
		}
	}

	for i, ent := range l.Entities {
		if l.Wall(ent.X, ent.Y) {
			return nil, fmt.Errorf("levels: entity %d (%s) at %d,%d is inside a wall", i, ent.Type, ent.X, ent.Y)
		}
		m := Marker{Kind: MarkerKind(ent.Type), Col: ent.X, Row: ent.Y}
		switch m.Kind {
		case MarkerPlayerSpawn:
			m.Number = propInt(ent.Props, "number", 1)
		case MarkerEnemySpawner:
			m.Prefab = propString(ent.Props, "prefab", "enemy.yaml")
		case MarkerKey, MarkerLockedDoor, MarkerTreasure:
		default:
			return nil, fmt.Errorf("levels: entity %d has unknown type %q", i, ent.Type)
		}
		out = append(out, m)
	}
	return out, nil
}

// MergeRects covers every wall tile with as few rectangles as a greedy
// row-first scan finds. Each tile belongs to exactly one rectangle.
func (l *Level) MergeRects() []Rect {
	cols, rows := l.Size()
	visited := make([]bool, cols*rows)
	index := func(x, y int) int { return y*cols + x }
	solid := func(x, y int) bool { return !visited[index(x, y)] && l.Wall(x, y) }

	var out []Rect
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if !solid(x, y) {
				continue
			}
			w := 0
			for x2 := x; x2 < cols && solid(x2, y); x2++ {
				w++
			}
			h := 1
		grow:
			for y2 := y + 1; y2 < rows; y2++ {
				for x2 := x; x2 < x+w; x2++ {
					if !solid(x2, y2) {
						break grow
					}
				}
				h++
			}
			for yy := y; yy < y+h; yy++ {
				for xx := x; xx < x+w; xx++ {
					visited[index(xx, yy)] = true
				}
			}
			out = append(out, Rect{Col: x, Row: y, Width: w, Height: h})
		}
	}
	return out
}

// SpawnNumbers returns the player numbers the level has spawns for.
func SpawnNumbers(markers []Marker) []int {
	var out []int
	for _, m := range markers {
		if m.Kind == MarkerPlayerSpawn {
			out = append(out, m.Number)
		}
	}
	sort.Ints(out)
	return out
}

func propInt(props map[string]any, key string, def int) int {
	switch v := props[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

func propString(props map[string]any, key, def string) string {
	if v, ok := props[key].(string); ok && v != "" {
		return v
	}
	return def
}
