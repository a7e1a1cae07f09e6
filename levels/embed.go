package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed *.json
var LevelsFS embed.FS

// Level is the on-disk level format. Rows is an ASCII tile map, one string
// per row:
//
//	#  wall
//	.  floor
//	1  player 1 spawn (2, 3, ... for later players)
//	K  key
//	D  locked door
//	T  treasure
//	E  enemy spawner (enemy.yaml)
//	B  brute spawner (enemy_brute.yaml)
//
// Entities places extra markers by tile coordinate.
type Level struct {
	Name     string   `json:"name"`
	TileSize float64  `json:"tile_size,omitempty"`
	Rows     []string `json:"rows"`
	Entities []Entity `json:"entities,omitempty"`
}

type Entity struct {
	Type  string         `json:"type"`
	X     int            `json:"x"`
	Y     int            `json:"y"`
	Props map[string]any `json:"props,omitempty"`
}

// Load reads a level, preferring levels/<name> on disk over the embedded
// copy.
func Load(name string) (*Level, error) {
	if filepath.Ext(name) == "" {
		name += ".json"
	}
	data, err := os.ReadFile(filepath.Join("levels", name))
	if err != nil {
		data, err = fs.ReadFile(LevelsFS, name)
	}
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", name, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("levels: unmarshal: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}
