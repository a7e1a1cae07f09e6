package entity

import (
	"fmt"
	"image/color"

	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
)

const playerPrefab = "player.yaml"

// playerColors tints players by join number; player 1 keeps the prefab
// color.
var playerColors = []color.RGBA{
	{R: 0xe0, G: 0x8e, B: 0x4f, A: 0xff},
	{R: 0x6a, G: 0xd0, B: 0x7a, A: 0xff},
	{R: 0xc0, G: 0x6a, B: 0xd0, A: 0xff},
}

// NewPlayer builds player number at x, y driven by device.
func NewPlayer(w *ecs.World, number int, sessionID string, device component.Device, x, y float64) (ecs.Entity, error) {
	e, err := BuildEntity(w, playerPrefab)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, e, x, y, 0); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("player %d: %w", number, err)
	}
	p, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	if !ok {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("player %d: prefab %s has no player component", number, playerPrefab)
	}
	p.Number = number
	p.SessionID = sessionID

	if in, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
		in.Device = device
	}
	if s, ok := ecs.Get(w, e, component.SpriteComponent.Kind()); ok && number > 1 {
		s.Color = playerColors[(number-2)%len(playerColors)]
	}
	return e, nil
}
