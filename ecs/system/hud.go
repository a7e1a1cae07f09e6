package system

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/keyhold/common"
	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/session"
)

const (
	hudMargin    = 16
	hudBarWidth  = 160
	hudBarHeight = 12
	hudBarGap    = 26
)

var (
	hudBarBack  = color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xcc}
	hudBarFill  = color.RGBA{R: 0x3c, G: 0xc8, B: 0x5a, A: 0xff}
	hudBarLow   = color.RGBA{R: 0xd9, G: 0x4a, B: 0x3a, A: 0xff}
	hudTextClr  = color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	hudKeyColor = color.RGBA{R: 0xf2, G: 0xc9, B: 0x4c, A: 0xff}
)

// HUDSystem draws one health bar per joined player and the shared key
// count.
type HUDSystem struct {
	session *session.Session
	face    text.Face
}

func NewHUDSystem(s *session.Session, face text.Face) *HUDSystem {
	return &HUDSystem{session: s, face: face}
}

func (h *HUDSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if h == nil || h.session == nil {
		return
	}

	y := float64(hudMargin)
	for _, n := range h.session.Bars.Numbers() {
		fill, _ := h.session.Bars.Fill(n)
		label := fmt.Sprintf("P%d", n)
		if h.session.RevivePending(n) {
			label += " down"
		}
		h.label(screen, label, hudMargin, y, hudTextClr)

		bx := float32(hudMargin + 64)
		vector.DrawFilledRect(screen, bx, float32(y), hudBarWidth, hudBarHeight, hudBarBack, false)
		clr := hudBarFill
		if fill < 0.3 {
			clr = hudBarLow
		}
		vector.DrawFilledRect(screen, bx, float32(y), float32(hudBarWidth*fill), hudBarHeight, clr, false)
		y += hudBarGap
	}

	h.label(screen, fmt.Sprintf("Keys: %d", h.session.Keys()), common.BaseWidth-120, hudMargin, hudKeyColor)
}

func (h *HUDSystem) label(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	if h.face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, h.face, op)
}
