package component

import "image/color"

type ShapeKind int

const (
	ShapeRect ShapeKind = iota
	ShapeCircle
)

// Sprite is a vector-drawn placeholder visual.
type Sprite struct {
	Shape  ShapeKind
	Width  float64
	Height float64
	Radius float64
	Color  color.RGBA
	// Facing draws a heading tick from the center.
	Facing bool
	Hidden bool
}

var SpriteComponent = NewComponent[Sprite]()

// RenderLayer is used to sort draw order deterministically.
type RenderLayer struct {
	Index int
}

var RenderLayerComponent = NewComponent[RenderLayer]()
