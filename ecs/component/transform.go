package component

// Transform is a top-down pose. Rotation is the facing angle in radians,
// 0 pointing along +X.
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
