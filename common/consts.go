package common

const (
	BaseWidth  = 1280
	BaseHeight = 720

	TPS       = 60
	DeltaTime = 1.0 / TPS

	// TileSize is both the level tile edge and the world units per meter.
	TileSize = 32.0
)
