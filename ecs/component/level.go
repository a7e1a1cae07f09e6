package component

// LevelBounds stores the world-space bounds of the current level.
type LevelBounds struct {
	Width  float64
	Height float64
}

var LevelBoundsComponent = NewComponent[LevelBounds]()

// PlayerSpawn marks the spawn point for player Number.
type PlayerSpawn struct {
	Number int
}

var PlayerSpawnComponent = NewComponent[PlayerSpawn]()

// DoorCells lists the nav cells a locked door occupies so they reopen when
// the door goes away.
type DoorCells struct {
	Cells [][2]int
}

var DoorCellsComponent = NewComponent[DoorCells]()
