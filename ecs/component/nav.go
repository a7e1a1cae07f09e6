package component

// PathNode represents a world-space point along a path.
type PathNode struct {
	X float64
	Y float64
}

// NavAgent follows grid paths toward a destination.
type NavAgent struct {
	Speed            float64
	Acceleration     float64
	StoppingDistance float64
	// RepathInterval forces a fresh path every N seconds while moving.
	RepathInterval float64

	DestX          float64
	DestY          float64
	HasDestination bool
	Stopped        bool

	Path        []PathNode
	Corner      int
	PathPending bool
	RepathTimer float64
	// requested destination cell, used to skip redundant repaths
	PathDestCol int
	PathDestRow int

	VelX     float64
	VelY     float64
	DesiredX float64
	DesiredY float64

	RemainingDistance float64
	OnNavMesh         bool
}

// HasPath reports whether a usable path is loaded.
func (a *NavAgent) HasPath() bool {
	return a != nil && !a.PathPending && len(a.Path) > 0
}

// SteeringTarget returns the current corner, if any.
func (a *NavAgent) SteeringTarget() (PathNode, bool) {
	if a == nil || a.Corner < 0 || a.Corner >= len(a.Path) {
		return PathNode{}, false
	}
	return a.Path[a.Corner], true
}

// SetDestination records a destination. The first destination marks the
// path pending; later ones keep following the old path until the
// pathfinder replaces it.
func (a *NavAgent) SetDestination(x, y float64) {
	if !a.HasDestination {
		a.PathPending = true
	}
	a.DestX, a.DestY = x, y
	a.HasDestination = true
}

// ClearDestination forgets the destination and the path.
func (a *NavAgent) ClearDestination() {
	a.HasDestination = false
	a.ResetPath()
}

// ResetPath drops the current path and velocity.
func (a *NavAgent) ResetPath() {
	a.Path = nil
	a.Corner = 0
	a.PathPending = false
	a.VelX, a.VelY = 0, 0
	a.DesiredX, a.DesiredY = 0, 0
	a.RemainingDistance = 0
}

var NavAgentComponent = NewComponent[NavAgent]()

// NavGrid is the walkable-cell grid of the current level.
type NavGrid struct {
	Cols     int
	Rows     int
	CellSize float64
	Blocked  []bool
}

// InBounds reports whether the cell exists.
func (g *NavGrid) InBounds(col, row int) bool {
	return g != nil && col >= 0 && row >= 0 && col < g.Cols && row < g.Rows
}

// Walkable reports whether the cell exists and is open.
func (g *NavGrid) Walkable(col, row int) bool {
	if !g.InBounds(col, row) {
		return false
	}
	return !g.Blocked[row*g.Cols+col]
}

// SetBlocked updates one cell.
func (g *NavGrid) SetBlocked(col, row int, blocked bool) {
	if !g.InBounds(col, row) {
		return
	}
	g.Blocked[row*g.Cols+col] = blocked
}

// Cell returns the cell containing a world point.
func (g *NavGrid) Cell(x, y float64) (int, int) {
	if g == nil || g.CellSize <= 0 {
		return -1, -1
	}
	col := int(x / g.CellSize)
	row := int(y / g.CellSize)
	if x < 0 {
		col = -1
	}
	if y < 0 {
		row = -1
	}
	return col, row
}

// CellCenter returns the world-space center of a cell.
func (g *NavGrid) CellCenter(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * g.CellSize, (float64(row) + 0.5) * g.CellSize
}

var NavGridComponent = NewComponent[NavGrid]()
