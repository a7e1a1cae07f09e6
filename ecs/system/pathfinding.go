package system

import (
	"container/heap"
	"log"
	"math"
	"sync"

	"github.com/milk9111/keyhold/common"
	"github.com/milk9111/keyhold/ecs"
	"github.com/milk9111/keyhold/ecs/component"
	"github.com/panjf2000/ants/v2"
)

const (
	defaultRepathInterval = 0.25
	// below this many requests the pool costs more than it saves
	parallelPathThreshold = 3
	goalSearchRadius      = 2
)

// PathfindingSystem solves grid paths for agents whose destination moved to
// a different cell or whose repath timer ran out. Requests are fanned out to
// a worker pool against a snapshot of the grid; results are applied in
// entity order.
type PathfindingSystem struct {
	pool *ants.Pool
}

type pathRequest struct {
	entity  ecs.Entity
	start   gridPos
	goal    gridPos
	destX   float64
	destY   float64
	result  []component.PathNode
	goalCol int
	goalRow int
}

func NewPathfindingSystem(workers int) *PathfindingSystem {
	ps := &PathfindingSystem{}
	if workers > 1 {
		pool, err := ants.NewPool(workers, ants.WithPreAlloc(true), ants.WithPanicHandler(func(p any) {
			log.Printf("pathfinding: worker panic: %v", p)
		}))
		if err != nil {
			log.Printf("pathfinding: worker pool disabled: %v", err)
		} else {
			ps.pool = pool
		}
	}
	return ps
}

// Close releases the worker pool.
func (ps *PathfindingSystem) Close() {
	if ps != nil && ps.pool != nil {
		ps.pool.Release()
		ps.pool = nil
	}
}

func (ps *PathfindingSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	grid, ok := navGrid(w)
	if !ok {
		return
	}

	var requests []*pathRequest
	ecs.ForEach2(w, component.NavAgentComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, agent *component.NavAgent, transform *component.Transform) {
		if !agent.HasDestination {
			return
		}
		interval := agent.RepathInterval
		if interval <= 0 {
			interval = defaultRepathInterval
		}
		agent.RepathTimer -= common.DeltaTime

		goalCol, goalRow := grid.Cell(agent.DestX, agent.DestY)
		moved := goalCol != agent.PathDestCol || goalRow != agent.PathDestRow
		if !moved && !agent.PathPending && agent.RepathTimer > 0 {
			return
		}
		agent.RepathTimer = interval

		startCol, startRow := grid.Cell(transform.X, transform.Y)
		requests = append(requests, &pathRequest{
			entity:  e,
			start:   gridPos{x: startCol, y: startRow},
			goal:    gridPos{x: goalCol, y: goalRow},
			destX:   agent.DestX,
			destY:   agent.DestY,
			goalCol: goalCol,
			goalRow: goalRow,
		})
	})
	if len(requests) == 0 {
		return
	}

	snapshot := component.NavGrid{
		Cols:     grid.Cols,
		Rows:     grid.Rows,
		CellSize: grid.CellSize,
		Blocked:  append([]bool(nil), grid.Blocked...),
	}
	ps.solve(&snapshot, requests)

	for _, req := range requests {
		agent, ok := ecs.Get(w, req.entity, component.NavAgentComponent.Kind())
		if !ok {
			continue
		}
		agent.PathDestCol = req.goalCol
		agent.PathDestRow = req.goalRow
		agent.PathPending = false
		agent.Path = req.result
		agent.Corner = 0
		if len(agent.Path) > 1 {
			// the first node is the agent's own cell
			agent.Corner = 1
		}
	}
}

func (ps *PathfindingSystem) solve(grid *component.NavGrid, requests []*pathRequest) {
	if ps.pool == nil || len(requests) < parallelPathThreshold {
		for _, req := range requests {
			solvePath(grid, req)
		}
		return
	}

	var wg sync.WaitGroup
	for _, req := range requests {
		req := req
		wg.Add(1)
		if err := ps.pool.Submit(func() {
			defer wg.Done()
			solvePath(grid, req)
		}); err != nil {
			wg.Done()
			solvePath(grid, req)
		}
	}
	wg.Wait()
}

func solvePath(grid *component.NavGrid, req *pathRequest) {
	goal, ok := nearestWalkable(grid, req.goal, goalSearchRadius)
	if !ok {
		return
	}
	start, ok := nearestWalkable(grid, req.start, 1)
	if !ok {
		return
	}
	cells := astarPath(grid, start, goal)
	if len(cells) == 0 {
		return
	}
	cells = smoothPath(grid, cells)
	nodes := gridPathToWorld(cells, grid)
	// end exactly on the requested point when it lies in the goal cell
	if goal == req.goal {
		nodes[len(nodes)-1] = component.PathNode{X: req.destX, Y: req.destY}
	}
	req.result = nodes
}

type gridPos struct {
	x int
	y int
}

func navGrid(w *ecs.World) (*component.NavGrid, bool) {
	e, ok := ecs.First(w, component.NavGridComponent.Kind())
	if !ok {
		return nil, false
	}
	return ecs.Get(w, e, component.NavGridComponent.Kind())
}

func gridPathToWorld(path []gridPos, grid *component.NavGrid) []component.PathNode {
	if len(path) == 0 {
		return nil
	}
	out := make([]component.PathNode, 0, len(path))
	for _, p := range path {
		x, y := grid.CellCenter(p.x, p.y)
		out = append(out, component.PathNode{X: x, Y: y})
	}
	return out
}

// nearestWalkable returns p if walkable, else the closest walkable cell
// within radius rings.
func nearestWalkable(grid *component.NavGrid, p gridPos, radius int) (gridPos, bool) {
	if grid.Walkable(p.x, p.y) {
		return p, true
	}
	for r := 1; r <= radius; r++ {
		best := gridPos{}
		bestDist := math.Inf(1)
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if max(abs(dx), abs(dy)) != r {
					continue
				}
				c := gridPos{x: p.x + dx, y: p.y + dy}
				if !grid.Walkable(c.x, c.y) {
					continue
				}
				if d := math.Hypot(float64(dx), float64(dy)); d < bestDist {
					best, bestDist = c, d
				}
			}
		}
		if !math.IsInf(bestDist, 1) {
			return best, true
		}
	}
	return gridPos{}, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func astarPath(grid *component.NavGrid, start, goal gridPos) []gridPos {
	if !grid.Walkable(start.x, start.y) || !grid.Walkable(goal.x, goal.y) {
		return nil
	}
	gridW := grid.Cols

	open := &openSet{}
	heap.Init(open)

	cameFrom := make([]int, grid.Cols*grid.Rows)
	for i := range cameFrom {
		cameFrom[i] = -1
	}
	gScore := make([]float64, len(cameFrom))
	for i := range gScore {
		gScore[i] = math.Inf(1)
	}
	closed := make([]bool, len(cameFrom))

	startIdx := start.y*gridW + start.x
	goalIdx := goal.y*gridW + goal.x
	gScore[startIdx] = 0
	heap.Push(open, &openItem{pos: start, idx: startIdx, f: heuristic(start, goal), h: heuristic(start, goal)})

	for open.Len() > 0 {
		current := heap.Pop(open).(*openItem)
		if closed[current.idx] {
			continue
		}
		closed[current.idx] = true
		if current.idx == goalIdx {
			return reconstructPath(cameFrom, gridW, startIdx, goalIdx)
		}

		for _, n := range neighbors(grid, current.pos) {
			idx := n.pos.y*gridW + n.pos.x
			if closed[idx] {
				continue
			}
			tentativeG := gScore[current.idx] + n.cost
			if tentativeG < gScore[idx] {
				cameFrom[idx] = current.idx
				gScore[idx] = tentativeG
				h := heuristic(n.pos, goal)
				heap.Push(open, &openItem{pos: n.pos, idx: idx, f: tentativeG + h, h: h})
			}
		}
	}
	return nil
}

func reconstructPath(cameFrom []int, gridW int, startIdx, goalIdx int) []gridPos {
	if startIdx == goalIdx {
		return []gridPos{{x: startIdx % gridW, y: startIdx / gridW}}
	}
	if cameFrom[goalIdx] == -1 {
		return nil
	}

	path := make([]gridPos, 0, 32)
	for cur := goalIdx; cur != -1; cur = cameFrom[cur] {
		path = append(path, gridPos{x: cur % gridW, y: cur / gridW})
		if cur == startIdx {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type neighbor struct {
	pos  gridPos
	cost float64
}

// neighbors returns the walkable 8-connected cells. Diagonals need both
// adjacent orthogonals open so paths never clip a wall corner.
func neighbors(grid *component.NavGrid, p gridPos) []neighbor {
	out := make([]neighbor, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := gridPos{x: p.x + dx, y: p.y + dy}
			if !grid.Walkable(n.x, n.y) {
				continue
			}
			cost := 1.0
			if dx != 0 && dy != 0 {
				if !grid.Walkable(p.x+dx, p.y) || !grid.Walkable(p.x, p.y+dy) {
					continue
				}
				cost = math.Sqrt2
			}
			out = append(out, neighbor{pos: n, cost: cost})
		}
	}
	return out
}

// heuristic is the octile distance.
func heuristic(a, b gridPos) float64 {
	dx := math.Abs(float64(a.x - b.x))
	dy := math.Abs(float64(a.y - b.y))
	return (dx + dy) + (math.Sqrt2-2)*math.Min(dx, dy)
}

// smoothPath drops intermediate cells that have a clear straight line to a
// later cell.
func smoothPath(grid *component.NavGrid, path []gridPos) []gridPos {
	if len(path) <= 2 {
		return path
	}
	out := []gridPos{path[0]}
	anchor := 0
	for i := 2; i < len(path); i++ {
		if !gridLineClear(grid, path[anchor], path[i]) {
			anchor = i - 1
			out = append(out, path[anchor])
		}
	}
	return append(out, path[len(path)-1])
}

// gridLineClear walks every cell the segment between two cell centers
// touches, including both cells at a corner crossing.
func gridLineClear(grid *component.NavGrid, a, b gridPos) bool {
	x0, y0 := float64(a.x)+0.5, float64(a.y)+0.5
	x1, y1 := float64(b.x)+0.5, float64(b.y)+0.5
	dx, dy := x1-x0, y1-y0
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy)) * 4))
	if steps == 0 {
		return grid.Walkable(a.x, a.y)
	}
	// agents have a radius, so sample a little to each side of the line
	const margin = 0.3
	length := math.Hypot(dx, dy)
	nx, ny := -dy/length*margin, dx/length*margin
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x, y := x0+dx*t, y0+dy*t
		for _, o := range [3][2]float64{{0, 0}, {nx, ny}, {-nx, -ny}} {
			if !grid.Walkable(int(math.Floor(x+o[0])), int(math.Floor(y+o[1]))) {
				return false
			}
		}
	}
	return true
}

type openItem struct {
	pos   gridPos
	idx   int
	f     float64
	h     float64
	index int
}

type openSet []*openItem

func (o openSet) Len() int { return len(o) }
func (o openSet) Less(i, j int) bool {
	if o[i].f != o[j].f {
		return o[i].f < o[j].f
	}
	if o[i].h != o[j].h {
		return o[i].h < o[j].h
	}
	return o[i].idx < o[j].idx
}
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *openSet) Push(x any) {
	item := x.(*openItem)
	item.index = len(*o)
	*o = append(*o, item)
}
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}
