package game

import "container/heap"

const (
	orthogonalCost = 2
	diagonalCost   = 3 // cheaper than two orthogonal steps, never free
)

// PathFinder produces world-space waypoint sequences between two points.
type PathFinder interface {
	FindPath(from, to Vec2) ([]Vec2, bool)
}

// PathStats records the work done by the most recent search.
type PathStats struct {
	Expanded int
	Cost     int
}

// Pathfinder runs A* over a GridMap. It holds no per-search state, so one
// instance may be shared by every enemy in the parallel phase.
type Pathfinder struct {
	grid *GridMap
}

// NewPathfinder creates a pathfinder over g.
func NewPathfinder(g *GridMap) *Pathfinder {
	return &Pathfinder{grid: g}
}

// --- A* pathfinding ---

type pathNode struct {
	pos    GridPos
	g, h   int
	seq    int // insertion order, final tie-break
	parent *pathNode
	index  int // heap index
}

type openList []*pathNode

func (ol openList) Len() int { return len(ol) }
func (ol openList) Less(i, j int) bool {
	fi, fj := ol[i].g+ol[i].h, ol[j].g+ol[j].h
	if fi != fj {
		return fi < fj
	}
	if ol[i].h != ol[j].h {
		return ol[i].h < ol[j].h
	}
	return ol[i].seq < ol[j].seq
}
func (ol openList) Swap(i, j int)       { ol[i], ol[j] = ol[j], ol[i]; ol[i].index = i; ol[j].index = j }
func (ol *openList) Push(x interface{}) { n := x.(*pathNode); n.index = len(*ol); *ol = append(*ol, n) }
func (ol *openList) Pop() interface{} {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

var dirs = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// Successor is a reachable neighbour and the cost of stepping to it.
type Successor struct {
	Pos  GridPos
	Cost int
}

// Successors lists the cells reachable in one step from p. A diagonal is
// only offered when both orthogonal cells beside it are open, so agents never
// clip a wall corner.
func (pf *Pathfinder) Successors(p GridPos) []Successor {
	out := make([]Successor, 0, 8)
	for _, d := range dirs {
		n := GridPos{p.X + d[0], p.Y + d[1]}
		if !pf.grid.Walkable(n) {
			continue
		}
		if d[0] != 0 && d[1] != 0 {
			if !pf.grid.Walkable(GridPos{p.X + d[0], p.Y}) || !pf.grid.Walkable(GridPos{p.X, p.Y + d[1]}) {
				continue
			}
			out = append(out, Successor{n, diagonalCost})
			continue
		}
		out = append(out, Successor{n, orthogonalCost})
	}
	return out
}

// heuristic is Manhattan distance over the cheapest step cost. It never
// overestimates, since every step covers at most two Manhattan units for 3.
func heuristic(a, b GridPos) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return (dx + dy) / diagonalCost
}

// FindGridPath returns the cell sequence from start to goal inclusive, its
// total cost, and false when the goal cannot be reached.
func (pf *Pathfinder) FindGridPath(start, goal GridPos) ([]GridPos, PathStats, bool) {
	var stats PathStats
	if !pf.grid.Walkable(goal) {
		return nil, stats, false
	}

	seq := 0
	root := &pathNode{pos: start, h: heuristic(start, goal)}
	ol := &openList{root}
	heap.Init(ol)

	closed := make(map[GridPos]bool)
	best := map[GridPos]*pathNode{start: root}

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*pathNode)
		if cur.pos == goal {
			stats.Cost = cur.g
			return buildPath(cur), stats, true
		}
		if closed[cur.pos] {
			continue
		}
		closed[cur.pos] = true
		stats.Expanded++

		for _, s := range pf.Successors(cur.pos) {
			if closed[s.Pos] {
				continue
			}
			g := cur.g + s.Cost
			if prev, ok := best[s.Pos]; ok && g >= prev.g {
				continue
			}
			seq++
			node := &pathNode{pos: s.Pos, g: g, h: heuristic(s.Pos, goal), seq: seq, parent: cur}
			best[s.Pos] = node
			heap.Push(ol, node)
		}
	}
	return nil, stats, false
}

// FindPath converts both endpoints to cells, searches, and returns the cell
// centres of the route. The first waypoint is the start cell.
func (pf *Pathfinder) FindPath(from, to Vec2) ([]Vec2, bool) {
	cells, _, ok := pf.FindGridPath(pf.grid.WorldToGrid(from), pf.grid.WorldToGrid(to))
	if !ok {
		return nil, false
	}
	path := make([]Vec2, len(cells))
	for i, c := range cells {
		path[i] = pf.grid.GridToWorld(c)
	}
	return path, true
}

func buildPath(end *pathNode) []GridPos {
	var cells []GridPos
	for n := end; n != nil; n = n.parent {
		cells = append(cells, n.pos)
	}
	// Reverse
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}
