package game

// GridRect is an inclusive-exclusive rectangle of cells: [X, X+W) x [Y, Y+H).
type GridRect struct {
	X, Y, W, H int
}

// Polygon is a closed outline in world space; the last vertex connects back
// to the first.
type Polygon []Vec2

// ObstacleSet is every occluder for one visibility query.
type ObstacleSet []Polygon

// RectPolygon returns the axis-aligned rectangle between lo and hi, wound
// counter-clockwise in a y-down frame.
func RectPolygon(lo, hi Vec2) Polygon {
	return Polygon{
		{lo.X, lo.Y},
		{hi.X, lo.Y},
		{hi.X, hi.Y},
		{lo.X, hi.Y},
	}
}

// MergeWallRects decomposes the wall tiles of g into rectangles. Each
// unconsumed wall, in row-major order, seeds a rectangle that first grows
// along whichever axis has the longer run of unconsumed walls (ties go to
// +x), then widens across the other axis while the whole strip stays wall.
// Every wall tile lands in exactly one rectangle; the result is compact but
// not a minimum cover.
func MergeWallRects(g *GridMap) []GridRect {
	consumed := make([]bool, g.Width*g.Height)
	free := func(x, y int) bool {
		p := GridPos{x, y}
		return g.inBounds(p) && g.TileAt(p) == TileWall && !consumed[x+y*g.Width]
	}

	var rects []GridRect
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if !free(x, y) {
				continue
			}
			runX := 1
			for free(x+runX, y) {
				runX++
			}
			runY := 1
			for free(x, y+runY) {
				runY++
			}

			r := GridRect{X: x, Y: y}
			if runX >= runY {
				r.W, r.H = runX, 1
				for {
					ok := true
					for i := 0; i < r.W; i++ {
						if !free(x+i, y+r.H) {
							ok = false
							break
						}
					}
					if !ok {
						break
					}
					r.H++
				}
			} else {
				r.W, r.H = 1, runY
				for {
					ok := true
					for j := 0; j < r.H; j++ {
						if !free(x+r.W, y+j) {
							ok = false
							break
						}
					}
					if !ok {
						break
					}
					r.W++
				}
			}

			for j := 0; j < r.H; j++ {
				for i := 0; i < r.W; i++ {
					consumed[(x+i)+(y+j)*g.Width] = true
				}
			}
			rects = append(rects, r)
		}
	}
	return rects
}

// RectToWorld returns the world-space outline of a cell rectangle.
func (g *GridMap) RectToWorld(r GridRect) Polygon {
	half := Vec2{g.TileSize / 2, g.TileSize / 2}
	lo := g.GridToWorld(GridPos{r.X, r.Y}).Sub(half)
	hi := g.GridToWorld(GridPos{r.X + r.W - 1, r.Y + r.H - 1}).Add(half)
	return RectPolygon(lo, hi)
}

// ObstacleRegistry owns the static wall outlines of a level and the
// per-tick dynamic blocker squares.
type ObstacleRegistry struct {
	static  []Polygon
	dynamic []Polygon
}

// NewObstacleRegistry builds the static outlines for g.
func NewObstacleRegistry(g *GridMap) *ObstacleRegistry {
	rects := MergeWallRects(g)
	reg := &ObstacleRegistry{static: make([]Polygon, 0, len(rects))}
	for _, r := range rects {
		reg.static = append(reg.static, g.RectToWorld(r))
	}
	return reg
}

// ResetDynamic discards last tick's blockers.
func (r *ObstacleRegistry) ResetDynamic() {
	r.dynamic = r.dynamic[:0]
}

// AddBlocker registers a square of the given half-size around center for the
// current tick.
func (r *ObstacleRegistry) AddBlocker(center Vec2, halfSize float64) {
	h := Vec2{halfSize, halfSize}
	r.dynamic = append(r.dynamic, RectPolygon(center.Sub(h), center.Add(h)))
}

// Current returns a fresh static+dynamic set. Callers may keep it for the
// rest of the tick; later registry changes do not alias into it.
func (r *ObstacleRegistry) Current() ObstacleSet {
	out := make(ObstacleSet, 0, len(r.static)+len(r.dynamic))
	out = append(out, r.static...)
	out = append(out, r.dynamic...)
	return out
}

// Static returns the static outlines only.
func (r *ObstacleRegistry) Static() []Polygon { return r.static }

func (r *ObstacleRegistry) StaticCount() int  { return len(r.static) }
func (r *ObstacleRegistry) DynamicCount() int { return len(r.dynamic) }
