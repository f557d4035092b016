package game

import (
	"math"
	"sort"
)

const (
	// visEventEps is the angular offset of the two extra rays cast beside
	// every vertex, so the sweep sees past corners.
	visEventEps = 1e-5
	visHitEps   = 1e-9
	visMergeEps = 1e-7
)

type segment struct {
	a, b Vec2
}

// visEvent is one ray of the sweep.
type visEvent struct {
	angle float64
	dist  float64 // distance to the vertex that produced the event
	index int     // production order, final tie-break
}

// VisibilityPolygon returns the region visible from observer given the
// occluders, capped by an observer-centred square of half-size bound. The
// result is star-shaped around observer and wound by increasing angle.
//
// Rays are cast at every occluder vertex (and at the two angles just beside
// it), the events are ordered by angle then distance then production order,
// and the nearest hit of each ray becomes a boundary vertex. Shared edges of
// adjacent rectangles are hit from either side, so no seam leaks light.
// Each ray tests every edge, so cost is O(V*E) rather than an angular sweep
// with an active-edge set; the polygon is the same. Obstacles outside the
// cap are dropped first, which keeps E small for lights.
func VisibilityPolygon(observer Vec2, obstacles ObstacleSet, bound float64) Polygon {
	lo := observer.Sub(Vec2{bound, bound})
	hi := observer.Add(Vec2{bound, bound})
	box := RectPolygon(lo, hi)

	segs := make([]segment, 0, 4+4*len(obstacles))
	segs = appendEdges(segs, box)
	for _, poly := range obstacles {
		if len(poly) < 2 {
			continue
		}
		plo, phi := poly.Bounds()
		if phi.X < lo.X || plo.X > hi.X || phi.Y < lo.Y || plo.Y > hi.Y {
			continue
		}
		for i := range poly {
			a, b := poly[i], poly[(i+1)%len(poly)]
			if ca, cb, ok := clipSegment(a, b, lo, hi); ok {
				segs = append(segs, segment{ca, cb})
			}
		}
	}

	events := make([]visEvent, 0, 3*2*len(segs))
	seen := make(map[Vec2]bool, 2*len(segs))
	idx := 0
	for _, s := range segs {
		for _, v := range [2]Vec2{s.a, s.b} {
			if seen[v] {
				continue
			}
			seen[v] = true
			d := v.Sub(observer)
			dist := d.Len()
			if dist < visHitEps {
				continue
			}
			base := d.Angle()
			for _, off := range [3]float64{-visEventEps, 0, visEventEps} {
				events = append(events, visEvent{angle: normalizeAngle(base + off), dist: dist, index: idx})
				idx++
			}
		}
	}

	sort.Slice(events, func(i, j int) bool {
		ei, ej := events[i], events[j]
		if ei.angle != ej.angle {
			return ei.angle < ej.angle
		}
		if ei.dist != ej.dist {
			return ei.dist < ej.dist
		}
		return ei.index < ej.index
	})

	out := make(Polygon, 0, len(events))
	for _, ev := range events {
		dir := FromAngle(ev.angle)
		t, ok := nearestHit(observer, dir, segs)
		if !ok {
			continue
		}
		p := observer.Add(dir.Scale(t))
		if n := len(out); n > 0 && out[n-1].Equal(p, visMergeEps) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[len(out)-1].Equal(out[0], visMergeEps) {
		out = out[:len(out)-1]
	}
	if len(out) < 3 {
		return Polygon{observer, observer, observer}
	}
	return out
}

func appendEdges(segs []segment, p Polygon) []segment {
	for i := range p {
		segs = append(segs, segment{p[i], p[(i+1)%len(p)]})
	}
	return segs
}

// nearestHit returns the smallest positive ray parameter at which the ray
// (origin + t*dir) meets any segment.
func nearestHit(origin, dir Vec2, segs []segment) (float64, bool) {
	best := math.Inf(1)
	for _, s := range segs {
		if t, ok := raySegmentT(origin, dir, s.a, s.b); ok && t < best {
			best = t
		}
	}
	return best, !math.IsInf(best, 1)
}

// raySegmentT intersects a ray with segment ab. Parallel segments never hit;
// hits at the origin itself are ignored so an observer standing on an edge
// still sees past it.
func raySegmentT(origin, dir, a, b Vec2) (float64, bool) {
	seg := b.Sub(a)
	den := dir.Cross(seg)
	if math.Abs(den) < 1e-12 {
		return 0, false
	}
	diff := a.Sub(origin)
	u := -dir.Cross(diff) / den
	t := diff.Cross(seg) / den
	if u < -visHitEps || u > 1+visHitEps || t <= visHitEps {
		return 0, false
	}
	return t, true
}

// clipSegment clips ab to the box [lo, hi] using the slab method.
func clipSegment(a, b, lo, hi Vec2) (Vec2, Vec2, bool) {
	d := b.Sub(a)
	t0, t1 := 0.0, 1.0
	for axis := 0; axis < 2; axis++ {
		o, dd, mn, mx := a.X, d.X, lo.X, hi.X
		if axis == 1 {
			o, dd, mn, mx = a.Y, d.Y, lo.Y, hi.Y
		}
		if math.Abs(dd) < 1e-12 {
			if o < mn || o > mx {
				return Vec2{}, Vec2{}, false
			}
			continue
		}
		ta := (mn - o) / dd
		tb := (mx - o) / dd
		if ta > tb {
			ta, tb = tb, ta
		}
		t0 = math.Max(t0, ta)
		t1 = math.Min(t1, tb)
		if t0 > t1 {
			return Vec2{}, Vec2{}, false
		}
	}
	return a.Add(d.Scale(t0)), a.Add(d.Scale(t1)), true
}

// Bounds returns the min and max corners of p.
func (p Polygon) Bounds() (Vec2, Vec2) {
	if len(p) == 0 {
		return Vec2{}, Vec2{}
	}
	lo, hi := p[0], p[0]
	for _, v := range p[1:] {
		lo.X = math.Min(lo.X, v.X)
		lo.Y = math.Min(lo.Y, v.Y)
		hi.X = math.Max(hi.X, v.X)
		hi.Y = math.Max(hi.Y, v.Y)
	}
	return lo, hi
}

// Area returns the unsigned area of p (shoelace).
func (p Polygon) Area() float64 {
	s := 0.0
	for i := range p {
		s += p[i].Cross(p[(i+1)%len(p)])
	}
	return math.Abs(s) / 2
}

// Contains reports whether pt is inside p or on its boundary.
func (p Polygon) Contains(pt Vec2) bool {
	if len(p) == 0 {
		return false
	}
	for i := range p {
		if pointSegmentDist(pt, p[i], p[(i+1)%len(p)]) < 1e-6 {
			return true
		}
	}
	inside := false
	j := len(p) - 1
	for i := 0; i < len(p); i++ {
		xi, yi := p[i].X, p[i].Y
		xj, yj := p[j].X, p[j].Y
		if ((yi > pt.Y) != (yj > pt.Y)) &&
			(pt.X < (xj-xi)*(pt.Y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}
	return inside
}

// pointSegmentDist returns the distance from p to segment ab.
func pointSegmentDist(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.Len2()
	if l2 < 1e-18 {
		return p.Dist(a)
	}
	t := clamp(p.Sub(a).Dot(ab)/l2, 0, 1)
	return p.Dist(a.Add(ab.Scale(t)))
}
