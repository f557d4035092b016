package game

import "math"

// HasLineOfSight returns true if the segment a->b does not cross the
// bounding box of any obstacle. Obstacles are axis-aligned rectangles, so the
// box test is exact for them.
func HasLineOfSight(a, b Vec2, obstacles ObstacleSet) bool {
	for _, p := range obstacles {
		lo, hi := p.Bounds()
		if rayIntersectsAABB(a.X, a.Y, b.X, b.Y, lo.X, lo.Y, hi.X, hi.Y) {
			return false
		}
	}
	return true
}

// clipSight returns b when a can see it, otherwise the point margin short of
// the first obstacle crossed on the way from a. a itself is returned when the
// obstacle is closer than margin.
func clipSight(a, b Vec2, obstacles ObstacleSet, margin float64) Vec2 {
	if HasLineOfSight(a, b, obstacles) {
		return b
	}
	best := 1.0
	for _, p := range obstacles {
		lo, hi := p.Bounds()
		if t, ok := rayAABBHitT(a.X, a.Y, b.X, b.Y, lo.X, lo.Y, hi.X, hi.Y); ok && t < best {
			best = t
		}
	}
	d := b.Sub(a)
	l := d.Len()
	back := best*l - margin
	if back <= 0 {
		return a
	}
	return a.Add(d.Scale(back / l))
}

// rayAABBHitT returns the first segment parameter t in [0,1] where the line
// from (ox,oy)->(ex,ey) enters the AABB. The bool is false when no hit exists.
func rayAABBHitT(ox, oy, ex, ey, minX, minY, maxX, maxY float64) (float64, bool) {
	dx := ex - ox
	dy := ey - oy

	tMin := 0.0
	tMax := 1.0

	// Check X slab
	if math.Abs(dx) < 1e-12 {
		if ox < minX || ox > maxX {
			return 0, false
		}
	} else {
		invD := 1.0 / dx
		t1 := (minX - ox) * invD
		t2 := (maxX - ox) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	// Check Y slab
	if math.Abs(dy) < 1e-12 {
		if oy < minY || oy > maxY {
			return 0, false
		}
	} else {
		invD := 1.0 / dy
		t1 := (minY - oy) * invD
		t2 := (maxY - oy) * invD
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 || tMin > 1 {
		return 0, false
	}
	return tMin, true
}

// rayIntersectsAABB checks if the line segment from (ox,oy)->(ex,ey)
// intersects the axis-aligned bounding box defined by (minX,minY)-(maxX,maxY).
func rayIntersectsAABB(ox, oy, ex, ey, minX, minY, maxX, maxY float64) bool {
	_, hit := rayAABBHitT(ox, oy, ex, ey, minX, minY, maxX, maxY)
	return hit
}

// segmentCircleHitT returns the first parameter t in [0,1] at which the
// segment a->b touches the circle (c, r).
func segmentCircleHitT(a, b, c Vec2, r float64) (float64, bool) {
	d := b.Sub(a)
	f := a.Sub(c)

	qa := d.Len2()
	qb := 2 * f.Dot(d)
	qc := f.Len2() - r*r
	if qc <= 0 {
		return 0, true // starts inside
	}
	disc := qb*qb - 4*qa*qc
	if disc < 0 || qa == 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t1 := (-qb - sq) / (2 * qa)
	t2 := (-qb + sq) / (2 * qa)

	t := math.Inf(1)
	if t1 >= 0 && t1 <= 1 {
		t = t1
	}
	if t2 >= 0 && t2 <= 1 && t2 < t {
		t = t2
	}
	if math.IsInf(t, 1) {
		return 0, false
	}
	return t, true
}
