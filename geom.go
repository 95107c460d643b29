package fernmesh

import "math"

// Low-level geometric predicates shared by the triangulator and the query
// layer. Winding convention: positive signed area = counterclockwise.

// areaEps is the tolerance below which a doubled signed area counts as zero.
const areaEps = 1e-9

// weldEps is the coordinate tolerance used when welding duplicate vertices
// and matching boundary edges between composed sub-meshes.
const weldEps = 1e-6

// area2 returns twice the signed area of triangle abc.
// Positive when abc winds counterclockwise.
func area2(a, b, c Vec2) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
}

func left(a, b, c Vec2) bool {
	return area2(a, b, c) > 0
}

func leftOn(a, b, c Vec2) bool {
	return area2(a, b, c) >= 0
}

func collinear(a, b, c Vec2) bool {
	return math.Abs(area2(a, b, c)) <= areaEps
}

// intersectProp reports whether segments ab and cd cross at a point interior
// to both. Collinear configurations are not proper intersections.
func intersectProp(a, b, c, d Vec2) bool {
	if collinear(a, b, c) || collinear(a, b, d) || collinear(c, d, a) || collinear(c, d, b) {
		return false
	}
	return (left(a, b, c) != left(a, b, d)) && (left(c, d, a) != left(c, d, b))
}

// between reports whether c lies on the closed segment ab.
// Requires a prior collinearity check to be meaningful on its own, so it
// performs one here for safety.
func between(a, b, c Vec2) bool {
	if !collinear(a, b, c) {
		return false
	}
	// Compare on the dominant axis to dodge degenerate vertical segments.
	if math.Abs(a.X-b.X) > math.Abs(a.Y-b.Y) {
		return (a.X <= c.X && c.X <= b.X) || (a.X >= c.X && c.X >= b.X)
	}
	return (a.Y <= c.Y && c.Y <= b.Y) || (a.Y >= c.Y && c.Y >= b.Y)
}

// intersect reports whether segments ab and cd intersect, properly or at an
// endpoint.
func intersect(a, b, c, d Vec2) bool {
	if intersectProp(a, b, c, d) {
		return true
	}
	return between(a, b, c) || between(a, b, d) || between(c, d, a) || between(c, d, b)
}

// vequal reports whether two points are close enough to weld.
func vequal(a, b Vec2) bool {
	return math.Abs(a.X-b.X) <= weldEps && math.Abs(a.Y-b.Y) <= weldEps
}

// signedArea returns the signed area of a closed polygon.
// Positive for counterclockwise winding.
func signedArea(pts []Vec2) float64 {
	var sum float64
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return sum / 2
}

// pointInPolygon reports whether p lies inside the closed polygon pts,
// using even-odd ray crossing. Boundary points may report either way;
// callers that care about the boundary test it separately.
func pointInPolygon(p Vec2, pts []Vec2) bool {
	inside := false
	j := len(pts) - 1
	for i := range pts {
		pi, pj := pts[i], pts[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// selfIntersects reports whether any two non-adjacent edges of the closed
// polygon pts touch or cross. O(n^2); loops are authored geometry, not
// per-frame data.
func selfIntersects(pts []Vec2) bool {
	n := len(pts)
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		for j := i + 1; j < n; j++ {
			// Skip edges sharing a vertex with edge i.
			if j == i || (j+1)%n == i || j == (i+1)%n {
				continue
			}
			c := pts[j]
			d := pts[(j+1)%n]
			if intersect(a, b, c, d) {
				return true
			}
		}
	}
	return false
}

// pointInTriangle reports whether p lies inside or on triangle abc.
// The triangle may wind either way.
func pointInTriangle(p, a, b, c Vec2) bool {
	d1 := area2(p, a, b)
	d2 := area2(p, b, c)
	d3 := area2(p, c, a)
	hasNeg := d1 < -areaEps || d2 < -areaEps || d3 < -areaEps
	hasPos := d1 > areaEps || d2 > areaEps || d3 > areaEps
	return !(hasNeg && hasPos)
}

// closestPointOnSegment returns the point on segment ab closest to p.
func closestPointOnSegment(p, a, b Vec2) Vec2 {
	ab := b.Sub(a)
	denom := ab.LenSq()
	if denom < epsilon {
		return a
	}
	t := p.Sub(a).Dot(ab) / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Scale(t))
}

// closestPointOnTriangle returns the point on triangle abc (interior or
// boundary) closest to p.
func closestPointOnTriangle(p, a, b, c Vec2) Vec2 {
	if pointInTriangle(p, a, b, c) {
		return p
	}
	best := closestPointOnSegment(p, a, b)
	bestDist := p.DistSq(best)
	if q := closestPointOnSegment(p, b, c); p.DistSq(q) < bestDist {
		best = q
		bestDist = p.DistSq(q)
	}
	if q := closestPointOnSegment(p, c, a); p.DistSq(q) < bestDist {
		best = q
	}
	return best
}
