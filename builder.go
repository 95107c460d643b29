package fernmesh

import (
	"fmt"
	"math"
	"sort"
)

// Triangulation of boundary loops into an adjacency-linked triangle array.
//
// The approach follows the classic contour pipeline: holes are merged into
// their enclosing outline with non-crossing bridge diagonals, the resulting
// weakly-simple polygon is ear-clipped shortest-diagonal-first, emitted
// vertices are welded by position (which turns the two sides of each bridge
// back into ordinary shared edges), and adjacency is recovered by hashing
// vertex-index edge pairs. The whole pipeline is deterministic for identical
// input loop ordering.

// triangulateLoops builds a welded vertex buffer and adjacency-linked
// triangle array from the given loops. Degenerate loops produce no
// triangles; a self-intersecting loop fails the build.
func triangulateLoops(loops []Loop) ([]Vec2, []Triangle, error) {
	var outlines, holes [][]Vec2
	for i, l := range loops {
		// Self-intersection is checked before the degeneracy drop: a
		// zero-net-area bowtie is malformed input, not an empty loop.
		if len(l.Points) >= 3 && selfIntersects(l.Points) {
			return nil, nil, fmt.Errorf("fernmesh: loop %d is self-intersecting", i)
		}
		pts := normalizeLoop(l.Points, l.Hole)
		if pts == nil {
			continue // degenerate: contributes nothing
		}
		if l.Hole {
			holes = append(holes, pts)
		} else {
			outlines = append(outlines, pts)
		}
	}

	w := newWelder()
	var tris []Triangle
	for _, outline := range outlines {
		merged := mergeHoles(outline, holesInside(outline, holes))
		ears, err := earClip(merged)
		if err != nil {
			return nil, nil, err
		}
		for _, t := range ears {
			a := w.add(merged[t[0]])
			b := w.add(merged[t[1]])
			c := w.add(merged[t[2]])
			if a == b || b == c || c == a {
				continue // bridge sliver collapsed by welding
			}
			tri := Triangle{V: [3]int32{a, b, c}, N: [3]int32{noNeighbor, noNeighbor, noNeighbor}}
			if area2(w.verts[a], w.verts[b], w.verts[c]) < 0 {
				tri.V[1], tri.V[2] = tri.V[2], tri.V[1]
			}
			tris = append(tris, tri)
		}
	}

	buildAdjacency(tris)
	return w.verts, tris, nil
}

// normalizeLoop validates and rewinds a loop's points: walkable loops
// counterclockwise, holes clockwise. Returns nil for degenerate input.
func normalizeLoop(pts []Vec2, hole bool) []Vec2 {
	if len(pts) < 3 {
		return nil
	}
	area := signedArea(pts)
	if math.Abs(area) <= areaEps {
		return nil
	}
	out := make([]Vec2, len(pts))
	copy(out, pts)
	ccw := area > 0
	if ccw == hole {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// holesInside selects the holes whose first vertex lies inside the outline.
// A hole straddling or outside every outline is dropped; containment is the
// caller's obligation.
func holesInside(outline []Vec2, holes [][]Vec2) [][]Vec2 {
	var out [][]Vec2
	for _, h := range holes {
		if pointInPolygon(h[0], outline) {
			out = append(out, h)
		}
	}
	return out
}

// mergeHoles splices each hole into the outline through a bridge diagonal,
// producing one weakly-simple polygon. Holes are processed left to right;
// for each, candidate bridge endpoints on the outline are tried shortest
// first and accepted only when the diagonal crosses neither the outline nor
// any remaining hole.
func mergeHoles(outline []Vec2, holes [][]Vec2) []Vec2 {
	if len(holes) == 0 {
		return outline
	}

	type pendingHole struct {
		pts      []Vec2
		leftmost int
	}
	pending := make([]pendingHole, len(holes))
	for i, h := range holes {
		pending[i] = pendingHole{pts: h, leftmost: leftmostVertex(h)}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		a := pending[i].pts[pending[i].leftmost]
		b := pending[j].pts[pending[j].leftmost]
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})

	merged := outline
	for hi, h := range pending {
		bridgeOut, bridgeHole := -1, -1
		bestVertex := h.leftmost

		for iter := 0; iter < len(h.pts) && bridgeOut < 0; iter++ {
			corner := h.pts[bestVertex]

			// Candidate outline vertices whose cone contains the corner,
			// shortest diagonal first.
			type diag struct {
				vert int
				dist float64
			}
			var diags []diag
			for j := range merged {
				if inConeAt(j, merged, corner) {
					diags = append(diags, diag{vert: j, dist: merged[j].DistSq(corner)})
				}
			}
			sort.SliceStable(diags, func(a, b int) bool { return diags[a].dist < diags[b].dist })

			for _, d := range diags {
				p := merged[d.vert]
				hit := segIntersectsRing(p, corner, d.vert, merged)
				for k := hi; k < len(pending) && !hit; k++ {
					hit = segIntersectsRing(p, corner, -1, pending[k].pts)
				}
				if !hit {
					bridgeOut = d.vert
					bridgeHole = bestVertex
					break
				}
			}

			if bridgeOut < 0 {
				// Every diagonal from this corner was blocked; try the next
				// hole vertex.
				bestVertex = (bestVertex + 1) % len(h.pts)
			}
		}

		if bridgeOut < 0 {
			continue // unbridgeable hole is dropped
		}
		merged = spliceHole(merged, h.pts, bridgeOut, bridgeHole)
	}
	return merged
}

// leftmostVertex returns the index of the lexicographically smallest point.
func leftmostVertex(pts []Vec2) int {
	best := 0
	for i, p := range pts {
		if p.X < pts[best].X || (p.X == pts[best].X && p.Y < pts[best].Y) {
			best = i
		}
	}
	return best
}

// inConeAt reports whether p lies inside the cone at ring vertex j.
func inConeAt(j int, ring []Vec2, p Vec2) bool {
	n := len(ring)
	pj := ring[j]
	pj1 := ring[(j+1)%n]
	pjn1 := ring[(j+n-1)%n]
	if leftOn(pjn1, pj, pj1) {
		return left(pj, p, pjn1) && left(p, pj, pj1)
	}
	return !(leftOn(pj, p, pj1) && leftOn(p, pj, pjn1))
}

// segIntersectsRing reports whether segment d0-d1 touches any ring edge.
// Edges incident to ring vertex skip, and edges sharing an endpoint with the
// segment, are ignored.
func segIntersectsRing(d0, d1 Vec2, skip int, ring []Vec2) bool {
	n := len(ring)
	for k := 0; k < n; k++ {
		k1 := (k + 1) % n
		if k == skip || k1 == skip {
			continue
		}
		c0, c1 := ring[k], ring[k1]
		if vequal(d0, c0) || vequal(d0, c1) || vequal(d1, c0) || vequal(d1, c1) {
			continue
		}
		if intersect(d0, d1, c0, c1) {
			return true
		}
	}
	return false
}

// spliceHole inserts the hole ring into the outline at the bridge, walking
// the hole from bridgeHole all the way around and back, then duplicating
// both bridge endpoints to close the outline again.
func spliceHole(outline, hole []Vec2, bridgeOut, bridgeHole int) []Vec2 {
	out := make([]Vec2, 0, len(outline)+len(hole)+2)
	out = append(out, outline[:bridgeOut+1]...)
	for i := 0; i <= len(hole); i++ {
		out = append(out, hole[(bridgeHole+i)%len(hole)])
	}
	out = append(out, outline[bridgeOut:]...)
	return out
}

// earClip triangulates a weakly-simple counterclockwise polygon, returning
// index triples into pts. Ears are clipped shortest-diagonal-first; when no
// strict ear remains (overlapping bridge segments), a loosened diagonal test
// is used to recover.
func earClip(pts []Vec2) ([][3]int, error) {
	n := len(pts)
	if n < 3 {
		return nil, nil
	}

	ring := make([]int, n)
	for i := range ring {
		ring[i] = i
	}
	ear := make([]bool, n)
	for i := 0; i < n; i++ {
		ear[i] = ringDiagonal(ringPrev(i, n), ringNext(i, n), ring, pts, false)
	}

	tris := make([][3]int, 0, n-2)
	for n > 3 {
		mini := -1
		minLen := math.MaxFloat64
		for pass := 0; pass < 2 && mini < 0; pass++ {
			for i := 0; i < n; i++ {
				i1 := ringNext(i, n)
				ok := ear[i1]
				if pass == 1 {
					// Overlapping bridge segments can leave no strict ear;
					// retry with the loosened diagonal test.
					ok = ringDiagonal(i, ringNext(i1, n), ring, pts, true)
				}
				if !ok {
					continue
				}
				d := pts[ring[i]].DistSq(pts[ring[ringNext(i1, n)]])
				if d < minLen {
					minLen = d
					mini = i
				}
			}
		}
		if mini < 0 {
			return nil, fmt.Errorf("fernmesh: cannot triangulate contour (%d vertices left)", n)
		}

		i := mini
		i1 := ringNext(i, n)
		i2 := ringNext(i1, n)
		tris = append(tris, [3]int{ring[i], ring[i1], ring[i2]})

		// Remove ring[i1].
		n--
		copy(ring[i1:n], ring[i1+1:n+1])
		copy(ear[i1:n], ear[i1+1:n+1])
		ring = ring[:n]
		ear = ear[:n]
		if i1 >= n {
			i1 = 0
		}
		i = ringPrev(i1, n)

		ear[i] = ringDiagonal(ringPrev(i, n), i1, ring, pts, false)
		ear[i1] = ringDiagonal(i, ringNext(i1, n), ring, pts, false)
	}

	tris = append(tris, [3]int{ring[0], ring[1], ring[2]})
	return tris, nil
}

func ringPrev(i, n int) int {
	if i == 0 {
		return n - 1
	}
	return i - 1
}

func ringNext(i, n int) int {
	if i+1 == n {
		return 0
	}
	return i + 1
}

// ringDiagonal reports whether ring positions i and j form a valid internal
// diagonal: inside the cone at i and not crossing any ring edge. The loose
// variant relaxes both tests to proper intersections only, recovering from
// overlapping bridge segments.
func ringDiagonal(i, j int, ring []int, pts []Vec2, loose bool) bool {
	if loose {
		return ringInCone(i, j, ring, pts, true) && ringDiagonalie(i, j, ring, pts, true)
	}
	return ringInCone(i, j, ring, pts, false) && ringDiagonalie(i, j, ring, pts, false)
}

// ringInCone reports whether the diagonal from ring position i to ring
// position j starts inside the cone at i.
func ringInCone(i, j int, ring []int, pts []Vec2, loose bool) bool {
	n := len(ring)
	pi := pts[ring[i]]
	pj := pts[ring[j]]
	pi1 := pts[ring[ringNext(i, n)]]
	pin1 := pts[ring[ringPrev(i, n)]]

	if leftOn(pin1, pi, pi1) {
		if loose {
			return leftOn(pi, pj, pin1) && leftOn(pj, pi, pi1)
		}
		return left(pi, pj, pin1) && left(pj, pi, pi1)
	}
	return !(leftOn(pi, pj, pi1) && leftOn(pj, pi, pin1))
}

// ringDiagonalie reports whether the open segment between ring positions i
// and j crosses no ring edge.
func ringDiagonalie(i, j int, ring []int, pts []Vec2, loose bool) bool {
	n := len(ring)
	d0 := pts[ring[i]]
	d1 := pts[ring[j]]

	for k := 0; k < n; k++ {
		k1 := ringNext(k, n)
		if k == i || k1 == i || k == j || k1 == j {
			continue
		}
		p0 := pts[ring[k]]
		p1 := pts[ring[k1]]
		if vequal(d0, p0) || vequal(d1, p0) || vequal(d0, p1) || vequal(d1, p1) {
			continue
		}
		if loose {
			if intersectProp(p0, p1, d0, d1) {
				return false
			}
		} else if intersect(d0, d1, p0, p1) {
			return false
		}
	}
	return true
}

// welder deduplicates emitted vertices by quantized position, so the
// duplicate bridge vertices introduced by hole merging collapse back into
// single vertices and bridge edges become ordinary internal edges.
type welder struct {
	verts []Vec2
	index map[[2]int64]int32
}

func newWelder() *welder {
	return &welder{index: make(map[[2]int64]int32)}
}

func (w *welder) add(p Vec2) int32 {
	key := [2]int64{int64(math.Round(p.X / weldEps)), int64(math.Round(p.Y / weldEps))}
	if i, ok := w.index[key]; ok {
		return i
	}
	i := int32(len(w.verts))
	w.verts = append(w.verts, p)
	w.index[key] = i
	return i
}

// buildAdjacency links triangles sharing an edge. Edges are keyed by their
// ordered vertex-index pair; each internal edge is seen exactly twice.
func buildAdjacency(tris []Triangle) {
	type edgeRef struct {
		tri  int32
		edge int32
	}
	open := make(map[[2]int32]edgeRef, len(tris)*3/2)

	for ti := range tris {
		for e := 0; e < 3; e++ {
			a := tris[ti].V[e]
			b := tris[ti].V[(e+1)%3]
			if a > b {
				a, b = b, a
			}
			key := [2]int32{a, b}
			if prev, ok := open[key]; ok {
				tris[ti].N[e] = prev.tri
				tris[prev.tri].N[prev.edge] = int32(ti)
				delete(open, key)
			} else {
				open[key] = edgeRef{tri: int32(ti), edge: int32(e)}
			}
		}
	}
}

// stitchBoundaries links boundary edges of distinct sub-meshes whose
// endpoints coincide geometrically. Within one triangulation welding already
// produced index-level adjacency; this pass connects a composed parent's own
// area and its children across shared child boundaries.
func stitchBoundaries(verts []Vec2, tris []Triangle) {
	type edgeRef struct {
		tri  int32
		edge int32
	}
	open := make(map[[4]int64]edgeRef)

	quant := func(p Vec2) [2]int64 {
		return [2]int64{int64(math.Round(p.X / weldEps)), int64(math.Round(p.Y / weldEps))}
	}

	for ti := range tris {
		for e := 0; e < 3; e++ {
			if tris[ti].N[e] != noNeighbor {
				continue
			}
			qa := quant(verts[tris[ti].V[e]])
			qb := quant(verts[tris[ti].V[(e+1)%3]])
			if qb[0] < qa[0] || (qb[0] == qa[0] && qb[1] < qa[1]) {
				qa, qb = qb, qa
			}
			key := [4]int64{qa[0], qa[1], qb[0], qb[1]}
			if prev, ok := open[key]; ok {
				tris[ti].N[e] = prev.tri
				tris[prev.tri].N[prev.edge] = int32(ti)
				delete(open, key)
			} else {
				open[key] = edgeRef{tri: int32(ti), edge: int32(e)}
			}
		}
	}
}
