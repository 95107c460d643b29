package fernmesh

// TryFindClosestPoint returns the point on the mesh (interior or boundary)
// closest to p, together with a new triangle hint for the next query and
// whether a point was found at all (false only for an empty mesh).
//
// When hint is a live triangle containing p the query answers immediately;
// otherwise every triangle is scanned. Equidistant candidates tie-break to
// the lowest triangle index, which is deterministic because rebuilds with
// unchanged input produce identical triangle arrays.
func (m *Mesh) TryFindClosestPoint(p Vec2, hint int) (Vec2, int, bool) {
	if len(m.Tris) == 0 {
		return Vec2{}, NoHint, false
	}

	if m.validHint(hint, p) {
		return p, hint, true
	}

	best := Vec2{}
	bestTri := NoHint
	bestDist := 0.0
	for i := range m.Tris {
		t := &m.Tris[i]
		q := closestPointOnTriangle(p, m.Verts[t.V[0]], m.Verts[t.V[1]], m.Verts[t.V[2]])
		d := p.DistSq(q)
		if bestTri == NoHint || d < bestDist {
			best = q
			bestTri = i
			bestDist = d
			if d == 0 {
				break // p is on the mesh; no closer candidate exists
			}
		}
	}
	return best, bestTri, true
}

// containingTriangle returns the index of a triangle containing p, trying
// the hint first, or NoHint when p is outside the mesh. Ties between
// triangles sharing the containing edge resolve to the lowest index.
func (m *Mesh) containingTriangle(p Vec2, hint int) int {
	if m.validHint(hint, p) {
		return hint
	}
	for i := range m.Tris {
		t := &m.Tris[i]
		if pointInTriangle(p, m.Verts[t.V[0]], m.Verts[t.V[1]], m.Verts[t.V[2]]) {
			return i
		}
	}
	return NoHint
}

// centroid returns the centroid of triangle ti.
func (m *Mesh) centroid(ti int32) Vec2 {
	t := &m.Tris[ti]
	a := m.Verts[t.V[0]]
	b := m.Verts[t.V[1]]
	c := m.Verts[t.V[2]]
	return Vec2{(a.X + b.X + c.X) / 3, (a.Y + b.Y + c.Y) / 3}
}
