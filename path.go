package fernmesh

import "container/heap"

// DefaultSnapRadius is how far FindPath may pull an off-mesh start or goal
// onto the mesh before reporting failure, when Mesh.SnapRadius is zero.
const DefaultSnapRadius = 1.0

// Path is the result of a corridor search: the minimal waypoint polyline
// from start to goal, or OK == false when no path exists. A failed path
// carries no waypoints — fernmesh never returns a partial path.
type Path struct {
	Points []Vec2
	OK     bool
}

// Remaining returns the length of the path from waypoint cursor onward,
// measured from pos. Used by agents to report progress.
func (p *Path) Remaining(pos Vec2, cursor int) float64 {
	if !p.OK || cursor >= len(p.Points) {
		return 0
	}
	total := pos.Dist(p.Points[cursor])
	for i := cursor; i+1 < len(p.Points); i++ {
		total += p.Points[i].Dist(p.Points[i+1])
	}
	return total
}

// FindPath searches the mesh's triangle adjacency graph for a corridor from
// start to goal and string-pulls it into a waypoint polyline. hint, when not
// NoHint, seeds the start-triangle lookup (pass the hint cached from a
// previous query near start).
//
// Fails — returning Path{OK: false} — when either endpoint cannot be
// resolved to a containing or nearby triangle, or when the endpoints lie in
// disconnected regions of the mesh.
func FindPath(m *Mesh, start, goal Vec2, hint int) Path {
	startTri, startPt, ok := resolveEndpoint(m, start, hint)
	if !ok {
		return Path{}
	}
	goalTri, goalPt, ok := resolveEndpoint(m, goal, NoHint)
	if !ok {
		return Path{}
	}

	if startTri == goalTri {
		return Path{Points: []Vec2{startPt, goalPt}, OK: true}
	}

	corridor := searchCorridor(m, int32(startTri), int32(goalTri))
	if corridor == nil {
		return Path{}
	}
	return Path{Points: funnel(m, corridor, startPt, goalPt), OK: true}
}

// resolveEndpoint maps a query point to a triangle and an on-mesh position,
// snapping to the closest mesh point within the snap radius when the point
// is not contained in any triangle.
func resolveEndpoint(m *Mesh, p Vec2, hint int) (int, Vec2, bool) {
	if tri := m.containingTriangle(p, hint); tri != NoHint {
		return tri, p, true
	}
	q, tri, ok := m.TryFindClosestPoint(p, NoHint)
	if !ok {
		return NoHint, Vec2{}, false
	}
	snap := m.SnapRadius
	if snap <= 0 {
		snap = DefaultSnapRadius
	}
	if p.Dist(q) > snap {
		return NoHint, Vec2{}, false
	}
	return tri, q, true
}

// pathNode is one A* search node: a triangle plus best-known cost.
type pathNode struct {
	tri    int32
	parent int32 // parent triangle, or -1 at the start
	g      float64
	f      float64
	closed bool
	index  int // position in the open heap, -1 when not queued
}

// openHeap is a min-heap of pathNodes ordered by f.
type openHeap []*pathNode

func (h openHeap) Len() int           { return len(h) }
func (h openHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h openHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *openHeap) Push(x any) {
	n := x.(*pathNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *openHeap) Pop() any {
	old := *h
	n := old[len(old)-1]
	n.index = -1
	*h = old[:len(old)-1]
	return n
}

// searchCorridor runs A* over the triangle adjacency graph (triangles as
// nodes, shared edges as arcs) with centroid-to-centroid distances as both
// edge cost and admissible-enough heuristic. Returns the triangle corridor
// from startTri to goalTri, or nil when the triangles are disconnected.
func searchCorridor(m *Mesh, startTri, goalTri int32) []int32 {
	goalC := m.centroid(goalTri)

	nodes := make(map[int32]*pathNode, 32)
	open := make(openHeap, 0, 32)

	startNode := &pathNode{tri: startTri, parent: -1, f: m.centroid(startTri).Dist(goalC)}
	nodes[startTri] = startNode
	heap.Push(&open, startNode)

	for open.Len() > 0 {
		cur := heap.Pop(&open).(*pathNode)
		if cur.tri == goalTri {
			// Walk parents back to the start.
			count := 0
			for t := cur.tri; t != -1; t = nodes[t].parent {
				count++
			}
			corridor := make([]int32, count)
			for t := cur.tri; t != -1; t = nodes[t].parent {
				count--
				corridor[count] = t
			}
			return corridor
		}
		cur.closed = true

		curC := m.centroid(cur.tri)
		for e := 0; e < 3; e++ {
			next := m.Tris[cur.tri].N[e]
			if next == noNeighbor {
				continue
			}
			n, seen := nodes[next]
			if seen && n.closed {
				continue
			}
			g := cur.g + curC.Dist(m.centroid(next))
			if !seen {
				n = &pathNode{tri: next, parent: cur.tri, g: g, f: g + m.centroid(next).Dist(goalC)}
				nodes[next] = n
				heap.Push(&open, n)
			} else if g < n.g {
				n.parent = cur.tri
				n.f += g - n.g
				n.g = g
				heap.Fix(&open, n.index)
			}
		}
	}
	return nil
}

// portalEdge returns the portal (left, right endpoints, as seen walking the
// corridor) of the shared edge between corridor triangles from and to.
// For a counterclockwise triangle, directed edge V[e]→V[e+1] keeps the
// interior on its left, so walking out through the edge puts V[e] on the
// traveler's left and V[e+1] on the right.
func portalEdge(m *Mesh, from, to int32) (Vec2, Vec2) {
	t := &m.Tris[from]
	for e := 0; e < 3; e++ {
		if t.N[e] == to {
			return m.Verts[t.V[e]], m.Verts[t.V[(e+1)%3]]
		}
	}
	// Corridor triangles are adjacent by construction.
	panic("fernmesh: corridor triangles not adjacent")
}

// funnel string-pulls a triangle corridor into the shortest waypoint
// polyline that stays inside it (the "simple stupid funnel" refinement).
func funnel(m *Mesh, corridor []int32, start, goal Vec2) []Vec2 {
	type portal struct {
		left, right Vec2
	}
	portals := make([]portal, 0, len(corridor)+1)
	portals = append(portals, portal{start, start})
	for i := 0; i+1 < len(corridor); i++ {
		l, r := portalEdge(m, corridor[i], corridor[i+1])
		portals = append(portals, portal{l, r})
	}
	portals = append(portals, portal{goal, goal})

	pts := []Vec2{start}
	apex, fleft, fright := start, start, start
	apexI, leftI, rightI := 0, 0, 0

	for i := 1; i < len(portals); i++ {
		pl, pr := portals[i].left, portals[i].right

		// Tighten the right side of the funnel.
		if area2(apex, fright, pr) <= 0 {
			if vequal(apex, fright) || area2(apex, fleft, pr) > 0 {
				fright = pr
				rightI = i
			} else {
				// Right crossed over left: the left endpoint is a corner of
				// the shortest path. Restart the funnel from it.
				if !vequal(fleft, pts[len(pts)-1]) {
					pts = append(pts, fleft)
				}
				apex = fleft
				apexI = leftI
				fleft, fright = apex, apex
				leftI, rightI = apexI, apexI
				i = apexI
				continue
			}
		}

		// Tighten the left side of the funnel.
		if area2(apex, fleft, pl) >= 0 {
			if vequal(apex, fleft) || area2(apex, fright, pl) < 0 {
				fleft = pl
				leftI = i
			} else {
				if !vequal(fright, pts[len(pts)-1]) {
					pts = append(pts, fright)
				}
				apex = fright
				apexI = rightI
				fleft, fright = apex, apex
				leftI, rightI = apexI, apexI
				i = apexI
				continue
			}
		}
	}

	if !vequal(goal, pts[len(pts)-1]) {
		pts = append(pts, goal)
	}
	return pts
}
