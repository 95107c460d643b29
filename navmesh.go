package fernmesh

// Loop is a closed polygon boundary owned by exactly one Mesh. With Hole
// false the loop contributes walkable area; with Hole true it punches a
// hole out of the walkable area it sits inside.
//
// Loops must be simple (non-self-intersecting). Degenerate loops — fewer
// than three points or near-zero area — are skipped during triangulation
// rather than failing the rebuild. Hole loops must be fully contained in a
// walkable loop of the same mesh; containment is not validated.
//
// Edit Points in place, then request a rebuild on the owning mesh.
type Loop struct {
	Points []Vec2
	Hole   bool

	owner *Mesh
}

// Mesh returns the mesh this loop belongs to.
func (l *Loop) Mesh() *Mesh {
	return l.owner
}

// Triangle is one cell of a mesh's walkable area: three indices into the
// mesh's vertex buffer plus one neighbor triangle index per edge. Edge e
// runs from V[e] to V[(e+1)%3]; N[e] is the triangle sharing that edge, or
// -1 when the edge lies on the mesh boundary. Triangles wind
// counterclockwise.
type Triangle struct {
	V [3]int32
	N [3]int32
}

// noNeighbor marks a boundary edge in Triangle.N.
const noNeighbor = -1

// childSpan records which contiguous run of a parent's triangle array came
// from which child mesh, so parent triangles remain resolvable to their
// source arena.
type childSpan struct {
	child *Mesh
	start int
	count int
}

// GeometrySource contributes extra loops to a mesh at rebuild time —
// typically collider-derived geometry. The mesh never polls the source
// outside of a rebuild; after the source's geometry changes, request a
// rebuild explicitly.
type GeometrySource interface {
	ContributeLoops() []Loop
}

// Mesh is a triangulated walkable area built from boundary loops, optionally
// composed from child meshes. All query methods are read-only; a mesh is
// only mutated by a successful rebuild, which swaps in the new triangulation
// atomically — a failed rebuild leaves the previous state untouched.
type Mesh struct {
	// Verts and Tris are the current triangulation. Treat as read-only;
	// they are replaced wholesale by rebuilds.
	Verts []Vec2
	Tris  []Triangle

	// Source, when set, is asked for additional loops during each rebuild
	// unless IgnoreColliders is true.
	Source GeometrySource

	// IgnoreColliders opts this mesh out of Source contribution. A composed
	// parent whose children already include collider geometry sets this to
	// skip redundant processing.
	IgnoreColliders bool

	// SnapRadius bounds how far FindPath may snap an off-mesh start or goal
	// onto the mesh before failing. Zero means DefaultSnapRadius.
	SnapRadius float64

	loops      []*Loop
	children   []*Mesh
	spans      []childSpan
	bounds     Rect
	generation uint64
	buildErr   error
	disposed   bool
}

// NewMesh creates an empty mesh. Add loops (and children), then rebuild.
func NewMesh() *Mesh {
	return &Mesh{}
}

// AddLoop adds a boundary loop to the mesh and returns it for later editing.
// The points slice is retained, not copied. Takes effect at the next rebuild.
func (m *Mesh) AddLoop(points []Vec2, hole bool) *Loop {
	l := &Loop{Points: points, Hole: hole, owner: m}
	m.loops = append(m.loops, l)
	return l
}

// RemoveLoop detaches a loop from the mesh. Takes effect at the next rebuild.
func (m *Mesh) RemoveLoop(l *Loop) {
	for i, existing := range m.loops {
		if existing == l {
			m.loops = append(m.loops[:i], m.loops[i+1:]...)
			l.owner = nil
			return
		}
	}
}

// Loops returns the mesh's own loops (not those of children or Source).
func (m *Mesh) Loops() []*Loop {
	return m.loops
}

// AddChild composes child into this mesh. At the parent's next rebuild the
// child's current triangulation is registered unchanged and stitched to the
// rest of the mesh across coincident boundary edges.
//
// A child rebuild never propagates upward: after rebuilding a child, request
// a parent rebuild explicitly, or the parent keeps serving the child's old
// triangles.
func (m *Mesh) AddChild(child *Mesh) {
	m.children = append(m.children, child)
}

// RemoveChild detaches a child mesh. Takes effect at the next rebuild.
func (m *Mesh) RemoveChild(child *Mesh) {
	for i, existing := range m.children {
		if existing == child {
			m.children = append(m.children[:i], m.children[i+1:]...)
			return
		}
	}
}

// Children returns the composed child meshes.
func (m *Mesh) Children() []*Mesh {
	return m.children
}

// Bounds returns the axis-aligned bounds of the current triangulation.
func (m *Mesh) Bounds() Rect {
	return m.bounds
}

// Generation returns a counter incremented by every successful rebuild.
// Callers caching derived data (paths, hints) compare generations to detect
// that the triangulation changed underneath them.
func (m *Mesh) Generation() uint64 {
	return m.generation
}

// BuildError returns the error from the most recent failed rebuild, or nil
// if the last rebuild succeeded.
func (m *Mesh) BuildError() error {
	return m.buildErr
}

// MarkForRebuild enqueues this mesh into the scheduler's pending set,
// deduplicated. The rebuild happens at the next Flush.
func (m *Mesh) MarkForRebuild(s *Scheduler) {
	if m.disposed {
		return
	}
	s.Add(m)
}

// RebuildImmediately synchronously re-triangulates the mesh from its loops,
// Source contribution, and children. Returns false on failure, in which case
// the previous triangulation is retained unmodified and BuildError reports
// the cause. Deterministic: unchanged input yields an identical triangle
// array.
func (m *Mesh) RebuildImmediately() bool {
	if m.disposed {
		return false
	}

	loops := make([]Loop, 0, len(m.loops))
	for _, l := range m.loops {
		loops = append(loops, *l)
	}
	if m.Source != nil && !m.IgnoreColliders {
		loops = append(loops, m.Source.ContributeLoops()...)
	}

	verts, tris, err := triangulateLoops(loops)
	if err != nil {
		m.buildErr = err
		return false
	}

	// Register each live child's current triangulation unchanged, offsetting
	// vertex and neighbor indices into the parent arena.
	spans := make([]childSpan, 0, len(m.children))
	for _, child := range m.children {
		if child.disposed || len(child.Tris) == 0 {
			continue
		}
		vertOff := int32(len(verts))
		triOff := int32(len(tris))
		verts = append(verts, child.Verts...)
		spans = append(spans, childSpan{child: child, start: int(triOff), count: len(child.Tris)})
		for _, t := range child.Tris {
			nt := Triangle{
				V: [3]int32{t.V[0] + vertOff, t.V[1] + vertOff, t.V[2] + vertOff},
			}
			for e := 0; e < 3; e++ {
				if t.N[e] == noNeighbor {
					nt.N[e] = noNeighbor
				} else {
					nt.N[e] = t.N[e] + triOff
				}
			}
			tris = append(tris, nt)
		}
	}

	stitchBoundaries(verts, tris)

	m.Verts = verts
	m.Tris = tris
	m.spans = spans
	m.bounds = boundsOf(verts)
	m.generation++
	m.buildErr = nil
	return true
}

// SourceOf resolves a parent triangle index to the child mesh it came from
// and the triangle's index local to that child. Returns (nil, tri) for
// triangles built from the mesh's own loops. Intended for debug tooling.
func (m *Mesh) SourceOf(tri int) (*Mesh, int) {
	for _, s := range m.spans {
		if tri >= s.start && tri < s.start+s.count {
			return s.child, tri - s.start
		}
	}
	return nil, tri
}

// Dispose marks the mesh as destroyed. Disposed meshes refuse rebuilds, are
// skipped by the scheduler and by composing parents, and any agent locked to
// one clears its lock on its next update.
func (m *Mesh) Dispose() {
	m.disposed = true
}

// IsDisposed reports whether Dispose has been called.
func (m *Mesh) IsDisposed() bool {
	return m.disposed
}

// validHint reports whether hint is a live triangle index containing p.
// Stale hints (out of bounds after a rebuild, or no longer containing the
// query point) are cache misses, not errors.
func (m *Mesh) validHint(hint int, p Vec2) bool {
	if hint < 0 || hint >= len(m.Tris) {
		return false
	}
	t := &m.Tris[hint]
	return pointInTriangle(p, m.Verts[t.V[0]], m.Verts[t.V[1]], m.Verts[t.V[2]])
}

// boundsOf computes the axis-aligned bounds of a vertex set.
func boundsOf(verts []Vec2) Rect {
	if len(verts) == 0 {
		return Rect{}
	}
	minX, minY := verts[0].X, verts[0].Y
	maxX, maxY := minX, minY
	for _, v := range verts[1:] {
		if v.X < minX {
			minX = v.X
		}
		if v.X > maxX {
			maxX = v.X
		}
		if v.Y < minY {
			minY = v.Y
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
