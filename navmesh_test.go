package fernmesh

import "testing"

// staticLoops is a GeometrySource serving a fixed loop set.
type staticLoops struct {
	loops []Loop
}

func (s *staticLoops) ContributeLoops() []Loop {
	return s.loops
}

func buildTwoRoomParent(t *testing.T) (parent, left, right *Mesh) {
	t.Helper()
	left = NewMesh()
	left.AddLoop(squareLoop(0, 0, 10), false)
	right = NewMesh()
	right.AddLoop(squareLoop(10, 0, 10), false)
	if !left.RebuildImmediately() {
		t.Fatalf("left rebuild failed: %v", left.BuildError())
	}
	if !right.RebuildImmediately() {
		t.Fatalf("right rebuild failed: %v", right.BuildError())
	}

	parent = NewMesh()
	parent.AddChild(left)
	parent.AddChild(right)
	if !parent.RebuildImmediately() {
		t.Fatalf("parent rebuild failed: %v", parent.BuildError())
	}
	return parent, left, right
}

func TestComposeStitchesSharedEdge(t *testing.T) {
	parent, left, right := buildTwoRoomParent(t)

	if len(parent.Tris) != len(left.Tris)+len(right.Tris) {
		t.Fatalf("parent has %d triangles, want %d", len(parent.Tris), len(left.Tris)+len(right.Tris))
	}

	// The rooms abut along x=10; the stitched mesh must be crossable.
	p := FindPath(parent, Vec2{5, 5}, Vec2{15, 5}, NoHint)
	if !p.OK {
		t.Fatal("no path across the stitched seam")
	}
	if l := pathLength(p); !approxEqual(l, 10, tolerance) {
		t.Errorf("cross-seam path length = %v, want 10 (straight)", l)
	}

	// Children remain independently queryable.
	if p := FindPath(left, Vec2{5, 5}, Vec2{15, 5}, NoHint); p.OK {
		t.Error("child alone found a path into its sibling")
	}
}

func TestComposeSourceOf(t *testing.T) {
	parent, left, right := buildTwoRoomParent(t)

	_, leftTri, ok := parent.TryFindClosestPoint(Vec2{5, 5}, NoHint)
	if !ok {
		t.Fatal("closest-point query failed")
	}
	if src, local := parent.SourceOf(leftTri); src != left || local < 0 || local >= len(left.Tris) {
		t.Errorf("SourceOf(%d) = (%p, %d), want left child", leftTri, src, local)
	}
	_, rightTri, ok := parent.TryFindClosestPoint(Vec2{15, 5}, NoHint)
	if !ok {
		t.Fatal("closest-point query failed")
	}
	if src, _ := parent.SourceOf(rightTri); src != right {
		t.Error("right-room triangle not attributed to the right child")
	}
}

func TestComposeChildRebuildDoesNotPropagate(t *testing.T) {
	parent, left, _ := buildTwoRoomParent(t)
	before := len(parent.Tris)
	gen := parent.Generation()

	// Punch a hole in the left child and rebuild it alone.
	left.AddLoop([]Vec2{{4, 4}, {6, 4}, {6, 6}, {4, 6}}, true)
	if !left.RebuildImmediately() {
		t.Fatalf("child rebuild failed: %v", left.BuildError())
	}

	// The parent still serves the child's previous triangles.
	if len(parent.Tris) != before {
		t.Error("child rebuild mutated the parent's triangles")
	}
	if parent.Generation() != gen {
		t.Error("child rebuild bumped the parent's generation")
	}
	if _, tri, ok := parent.TryFindClosestPoint(Vec2{5, 5}, NoHint); !ok || !parent.validHint(tri, Vec2{5, 5}) {
		t.Error("hole visible through the parent before a parent rebuild")
	}

	// An explicit parent rebuild picks up the change.
	if !parent.RebuildImmediately() {
		t.Fatalf("parent rebuild failed: %v", parent.BuildError())
	}
	if len(parent.Tris) <= before {
		t.Error("parent rebuild did not register the child's new triangulation")
	}
	q, _, ok := parent.TryFindClosestPoint(Vec2{5, 5}, NoHint)
	if !ok {
		t.Fatal("closest-point query failed after parent rebuild")
	}
	if q.Dist(Vec2{5, 5}) < 1-tolerance {
		t.Errorf("hole center resolved to %v, want a hole-boundary point", q)
	}
}

func TestComposeSkipsDisposedChild(t *testing.T) {
	parent, left, right := buildTwoRoomParent(t)
	right.Dispose()
	if !parent.RebuildImmediately() {
		t.Fatalf("parent rebuild failed: %v", parent.BuildError())
	}
	if len(parent.Tris) != len(left.Tris) {
		t.Errorf("parent has %d triangles, want the live child's %d", len(parent.Tris), len(left.Tris))
	}
}

func TestGeometrySourceContribution(t *testing.T) {
	m := NewMesh()
	m.AddLoop(squareLoop(0, 0, 10), false)
	m.Source = &staticLoops{loops: []Loop{
		{Points: []Vec2{{4, 4}, {6, 4}, {6, 6}, {4, 6}}, Hole: true},
	}}
	if !m.RebuildImmediately() {
		t.Fatalf("rebuild failed: %v", m.BuildError())
	}
	if _, _, ok := m.TryFindClosestPoint(Vec2{5, 5}, NoHint); !ok {
		t.Fatal("query failed")
	}
	q, _, _ := m.TryFindClosestPoint(Vec2{5, 5}, NoHint)
	if q.Dist(Vec2{5, 5}) < 1-tolerance {
		t.Errorf("source hole ignored: center resolved to %v", q)
	}

	// IgnoreColliders drops the contribution.
	m.IgnoreColliders = true
	if !m.RebuildImmediately() {
		t.Fatalf("rebuild failed: %v", m.BuildError())
	}
	q, _, _ = m.TryFindClosestPoint(Vec2{5, 5}, NoHint)
	if !vecApprox(q, Vec2{5, 5}, tolerance) {
		t.Errorf("IgnoreColliders mesh still carries the hole: %v", q)
	}
}

func TestRemoveLoop(t *testing.T) {
	m := NewMesh()
	m.AddLoop(squareLoop(0, 0, 10), false)
	hole := m.AddLoop([]Vec2{{4, 4}, {6, 4}, {6, 6}, {4, 6}}, true)
	if !m.RebuildImmediately() {
		t.Fatalf("rebuild failed: %v", m.BuildError())
	}
	withHole := meshArea(m)

	m.RemoveLoop(hole)
	if hole.Mesh() != nil {
		t.Error("removed loop still claims an owner")
	}
	if !m.RebuildImmediately() {
		t.Fatalf("rebuild failed: %v", m.BuildError())
	}
	if a := meshArea(m); !approxEqual(a, withHole+4, tolerance) {
		t.Errorf("area after hole removal = %v, want %v", a, withHole+4)
	}
}

func TestDisposedMeshRefusesRebuild(t *testing.T) {
	m := NewMesh()
	m.AddLoop(squareLoop(0, 0, 10), false)
	if !m.RebuildImmediately() {
		t.Fatalf("rebuild failed: %v", m.BuildError())
	}
	m.Dispose()
	if m.RebuildImmediately() {
		t.Error("disposed mesh rebuilt")
	}
	s := NewScheduler()
	m.MarkForRebuild(s)
	if s.Len() != 0 {
		t.Error("disposed mesh entered the pending set")
	}
}

func TestBounds(t *testing.T) {
	m := NewMesh()
	m.AddLoop(squareLoop(2, 3, 10), false)
	if !m.RebuildImmediately() {
		t.Fatalf("rebuild failed: %v", m.BuildError())
	}
	b := m.Bounds()
	if !approxEqual(b.X, 2, tolerance) || !approxEqual(b.Y, 3, tolerance) ||
		!approxEqual(b.Width, 10, tolerance) || !approxEqual(b.Height, 10, tolerance) {
		t.Errorf("bounds = %+v", b)
	}
}
