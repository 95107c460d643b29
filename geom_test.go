package fernmesh

import (
	"math"
	"testing"
)

const tolerance = 1e-6

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func vecApprox(a, b Vec2, eps float64) bool {
	return approxEqual(a.X, b.X, eps) && approxEqual(a.Y, b.Y, eps)
}

func TestArea2Winding(t *testing.T) {
	// (0,0) → (10,0) → (0,10) winds counterclockwise: positive area.
	if a := area2(Vec2{0, 0}, Vec2{10, 0}, Vec2{0, 10}); a <= 0 {
		t.Errorf("area2 = %v, want > 0", a)
	}
	if a := area2(Vec2{0, 0}, Vec2{0, 10}, Vec2{10, 0}); a >= 0 {
		t.Errorf("reversed area2 = %v, want < 0", a)
	}
}

func TestSignedArea(t *testing.T) {
	square := []Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if a := signedArea(square); !approxEqual(a, 100, tolerance) {
		t.Errorf("signedArea = %v, want 100", a)
	}
	reversed := []Vec2{{0, 10}, {10, 10}, {10, 0}, {0, 0}}
	if a := signedArea(reversed); !approxEqual(a, -100, tolerance) {
		t.Errorf("reversed signedArea = %v, want -100", a)
	}
}

func TestSegmentIntersection(t *testing.T) {
	// Proper crossing.
	if !intersect(Vec2{0, 0}, Vec2{10, 10}, Vec2{10, 0}, Vec2{0, 10}) {
		t.Error("crossing segments not detected")
	}
	// Disjoint.
	if intersect(Vec2{0, 0}, Vec2{1, 0}, Vec2{5, 5}, Vec2{6, 5}) {
		t.Error("disjoint segments reported intersecting")
	}
	// Endpoint touch is an intersection.
	if !intersect(Vec2{0, 0}, Vec2{5, 5}, Vec2{5, 5}, Vec2{10, 0}) {
		t.Error("endpoint touch not detected")
	}
	// Parallel non-collinear.
	if intersect(Vec2{0, 0}, Vec2{10, 0}, Vec2{0, 1}, Vec2{10, 1}) {
		t.Error("parallel segments reported intersecting")
	}
}

func TestSelfIntersects(t *testing.T) {
	bowtie := []Vec2{{0, 0}, {10, 10}, {10, 0}, {0, 10}}
	if !selfIntersects(bowtie) {
		t.Error("bowtie not detected as self-intersecting")
	}
	square := []Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if selfIntersects(square) {
		t.Error("square reported self-intersecting")
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if !pointInPolygon(Vec2{5, 5}, square) {
		t.Error("(5,5) not inside square")
	}
	if pointInPolygon(Vec2{15, 5}, square) {
		t.Error("(15,5) inside square")
	}
	// Concave: L-shape, point in the notch is outside.
	ell := []Vec2{{0, 0}, {10, 0}, {10, 5}, {5, 5}, {5, 10}, {0, 10}}
	if pointInPolygon(Vec2{8, 8}, ell) {
		t.Error("(8,8) inside L-shape notch")
	}
	if !pointInPolygon(Vec2{2, 8}, ell) {
		t.Error("(2,8) not inside L-shape")
	}
}

func TestPointInTriangle(t *testing.T) {
	a, b, c := Vec2{0, 0}, Vec2{10, 0}, Vec2{0, 10}
	if !pointInTriangle(Vec2{2, 2}, a, b, c) {
		t.Error("(2,2) not inside")
	}
	if !pointInTriangle(Vec2{5, 0}, a, b, c) {
		t.Error("edge point (5,0) not inside")
	}
	if !pointInTriangle(Vec2{0, 0}, a, b, c) {
		t.Error("vertex (0,0) not inside")
	}
	if pointInTriangle(Vec2{6, 6}, a, b, c) {
		t.Error("(6,6) inside")
	}
}

func TestClosestPointOnSegment(t *testing.T) {
	a, b := Vec2{0, 0}, Vec2{10, 0}
	if q := closestPointOnSegment(Vec2{5, 3}, a, b); !vecApprox(q, Vec2{5, 0}, tolerance) {
		t.Errorf("projection = %v, want (5,0)", q)
	}
	if q := closestPointOnSegment(Vec2{-4, 3}, a, b); !vecApprox(q, Vec2{0, 0}, tolerance) {
		t.Errorf("clamp low = %v, want (0,0)", q)
	}
	if q := closestPointOnSegment(Vec2{14, -3}, a, b); !vecApprox(q, Vec2{10, 0}, tolerance) {
		t.Errorf("clamp high = %v, want (10,0)", q)
	}
	// Degenerate segment.
	if q := closestPointOnSegment(Vec2{3, 3}, a, a); !vecApprox(q, a, tolerance) {
		t.Errorf("degenerate = %v, want (0,0)", q)
	}
}

func TestClosestPointOnTriangle(t *testing.T) {
	a, b, c := Vec2{0, 0}, Vec2{10, 0}, Vec2{0, 10}
	// Interior point maps to itself.
	if q := closestPointOnTriangle(Vec2{2, 2}, a, b, c); !vecApprox(q, Vec2{2, 2}, tolerance) {
		t.Errorf("interior = %v, want (2,2)", q)
	}
	// Below the bottom edge.
	if q := closestPointOnTriangle(Vec2{4, -5}, a, b, c); !vecApprox(q, Vec2{4, 0}, tolerance) {
		t.Errorf("below = %v, want (4,0)", q)
	}
	// Beyond a vertex.
	if q := closestPointOnTriangle(Vec2{-3, -3}, a, b, c); !vecApprox(q, Vec2{0, 0}, tolerance) {
		t.Errorf("corner = %v, want (0,0)", q)
	}
}

func TestVec2Normalized(t *testing.T) {
	if v := (Vec2{3, 4}).Normalized(); !approxEqual(v.Len(), 1, tolerance) {
		t.Errorf("length = %v, want 1", v.Len())
	}
	if v := (Vec2{}).Normalized(); v != (Vec2{}) {
		t.Errorf("zero vector normalized to %v", v)
	}
}
