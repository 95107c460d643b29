package fernmesh

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestDebugCheckMeshClean(t *testing.T) {
	m := buildSquareWithHole(t)
	if problems := debugCheckMesh(m); len(problems) != 0 {
		t.Errorf("well-formed mesh reported problems: %v", problems)
	}
}

func TestDebugCheckMeshBadWinding(t *testing.T) {
	m := NewMesh()
	m.Verts = []Vec2{{0, 0}, {0, 10}, {10, 0}}
	m.Tris = []Triangle{{V: [3]int32{0, 1, 2}, N: [3]int32{-1, -1, -1}}}

	// Silence the warning lines while collecting them.
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	problems := debugCheckMesh(m)
	w.Close()
	os.Stderr = oldStderr
	var buf bytes.Buffer
	buf.ReadFrom(r)

	if len(problems) != 1 || !strings.Contains(problems[0], "clockwise") {
		t.Errorf("problems = %v, want one clockwise warning", problems)
	}
	if !strings.Contains(buf.String(), "warning") {
		t.Errorf("no warning on stderr, got %q", buf.String())
	}
}

func TestDebugCheckMeshNonMutualNeighbor(t *testing.T) {
	m := NewMesh()
	m.Verts = []Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	m.Tris = []Triangle{
		{V: [3]int32{0, 1, 2}, N: [3]int32{-1, 1, -1}},
		{V: [3]int32{0, 2, 3}, N: [3]int32{-1, -1, -1}}, // missing backlink
	}

	oldStderr := os.Stderr
	_, w, _ := os.Pipe()
	os.Stderr = w
	problems := debugCheckMesh(m)
	w.Close()
	os.Stderr = oldStderr

	if len(problems) != 1 || !strings.Contains(problems[0], "link back") {
		t.Errorf("problems = %v, want one backlink warning", problems)
	}
}

func TestSchedulerDebugLogsFlush(t *testing.T) {
	m := NewMesh()
	m.AddLoop(squareLoop(0, 0, 10), false)

	s := NewScheduler()
	s.Debug = true
	m.MarkForRebuild(s)

	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	s.Flush()
	w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	buf.ReadFrom(r)
	out := buf.String()
	if !strings.Contains(out, "flush") || !strings.Contains(out, "rebuilt 1") {
		t.Errorf("flush stats line missing, got %q", out)
	}
}
