package fernmesh

import (
	"fmt"
	"os"
	"time"
)

// flushStats holds per-flush rebuild metrics.
// Only reported when Scheduler.Debug is true.
type flushStats struct {
	pending  int
	rebuilt  int
	failed   int
	duration time.Duration
}

// debugLogFlush prints flush stats to stderr.
func debugLogFlush(stats flushStats) {
	_, _ = fmt.Fprintf(os.Stderr,
		"[fernmesh] flush: pending %d | rebuilt %d | failed %d | took %v\n",
		stats.pending, stats.rebuilt, stats.failed, stats.duration)
}

// debugCheckMesh reports structural oddities in a built mesh: clockwise
// triangles, or neighbor links that are not mutual. Used by tests and debug
// tooling, never by the build path itself.
func debugCheckMesh(m *Mesh) []string {
	var problems []string
	for ti := range m.Tris {
		t := &m.Tris[ti]
		if area2(m.Verts[t.V[0]], m.Verts[t.V[1]], m.Verts[t.V[2]]) < 0 {
			problems = append(problems, fmt.Sprintf("triangle %d winds clockwise", ti))
		}
		for e := 0; e < 3; e++ {
			n := t.N[e]
			if n == noNeighbor {
				continue
			}
			if n < 0 || int(n) >= len(m.Tris) {
				problems = append(problems, fmt.Sprintf("triangle %d edge %d: neighbor %d out of range", ti, e, n))
				continue
			}
			mutual := false
			for ne := 0; ne < 3; ne++ {
				if m.Tris[n].N[ne] == int32(ti) {
					mutual = true
					break
				}
			}
			if !mutual {
				problems = append(problems, fmt.Sprintf("triangle %d edge %d: neighbor %d does not link back", ti, e, n))
			}
		}
	}
	for _, p := range problems {
		_, _ = fmt.Fprintf(os.Stderr, "[fernmesh] warning: %s\n", p)
	}
	return problems
}
