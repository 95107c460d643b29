package fernmesh

import "time"

// Scheduler is the frame-scoped set of meshes pending a rebuild. Whatever
// owns the frame loop creates one, passes it by reference to anything that
// marks meshes, and calls Flush exactly once per frame — strictly before any
// agent update or path query is serviced. There is no ambient global
// scheduler.
//
// The pending set is deduplicated: marking a mesh twice in one frame rebuilds
// it once. Flush order is insertion order, which makes parent/child ordering
// the marker's obligation — mark children before their composing parent, or
// the parent registers the children's previous triangles.
type Scheduler struct {
	// Debug enables a per-flush stats line on stderr.
	Debug bool

	pending []*Mesh
	queued  map[*Mesh]struct{}
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{queued: make(map[*Mesh]struct{})}
}

// Add enqueues a mesh for the next Flush, deduplicated. An Add issued while
// a Flush is running lands in the following frame's set, never the one being
// drained.
func (s *Scheduler) Add(m *Mesh) {
	if _, ok := s.queued[m]; ok {
		return
	}
	s.queued[m] = struct{}{}
	s.pending = append(s.pending, m)
}

// Len returns the number of meshes currently pending.
func (s *Scheduler) Len() int {
	return len(s.pending)
}

// Flush is the once-per-frame rebuild barrier: every pending mesh is rebuilt
// and the set is cleared. A rebuild failure is isolated — the failing mesh
// keeps its previous triangulation (and reports via Mesh.BuildError) while
// the rest of the flush proceeds. Disposed meshes are skipped. Returns the
// number of successful rebuilds.
func (s *Scheduler) Flush() int {
	if len(s.pending) == 0 {
		return 0
	}

	// Swap the set out first so marks issued by rebuild side effects apply
	// at the next frame's barrier.
	batch := s.pending
	s.pending = nil
	s.queued = make(map[*Mesh]struct{})

	start := time.Now()
	rebuilt := 0
	failed := 0
	for _, m := range batch {
		if m.IsDisposed() {
			continue
		}
		if m.RebuildImmediately() {
			rebuilt++
		} else {
			failed++
		}
	}

	if s.Debug {
		debugLogFlush(flushStats{
			pending:  len(batch),
			rebuilt:  rebuilt,
			failed:   failed,
			duration: time.Since(start),
		})
	}
	return rebuilt
}
