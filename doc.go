// Package fernmesh provides triangulated walkable-area navigation for 2D
// games built on [Ebitengine].
//
// Fernmesh turns closed polygon boundary loops (including holes) into a
// triangle mesh with full edge adjacency, and answers the two queries a
// movement layer needs every tick: "where is the nearest walkable point?"
// and "what is the shortest path from here to there?".
//
// # Quick start
//
// Build a mesh from loops, then query it:
//
//	mesh := fernmesh.NewMesh()
//	mesh.AddLoop([]fernmesh.Vec2{{0, 0}, {100, 0}, {100, 100}, {0, 100}}, false)
//	mesh.AddLoop([]fernmesh.Vec2{{40, 40}, {60, 40}, {60, 60}, {40, 60}}, true)
//	if !mesh.RebuildImmediately() {
//		log.Fatal(mesh.BuildError())
//	}
//
//	path := fernmesh.FindPath(mesh, fernmesh.Vec2{X: 5, Y: 5}, fernmesh.Vec2{X: 95, Y: 95}, fernmesh.NoHint)
//
// # Frame contract
//
// Fernmesh is single-threaded around one barrier per frame: drain the rebuild
// [Scheduler] first, then run agent updates and queries. Queries never mutate
// mesh state, so after the flush any number of agents may read one mesh.
// A [Mesh.MarkForRebuild] issued during a flush lands in the next frame's
// flush, never the current one.
//
//	func (g *Game) Update() error {
//		g.sched.Flush()
//		for _, a := range g.agents {
//			a.Update(1.0 / float64(ebiten.TPS()))
//		}
//		return nil
//	}
//
// # Agents
//
// An [Agent] follows paths and optionally snaps to a mesh each tick:
//
//	agent := fernmesh.NewAgent(fernmesh.Vec2{X: 5, Y: 5})
//	agent.SetNavmeshToLockTo(mesh)
//	res := agent.SetPathTarget(fernmesh.Vec2{X: 95, Y: 95}, 40)
//
// A freshly issued target is resolved at the next update pass, so the first
// SetPathTarget for a new target reports OK == false; the call on the
// following frame reports the solved path.
//
// # Hints
//
// Closest-point and path queries accept a triangle hint: the triangle index
// returned by a previous query at a nearby position. Hints are opportunistic
// cache keys, revalidated before use — a hint left stale by a rebuild falls
// back to a full search, never a crash.
//
// # Key features
//
// Fernmesh includes constrained ear-clipping triangulation with hole support,
// hierarchical mesh composition from child meshes, A* corridor search with
// funnel string-pulling, spatially-coherent query hints, a frame-scoped
// rebuild scheduler, debug rendering into [ebiten.Vertex] buffers, and ECS
// integration (via [Donburi] adapter in fernmesh/ecs).
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package fernmesh
