package fernmesh

// DefaultFriction is the velocity response rate (per second) given to new
// agents: how quickly velocity converges on its driven target, and how
// quickly it decays to zero when no path is active.
const DefaultFriction = 10.0

// retargetEps is how far a path target must move before the agent re-solves.
// Closer re-targets keep the current path and waypoint cursor, so a goal
// that drifts a little each frame does not restart the follow from scratch.
const retargetEps = 0.25

// arriveEps is the baseline waypoint arrival radius. The effective radius
// each tick is the larger of this and the distance covered that tick, so
// fast agents do not orbit waypoints they overshoot.
const arriveEps = 1e-3

// PathResult is what SetPathTarget reports each call: whether a solved path
// toward the current target exists, the next waypoint on it, and the unit
// direction toward that waypoint. The agent owns its own velocity and
// friction integration — MoveDirection is advice, not kinematics.
type PathResult struct {
	OK            bool
	NextPoint     Vec2
	MoveDirection Vec2
}

// Agent is a per-entity consumer of mesh queries: it follows solved paths by
// driving its own velocity, and optionally snaps onto a mesh after every
// integration step.
//
// Agents only read shared mesh state and mutate their own fields, so any
// number of agents may share one mesh within a frame's query phase.
type Agent struct {
	// Pos is the agent's position. Writable between updates.
	Pos Vec2
	// Vel is the agent's velocity in units per second.
	Vel Vec2
	// Friction is the per-second velocity response rate. While following a
	// path, velocity is driven toward MoveDirection * MoveSpeed at this
	// rate; otherwise it decays toward zero at the same rate.
	Friction float64
	// MoveSpeed is the target speed while following a path. Set by
	// SetPathTarget.
	MoveSpeed float64

	mesh    *Mesh
	hint    int
	genSeen uint64

	path       Path
	cursor     int
	target     Vec2
	haveTarget bool

	pending     Vec2
	havePending bool

	lastSolveFailed bool
}

// NewAgent creates an agent at the given position with DefaultFriction.
func NewAgent(pos Vec2) *Agent {
	return &Agent{Pos: pos, Friction: DefaultFriction, hint: NoHint}
}

// SetNavmeshToLockTo locks the agent to the given mesh: every Update ends by
// snapping Pos onto it through a hinted closest-point query, and path
// targets are solved against it. Passing nil clears the lock and discards
// any solve state. Switching meshes also discards solve state — paths do
// not survive a mesh change.
func (a *Agent) SetNavmeshToLockTo(m *Mesh) {
	if a.mesh == m {
		return
	}
	a.mesh = m
	a.hint = NoHint
	a.clearSolveState()
}

// LockedMesh returns the mesh the agent is locked to, or nil.
func (a *Agent) LockedMesh() *Mesh {
	return a.mesh
}

// SetPathTarget requests or continues a path toward target at the given
// speed, and reports the state of the path solved at the most recent update
// pass. A freshly issued or freshly moved target is queued and solved during
// the next Update, so it reports OK == false this call and OK == true from
// the call after that update (assuming the target is reachable). Issuing a
// new target supersedes the previous one; there is no separate cancellation
// token.
func (a *Agent) SetPathTarget(target Vec2, speed float64) PathResult {
	a.MoveSpeed = speed
	if a.mesh == nil || a.mesh.IsDisposed() {
		return PathResult{}
	}
	// Compare against the most recent request, queued or solved, so the
	// latest caller always wins.
	ref, haveRef := a.target, a.haveTarget
	if a.havePending {
		ref, haveRef = a.pending, true
	}
	if !haveRef || target.DistSq(ref) > retargetEps*retargetEps {
		a.pending = target
		a.havePending = true
	}
	if a.havePending || !a.path.OK {
		return PathResult{}
	}
	res := PathResult{OK: true}
	if a.cursor < len(a.path.Points) {
		res.NextPoint = a.path.Points[a.cursor]
		res.MoveDirection = res.NextPoint.Sub(a.Pos).Normalized()
	} else {
		res.NextPoint = a.path.Points[len(a.path.Points)-1]
	}
	return res
}

// ClearPathTarget discards the current target and any solved path. Velocity
// decays to zero over the following updates.
func (a *Agent) ClearPathTarget() {
	a.clearSolveState()
}

// Target returns the current path target and whether one is active (either
// solved or queued for the next update).
func (a *Agent) Target() (Vec2, bool) {
	if a.havePending {
		return a.pending, true
	}
	return a.target, a.haveTarget
}

// SolveFailed reports whether a solve attempt ran and failed during the most
// recent update (unreachable or off-mesh target). True only until the next
// update.
func (a *Agent) SolveFailed() bool {
	return a.lastSolveFailed
}

// Arrived reports whether the agent has consumed every waypoint of a solved
// path.
func (a *Agent) Arrived() bool {
	return a.path.OK && a.cursor >= len(a.path.Points)
}

// RemainingDistance returns the length of the unconsumed portion of the
// current path, measured from Pos. Zero when no solved path is active.
func (a *Agent) RemainingDistance() float64 {
	return a.path.Remaining(a.Pos, a.cursor)
}

// Update advances the agent by dt seconds: resolve any queued path target,
// follow the current path by driving velocity toward the next waypoint,
// integrate position, and snap back onto the locked mesh. Call once per
// frame, after the scheduler's rebuild flush.
func (a *Agent) Update(dt float64) {
	if a.mesh != nil && a.mesh.IsDisposed() {
		a.mesh = nil
		a.hint = NoHint
		a.clearSolveState()
	}

	a.solvePass()

	driving := false
	if a.path.OK && a.cursor < len(a.path.Points) {
		arrive := arriveEps
		if step := a.MoveSpeed * dt; step > arrive {
			arrive = step
		}
		for a.cursor < len(a.path.Points) && a.Pos.Dist(a.path.Points[a.cursor]) <= arrive {
			a.cursor++
		}
		if a.cursor < len(a.path.Points) {
			dir := a.path.Points[a.cursor].Sub(a.Pos).Normalized()
			desired := dir.Scale(a.MoveSpeed)
			a.Vel = a.Vel.Add(desired.Sub(a.Vel).Scale(clamp01(a.Friction * dt)))
			driving = true
		}
	}
	if !driving {
		a.Vel = a.Vel.Scale(1 - clamp01(a.Friction*dt))
	}

	a.Pos = a.Pos.Add(a.Vel.Scale(dt))

	if a.mesh != nil {
		if q, h, ok := a.mesh.TryFindClosestPoint(a.Pos, a.hint); ok {
			a.Pos = q
			a.hint = h
		}
	}
}

// solvePass resolves the queued target, and re-solves the current one when
// the mesh was re-triangulated underneath it. This is the "next solve pass"
// the SetPathTarget contract refers to.
func (a *Agent) solvePass() {
	a.lastSolveFailed = false
	if a.mesh == nil {
		return
	}

	needSolve := a.havePending
	if !needSolve && a.haveTarget && a.path.OK && a.genSeen != a.mesh.Generation() {
		needSolve = true
	}
	if !needSolve {
		return
	}

	target := a.target
	if a.havePending {
		target = a.pending
	}

	a.path = FindPath(a.mesh, a.Pos, target, a.hint)
	a.genSeen = a.mesh.Generation()
	a.cursor = 0
	a.target = target
	a.haveTarget = a.path.OK
	a.havePending = false
	a.lastSolveFailed = !a.path.OK
}

func (a *Agent) clearSolveState() {
	a.path = Path{}
	a.cursor = 0
	a.haveTarget = false
	a.havePending = false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
