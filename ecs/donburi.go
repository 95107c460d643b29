package ecs

import (
	"github.com/phanxgames/fernmesh"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// AgentData is the component payload attaching a fernmesh agent to an
// entity. The agent is owned elsewhere; the component only references it.
type AgentData struct {
	Agent *fernmesh.Agent
}

// AgentComponent is the Donburi component type for movement agents.
var AgentComponent = donburi.NewComponentType[AgentData]()

// PathEvent is the Donburi event published by UpdateMovement when an agent's
// path reaches an outcome: Arrived true when the final waypoint was
// consumed, false when a solve attempt failed.
type PathEvent struct {
	Entity  donburi.Entity
	Target  fernmesh.Vec2
	Arrived bool
}

// PathEventType is the Donburi event type for path outcomes. Subscribe to
// this in your ECS systems; events are queued and delivered by
// events.ProcessAllEvents.
var PathEventType = events.NewEventType[PathEvent]()

// NewAgentEntity creates an entity carrying the given agent.
func NewAgentEntity(world donburi.World, agent *fernmesh.Agent) donburi.Entity {
	entity := world.Create(AgentComponent)
	AgentComponent.SetValue(world.Entry(entity), AgentData{Agent: agent})
	return entity
}

var movementQuery = donburi.NewQuery(filter.Contains(AgentComponent))

// UpdateMovement runs one movement frame: the scheduler's rebuild flush
// first — the barrier that keeps triangle data stable for everything after
// it — then an update for every agent entity. Path arrivals and failed
// solves are published to PathEventType.
func UpdateMovement(world donburi.World, sched *fernmesh.Scheduler, dt float64) {
	if sched != nil {
		sched.Flush()
	}

	movementQuery.Each(world, func(entry *donburi.Entry) {
		data := AgentComponent.Get(entry)
		if data.Agent == nil {
			return
		}
		a := data.Agent
		wasArrived := a.Arrived()
		a.Update(dt)

		if target, ok := a.Target(); ok && !wasArrived && a.Arrived() {
			PathEventType.Publish(world, PathEvent{
				Entity:  entry.Entity(),
				Target:  target,
				Arrived: true,
			})
		}
		if a.SolveFailed() {
			target, _ := a.Target()
			PathEventType.Publish(world, PathEvent{
				Entity: entry.Entity(),
				Target: target,
			})
		}
	})
}
