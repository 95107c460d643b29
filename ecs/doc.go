// Package ecs provides ECS adapters for fernmesh's movement agents.
//
// The primary adapter is [AgentComponent] plus [UpdateMovement], which runs
// the per-frame movement pass over a [Donburi] world: the rebuild scheduler
// is flushed first (the frame's rebuild barrier), then every agent entity is
// stepped. Path outcomes — arrival at the final waypoint, or a failed solve —
// are published to [PathEventType] as typed Donburi events.
//
// Usage:
//
//	entity := ecs.NewAgentEntity(world, agent)
//	ecs.PathEventType.Subscribe(world, onPathEvent)
//
//	// each frame:
//	ecs.UpdateMovement(world, sched, dt)
//	events.ProcessAllEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
