// Package ecs provides ECS adapters for grove's scene lifecycle events.
//
// The primary adapter is [NewDonburiStore], which bridges grove scene events
// (component initialised, component replaced, node cloned, node destroyed)
// into a [Donburi] world as typed events, and mirrors each live node as an
// entity carrying [NodeData]. Subscribe to [SceneEventType] in your ECS
// systems to receive the events.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
