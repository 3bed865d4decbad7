// Package ecs bridges repeater nodes into a [Donburi] world.
//
// Attach a [Bridge] to a node to mirror it as an entity carrying [NodeRef]
// and to forward selected node events to [NodeEventType]:
//
//	world := donburi.NewWorld()
//	node.AddComponent(ecs.NewBridge(world, repeater.EventClick, repeater.EventCollisionStart))
//
//	ecs.NodeEventType.Subscribe(world, func(w donburi.World, e ecs.NodeEvent) { ... })
//	ecs.NodeEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
