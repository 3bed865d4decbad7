package ecs

import (
	"github.com/phanxgames/repeater"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// NodeEvent is published to NodeEventType for every forwarded emission.
type NodeEvent struct {
	Entity donburi.Entity
	Node   *repeater.Node
	Name   string
	Event  repeater.Event
}

// NodeEventType is the Donburi event type for forwarded node events.
// Subscribe to it in your ECS systems and drain it with ProcessEvents.
var NodeEventType = events.NewEventType[NodeEvent]()

// NodeRef is the component linking a bridged entity to its node.
var NodeRef = donburi.NewComponentType[NodeData]()

// NodeData is the value stored in NodeRef.
type NodeData struct {
	Node *repeater.Node
}

// Bridge is a node component that mirrors its node as a Donburi entity and
// forwards the named node events to NodeEventType. The entity is removed
// when the node is destroyed.
type Bridge struct {
	repeater.BaseComponent
	world  donburi.World
	names  []string
	entity donburi.Entity
}

// NewBridge returns a bridge publishing the given event names into world.
func NewBridge(world donburi.World, names ...string) *Bridge {
	return &Bridge{world: world, names: names}
}

// Entity returns the mirrored entity.
func (b *Bridge) Entity() donburi.Entity {
	return b.entity
}

// Connect implements repeater.Connector.
func (b *Bridge) Connect(n *repeater.Node) {
	b.entity = b.world.Create(NodeRef)
	NodeRef.SetValue(b.world.Entry(b.entity), NodeData{Node: n})
	for _, name := range b.names {
		b.On(name, func(e repeater.Event) {
			NodeEventType.Publish(b.world, NodeEvent{Entity: b.entity, Node: n, Name: name, Event: e})
		})
	}
}

// OnDestroy implements repeater.Destroyer.
func (b *Bridge) OnDestroy() {
	if b.world.Valid(b.entity) {
		b.world.Remove(b.entity)
	}
}

// NodeOf returns the node mirrored by entity, or nil.
func NodeOf(world donburi.World, entity donburi.Entity) *repeater.Node {
	if !world.Valid(entity) {
		return nil
	}
	entry := world.Entry(entity)
	if !entry.HasComponent(NodeRef) {
		return nil
	}
	return NodeRef.Get(entry).Node
}
