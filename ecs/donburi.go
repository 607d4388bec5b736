package ecs

import (
	"slices"

	"github.com/phanxgames/grove"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SceneEventType is the Donburi event type for grove lifecycle events.
// Subscribe to this in your ECS systems to observe initialisation,
// component replacement, cloning and destruction.
var SceneEventType = events.NewEventType[grove.SceneEvent]()

// NodeData mirrors a live scene node inside the Donburi world.
type NodeData struct {
	ID    grove.NodeID
	Name  string
	Kinds []string // kinds of initialised components, in init order
}

// NodeComponent is the Donburi component carrying NodeData.
var NodeComponent = donburi.NewComponentType[NodeData]()

// DonburiStore is an EntityStore backed by a Donburi world. Besides
// publishing every event to SceneEventType it keeps one entity per node that
// has been initialised or cloned, and removes it when the node is destroyed.
type DonburiStore struct {
	world    donburi.World
	entities map[grove.NodeID]donburi.Entity
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Events are published to SceneEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) *DonburiStore {
	return &DonburiStore{world: world, entities: make(map[grove.NodeID]donburi.Entity)}
}

// Entity returns the entity mirroring the node, if any.
func (s *DonburiStore) Entity(id grove.NodeID) (donburi.Entity, bool) {
	e, ok := s.entities[id]
	return e, ok && s.world.Valid(e)
}

func (s *DonburiStore) EmitEvent(event grove.SceneEvent) {
	switch event.Type {
	case grove.EventComponentInitialized:
		entry := s.ensure(event)
		nd := NodeComponent.Get(entry)
		nd.Kinds = append(nd.Kinds, event.Kind)
	case grove.EventComponentReplaced, grove.EventNodeCloned:
		s.ensure(event)
	case grove.EventNodeDestroyed:
		if e, ok := s.Entity(event.Node); ok {
			s.world.Remove(e)
		}
		delete(s.entities, event.Node)
	}
	SceneEventType.Publish(s.world, event)
}

func (s *DonburiStore) ensure(event grove.SceneEvent) *donburi.Entry {
	if e, ok := s.Entity(event.Node); ok {
		return s.world.Entry(e)
	}
	e := s.world.Create(NodeComponent)
	entry := s.world.Entry(e)
	NodeComponent.SetValue(entry, NodeData{ID: event.Node, Name: event.NodeName})
	s.entities[event.Node] = e
	return entry
}

// HasKind reports whether the mirrored node has initialised a component of
// the given kind.
func (d NodeData) HasKind(kind string) bool {
	return slices.Contains(d.Kinds, kind)
}
