package ecs

import "reflect"

// Event is anything sent through World.SendEvent. Every event reaches every
// system's OnEvent; ComponentEvent additionally feeds reconciliation.
type Event = any

// EventKind tells which structural change a ComponentEvent requests.
type EventKind uint8

const (
	ComponentAdded EventKind = iota
	ComponentRemoved
)

func (k EventKind) String() string {
	switch k {
	case ComponentAdded:
		return "added"
	case ComponentRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// ComponentEvent is a structural change request for one entity.
// For removals either Component or Type identifies the component type.
type ComponentEvent struct {
	Entity    Entity
	Kind      EventKind
	Component Component
	Type      reflect.Type
}

// ComponentType returns the type the event targets.
func (ev ComponentEvent) ComponentType() reflect.Type {
	if ev.Type != nil {
		return ev.Type
	}
	if ev.Component == nil {
		return nil
	}
	return reflect.TypeOf(ev.Component)
}
