package ecs

import (
	"errors"
	"reflect"
	"strconv"
	"sync/atomic"
)

// ErrDetached is returned for a zero Entity that belongs to no world.
var ErrDetached = errors.New("ecs: entity has no world")

// EntityID is a world-unique entity identifier. IDs are never reused.
type EntityID uint64

func (id EntityID) String() string { return strconv.FormatUint(uint64(id), 10) }

// IDSource hands out entity ids.
type IDSource interface {
	Next() EntityID
}

// Sequence is a monotonic IDSource.
type Sequence struct {
	next atomic.Uint64
}

// NewSequence returns a Sequence whose first id is start.
func NewSequence(start EntityID) *Sequence {
	s := &Sequence{}
	s.next.Store(uint64(start))
	return s
}

func (s *Sequence) Next() EntityID {
	return EntityID(s.next.Add(1) - 1)
}

// DefaultIDs is the process-wide entity id sequence, starting at zero.
var DefaultIDs IDSource = NewSequence(0)

// Entity is a handle to an id inside a world. Two entities are equal when
// their ids and worlds are equal, so Entity can be used as a map key.
type Entity struct {
	id    EntityID
	world *World
}

func (e Entity) ID() EntityID   { return e.id }
func (e Entity) World() *World  { return e.world }
func (e Entity) IsZero() bool   { return e.world == nil }
func (e Entity) String() string { return "entity#" + e.id.String() }

// AddComponent requests c to be attached. The component is readable through
// GetComponent right away; system membership follows on the next Update.
func (e Entity) AddComponent(c Component) error {
	if e.world == nil {
		return ErrDetached
	}
	if c == nil {
		return ErrNilComponent
	}
	return e.world.SendEvent(ComponentEvent{Entity: e, Kind: ComponentAdded, Component: c})
}

// RemoveComponent requests the type of c to be detached on the next Update.
// Only the dynamic type of c matters.
func (e Entity) RemoveComponent(c Component) error {
	if e.world == nil {
		return ErrDetached
	}
	if c == nil {
		return ErrNilComponent
	}
	return e.world.SendEvent(ComponentEvent{Entity: e, Kind: ComponentRemoved, Component: c})
}

// GetComponent returns the attached component of type t.
func (e Entity) GetComponent(t reflect.Type) (Component, bool) {
	if e.world == nil {
		return nil, false
	}
	return e.world.GetComponent(e, t)
}

// GetComponents returns every attached component in bit order.
func (e Entity) GetComponents() []Component {
	if e.world == nil {
		return nil
	}
	return e.world.GetComponents(e)
}

// SetName tags the entity with name in its world.
func (e Entity) SetName(name string) error {
	if e.world == nil {
		return ErrDetached
	}
	return e.world.SetEntityName(name, e)
}

// Destroy is shorthand for e.World().DestroyEntity(e).
func (e Entity) Destroy() error {
	if e.world == nil {
		return ErrDetached
	}
	return e.world.DestroyEntity(e)
}

// Get returns e's component of type T.
func Get[T any](e Entity) (T, bool) {
	var zero T
	c, ok := e.GetComponent(TypeFor[T]())
	if !ok {
		return zero, false
	}
	v, ok := c.(T)
	return v, ok
}

// Has reports whether e currently has a component of type T.
func Has[T any](e Entity) bool {
	_, ok := e.GetComponent(TypeFor[T]())
	return ok
}

// Remove requests the component of type T to be detached from e.
func Remove[T any](e Entity) error {
	if e.world == nil {
		return ErrDetached
	}
	return e.world.SendEvent(ComponentEvent{Entity: e, Kind: ComponentRemoved, Type: TypeFor[T]()})
}
