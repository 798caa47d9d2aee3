package ecs

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ErrTypeCapacity is returned when a new component type would not fit in a Mask.
var ErrTypeCapacity = errors.New("ecs: component type capacity exceeded")

// TypeRegistry assigns each component type a stable bit on first use.
// Types are never released. Safe for concurrent use so systems may be
// built before any world exists.
type TypeRegistry struct {
	mu       sync.RWMutex
	ids      map[reflect.Type]ComponentID
	types    []reflect.Type
	capacity int
}

// DefaultTypes is the process-wide registry used by worlds and systems
// unless another one is injected.
var DefaultTypes = NewTypeRegistry(MaxComponentTypes)

// NewTypeRegistry returns an empty registry that hands out at most capacity
// bits. capacity is clamped to [1, MaxComponentTypes].
func NewTypeRegistry(capacity int) *TypeRegistry {
	if capacity <= 0 || capacity > MaxComponentTypes {
		capacity = MaxComponentTypes
	}
	return &TypeRegistry{
		ids:      make(map[reflect.Type]ComponentID, 32),
		types:    make([]reflect.Type, 0, 32),
		capacity: capacity,
	}
}

// ID returns the bit for t, allocating the next free one on first sight.
func (r *TypeRegistry) ID(t reflect.Type) (ComponentID, error) {
	if t == nil {
		return 0, ErrNilComponent
	}
	r.mu.RLock()
	id, ok := r.ids[t]
	r.mu.RUnlock()
	if ok {
		return id, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.ids[t]; ok {
		return id, nil
	}
	if len(r.types) >= r.capacity {
		return 0, fmt.Errorf("register %s (%d types in use): %w", t, len(r.types), ErrTypeCapacity)
	}
	id = ComponentID(len(r.types))
	r.ids[t] = id
	r.types = append(r.types, t)
	return id, nil
}

// Lookup returns the bit for t without allocating one.
func (r *TypeRegistry) Lookup(t reflect.Type) (ComponentID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.ids[t]
	return id, ok
}

// Type returns the component type that owns id.
func (r *TypeRegistry) Type(id ComponentID) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(id) >= len(r.types) {
		return nil, false
	}
	return r.types[id], true
}

// Mask returns the union of the bits of types, registering any new ones.
func (r *TypeRegistry) Mask(types ...reflect.Type) (Mask, error) {
	var m Mask
	for _, t := range types {
		id, err := r.ID(t)
		if err != nil {
			return Mask{}, err
		}
		m.Set(id)
	}
	return m, nil
}

// Len returns the number of registered types.
func (r *TypeRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

// TypeFor returns the component type identity of T.
func TypeFor[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// IDOf is shorthand for r.ID(TypeFor[T]()).
func IDOf[T any](r *TypeRegistry) (ComponentID, error) {
	return r.ID(TypeFor[T]())
}
