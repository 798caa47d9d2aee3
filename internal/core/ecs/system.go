package ecs

import (
	"reflect"
	"time"
)

// System processes the entities whose components cover its required mask.
// Concrete systems embed Base, which supplies no-op hooks and the
// membership bookkeeping, and override what they need.
type System interface {
	// Core exposes the embedded Base to the world.
	Core() *Base

	// Update runs once per frame while the system is enabled.
	Update(dt time.Duration)

	// OnActivation fires once when the system is added to a world.
	OnActivation()
	// OnInactivation fires once when the system leaves a world.
	OnInactivation()
	OnEntityAdded(e Entity)
	OnEntityRemoved(e Entity)
	// OnClear fires before the world empties every membership list.
	OnClear()
	// OnEvent receives every event sent through the world.
	OnEvent(ev Event)
}

// Base holds the state every system shares.
//
// Removed members leave a zero Entity hole in members until holes outgrow
// the live entries or the list is read.
type Base struct {
	required Mask
	types    *TypeRegistry
	members  []Entity
	index    map[Entity]int
	holes    int
	disabled bool
	world    *World
}

// NewBase returns a Base requiring the given mask. A zero mask opts the
// system out of automatic registration. The mask is not tied to a
// registry, so the caller must build it from the world's one.
func NewBase(required Mask) Base {
	return Base{required: required}
}

// Requires builds a Base from component types using the registry r. The
// system can only be added to worlds using r.
func Requires(r *TypeRegistry, types ...reflect.Type) (Base, error) {
	m, err := r.Mask(types...)
	if err != nil {
		return Base{}, err
	}
	return Base{required: m, types: r}, nil
}

func (b *Base) Core() *Base { return b }

// Mask returns the required component mask.
func (b *Base) Mask() Mask { return b.required }

// World returns the world the system is attached to, or nil.
func (b *Base) World() *World { return b.world }

func (b *Base) Enabled() bool { return !b.disabled }

// SetEnabled toggles Update calls. Membership is kept while disabled.
func (b *Base) SetEnabled(v bool) { b.disabled = !v }

// Entities returns the members in insertion order. The slice must not be
// modified and is only valid until the next reconciliation.
func (b *Base) Entities() []Entity {
	b.compact()
	return b.members
}

func (b *Base) Len() int { return len(b.members) - b.holes }

// IsPresent reports whether e is a member.
func (b *Base) IsPresent(e Entity) bool {
	_, ok := b.index[e]
	return ok
}

// matches reports whether an entity with mask m should be a member.
func (b *Base) matches(m Mask) bool {
	return !b.required.IsZero() && m.Contains(b.required)
}

func (b *Base) add(e Entity) bool {
	if b.IsPresent(e) {
		return false
	}
	if b.index == nil {
		b.index = make(map[Entity]int, 64)
	}
	b.index[e] = len(b.members)
	b.members = append(b.members, e)
	return true
}

func (b *Base) remove(e Entity) bool {
	i, ok := b.index[e]
	if !ok {
		return false
	}
	delete(b.index, e)
	b.members[i] = Entity{}
	b.holes++
	if b.holes*2 > len(b.members) {
		b.compact()
	}
	return true
}

func (b *Base) compact() {
	if b.holes == 0 {
		return
	}
	n := 0
	for _, e := range b.members {
		if e.IsZero() {
			continue
		}
		b.members[n] = e
		b.index[e] = n
		n++
	}
	clear(b.members[n:])
	b.members = b.members[:n]
	b.holes = 0
}

func (b *Base) reset() {
	b.members = nil
	b.index = nil
	b.holes = 0
}

func (b *Base) Update(time.Duration)   {}
func (b *Base) OnActivation()          {}
func (b *Base) OnInactivation()        {}
func (b *Base) OnEntityAdded(Entity)   {}
func (b *Base) OnEntityRemoved(Entity) {}
func (b *Base) OnClear()               {}
func (b *Base) OnEvent(Event)          {}

// AddEntity appends e to s and fires OnEntityAdded. It is a no-op when e is
// already a member.
func AddEntity(s System, e Entity) bool {
	if !s.Core().add(e) {
		return false
	}
	s.OnEntityAdded(e)
	return true
}

// RemoveEntity drops e from s and fires OnEntityRemoved if it was a member.
func RemoveEntity(s System, e Entity) bool {
	if !s.Core().remove(e) {
		return false
	}
	s.OnEntityRemoved(e)
	return true
}
