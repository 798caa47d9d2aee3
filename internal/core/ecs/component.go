package ecs

import (
	"errors"
	"sort"
)

// ErrNilComponent is returned when a nil component or type is supplied.
var ErrNilComponent = errors.New("ecs: nil component")

// Component is any plain data record. Its dynamic type is its identity:
// *Position and Position are two different component types.
type Component = any

// componentSet is one entity's sparse bit -> instance map.
type componentSet map[ComponentID]Component

// mask recomputes the membership bitmask from what is attached.
func (s componentSet) mask() Mask {
	var m Mask
	for id := range s {
		m.Set(id)
	}
	return m
}

// sorted returns the attached components in bit order.
func (s componentSet) sorted() []Component {
	ids := make([]ComponentID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]Component, len(ids))
	for i, id := range ids {
		out[i] = s[id]
	}
	return out
}

// componentStore is the world-owned table of every entity's components.
type componentStore struct {
	data map[EntityID]componentSet
}

func newComponentStore() *componentStore {
	return &componentStore{
		data: make(map[EntityID]componentSet, 256),
	}
}

func (s *componentStore) Set(id EntityID, cid ComponentID, c Component) {
	set, ok := s.data[id]
	if !ok {
		set = make(componentSet, 4)
		s.data[id] = set
	}
	set[cid] = c
}

func (s *componentStore) Get(id EntityID, cid ComponentID) (Component, bool) {
	c, ok := s.data[id][cid]
	return c, ok
}

func (s *componentStore) Has(id EntityID, cid ComponentID) bool {
	_, ok := s.data[id][cid]
	return ok
}

// Strip detaches the listed types from one entity.
func (s *componentStore) Strip(id EntityID, cids []ComponentID) {
	set, ok := s.data[id]
	if !ok {
		return
	}
	for _, cid := range cids {
		delete(set, cid)
	}
}

// Remove drops every component of an entity.
func (s *componentStore) Remove(id EntityID) {
	delete(s.data, id)
}

// Mask returns the current membership bitmask of an entity.
func (s *componentStore) Mask(id EntityID) Mask {
	return s.data[id].mask()
}

func (s *componentStore) All(id EntityID) []Component {
	return s.data[id].sorted()
}

// Len returns the total number of attached components.
func (s *componentStore) Len() int {
	n := 0
	for _, set := range s.data {
		n += len(set)
	}
	return n
}

func (s *componentStore) Reset() {
	s.data = make(map[EntityID]componentSet, 256)
}
