package ecs

import (
	"fmt"
	"math/bits"
)

// maskWords is the number of 64-bit words in a Mask.
const maskWords = 4

// MaxComponentTypes is the number of distinct component types a Mask can represent.
const MaxComponentTypes = maskWords * 64

// ComponentID is the bit index assigned to a component type.
type ComponentID uint16

// Mask is a fixed-width bitset of component types. The zero value is empty.
type Mask [maskWords]uint64

// MaskOf returns a mask with the given bits set.
func MaskOf(ids ...ComponentID) Mask {
	var m Mask
	for _, id := range ids {
		m.Set(id)
	}
	return m
}

// Set turns on bit id. Ids at or above MaxComponentTypes are ignored;
// a TypeRegistry never hands them out.
func (m *Mask) Set(id ComponentID) {
	if id >= MaxComponentTypes {
		return
	}
	m[id/64] |= 1 << (id % 64)
}

func (m *Mask) Clear(id ComponentID) {
	if id >= MaxComponentTypes {
		return
	}
	m[id/64] &^= 1 << (id % 64)
}

func (m Mask) Has(id ComponentID) bool {
	if id >= MaxComponentTypes {
		return false
	}
	return m[id/64]&(1<<(id%64)) != 0
}

// Contains reports whether every bit of required is also set in m,
// i.e. (m & required) == required.
func (m Mask) Contains(required Mask) bool {
	for i := range m {
		if m[i]&required[i] != required[i] {
			return false
		}
	}
	return true
}

func (m Mask) IsZero() bool {
	return m == Mask{}
}

func (m Mask) Or(other Mask) Mask {
	for i := range m {
		m[i] |= other[i]
	}
	return m
}

func (m Mask) Count() int {
	n := 0
	for _, w := range m {
		n += bits.OnesCount64(w)
	}
	return n
}

// Each calls fn for every set bit in ascending order.
func (m Mask) Each(fn func(ComponentID)) {
	for i, w := range m {
		for w != 0 {
			pos := bits.TrailingZeros64(w)
			fn(ComponentID(i*64 + pos))
			w &^= 1 << pos
		}
	}
}

// String renders the mask as hex, most significant word first.
func (m Mask) String() string {
	return fmt.Sprintf("%016x%016x%016x%016x", m[3], m[2], m[1], m[0])
}
