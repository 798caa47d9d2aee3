package ecs

// Each calls fn for every member of s that carries a component of type A.
// Members are read from a copy, so fn may request structural changes.
func Each[A any](s System, fn func(Entity, A)) {
	for _, e := range snapshot(s) {
		a, ok := Get[A](e)
		if !ok {
			continue
		}
		fn(e, a)
	}
}

// Each2 calls fn for every member of s that carries both A and B.
func Each2[A, B any](s System, fn func(Entity, A, B)) {
	for _, e := range snapshot(s) {
		a, ok := Get[A](e)
		if !ok {
			continue
		}
		b, ok := Get[B](e)
		if !ok {
			continue
		}
		fn(e, a, b)
	}
}

// Each3 calls fn for every member of s that carries A, B and C.
func Each3[A, B, C any](s System, fn func(Entity, A, B, C)) {
	for _, e := range snapshot(s) {
		a, ok := Get[A](e)
		if !ok {
			continue
		}
		b, ok := Get[B](e)
		if !ok {
			continue
		}
		c, ok := Get[C](e)
		if !ok {
			continue
		}
		fn(e, a, b, c)
	}
}

func snapshot(s System) []Entity {
	members := s.Core().Entities()
	out := make([]Entity, len(members))
	copy(out, members)
	return out
}
