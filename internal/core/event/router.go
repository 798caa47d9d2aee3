package event

import "reflect"

// Router dispatches events to handlers registered for their dynamic type.
// Systems hold one and call Dispatch from OnEvent. Dispatch is synchronous
// and handlers run in registration order.
type Router struct {
	handlers map[reflect.Type][]func(any)
}

func NewRouter() *Router {
	return &Router{
		handlers: make(map[reflect.Type][]func(any)),
	}
}

// Handle registers fn for events of type T.
func Handle[T any](r *Router, fn func(T)) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	r.handlers[t] = append(r.handlers[t], func(ev any) {
		fn(ev.(T))
	})
}

// Dispatch delivers ev to every handler of its type and reports whether
// any handler ran.
func (r *Router) Dispatch(ev any) bool {
	if ev == nil {
		return false
	}
	hs := r.handlers[reflect.TypeOf(ev)]
	for _, h := range hs {
		h(ev)
	}
	return len(hs) > 0
}

// Handles reports whether any handler is registered for T.
func Handles[T any](r *Router) bool {
	return len(r.handlers[reflect.TypeOf((*T)(nil)).Elem()]) > 0
}
