package event

import "testing"

type dead struct{ ID int }
type spawned struct{ ID int }

func TestRouterDispatchByType(t *testing.T) {
	r := NewRouter()
	var deaths, spawns []int
	Handle(r, func(ev dead) { deaths = append(deaths, ev.ID) })
	Handle(r, func(ev spawned) { spawns = append(spawns, ev.ID) })

	if !r.Dispatch(dead{ID: 1}) {
		t.Fatal("dead should have a handler")
	}
	r.Dispatch(spawned{ID: 2})
	r.Dispatch(dead{ID: 3})

	if len(deaths) != 2 || deaths[0] != 1 || deaths[1] != 3 {
		t.Fatalf("deaths = %v", deaths)
	}
	if len(spawns) != 1 || spawns[0] != 2 {
		t.Fatalf("spawns = %v", spawns)
	}
}

func TestRouterHandlerOrder(t *testing.T) {
	r := NewRouter()
	var order []string
	Handle(r, func(dead) { order = append(order, "first") })
	Handle(r, func(dead) { order = append(order, "second") })
	r.Dispatch(dead{})
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("order = %v", order)
	}
}

func TestRouterUnhandled(t *testing.T) {
	r := NewRouter()
	Handle(r, func(dead) {})
	if r.Dispatch(spawned{}) {
		t.Fatal("spawned has no handler")
	}
	if r.Dispatch(nil) {
		t.Fatal("nil event dispatched")
	}
	// Pointer and value are distinct event types.
	if r.Dispatch(&dead{}) {
		t.Fatal("*dead should not reach a dead handler")
	}
	if !Handles[dead](r) || Handles[spawned](r) {
		t.Fatal("Handles reported wrong registrations")
	}
}
