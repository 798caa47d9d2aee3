package ecs

import (
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrForeignEntity is returned when an entity of another world is passed in.
	ErrForeignEntity = errors.New("ecs: entity belongs to another world")
	// ErrUnknownEntity is returned for an entity that is not alive in the world.
	ErrUnknownEntity = errors.New("ecs: unknown entity")
	// ErrForeignSystem is returned when a system is already attached elsewhere.
	ErrForeignSystem = errors.New("ecs: system attached to another world")
	// ErrReentrantUpdate is returned when Update is called from inside Update.
	ErrReentrantUpdate = errors.New("ecs: update already running")
	// ErrTypeMismatch is returned for a ComponentEvent whose Type disagrees
	// with the dynamic type of its Component.
	ErrTypeMismatch = errors.New("ecs: component does not match event type")
	// ErrForeignTypes is returned when a system's mask was built from another
	// TypeRegistry than the world's.
	ErrForeignTypes = errors.New("ecs: system uses another type registry")
)

var createHook atomic.Pointer[func(Entity)]

// SetCreateHook installs a process-wide callback run synchronously with
// every new entity. Pass nil to remove it. A world built with
// WithCreateHook uses its own callback instead.
func SetCreateHook(fn func(Entity)) {
	if fn == nil {
		createHook.Store(nil)
		return
	}
	createHook.Store(&fn)
}

// removal is the per-entity pending removal record. full means the entity
// is being destroyed and every component goes.
type removal struct {
	id    EntityID
	full  bool
	types []ComponentID
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the world logger.
func WithLogger(log *zap.Logger) Option {
	return func(w *World) { w.log = log }
}

// WithTypes sets the component type registry. Systems added to the world
// must build their masks from the same registry.
func WithTypes(r *TypeRegistry) Option {
	return func(w *World) { w.types = r }
}

// WithIDSource sets the entity id source.
func WithIDSource(ids IDSource) Option {
	return func(w *World) { w.ids = ids }
}

// WithCreateHook sets a per-world entity creation callback.
func WithCreateHook(fn func(Entity)) Option {
	return func(w *World) { w.onCreate = fn }
}

// World owns entities, their components and the registered systems.
//
// Structural changes are requested through SendEvent and reconciled by
// Update in four phases: apply queued events, register newly matching
// entities, evict entities that no longer match (or are destroyed), then
// run enabled systems in registration order. Anything requested while
// Update runs takes effect on the next Update.
//
// An added component is written to storage as soon as it is sent, while a
// removal stays visible until the next Update. This asymmetry is part of
// the contract.
//
// World is not safe for concurrent use.
type World struct {
	id       uuid.UUID
	log      *zap.Logger
	types    *TypeRegistry
	ids      IDSource
	onCreate func(Entity)

	entities []Entity
	alive    map[EntityID]int
	store    *componentStore
	systems  []System
	names    map[string]Entity

	events   []ComponentEvent
	removals []removal
	fresh    []System // added since the last reconciliation
	updating bool
}

// NewWorld returns an empty world using DefaultTypes and DefaultIDs unless
// overridden by opts.
func NewWorld(opts ...Option) *World {
	w := &World{
		id:       uuid.New(),
		log:      zap.NewNop(),
		types:    DefaultTypes,
		ids:      DefaultIDs,
		entities: make([]Entity, 0, 256),
		alive:    make(map[EntityID]int, 256),
		store:    newComponentStore(),
		systems:  make([]System, 0, 16),
		names:    make(map[string]Entity),
		events:   make([]ComponentEvent, 0, 64),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.With(zap.Stringer("world", w.id))
	return w
}

func (w *World) ID() uuid.UUID        { return w.id }
func (w *World) Types() *TypeRegistry { return w.types }
func (w *World) Logger() *zap.Logger  { return w.log }
func (w *World) Entities() []Entity   { return w.entities }
func (w *World) Systems() []System    { return w.systems }
func (w *World) PendingEvents() int   { return len(w.events) }
func (w *World) ComponentCount() int  { return w.store.Len() }
func (w *World) Alive(e Entity) bool  { return w.owns(e) == nil }
func (w *World) Updating() bool       { return w.updating }

// CreateEntity allocates a new entity. It does not touch reconciliation.
func (w *World) CreateEntity() Entity {
	e := Entity{id: w.ids.Next(), world: w}
	w.alive[e.id] = len(w.entities)
	w.entities = append(w.entities, e)

	if w.onCreate != nil {
		w.onCreate(e)
	} else if fn := createHook.Load(); fn != nil {
		(*fn)(e)
	}
	return e
}

// DestroyEntity schedules e for removal from every system and from storage
// on the next Update, and drops any name tag pointing at it.
func (w *World) DestroyEntity(e Entity) error {
	if err := w.owns(e); err != nil {
		w.log.Warn("destroy rejected", zap.Stringer("entity", e), zap.Error(err))
		return err
	}
	for name, named := range w.names {
		if named == e {
			delete(w.names, name)
		}
	}
	w.queueRemoval(removal{id: e.id, full: true})
	return nil
}

// AddSystem attaches s and fires OnActivation. The system receives members
// from the next Update on. Adding the same system twice is a no-op.
func (w *World) AddSystem(s System) error {
	base := s.Core()
	switch base.world {
	case w:
		return nil
	case nil:
	default:
		return ErrForeignSystem
	}
	if base.types != nil && base.types != w.types {
		w.log.Warn("system rejected",
			zap.String("system", systemName(s)),
			zap.Error(ErrForeignTypes),
		)
		return ErrForeignTypes
	}
	base.world = w
	s.OnActivation()
	w.systems = append(w.systems, s)
	w.fresh = append(w.fresh, s)
	w.log.Debug("system added",
		zap.String("system", systemName(s)),
		zap.Stringer("mask", base.required),
	)
	return nil
}

// RemoveSystem detaches s and fires OnInactivation. Members are dropped
// without OnEntityRemoved.
func (w *World) RemoveSystem(s System) bool {
	for i, sys := range w.systems {
		if sys != s {
			continue
		}
		w.systems = append(w.systems[:i], w.systems[i+1:]...)
		w.fresh = dropSystem(w.fresh, s)
		s.OnInactivation()
		base := s.Core()
		base.reset()
		base.world = nil
		return true
	}
	return false
}

// SystemOf returns the first system of w whose dynamic type is T.
func SystemOf[T System](w *World) (T, bool) {
	for _, s := range w.systems {
		if v, ok := s.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// SendEvent broadcasts ev to every system's OnEvent in registration order.
// A ComponentEvent is first taken in for reconciliation; an added component
// is written to storage immediately.
func (w *World) SendEvent(ev Event) error {
	if ce, ok := ev.(ComponentEvent); ok {
		if err := w.intake(ce); err != nil {
			w.log.Warn("component event rejected",
				zap.Stringer("entity", ce.Entity),
				zap.Stringer("kind", ce.Kind),
				zap.Error(err),
			)
			return err
		}
	}
	w.broadcast(ev)
	return nil
}

// intake validates and queues a structural event.
func (w *World) intake(ev ComponentEvent) error {
	if err := w.owns(ev.Entity); err != nil {
		return err
	}
	t := ev.ComponentType()
	if t == nil {
		return ErrNilComponent
	}
	if ev.Type != nil && ev.Component != nil && ev.Type != reflect.TypeOf(ev.Component) {
		return fmt.Errorf("%T as %s: %w", ev.Component, ev.Type, ErrTypeMismatch)
	}
	switch ev.Kind {
	case ComponentAdded:
		if ev.Component == nil {
			return ErrNilComponent
		}
		cid, err := w.types.ID(t)
		if err != nil {
			return err
		}
		w.store.Set(ev.Entity.id, cid, ev.Component)
	case ComponentRemoved:
		// An unregistered type cannot be attached, so there is nothing to do.
		if _, ok := w.types.Lookup(t); !ok {
			return nil
		}
	default:
		return fmt.Errorf("ecs: unknown event kind %d", ev.Kind)
	}
	w.events = append(w.events, ev)
	return nil
}

func (w *World) broadcast(ev Event) {
	for _, s := range w.systems {
		s.OnEvent(ev)
	}
}

// SetEntityName tags e with name, replacing any entity previously tagged.
func (w *World) SetEntityName(name string, e Entity) error {
	if err := w.owns(e); err != nil {
		w.log.Warn("name rejected",
			zap.String("name", name),
			zap.Stringer("entity", e),
			zap.Error(err),
		)
		return err
	}
	w.names[name] = e
	return nil
}

// GetEntityWithName returns the entity tagged name.
func (w *World) GetEntityWithName(name string) (Entity, bool) {
	e, ok := w.names[name]
	return e, ok
}

// GetComponent returns e's component of type t from current storage.
func (w *World) GetComponent(e Entity, t reflect.Type) (Component, bool) {
	if e.world != w || t == nil {
		return nil, false
	}
	cid, ok := w.types.Lookup(t)
	if !ok {
		return nil, false
	}
	return w.store.Get(e.id, cid)
}

// GetComponents returns e's components from current storage in bit order.
func (w *World) GetComponents(e Entity) []Component {
	if e.world != w {
		return nil
	}
	return w.store.All(e.id)
}

// Mask returns e's current membership bitmask.
func (w *World) Mask(e Entity) Mask {
	if e.world != w {
		return Mask{}
	}
	return w.store.Mask(e.id)
}

// Update reconciles pending structural changes and runs every enabled
// system once with dt.
func (w *World) Update(dt time.Duration) error {
	if w.updating {
		return ErrReentrantUpdate
	}
	w.updating = true
	defer func() { w.updating = false }()

	events := w.events
	removals := w.removals
	fresh := w.fresh
	w.events = make([]ComponentEvent, 0, cap(events))
	w.removals = nil
	w.fresh = nil

	systems := make([]System, len(w.systems))
	copy(systems, w.systems)

	added, removals := w.applyEvents(events, removals)
	registered := w.registerEntities(systems, added)
	registered += w.backfill(fresh, removals)
	evicted := w.evictEntities(systems, removals)

	if len(events) > 0 || len(removals) > 0 {
		w.log.Debug("reconciled",
			zap.Int("events", len(events)),
			zap.Int("registered", registered),
			zap.Int("evicted", evicted),
			zap.Int("removals", len(removals)),
		)
	}

	w.runSystems(systems, dt)
	return nil
}

// applyEvents is phase 1. Adds are (re)written to storage and collected for
// registration; removals of attached types are merged into one record per
// entity. A later add of the same type cancels an earlier removal.
func (w *World) applyEvents(events []ComponentEvent, removals []removal) ([]EntityID, []removal) {
	var added []EntityID
	seen := make(map[EntityID]struct{}, len(events))
	byEntity := make(map[EntityID]int, len(removals))
	for i, r := range removals {
		byEntity[r.id] = i
	}

	for _, ev := range events {
		id := ev.Entity.id
		if _, ok := w.alive[id]; !ok {
			continue
		}
		cid, ok := w.types.Lookup(ev.ComponentType())
		if !ok {
			continue
		}

		switch ev.Kind {
		case ComponentAdded:
			i, pending := byEntity[id]
			if pending && removals[i].full {
				continue
			}
			w.store.Set(id, cid, ev.Component)
			if pending {
				removals[i].types = dropID(removals[i].types, cid)
			}
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				added = append(added, id)
			}
		case ComponentRemoved:
			if !w.store.Has(id, cid) {
				continue
			}
			i, ok := byEntity[id]
			if !ok {
				i = len(removals)
				byEntity[id] = i
				removals = append(removals, removal{id: id})
			}
			if !removals[i].full && !containsID(removals[i].types, cid) {
				removals[i].types = append(removals[i].types, cid)
			}
		}
	}
	return added, removals
}

// registerEntities is phase 2.
func (w *World) registerEntities(systems []System, ids []EntityID) int {
	n := 0
	for _, id := range ids {
		i, ok := w.alive[id]
		if !ok {
			continue
		}
		e := w.entities[i]
		m := w.store.Mask(id)
		for _, s := range systems {
			base := s.Core()
			if base.world != w || !base.matches(m) {
				continue
			}
			if AddEntity(s, e) {
				n++
			}
		}
	}
	return n
}

// backfill is the tail of phase 2: systems added since the last Update
// pick up every live entity that already matches them, except entities
// being destroyed this frame.
func (w *World) backfill(fresh []System, removals []removal) int {
	if len(fresh) == 0 {
		return 0
	}
	doomed := make(map[EntityID]struct{})
	for _, r := range removals {
		if r.full {
			doomed[r.id] = struct{}{}
		}
	}
	n := 0
	for _, s := range fresh {
		base := s.Core()
		if base.world != w || base.required.IsZero() {
			continue
		}
		for _, e := range w.entities {
			if _, ok := doomed[e.id]; ok {
				continue
			}
			if base.matches(w.store.Mask(e.id)) && AddEntity(s, e) {
				n++
			}
		}
	}
	return n
}

// evictEntities is phase 3. Membership is read before storage is stripped
// and the stripped mask decides which systems let the entity go.
func (w *World) evictEntities(systems []System, removals []removal) int {
	n := 0
	var dead map[EntityID]struct{}
	for _, r := range removals {
		i, ok := w.alive[r.id]
		if !ok {
			continue
		}
		e := w.entities[i]

		if r.full {
			for _, s := range systems {
				if RemoveEntity(s, e) {
					n++
				}
			}
			w.store.Remove(r.id)
			if dead == nil {
				dead = make(map[EntityID]struct{})
			}
			dead[r.id] = struct{}{}
			continue
		}
		if len(r.types) == 0 {
			continue
		}

		var members []System
		for _, s := range systems {
			if s.Core().IsPresent(e) {
				members = append(members, s)
			}
		}
		w.store.Strip(r.id, r.types)
		m := w.store.Mask(r.id)
		for _, s := range members {
			if m.Contains(s.Core().required) {
				continue
			}
			if RemoveEntity(s, e) {
				n++
			}
		}
	}
	w.forget(dead)
	return n
}

// runSystems is phase 4. systems is the list captured when Update started,
// so a system added meanwhile first runs on the next frame.
func (w *World) runSystems(systems []System, dt time.Duration) {
	for _, s := range systems {
		base := s.Core()
		if base.world != w || !base.Enabled() {
			continue
		}
		s.Update(dt)
	}
}

// RemoveEntities empties the world of entities. Every system gets OnClear
// before its membership is dropped.
func (w *World) RemoveEntities() {
	for _, s := range w.systems {
		s.OnClear()
		s.Core().reset()
	}
	w.entities = make([]Entity, 0, 256)
	w.alive = make(map[EntityID]int, 256)
	w.store.Reset()
	w.names = make(map[string]Entity)
	w.events = make([]ComponentEvent, 0, 64)
	w.removals = nil
}

// Clear removes every entity and detaches every system, firing OnClear then
// OnInactivation on each.
func (w *World) Clear() {
	w.RemoveEntities()
	systems := w.systems
	w.systems = make([]System, 0, 16)
	w.fresh = nil
	for _, s := range systems {
		s.OnInactivation()
		s.Core().world = nil
	}
}

func (w *World) owns(e Entity) error {
	if e.world == nil {
		return ErrDetached
	}
	if e.world != w {
		return ErrForeignEntity
	}
	if _, ok := w.alive[e.id]; !ok {
		return fmt.Errorf("%s: %w", e, ErrUnknownEntity)
	}
	return nil
}

func (w *World) queueRemoval(r removal) {
	for i := range w.removals {
		if w.removals[i].id == r.id {
			w.removals[i].full = w.removals[i].full || r.full
			return
		}
	}
	w.removals = append(w.removals, r)
}

// forget drops destroyed entities from the entity list in one pass,
// keeping order.
func (w *World) forget(dead map[EntityID]struct{}) {
	if len(dead) == 0 {
		return
	}
	n := 0
	for _, e := range w.entities {
		if _, ok := dead[e.id]; ok {
			delete(w.alive, e.id)
			continue
		}
		w.entities[n] = e
		w.alive[e.id] = n
		n++
	}
	clear(w.entities[n:])
	w.entities = w.entities[:n]
}

func systemName(s System) string {
	t := reflect.TypeOf(s)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

func containsID(ids []ComponentID, id ComponentID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func dropID(ids []ComponentID, id ComponentID) []ComponentID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func dropSystem(list []System, s System) []System {
	for i, v := range list {
		if v == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
