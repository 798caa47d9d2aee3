package system

import (
	"time"

	"github.com/l1jgo/esworld/internal/component"
	"github.com/l1jgo/esworld/internal/core/ecs"
	"go.uber.org/zap"
)

// PhysicsSystem integrates Position by Velocity every frame.
type PhysicsSystem struct {
	ecs.Base
	log   *zap.Logger
	steps uint64
}

func NewPhysicsSystem(types *ecs.TypeRegistry, log *zap.Logger) (*PhysicsSystem, error) {
	base, err := ecs.Requires(types,
		ecs.TypeFor[*component.Position](),
		ecs.TypeFor[*component.Velocity](),
	)
	if err != nil {
		return nil, err
	}
	return &PhysicsSystem{Base: base, log: log}, nil
}

// Steps returns how many position updates have been applied.
func (s *PhysicsSystem) Steps() uint64 { return s.steps }

func (s *PhysicsSystem) OnEntityAdded(e ecs.Entity) {
	pos, _ := ecs.Get[*component.Position](e)
	vel, _ := ecs.Get[*component.Velocity](e)
	if pos == nil || vel == nil {
		return
	}
	s.log.Debug("body created",
		zap.Stringer("entity", e),
		zap.Float64("x", pos.X), zap.Float64("y", pos.Y),
		zap.Float64("vx", vel.X), zap.Float64("vy", vel.Y),
	)
}

func (s *PhysicsSystem) OnEntityRemoved(e ecs.Entity) {
	s.log.Debug("body removed", zap.Stringer("entity", e))
}

func (s *PhysicsSystem) Update(dt time.Duration) {
	sec := dt.Seconds()
	ecs.Each2(s, func(_ ecs.Entity, pos *component.Position, vel *component.Velocity) {
		pos.X += vel.X * sec
		pos.Y += vel.Y * sec
		s.steps++
	})
}
