package system

import (
	"time"

	"github.com/l1jgo/esworld/internal/component"
	"github.com/l1jgo/esworld/internal/core/ecs"
	"go.uber.org/zap"
)

// LifeSystem drains Health over time. An entity reaching zero is announced
// with a Dead event and destroyed; both take effect on the next frame.
type LifeSystem struct {
	ecs.Base
	log   *zap.Logger
	drain float64 // points per second
	dying map[ecs.Entity]struct{}
}

func NewLifeSystem(types *ecs.TypeRegistry, drain float64, log *zap.Logger) (*LifeSystem, error) {
	base, err := ecs.Requires(types, ecs.TypeFor[*component.Health]())
	if err != nil {
		return nil, err
	}
	return &LifeSystem{
		Base:  base,
		log:   log,
		drain: drain,
		dying: make(map[ecs.Entity]struct{}),
	}, nil
}

func (s *LifeSystem) Update(dt time.Duration) {
	loss := s.drain * dt.Seconds()
	ecs.Each(s, func(e ecs.Entity, h *component.Health) {
		if _, ok := s.dying[e]; ok {
			return
		}
		h.Points -= loss
		if h.Points > 0 {
			return
		}
		h.Points = 0
		s.dying[e] = struct{}{}
		s.log.Debug("entity died", zap.Stringer("entity", e))

		w := s.World()
		if err := w.SendEvent(Dead{Entity: e}); err != nil {
			s.log.Warn("send dead event", zap.Stringer("entity", e), zap.Error(err))
		}
		if err := w.DestroyEntity(e); err != nil {
			s.log.Warn("destroy dead entity", zap.Stringer("entity", e), zap.Error(err))
		}
	})
}

func (s *LifeSystem) OnEntityRemoved(e ecs.Entity) {
	delete(s.dying, e)
}

func (s *LifeSystem) OnClear() {
	s.dying = make(map[ecs.Entity]struct{})
}
