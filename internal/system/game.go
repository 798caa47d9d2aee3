package system

import (
	"time"

	"github.com/l1jgo/esworld/internal/core/ecs"
	"github.com/l1jgo/esworld/internal/core/event"
	"go.uber.org/zap"
)

// GameSystem owns the match state. It requires no components and only
// reacts to events.
type GameSystem struct {
	ecs.Base
	log       *zap.Logger
	router    *event.Router
	deaths    int
	over      bool
	announced bool
}

func NewGameSystem(log *zap.Logger) *GameSystem {
	s := &GameSystem{
		Base:   ecs.NewBase(ecs.Mask{}),
		log:    log,
		router: event.NewRouter(),
	}
	event.Handle(s.router, s.onDead)
	return s
}

// Over reports whether the game has ended.
func (s *GameSystem) Over() bool { return s.over }

// Deaths returns the number of Dead events seen.
func (s *GameSystem) Deaths() int { return s.deaths }

func (s *GameSystem) OnEvent(ev ecs.Event) {
	s.router.Dispatch(ev)
}

func (s *GameSystem) onDead(ev Dead) {
	s.deaths++
	s.over = true
}

func (s *GameSystem) Update(_ time.Duration) {
	if s.over && !s.announced {
		s.announced = true
		s.log.Info("game over", zap.Int("deaths", s.deaths))
	}
}

func (s *GameSystem) OnInactivation() {
	s.over = false
	s.announced = false
	s.deaths = 0
}
