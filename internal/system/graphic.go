package system

import (
	"time"

	"github.com/l1jgo/esworld/internal/component"
	"github.com/l1jgo/esworld/internal/core/ecs"
	"go.uber.org/zap"
)

// GraphicSystem walks every sprite with a position once per frame.
// Drawing itself is out of scope; it only counts and logs.
type GraphicSystem struct {
	ecs.Base
	log       *zap.Logger
	lastDrawn int
	frames    uint64
}

func NewGraphicSystem(types *ecs.TypeRegistry, log *zap.Logger) (*GraphicSystem, error) {
	base, err := ecs.Requires(types,
		ecs.TypeFor[*component.Sprite](),
		ecs.TypeFor[*component.Position](),
	)
	if err != nil {
		return nil, err
	}
	return &GraphicSystem{Base: base, log: log}, nil
}

// LastDrawn returns the sprite count of the most recent frame.
func (s *GraphicSystem) LastDrawn() int { return s.lastDrawn }

// Frames returns the number of frames drawn.
func (s *GraphicSystem) Frames() uint64 { return s.frames }

func (s *GraphicSystem) Update(_ time.Duration) {
	drawn := 0
	ecs.Each2(s, func(e ecs.Entity, spr *component.Sprite, pos *component.Position) {
		if ce := s.log.Check(zap.DebugLevel, "draw"); ce != nil {
			ce.Write(
				zap.Stringer("entity", e),
				zap.String("image", spr.Image),
				zap.Float64("x", pos.X),
				zap.Float64("y", pos.Y),
			)
		}
		drawn++
	})
	s.lastDrawn = drawn
	s.frames++
}
