package loop

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Updater is stepped once per frame. *ecs.World implements it.
type Updater interface {
	Update(dt time.Duration) error
}

// Runner drives an Updater at a fixed tick rate.
type Runner struct {
	target    Updater
	tickRate  time.Duration
	maxFrames uint64
	log       *zap.Logger
	frames    uint64
}

// NewRunner returns a Runner stepping target every tickRate. maxFrames of
// zero runs until the context ends.
func NewRunner(target Updater, tickRate time.Duration, maxFrames uint64, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		target:    target,
		tickRate:  tickRate,
		maxFrames: maxFrames,
		log:       log,
	}
}

// Frames returns the number of completed frames.
func (r *Runner) Frames() uint64 { return r.frames }

// Step runs a single frame with the given delta.
func (r *Runner) Step(dt time.Duration) error {
	if err := r.target.Update(dt); err != nil {
		return fmt.Errorf("frame %d: %w", r.frames, err)
	}
	r.frames++
	return nil
}

// Run ticks until ctx is done, the frame limit is reached or a frame
// fails. The delta passed to each frame is the measured wall time since
// the previous one. Cancellation is not an error.
func (r *Runner) Run(ctx context.Context) error {
	if r.tickRate <= 0 {
		return fmt.Errorf("loop: invalid tick rate %s", r.tickRate)
	}
	ticker := time.NewTicker(r.tickRate)
	defer ticker.Stop()

	r.log.Info("loop started",
		zap.Duration("tick", r.tickRate),
		zap.Uint64("max_frames", r.maxFrames),
	)
	last := time.Now()
	for {
		if r.maxFrames > 0 && r.frames >= r.maxFrames {
			r.log.Info("frame limit reached", zap.Uint64("frames", r.frames))
			return nil
		}
		select {
		case <-ctx.Done():
			r.log.Info("loop stopped", zap.Uint64("frames", r.frames))
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if err := r.Step(dt); err != nil {
				return err
			}
		}
	}
}
