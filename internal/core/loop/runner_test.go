package loop

import (
	"context"
	"errors"
	"testing"
	"time"
)

type counter struct {
	calls  int
	deltas []time.Duration
	failAt int
}

var errBoom = errors.New("boom")

func (c *counter) Update(dt time.Duration) error {
	c.calls++
	c.deltas = append(c.deltas, dt)
	if c.failAt > 0 && c.calls == c.failAt {
		return errBoom
	}
	return nil
}

func TestRunStopsAtFrameLimit(t *testing.T) {
	c := &counter{}
	r := NewRunner(c, time.Millisecond, 5, nil)
	if err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.calls != 5 || r.Frames() != 5 {
		t.Fatalf("calls=%d frames=%d, want 5", c.calls, r.Frames())
	}
	for i, dt := range c.deltas {
		if dt <= 0 {
			t.Fatalf("frame %d got non-positive delta %s", i, dt)
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	c := &counter{}
	r := NewRunner(c, time.Millisecond, 0, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := r.Run(ctx); err != nil {
		t.Fatalf("cancellation should not be an error: %v", err)
	}
	if c.calls == 0 {
		t.Fatal("expected at least one frame before cancellation")
	}
}

func TestRunReturnsFrameError(t *testing.T) {
	c := &counter{failAt: 3}
	r := NewRunner(c, time.Millisecond, 0, nil)
	err := r.Run(context.Background())
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
	if r.Frames() != 2 {
		t.Fatalf("expected 2 completed frames, got %d", r.Frames())
	}
}

func TestRunRejectsBadTickRate(t *testing.T) {
	r := NewRunner(&counter{}, 0, 1, nil)
	if err := r.Run(context.Background()); err == nil {
		t.Fatal("expected error for zero tick rate")
	}
}

func TestStep(t *testing.T) {
	c := &counter{}
	r := NewRunner(c, time.Second, 0, nil)
	if err := r.Step(42 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if r.Frames() != 1 || c.deltas[0] != 42*time.Millisecond {
		t.Fatalf("frames=%d deltas=%v", r.Frames(), c.deltas)
	}
}
