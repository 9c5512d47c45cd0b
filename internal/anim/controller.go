// Package anim drives the frame index of the chart on a fixed interval.
package anim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrNoFrames        = errors.New("anim: no frames")
	ErrInvalidInterval = errors.New("anim: interval must be positive")
	ErrRunning         = errors.New("anim: controller already running")
)

type State int

const (
	Idle State = iota
	Animating
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Animating:
		return "animating"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// TickFunc renders frame index. It runs on the controller goroutine for
// timer ticks and on the caller's goroutine for Start, Tick and Seek; calls
// never overlap. It must not block and must not call back into the
// controller.
type TickFunc func(index int)

type Option func(*Controller)

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// Controller owns the current frame index and the repeating timer that
// advances it.
type Controller struct {
	mu       sync.Mutex
	frames   int
	index    int
	interval time.Duration
	state    State
	cancel   context.CancelFunc
	done     chan struct{}

	tickMu sync.Mutex
	onTick TickFunc
	log    *zap.Logger
}

func New(frames int, interval time.Duration, onTick TickFunc, opts ...Option) (*Controller, error) {
	if frames <= 0 {
		return nil, ErrNoFrames
	}
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	c := &Controller{
		frames:   frames,
		interval: interval,
		onTick:   onTick,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Start renders the current frame immediately and then advances one frame
// per interval until Stop is called or ctx is done.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state == Animating {
		c.mu.Unlock()
		return ErrRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.cancel, c.done, c.state = cancel, done, Animating
	c.mu.Unlock()

	c.log.Debug("animation started", zap.Int("frames", c.Frames()), zap.Duration("interval", c.interval))
	c.render()
	go c.loop(runCtx, done)
	return nil
}

func (c *Controller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.mu.Lock()
			if c.done == done {
				c.state = Stopped
			}
			c.mu.Unlock()
			return
		case <-ticker.C:
			c.Tick()
		}
	}
}

// Stop cancels the timer and waits for the running tick, if any, to
// finish. It is safe to call more than once.
func (c *Controller) Stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	if c.state == Animating {
		c.state = Stopped
	}
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	c.log.Debug("animation stopped", zap.Int("index", c.Index()))
}

// Tick advances to the next frame, wrapping after the last one, and
// renders it.
func (c *Controller) Tick() {
	c.tickMu.Lock()
	defer c.tickMu.Unlock()

	c.mu.Lock()
	if c.index >= c.frames-1 {
		c.index = 0
	} else {
		c.index++
	}
	idx := c.index
	c.mu.Unlock()

	c.call(idx)
}

// Seek jumps to frame i, taken modulo the frame count, and renders it.
func (c *Controller) Seek(i int) {
	c.tickMu.Lock()
	defer c.tickMu.Unlock()

	c.mu.Lock()
	i %= c.frames
	if i < 0 {
		i += c.frames
	}
	c.index = i
	c.mu.Unlock()

	c.call(i)
}

// Resize changes the number of frames, for a reloaded dataset. The index
// is kept when still valid and reset to zero otherwise.
func (c *Controller) Resize(frames int) error {
	if frames <= 0 {
		return ErrNoFrames
	}
	c.tickMu.Lock()
	defer c.tickMu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = frames
	if c.index >= frames {
		c.index = 0
	}
	return nil
}

func (c *Controller) render() {
	c.tickMu.Lock()
	defer c.tickMu.Unlock()
	c.call(c.Index())
}

func (c *Controller) call(idx int) {
	if c.onTick != nil {
		c.onTick(idx)
	}
}

func (c *Controller) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

func (c *Controller) Frames() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Interval() time.Duration { return c.interval }
