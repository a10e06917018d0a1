package animation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/GarThor/logilinux/internal/protocol"
)

// ErrNoFrames is returned by play calls given an empty frame sequence.
var ErrNoFrames = errors.New("animation: no frames to play")

// Controller owns at most one running animation per grid key plus one for
// the full-screen slot. The screen slot is independent of the key slots;
// a screen animation and key animations may run concurrently.
type Controller struct {
	painter Painter
	clock   clockwork.Clock

	mu     sync.Mutex
	keys   [protocol.KeyCount]*animation
	screen *animation
}

// New creates a controller painting through p. A nil clock selects the real
// clock; tests inject a fake one.
func New(p Painter, clock clockwork.Clock) *Controller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Controller{painter: p, clock: clock}
}

// PlayKey starts frames on the given key, first stopping and joining any
// animation already running there.
func (c *Controller) PlayKey(key int, frames []Frame, loop bool) error {
	if !protocol.ValidKey(key) {
		return fmt.Errorf("animation: invalid key index %d", key)
	}
	if len(frames) == 0 {
		return ErrNoFrames
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if prev := c.keys[key]; prev != nil {
		prev.halt()
	}

	a := newAnimation(frames, loop)
	c.keys[key] = a
	go a.run(c.clock, func(jpeg []byte) error {
		return c.painter.PaintKey(key, jpeg)
	})
	return nil
}

// PlayScreen starts a full-screen animation, superseding any running one.
// Key animations are left untouched.
func (c *Controller) PlayScreen(frames []Frame, loop bool) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen != nil {
		c.screen.halt()
	}

	a := newAnimation(frames, loop)
	c.screen = a
	go a.run(c.clock, c.painter.PaintScreen)
	return nil
}

// StopKey stops the animation on key and waits for its task to exit. A key
// with no running animation is a no-op.
func (c *Controller) StopKey(key int) {
	if !protocol.ValidKey(key) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if a := c.keys[key]; a != nil {
		a.halt()
		c.keys[key] = nil
	}
}

// StopScreen stops the full-screen animation, if any.
func (c *Controller) StopScreen() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.screen != nil {
		c.screen.halt()
		c.screen = nil
	}
}

// StopAll stops the screen animation first, then every key animation. All
// tasks have exited by the time it returns.
func (c *Controller) StopAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.screen != nil {
		c.screen.halt()
		c.screen = nil
	}
	for key, a := range c.keys {
		if a != nil {
			a.halt()
			c.keys[key] = nil
		}
	}
}
