// Package animation runs per-key and full-screen frame playback loops.
//
// Each playing animation is one goroutine driving a Painter. Stopping is
// cooperative: the task is signalled and joined before its frames are
// released, so frame memory is never freed while a paint is in flight.
package animation

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Frame is one still image within an animation plus its display duration.
type Frame struct {
	JPEG  []byte
	Delay time.Duration
}

// Painter displays an encoded frame on an animation target. The keypad
// device implements it on top of the report codec and transfer channel.
type Painter interface {
	PaintKey(key int, jpeg []byte) error
	PaintScreen(jpeg []byte) error
}

// animation is one installed playback task. The frame slice is never
// mutated after construction and is read only by the task goroutine.
type animation struct {
	frames []Frame
	loop   bool
	stop   chan struct{}
	done   chan struct{}
}

func newAnimation(frames []Frame, loop bool) *animation {
	return &animation{
		frames: frames,
		loop:   loop,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// run paints frames in order, sleeping each frame's delay on clock. It exits
// when signalled, or after the last frame of a non-looping sequence.
func (a *animation) run(clock clockwork.Clock, paint func([]byte) error) {
	defer close(a.done)

	cur := 0
	for {
		if err := paint(a.frames[cur].JPEG); err != nil {
			// A failed frame is not fatal to the animation; the next frame
			// may well land.
			log.Debug().Err(err).Msg("frame paint failed")
		}

		select {
		case <-a.stop:
			return
		case <-clock.After(a.frames[cur].Delay):
		}

		cur++
		if cur == len(a.frames) {
			if !a.loop {
				return
			}
			cur = 0
		}
	}
}

// halt signals the task and blocks until it has exited. Joining before the
// controller drops its reference keeps the frame-ownership invariant.
func (a *animation) halt() {
	select {
	case <-a.stop:
	default:
		close(a.stop)
	}
	<-a.done
}
