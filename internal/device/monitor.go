package device

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GarThor/logilinux/internal/protocol"
)

// EventCallback receives decoded input events. It runs on the monitor
// goroutine, so events for one device arrive strictly in order; a callback
// that blocks stalls delivery.
type EventCallback func(protocol.Event)

const pollInterval = 100 * time.Millisecond

// SetEventCallback registers the callback for decoded input events. A
// callback must be registered before StartMonitoring; swapping it while the
// loop runs takes effect from the next report.
func (k *Keypad) SetEventCallback(cb EventCallback) {
	k.monMu.Lock()
	defer k.monMu.Unlock()
	k.callback = cb
}

// StartMonitoring opens a read-only handle on the device node and launches
// the input loop. It is a no-op when the loop is already running or no
// callback is registered.
func (k *Keypad) StartMonitoring() error {
	k.monMu.Lock()
	defer k.monMu.Unlock()

	if k.monStop != nil || k.callback == nil {
		return nil
	}

	in, err := k.openInput()
	if err != nil {
		return fmt.Errorf("opening input node: %w", err)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	k.monStop, k.monDone = stop, done
	go k.monitor(in, stop, done)

	log.Debug().Str("path", k.info.Path).Msg("input monitoring started")
	return nil
}

// StopMonitoring signals the input loop and waits for it to exit. Safe to
// call when monitoring is not running.
func (k *Keypad) StopMonitoring() {
	k.monMu.Lock()
	stop, done := k.monStop, k.monDone
	k.monStop, k.monDone = nil, nil
	k.monMu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// IsMonitoring reports whether the input loop is running.
func (k *Keypad) IsMonitoring() bool {
	k.monMu.Lock()
	defer k.monMu.Unlock()
	return k.monStop != nil
}

func (k *Keypad) monitor(in inputSource, stop, done chan struct{}) {
	defer close(done)
	defer in.Close()
	defer func() {
		// The loop may exit on its own after a read failure; clear the
		// running state unless StopMonitoring already claimed it.
		k.monMu.Lock()
		if k.monDone == done {
			k.monStop, k.monDone = nil, nil
		}
		k.monMu.Unlock()
	}()

	state := protocol.NewPressState()
	buf := make([]byte, protocol.MaxInputReport)
	for {
		select {
		case <-stop:
			return
		default:
		}

		n, err := in.ReadTimeout(buf, pollInterval)
		if err != nil {
			log.Error().Err(err).Str("path", k.info.Path).Msg("input read failed, monitor exiting")
			return
		}
		if n == 0 {
			continue
		}

		events := protocol.DecodeInput(buf[:n], state, k.clock.Now())
		if len(events) == 0 {
			continue
		}

		// Re-read the callback per report so a swap mid-run takes effect.
		k.monMu.Lock()
		cb := k.callback
		k.monMu.Unlock()
		for _, ev := range events {
			cb(ev)
		}
	}
}
