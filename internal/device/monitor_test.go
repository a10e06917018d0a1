package device

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GarThor/logilinux/internal/protocol"
)

// scriptedInput feeds canned reports to the monitor loop and times out like
// a real poll when nothing is queued.
type scriptedInput struct {
	reports chan []byte
	readErr error

	mu     sync.Mutex
	closed bool
}

func newScriptedInput() *scriptedInput {
	return &scriptedInput{reports: make(chan []byte, 16)}
}

func (s *scriptedInput) ReadTimeout(buf []byte, timeout time.Duration) (int, error) {
	if s.readErr != nil {
		return 0, s.readErr
	}
	select {
	case r := <-s.reports:
		return copy(buf, r), nil
	case <-time.After(timeout):
		return 0, nil
	}
}

func (s *scriptedInput) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *scriptedInput) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// eventRecorder collects callback events and signals each arrival.
type eventRecorder struct {
	mu     sync.Mutex
	events []protocol.Event
	got    chan struct{}
}

func newEventRecorder() *eventRecorder {
	return &eventRecorder{got: make(chan struct{}, 64)}
}

func (r *eventRecorder) callback(ev protocol.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	r.got <- struct{}{}
}

func (r *eventRecorder) wait(t *testing.T, n int) []protocol.Event {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-r.got:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for event %d of %d", i+1, n)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]protocol.Event(nil), r.events...)
}

func monitoredKeypad(t *testing.T, in *scriptedInput, rec *eventRecorder) *Keypad {
	t.Helper()

	ft := &fakeTransport{}
	k := testKeypad(ft)
	k.openInput = func() (inputSource, error) { return in, nil }
	if rec != nil {
		k.SetEventCallback(rec.callback)
	}
	return k
}

func gridReport(codes ...byte) []byte {
	report := []byte{0x13, 0xff, 0x02, 0x00, 0x00, 0x01}
	report = append(report, codes...)
	return append(report, 0x00)
}

func TestMonitorDeliversEventsInOrder(t *testing.T) {
	t.Parallel()

	in := newScriptedInput()
	rec := newEventRecorder()
	k := monitoredKeypad(t, in, rec)

	require.NoError(t, k.StartMonitoring())
	assert.True(t, k.IsMonitoring())

	in.reports <- gridReport(1, 2)
	events := rec.wait(t, 2)
	require.Len(t, events, 2)
	assert.Equal(t, byte(0), events[0].Code)
	assert.True(t, events[0].Pressed)
	assert.Equal(t, byte(1), events[1].Code)
	assert.True(t, events[1].Pressed)

	in.reports <- gridReport()
	events = rec.wait(t, 2)
	require.Len(t, events, 4)
	assert.False(t, events[2].Pressed)
	assert.False(t, events[3].Pressed)

	k.StopMonitoring()
	assert.False(t, k.IsMonitoring())
	assert.True(t, in.isClosed())
}

func TestMonitorNavEvents(t *testing.T) {
	t.Parallel()

	in := newScriptedInput()
	rec := newEventRecorder()
	k := monitoredKeypad(t, in, rec)
	require.NoError(t, k.StartMonitoring())
	defer k.StopMonitoring()

	in.reports <- []byte{0x11, 0xff, 0x0b, 0x00, 0x01, protocol.NavP1}
	in.reports <- []byte{0x11, 0xff, 0x0b, 0x00, 0x00, 0x00}

	events := rec.wait(t, 2)
	require.Len(t, events, 2)
	assert.Equal(t, protocol.NavP1, events[0].Code)
	assert.True(t, events[0].Pressed)
	assert.Equal(t, protocol.NavP1, events[1].Code)
	assert.False(t, events[1].Pressed)
}

func TestSetEventCallbackWhileMonitoring(t *testing.T) {
	t.Parallel()

	in := newScriptedInput()
	first := newEventRecorder()
	k := monitoredKeypad(t, in, first)
	require.NoError(t, k.StartMonitoring())
	defer k.StopMonitoring()

	in.reports <- gridReport(1)
	events := first.wait(t, 1)
	require.Len(t, events, 1)

	// Swapping the callback mid-run redirects delivery from the next report.
	second := newEventRecorder()
	k.SetEventCallback(second.callback)

	in.reports <- gridReport()
	events = second.wait(t, 1)
	require.Len(t, events, 1)
	assert.Equal(t, byte(0), events[0].Code)
	assert.False(t, events[0].Pressed)
}

func TestStartMonitoringWithoutCallback(t *testing.T) {
	t.Parallel()

	k := monitoredKeypad(t, newScriptedInput(), nil)
	require.NoError(t, k.StartMonitoring())
	assert.False(t, k.IsMonitoring())
}

func TestStartMonitoringTwice(t *testing.T) {
	t.Parallel()

	opens := 0
	in := newScriptedInput()
	rec := newEventRecorder()
	k := monitoredKeypad(t, in, rec)
	k.openInput = func() (inputSource, error) {
		opens++
		return in, nil
	}

	require.NoError(t, k.StartMonitoring())
	require.NoError(t, k.StartMonitoring())
	assert.Equal(t, 1, opens)

	k.StopMonitoring()
}

func TestStartMonitoringOpenFailure(t *testing.T) {
	t.Parallel()

	rec := newEventRecorder()
	k := monitoredKeypad(t, newScriptedInput(), rec)
	k.openInput = func() (inputSource, error) {
		return nil, errors.New("node gone")
	}

	assert.Error(t, k.StartMonitoring())
	assert.False(t, k.IsMonitoring())
}

func TestMonitorExitsOnReadError(t *testing.T) {
	t.Parallel()

	in := newScriptedInput()
	in.readErr = errors.New("device unplugged")
	rec := newEventRecorder()
	k := monitoredKeypad(t, in, rec)

	require.NoError(t, k.StartMonitoring())

	require.Eventually(t, func() bool {
		return !k.IsMonitoring()
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, in.isClosed())

	// StopMonitoring after a self-exit must not block or panic.
	k.StopMonitoring()
}

func TestStopMonitoringIdle(t *testing.T) {
	t.Parallel()

	k := monitoredKeypad(t, newScriptedInput(), newEventRecorder())
	k.StopMonitoring()
	assert.False(t, k.IsMonitoring())
}
