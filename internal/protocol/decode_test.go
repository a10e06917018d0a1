package protocol

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridReport(codes ...byte) []byte {
	r := []byte{0x13, 0xff, 0x02, 0x00, 0x00, 0x01}
	r = append(r, codes...)
	r = append(r, 0x00)
	return r
}

func navReport(down byte, code byte) []byte {
	return []byte{0x11, 0xff, 0x0b, 0x00, down, code}
}

// pressedSet collects (code, pressed) pairs without asserting order within
// one diff.
func pressedSet(events []Event) map[byte]bool {
	m := make(map[byte]bool, len(events))
	for _, e := range events {
		m[e.Code] = e.Pressed
	}
	return m
}

func TestDecodeGridDiffSequence(t *testing.T) {
	t.Parallel()

	now := time.Now()
	state := NewPressState()

	events := DecodeInput(gridReport(1, 2), state, now)
	assert.Equal(t, map[byte]bool{0: true, 1: true}, pressedSet(events))

	events = DecodeInput(gridReport(2, 3), state, now)
	assert.Equal(t, map[byte]bool{2: true, 0: false}, pressedSet(events))

	events = DecodeInput(gridReport(), state, now)
	assert.Equal(t, map[byte]bool{1: false, 2: false}, pressedSet(events))

	for _, e := range events {
		assert.Equal(t, EventButton, e.Kind)
		assert.Equal(t, now, e.Time)
	}
}

func TestDecodeGridIdempotentSnapshot(t *testing.T) {
	t.Parallel()

	state := NewPressState()
	now := time.Now()

	first := DecodeInput(gridReport(5, 7), state, now)
	require.Len(t, first, 2)

	again := DecodeInput(gridReport(5, 7), state, now)
	assert.Empty(t, again)
}

func TestDecodeGridIgnoresOutOfRangeCodes(t *testing.T) {
	t.Parallel()

	state := NewPressState()
	// Codes outside 1-9 are skipped without terminating the list.
	events := DecodeInput(gridReport(1, 0x50, 3), state, time.Now())
	assert.Equal(t, map[byte]bool{0: true, 2: true}, pressedSet(events))
}

func TestDecodeNavPressRelease(t *testing.T) {
	t.Parallel()

	state := NewPressState()
	now := time.Now()

	events := DecodeInput(navReport(0x01, NavP1), state, now)
	require.Len(t, events, 1)
	assert.Equal(t, NavP1, events[0].Code)
	assert.True(t, events[0].Pressed)
	assert.True(t, events[0].IsNav())

	events = DecodeInput(navReport(0x00, 0x00), state, now)
	require.Len(t, events, 1)
	assert.Equal(t, NavP1, events[0].Code)
	assert.False(t, events[0].Pressed)
}

func TestDecodeNavReleaseWithoutPress(t *testing.T) {
	t.Parallel()

	state := NewPressState()
	events := DecodeInput(navReport(0x00, 0x00), state, time.Now())
	assert.Empty(t, events)
}

func TestDecodeNavRepeatedDown(t *testing.T) {
	t.Parallel()

	state := NewPressState()
	now := time.Now()

	first := DecodeInput(navReport(0x01, NavP2), state, now)
	require.Len(t, first, 1)

	repeat := DecodeInput(navReport(0x01, NavP2), state, now)
	assert.Empty(t, repeat)

	// Release still fires once.
	up := DecodeInput(navReport(0x00, 0x00), state, now)
	require.Len(t, up, 1)
	assert.Equal(t, NavP2, up[0].Code)
	assert.False(t, up[0].Pressed)
}

func TestDecodeNavShapeWinsOverGrid(t *testing.T) {
	t.Parallel()

	state := NewPressState()
	now := time.Now()

	// A navigation report with trailing bytes that would parse as pressed
	// grid keys must not touch the grid state.
	report := append(navReport(0x01, NavP1), 0x01, 0x02, 0x00)
	events := DecodeInput(report, state, now)
	require.Len(t, events, 1)
	assert.Equal(t, NavP1, events[0].Code)

	// An empty grid snapshot produces no releases: the spurious bytes were
	// never recorded as presses.
	events = DecodeInput(gridReport(), state, now)
	assert.Empty(t, events)
}

func TestDecodeIgnoresMalformed(t *testing.T) {
	t.Parallel()

	state := NewPressState()
	now := time.Now()

	cases := [][]byte{
		nil,
		{},
		{0x11},
		{0x11, 0xff, 0x0b},
		{0x13, 0xff, 0x02, 0x00, 0x00},             // too short for grid
		{0x13, 0xff, 0x02, 0x00, 0x00, 0x02, 0x01}, // wrong marker byte
		{0xde, 0xad, 0xbe, 0xef, 0x00, 0x00, 0x00},
	}
	for _, report := range cases {
		assert.Empty(t, DecodeInput(report, state, now))
	}
}
