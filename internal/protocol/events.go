package protocol

import "time"

// EventKind selects which payload fields of an Event are meaningful.
type EventKind int

const (
	// EventButton is a grid or navigation button transition.
	EventButton EventKind = iota

	// EventRotation is a dial rotation step. The keypad itself never emits
	// one; it exists so callbacks share an event model with the dial-equipped
	// devices in this family.
	EventRotation
)

// Device codes for the two navigation buttons below the grid.
const (
	NavP1 byte = 0xa1
	NavP2 byte = 0xa2
)

// Event is one decoded input event.
type Event struct {
	Kind EventKind
	Time time.Time

	// EventButton: Code is a grid index 0-8 or NavP1/NavP2.
	Code    byte
	Pressed bool

	// EventRotation: signed rotation step count.
	Delta int8
}

// IsNav reports whether a button event refers to a navigation button rather
// than a grid key.
func (e Event) IsNav() bool {
	return e.Kind == EventButton && (e.Code == NavP1 || e.Code == NavP2)
}
