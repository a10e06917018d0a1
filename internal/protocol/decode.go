package protocol

import "time"

// PressState tracks which buttons are currently down on one device: the set
// of pressed grid keys plus the single tracked navigation button. It is
// owned by that device's monitor loop and must not be shared between
// goroutines.
type PressState struct {
	grid map[byte]struct{}
	nav  byte
}

// NewPressState returns an empty tracker.
func NewPressState() *PressState {
	return &PressState{grid: make(map[byte]struct{})}
}

// DecodeInput parses one inbound report against state and returns the button
// transitions it implies, stamped with now. Reports that match neither shape
// or are too short yield no events and leave state untouched.
func DecodeInput(report []byte, state *PressState, now time.Time) []Event {
	// Navigation reports must be recognized first: while a navigation button
	// is held the device stuffs spurious grid-like bytes into the same
	// report, so a report matching this shape is never also parsed as a grid
	// report.
	if len(report) >= 6 && report[0] == 0x11 && report[1] == 0xff &&
		report[2] == 0x0b && report[3] == 0x00 {
		return decodeNav(report, state, now)
	}

	if len(report) >= 7 && report[0] == 0x13 && report[1] == 0xff &&
		report[2] == 0x02 && report[3] == 0x00 && report[5] == 0x01 {
		return decodeGrid(report, state, now)
	}

	return nil
}

func decodeNav(report []byte, state *PressState, now time.Time) []Event {
	switch {
	case report[4] == 0x01 && (report[5] == NavP1 || report[5] == NavP2):
		if state.nav == report[5] {
			// Repeated down report for the button already tracked.
			return nil
		}
		state.nav = report[5]
		return []Event{{Kind: EventButton, Code: report[5], Pressed: true, Time: now}}

	case report[4] == 0x00 && state.nav != 0:
		code := state.nav
		state.nav = 0
		return []Event{{Kind: EventButton, Code: code, Pressed: false, Time: now}}
	}
	return nil
}

func decodeGrid(report []byte, state *PressState, now time.Time) []Event {
	// Bytes 6+ list every currently pressed key as a 1-based code,
	// terminated by zero. The report is a snapshot, not a transition, so the
	// diff against the previous snapshot produces the events.
	current := make(map[byte]struct{})
	for _, raw := range report[6:] {
		if raw == 0 {
			break
		}
		if raw >= 1 && raw <= KeyCount {
			current[raw-1] = struct{}{}
		}
	}

	var events []Event
	for code := byte(0); code < KeyCount; code++ {
		_, down := current[code]
		_, was := state.grid[code]
		switch {
		case down && !was:
			events = append(events, Event{Kind: EventButton, Code: code, Pressed: true, Time: now})
		case !down && was:
			events = append(events, Event{Kind: EventButton, Code: code, Pressed: false, Time: now})
		}
	}
	state.grid = current
	return events
}
