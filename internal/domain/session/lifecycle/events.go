// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package lifecycle

// State is the per-process session machine state.
// Sub sessions, sub events and watches are attributes of Open, not states.
type State int

const (
	StateClosed State = iota
	StateOpen
)

func (s State) String() string {
	if s == StateOpen {
		return "open"
	}
	return "closed"
}

// EventKind is an operation applied to the session machine.
type EventKind int

const (
	EvUnknown EventKind = iota
	EvOpen
	EvClose
	EvUpdateOption
	EvSetSubSession
	EvSetSubEvent
	EvAddWatch
	EvRemoveWatch
	EvShutdown
)

var eventKindNames = map[EventKind]string{
	EvUnknown:       "unknown",
	EvOpen:          "open",
	EvClose:         "close",
	EvUpdateOption:  "update_option",
	EvSetSubSession: "set_subsession",
	EvSetSubEvent:   "set_subevent",
	EvAddWatch:      "add_watch",
	EvRemoveWatch:   "remove_watch",
	EvShutdown:      "shutdown",
}

func (k EventKind) String() string {
	if n, ok := eventKindNames[k]; ok {
		return n
	}
	return "unknown"
}

// AllEvents lists every machine event except EvUnknown.
func AllEvents() []EventKind {
	return []EventKind{
		EvOpen, EvClose, EvUpdateOption, EvSetSubSession,
		EvSetSubEvent, EvAddWatch, EvRemoveWatch, EvShutdown,
	}
}
