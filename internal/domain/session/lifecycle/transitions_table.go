// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package lifecycle

import "github.com/ManuGH/mmsession/internal/domain/session/model"

// Transition is a single allowed edge in the session state machine.
type Transition struct {
	From  State
	To    State
	Event EventKind
}

// Decision records whether an event is allowed in a state and, if not,
// which result code the caller sees.
type Decision struct {
	Allowed bool
	Reason  string
	Code    model.ResultCode
}

const (
	ForbiddenAlreadyOpen  = "already_open"
	ForbiddenRequiresOpen = "requires_open"
)

var transitionsTable = []Transition{
	{From: StateClosed, To: StateOpen, Event: EvOpen},

	{From: StateOpen, To: StateClosed, Event: EvClose},
	{From: StateOpen, To: StateOpen, Event: EvUpdateOption},
	{From: StateOpen, To: StateOpen, Event: EvSetSubSession},
	{From: StateOpen, To: StateOpen, Event: EvSetSubEvent},
	{From: StateOpen, To: StateOpen, Event: EvAddWatch},
	{From: StateOpen, To: StateOpen, Event: EvRemoveWatch},

	// Shutdown is best-effort and idempotent.
	{From: StateOpen, To: StateClosed, Event: EvShutdown},
	{From: StateClosed, To: StateClosed, Event: EvShutdown},
}

func allowed() Decision { return Decision{Allowed: true} }
func forbid(reason string, code model.ResultCode) Decision {
	return Decision{Reason: reason, Code: code}
}

var decisionTable = map[State]map[EventKind]Decision{
	StateClosed: {
		EvOpen:          allowed(),
		EvClose:         forbid(ForbiddenRequiresOpen, model.RInvalidHandle),
		EvUpdateOption:  forbid(ForbiddenRequiresOpen, model.RInvalidHandle),
		EvSetSubSession: forbid(ForbiddenRequiresOpen, model.RInvalidHandle),
		EvSetSubEvent:   forbid(ForbiddenRequiresOpen, model.RInvalidHandle),
		EvAddWatch:      forbid(ForbiddenRequiresOpen, model.RInvalidHandle),
		EvRemoveWatch:   forbid(ForbiddenRequiresOpen, model.RInvalidHandle),
		EvShutdown:      allowed(),
	},
	StateOpen: {
		EvOpen:          forbid(ForbiddenAlreadyOpen, model.RPolicyDuplicated),
		EvClose:         allowed(),
		EvUpdateOption:  allowed(),
		EvSetSubSession: allowed(),
		EvSetSubEvent:   allowed(),
		EvAddWatch:      allowed(),
		EvRemoveWatch:   allowed(),
		EvShutdown:      allowed(),
	},
}

// TransitionFor returns the edge for (from, ev) if one exists.
func TransitionFor(from State, ev EventKind) (Transition, bool) {
	for _, tr := range transitionsTable {
		if tr.From == from && tr.Event == ev {
			return tr, true
		}
	}
	return Transition{}, false
}

// DecisionFor returns the explicit decision for (from, ev).
func DecisionFor(from State, ev EventKind) (Decision, bool) {
	row, ok := decisionTable[from]
	if !ok {
		return Decision{}, false
	}
	d, ok := row[ev]
	return d, ok
}

// Guard returns nil if ev is allowed in from, or a typed error otherwise.
func Guard(from State, ev EventKind) error {
	d, ok := DecisionFor(from, ev)
	if !ok {
		return NewError(model.RInvalidArgument, "unknown event "+ev.String(), nil)
	}
	if d.Allowed {
		return nil
	}
	return NewError(d.Code, ev.String()+" "+d.Reason, nil)
}
