// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package model

// Msg tells a monitor whether its session was interrupted or may resume.
type Msg int

const (
	MsgStop Msg = iota
	MsgResume
)

func (m Msg) String() string {
	switch m {
	case MsgStop:
		return "stop"
	case MsgResume:
		return "resume"
	default:
		return "unknown"
	}
}

// Event is the domain-level cause attached to a monitor notification.
// EventMedia is the default bucket for every unclassified arbiter source.
type Event int

const (
	EventMedia Event = iota
	EventCall
	EventAlarm
	EventEarjackUnplug
	EventResourceConflict
	EventEmergency
	EventNotification
)

var eventNames = map[Event]string{
	EventMedia:            "media",
	EventCall:             "call",
	EventAlarm:            "alarm",
	EventEarjackUnplug:    "earjack_unplug",
	EventResourceConflict: "resource_conflict",
	EventEmergency:        "emergency",
	EventNotification:     "notification",
}

func (e Event) String() string {
	if n, ok := eventNames[e]; ok {
		return n
	}
	return "unknown"
}

// WatchEvent is the kind of foreign session a watch observes.
type WatchEvent int

const (
	WatchCall WatchEvent = iota
	WatchVideoCall
	WatchAlarm

	watchEventNum
)

// WatchEventCount bounds the valid WatchEvent range.
const WatchEventCount = int(watchEventNum)

var watchEventNames = map[WatchEvent]string{
	WatchCall:      "call",
	WatchVideoCall: "video_call",
	WatchAlarm:     "alarm",
}

func (e WatchEvent) String() string {
	if n, ok := watchEventNames[e]; ok {
		return n
	}
	return "unknown"
}

// WatchState is the play state transition a watch fires on.
type WatchState int

const (
	WatchStatePlaying WatchState = iota
	WatchStateStopped

	watchStateNum
)

// WatchStateCount bounds the valid WatchState range.
const WatchStateCount = int(watchStateNum)

func (s WatchState) String() string {
	switch s {
	case WatchStatePlaying:
		return "playing"
	case WatchStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
