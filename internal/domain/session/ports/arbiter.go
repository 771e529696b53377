// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ports

import "context"

// Handle identifies one registration inside the arbiter.
type Handle int

// NoHandle is the uninstalled sentinel.
const NoHandle Handle = -1

// Installed reports whether h refers to a live registration.
func (h Handle) Installed() bool { return h != NoHandle }

// EventKind is the arbiter-side kind a registration is filed under.
type EventKind int

const (
	KindMonitor EventKind = iota
	KindMedia
	KindCall
	KindVideoCall
	KindVoIP
	KindVoiceRecognition
	KindRecordAudio
	KindRecordVideo
	KindAlarm
	KindNotify
	KindEmergency
)

var eventKindNames = map[EventKind]string{
	KindMonitor:          "monitor",
	KindMedia:            "media",
	KindCall:             "call",
	KindVideoCall:        "video_call",
	KindVoIP:             "voip",
	KindVoiceRecognition: "voice_recognition",
	KindRecordAudio:      "record_audio",
	KindRecordVideo:      "record_video",
	KindAlarm:            "alarm",
	KindNotify:           "notify",
	KindEmergency:        "emergency",
}

func (k EventKind) String() string {
	if n, ok := eventKindNames[k]; ok {
		return n
	}
	return "unknown"
}

// EventSource names what caused the arbiter to issue a command.
type EventSource int

const (
	SourceMedia EventSource = iota
	SourceCallStart
	SourceCallEnd
	SourceEarjackUnplug
	SourceResourceConflict
	SourceAlarmStart
	SourceAlarmEnd
	SourceNotifyStart
	SourceNotifyEnd
	SourceEmergencyStart
	SourceEmergencyEnd
	SourceOtherApp
	SourceOtherPlayerApp
)

// Command is what the arbiter asks a monitored process to do.
type Command int

const (
	CommandNone Command = iota
	CommandStop
	CommandPause
	CommandResume
	CommandPlay
)

func (c Command) String() string {
	switch c {
	case CommandStop:
		return "stop"
	case CommandPause:
		return "pause"
	case CommandResume:
		return "resume"
	case CommandPlay:
		return "play"
	default:
		return "none"
	}
}

// PlayState is an arbiter-visible playback state.
type PlayState int

const (
	StateNone PlayState = iota
	StatePlaying
	StateWaiting
	StateStop
	StatePause
	StatePauseByApp
	StateIgnore
)

func (s PlayState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateWaiting:
		return "waiting"
	case StateStop:
		return "stop"
	case StatePause:
		return "pause"
	case StatePauseByApp:
		return "pause_by_app"
	case StateIgnore:
		return "ignore"
	default:
		return "none"
	}
}

// Active reports whether s means a multimedia instance is still in flight.
func (s PlayState) Active() bool {
	switch s {
	case StatePlaying, StateWaiting, StateStop, StatePause, StatePauseByApp:
		return true
	default:
		return false
	}
}

// Resource is a bitmask of hardware capacity a registration reserves.
type Resource int

const (
	ResourceNone         Resource = 0
	ResourceCamera       Resource = 0x01
	ResourceVideoOverlay Resource = 0x04
	ResourceHWEncoder    Resource = 0x08
)

// CallbackResult is what a callback reports back to the arbiter.
type CallbackResult int

const (
	CallbackNone CallbackResult = iota
	CallbackIgnore
	CallbackStop
	CallbackPause
)

func (r CallbackResult) String() string {
	switch r {
	case CallbackIgnore:
		return "ignore"
	case CallbackStop:
		return "stop"
	case CallbackPause:
		return "pause"
	default:
		return "none"
	}
}

// MonitorCallback runs on an arbiter-owned goroutine.
type MonitorCallback func(h Handle, src EventSource, cmd Command) CallbackResult

// WatchCallback runs on an arbiter-owned goroutine.
type WatchCallback func(h Handle, kind EventKind, st PlayState) CallbackResult

// Registration is a request to file a process with the arbiter.
type Registration struct {
	Kind      EventKind
	State     PlayState
	Resources Resource
	Monitor   MonitorCallback
}

// Arbiter is the external cross-process audio policy authority.
// Every call may fail with *Error.
type Arbiter interface {
	Register(ctx context.Context, reg Registration) (Handle, error)
	Unregister(ctx context.Context, h Handle, kind EventKind) error
	ProcessState(ctx context.Context) (PlayState, error)

	SetSubSession(ctx context.Context, h Handle, sub int, opt int) error
	SubSession(ctx context.Context, h Handle) (int, error)
	SetSubEvent(ctx context.Context, h Handle, ev int) error
	SubEvent(ctx context.Context, h Handle) (int, error)

	SetWatch(ctx context.Context, kind EventKind, st PlayState, cb WatchCallback) error
	UnsetWatch(ctx context.Context, kind EventKind, st PlayState) error
}
