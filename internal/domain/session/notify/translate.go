// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package notify

import (
	"github.com/ManuGH/mmsession/internal/domain/session/model"
	"github.com/ManuGH/mmsession/internal/domain/session/ports"
)

var sourceEvents = map[ports.EventSource]model.Event{
	ports.SourceCallStart:        model.EventCall,
	ports.SourceCallEnd:          model.EventCall,
	ports.SourceEarjackUnplug:    model.EventEarjackUnplug,
	ports.SourceResourceConflict: model.EventResourceConflict,
	ports.SourceAlarmStart:       model.EventAlarm,
	ports.SourceAlarmEnd:         model.EventAlarm,
	ports.SourceNotifyStart:      model.EventNotification,
	ports.SourceNotifyEnd:        model.EventNotification,
	ports.SourceEmergencyStart:   model.EventEmergency,
	ports.SourceEmergencyEnd:     model.EventEmergency,
}

// TranslateSource maps an arbiter event source to a domain event.
// Unlisted sources, including media and other-app sources, map to EventMedia.
func TranslateSource(src ports.EventSource) model.Event {
	if ev, ok := sourceEvents[src]; ok {
		return ev
	}
	return model.EventMedia
}

// TranslateCommand maps an arbiter command to the message delivered to the
// monitor and the result reported back. ok is false for commands that are
// not forwarded.
func TranslateCommand(cmd ports.Command) (msg model.Msg, res ports.CallbackResult, ok bool) {
	switch cmd {
	case ports.CommandStop:
		return model.MsgStop, ports.CallbackStop, true
	case ports.CommandPause:
		return model.MsgStop, ports.CallbackPause, true
	case ports.CommandResume, ports.CommandPlay:
		return model.MsgResume, ports.CallbackIgnore, true
	default:
		return 0, ports.CallbackNone, false
	}
}

// TranslateWatchEvent maps an arbiter kind to a watch event; ok is false
// for kinds that are ignored.
func TranslateWatchEvent(kind ports.EventKind) (model.WatchEvent, bool) {
	switch kind {
	case ports.KindCall:
		return model.WatchCall, true
	case ports.KindVideoCall:
		return model.WatchVideoCall, true
	case ports.KindAlarm:
		return model.WatchAlarm, true
	default:
		return 0, false
	}
}

// TranslateWatchState maps an arbiter play state to a watch state; ok is
// false for states that are ignored.
func TranslateWatchState(st ports.PlayState) (model.WatchState, bool) {
	switch st {
	case ports.StatePlaying:
		return model.WatchStatePlaying, true
	case ports.StateStop:
		return model.WatchStateStopped, true
	default:
		return 0, false
	}
}

// WatchKind is the inverse of TranslateWatchEvent.
func WatchKind(ev model.WatchEvent) ports.EventKind {
	switch ev {
	case model.WatchVideoCall:
		return ports.KindVideoCall
	case model.WatchAlarm:
		return ports.KindAlarm
	default:
		return ports.KindCall
	}
}

// WatchPlayState is the inverse of TranslateWatchState.
func WatchPlayState(st model.WatchState) ports.PlayState {
	if st == model.WatchStateStopped {
		return ports.StateStop
	}
	return ports.StatePlaying
}
