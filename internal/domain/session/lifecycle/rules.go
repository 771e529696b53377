// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package lifecycle

import (
	"fmt"

	"github.com/ManuGH/mmsession/internal/domain/session/model"
)

// ValidSessionType reports whether t is in the closed range of the current epoch.
func ValidSessionType(t model.SessionType) bool {
	return t >= model.TypeMedia && int(t) < model.SessionTypeCount
}

// ResourceBearing reports whether t holds an arbiter registration while open.
func ResourceBearing(t model.SessionType) bool {
	switch t {
	case model.TypeCall, model.TypeVideoCall, model.TypeVoIP,
		model.TypeVoiceRecognition, model.TypeRecordAudio, model.TypeRecordVideo:
		return true
	default:
		return false
	}
}

// ValidSubSession reports whether sub may refine a session of type active.
func ValidSubSession(sub model.SubSession, active model.SessionType) bool {
	switch sub {
	case model.SubSessionVoice, model.SubSessionRingtone, model.SubSessionMedia:
		return active == model.TypeCall || active == model.TypeVideoCall || active == model.TypeVoIP
	case model.SubSessionInit:
		return active == model.TypeVoiceRecognition || active == model.TypeRecordAudio || active == model.TypeRecordVideo
	case model.SubSessionVoiceRecognitionNormal, model.SubSessionVoiceRecognitionDrive:
		return active == model.TypeVoiceRecognition
	case model.SubSessionRecordStereo, model.SubSessionRecordMono:
		return active == model.TypeRecordAudio || active == model.TypeRecordVideo
	default:
		return false
	}
}

// ValidSubEvent reports whether sub events are allowed while active is open.
// The voice-recognition family is the tail of the ordinal range.
func ValidSubEvent(active model.SessionType) bool {
	return active >= model.TypeVoiceRecognition && int(active) < model.SessionTypeCount
}

// ValidSubEventValue bounds-checks a sub event value.
func ValidSubEventValue(ev model.SubEvent) bool {
	return ev >= model.SubEventNone && int(ev) < model.SubEventCount
}

// ValidSubSessionOption bounds-checks against the reserved option count.
func ValidSubSessionOption(opt model.SubSessionOption) bool {
	return opt >= 0 && int(opt) < model.SubSessionOptionCount
}

// ValidSessionOptions accepts any bit pattern the registry word can carry.
func ValidSessionOptions(o model.Options) bool {
	return o >= 0 && o <= model.MaxOptions
}

// ValidUpdateKind bounds-checks an UpdateOption selector.
func ValidUpdateKind(k model.UpdateKind) bool {
	return k >= 0 && int(k) < model.UpdateKindCount
}

// ValidWatch bounds-checks an (event, state) watch key.
func ValidWatch(ev model.WatchEvent, st model.WatchState) bool {
	return ev >= 0 && int(ev) < model.WatchEventCount &&
		st >= 0 && int(st) < model.WatchStateCount
}

// CheckSessionType returns an InvalidArgument error for an out-of-range type.
func CheckSessionType(t model.SessionType) error {
	if !ValidSessionType(t) {
		return NewError(model.RInvalidArgument, fmt.Sprintf("session type %d out of range", int(t)), nil)
	}
	return nil
}

// CheckSubSession validates a SetSubSession request against the active type.
func CheckSubSession(sub model.SubSession, opt model.SubSessionOption, active model.SessionType) error {
	if !ValidSubSession(sub, active) {
		return NewError(model.RInvalidArgument, fmt.Sprintf("subsession %s not allowed for %s", sub, active), nil)
	}
	if !ValidSubSessionOption(opt) {
		return NewError(model.RInvalidArgument, fmt.Sprintf("subsession option %d out of range", int(opt)), nil)
	}
	return nil
}

// CheckSubEvent validates a SetSubEvent request against the active type.
func CheckSubEvent(ev model.SubEvent, active model.SessionType) error {
	if !ValidSubEvent(active) {
		return NewError(model.RInvalidArgument, fmt.Sprintf("sub events not allowed for %s", active), nil)
	}
	if !ValidSubEventValue(ev) {
		return NewError(model.RInvalidArgument, fmt.Sprintf("sub event %d out of range", int(ev)), nil)
	}
	return nil
}

// CheckOptionUpdate validates an UpdateOption request.
func CheckOptionUpdate(kind model.UpdateKind, bits model.Options) error {
	if !ValidUpdateKind(kind) {
		return NewError(model.RInvalidArgument, fmt.Sprintf("update kind %d out of range", int(kind)), nil)
	}
	if !ValidSessionOptions(bits) {
		return NewError(model.RInvalidArgument, fmt.Sprintf("option bits %#x out of range", int(bits)), nil)
	}
	return nil
}

// CheckWatch validates a watch key.
func CheckWatch(ev model.WatchEvent, st model.WatchState) error {
	if !ValidWatch(ev, st) {
		return NewError(model.RInvalidArgument, fmt.Sprintf("watch %d/%d out of range", int(ev), int(st)), nil)
	}
	return nil
}

// ApplyUpdate combines bits with current according to kind.
func ApplyUpdate(current model.Options, kind model.UpdateKind, bits model.Options) model.Options {
	if kind == model.UpdateRemove {
		return current &^ bits
	}
	return current | bits
}
