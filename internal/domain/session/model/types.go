// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

import (
	"fmt"
	"sort"
	"strings"
)

// SessionType is the audio policy a process declares for itself.
// Exactly one type is active per process; TypeNone is never persisted.
// Ordinals are part of the registry wire format: append only.
type SessionType int

// TypeNone marks the absence of an active session.
const TypeNone SessionType = -1

const (
	TypeMedia SessionType = iota
	TypeMediaRecord
	TypeAlarm
	TypeNotify
	TypeEmergency
	TypeCall
	TypeVideoCall
	TypeVoIP
	TypeVoiceRecognition
	TypeRecordAudio
	TypeRecordVideo

	sessionTypeNum
)

// SessionTypeCount is the size of the current epoch's closed type range.
const SessionTypeCount = int(sessionTypeNum)

var sessionTypeNames = map[SessionType]string{
	TypeNone:             "none",
	TypeMedia:            "media",
	TypeMediaRecord:      "media_record",
	TypeAlarm:            "alarm",
	TypeNotify:           "notify",
	TypeEmergency:        "emergency",
	TypeCall:             "call",
	TypeVideoCall:        "video_call",
	TypeVoIP:             "voip",
	TypeVoiceRecognition: "voice_recognition",
	TypeRecordAudio:      "record_audio",
	TypeRecordVideo:      "record_video",
}

func (t SessionType) String() string {
	if s, ok := sessionTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParseSessionType maps a name produced by String back to its type.
func ParseSessionType(name string) (SessionType, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, s := range sessionTypeNames {
		if s == name && t != TypeNone {
			return t, true
		}
	}
	return TypeNone, false
}

// SessionTypeNames lists the names of every valid session type in ordinal order.
func SessionTypeNames() []string {
	out := make([]string, 0, SessionTypeCount)
	for t := TypeMedia; t < sessionTypeNum; t++ {
		out = append(out, t.String())
	}
	return out
}

// Options is the independent bit-flag set attached to the active session.
type Options int

const (
	OptionPauseOthers                 Options = 0x0001
	OptionUninterruptible             Options = 0x0002
	OptionResumeBySystemOrMediaPaused Options = 0x0010

	// MaxOptions is the widest pattern the packed registry word can carry.
	MaxOptions Options = 0xFFFF
)

var optionNames = map[Options]string{
	OptionPauseOthers:                 "pause_others",
	OptionUninterruptible:             "uninterruptible",
	OptionResumeBySystemOrMediaPaused: "resume_by_system_or_media_paused",
}

// Has reports whether every bit of flag is set.
func (o Options) Has(flag Options) bool {
	return o&flag == flag
}

func (o Options) String() string {
	if o == 0 {
		return "none"
	}
	var parts []string
	rest := o
	for flag, name := range optionNames {
		if o.Has(flag) {
			parts = append(parts, name)
			rest &^= flag
		}
	}
	sort.Strings(parts)
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%04x", int(rest)))
	}
	return strings.Join(parts, "|")
}

// ParseOption maps a flag name such as "pause_others" to its bit.
func ParseOption(name string) (Options, bool) {
	for flag, n := range optionNames {
		if n == name {
			return flag, true
		}
	}
	return 0, false
}

// UpdateKind selects how UpdateOption combines bits with the stored set.
type UpdateKind int

const (
	UpdateAdd UpdateKind = iota
	UpdateRemove

	updateKindNum
)

// UpdateKindCount bounds the valid UpdateKind range.
const UpdateKindCount = int(updateKindNum)

// SubSession refines an active resource-bearing session.
type SubSession int

const (
	SubSessionVoice SubSession = iota
	SubSessionRingtone
	SubSessionMedia
	SubSessionInit
	SubSessionVoiceRecognitionNormal
	SubSessionVoiceRecognitionDrive
	SubSessionRecordStereo
	SubSessionRecordMono

	subSessionNum
)

// SubSessionCount bounds the valid SubSession range.
const SubSessionCount = int(subSessionNum)

var subSessionNames = map[SubSession]string{
	SubSessionVoice:                  "voice",
	SubSessionRingtone:               "ringtone",
	SubSessionMedia:                  "media",
	SubSessionInit:                   "init",
	SubSessionVoiceRecognitionNormal: "vr_normal",
	SubSessionVoiceRecognitionDrive:  "vr_drive",
	SubSessionRecordStereo:           "record_stereo",
	SubSessionRecordMono:             "record_mono",
}

func (s SubSession) String() string {
	if n, ok := subSessionNames[s]; ok {
		return n
	}
	return "unknown"
}

// SubSessionOption is reserved; the only defined value is SubSessionOptionNone.
type SubSessionOption int

const (
	SubSessionOptionNone SubSessionOption = iota

	subSessionOptionNum
)

// SubSessionOptionCount is the reserved option count used for bounds checks.
const SubSessionOptionCount = int(subSessionOptionNum)

// SubEvent refines voice-recognition and recording sessions.
type SubEvent int

const (
	SubEventNone SubEvent = iota
	SubEventShare
	SubEventExclusive

	subEventNum
)

// SubEventCount bounds the valid SubEvent range.
const SubEventCount = int(subEventNum)

var subEventNames = map[SubEvent]string{
	SubEventNone:      "none",
	SubEventShare:     "share",
	SubEventExclusive: "exclusive",
}

func (e SubEvent) String() string {
	if n, ok := subEventNames[e]; ok {
		return n
	}
	return "unknown"
}
