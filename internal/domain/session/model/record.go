// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package model

import "fmt"

// Record is the persisted registry entry for one process.
// At most one record exists per PID; no record means no open session.
type Record struct {
	PID     int         `json:"pid"`
	Type    SessionType `json:"type"`
	Options Options     `json:"options"`
}

func (r Record) String() string {
	return fmt.Sprintf("pid=%d type=%s options=%s", r.PID, r.Type, r.Options)
}

// Epoch selects the registry word layout.
type Epoch string

const (
	// EpochPacked stores type<<16 | options in a single 32-bit word.
	EpochPacked Epoch = "packed"
	// EpochLegacy stores the raw type ordinal only; options do not exist.
	EpochLegacy Epoch = "legacy"
)

// Valid reports whether e names a known layout.
func (e Epoch) Valid() bool {
	return e == EpochPacked || e == EpochLegacy
}

const (
	typeShift = 16
	optMask   = 0xFFFF
)

// Pack combines t and o into the packed-epoch registry word.
// Callers validate ranges first; out-of-range bits are truncated.
func Pack(t SessionType, o Options) uint32 {
	return uint32(t)<<typeShift | uint32(o)&optMask
}

// Unpack splits a packed-epoch registry word.
func Unpack(w uint32) (SessionType, Options) {
	return SessionType(w >> typeShift), Options(w & optMask)
}
