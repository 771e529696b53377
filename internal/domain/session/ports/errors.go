// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package ports

import "errors"

// ErrArbiter is matched by every *Error.
var ErrArbiter = errors.New("arbiter call failed")

// ErrorCode is the arbiter's fixed failure vocabulary.
type ErrorCode string

const (
	CodeCannotPlay        ErrorCode = "cannot_play"
	CodeCannotPlayByCall  ErrorCode = "cannot_play_by_call"
	CodeCannotPlayByAlarm ErrorCode = "cannot_play_by_alarm"
	CodeInvalidHandle     ErrorCode = "invalid_handle"
	CodeNotRegistered     ErrorCode = "not_registered"
	CodeUnavailable       ErrorCode = "unavailable"
)

// Error is a typed arbiter failure.
type Error struct {
	Op   string
	Code ErrorCode
}

func (e *Error) Error() string {
	if e == nil {
		return ErrArbiter.Error()
	}
	return "arbiter " + e.Op + ": " + string(e.Code)
}

func (e *Error) Unwrap() error {
	return ErrArbiter
}

// CodeOf extracts the arbiter code from err, if any.
func CodeOf(err error) (ErrorCode, bool) {
	var aerr *Error
	if errors.As(err, &aerr) && aerr != nil {
		return aerr.Code, true
	}
	return "", false
}
