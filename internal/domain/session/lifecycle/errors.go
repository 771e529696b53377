// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package lifecycle

import (
	"errors"

	"github.com/ManuGH/mmsession/internal/domain/session/model"
)

var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrInvalidHandle        = errors.New("invalid handle")
	ErrPolicyDuplicated     = errors.New("session already open")
	ErrPolicyBlocked        = errors.New("blocked by policy")
	ErrPolicyBlockedByCall  = errors.New("blocked by call")
	ErrPolicyBlockedByAlarm = errors.New("blocked by alarm")
	ErrFileNotFound         = errors.New("registry record not found")
	ErrFileRead             = errors.New("registry read failed")
	ErrFileWrite            = errors.New("registry write failed")
	ErrNotSupported         = errors.New("not supported")
	ErrUnknown              = errors.New("unknown session error")

	// ErrPersistence matches every registry storage failure.
	ErrPersistence = errors.New("persistence failure")
)

// ErrorClass returns the sentinel a code matches via errors.Is.
func ErrorClass(code model.ResultCode) error {
	switch code {
	case model.RInvalidArgument:
		return ErrInvalidArgument
	case model.RInvalidHandle:
		return ErrInvalidHandle
	case model.RPolicyDuplicated:
		return ErrPolicyDuplicated
	case model.RPolicyBlocked:
		return ErrPolicyBlocked
	case model.RPolicyBlockedByCall:
		return ErrPolicyBlockedByCall
	case model.RPolicyBlockedByAlarm:
		return ErrPolicyBlockedByAlarm
	case model.RFileNotFound:
		return ErrFileNotFound
	case model.RFileRead:
		return ErrFileRead
	case model.RFileWrite:
		return ErrFileWrite
	case model.RNotSupported:
		return ErrNotSupported
	case model.RNone:
		return nil
	default:
		return ErrUnknown
	}
}
