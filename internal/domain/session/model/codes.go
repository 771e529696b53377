// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package model

// ResultCode is the stable, typed outcome of a session operation.
// Keep these stable: CLI output and diagnostics JSON depend on them.
type ResultCode string

const (
	RNone                 ResultCode = "NONE"
	RUnknown              ResultCode = "UNKNOWN"
	RInvalidArgument      ResultCode = "INVALID_ARGUMENT"
	RInvalidHandle        ResultCode = "INVALID_HANDLE"
	RPolicyDuplicated     ResultCode = "POLICY_DUPLICATED"
	RPolicyBlocked        ResultCode = "POLICY_BLOCKED"
	RPolicyBlockedByCall  ResultCode = "POLICY_BLOCKED_BY_CALL"
	RPolicyBlockedByAlarm ResultCode = "POLICY_BLOCKED_BY_ALARM"
	RFileNotFound         ResultCode = "FILE_NOT_FOUND"
	RFileRead             ResultCode = "FILE_READ"
	RFileWrite            ResultCode = "FILE_WRITE"
	RNotSupported         ResultCode = "NOT_SUPPORTED"
)

// IsPersistence reports whether the code is a registry storage failure.
func (c ResultCode) IsPersistence() bool {
	return c == RFileNotFound || c == RFileRead || c == RFileWrite
}
