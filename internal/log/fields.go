// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldPID        = "pid"
	FieldOwnerPID   = "owner_pid"
	FieldRequestID  = "request_id"
	FieldDeliveryID = "delivery_id"

	// Process / arbiter fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldHandle    = "handle"
	FieldOp        = "op"
	FieldKind      = "kind"
	FieldCommand   = "command"

	// Session fields
	FieldSessionType = "session_type"
	FieldOptions     = "options"
	FieldSubSession  = "subsession"
	FieldSubEvent    = "subevent"
	FieldWatchEvent  = "watch_event"
	FieldWatchState  = "watch_state"
	FieldResultCode  = "result_code"

	// State fields
	FieldOldState = "old_state"
	FieldNewState = "new_state"

	// Registry fields
	FieldBackend = "backend"
	FieldEpoch   = "epoch"
	FieldPath    = "path"

	// Network fields
	FieldListen = "listen"
)
