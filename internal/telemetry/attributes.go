// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	// Session attributes
	SessionPIDKey        = "session.pid"
	SessionTypeKey       = "session.type"
	SessionOptionsKey    = "session.options"
	SessionResultCodeKey = "session.result_code"
	SessionSubSessionKey = "session.subsession"
	SessionSubEventKey   = "session.subevent"

	// Registry attributes
	RegistryBackendKey = "registry.backend"
	RegistryEpochKey   = "registry.epoch"

	// Watch attributes
	WatchEventKey = "watch.event"
	WatchStateKey = "watch.state"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// SessionAttributes creates session-related span attributes. Empty type
// names are omitted.
func SessionAttributes(pid int, sessionType string, options int) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	attrs = append(attrs, attribute.Int(SessionPIDKey, pid))
	if sessionType != "" {
		attrs = append(attrs, attribute.String(SessionTypeKey, sessionType))
	}
	if options >= 0 {
		attrs = append(attrs, attribute.Int(SessionOptionsKey, options))
	}
	return attrs
}

// RegistryAttributes creates registry-related span attributes.
func RegistryAttributes(backend, epoch string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(RegistryBackendKey, backend),
		attribute.String(RegistryEpochKey, epoch),
	}
}

// WatchAttributes creates watch-related span attributes.
func WatchAttributes(event, state string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(WatchEventKey, event),
		attribute.String(WatchStateKey, state),
	}
}

// ErrorAttributes creates error-related span attributes. errorType is the
// stable result code of the failure.
func ErrorAttributes(_ error, errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
