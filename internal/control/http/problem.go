// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package http

import (
	"encoding/json"
	"net/http"

	"github.com/ManuGH/mmsession/internal/domain/session/lifecycle"
	"github.com/ManuGH/mmsession/internal/domain/session/model"
	"github.com/ManuGH/mmsession/internal/log"
)

// HeaderRequestID is the canonical header for request correlation.
const HeaderRequestID = "X-Request-ID"

// JSONKeyRequestID is the canonical JSON key for request correlation.
const JSONKeyRequestID = "requestId"

// writeProblem writes an RFC 7807 problem details response.
//
// code is the stable result code of the failure, e.g. "INVALID_HANDLE".
func writeProblem(w http.ResponseWriter, r *http.Request, status int, problemType, title, code, detail string) {
	reqID := log.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = w.Header().Get(HeaderRequestID)
	}

	res := map[string]any{
		"type":           problemType,
		"title":          title,
		"status":         status,
		"code":           code,
		"instance":       r.URL.EscapedPath(),
		JSONKeyRequestID: reqID,
	}
	if detail != "" {
		res["detail"] = detail
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(res); err != nil {
		logger := log.WithComponentFromContext(r.Context(), "http")
		logger.Error().
			Err(err).
			Str(log.FieldEvent, "http.problem_write_failed").
			Msg("failed to encode problem response")
	}
}

// writeSessionError maps a session error to its HTTP status.
func writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	code := lifecycle.Code(err)
	status := http.StatusInternalServerError
	title := "Registry Error"
	switch code {
	case model.RInvalidHandle, model.RFileNotFound:
		status, title = http.StatusNotFound, "No Session"
	case model.RInvalidArgument:
		status, title = http.StatusBadRequest, "Bad Request"
	case model.RNotSupported:
		status, title = http.StatusNotImplemented, "Not Supported"
	}
	writeProblem(w, r, status, "session/"+string(code), title, string(code), lifecycle.Detail(err))
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger := log.WithComponentFromContext(r.Context(), "http")
		logger.Error().
			Err(err).
			Str(log.FieldEvent, "http.write_failed").
			Msg("failed to encode response")
	}
}
