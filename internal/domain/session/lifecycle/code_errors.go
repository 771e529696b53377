// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package lifecycle

import (
	"errors"
	"strings"

	"github.com/ManuGH/mmsession/internal/domain/session/model"
)

type codeError struct {
	code   model.ResultCode
	detail string
	err    error
}

func (e *codeError) Error() string {
	msg := string(e.code)
	if e.detail != "" {
		msg += ": " + e.detail
	}
	if e.err != nil {
		msg += ": " + e.err.Error()
	}
	return msg
}

func (e *codeError) Is(target error) bool {
	if target == nil {
		return false
	}
	if target == ErrPersistence {
		return e.code.IsPersistence()
	}
	class := ErrorClass(e.code)
	return class != nil && target == class
}

func (e *codeError) Unwrap() error {
	return e.err
}

// NewError builds a typed error carrying code. detail is free text for logs.
func NewError(code model.ResultCode, detail string, err error) error {
	return &codeError{
		code:   code,
		detail: sanitizeDetail(detail),
		err:    err,
	}
}

// Code extracts the result code from err. nil maps to RNone and
// untyped errors to RUnknown.
func Code(err error) model.ResultCode {
	if err == nil {
		return model.RNone
	}
	var cerr *codeError
	if errors.As(err, &cerr) {
		return cerr.code
	}
	return model.RUnknown
}

// Detail returns the detail text attached by NewError, if any.
func Detail(err error) string {
	var cerr *codeError
	if errors.As(err, &cerr) {
		if cerr.detail == "" && cerr.err != nil {
			return sanitizeDetail(cerr.err.Error())
		}
		return cerr.detail
	}
	return ""
}

func sanitizeDetail(detail string) string {
	if detail == "" {
		return ""
	}
	const maxLen = 160
	clean := strings.ReplaceAll(detail, "\n", " ")
	if len(clean) > maxLen {
		return clean[:maxLen] + "..."
	}
	return clean
}
