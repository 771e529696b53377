// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package store persists one session record per process.
//
// Every backend reports the same typed errors. Read of an absent pid or an
// undecodable word is INVALID_HANDLE and Delete of an absent pid is
// FILE_NOT_FOUND. A storage failure is FILE_READ on Read and FILE_WRITE on
// Write or Delete. Malformed input is INVALID_ARGUMENT.
package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/ManuGH/mmsession/internal/domain/session/lifecycle"
	"github.com/ManuGH/mmsession/internal/domain/session/model"
)

// Registry is the durable pid -> (type, options) map.
type Registry interface {
	Write(ctx context.Context, rec model.Record) error
	Read(ctx context.Context, pid int) (model.Record, error)
	Delete(ctx context.Context, pid int) error
	// List returns every decodable record ordered by pid.
	List(ctx context.Context) ([]model.Record, error)
	Close() error
}

func errNoSession(pid int, cause error) error {
	return lifecycle.NewError(model.RInvalidHandle, fmt.Sprintf("no session record for pid %d", pid), cause)
}

func errNotFound(pid int, cause error) error {
	return lifecycle.NewError(model.RFileNotFound, fmt.Sprintf("no session record for pid %d", pid), cause)
}

func errRead(pid int, cause error) error {
	return lifecycle.NewError(model.RFileRead, fmt.Sprintf("read session record for pid %d", pid), cause)
}

func errWrite(pid int, cause error) error {
	return lifecycle.NewError(model.RFileWrite, fmt.Sprintf("write session record for pid %d", pid), cause)
}

func errRemove(pid int, cause error) error {
	return lifecycle.NewError(model.RFileWrite, fmt.Sprintf("remove session record for pid %d", pid), cause)
}

func checkPID(pid int) error {
	if pid <= 0 {
		return lifecycle.NewError(model.RInvalidArgument, fmt.Sprintf("pid %d out of range", pid), nil)
	}
	return nil
}

func sortRecords(recs []model.Record) []model.Record {
	sort.Slice(recs, func(i, j int) bool { return recs[i].PID < recs[j].PID })
	return recs
}
