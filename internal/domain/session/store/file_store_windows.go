// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

//go:build windows

package store

import (
	"context"

	"github.com/ManuGH/mmsession/internal/domain/session/lifecycle"
	"github.com/ManuGH/mmsession/internal/domain/session/model"
)

// FileStore is unavailable on windows; use the sqlite or redis backend.
type FileStore struct{}

func NewFileStore(string, Codec) (*FileStore, error) {
	return nil, lifecycle.NewError(model.RNotSupported, "file registry requires a unix host", nil)
}

func (s *FileStore) Dir() string      { return "" }
func (s *FileStore) Path(int) string { return "" }

func (s *FileStore) Write(context.Context, model.Record) error { return errWrite(0, nil) }
func (s *FileStore) Read(_ context.Context, pid int) (model.Record, error) {
	return model.Record{}, errNoSession(pid, nil)
}
func (s *FileStore) Delete(_ context.Context, pid int) error { return errNotFound(pid, nil) }
func (s *FileStore) List(context.Context) ([]model.Record, error) { return nil, nil }
func (s *FileStore) Close() error                                 { return nil }
