// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

//go:build !windows

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ManuGH/mmsession/internal/domain/session/model"
	xglog "github.com/ManuGH/mmsession/internal/log"
	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
)

// FileStore keeps one 4-byte file per pid in a shared directory.
type FileStore struct {
	dir    string
	codec  Codec
	logger zerolog.Logger
}

// NewFileStore opens a registry rooted at dir (os.TempDir when empty).
// The directory must already exist.
func NewFileStore(dir string, codec Codec) (*FileStore, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("registry directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("registry directory %s is not a directory", dir)
	}
	return &FileStore{
		dir:    dir,
		codec:  codec,
		logger: xglog.WithComponent("registry").With().Str(xglog.FieldBackend, "file").Logger(),
	}, nil
}

// Dir returns the registry directory.
func (s *FileStore) Dir() string { return s.dir }

// Path returns the record file for pid.
func (s *FileStore) Path(pid int) string {
	return filepath.Join(s.dir, FilePrefix+strconv.Itoa(pid))
}

func (s *FileStore) Write(ctx context.Context, rec model.Record) error {
	if err := checkPID(rec.PID); err != nil {
		return err
	}
	data, err := s.codec.Marshal(rec)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errWrite(rec.PID, err)
	}

	path := s.Path(rec.PID)
	pendingFile, err := renameio.NewPendingFile(path,
		renameio.WithTempDir(s.dir),
		renameio.WithPermissions(FilePerm),
		renameio.IgnoreUmask(),
	)
	if err != nil {
		return errWrite(rec.PID, err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			s.logger.Debug().Err(err).Str(xglog.FieldPath, path).Msg("cleanup pending registry file")
		}
	}()

	if _, err := pendingFile.Write(data); err != nil {
		return errWrite(rec.PID, err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return errWrite(rec.PID, err)
	}
	return nil
}

func (s *FileStore) Read(ctx context.Context, pid int) (model.Record, error) {
	if err := checkPID(pid); err != nil {
		return model.Record{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.Record{}, errRead(pid, err)
	}
	data, err := os.ReadFile(s.Path(pid)) // #nosec G304 -- path is dir + fixed prefix + integer
	if errors.Is(err, fs.ErrNotExist) {
		return model.Record{}, errNoSession(pid, nil)
	}
	if err != nil {
		return model.Record{}, errRead(pid, err)
	}
	return s.codec.Unmarshal(pid, data)
}

func (s *FileStore) Delete(ctx context.Context, pid int) error {
	if err := checkPID(pid); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errRemove(pid, err)
	}
	if err := os.Remove(s.Path(pid)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errNotFound(pid, nil)
		}
		s.logger.Warn().Err(err).Int(xglog.FieldOwnerPID, pid).Msg("remove registry file")
		return errRemove(pid, err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]model.Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list registry directory: %w", err)
	}
	var out []model.Record
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() {
			continue
		}
		pid, ok := ParsePID(e.Name())
		if !ok {
			continue
		}
		rec, err := s.Read(ctx, pid)
		if err != nil {
			s.logger.Debug().Err(err).Int(xglog.FieldOwnerPID, pid).Msg("skip unreadable registry file")
			continue
		}
		out = append(out, rec)
	}
	return sortRecords(out), nil
}

func (s *FileStore) Close() error { return nil }
