// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

//go:build !windows

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ManuGH/mmsession/internal/domain/session/lifecycle"
	"github.com/ManuGH/mmsession/internal/domain/session/model"
	"github.com/stretchr/testify/require"
)

func newFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir(), Codec{})
	require.NoError(t, err)
	return s
}

func TestFileStore_Contract(t *testing.T) {
	runRegistryContract(t, func(t *testing.T) Registry {
		return newFileStore(t)
	})
}

func TestFileStore_FileLayout(t *testing.T) {
	s := newFileStore(t)
	rec := model.Record{PID: 321, Type: model.TypeVoIP, Options: model.OptionUninterruptible}
	require.NoError(t, s.Write(context.Background(), rec))

	path := filepath.Join(s.Dir(), "mm_session_321")
	require.Equal(t, path, s.Path(321))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte{0x02, 0x00, 0x07, 0x00}, data)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, FilePerm, info.Mode().Perm())

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files may be left behind")
}

func TestFileStore_TruncatedFileIsInvalidHandle(t *testing.T) {
	s := newFileStore(t)
	require.NoError(t, os.WriteFile(s.Path(55), []byte{0x01}, 0o600))

	_, err := s.Read(context.Background(), 55)
	require.ErrorIs(t, err, lifecycle.ErrInvalidHandle)

	recs, err := s.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestFileStore_IOErrorIsPersistenceError(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)
	require.NoError(t, os.Mkdir(s.Path(56), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(s.Path(56), "x"), nil, 0o600))

	_, err := s.Read(ctx, 56)
	require.Equal(t, model.RFileRead, lifecycle.Code(err))
	require.ErrorIs(t, err, lifecycle.ErrPersistence)

	err = s.Delete(ctx, 56)
	require.Equal(t, model.RFileWrite, lifecycle.Code(err))

	_, err = s.Read(ctx, 57)
	require.ErrorIs(t, err, lifecycle.ErrInvalidHandle)
	require.ErrorIs(t, s.Delete(ctx, 57), lifecycle.ErrFileNotFound)
}

func TestFileStore_ListIgnoresForeignFiles(t *testing.T) {
	s := newFileStore(t)
	require.NoError(t, s.Write(context.Background(), model.Record{PID: 8, Type: model.TypeMedia}))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "mm_session_abc"), []byte{0, 0, 0, 0}, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), ".mm_session_8123"), []byte{0, 0, 0, 0}, 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(s.Dir(), "mm_session_9"), 0o700))

	recs, err := s.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, []model.Record{{PID: 8, Type: model.TypeMedia}}, recs)
}

func TestFileStore_WriteFailsInMissingDir(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, Codec{})
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	err = s.Write(context.Background(), model.Record{PID: 1, Type: model.TypeMedia})
	require.ErrorIs(t, err, lifecycle.ErrFileWrite)
	require.Equal(t, model.RFileWrite, lifecycle.Code(err))
}

func TestNewFileStore_RejectsFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(f, nil, 0o600))
	_, err := NewFileStore(f, Codec{})
	require.Error(t, err)

	_, err = NewFileStore(filepath.Join(t.TempDir(), "missing"), Codec{})
	require.Error(t, err)
}

func TestParsePID(t *testing.T) {
	pid, ok := ParsePID("/tmp/mm_session_1234")
	require.True(t, ok)
	require.Equal(t, 1234, pid)

	for _, name := range []string{"mm_session_", "mm_session_-1", "mm_session_0", ".mm_session_12", "other_12"} {
		_, ok := ParsePID(name)
		require.False(t, ok, name)
	}
}
