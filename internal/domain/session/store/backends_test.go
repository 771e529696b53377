// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ManuGH/mmsession/internal/domain/session/lifecycle"
	"github.com/ManuGH/mmsession/internal/domain/session/model"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	runRegistryContract(t, func(t *testing.T) Registry {
		return NewMemoryStore(Codec{})
	})
}

func TestSqliteStore_Contract(t *testing.T) {
	runRegistryContract(t, func(t *testing.T) Registry {
		s, err := NewSqliteStore(filepath.Join(t.TempDir(), "registry.sqlite"), Codec{})
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestSqliteStore_MigrationIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.sqlite")
	s, err := NewSqliteStore(path, Codec{})
	require.NoError(t, err)
	require.NoError(t, s.Write(context.Background(), model.Record{PID: 9, Type: model.TypeNotify}))
	require.NoError(t, s.Close())

	s, err = NewSqliteStore(path, Codec{})
	require.NoError(t, err)
	defer s.Close()

	var version int
	require.NoError(t, s.DB.QueryRow("PRAGMA user_version").Scan(&version))
	require.Equal(t, schemaVersion, version)

	rec, err := s.Read(context.Background(), 9)
	require.NoError(t, err)
	require.Equal(t, model.TypeNotify, rec.Type)
}

// setupMiniRedis creates a registry backed by an in-process Redis server.
func setupMiniRedis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStoreWithClient(client, Codec{})
	t.Cleanup(func() { _ = s.Close() })
	return mr, s
}

func TestRedisStore_Contract(t *testing.T) {
	runRegistryContract(t, func(t *testing.T) Registry {
		_, s := setupMiniRedis(t)
		return s
	})
}

func TestRedisStore_KeyLayout(t *testing.T) {
	mr, s := setupMiniRedis(t)
	require.NoError(t, s.Write(context.Background(), model.Record{PID: 77, Type: model.TypeCall, Options: model.OptionPauseOthers}))

	raw, err := mr.Get("mmsession:77")
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x00, 0x05, 0x00}, []byte(raw))

	require.NoError(t, mr.Set("mmsession:78", "xx"))
	_, err = s.Read(context.Background(), 78)
	require.ErrorIs(t, err, lifecycle.ErrInvalidHandle)

	recs, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

func TestRedisStore_OutageIsPersistenceError(t *testing.T) {
	ctx := context.Background()
	mr, s := setupMiniRedis(t)
	require.NoError(t, s.Write(ctx, model.Record{PID: 21, Type: model.TypeMedia}))

	mr.SetError("LOADING server is loading the dataset")
	_, err := s.Read(ctx, 21)
	require.ErrorIs(t, err, lifecycle.ErrFileRead)
	require.ErrorIs(t, err, lifecycle.ErrPersistence)
	require.NotErrorIs(t, err, lifecycle.ErrInvalidHandle)

	err = s.Delete(ctx, 21)
	require.ErrorIs(t, err, lifecycle.ErrFileWrite)
	require.NotErrorIs(t, err, lifecycle.ErrFileNotFound)

	mr.SetError("")
	rec, err := s.Read(ctx, 21)
	require.NoError(t, err)
	require.Equal(t, model.TypeMedia, rec.Type)
}

func TestSqliteStore_ClosedDatabaseIsPersistenceError(t *testing.T) {
	ctx := context.Background()
	s, err := NewSqliteStore(filepath.Join(t.TempDir(), "registry.sqlite"), Codec{})
	require.NoError(t, err)
	_, err = s.Read(ctx, 5)
	require.ErrorIs(t, err, lifecycle.ErrInvalidHandle)
	require.NoError(t, s.Close())

	_, err = s.Read(ctx, 5)
	require.Equal(t, model.RFileRead, lifecycle.Code(err))
	require.Equal(t, model.RFileWrite, lifecycle.Code(s.Delete(ctx, 5)))
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	_, err := NewRedisStore(context.Background(), RedisConfig{Addr: "127.0.0.1:1"}, Codec{})
	require.Error(t, err)
}

func TestBadgerStore_Contract(t *testing.T) {
	runRegistryContract(t, func(t *testing.T) Registry {
		s, err := NewBadgerStore("", Codec{})
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestLegacyEpoch_Backends(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(Codec{Epoch: model.EpochLegacy})

	require.NoError(t, s.Write(ctx, model.Record{PID: 3, Type: model.TypeVoIP}))
	rec, err := s.Read(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, model.Record{PID: 3, Type: model.TypeVoIP}, rec)

	err = s.Write(ctx, model.Record{PID: 3, Type: model.TypeVoIP, Options: model.OptionPauseOthers})
	require.ErrorIs(t, err, lifecycle.ErrNotSupported)
}

func TestMemoryStore_CorruptRecord(t *testing.T) {
	s := NewMemoryStore(Codec{})
	s.Corrupt(12, []byte{0, 0, 0x7f, 0})
	_, err := s.Read(context.Background(), 12)
	require.ErrorIs(t, err, lifecycle.ErrInvalidHandle)

	recs, err := s.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, recs)
}
