// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package store

import (
	"context"
	"fmt"

	"github.com/ManuGH/mmsession/internal/domain/session/model"
)

// Backend names accepted by OpenRegistry.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendSqlite = "sqlite"
	BackendRedis  = "redis"
	BackendBadger = "badger"
)

// Options selects and parameterises a registry backend.
type Options struct {
	Backend    string
	Dir        string // file backend directory
	Path       string // sqlite database file or badger directory
	Redis      RedisConfig
	Epoch      model.Epoch
	Instrument bool
}

// OpenRegistry creates a Registry based on the backend configuration.
func OpenRegistry(ctx context.Context, opts Options) (Registry, error) {
	backend := opts.Backend
	if backend == "" {
		backend = BackendFile
	}
	epoch := opts.Epoch
	if epoch == "" {
		epoch = model.EpochPacked
	}
	if !epoch.Valid() {
		return nil, fmt.Errorf("unknown registry epoch: %s", epoch)
	}
	codec := Codec{Epoch: epoch}

	var (
		reg Registry
		err error
	)
	switch backend {
	case BackendFile:
		reg, err = NewFileStore(opts.Dir, codec)
	case BackendMemory:
		reg = NewMemoryStore(codec)
	case BackendSqlite:
		reg, err = NewSqliteStore(opts.Path, codec)
	case BackendRedis:
		reg, err = NewRedisStore(ctx, opts.Redis, codec)
	case BackendBadger:
		reg, err = NewBadgerStore(opts.Path, codec)
	default:
		return nil, fmt.Errorf("unknown registry backend: %s", backend)
	}
	if err != nil {
		return nil, err
	}
	if opts.Instrument {
		reg = NewInstrumentedRegistry(reg, backend)
	}
	return reg, nil
}
