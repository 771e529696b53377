// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package store

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ManuGH/mmsession/internal/domain/session/model"
	"github.com/dgraph-io/badger/v4"
)

var badgerPrefix = []byte("pid/")

// BadgerStore keeps the registry in an embedded badger database.
// A badger directory can only be opened by one process at a time, so this
// backend suits a single supervising daemon rather than many writers.
type BadgerStore struct {
	db    *badger.DB
	codec Codec
}

// NewBadgerStore opens the database directory at path. An empty path
// opens an in-memory database.
func NewBadgerStore(path string, codec Codec) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger registry: %w", err)
	}
	return &BadgerStore{db: db, codec: codec}, nil
}

func badgerKey(pid int) []byte {
	key := make([]byte, len(badgerPrefix)+8)
	copy(key, badgerPrefix)
	binary.BigEndian.PutUint64(key[len(badgerPrefix):], uint64(pid))
	return key
}

func (s *BadgerStore) Write(ctx context.Context, rec model.Record) error {
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
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(rec.PID), data)
	})
	if err != nil {
		return errWrite(rec.PID, err)
	}
	return nil
}

func (s *BadgerStore) Read(ctx context.Context, pid int) (model.Record, error) {
	if err := checkPID(pid); err != nil {
		return model.Record{}, err
	}
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(pid))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return model.Record{}, errNoSession(pid, nil)
		}
		return model.Record{}, errRead(pid, err)
	}
	return s.codec.Unmarshal(pid, data)
}

func (s *BadgerStore) Delete(ctx context.Context, pid int) error {
	if err := checkPID(pid); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(badgerKey(pid)); err != nil {
			return err
		}
		return txn.Delete(badgerKey(pid))
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return errNotFound(pid, nil)
		}
		return errRemove(pid, err)
	}
	return nil
}

func (s *BadgerStore) List(ctx context.Context) ([]model.Record, error) {
	var out []model.Record
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(badgerPrefix); it.ValidForPrefix(badgerPrefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			pid := int(binary.BigEndian.Uint64(item.Key()[len(badgerPrefix):]))
			data, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			rec, err := s.codec.Unmarshal(pid, data)
			if err != nil {
				continue
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list badger registry: %w", err)
	}
	return out, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
