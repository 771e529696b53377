// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package store

import (
	"context"
	"sync"

	"github.com/ManuGH/mmsession/internal/domain/session/model"
)

// MemoryStore is an in-process Registry intended for tests and demos.
// Records are kept as encoded words so epoch rules still apply.
type MemoryStore struct {
	mu    sync.RWMutex
	codec Codec
	words map[int][]byte
}

func NewMemoryStore(codec Codec) *MemoryStore {
	return &MemoryStore{
		codec: codec,
		words: make(map[int][]byte),
	}
}

func (m *MemoryStore) Write(ctx context.Context, rec model.Record) error {
	if err := checkPID(rec.PID); err != nil {
		return err
	}
	data, err := m.codec.Marshal(rec)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errWrite(rec.PID, err)
	}
	m.mu.Lock()
	m.words[rec.PID] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Read(ctx context.Context, pid int) (model.Record, error) {
	if err := checkPID(pid); err != nil {
		return model.Record{}, err
	}
	m.mu.RLock()
	data, ok := m.words[pid]
	m.mu.RUnlock()
	if !ok {
		return model.Record{}, errNoSession(pid, nil)
	}
	return m.codec.Unmarshal(pid, data)
}

func (m *MemoryStore) Delete(ctx context.Context, pid int) error {
	if err := checkPID(pid); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.words[pid]; !ok {
		return errNotFound(pid, nil)
	}
	delete(m.words, pid)
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]model.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Record, 0, len(m.words))
	for pid, data := range m.words {
		rec, err := m.codec.Unmarshal(pid, data)
		if err != nil {
			continue
		}
		out = append(out, rec)
	}
	return sortRecords(out), nil
}

// Corrupt replaces pid's stored word with raw bytes.
func (m *MemoryStore) Corrupt(pid int, raw []byte) {
	m.mu.Lock()
	m.words[pid] = append([]byte(nil), raw...)
	m.mu.Unlock()
}

func (m *MemoryStore) Close() error { return nil }
