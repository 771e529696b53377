// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package notify

import (
	"sync"

	"github.com/ManuGH/mmsession/internal/domain/session/model"
	"github.com/ManuGH/mmsession/internal/domain/session/ports"
)

// MonitorFunc receives interruption and resume notices for the process's own session.
type MonitorFunc func(msg model.Msg, ev model.Event, userCtx any)

// WatchFunc receives play state changes of other processes' sessions.
type WatchFunc func(ev model.WatchEvent, st model.WatchState, userCtx any)

// MonitorSlot is the single per-process monitor registration.
//
// The installation lock guards the arbiter handle. Take it blocking when
// installing and with TryLock on teardown paths, which may race an
// in-flight arbiter callback. The callback pair has its own lock so that
// callbacks never wait on installation.
type MonitorSlot struct {
	mu     sync.Mutex
	handle ports.Handle

	cbMu    sync.RWMutex
	fn      MonitorFunc
	userCtx any
}

func NewMonitorSlot() *MonitorSlot {
	return &MonitorSlot{handle: ports.NoHandle}
}

func (s *MonitorSlot) Lock()         { s.mu.Lock() }
func (s *MonitorSlot) TryLock() bool { return s.mu.TryLock() }
func (s *MonitorSlot) Unlock()       { s.mu.Unlock() }

// Handle returns the arbiter handle. The installation lock must be held.
func (s *MonitorSlot) Handle() ports.Handle { return s.handle }

// SetHandle records the arbiter handle. The installation lock must be held.
func (s *MonitorSlot) SetHandle(h ports.Handle) { s.handle = h }

// SetCallback replaces the user callback and context.
func (s *MonitorSlot) SetCallback(fn MonitorFunc, userCtx any) {
	s.cbMu.Lock()
	s.fn, s.userCtx = fn, userCtx
	s.cbMu.Unlock()
}

// Callback returns the current user callback and context.
func (s *MonitorSlot) Callback() (MonitorFunc, any) {
	s.cbMu.RLock()
	defer s.cbMu.RUnlock()
	return s.fn, s.userCtx
}

// WatchKey identifies a watch registration.
type WatchKey struct {
	Event model.WatchEvent
	State model.WatchState
}

// WatchSlot is the single per-process watch registration.
type WatchSlot struct {
	mu        sync.Mutex
	key       WatchKey
	installed bool

	cbMu    sync.RWMutex
	fn      WatchFunc
	userCtx any
}

func NewWatchSlot() *WatchSlot {
	return &WatchSlot{}
}

func (s *WatchSlot) Lock()         { s.mu.Lock() }
func (s *WatchSlot) TryLock() bool { return s.mu.TryLock() }
func (s *WatchSlot) Unlock()       { s.mu.Unlock() }

// Installed returns the active key. The slot lock must be held.
func (s *WatchSlot) Installed() (WatchKey, bool) { return s.key, s.installed }

// SetInstalled records the active key. The slot lock must be held.
func (s *WatchSlot) SetInstalled(key WatchKey, ok bool) {
	s.key, s.installed = key, ok
}

// SetCallback replaces the user callback and context.
func (s *WatchSlot) SetCallback(fn WatchFunc, userCtx any) {
	s.cbMu.Lock()
	s.fn, s.userCtx = fn, userCtx
	s.cbMu.Unlock()
}

// Callback returns the current user callback and context.
func (s *WatchSlot) Callback() (WatchFunc, any) {
	s.cbMu.RLock()
	defer s.cbMu.RUnlock()
	return s.fn, s.userCtx
}
