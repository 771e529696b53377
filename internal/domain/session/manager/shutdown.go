// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package manager

import (
	"context"
	"errors"

	"github.com/ManuGH/mmsession/internal/domain/session/lifecycle"
	"github.com/ManuGH/mmsession/internal/domain/session/notify"
	"github.com/ManuGH/mmsession/internal/domain/session/ports"
	xglog "github.com/ManuGH/mmsession/internal/log"
)

// Shutdown is the process teardown hook. It releases every arbiter
// registration and deletes the caller's record whether or not Close was
// called. Failures are logged and swallowed. Later calls on m return
// InvalidHandle; repeated Shutdown calls do nothing.
func (m *Manager) Shutdown(ctx context.Context) {
	if !m.closed.CompareAndSwap(false, true) {
		return
	}
	ctx, span, start := m.begin(ctx, opShutdown)
	defer func() { m.end(span, opShutdown, start, nil) }()

	// A monitor callback may be in flight on the arbiter goroutine.
	if m.monitor.TryLock() {
		if h := m.monitor.Handle(); h.Installed() {
			if err := m.arbiter.Unregister(ctx, h, ports.KindMonitor); err != nil {
				m.unregisterFailed(err, h, ports.KindMonitor)
			}
			m.monitor.SetHandle(ports.NoHandle)
		}
		m.monitor.SetCallback(nil, nil)
		m.monitor.Unlock()
	} else {
		m.logger.Warn().
			Str(xglog.FieldEvent, "shutdown.monitor_busy").
			Msg("monitor slot busy, skipping unregister")
	}

	if m.watch.TryLock() {
		if key, ok := m.watch.Installed(); ok {
			if err := m.arbiter.UnsetWatch(ctx, notify.WatchKind(key.Event), notify.WatchPlayState(key.State)); err != nil {
				m.unregisterFailed(err, ports.NoHandle, notify.WatchKind(key.Event))
			}
			m.watch.SetInstalled(notify.WatchKey{}, false)
		}
		m.watch.SetCallback(nil, nil)
		m.watch.Unlock()
	}

	m.resMu.Lock()
	if m.resource.Installed() {
		if err := m.arbiter.Unregister(ctx, m.resource, m.resKind); err != nil {
			m.unregisterFailed(err, m.resource, m.resKind)
		}
		m.resource = ports.NoHandle
	}
	m.resMu.Unlock()

	err := m.registry.Delete(ctx, m.pid)
	switch {
	case err == nil:
		recordTransition(lifecycle.StateOpen, lifecycle.EvShutdown)
		m.logger.Info().Str(xglog.FieldEvent, "session.shutdown").Msg("session record removed at shutdown")
	case errors.Is(err, lifecycle.ErrFileNotFound):
	default:
		m.logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "shutdown.delete_failed").
			Msg("registry record not removed at shutdown")
	}
}

func (m *Manager) unregisterFailed(err error, h ports.Handle, kind ports.EventKind) {
	m.logger.Warn().
		Err(err).
		Str(xglog.FieldEvent, "shutdown.unregister_failed").
		Int(xglog.FieldHandle, int(h)).
		Str(xglog.FieldKind, kind.String()).
		Msg("arbiter unregister failed during shutdown")
}
