// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package manager

import (
	"context"

	"github.com/ManuGH/mmsession/internal/domain/session/lifecycle"
	"github.com/ManuGH/mmsession/internal/domain/session/model"
	"github.com/ManuGH/mmsession/internal/domain/session/notify"
	xglog "github.com/ManuGH/mmsession/internal/log"
	"github.com/ManuGH/mmsession/internal/telemetry"
)

// AddWatch subscribes fn to play state changes of other processes'
// sessions of kind ev. Only one watch exists per process; adding a new one
// replaces the previous registration.
func (m *Manager) AddWatch(ctx context.Context, ev model.WatchEvent, st model.WatchState, fn notify.WatchFunc, userCtx any) (err error) {
	ctx, span, start := m.begin(ctx, opAddWatch, telemetry.WatchAttributes(ev.String(), st.String())...)
	defer func() { m.end(span, opAddWatch, start, err) }()

	if err := m.checkLive(); err != nil {
		return err
	}
	if _, err := m.requireOpen(ctx, lifecycle.EvAddWatch); err != nil {
		return err
	}
	if err := lifecycle.CheckWatch(ev, st); err != nil {
		return err
	}
	if fn == nil {
		return lifecycle.NewError(model.RInvalidArgument, "watch callback is nil", nil)
	}

	m.watch.Lock()
	defer m.watch.Unlock()

	if prev, ok := m.watch.Installed(); ok {
		if err := m.arbiter.UnsetWatch(ctx, notify.WatchKind(prev.Event), notify.WatchPlayState(prev.State)); err != nil {
			return handleError("unset watch", err)
		}
		m.watch.SetInstalled(notify.WatchKey{}, false)
	}

	m.watch.SetCallback(fn, userCtx)
	if err := m.arbiter.SetWatch(ctx, notify.WatchKind(ev), notify.WatchPlayState(st), m.dispatcher.WatchCallback(m.watch)); err != nil {
		m.watch.SetCallback(nil, nil)
		return handleError("set watch", err)
	}
	m.watch.SetInstalled(notify.WatchKey{Event: ev, State: st}, true)

	m.logger.Debug().
		Str(xglog.FieldEvent, "session.watch_added").
		Str(xglog.FieldWatchEvent, ev.String()).
		Str(xglog.FieldWatchState, st.String()).
		Msg("watch registered")
	return nil
}

// RemoveWatch drops the watch on (ev, st).
func (m *Manager) RemoveWatch(ctx context.Context, ev model.WatchEvent, st model.WatchState) (err error) {
	ctx, span, start := m.begin(ctx, opRemoveWatch, telemetry.WatchAttributes(ev.String(), st.String())...)
	defer func() { m.end(span, opRemoveWatch, start, err) }()

	if err := m.checkLive(); err != nil {
		return err
	}
	if _, err := m.requireOpen(ctx, lifecycle.EvRemoveWatch); err != nil {
		return err
	}
	if err := lifecycle.CheckWatch(ev, st); err != nil {
		return err
	}

	m.watch.Lock()
	defer m.watch.Unlock()

	if err := m.arbiter.UnsetWatch(ctx, notify.WatchKind(ev), notify.WatchPlayState(st)); err != nil {
		return handleError("unset watch", err)
	}
	key := notify.WatchKey{Event: ev, State: st}
	if cur, ok := m.watch.Installed(); ok && cur == key {
		m.watch.SetInstalled(notify.WatchKey{}, false)
		m.watch.SetCallback(nil, nil)
	}

	m.logger.Debug().
		Str(xglog.FieldEvent, "session.watch_removed").
		Str(xglog.FieldWatchEvent, ev.String()).
		Str(xglog.FieldWatchState, st.String()).
		Msg("watch removed")
	return nil
}
