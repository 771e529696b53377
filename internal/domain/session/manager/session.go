// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package manager

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ManuGH/mmsession/internal/domain/session/lifecycle"
	"github.com/ManuGH/mmsession/internal/domain/session/model"
	"github.com/ManuGH/mmsession/internal/domain/session/notify"
	xglog "github.com/ManuGH/mmsession/internal/log"
	"github.com/ManuGH/mmsession/internal/telemetry"
)

// Open declares t as the process's session. fn, if non-nil, is installed
// as the monitor and later receives stop/resume notices on the event loop.
//
// A MediaRecord session opened by a sibling subsystem satisfies a request
// for Media: the call succeeds and changes nothing.
func (m *Manager) Open(ctx context.Context, t model.SessionType, fn notify.MonitorFunc, userCtx any) (err error) {
	ctx, span, start := m.begin(ctx, opOpen, attribute.String(telemetry.SessionTypeKey, t.String()))
	defer func() { m.end(span, opOpen, start, err) }()

	if err := m.checkLive(); err != nil {
		return err
	}
	if err := lifecycle.CheckSessionType(t); err != nil {
		return err
	}

	state, rec, err := m.current(ctx)
	if err != nil {
		return err
	}
	if state == lifecycle.StateOpen {
		if rec.Type == model.TypeMediaRecord && t == model.TypeMedia {
			m.logger.Info().
				Str(xglog.FieldEvent, "session.open_confirmed").
				Str(xglog.FieldSessionType, rec.Type.String()).
				Msg("session already opened by recorder")
			return nil
		}
		if err := lifecycle.Guard(state, lifecycle.EvOpen); err != nil {
			m.logger.Warn().
				Str(xglog.FieldEvent, "session.open_duplicated").
				Str(xglog.FieldSessionType, rec.Type.String()).
				Msg("session already open")
			return err
		}
	}

	if err := m.releaseStale(ctx); err != nil {
		return err
	}
	installed, err := m.installMonitor(ctx, fn, userCtx)
	if err != nil {
		return err
	}
	if err := m.registerResource(ctx, t); err != nil {
		m.rollbackOpen(ctx, installed)
		m.logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "session.open_blocked").
			Str(xglog.FieldSessionType, t.String()).
			Str(xglog.FieldResultCode, string(lifecycle.Code(err))).
			Msg("arbiter refused session")
		return err
	}

	if err := m.registry.Write(ctx, model.Record{PID: m.pid, Type: t}); err != nil {
		m.logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "registry.write_failed").
			Str(xglog.FieldSessionType, t.String()).
			Msg("registry write failed, rolling back")
		if rerr := m.releaseResource(ctx); rerr != nil {
			m.logger.Warn().Err(rerr).Str(xglog.FieldEvent, "session.rollback_failed").Msg("rollback unregister failed")
		}
		m.rollbackOpen(ctx, installed)
		return err
	}

	recordTransition(lifecycle.StateClosed, lifecycle.EvOpen)
	m.logger.Info().
		Str(xglog.FieldEvent, "session.open").
		Str(xglog.FieldSessionType, t.String()).
		Msg("session opened")
	return nil
}

// rollbackOpen releases a monitor installed by the failing Open.
func (m *Manager) rollbackOpen(ctx context.Context, installed bool) {
	if !installed {
		return
	}
	if err := m.releaseMonitor(ctx); err != nil {
		m.logger.Warn().Err(err).Str(xglog.FieldEvent, "session.rollback_failed").Msg("rollback monitor failed")
	}
}

// Close ends the session. It is refused with PolicyBlocked while the
// process still has playing media instances, and nothing is torn down.
func (m *Manager) Close(ctx context.Context) (err error) {
	ctx, span, start := m.begin(ctx, opClose)
	defer func() { m.end(span, opClose, start, err) }()

	if err := m.checkLive(); err != nil {
		return err
	}
	rec, err := m.registry.Read(ctx, m.pid)
	if err != nil {
		return err
	}

	if m.monitorInstalled() {
		st, err := m.arbiter.ProcessState(ctx)
		if err != nil {
			return handleError("process state", err)
		}
		if st.Active() {
			m.logger.Warn().
				Str(xglog.FieldEvent, "session.close_blocked").
				Str("play_state", st.String()).
				Msg("media instance still active")
			return lifecycle.NewError(model.RPolicyBlocked, "media instance still "+st.String(), nil)
		}
	}

	if err := m.teardown(ctx); err != nil {
		return err
	}
	if err := m.registry.Delete(ctx, m.pid); err != nil {
		return err
	}

	recordTransition(lifecycle.StateOpen, lifecycle.EvClose)
	m.logger.Info().
		Str(xglog.FieldEvent, "session.close").
		Str(xglog.FieldSessionType, rec.Type.String()).
		Msg("session closed")
	return nil
}

// UpdateOption adds or removes option bits. The session type is kept.
func (m *Manager) UpdateOption(ctx context.Context, kind model.UpdateKind, bits model.Options) (err error) {
	ctx, span, start := m.begin(ctx, opUpdateOption, attribute.Int(telemetry.SessionOptionsKey, int(bits)))
	defer func() { m.end(span, opUpdateOption, start, err) }()

	if err := m.checkLive(); err != nil {
		return err
	}
	if err := lifecycle.CheckOptionUpdate(kind, bits); err != nil {
		return err
	}
	rec, err := m.requireOpen(ctx, lifecycle.EvUpdateOption)
	if err != nil {
		return err
	}

	old := rec.Options
	rec.Options = lifecycle.ApplyUpdate(rec.Options, kind, bits)
	if rec.Options == old {
		return nil
	}
	if err := m.registry.Write(ctx, rec); err != nil {
		return err
	}
	m.logger.Debug().
		Str(xglog.FieldEvent, "session.option_updated").
		Str(xglog.FieldOptions, rec.Options.String()).
		Msg("session options updated")
	return nil
}

// Current returns the caller's own record.
func (m *Manager) Current(ctx context.Context) (rec model.Record, err error) {
	ctx, span, start := m.begin(ctx, opCurrent)
	defer func() { m.end(span, opCurrent, start, err) }()

	if err := m.checkLive(); err != nil {
		return model.Record{}, err
	}
	return m.registry.Read(ctx, m.pid)
}
