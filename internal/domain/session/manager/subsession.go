// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package manager

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ManuGH/mmsession/internal/domain/session/lifecycle"
	"github.com/ManuGH/mmsession/internal/domain/session/model"
	"github.com/ManuGH/mmsession/internal/domain/session/ports"
	xglog "github.com/ManuGH/mmsession/internal/log"
	"github.com/ManuGH/mmsession/internal/telemetry"
)

// Sub-session and sub-event values live in the arbiter. The local record
// only decides when the calls are legal.

// openRecord returns the open record ev applies to.
func (m *Manager) openRecord(ctx context.Context, ev lifecycle.EventKind) (model.Record, error) {
	if err := m.checkLive(); err != nil {
		return model.Record{}, err
	}
	return m.requireOpen(ctx, ev)
}

// resourceFor returns the handle an open session of type t registered.
func (m *Manager) resourceFor(t model.SessionType) (ports.Handle, error) {
	h, _ := m.resourceHandle()
	if !lifecycle.ResourceBearing(t) || !h.Installed() {
		return ports.NoHandle, lifecycle.NewError(model.RInvalidHandle, "no arbiter registration for "+t.String()+" session", nil)
	}
	return h, nil
}

// SetSubSession refines the active call, recognition or recording session.
func (m *Manager) SetSubSession(ctx context.Context, sub model.SubSession, opt model.SubSessionOption) (err error) {
	ctx, span, start := m.begin(ctx, opSetSubSession, attribute.String(telemetry.SessionSubSessionKey, sub.String()))
	defer func() { m.end(span, opSetSubSession, start, err) }()

	rec, err := m.openRecord(ctx, lifecycle.EvSetSubSession)
	if err != nil {
		return err
	}
	if err := lifecycle.CheckSubSession(sub, opt, rec.Type); err != nil {
		return err
	}
	h, err := m.resourceFor(rec.Type)
	if err != nil {
		return err
	}
	if err := m.arbiter.SetSubSession(ctx, h, int(sub), int(opt)); err != nil {
		return handleError("set subsession", err)
	}
	m.logger.Debug().
		Str(xglog.FieldEvent, "session.subsession_set").
		Str(xglog.FieldSubSession, sub.String()).
		Msg("subsession set")
	return nil
}

// SubSession reads the sub-session back from the arbiter.
func (m *Manager) SubSession(ctx context.Context) (sub model.SubSession, err error) {
	ctx, span, start := m.begin(ctx, opSubSession)
	defer func() { m.end(span, opSubSession, start, err) }()

	rec, err := m.openRecord(ctx, lifecycle.EvSetSubSession)
	if err != nil {
		return 0, err
	}
	h, err := m.resourceFor(rec.Type)
	if err != nil {
		return 0, err
	}
	v, err := m.arbiter.SubSession(ctx, h)
	if err != nil {
		return 0, handleError("get subsession", err)
	}
	return model.SubSession(v), nil
}

// SetSubEvent sets the sub-event of a recognition or recording session.
func (m *Manager) SetSubEvent(ctx context.Context, ev model.SubEvent) (err error) {
	ctx, span, start := m.begin(ctx, opSetSubEvent, attribute.String(telemetry.SessionSubEventKey, ev.String()))
	defer func() { m.end(span, opSetSubEvent, start, err) }()

	rec, err := m.openRecord(ctx, lifecycle.EvSetSubEvent)
	if err != nil {
		return err
	}
	if err := lifecycle.CheckSubEvent(ev, rec.Type); err != nil {
		return err
	}
	h, err := m.resourceFor(rec.Type)
	if err != nil {
		return err
	}
	if err := m.arbiter.SetSubEvent(ctx, h, int(ev)); err != nil {
		return handleError("set subevent", err)
	}
	m.logger.Debug().
		Str(xglog.FieldEvent, "session.subevent_set").
		Str(xglog.FieldSubEvent, ev.String()).
		Msg("subevent set")
	return nil
}

// SubEvent reads the sub-event back from the arbiter.
func (m *Manager) SubEvent(ctx context.Context) (ev model.SubEvent, err error) {
	ctx, span, start := m.begin(ctx, opSubEvent)
	defer func() { m.end(span, opSubEvent, start, err) }()

	rec, err := m.openRecord(ctx, lifecycle.EvSetSubEvent)
	if err != nil {
		return 0, err
	}
	if !lifecycle.ValidSubEvent(rec.Type) {
		return 0, lifecycle.NewError(model.RInvalidArgument, "subevent not valid for "+rec.Type.String(), nil)
	}
	h, err := m.resourceFor(rec.Type)
	if err != nil {
		return 0, err
	}
	v, err := m.arbiter.SubEvent(ctx, h)
	if err != nil {
		return 0, handleError("get subevent", err)
	}
	return model.SubEvent(v), nil
}
