// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package manager

import (
	"context"

	"github.com/ManuGH/mmsession/internal/domain/session/lifecycle"
	"github.com/ManuGH/mmsession/internal/domain/session/model"
	"github.com/ManuGH/mmsession/internal/domain/session/notify"
	"github.com/ManuGH/mmsession/internal/domain/session/ports"
	xglog "github.com/ManuGH/mmsession/internal/log"
)

var resourceKinds = map[model.SessionType]ports.EventKind{
	model.TypeCall:             ports.KindCall,
	model.TypeVideoCall:        ports.KindVideoCall,
	model.TypeVoIP:             ports.KindVoIP,
	model.TypeVoiceRecognition: ports.KindVoiceRecognition,
	model.TypeRecordAudio:      ports.KindRecordAudio,
	model.TypeRecordVideo:      ports.KindRecordVideo,
}

// ResourceKind returns the arbiter event kind a session type registers
// under. Only resource-bearing types have one.
func ResourceKind(t model.SessionType) (ports.EventKind, bool) {
	if !lifecycle.ResourceBearing(t) {
		return 0, false
	}
	return resourceKinds[t], true
}

// ResourceMask returns the hardware capacity a session type reserves.
func ResourceMask(t model.SessionType) ports.Resource {
	switch t {
	case model.TypeVideoCall:
		return ports.ResourceCamera | ports.ResourceVideoOverlay
	case model.TypeRecordVideo:
		return ports.ResourceCamera | ports.ResourceVideoOverlay | ports.ResourceHWEncoder
	default:
		return ports.ResourceNone
	}
}

// registrationError maps an arbiter refusal to the policy error callers see.
func registrationError(err error) error {
	code, _ := ports.CodeOf(err)
	switch code {
	case ports.CodeCannotPlayByCall:
		return lifecycle.NewError(model.RPolicyBlockedByCall, "arbiter refused registration", err)
	case ports.CodeCannotPlayByAlarm:
		return lifecycle.NewError(model.RPolicyBlockedByAlarm, "arbiter refused registration", err)
	default:
		return lifecycle.NewError(model.RPolicyBlocked, "arbiter refused registration", err)
	}
}

// handleError maps any other arbiter failure.
func handleError(op string, err error) error {
	return lifecycle.NewError(model.RInvalidHandle, "arbiter "+op+" failed", err)
}

// installMonitor registers the monitor slot with the arbiter unless it
// already holds a handle. It reports whether this call installed it.
func (m *Manager) installMonitor(ctx context.Context, fn notify.MonitorFunc, userCtx any) (bool, error) {
	if fn == nil {
		return false, nil
	}
	m.monitor.Lock()
	defer m.monitor.Unlock()

	if m.monitor.Handle().Installed() {
		m.monitor.SetCallback(fn, userCtx)
		return false, nil
	}
	m.monitor.SetCallback(fn, userCtx)
	if err := m.registerMonitorLocked(ctx); err != nil {
		m.monitor.SetCallback(nil, nil)
		return false, err
	}
	return true, nil
}

// registerMonitorLocked registers the slot's callback with the arbiter.
// The slot lock must be held.
func (m *Manager) registerMonitorLocked(ctx context.Context) error {
	h, err := m.arbiter.Register(ctx, ports.Registration{
		Kind:    ports.KindMonitor,
		State:   ports.StateNone,
		Monitor: m.dispatcher.MonitorCallback(m.monitor),
	})
	if err != nil {
		return handleError("register monitor", err)
	}
	m.monitor.SetHandle(h)
	m.logger.Debug().
		Str(xglog.FieldEvent, "session.monitor_installed").
		Int(xglog.FieldHandle, int(h)).
		Msg("monitor installed")
	return nil
}

// unregisterMonitorLocked drops the monitor's arbiter handle and keeps the
// callback. The slot lock must be held.
func (m *Manager) unregisterMonitorLocked(ctx context.Context) error {
	h := m.monitor.Handle()
	if !h.Installed() {
		return nil
	}
	if err := m.arbiter.Unregister(ctx, h, ports.KindMonitor); err != nil {
		return handleError("unregister monitor", err)
	}
	m.monitor.SetHandle(ports.NoHandle)
	return nil
}

// releaseMonitorLocked unregisters the monitor. The slot lock must be held.
func (m *Manager) releaseMonitorLocked(ctx context.Context) error {
	if err := m.unregisterMonitorLocked(ctx); err != nil {
		return err
	}
	m.monitor.SetCallback(nil, nil)
	return nil
}

func (m *Manager) releaseMonitor(ctx context.Context) error {
	m.monitor.Lock()
	defer m.monitor.Unlock()
	return m.releaseMonitorLocked(ctx)
}

func (m *Manager) monitorInstalled() bool {
	m.monitor.Lock()
	defer m.monitor.Unlock()
	return m.monitor.Handle().Installed()
}

// registerResource registers resource-bearing types with the arbiter.
// Other types are a no-op.
func (m *Manager) registerResource(ctx context.Context, t model.SessionType) error {
	kind, ok := ResourceKind(t)
	if !ok {
		return nil
	}
	h, err := m.arbiter.Register(ctx, ports.Registration{
		Kind:      kind,
		State:     ports.StatePlaying,
		Resources: ResourceMask(t),
	})
	if err != nil {
		return registrationError(err)
	}
	m.setResource(h, kind)
	m.logger.Debug().
		Str(xglog.FieldEvent, "session.resource_registered").
		Int(xglog.FieldHandle, int(h)).
		Str(xglog.FieldKind, kind.String()).
		Msg("arbiter registration granted")
	return nil
}

// releaseStale drops a resource registration whose record was deleted
// externally or became unreadable. A handle the arbiter no longer knows
// counts as released.
func (m *Manager) releaseStale(ctx context.Context) error {
	m.resMu.Lock()
	defer m.resMu.Unlock()
	if !m.resource.Installed() {
		return nil
	}
	h, kind := m.resource, m.resKind
	if err := m.arbiter.Unregister(ctx, h, kind); err != nil {
		if code, _ := ports.CodeOf(err); code != ports.CodeNotRegistered {
			return handleError("unregister stale", err)
		}
	}
	m.resource = ports.NoHandle
	m.logger.Warn().
		Str(xglog.FieldEvent, "session.stale_registration_released").
		Int(xglog.FieldHandle, int(h)).
		Str(xglog.FieldKind, kind.String()).
		Msg("released registration of a session without record")
	return nil
}

// teardown releases the monitor and then the resource registration. If the
// resource unregister fails the monitor is registered again, so a failed
// Close leaves both registrations in place.
func (m *Manager) teardown(ctx context.Context) error {
	m.monitor.Lock()
	defer m.monitor.Unlock()

	hadMonitor := m.monitor.Handle().Installed()
	if err := m.unregisterMonitorLocked(ctx); err != nil {
		return err
	}
	if err := m.releaseResource(ctx); err != nil {
		if hadMonitor {
			if rerr := m.registerMonitorLocked(ctx); rerr != nil {
				m.monitor.SetCallback(nil, nil)
				m.logger.Warn().Err(rerr).Str(xglog.FieldEvent, "session.rollback_failed").Msg("monitor not restored")
			}
		}
		return err
	}
	m.monitor.SetCallback(nil, nil)
	return nil
}

func (m *Manager) releaseResource(ctx context.Context) error {
	m.resMu.Lock()
	defer m.resMu.Unlock()
	if !m.resource.Installed() {
		return nil
	}
	if err := m.arbiter.Unregister(ctx, m.resource, m.resKind); err != nil {
		return handleError("unregister", err)
	}
	m.resource = ports.NoHandle
	return nil
}
