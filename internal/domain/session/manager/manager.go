// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package manager owns a process's session: the Closed/Open state machine,
// its registry record and its arbiter registrations.
package manager

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/mmsession/internal/domain/session/lifecycle"
	"github.com/ManuGH/mmsession/internal/domain/session/model"
	"github.com/ManuGH/mmsession/internal/domain/session/notify"
	"github.com/ManuGH/mmsession/internal/domain/session/ports"
	"github.com/ManuGH/mmsession/internal/domain/session/store"
	infraplatform "github.com/ManuGH/mmsession/internal/infra/platform"
	xglog "github.com/ManuGH/mmsession/internal/log"
)

const tracerName = "github.com/ManuGH/mmsession/internal/domain/session/manager"

// Config wires a Manager to its collaborators.
type Config struct {
	Registry store.Registry
	Arbiter  ports.Arbiter
	Loop     ports.EventLoop

	// Platform reports the owning pid. Defaults to the running process.
	Platform ports.Platform
	// Logger defaults to the global "session" component logger.
	Logger *zerolog.Logger
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

// Manager is the per-process session context. Create it once at process
// start with New and call Shutdown from the process's teardown sequence.
//
// Calls are not serialized: concurrent Open/Close from several goroutines of
// the same process must be ordered by the caller. Only the monitor slot is
// guarded internally.
type Manager struct {
	pid        int
	registry   store.Registry
	arbiter    ports.Arbiter
	dispatcher *notify.Dispatcher
	tracer     trace.Tracer
	logger     zerolog.Logger

	monitor *notify.MonitorSlot
	watch   *notify.WatchSlot

	resMu    sync.Mutex
	resource ports.Handle
	resKind  ports.EventKind

	closed atomic.Bool
}

// New initializes the per-process session context.
func New(cfg Config) (*Manager, error) {
	if cfg.Registry == nil {
		return nil, errors.New("manager: registry is required")
	}
	if cfg.Arbiter == nil {
		return nil, errors.New("manager: arbiter is required")
	}
	if cfg.Loop == nil {
		return nil, errors.New("manager: event loop is required")
	}
	platform := cfg.Platform
	if platform == nil {
		platform = infraplatform.OS{}
	}
	pid := platform.PID()
	if pid <= 0 {
		return nil, lifecycle.NewError(model.RInvalidArgument, "platform reported a non-positive pid", nil)
	}

	var logger zerolog.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	} else {
		logger = xglog.WithComponent("session")
	}
	logger = logger.With().Int(xglog.FieldPID, pid).Logger()

	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &Manager{
		pid:        pid,
		registry:   cfg.Registry,
		arbiter:    cfg.Arbiter,
		dispatcher: notify.NewDispatcher(cfg.Loop, logger),
		tracer:     tp.Tracer(tracerName),
		logger:     logger,
		monitor:    notify.NewMonitorSlot(),
		watch:      notify.NewWatchSlot(),
		resource:   ports.NoHandle,
	}, nil
}

// PID returns the process id the session is recorded under.
func (m *Manager) PID() int { return m.pid }

func (m *Manager) checkLive() error {
	if m.closed.Load() {
		return lifecycle.NewError(model.RInvalidHandle, "session context shut down", nil)
	}
	return nil
}

// current reads the caller's record and derives the machine state from it.
// Any InvalidHandle read, unreadable records included, is the Closed state.
func (m *Manager) current(ctx context.Context) (lifecycle.State, model.Record, error) {
	rec, err := m.registry.Read(ctx, m.pid)
	if err == nil {
		return lifecycle.StateOpen, rec, nil
	}
	if errors.Is(err, lifecycle.ErrInvalidHandle) {
		return lifecycle.StateClosed, model.Record{}, nil
	}
	return lifecycle.StateClosed, model.Record{}, err
}

// requireOpen returns the caller's record, or the error for ev in Closed.
func (m *Manager) requireOpen(ctx context.Context, ev lifecycle.EventKind) (model.Record, error) {
	state, rec, err := m.current(ctx)
	if err != nil {
		return model.Record{}, err
	}
	if err := lifecycle.Guard(state, ev); err != nil {
		return model.Record{}, err
	}
	return rec, nil
}

func (m *Manager) resourceHandle() (ports.Handle, ports.EventKind) {
	m.resMu.Lock()
	defer m.resMu.Unlock()
	return m.resource, m.resKind
}

func (m *Manager) setResource(h ports.Handle, kind ports.EventKind) {
	m.resMu.Lock()
	m.resource, m.resKind = h, kind
	m.resMu.Unlock()
}
