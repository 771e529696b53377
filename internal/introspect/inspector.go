// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package introspect reads other processes' session records and annotates
// them with the owner's liveness. It never mutates the registry.
package introspect

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ManuGH/mmsession/internal/domain/session/model"
	"github.com/ManuGH/mmsession/internal/domain/session/store"
	xglog "github.com/ManuGH/mmsession/internal/log"
)

// Entry is a registry record as seen from another process.
type Entry struct {
	PID         int    `json:"pid"`
	Type        string `json:"type"`
	TypeOrdinal int    `json:"type_ordinal"`
	Options     int    `json:"options"`
	OptionNames string `json:"option_names"`
	Alive       bool   `json:"alive"`
	ProcessName string `json:"process_name,omitempty"`
}

// Record returns the registry record behind e.
func (e Entry) Record() model.Record {
	return model.Record{PID: e.PID, Type: model.SessionType(e.TypeOrdinal), Options: model.Options(e.Options)}
}

// Inspector lists registry records with process details.
type Inspector struct {
	registry store.Registry
	procs    ProcessTable
	logger   zerolog.Logger
}

// New returns an Inspector. procs defaults to the host process table.
func New(registry store.Registry, procs ProcessTable) *Inspector {
	if procs == nil {
		procs = HostProcesses{}
	}
	return &Inspector{
		registry: registry,
		procs:    procs,
		logger:   xglog.WithComponent("introspect"),
	}
}

// Inspect returns the entry for pid. A pid without a session yields the
// registry's InvalidHandle error.
func (i *Inspector) Inspect(ctx context.Context, pid int) (Entry, error) {
	rec, err := i.registry.Read(ctx, pid)
	if err != nil {
		return Entry{}, err
	}
	return i.annotate(ctx, rec), nil
}

// List returns every readable record in pid order.
func (i *Inspector) List(ctx context.Context) ([]Entry, error) {
	recs, err := i.registry.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, i.annotate(ctx, rec))
	}
	return out, nil
}

// Stale returns the entries whose owning process no longer exists. Such
// records leak when a process dies without running its teardown.
func (i *Inspector) Stale(ctx context.Context) ([]Entry, error) {
	all, err := i.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, e := range all {
		if !e.Alive {
			out = append(out, e)
		}
	}
	return out, nil
}

// Annotate builds an entry for a record obtained elsewhere, such as a
// watcher change.
func (i *Inspector) Annotate(ctx context.Context, rec model.Record) Entry {
	return i.annotate(ctx, rec)
}

func (i *Inspector) annotate(ctx context.Context, rec model.Record) Entry {
	e := Entry{
		PID:         rec.PID,
		Type:        rec.Type.String(),
		TypeOrdinal: int(rec.Type),
		Options:     int(rec.Options),
		OptionNames: rec.Options.String(),
	}
	alive, err := i.procs.Exists(ctx, rec.PID)
	if err != nil {
		i.logger.Debug().Err(err).Int(xglog.FieldOwnerPID, rec.PID).Msg("process lookup failed")
		return e
	}
	e.Alive = alive
	if !alive {
		return e
	}
	if name, err := i.procs.Name(ctx, rec.PID); err == nil {
		e.ProcessName = name
	}
	return e
}
