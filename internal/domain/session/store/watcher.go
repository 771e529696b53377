// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package store

import (
	"context"
	"fmt"

	"github.com/ManuGH/mmsession/internal/domain/session/model"
	xglog "github.com/ManuGH/mmsession/internal/log"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ChangeOp classifies a registry change seen by a Watcher.
type ChangeOp int

const (
	ChangeOpened ChangeOp = iota
	ChangeUpdated
	ChangeClosed
)

func (op ChangeOp) String() string {
	switch op {
	case ChangeOpened:
		return "opened"
	case ChangeUpdated:
		return "updated"
	case ChangeClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Change is one observed registry transition. Record is zero for ChangeClosed
// except for its PID.
type Change struct {
	Op     ChangeOp     `json:"op"`
	Record model.Record `json:"record"`
}

// Watcher follows a file registry directory and reports other processes'
// opens, option updates and closes.
type Watcher struct {
	store  *FileStore
	logger zerolog.Logger
	known  map[int]model.Record
	ready  chan struct{}
}

func NewWatcher(store *FileStore) *Watcher {
	return &Watcher{
		store:  store,
		logger: xglog.WithComponent("registry.watcher"),
		known:  make(map[int]model.Record),
		ready:  make(chan struct{}),
	}
}

// Ready is closed once Run has seeded the existing records.
func (w *Watcher) Ready() <-chan struct{} { return w.ready }

// Run blocks until ctx is done, sending changes to out. Records present at
// start are seeded silently.
func (w *Watcher) Run(ctx context.Context, out chan<- Change) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify.NewWatcher: %w", err)
	}
	defer func() {
		_ = fw.Close()
	}()

	if err := fw.Add(w.store.Dir()); err != nil {
		return fmt.Errorf("watch registry directory %s: %w", w.store.Dir(), err)
	}

	recs, err := w.store.List(ctx)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		w.known[rec.PID] = rec
	}
	w.logger.Info().
		Str(xglog.FieldEvent, "registry.watch_started").
		Str(xglog.FieldPath, w.store.Dir()).
		Int("records", len(recs)).
		Msg("watching session registry")
	close(w.ready)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Str(xglog.FieldEvent, "registry.watch_stopped").Msg("registry watcher stopped")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			change, emit := w.handle(ctx, event)
			if !emit {
				continue
			}
			select {
			case out <- change:
			case <-ctx.Done():
				return nil
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Str(xglog.FieldEvent, "registry.watch_error").Msg("fsnotify watcher error")
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) (Change, bool) {
	pid, ok := ParsePID(event.Name)
	if !ok {
		return Change{}, false
	}

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		if _, err := w.store.Read(ctx, pid); err == nil {
			return Change{}, false
		}
		if _, seen := w.known[pid]; !seen {
			return Change{}, false
		}
		delete(w.known, pid)
		return Change{Op: ChangeClosed, Record: model.Record{PID: pid}}, true
	}

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return Change{}, false
	}
	rec, err := w.store.Read(ctx, pid)
	if err != nil {
		w.logger.Debug().Err(err).Int(xglog.FieldOwnerPID, pid).Msg("registry record not readable yet")
		return Change{}, false
	}
	prev, seen := w.known[pid]
	w.known[pid] = rec
	switch {
	case !seen:
		return Change{Op: ChangeOpened, Record: rec}, true
	case prev != rec:
		return Change{Op: ChangeUpdated, Record: rec}, true
	default:
		return Change{}, false
	}
}
