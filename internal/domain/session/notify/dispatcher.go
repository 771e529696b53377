// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package notify moves arbiter callbacks off the arbiter's goroutine and
// onto the owning process's event loop.
package notify

import (
	"time"

	"github.com/ManuGH/mmsession/internal/domain/session/ports"
	xglog "github.com/ManuGH/mmsession/internal/log"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	kindMonitor = "monitor"
	kindWatch   = "watch"
)

// Dispatcher builds the callbacks handed to the arbiter. Each callback
// translates its arguments, captures them with the user context current at
// callback time and posts a single-shot delivery task. User code never runs
// on the arbiter goroutine.
type Dispatcher struct {
	loop    ports.EventLoop
	logger  zerolog.Logger
	dropLog rate.Sometimes
}

func NewDispatcher(loop ports.EventLoop, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		loop:    loop,
		logger:  logger.With().Str(xglog.FieldComponent, "notify").Logger(),
		dropLog: rate.Sometimes{First: 1, Interval: 10 * time.Second},
	}
}

// MonitorCallback returns the arbiter callback bound to slot.
func (d *Dispatcher) MonitorCallback(slot *MonitorSlot) ports.MonitorCallback {
	return func(h ports.Handle, src ports.EventSource, cmd ports.Command) ports.CallbackResult {
		if slot == nil {
			countNotification(kindMonitor, resultIgnored)
			return ports.CallbackIgnore
		}
		msg, res, ok := TranslateCommand(cmd)
		if !ok {
			countNotification(kindMonitor, resultIgnored)
			return ports.CallbackNone
		}
		ev := TranslateSource(src)
		_, userCtx := slot.Callback()

		id := uuid.NewString()
		d.schedule(kindMonitor, id, func() {
			// The slot may have been cleared after scheduling.
			fn, _ := slot.Callback()
			if fn == nil {
				countNotification(kindMonitor, resultNoop)
				return
			}
			fn(msg, ev, userCtx)
			countNotification(kindMonitor, resultDelivered)
			d.logger.Debug().
				Str(xglog.FieldEvent, "notify.delivered").
				Str(xglog.FieldDeliveryID, id).
				Msg("monitor notification delivered")
		}, func(e *zerolog.Event) {
			e.Int(xglog.FieldHandle, int(h)).
				Str(xglog.FieldCommand, cmd.String()).
				Str("msg", msg.String()).
				Str("domain_event", ev.String())
		})
		return res
	}
}

// WatchCallback returns the arbiter callback bound to slot. Kinds and
// states outside the watch tables are reported back as CallbackIgnore and
// produce no delivery.
func (d *Dispatcher) WatchCallback(slot *WatchSlot) ports.WatchCallback {
	return func(h ports.Handle, kind ports.EventKind, st ports.PlayState) ports.CallbackResult {
		ev, ok := TranslateWatchEvent(kind)
		if !ok || slot == nil {
			countNotification(kindWatch, resultIgnored)
			return ports.CallbackIgnore
		}
		wst, ok := TranslateWatchState(st)
		if !ok {
			countNotification(kindWatch, resultIgnored)
			return ports.CallbackIgnore
		}
		_, userCtx := slot.Callback()

		id := uuid.NewString()
		d.schedule(kindWatch, id, func() {
			fn, _ := slot.Callback()
			if fn == nil {
				countNotification(kindWatch, resultNoop)
				return
			}
			fn(ev, wst, userCtx)
			countNotification(kindWatch, resultDelivered)
			d.logger.Debug().
				Str(xglog.FieldEvent, "notify.delivered").
				Str(xglog.FieldDeliveryID, id).
				Msg("watch notification delivered")
		}, func(e *zerolog.Event) {
			e.Str(xglog.FieldWatchEvent, ev.String()).
				Str(xglog.FieldWatchState, wst.String())
		})
		return ports.CallbackNone
	}
}

func (d *Dispatcher) schedule(kind, id string, task ports.Task, fields func(*zerolog.Event)) {
	if err := d.loop.Post(task); err != nil {
		countNotification(kind, resultDropped)
		d.dropLog.Do(func() {
			d.logger.Warn().
				Err(err).
				Str(xglog.FieldEvent, "notify.dropped").
				Str(xglog.FieldKind, kind).
				Str(xglog.FieldDeliveryID, id).
				Msg("notification dropped")
		})
		return
	}
	countNotification(kind, resultScheduled)
	e := d.logger.Debug().
		Str(xglog.FieldEvent, "notify.scheduled").
		Str(xglog.FieldKind, kind).
		Str(xglog.FieldDeliveryID, id)
	if fields != nil {
		fields(e)
	}
	e.Msg("notification scheduled")
}
