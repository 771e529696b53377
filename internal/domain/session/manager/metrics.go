// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package manager

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/mmsession/internal/domain/session/lifecycle"
	"github.com/ManuGH/mmsession/internal/telemetry"
)

const (
	opOpen          = "open"
	opClose         = "close"
	opUpdateOption  = "update_option"
	opCurrent       = "current"
	opSetSubSession = "set_subsession"
	opSubSession    = "subsession"
	opSetSubEvent   = "set_subevent"
	opSubEvent      = "subevent"
	opAddWatch      = "add_watch"
	opRemoveWatch   = "remove_watch"
	opShutdown      = "shutdown"
)

var (
	sessionOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mmsession_session_ops_total",
			Help: "Session operations by result code.",
		},
		[]string{"op", "code"},
	)

	sessionOpSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mmsession_session_op_seconds",
			Help:    "Session operation latency.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"op"},
	)

	sessionTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mmsession_session_transitions_total",
			Help: "Session state machine transitions.",
		},
		[]string{"state_from", "state_to"},
	)
)

// recordTransition counts the edge ev takes out of from.
func recordTransition(from lifecycle.State, ev lifecycle.EventKind) {
	tr, ok := lifecycle.TransitionFor(from, ev)
	if !ok {
		return
	}
	sessionTransitions.WithLabelValues(tr.From.String(), tr.To.String()).Inc()
}

// begin starts the span for op.
func (m *Manager) begin(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time) {
	attrs = append(attrs, telemetry.SessionAttributes(m.pid, "", -1)...)
	ctx, span := m.tracer.Start(ctx, "session."+op, trace.WithAttributes(attrs...))
	return ctx, span, time.Now()
}

// end closes the span and records the outcome of op.
func (m *Manager) end(span trace.Span, op string, start time.Time, err error) {
	code := "ok"
	if err != nil {
		code = string(lifecycle.Code(err))
		span.RecordError(err)
		span.SetAttributes(telemetry.ErrorAttributes(err, code)...)
		span.SetStatus(codes.Error, code)
	}
	sessionOpsTotal.WithLabelValues(op, code).Inc()
	sessionOpSeconds.WithLabelValues(op).Observe(time.Since(start).Seconds())
	span.End()
}
