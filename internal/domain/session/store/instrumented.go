// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package store

import (
	"context"
	"time"

	"github.com/ManuGH/mmsession/internal/domain/session/lifecycle"
	"github.com/ManuGH/mmsession/internal/domain/session/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registryOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mmsession_registry_ops_total",
			Help: "Total registry operations",
		},
		[]string{"backend", "op", "code"},
	)
	registryLat = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mmsession_registry_op_seconds",
			Help:    "Registry operation latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "op"},
	)
)

// instrumentedRegistry wraps any Registry to capture metrics.
type instrumentedRegistry struct {
	inner   Registry
	backend string
}

func NewInstrumentedRegistry(inner Registry, backend string) Registry {
	return &instrumentedRegistry{inner: inner, backend: backend}
}

func (i *instrumentedRegistry) observe(op string, start time.Time, err error) {
	code := "ok"
	if err != nil {
		code = string(lifecycle.Code(err))
	}
	registryOps.WithLabelValues(i.backend, op, code).Inc()
	registryLat.WithLabelValues(i.backend, op).Observe(time.Since(start).Seconds())
}

func (i *instrumentedRegistry) Write(ctx context.Context, rec model.Record) (err error) {
	start := time.Now()
	defer func() { i.observe("write", start, err) }()
	return i.inner.Write(ctx, rec)
}

func (i *instrumentedRegistry) Read(ctx context.Context, pid int) (rec model.Record, err error) {
	start := time.Now()
	defer func() { i.observe("read", start, err) }()
	return i.inner.Read(ctx, pid)
}

func (i *instrumentedRegistry) Delete(ctx context.Context, pid int) (err error) {
	start := time.Now()
	defer func() { i.observe("delete", start, err) }()
	return i.inner.Delete(ctx, pid)
}

func (i *instrumentedRegistry) List(ctx context.Context) (recs []model.Record, err error) {
	start := time.Now()
	defer func() { i.observe("list", start, err) }()
	return i.inner.List(ctx)
}

func (i *instrumentedRegistry) Close() error {
	return i.inner.Close()
}
