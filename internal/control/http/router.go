// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package http serves read-only session diagnostics: the registry as other
// processes see it, health and Prometheus metrics.
package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/mmsession/internal/domain/session/lifecycle"
	"github.com/ManuGH/mmsession/internal/domain/session/model"
	"github.com/ManuGH/mmsession/internal/introspect"
	"github.com/ManuGH/mmsession/internal/version"
)

// Sessions is the read side the router exposes.
type Sessions interface {
	List(ctx context.Context) ([]introspect.Entry, error)
	Inspect(ctx context.Context, pid int) (introspect.Entry, error)
	Stale(ctx context.Context) ([]introspect.Entry, error)
}

// Config wires the diagnostics router.
type Config struct {
	Sessions Sessions

	// Gatherer defaults to the default Prometheus registry.
	Gatherer prometheus.Gatherer

	// RateLimit requests per RateWindow per client IP on /v1.
	RateLimit  int
	RateWindow time.Duration

	Service        string
	TracerProvider trace.TracerProvider
}

func (c Config) withDefaults() Config {
	if c.Gatherer == nil {
		c.Gatherer = prometheus.DefaultGatherer
	}
	if c.RateLimit <= 0 {
		c.RateLimit = 60
	}
	if c.RateWindow <= 0 {
		c.RateWindow = time.Minute
	}
	if c.Service == "" {
		c.Service = "mmsession"
	}
	if c.TracerProvider == nil {
		c.TracerProvider = otel.GetTracerProvider()
	}
	return c
}

// NewRouter builds the diagnostics handler.
func NewRouter(cfg Config) http.Handler {
	cfg = cfg.withDefaults()
	h := &handlers{sessions: cfg.Sessions}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(recoverer)
	r.Use(tracing(cfg.Service, cfg.TracerProvider))

	r.Get("/healthz", h.health)
	r.Get("/readyz", h.ready)
	r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Use(rateLimit(cfg.RateLimit, cfg.RateWindow))
		r.Get("/sessions", h.listSessions)
		r.Get("/sessions/{pid}", h.getSession)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusNotFound, "system/not_found", "Not Found", "NOT_FOUND", "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusMethodNotAllowed, "system/method_not_allowed", "Method Not Allowed", "METHOD_NOT_ALLOWED", "")
	})
	return r
}

type handlers struct {
	sessions Sessions
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, healthResponse{Status: "ok", Version: version.Version})
}

const readyTimeout = 2 * time.Second

type readyResponse struct {
	Ready  bool   `json:"ready"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ready reports whether the registry backend answers a listing in time.
func (h *handlers) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()
	if _, err := h.sessions.List(ctx); err != nil {
		writeJSON(w, r, http.StatusServiceUnavailable, readyResponse{Status: "unhealthy", Error: err.Error()})
		return
	}
	writeJSON(w, r, http.StatusOK, readyResponse{Ready: true, Status: "healthy"})
}

type listResponse struct {
	Sessions []introspect.Entry `json:"sessions"`
}

// listSessions serves every record, or only orphaned ones with ?stale=true.
func (h *handlers) listSessions(w http.ResponseWriter, r *http.Request) {
	var (
		entries []introspect.Entry
		err     error
	)
	if stale, _ := strconv.ParseBool(r.URL.Query().Get("stale")); stale {
		entries, err = h.sessions.Stale(r.Context())
	} else {
		entries, err = h.sessions.List(r.Context())
	}
	if err != nil {
		writeSessionError(w, r, err)
		return
	}
	if entries == nil {
		entries = []introspect.Entry{}
	}
	writeJSON(w, r, http.StatusOK, listResponse{Sessions: entries})
}

func (h *handlers) getSession(w http.ResponseWriter, r *http.Request) {
	pid, err := strconv.Atoi(chi.URLParam(r, "pid"))
	if err != nil || pid <= 0 {
		writeSessionError(w, r, lifecycle.NewError(model.RInvalidArgument, "pid must be a positive integer", nil))
		return
	}
	entry, err := h.sessions.Inspect(r.Context(), pid)
	if err != nil {
		writeSessionError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, entry)
}
