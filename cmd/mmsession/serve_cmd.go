// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"net"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	controlhttp "github.com/ManuGH/mmsession/internal/control/http"
	"github.com/ManuGH/mmsession/internal/domain/session/store"
	"github.com/ManuGH/mmsession/internal/introspect"
	xglog "github.com/ManuGH/mmsession/internal/log"
	"github.com/ManuGH/mmsession/internal/telemetry"
	"github.com/ManuGH/mmsession/internal/version"
)

const telemetryShutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve registry diagnostics over HTTP",
		Long: "Serve /healthz, /metrics and the read-only /v1/sessions API. " +
			"With the file backend, registry changes are logged as they happen.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	logger := xglog.WithComponent("serve")
	tcfg := a.cfg.Telemetry

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:         tcfg.Enabled,
		Service:         a.cfg.Log.Service,
		Version:         version.Version,
		Environment:     tcfg.Environment,
		RegistryBackend: a.cfg.Registry.Backend,
		RegistryEpoch:   a.cfg.Registry.Epoch,
		Exporter:        tcfg.Exporter,
		Endpoint:        tcfg.Endpoint,
		SamplingRate:    tcfg.SamplingRate,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Str(xglog.FieldEvent, "telemetry.shutdown_failed").Msg("telemetry shutdown failed")
		}
	}()

	reg, err := a.openRegistry(ctx)
	if err != nil {
		return err
	}
	defer reg.Close()

	handler := controlhttp.NewRouter(controlhttp.Config{
		Sessions:       introspect.New(reg, nil),
		RateLimit:      a.cfg.Diagnostics.RateLimit,
		RateWindow:     a.cfg.Diagnostics.RateWindow,
		Service:        a.cfg.Log.Service,
		TracerProvider: tp.TracerProvider(),
	})

	var fs *store.FileStore
	if a.cfg.Registry.Backend == store.BackendFile {
		if fs, err = a.fileStore(); err != nil {
			return err
		}
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", a.cfg.Diagnostics.Listen)
	if err != nil {
		return err
	}
	if a.onListen != nil {
		a.onListen(ln.Addr())
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return controlhttp.Serve(ctx, ln, handler)
	})
	if fs != nil {
		g.Go(func() error {
			return runWatcher(ctx, store.NewWatcher(fs), func(c store.Change) {
				logger.Info().
					Str(xglog.FieldEvent, "registry."+c.Op.String()).
					Int(xglog.FieldOwnerPID, c.Record.PID).
					Str(xglog.FieldSessionType, c.Record.Type.String()).
					Int(xglog.FieldOptions, int(c.Record.Options)).
					Msg("registry change")
			})
		})
	}

	logger.Info().
		Str(xglog.FieldEvent, "serve.started").
		Str(xglog.FieldListen, ln.Addr().String()).
		Str(xglog.FieldBackend, a.cfg.Registry.Backend).
		Msg("mmsession diagnostics started")
	return g.Wait()
}
