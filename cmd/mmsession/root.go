// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/ManuGH/mmsession/internal/config"
	"github.com/ManuGH/mmsession/internal/domain/session/model"
	"github.com/ManuGH/mmsession/internal/domain/session/store"
	xglog "github.com/ManuGH/mmsession/internal/log"
	"github.com/ManuGH/mmsession/internal/version"
)

// app carries state shared by every subcommand.
type app struct {
	configPath string
	cfg        config.Config

	// onListen, when set, receives the diagnostics address once serve is bound.
	onListen func(net.Addr)
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "mmsession",
		Short:         "Multimedia session registry tool",
		Long:          "Inspect, watch and serve the per-process multimedia session registry.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file (YAML)")

	root.AddCommand(
		newListCmd(a),
		newInspectCmd(a),
		newPruneCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
		newDemoCmd(a),
		newVerifyCmd(a),
		newVersionCmd(),
	)
	return root
}

// load reads configuration and reconfigures logging to match it.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.NewLoader(a.configPath, version.Version).Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	xglog.Reconfigure(xglog.Config{
		Level:   cfg.Log.Level,
		Service: cfg.Log.Service,
		Output:  cmd.ErrOrStderr(),
	})
	source := "env+defaults"
	if a.configPath != "" {
		source = "file"
	}
	logger := xglog.WithComponent("config")
	logger.Debug().
		Str(xglog.FieldEvent, "config.loaded").
		Str("source", source).
		Str(xglog.FieldBackend, cfg.Registry.Backend).
		Str(xglog.FieldEpoch, cfg.Registry.Epoch).
		Msg("configuration loaded")
	return nil
}

func storeOptions(r config.RegistryConfig) store.Options {
	return store.Options{
		Backend: r.Backend,
		Dir:     r.Dir,
		Path:    r.Path,
		Redis: store.RedisConfig{
			Addr:     r.RedisAddr,
			Password: r.RedisPassword,
			DB:       r.RedisDB,
		},
		Epoch:      model.Epoch(r.Epoch),
		Instrument: r.Instrument,
	}
}

func (a *app) openRegistry(ctx context.Context) (store.Registry, error) {
	reg, err := store.OpenRegistry(ctx, storeOptions(a.cfg.Registry))
	if err != nil {
		return nil, fmt.Errorf("open %s registry: %w", a.cfg.Registry.Backend, err)
	}
	return reg, nil
}

// fileStore opens the file backend directly; watch needs its directory.
func (a *app) fileStore() (*store.FileStore, error) {
	if a.cfg.Registry.Backend != store.BackendFile {
		return nil, fmt.Errorf("registry backend %q cannot be watched (file only)", a.cfg.Registry.Backend)
	}
	return store.NewFileStore(a.cfg.Registry.Dir, store.Codec{Epoch: model.Epoch(a.cfg.Registry.Epoch)})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Skips config loading.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
