// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ManuGH/mmsession/internal/domain/session/lifecycle"
	"github.com/ManuGH/mmsession/internal/domain/session/model"
	"github.com/ManuGH/mmsession/internal/introspect"
	xglog "github.com/ManuGH/mmsession/internal/log"
)

func newListCmd(a *app) *cobra.Command {
	var (
		stale  bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List open sessions in the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			reg, err := a.openRegistry(ctx)
			if err != nil {
				return err
			}
			defer reg.Close()

			insp := introspect.New(reg, nil)
			list := insp.List
			if stale {
				list = insp.Stale
			}
			entries, err := list(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			return writeTable(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().BoolVar(&stale, "stale", false, "only records whose owner process is gone")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect PID",
		Short: "Show the session record of one process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := strconv.Atoi(args[0])
			if err != nil || pid <= 0 {
				return lifecycle.NewError(model.RInvalidArgument, fmt.Sprintf("pid must be a positive integer, got %q", args[0]), err)
			}
			ctx := cmd.Context()
			reg, err := a.openRegistry(ctx)
			if err != nil {
				return err
			}
			defer reg.Close()

			entry, err := introspect.New(reg, nil).Inspect(ctx, pid)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), entry)
		},
	}
}

func newPruneCmd(a *app) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete records left behind by processes that no longer exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			reg, err := a.openRegistry(ctx)
			if err != nil {
				return err
			}
			defer reg.Close()

			stale, err := introspect.New(reg, nil).Stale(ctx)
			if err != nil {
				return err
			}
			logger := xglog.WithComponent("registry")
			out := cmd.OutOrStdout()
			for _, e := range stale {
				if dryRun {
					fmt.Fprintf(out, "would remove %s\n", e.Record())
					continue
				}
				if err := reg.Delete(ctx, e.PID); err != nil {
					logger.Warn().Err(err).
						Str(xglog.FieldEvent, "registry.prune_failed").
						Int(xglog.FieldOwnerPID, e.PID).
						Msg("failed to remove stale record")
					continue
				}
				logger.Info().
					Str(xglog.FieldEvent, "registry.pruned").
					Int(xglog.FieldOwnerPID, e.PID).
					Str(xglog.FieldSessionType, e.Type).
					Msg("removed stale record")
				fmt.Fprintf(out, "removed %s\n", e.Record())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report without deleting")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, entries []introspect.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PID\tTYPE\tOPTIONS\tALIVE\tPROCESS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\n", e.PID, e.Type, model.Options(e.Options), e.Alive, e.ProcessName)
	}
	return tw.Flush()
}
