// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ManuGH/mmsession/internal/domain/session/store"
	"github.com/ManuGH/mmsession/internal/persistence/sqlite"
)

func newVerifyCmd(a *app) *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the sqlite registry database for corruption",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := a.cfg.Registry
			if r.Backend != store.BackendSqlite {
				return fmt.Errorf("registry backend %q has no integrity check (sqlite only)", r.Backend)
			}
			if _, err := os.Stat(r.Path); err != nil {
				return fmt.Errorf("registry database: %w", err)
			}
			mode := "quick"
			if full {
				mode = "full"
			}
			problems, err := sqlite.VerifyIntegrity(cmd.Context(), r.Path, mode)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(problems) == 0 {
				fmt.Fprintf(out, "ok (%s check) %s\n", mode, r.Path)
				return nil
			}
			for _, p := range problems {
				fmt.Fprintln(out, p)
			}
			return fmt.Errorf("registry database %s failed %s check with %d problem(s)", r.Path, mode, len(problems))
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "run PRAGMA integrity_check instead of quick_check")
	return cmd
}
