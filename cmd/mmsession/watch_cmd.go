// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/mmsession/internal/domain/session/store"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow sessions opening, changing and closing (file backend)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs, err := a.fileStore()
			if err != nil {
				return err
			}
			err = runWatcher(cmd.Context(), store.NewWatcher(fs), func(c store.Change) {
				printChange(cmd.OutOrStdout(), c)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

// runWatcher drives w until ctx is done and hands every change to fn.
func runWatcher(ctx context.Context, w *store.Watcher, fn func(store.Change)) error {
	changes := make(chan store.Change, 16)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(changes)
		return w.Run(ctx, changes)
	})
	g.Go(func() error {
		for c := range changes {
			fn(c)
		}
		return nil
	})
	return g.Wait()
}

func printChange(w io.Writer, c store.Change) {
	if c.Op == store.ChangeClosed {
		fmt.Fprintf(w, "%-7s pid=%d\n", c.Op, c.Record.PID)
		return
	}
	fmt.Fprintf(w, "%-7s %s\n", c.Op, c.Record)
}
