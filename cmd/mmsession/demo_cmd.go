// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ManuGH/mmsession/internal/domain/session/lifecycle"
	"github.com/ManuGH/mmsession/internal/domain/session/manager"
	"github.com/ManuGH/mmsession/internal/domain/session/model"
	"github.com/ManuGH/mmsession/internal/domain/session/notify"
	"github.com/ManuGH/mmsession/internal/domain/session/ports"
	"github.com/ManuGH/mmsession/internal/infra/arbiter/loopback"
	"github.com/ManuGH/mmsession/internal/infra/platform"
	xglog "github.com/ManuGH/mmsession/internal/log"
)

type demoOptions struct {
	sessionType model.SessionType
	options     model.Options
	pid         int
	interrupt   bool
	hold        time.Duration
}

func newDemoCmd(a *app) *cobra.Command {
	var (
		opts      demoOptions
		optionCSV string
	)
	cmd := &cobra.Command{
		Use:   "demo TYPE",
		Short: "Open a session against an in-process arbiter and close it again",
		Long: "Runs one session lifecycle against the configured registry using a loopback arbiter.\n" +
			"TYPE is one of: " + strings.Join(model.SessionTypeNames(), ", "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := model.ParseSessionType(args[0])
			if !ok {
				return lifecycle.NewError(model.RInvalidArgument, fmt.Sprintf("unknown session type %q", args[0]), nil)
			}
			opts.sessionType = t
			bits, err := parseOptions(optionCSV)
			if err != nil {
				return err
			}
			opts.options = bits
			return a.demo(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&optionCSV, "options", "", "comma separated options to add after open (pause_others, uninterruptible, resume_by_system_or_media_paused)")
	cmd.Flags().IntVar(&opts.pid, "pid", 0, "record the session under this pid instead of the running process")
	cmd.Flags().BoolVar(&opts.interrupt, "interrupt", false, "simulate an incoming call interrupting and resuming the session")
	cmd.Flags().DurationVar(&opts.hold, "hold", 0, "keep the session open this long before closing")
	return cmd
}

func parseOptions(csv string) (model.Options, error) {
	var bits model.Options
	for _, name := range strings.Split(csv, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		o, ok := model.ParseOption(name)
		if !ok {
			return 0, lifecycle.NewError(model.RInvalidArgument, fmt.Sprintf("unknown option %q", name), nil)
		}
		bits |= o
	}
	return bits, nil
}

func (a *app) demo(ctx context.Context, out io.Writer, opts demoOptions) error {
	reg, err := a.openRegistry(ctx)
	if err != nil {
		return err
	}
	defer reg.Close()

	loop := notify.NewTaskQueue(xglog.WithComponent("notify"))
	defer loop.Close()
	arb := loopback.New()

	var p ports.Platform = platform.OS{}
	if opts.pid > 0 {
		p = platform.Fixed(opts.pid)
	}
	mgr, err := manager.New(manager.Config{
		Registry: reg,
		Arbiter:  arb,
		Loop:     loop,
		Platform: p,
	})
	if err != nil {
		return err
	}
	defer mgr.Shutdown(context.WithoutCancel(ctx))

	monitor := func(msg model.Msg, ev model.Event, _ any) {
		fmt.Fprintf(out, "monitor %s (%s)\n", msg, ev)
	}
	if err := mgr.Open(ctx, opts.sessionType, monitor, nil); err != nil {
		return err
	}
	fmt.Fprintf(out, "opened  %s\n", opts.sessionType)

	if opts.options != 0 {
		if err := mgr.UpdateOption(ctx, model.UpdateAdd, opts.options); err != nil {
			return err
		}
	}
	rec, err := mgr.Current(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "current %s\n", rec)

	if opts.interrupt {
		for _, h := range arb.Handles(ports.KindMonitor) {
			arb.FireMonitor(h, ports.SourceCallStart, ports.CommandPause)
			arb.FireMonitor(h, ports.SourceCallEnd, ports.CommandResume)
		}
		loop.RunPending()
	}

	if opts.hold > 0 {
		timer := time.NewTimer(opts.hold)
		select {
		case <-ctx.Done():
		case <-timer.C:
		}
		timer.Stop()
	}

	if err := mgr.Close(context.WithoutCancel(ctx)); err != nil {
		return err
	}
	fmt.Fprintf(out, "closed  %s\n", opts.sessionType)
	return nil
}
