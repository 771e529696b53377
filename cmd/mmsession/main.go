// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Command mmsession inspects and exercises the multimedia session registry.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ManuGH/mmsession/internal/domain/session/lifecycle"
	"github.com/ManuGH/mmsession/internal/domain/session/model"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "mmsession: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps session errors to distinct exit statuses so scripts can
// tell a missing session from a bad argument.
func exitCode(err error) int {
	switch lifecycle.Code(err) {
	case model.RNone:
		return 0
	case model.RInvalidArgument:
		return 2
	case model.RInvalidHandle, model.RFileNotFound:
		return 3
	default:
		return 1
	}
}
