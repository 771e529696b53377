// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package introspect

import (
	"context"
	"fmt"
	"math"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessTable answers liveness questions about registry owners.
type ProcessTable interface {
	Exists(ctx context.Context, pid int) (bool, error)
	Name(ctx context.Context, pid int) (string, error)
}

// HostProcesses reads the host process table through gopsutil.
type HostProcesses struct{}

func toPID32(pid int) (int32, error) {
	if pid <= 0 || pid > math.MaxInt32 {
		return 0, fmt.Errorf("pid %d out of range", pid)
	}
	return int32(pid), nil
}

func (HostProcesses) Exists(ctx context.Context, pid int) (bool, error) {
	p, err := toPID32(pid)
	if err != nil {
		return false, err
	}
	return process.PidExistsWithContext(ctx, p)
}

func (HostProcesses) Name(ctx context.Context, pid int) (string, error) {
	p, err := toPID32(pid)
	if err != nil {
		return "", err
	}
	proc, err := process.NewProcessWithContext(ctx, p)
	if err != nil {
		return "", err
	}
	return proc.NameWithContext(ctx)
}
