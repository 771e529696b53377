// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package platform adapts the host OS to domain ports.
package platform

import "os"

// OS reports the identity of the running process.
type OS struct{}

func (OS) PID() int { return os.Getpid() }

// Fixed reports a constant pid. Tests and the CLI's inspect mode use it.
type Fixed int

func (f Fixed) PID() int { return int(f) }
