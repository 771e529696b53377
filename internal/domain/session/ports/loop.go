// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ports

import "errors"

// ErrLoopClosed is returned by Post after the loop stopped accepting work.
var ErrLoopClosed = errors.New("event loop closed")

// Task is a single-shot unit of work run on the owning process's loop.
type Task func()

// EventLoop is the process's cooperative loop. Post must not block and
// must preserve submission order.
type EventLoop interface {
	Post(task Task) error
}

// Platform abstracts process identity so the domain stays off os.Getpid.
type Platform interface {
	PID() int
}
