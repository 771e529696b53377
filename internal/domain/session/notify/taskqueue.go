// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package notify

import (
	"context"
	"sync"

	"github.com/ManuGH/mmsession/internal/domain/session/ports"
	"github.com/rs/zerolog"
)

// TaskQueue is an unbounded FIFO event loop. Post never blocks, so it is
// safe to call from arbiter goroutines.
type TaskQueue struct {
	mu     sync.Mutex
	tasks  []ports.Task
	closed bool
	wake   chan struct{}
	logger zerolog.Logger
}

func NewTaskQueue(logger zerolog.Logger) *TaskQueue {
	return &TaskQueue{
		wake:   make(chan struct{}, 1),
		logger: logger,
	}
}

// Post enqueues task. It fails with ports.ErrLoopClosed after Close.
func (q *TaskQueue) Post(task ports.Task) error {
	if task == nil {
		return nil
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ports.ErrLoopClosed
	}
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return nil
}

// Len returns the number of queued tasks.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// RunPending runs every task queued at the time of the call, in order,
// and returns how many ran. Tasks posted while running wait for the next call.
func (q *TaskQueue) RunPending() int {
	q.mu.Lock()
	batch := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	for _, task := range batch {
		q.runOne(task)
	}
	return len(batch)
}

func (q *TaskQueue) runOne(task ports.Task) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error().
				Interface("panic", r).
				Str("event", "notify.task_panic").
				Msg("notification task panicked")
		}
	}()
	task()
}

// Run drains the queue until ctx is done or Close is called. Tasks queued
// before Close still run.
func (q *TaskQueue) Run(ctx context.Context) error {
	for {
		q.RunPending()

		q.mu.Lock()
		done := q.closed && len(q.tasks) == 0
		q.mu.Unlock()
		if done {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.wake:
		}
	}
}

// Close stops accepting tasks.
func (q *TaskQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}
