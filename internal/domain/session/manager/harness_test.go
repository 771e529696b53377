// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package manager

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ManuGH/mmsession/internal/domain/session/model"
	"github.com/ManuGH/mmsession/internal/domain/session/notify"
	"github.com/ManuGH/mmsession/internal/domain/session/store"
	"github.com/ManuGH/mmsession/internal/infra/arbiter/loopback"
	"github.com/ManuGH/mmsession/internal/infra/platform"
)

const testPID = 4242

type harness struct {
	mgr   *Manager
	reg   *store.MemoryStore
	arb   *loopback.Arbiter
	loop  *notify.TaskQueue
	spans *tracetest.SpanRecorder
	logs  *syncBuffer
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type harnessOption func(*Config)

// redisRegistry returns a registry on an in-process Redis server the test
// can take down with SetError.
func redisRegistry(t *testing.T) (*miniredis.Miniredis, *store.RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	reg := store.NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), store.Codec{})
	t.Cleanup(func() { _ = reg.Close() })
	return mr, reg
}

func withRegistry(r store.Registry) harnessOption {
	return func(c *Config) { c.Registry = r }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	h := &harness{
		reg:   store.NewMemoryStore(store.Codec{}),
		arb:   loopback.New(),
		spans: tracetest.NewSpanRecorder(),
		logs:  &syncBuffer{},
	}
	logger := zerolog.New(h.logs).Level(zerolog.DebugLevel)
	h.loop = notify.NewTaskQueue(logger)
	cfg := Config{
		Registry:       h.reg,
		Arbiter:        h.arb,
		Loop:           h.loop,
		Platform:       platform.Fixed(testPID),
		Logger:         &logger,
		TracerProvider: sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(h.spans)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	mgr, err := New(cfg)
	require.NoError(t, err)
	h.mgr = mgr
	t.Cleanup(func() { h.loop.Close() })
	return h
}

// failingRegistry wraps a registry and fails writes on demand.
type failingRegistry struct {
	store.Registry
	mu       sync.Mutex
	writeErr error
}

func (f *failingRegistry) failWrites(err error) {
	f.mu.Lock()
	f.writeErr = err
	f.mu.Unlock()
}

func (f *failingRegistry) Write(ctx context.Context, rec model.Record) error {
	f.mu.Lock()
	err := f.writeErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.Registry.Write(ctx, rec)
}

type monitorCall struct {
	msg     model.Msg
	ev      model.Event
	userCtx any
}

type watchCall struct {
	ev      model.WatchEvent
	st      model.WatchState
	userCtx any
}
