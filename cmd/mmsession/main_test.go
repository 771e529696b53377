//go:build !windows

// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ManuGH/mmsession/internal/config"
	"github.com/ManuGH/mmsession/internal/domain/session/lifecycle"
	"github.com/ManuGH/mmsession/internal/domain/session/model"
	"github.com/ManuGH/mmsession/internal/domain/session/store"
	"github.com/ManuGH/mmsession/internal/introspect"
	"github.com/ManuGH/mmsession/internal/version"
)

// deadPID is far above any pid the kernel hands out.
const deadPID = math.MaxInt32 - 16

// fileRegistry points the CLI at a fresh file registry and returns its directory.
func fileRegistry(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvRegistryBackend, "file")
	t.Setenv(config.EnvRegistryDir, dir)
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeRecord(t *testing.T, dir string, rec model.Record) {
	t.Helper()
	fs, err := store.NewFileStore(dir, store.Codec{Epoch: model.EpochPacked})
	require.NoError(t, err)
	require.NoError(t, fs.Write(context.Background(), rec))
}

func TestVersion_SkipsConfig(t *testing.T) {
	t.Setenv(config.EnvRegistryBackend, "etcd")
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version.String()+"\n", out)
}

func TestInvalidConfigFails(t *testing.T) {
	t.Setenv(config.EnvRegistryBackend, "etcd")
	_, err := execute(t, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry.backend")
}

func TestDemo_FullLifecycle(t *testing.T) {
	dir := fileRegistry(t)

	out, err := execute(t, "demo", "call", "--pid", "4242", "--options", "pause_others,uninterruptible", "--interrupt")
	require.NoError(t, err)

	assert.Contains(t, out, "opened  call\n")
	assert.Contains(t, out, "current pid=4242 type=call options=pause_others|uninterruptible\n")
	assert.Contains(t, out, "monitor ")
	assert.Contains(t, out, "closed  call\n")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "close and shutdown leave no record behind")
}

func TestDemo_RejectsBadInput(t *testing.T) {
	fileRegistry(t)

	_, err := execute(t, "demo", "karaoke")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))

	_, err = execute(t, "demo", "media", "--options", "loud")
	require.ErrorIs(t, err, lifecycle.ErrInvalidArgument)
}

func TestList(t *testing.T) {
	dir := fileRegistry(t)
	self := os.Getpid()
	writeRecord(t, dir, model.Record{PID: self, Type: model.TypeAlarm, Options: model.OptionPauseOthers})
	writeRecord(t, dir, model.Record{PID: deadPID, Type: model.TypeMedia})

	out, err := execute(t, "list", "--json")
	require.NoError(t, err)
	var entries []introspect.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)

	byPID := map[int]introspect.Entry{}
	for _, e := range entries {
		byPID[e.PID] = e
	}
	assert.True(t, byPID[self].Alive)
	assert.Equal(t, "alarm", byPID[self].Type)
	assert.False(t, byPID[deadPID].Alive)

	out, err = execute(t, "list", "--stale")
	require.NoError(t, err)
	assert.Contains(t, out, "PID")
	assert.Contains(t, out, fmt.Sprint(deadPID))
	assert.NotContains(t, out, fmt.Sprintf("%d ", self))
}

func TestInspect(t *testing.T) {
	dir := fileRegistry(t)
	writeRecord(t, dir, model.Record{PID: deadPID, Type: model.TypeVoIP, Options: model.OptionUninterruptible})

	out, err := execute(t, "inspect", fmt.Sprint(deadPID))
	require.NoError(t, err)
	var e introspect.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &e))
	assert.Equal(t, model.Record{PID: deadPID, Type: model.TypeVoIP, Options: model.OptionUninterruptible}, e.Record())

	_, err = execute(t, "inspect", "77")
	require.Error(t, err)
	assert.Equal(t, 3, exitCode(err))

	_, err = execute(t, "inspect", "abc")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}

func TestPrune(t *testing.T) {
	dir := fileRegistry(t)
	self := os.Getpid()
	writeRecord(t, dir, model.Record{PID: self, Type: model.TypeMedia})
	writeRecord(t, dir, model.Record{PID: deadPID, Type: model.TypeMedia})

	out, err := execute(t, "prune", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("would remove pid=%d", deadPID))
	_, err = os.Stat(filepath.Join(dir, fmt.Sprintf("mm_session_%d", deadPID)))
	require.NoError(t, err)

	out, err = execute(t, "prune")
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("removed pid=%d", deadPID))
	_, err = os.Stat(filepath.Join(dir, fmt.Sprintf("mm_session_%d", deadPID)))
	require.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(filepath.Join(dir, fmt.Sprintf("mm_session_%d", self)))
	require.NoError(t, err)
}

func TestWatch_RequiresFileBackend(t *testing.T) {
	t.Setenv(config.EnvRegistryBackend, "memory")
	_, err := execute(t, "watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file only")
}

func TestRunWatcher_DeliversChanges(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	fs, err := store.NewFileStore(dir, store.Codec{Epoch: model.EpochPacked})
	require.NoError(t, err)
	w := store.NewWatcher(fs)

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan store.Change, 4)
	done := make(chan error, 1)
	go func() {
		done <- runWatcher(ctx, w, func(c store.Change) { got <- c })
	}()

	<-w.Ready()
	rec := model.Record{PID: 31337, Type: model.TypeNotify}
	require.NoError(t, fs.Write(context.Background(), rec))

	select {
	case c := <-got:
		assert.Equal(t, store.ChangeOpened, c.Op)
		assert.Equal(t, rec, c.Record)
	case <-time.After(5 * time.Second):
		t.Fatal("no change delivered")
	}

	var buf bytes.Buffer
	printChange(&buf, store.Change{Op: store.ChangeClosed, Record: model.Record{PID: 31337}})
	assert.Equal(t, "closed  pid=31337\n", buf.String())

	cancel()
	require.NoError(t, <-done)
}

func TestVerify(t *testing.T) {
	t.Setenv(config.EnvRegistryBackend, "memory")
	_, err := execute(t, "verify")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite only")

	path := filepath.Join(t.TempDir(), "registry.db")
	s, err := store.NewSqliteStore(path, store.Codec{Epoch: model.EpochPacked})
	require.NoError(t, err)
	require.NoError(t, s.Write(context.Background(), model.Record{PID: 7, Type: model.TypeCall}))
	require.NoError(t, s.Close())

	t.Setenv(config.EnvRegistryBackend, "sqlite")
	t.Setenv(config.EnvRegistryPath, path)
	out, err := execute(t, "verify", "--full")
	require.NoError(t, err)
	assert.Contains(t, out, "ok (full check)")
}

func TestServe_HealthAndShutdown(t *testing.T) {
	cfg := config.Defaults()
	cfg.Registry.Backend = store.BackendMemory
	cfg.Registry.Instrument = false
	cfg.Diagnostics.Listen = "127.0.0.1:0"

	addrCh := make(chan net.Addr, 1)
	a := &app{cfg: cfg, onListen: func(addr net.Addr) { addrCh <- addr }}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.serve(ctx) }()

	var addr net.Addr
	select {
	case addr = <-addrCh:
	case err := <-done:
		t.Fatalf("serve exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve never listened")
	}

	resp, err := http.Get("http://" + addr.String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get("http://" + addr.String() + "/v1/sessions")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestStoreOptions(t *testing.T) {
	opts := storeOptions(config.RegistryConfig{
		Backend:       "redis",
		RedisAddr:     "localhost:6379",
		RedisPassword: "pw",
		RedisDB:       2,
		Epoch:         "legacy",
		Instrument:    true,
	})
	assert.Equal(t, store.Options{
		Backend:    "redis",
		Redis:      store.RedisConfig{Addr: "localhost:6379", Password: "pw", DB: 2},
		Epoch:      model.EpochLegacy,
		Instrument: true,
	}, opts)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
	assert.Equal(t, 2, exitCode(lifecycle.NewError(model.RInvalidArgument, "", nil)))
	assert.Equal(t, 3, exitCode(lifecycle.NewError(model.RInvalidHandle, "", nil)))
	assert.Equal(t, 1, exitCode(lifecycle.NewError(model.RPolicyBlocked, "", nil)))
}
