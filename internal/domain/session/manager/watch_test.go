// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package manager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ManuGH/mmsession/internal/domain/session/lifecycle"
	"github.com/ManuGH/mmsession/internal/domain/session/model"
	"github.com/ManuGH/mmsession/internal/domain/session/ports"
	"github.com/ManuGH/mmsession/internal/infra/arbiter/loopback"
)

func TestWatch_DeliversTranslatedState(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	require.NoError(t, h.mgr.Open(ctx, model.TypeMedia, nil, nil))

	var got []watchCall
	require.NoError(t, h.mgr.AddWatch(ctx, model.WatchCall, model.WatchStatePlaying, func(ev model.WatchEvent, st model.WatchState, userCtx any) {
		got = append(got, watchCall{ev, st, userCtx})
	}, "player"))
	require.True(t, h.arb.Watching(ports.KindCall, ports.StatePlaying))

	results := h.arb.FireWatch(ports.KindCall, ports.StatePlaying)
	require.Equal(t, []ports.CallbackResult{ports.CallbackNone}, results)
	require.Empty(t, got)
	require.Equal(t, 1, h.loop.RunPending())
	require.Equal(t, []watchCall{{model.WatchCall, model.WatchStatePlaying, "player"}}, got)

	// Pause has no watch state: not handled and nothing delivered.
	results = h.arb.FireWatch(ports.KindCall, ports.StatePause)
	require.Equal(t, []ports.CallbackResult{ports.CallbackIgnore}, results)
	require.Zero(t, h.loop.RunPending())
	require.Len(t, got, 1)
}

func TestWatch_ReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	require.NoError(t, h.mgr.Open(ctx, model.TypeMedia, nil, nil))

	noop := func(model.WatchEvent, model.WatchState, any) {}
	require.NoError(t, h.mgr.AddWatch(ctx, model.WatchCall, model.WatchStatePlaying, noop, nil))
	require.NoError(t, h.mgr.AddWatch(ctx, model.WatchAlarm, model.WatchStateStopped, noop, nil))

	require.False(t, h.arb.Watching(ports.KindCall, ports.StatePlaying))
	require.True(t, h.arb.Watching(ports.KindAlarm, ports.StateStop))

	require.NoError(t, h.mgr.RemoveWatch(ctx, model.WatchAlarm, model.WatchStateStopped))
	require.False(t, h.arb.Watching(ports.KindAlarm, ports.StateStop))
	require.ErrorIs(t, h.mgr.RemoveWatch(ctx, model.WatchAlarm, model.WatchStateStopped), lifecycle.ErrInvalidHandle)
}

func TestWatch_Rejects(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	noop := func(model.WatchEvent, model.WatchState, any) {}

	require.ErrorIs(t, h.mgr.AddWatch(ctx, model.WatchCall, model.WatchStatePlaying, noop, nil), lifecycle.ErrInvalidHandle)
	require.ErrorIs(t, h.mgr.RemoveWatch(ctx, model.WatchCall, model.WatchStatePlaying), lifecycle.ErrInvalidHandle)

	require.NoError(t, h.mgr.Open(ctx, model.TypeNotify, nil, nil))
	require.ErrorIs(t, h.mgr.AddWatch(ctx, model.WatchEvent(5), model.WatchStatePlaying, noop, nil), lifecycle.ErrInvalidArgument)
	require.ErrorIs(t, h.mgr.AddWatch(ctx, model.WatchCall, model.WatchState(-1), noop, nil), lifecycle.ErrInvalidArgument)
	require.ErrorIs(t, h.mgr.AddWatch(ctx, model.WatchCall, model.WatchStatePlaying, nil, nil), lifecycle.ErrInvalidArgument)
	require.Zero(t, h.arb.Calls(loopback.OpSetWatch))

	h.arb.Fail(loopback.OpSetWatch, ports.CodeUnavailable)
	require.ErrorIs(t, h.mgr.AddWatch(ctx, model.WatchCall, model.WatchStatePlaying, noop, nil), lifecycle.ErrInvalidHandle)
	require.Empty(t, h.arb.FireWatch(ports.KindCall, ports.StatePlaying))
}

func TestMonitor_DeliversOnEventLoop(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	var got []monitorCall
	require.NoError(t, h.mgr.Open(ctx, model.TypeMedia, func(msg model.Msg, ev model.Event, userCtx any) {
		got = append(got, monitorCall{msg, ev, userCtx})
	}, "app"))
	monitor := h.arb.Handles(ports.KindMonitor)
	require.Len(t, monitor, 1)

	res, ok := h.arb.FireMonitor(monitor[0], ports.SourceCallStart, ports.CommandStop)
	require.True(t, ok)
	require.Equal(t, ports.CallbackStop, res)
	res, _ = h.arb.FireMonitor(monitor[0], ports.SourceCallEnd, ports.CommandResume)
	require.Equal(t, ports.CallbackIgnore, res)
	require.Empty(t, got)

	require.Equal(t, 2, h.loop.RunPending())
	require.Equal(t, []monitorCall{
		{model.MsgStop, model.EventCall, "app"},
		{model.MsgResume, model.EventCall, "app"},
	}, got)
}

func TestMonitor_ReopenReusesHandle(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	first := func(model.Msg, model.Event, any) {}
	require.NoError(t, h.mgr.Open(ctx, model.TypeMedia, first, nil))
	h.mgr.monitor.Lock()
	handle := h.mgr.monitor.Handle()
	h.mgr.monitor.Unlock()

	// Simulate a record removed behind our back; the monitor stays installed.
	require.NoError(t, h.reg.Delete(ctx, testPID))
	var got []any
	require.NoError(t, h.mgr.Open(ctx, model.TypeAlarm, func(_ model.Msg, _ model.Event, userCtx any) {
		got = append(got, userCtx)
	}, "second"))
	require.Equal(t, 1, h.arb.Calls(loopback.OpRegister))

	_, ok := h.arb.FireMonitor(handle, ports.SourceAlarmStart, ports.CommandPause)
	require.True(t, ok)
	h.loop.RunPending()
	require.Equal(t, []any{"second"}, got)
}
