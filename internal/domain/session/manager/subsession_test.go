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

func TestSetSubSession_RequiresOpenSession(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	require.ErrorIs(t, h.mgr.SetSubSession(ctx, model.SubSessionVoice, model.SubSessionOptionNone), lifecycle.ErrInvalidHandle)
	_, err := h.mgr.SubSession(ctx)
	require.ErrorIs(t, err, lifecycle.ErrInvalidHandle)
	require.Zero(t, h.arb.Calls(loopback.OpSetSubSession))
}

func TestSetSubSession_ValidatesAgainstActiveType(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	require.NoError(t, h.mgr.Open(ctx, model.TypeRecordAudio, nil, nil))

	err := h.mgr.SetSubSession(ctx, model.SubSessionVoice, model.SubSessionOptionNone)
	require.ErrorIs(t, err, lifecycle.ErrInvalidArgument)
	err = h.mgr.SetSubSession(ctx, model.SubSessionRecordStereo, model.SubSessionOption(1))
	require.ErrorIs(t, err, lifecycle.ErrInvalidArgument)
	require.Zero(t, h.arb.Calls(loopback.OpSetSubSession))

	require.NoError(t, h.mgr.SetSubSession(ctx, model.SubSessionRecordStereo, model.SubSessionOptionNone))
	sub, err := h.mgr.SubSession(ctx)
	require.NoError(t, err)
	require.Equal(t, model.SubSessionRecordStereo, sub)

	require.NoError(t, h.mgr.SetSubSession(ctx, model.SubSessionInit, model.SubSessionOptionNone))
	sub, err = h.mgr.SubSession(ctx)
	require.NoError(t, err)
	require.Equal(t, model.SubSessionInit, sub)
}

func TestSetSubSession_CallFamily(t *testing.T) {
	ctx := context.Background()
	for _, typ := range []model.SessionType{model.TypeCall, model.TypeVideoCall, model.TypeVoIP} {
		t.Run(typ.String(), func(t *testing.T) {
			h := newHarness(t)
			require.NoError(t, h.mgr.Open(ctx, typ, nil, nil))
			for _, sub := range []model.SubSession{model.SubSessionVoice, model.SubSessionRingtone, model.SubSessionMedia} {
				require.NoError(t, h.mgr.SetSubSession(ctx, sub, model.SubSessionOptionNone))
				got, err := h.mgr.SubSession(ctx)
				require.NoError(t, err)
				require.Equal(t, sub, got)
			}
			require.ErrorIs(t, h.mgr.SetSubSession(ctx, model.SubSessionRecordMono, model.SubSessionOptionNone), lifecycle.ErrInvalidArgument)
		})
	}
}

func TestSetSubSession_WithoutArbiterRegistration(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	// Opened by an earlier context of the same pid.
	require.NoError(t, h.reg.Write(ctx, model.Record{PID: testPID, Type: model.TypeCall}))

	err := h.mgr.SetSubSession(ctx, model.SubSessionVoice, model.SubSessionOptionNone)
	require.ErrorIs(t, err, lifecycle.ErrInvalidHandle)
	_, err = h.mgr.SubSession(ctx)
	require.ErrorIs(t, err, lifecycle.ErrInvalidHandle)
}

func TestSetSubSession_ArbiterFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	require.NoError(t, h.mgr.Open(ctx, model.TypeVoiceRecognition, nil, nil))

	h.arb.Fail(loopback.OpSetSubSession, ports.CodeInvalidHandle)
	err := h.mgr.SetSubSession(ctx, model.SubSessionVoiceRecognitionDrive, model.SubSessionOptionNone)
	require.ErrorIs(t, err, lifecycle.ErrInvalidHandle)

	h.arb.Fail(loopback.OpSubSession, ports.CodeUnavailable)
	_, err = h.mgr.SubSession(ctx)
	require.ErrorIs(t, err, lifecycle.ErrInvalidHandle)
}

func TestSubEvent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	require.ErrorIs(t, h.mgr.SetSubEvent(ctx, model.SubEventShare), lifecycle.ErrInvalidHandle)

	require.NoError(t, h.mgr.Open(ctx, model.TypeVoiceRecognition, nil, nil))
	require.ErrorIs(t, h.mgr.SetSubEvent(ctx, model.SubEvent(9)), lifecycle.ErrInvalidArgument)

	require.NoError(t, h.mgr.SetSubEvent(ctx, model.SubEventExclusive))
	ev, err := h.mgr.SubEvent(ctx)
	require.NoError(t, err)
	require.Equal(t, model.SubEventExclusive, ev)

	h.arb.Fail(loopback.OpSetSubEvent, ports.CodeInvalidHandle)
	require.ErrorIs(t, h.mgr.SetSubEvent(ctx, model.SubEventShare), lifecycle.ErrInvalidHandle)
}

func TestSubEvent_RejectedForCallSessions(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	require.NoError(t, h.mgr.Open(ctx, model.TypeCall, nil, nil))

	require.ErrorIs(t, h.mgr.SetSubEvent(ctx, model.SubEventShare), lifecycle.ErrInvalidArgument)
	_, err := h.mgr.SubEvent(ctx)
	require.ErrorIs(t, err, lifecycle.ErrInvalidArgument)
	require.Zero(t, h.arb.Calls(loopback.OpSetSubEvent))
}
