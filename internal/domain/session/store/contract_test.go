// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package store

import (
	"context"
	"testing"

	"github.com/ManuGH/mmsession/internal/domain/session/lifecycle"
	"github.com/ManuGH/mmsession/internal/domain/session/model"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// runRegistryContract checks the behaviour every backend must share.
func runRegistryContract(t *testing.T, open func(t *testing.T) Registry) {
	t.Helper()
	ctx := context.Background()

	t.Run("read absent is invalid handle", func(t *testing.T) {
		r := open(t)
		_, err := r.Read(ctx, 4242)
		require.ErrorIs(t, err, lifecycle.ErrInvalidHandle)
		require.Equal(t, model.RInvalidHandle, lifecycle.Code(err))
	})

	t.Run("delete absent is file not found", func(t *testing.T) {
		r := open(t)
		err := r.Delete(ctx, 4242)
		require.ErrorIs(t, err, lifecycle.ErrFileNotFound)
		require.ErrorIs(t, err, lifecycle.ErrPersistence)
	})

	t.Run("write read delete", func(t *testing.T) {
		r := open(t)
		rec := model.Record{PID: 100, Type: model.TypeCall, Options: model.OptionPauseOthers | model.OptionUninterruptible}
		require.NoError(t, r.Write(ctx, rec))

		got, err := r.Read(ctx, 100)
		require.NoError(t, err)
		require.Equal(t, rec, got)

		rec.Options = model.OptionResumeBySystemOrMediaPaused
		require.NoError(t, r.Write(ctx, rec))
		got, err = r.Read(ctx, 100)
		require.NoError(t, err)
		require.Equal(t, rec, got)

		require.NoError(t, r.Delete(ctx, 100))
		_, err = r.Read(ctx, 100)
		require.ErrorIs(t, err, lifecycle.ErrInvalidHandle)
		require.ErrorIs(t, r.Delete(ctx, 100), lifecycle.ErrFileNotFound)
	})

	t.Run("every type round trips", func(t *testing.T) {
		r := open(t)
		for i := 0; i < model.SessionTypeCount; i++ {
			rec := model.Record{PID: 1000 + i, Type: model.SessionType(i), Options: model.Options(i) & model.OptionPauseOthers}
			require.NoError(t, r.Write(ctx, rec))
			got, err := r.Read(ctx, rec.PID)
			require.NoError(t, err)
			require.Equal(t, rec, got)
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		r := open(t)
		require.ErrorIs(t, r.Write(ctx, model.Record{PID: 1, Type: model.TypeNone}), lifecycle.ErrInvalidArgument)
		require.ErrorIs(t, r.Write(ctx, model.Record{PID: 1, Type: model.SessionType(model.SessionTypeCount)}), lifecycle.ErrInvalidArgument)
		require.ErrorIs(t, r.Write(ctx, model.Record{PID: 1, Type: model.TypeMedia, Options: -1}), lifecycle.ErrInvalidArgument)
		require.ErrorIs(t, r.Write(ctx, model.Record{PID: 0, Type: model.TypeMedia}), lifecycle.ErrInvalidArgument)
		_, err := r.Read(ctx, -5)
		require.ErrorIs(t, err, lifecycle.ErrInvalidArgument)
	})

	t.Run("list is ordered by pid", func(t *testing.T) {
		r := open(t)
		want := []model.Record{
			{PID: 7, Type: model.TypeAlarm},
			{PID: 300, Type: model.TypeRecordVideo, Options: model.OptionPauseOthers},
			{PID: 5000, Type: model.TypeMedia},
		}
		for _, i := range []int{2, 0, 1} {
			require.NoError(t, r.Write(ctx, want[i]))
		}
		got, err := r.List(ctx)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("List() mismatch (-want +got):\n%s", diff)
		}
	})
}
