// Copyright (c) 2026 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package lifecycle

import (
	"testing"

	"github.com/ManuGH/mmsession/internal/domain/session/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidSessionType(t *testing.T) {
	assert.False(t, ValidSessionType(model.TypeNone))
	assert.False(t, ValidSessionType(model.SessionType(model.SessionTypeCount)))
	assert.False(t, ValidSessionType(model.SessionType(99)))
	for i := 0; i < model.SessionTypeCount; i++ {
		assert.True(t, ValidSessionType(model.SessionType(i)), "type %d", i)
	}
}

func TestValidSubSession(t *testing.T) {
	cases := []struct {
		sub    model.SubSession
		active model.SessionType
		want   bool
	}{
		{model.SubSessionVoice, model.TypeCall, true},
		{model.SubSessionRingtone, model.TypeVideoCall, true},
		{model.SubSessionMedia, model.TypeVoIP, true},
		{model.SubSessionVoice, model.TypeRecordAudio, false},
		{model.SubSessionVoice, model.TypeMedia, false},
		{model.SubSessionInit, model.TypeVoiceRecognition, true},
		{model.SubSessionInit, model.TypeRecordVideo, true},
		{model.SubSessionInit, model.TypeCall, false},
		{model.SubSessionVoiceRecognitionDrive, model.TypeVoiceRecognition, true},
		{model.SubSessionVoiceRecognitionNormal, model.TypeRecordAudio, false},
		{model.SubSessionRecordStereo, model.TypeRecordAudio, true},
		{model.SubSessionRecordMono, model.TypeRecordVideo, true},
		{model.SubSessionRecordMono, model.TypeVoiceRecognition, false},
		{model.SubSession(-1), model.TypeCall, false},
		{model.SubSession(model.SubSessionCount), model.TypeCall, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ValidSubSession(tc.sub, tc.active), "%s on %s", tc.sub, tc.active)
	}
}

func TestValidSubEvent(t *testing.T) {
	assert.True(t, ValidSubEvent(model.TypeVoiceRecognition))
	assert.True(t, ValidSubEvent(model.TypeRecordAudio))
	assert.True(t, ValidSubEvent(model.TypeRecordVideo))
	assert.False(t, ValidSubEvent(model.TypeVoIP))
	assert.False(t, ValidSubEvent(model.TypeMedia))
	assert.False(t, ValidSubEvent(model.SessionType(model.SessionTypeCount)))

	assert.True(t, ValidSubEventValue(model.SubEventExclusive))
	assert.False(t, ValidSubEventValue(model.SubEvent(model.SubEventCount)))
}

func TestValidOptions(t *testing.T) {
	assert.True(t, ValidSubSessionOption(model.SubSessionOptionNone))
	assert.False(t, ValidSubSessionOption(model.SubSessionOption(1)))
	assert.False(t, ValidSubSessionOption(model.SubSessionOption(-1)))

	assert.True(t, ValidSessionOptions(0))
	assert.True(t, ValidSessionOptions(0x0100))
	assert.True(t, ValidSessionOptions(model.MaxOptions))
	assert.False(t, ValidSessionOptions(-1))
	assert.False(t, ValidSessionOptions(model.MaxOptions+1))
}

func TestCheckErrorsAreInvalidArgument(t *testing.T) {
	errs := []error{
		CheckSessionType(model.TypeNone),
		CheckSubSession(model.SubSessionVoice, model.SubSessionOptionNone, model.TypeRecordAudio),
		CheckSubSession(model.SubSessionVoice, model.SubSessionOption(3), model.TypeCall),
		CheckSubEvent(model.SubEventShare, model.TypeCall),
		CheckSubEvent(model.SubEvent(9), model.TypeRecordAudio),
		CheckOptionUpdate(model.UpdateKind(2), model.OptionPauseOthers),
		CheckOptionUpdate(model.UpdateAdd, -1),
		CheckWatch(model.WatchEvent(3), model.WatchStatePlaying),
		CheckWatch(model.WatchCall, model.WatchState(2)),
	}
	for i, err := range errs {
		require.ErrorIs(t, err, ErrInvalidArgument, "case %d", i)
	}

	require.NoError(t, CheckSessionType(model.TypeRecordVideo))
	require.NoError(t, CheckSubSession(model.SubSessionRecordStereo, model.SubSessionOptionNone, model.TypeRecordAudio))
	require.NoError(t, CheckSubEvent(model.SubEventExclusive, model.TypeVoiceRecognition))
	require.NoError(t, CheckOptionUpdate(model.UpdateRemove, model.OptionUninterruptible))
	require.NoError(t, CheckWatch(model.WatchAlarm, model.WatchStateStopped))
}

func TestApplyUpdate(t *testing.T) {
	o := ApplyUpdate(0, model.UpdateAdd, model.OptionPauseOthers|model.OptionUninterruptible)
	require.Equal(t, model.OptionPauseOthers|model.OptionUninterruptible, o)
	o = ApplyUpdate(o, model.UpdateRemove, model.OptionPauseOthers)
	require.Equal(t, model.OptionUninterruptible, o)
	o = ApplyUpdate(o, model.UpdateRemove, model.OptionResumeBySystemOrMediaPaused)
	require.Equal(t, model.OptionUninterruptible, o)
}
