package activity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/focus-streak-tracker/internal/activity"
	"github.com/Tiliavir/focus-streak-tracker/internal/model"
)

func settingsWith(threshold int) model.Settings {
	s := model.DefaultSettings()
	s.TZ = "+00:00"
	s.SessionLengthMinutes = threshold
	return s
}

func at(year int, month time.Month, day, hour int) int64 {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC).UnixMilli()
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{10, 10},
		{1.004, 1},
		{0.125, 0.13},
		{-0.125, -0.13},
		{2.344, 2.34},
		{16.666666, 16.67},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, activity.Round2(tt.in), 1e-9, "Round2(%v)", tt.in)
	}
}

func TestMergeActivitySlotEmptyHistory(t *testing.T) {
	slot := model.ActivitySlot{
		SiteID:      "example.com",
		URL:         "https://example.com/",
		DurationSec: 600,
		Timestamp:   at(2023, 1, 1, 12),
	}

	got := activity.MergeActivitySlot(slot, model.State{}, settingsWith(5))

	require.Len(t, got.Sessions, 1)
	assert.Equal(t, "example.com:2023-01-01", got.Sessions[0].ID)
	assert.Equal(t, "2023-01-01", got.Sessions[0].Date)
	assert.InDelta(t, 10, got.Sessions[0].ActiveMinutes, 1e-5)

	require.Len(t, got.Streaks, 1)
	assert.Equal(t, model.Streak{SiteID: "example.com", Length: 1, LastDate: "2023-01-01"}, got.Streaks[0])
}

func TestMergeActivitySlotAccumulatesExistingSession(t *testing.T) {
	state := model.State{
		Sessions: []model.Session{
			{ID: "other.org:2023-01-01", SiteID: "other.org", Date: "2023-01-01", ActiveMinutes: 3},
			{ID: "example.com:2023-01-01", SiteID: "example.com", Date: "2023-01-01", ActiveMinutes: 6},
		},
	}
	slot := model.ActivitySlot{SiteID: "example.com", DurationSec: 300, Timestamp: at(2023, 1, 1, 9)}

	got := activity.MergeActivitySlot(slot, state, settingsWith(5))

	require.Len(t, got.Sessions, 2)
	assert.Equal(t, "example.com:2023-01-01", got.Sessions[1].ID, "position preserved")
	assert.InDelta(t, 11, got.Sessions[1].ActiveMinutes, 1e-5)
	assert.InDelta(t, 6, state.Sessions[1].ActiveMinutes, 1e-9, "input must not be mutated")
}

func TestMergeActivitySlotSameDayIsOneSession(t *testing.T) {
	settings := settingsWith(5)
	state := model.State{}
	durations := []float64{7, 13, 29, 1}
	want := 0.0
	for i, d := range durations {
		slot := model.ActivitySlot{SiteID: "example.com", DurationSec: d, Timestamp: at(2023, 1, 1, 8+i)}
		state = activity.MergeActivitySlot(slot, state, settings)
		want = activity.Round2(want + d/60)
	}

	require.Len(t, state.Sessions, 1)
	assert.InDelta(t, want, state.Sessions[0].ActiveMinutes, 1e-5)
	assert.InDelta(t, 50.0/60, state.Sessions[0].ActiveMinutes, 0.02)
}

func TestMergeActivitySlotUsesConfiguredOffset(t *testing.T) {
	settings := settingsWith(5)
	settings.TZ = "+03:00"
	slot := model.ActivitySlot{SiteID: "example.com", DurationSec: 60, Timestamp: at(2023, 1, 1, 22)}

	got := activity.MergeActivitySlot(slot, model.State{}, settings)

	require.Len(t, got.Sessions, 1)
	assert.Equal(t, "2023-01-02", got.Sessions[0].Date)
	assert.Equal(t, "example.com:2023-01-02", got.Sessions[0].ID)
}

func TestMergeActivitySlotBelowThresholdLeavesStreaks(t *testing.T) {
	slot := model.ActivitySlot{SiteID: "example.com", DurationSec: 60, Timestamp: at(2023, 1, 1, 12)}

	got := activity.MergeActivitySlot(slot, model.State{}, settingsWith(5))

	require.Len(t, got.Sessions, 1)
	assert.Empty(t, got.Streaks)
}

func TestMergeActivitySlotDoesNotAliasInput(t *testing.T) {
	sessions := make([]model.Session, 1, 4)
	sessions[0] = model.Session{ID: "a.com:2023-01-01", SiteID: "a.com", Date: "2023-01-01", ActiveMinutes: 1}
	state := model.State{Sessions: sessions}

	first := activity.MergeActivitySlot(model.ActivitySlot{SiteID: "b.com", DurationSec: 60, Timestamp: at(2023, 1, 1, 1)}, state, settingsWith(5))
	second := activity.MergeActivitySlot(model.ActivitySlot{SiteID: "c.com", DurationSec: 60, Timestamp: at(2023, 1, 1, 1)}, state, settingsWith(5))

	assert.Equal(t, "b.com", first.Sessions[1].SiteID)
	assert.Equal(t, "c.com", second.Sessions[1].SiteID)
	assert.Len(t, state.Sessions, 1)
}

func TestEnsureStreakProgress(t *testing.T) {
	frozen := 2
	tests := []struct {
		name    string
		session model.Session
		streaks []model.Streak
		want    []model.Streak
	}{
		{
			name:    "below threshold unchanged",
			session: model.Session{SiteID: "a.com", Date: "2023-01-02", ActiveMinutes: 4.99},
			streaks: []model.Streak{{SiteID: "a.com", Length: 3, LastDate: "2023-01-01"}},
			want:    []model.Streak{{SiteID: "a.com", Length: 3, LastDate: "2023-01-01"}},
		},
		{
			name:    "first qualifying day creates streak",
			session: model.Session{SiteID: "a.com", Date: "2023-01-02", ActiveMinutes: 5},
			streaks: []model.Streak{{SiteID: "b.com", Length: 4, LastDate: "2023-01-02"}},
			want: []model.Streak{
				{SiteID: "b.com", Length: 4, LastDate: "2023-01-02"},
				{SiteID: "a.com", Length: 1, LastDate: "2023-01-02"},
			},
		},
		{
			name:    "same day is idempotent",
			session: model.Session{SiteID: "a.com", Date: "2023-01-02", ActiveMinutes: 30},
			streaks: []model.Streak{{SiteID: "a.com", Length: 2, LastDate: "2023-01-02"}},
			want:    []model.Streak{{SiteID: "a.com", Length: 2, LastDate: "2023-01-02"}},
		},
		{
			name:    "next day continues",
			session: model.Session{SiteID: "a.com", Date: "2023-01-02", ActiveMinutes: 7},
			streaks: []model.Streak{{SiteID: "a.com", Length: 1, LastDate: "2023-01-01"}},
			want:    []model.Streak{{SiteID: "a.com", Length: 2, LastDate: "2023-01-02"}},
		},
		{
			name:    "gap resets",
			session: model.Session{SiteID: "a.com", Date: "2023-01-04", ActiveMinutes: 7},
			streaks: []model.Streak{{SiteID: "a.com", Length: 9, LastDate: "2023-01-02"}},
			want:    []model.Streak{{SiteID: "a.com", Length: 1, LastDate: "2023-01-04"}},
		},
		{
			// Out-of-order slots restart the streak rather than being ignored.
			name:    "earlier date resets",
			session: model.Session{SiteID: "a.com", Date: "2023-01-01", ActiveMinutes: 7},
			streaks: []model.Streak{{SiteID: "a.com", Length: 5, LastDate: "2023-01-03"}},
			want:    []model.Streak{{SiteID: "a.com", Length: 1, LastDate: "2023-01-01"}},
		},
		{
			name:    "frozen days carried through",
			session: model.Session{SiteID: "a.com", Date: "2023-01-02", ActiveMinutes: 7},
			streaks: []model.Streak{{SiteID: "a.com", Length: 1, LastDate: "2023-01-01", FrozenDaysLeft: &frozen}},
			want:    []model.Streak{{SiteID: "a.com", Length: 2, LastDate: "2023-01-02", FrozenDaysLeft: &frozen}},
		},
		{
			name:    "unparseable last date resets",
			session: model.Session{SiteID: "a.com", Date: "2023-01-02", ActiveMinutes: 7},
			streaks: []model.Streak{{SiteID: "a.com", Length: 4, LastDate: "yesterday"}},
			want:    []model.Streak{{SiteID: "a.com", Length: 1, LastDate: "2023-01-02"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := activity.EnsureStreakProgress(tt.session, tt.streaks, settingsWith(5))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnsureStreakProgressThresholdFloor(t *testing.T) {
	session := model.Session{SiteID: "a.com", Date: "2023-01-01", ActiveMinutes: 0.5}
	assert.Empty(t, activity.EnsureStreakProgress(session, nil, settingsWith(0)))

	session.ActiveMinutes = 1
	assert.Len(t, activity.EnsureStreakProgress(session, nil, settingsWith(0)), 1)
}

func TestEnsureStreakProgressDoesNotMutateInput(t *testing.T) {
	frozen := 1
	streaks := []model.Streak{{SiteID: "a.com", Length: 1, LastDate: "2023-01-01", FrozenDaysLeft: &frozen}}
	session := model.Session{SiteID: "a.com", Date: "2023-01-02", ActiveMinutes: 10}

	got := activity.EnsureStreakProgress(session, streaks, settingsWith(5))
	*got[0].FrozenDaysLeft = 99

	assert.Equal(t, 1, streaks[0].Length)
	assert.Equal(t, 1, frozen)
}

func TestStreakCountsConsecutiveDays(t *testing.T) {
	settings := settingsWith(5)
	state := model.State{}
	for day := 1; day <= 10; day++ {
		slot := model.ActivitySlot{SiteID: "example.com", DurationSec: 360, Timestamp: at(2023, 1, day, 10)}
		state = activity.MergeActivitySlot(slot, state, settings)
		streak, ok := activity.FindStreak(state.Streaks, "example.com")
		require.True(t, ok)
		assert.Equal(t, day, streak.Length)
	}
	assert.Len(t, state.Sessions, 10)

	slot := model.ActivitySlot{SiteID: "example.com", DurationSec: 360, Timestamp: at(2023, 1, 13, 10)}
	state = activity.MergeActivitySlot(slot, state, settings)
	streak, _ := activity.FindStreak(state.Streaks, "example.com")
	assert.Equal(t, model.Streak{SiteID: "example.com", Length: 1, LastDate: "2023-01-13"}, streak)
}

func TestStreakRequiresQualifyingTotal(t *testing.T) {
	settings := settingsWith(5)
	state := model.State{}
	for i := 0; i < 4; i++ {
		slot := model.ActivitySlot{SiteID: "example.com", DurationSec: 60, Timestamp: at(2023, 1, 1, 10+i)}
		state = activity.MergeActivitySlot(slot, state, settings)
	}
	assert.Empty(t, state.Streaks)

	slot := model.ActivitySlot{SiteID: "example.com", DurationSec: 60, Timestamp: at(2023, 1, 1, 15)}
	state = activity.MergeActivitySlot(slot, state, settings)
	require.Len(t, state.Streaks, 1)
	assert.Equal(t, 1, state.Streaks[0].Length)
}
