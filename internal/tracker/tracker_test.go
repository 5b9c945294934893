package tracker_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Tiliavir/focus-streak-tracker/internal/cache"
	"github.com/Tiliavir/focus-streak-tracker/internal/model"
	"github.com/Tiliavir/focus-streak-tracker/internal/notify"
	"github.com/Tiliavir/focus-streak-tracker/internal/storage"
	"github.com/Tiliavir/focus-streak-tracker/internal/tracker"
)

type memorySink struct {
	mu   sync.Mutex
	sent []model.Notification
}

func (s *memorySink) Send(_ context.Context, n model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	return nil
}

func (s *memorySink) all() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Notification(nil), s.sent...)
}

type fixture struct {
	tracker *tracker.Tracker
	store   storage.Store
	sink    *memorySink
	now     time.Time
}

func newFixture(t *testing.T, settings model.Settings) *fixture {
	t.Helper()
	f := &fixture{
		store: storage.NewFileStore(t.TempDir()),
		sink:  &memorySink{},
		now:   time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.store.SaveSettings(context.Background(), settings))
	log := zap.NewNop().Sugar()
	f.tracker = tracker.New(
		cache.New(f.store, time.Hour),
		notify.NewDispatcher(f.sink, nil, log),
		log,
		tracker.WithClock(func() time.Time { return f.now }),
	)
	return f
}

func testSettings() model.Settings {
	s := model.DefaultSettings()
	s.TZ = "+00:00"
	s.SessionLengthMinutes = 5
	s.QuietHours = []model.QuietRange{{22, 7}}
	return s
}

func TestRecordSlotPersists(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testSettings())

	slot := model.ActivitySlot{SiteID: "example.com", URL: "https://example.com/a", DurationSec: 600, Timestamp: f.now.UnixMilli()}
	state, err := f.tracker.RecordSlot(ctx, slot)
	require.NoError(t, err)
	require.Len(t, state.Sessions, 1)
	assert.InDelta(t, 10, state.Sessions[0].ActiveMinutes, 1e-5)
	require.Len(t, state.Streaks, 1)
	assert.Equal(t, 1, state.Streaks[0].Length)

	day, err := f.store.LoadDay(ctx, "2023-01-01")
	require.NoError(t, err)
	assert.Equal(t, state.Sessions, day)

	streaks, err := f.store.LoadStreaks(ctx)
	require.NoError(t, err)
	assert.Equal(t, state.Streaks, streaks)
}

func TestRecordSlotAccumulatesAcrossCalls(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testSettings())

	require.NoError(t, f.store.SaveDay(ctx, "2023-01-01", []model.Session{
		{ID: "example.com:2023-01-01", SiteID: "example.com", Date: "2023-01-01", ActiveMinutes: 6},
	}))
	state, err := f.tracker.RecordSlot(ctx, model.ActivitySlot{SiteID: "example.com", DurationSec: 300, Timestamp: f.now.UnixMilli()})
	require.NoError(t, err)
	require.Len(t, state.Sessions, 1)
	assert.InDelta(t, 11, state.Sessions[0].ActiveMinutes, 1e-5)
}

func TestRecordSlotConcurrentCallsAreSerialized(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testSettings())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.tracker.RecordSlot(ctx, model.ActivitySlot{SiteID: "example.com", DurationSec: 30, Timestamp: f.now.UnixMilli()})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	state, err := f.tracker.State(ctx, "2023-01-01")
	require.NoError(t, err)
	require.Len(t, state.Sessions, 1)
	assert.InDelta(t, 10, state.Sessions[0].ActiveMinutes, 1e-5)
}

// streakFailStore fails the next n SaveStreaks calls.
type streakFailStore struct {
	storage.Store
	mu    sync.Mutex
	fails int
}

func (s *streakFailStore) SaveStreaks(ctx context.Context, streaks []model.Streak) error {
	s.mu.Lock()
	if s.fails > 0 {
		s.fails--
		s.mu.Unlock()
		return errors.New("disk full")
	}
	s.mu.Unlock()
	return s.Store.SaveStreaks(ctx, streaks)
}

func TestRecordSlotRestoresDayWhenStreaksFail(t *testing.T) {
	ctx := context.Background()
	store := &streakFailStore{Store: storage.NewFileStore(t.TempDir()), fails: 1}
	require.NoError(t, store.SaveSettings(ctx, testSettings()))
	now := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	log := zap.NewNop().Sugar()
	tr := tracker.New(cache.New(store, time.Hour), notify.NewDispatcher(&memorySink{}, nil, log), log,
		tracker.WithClock(func() time.Time { return now }))

	slot := model.ActivitySlot{SiteID: "example.com", DurationSec: 600, Timestamp: now.UnixMilli()}
	_, err := tr.RecordSlot(ctx, slot)
	require.Error(t, err)

	sessions, err := store.LoadDay(ctx, "2023-01-01")
	require.NoError(t, err)
	assert.Empty(t, sessions)

	state, err := tr.RecordSlot(ctx, slot)
	require.NoError(t, err)
	require.Len(t, state.Sessions, 1)
	assert.InDelta(t, 10, state.Sessions[0].ActiveMinutes, 1e-5)

	sessions, err = store.LoadDay(ctx, "2023-01-01")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.InDelta(t, 10, sessions[0].ActiveMinutes, 1e-5)
	streaks, err := store.LoadStreaks(ctx)
	require.NoError(t, err)
	require.Len(t, streaks, 1)
	assert.Equal(t, 1, streaks[0].Length)
}

func TestRecordSlotValidation(t *testing.T) {
	f := newFixture(t, testSettings())

	_, err := f.tracker.RecordSlot(context.Background(), model.ActivitySlot{SiteID: "  ", DurationSec: 10})
	assert.ErrorIs(t, err, tracker.ErrInvalidSlot)

	_, err = f.tracker.RecordSlot(context.Background(), model.ActivitySlot{SiteID: "a.com", DurationSec: -1})
	assert.ErrorIs(t, err, tracker.ErrInvalidSlot)
}

func TestRecordSlotDefaultsTimestampToNow(t *testing.T) {
	f := newFixture(t, testSettings())

	state, err := f.tracker.RecordSlot(context.Background(), model.ActivitySlot{SiteID: "a.com", DurationSec: 60})
	require.NoError(t, err)
	assert.Equal(t, "2023-01-01", state.Sessions[0].Date)
}

func TestStateDefaultsToToday(t *testing.T) {
	ctx := context.Background()
	settings := testSettings()
	settings.TZ = "+13:00"
	f := newFixture(t, settings)

	_, err := f.tracker.RecordSlot(ctx, model.ActivitySlot{SiteID: "a.com", DurationSec: 60, Timestamp: f.now.UnixMilli()})
	require.NoError(t, err)

	state, err := f.tracker.State(ctx, "")
	require.NoError(t, err)
	require.Len(t, state.Sessions, 1)
	assert.Equal(t, "2023-01-02", state.Sessions[0].Date)

	_, err = f.tracker.State(ctx, "01/02/2023")
	assert.Error(t, err)
}

func TestSaveSettingsValidates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testSettings())

	bad := testSettings()
	bad.QuietHours = []model.QuietRange{{22, 24}}
	assert.Error(t, f.tracker.SaveSettings(ctx, bad))

	bad = testSettings()
	bad.TZ = "Europe/Berlin"
	assert.Error(t, f.tracker.SaveSettings(ctx, bad))

	good := testSettings()
	good.TZ = "-03:30"
	require.NoError(t, f.tracker.SaveSettings(ctx, good))
	got, err := f.tracker.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "-03:30", got.TZ)
}

func TestUpdateSettings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testSettings())

	got, err := f.tracker.UpdateSettings(ctx, func(s model.Settings) (model.Settings, error) {
		s.FocusMinutes = 40
		return s, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 40, got.FocusMinutes)
	assert.Equal(t, testSettings().QuietHours, got.QuietHours)

	stored, err := f.store.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, stored)

	_, err = f.tracker.UpdateSettings(ctx, func(s model.Settings) (model.Settings, error) {
		s.TZ = "CET"
		return s, nil
	})
	assert.ErrorIs(t, err, tracker.ErrInvalidSettings)

	_, err = f.tracker.UpdateSettings(ctx, func(s model.Settings) (model.Settings, error) {
		return s, errors.New("bad patch")
	})
	assert.ErrorIs(t, err, tracker.ErrInvalidSettings)

	stored, err = f.store.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, stored.FocusMinutes)
	assert.Equal(t, "+00:00", stored.TZ)
}

func TestQuietStatus(t *testing.T) {
	f := newFixture(t, testSettings())

	q, err := f.tracker.QuietStatus(context.Background())
	require.NoError(t, err)
	assert.False(t, q.WithinQuietHours)

	f.now = time.Date(2023, 1, 1, 23, 0, 0, 0, time.UTC)
	q, err = f.tracker.QuietStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, q.WithinQuietHours)
}

func TestCheckStreaksWarnsOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testSettings())
	require.NoError(t, f.store.SaveStreaks(ctx, []model.Streak{
		{SiteID: "a.com", Length: 3, LastDate: "2023-01-01"},
		{SiteID: "b.com", Length: 2, LastDate: "2022-12-31"},
	}))

	// 2023-01-02 18:00: a.com is 42h past midnight, b.com 66h.
	f.now = time.Date(2023, 1, 2, 18, 0, 0, 0, time.UTC)
	warnings, err := f.tracker.CheckStreaks(ctx)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "a.com", warnings[0].SiteID)
	assert.Equal(t, notify.OutcomeDelivered, warnings[0].Outcome)

	warnings, err = f.tracker.CheckStreaks(ctx)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Len(t, f.sink.all(), 1)
}

func TestCheckStreaksRetriesAfterQuietHours(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testSettings())
	require.NoError(t, f.store.SaveStreaks(ctx, []model.Streak{{SiteID: "a.com", Length: 3, LastDate: "2023-01-01"}}))

	f.now = time.Date(2023, 1, 1, 23, 0, 0, 0, time.UTC)
	warnings, err := f.tracker.CheckStreaks(ctx)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, notify.OutcomeQuiet, warnings[0].Outcome)
	assert.Empty(t, f.sink.all())

	f.now = time.Date(2023, 1, 2, 8, 0, 0, 0, time.UTC)
	warnings, err = f.tracker.CheckStreaks(ctx)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, notify.OutcomeDelivered, warnings[0].Outcome)
}

func TestFocusTimer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testSettings())

	status, err := f.tracker.StartFocus(ctx, 50*time.Millisecond)
	require.NoError(t, err)
	done := f.tracker.FocusDone()
	require.NotNil(t, done)
	assert.True(t, status.Active)
	assert.Equal(t, f.now.Add(50*time.Millisecond), status.EndsAt)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("focus timer did not complete")
	}
	require.Len(t, f.sink.all(), 1)
	assert.Equal(t, model.NotificationFocusComplete, f.sink.all()[0].Kind)
	assert.False(t, f.tracker.Focus().Active)
}

func TestCancelFocus(t *testing.T) {
	f := newFixture(t, testSettings())

	assert.False(t, f.tracker.CancelFocus())
	_, err := f.tracker.StartFocus(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, f.now.Add(25*time.Minute), f.tracker.Focus().EndsAt)
	done := f.tracker.FocusDone()
	assert.True(t, f.tracker.CancelFocus())
	assert.False(t, f.tracker.Focus().Active)
	_, open := <-done
	assert.False(t, open)
	_, open = <-f.tracker.FocusDone()
	assert.False(t, open)
	assert.Empty(t, f.sink.all())
}

func TestFocusDoneWithoutTimer(t *testing.T) {
	f := newFixture(t, testSettings())

	select {
	case <-f.tracker.FocusDone():
	case <-time.After(time.Second):
		t.Fatal("FocusDone blocked with no timer running")
	}
}

func TestFocusStatusJSON(t *testing.T) {
	data, err := json.Marshal(tracker.FocusStatus{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"active":false}`, string(data))

	started := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	data, err = json.Marshal(tracker.FocusStatus{Active: true, Started: started, EndsAt: started.Add(time.Minute)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"active":true,"started":"2023-01-01T12:00:00Z","endsAt":"2023-01-01T12:01:00Z"}`, string(data))
}

func TestRunStopsOnCancel(t *testing.T) {
	f := newFixture(t, testSettings())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.tracker.Run(ctx, 5*time.Millisecond) }()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
