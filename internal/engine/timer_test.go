package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/NathanMorier/ultimatetimer/internal/store"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

func newTestTimerEngine(t *testing.T) (*TimerEngine, *store.Storage, *fakeClock) {
	t.Helper()
	storage := store.NewStorage(t.TempDir(), zap.NewNop().Sugar())
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	eng := NewTimerEngine(storage, zap.NewNop().Sugar(), Options{Now: clock.Now})
	return eng, storage, clock
}

func TestTimerStartRequiresCategory(t *testing.T) {
	eng, _, _ := newTestTimerEngine(t)

	_, err := eng.Start("", "note")
	assert.ErrorIs(t, err, ErrCategoryRequired)
	assert.Equal(t, 0, eng.Count())
}

func TestTimerPauseResumeStop(t *testing.T) {
	eng, storage, clock := newTestTimerEngine(t)
	t0 := clock.now

	id, err := eng.Start("cat-1", "deep work")
	require.NoError(t, err)

	eng.tick(clock.advance(30 * time.Second))
	eng.Pause(id)

	// A paused timer must not accumulate elapsed time across ticks.
	eng.tick(clock.advance(30 * time.Second))
	timers := eng.ActiveTimers()
	require.Len(t, timers, 1)
	assert.Equal(t, int64(30), eng.Elapsed(timers[0]))
	assert.True(t, timers[0].IsPaused)
	require.NotNil(t, timers[0].LastPauseTime)
	assert.True(t, timers[0].LastPauseTime.Equal(t0.Add(30*time.Second)))

	clock.advance(30 * time.Second) // t0+90
	eng.Resume(id)

	timers = eng.ActiveTimers()
	require.Len(t, timers, 1)
	assert.False(t, timers[0].IsPaused)
	assert.Nil(t, timers[0].LastPauseTime)
	assert.Equal(t, int64(60), timers[0].PausedTime)

	eng.tick(clock.advance(10 * time.Second)) // t0+100
	eng.Stop(id)

	assert.Equal(t, 0, eng.Count())
	sessions := storage.LoadSessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, id, sessions[0].ID)
	assert.Equal(t, "cat-1", sessions[0].CategoryID)
	assert.Equal(t, int64(40), sessions[0].Duration)
	assert.True(t, sessions[0].StartTime.Equal(t0))
	assert.True(t, sessions[0].EndTime.Equal(t0.Add(100*time.Second)))
}

func TestTimerPauseIsIdempotent(t *testing.T) {
	eng, _, clock := newTestTimerEngine(t)
	t0 := clock.now

	id, err := eng.Start("cat-1", "")
	require.NoError(t, err)

	eng.tick(clock.advance(10 * time.Second))
	eng.Pause(id)
	clock.advance(10 * time.Second)
	eng.Pause(id)

	timers := eng.ActiveTimers()
	require.Len(t, timers, 1)
	require.NotNil(t, timers[0].LastPauseTime)
	assert.True(t, timers[0].LastPauseTime.Equal(t0.Add(10*time.Second)))

	clock.advance(10 * time.Second) // paused for 20s total
	eng.Resume(id)
	eng.Resume(id)

	timers = eng.ActiveTimers()
	require.Len(t, timers, 1)
	assert.Equal(t, int64(20), timers[0].PausedTime)
	assert.False(t, timers[0].IsPaused)
}

func TestTimerUnknownIDIsNoOp(t *testing.T) {
	eng, storage, clock := newTestTimerEngine(t)

	id, err := eng.Start("cat-1", "")
	require.NoError(t, err)
	eng.tick(clock.advance(5 * time.Second))

	eng.Pause("missing")
	eng.Resume("missing")
	eng.Stop("missing")
	eng.UpdateNote("missing", "ignored")

	timers := eng.ActiveTimers()
	require.Len(t, timers, 1)
	assert.Equal(t, id, timers[0].ID)
	assert.False(t, timers[0].IsPaused)
	assert.Empty(t, timers[0].Note)
	assert.Empty(t, storage.LoadSessions())
}

func TestTimerTickSkipsPaused(t *testing.T) {
	eng, _, clock := newTestTimerEngine(t)

	running, err := eng.Start("cat-1", "")
	require.NoError(t, err)
	paused, err := eng.Start("cat-2", "")
	require.NoError(t, err)
	eng.Pause(paused)

	eng.tick(clock.advance(15 * time.Second))

	for _, timer := range eng.ActiveTimers() {
		switch timer.ID {
		case running:
			assert.Equal(t, int64(15), eng.Elapsed(timer))
		case paused:
			assert.Equal(t, int64(0), eng.Elapsed(timer))
		}
	}
}

func TestTimerUpdateNote(t *testing.T) {
	eng, storage, clock := newTestTimerEngine(t)

	id, err := eng.Start("cat-1", "before")
	require.NoError(t, err)
	eng.UpdateNote(id, "after")

	timers := eng.ActiveTimers()
	require.Len(t, timers, 1)
	assert.Equal(t, "after", timers[0].Note)

	eng.tick(clock.advance(3 * time.Second))
	eng.Stop(id)
	sessions := storage.LoadSessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "after", sessions[0].Note)
}

func TestTimerRestoredFromStorage(t *testing.T) {
	storage := store.NewStorage(t.TempDir(), zap.NewNop().Sugar())
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	eng := NewTimerEngine(storage, zap.NewNop().Sugar(), Options{Now: clock.Now})

	id, err := eng.Start("cat-1", "survives restart")
	require.NoError(t, err)
	eng.tick(clock.advance(20 * time.Second))
	eng.Pause(id)

	restored := NewTimerEngine(storage, zap.NewNop().Sugar(), Options{Now: clock.Now})
	timers := restored.ActiveTimers()
	require.Len(t, timers, 1)
	assert.Equal(t, id, timers[0].ID)
	assert.True(t, timers[0].IsPaused)
	assert.Equal(t, "survives restart", timers[0].Note)
	assert.Equal(t, int64(20), restored.Elapsed(timers[0]))
}
