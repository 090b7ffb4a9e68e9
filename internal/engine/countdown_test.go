package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/NathanMorier/ultimatetimer/internal/models"
	"github.com/NathanMorier/ultimatetimer/internal/store"
)

type recordingNotifier struct {
	finished []models.ActiveCountdown
	err      error
}

func (n *recordingNotifier) CountdownFinished(countdown models.ActiveCountdown) error {
	n.finished = append(n.finished, countdown)
	return n.err
}

func newTestCountdownEngine(t *testing.T) (*CountdownEngine, *store.Storage, *fakeClock) {
	t.Helper()
	storage := store.NewStorage(t.TempDir(), zap.NewNop().Sugar())
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	eng := NewCountdownEngine(storage, zap.NewNop().Sugar(), Options{Now: clock.Now})
	return eng, storage, clock
}

func TestCountdownStartValidation(t *testing.T) {
	eng, _, _ := newTestCountdownEngine(t)

	_, err := eng.Start("", 60, "")
	assert.ErrorIs(t, err, ErrCategoryRequired)

	_, err = eng.Start("cat-1", 0, "")
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = eng.Start("cat-1", -5, "")
	assert.ErrorIs(t, err, ErrInvalidDuration)

	assert.Equal(t, 0, eng.Count())
}

func TestCountdownCompletesExactlyOnce(t *testing.T) {
	eng, storage, clock := newTestCountdownEngine(t)
	t0 := clock.now
	notifier := &recordingNotifier{}
	eng.SetNotifier(notifier)

	var modalCalls []models.ActiveCountdown
	eng.SetCompletionCallback(func(c models.ActiveCountdown) {
		modalCalls = append(modalCalls, c)
	})

	id, err := eng.Start("cat-1", 5, "tea")
	require.NoError(t, err)

	for i := 1; i <= 4; i++ {
		eng.tick(clock.advance(time.Second))
	}
	assert.Empty(t, storage.LoadSessions())
	assert.Empty(t, notifier.finished)

	eng.tick(clock.advance(time.Second)) // t0+5, remaining hits zero

	sessions := storage.LoadSessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, id, sessions[0].ID)
	assert.Equal(t, int64(5), sessions[0].Duration)
	assert.True(t, sessions[0].EndTime.Equal(t0.Add(5*time.Second)))
	assert.Equal(t, "tea", sessions[0].Note)

	require.Len(t, notifier.finished, 1)
	assert.Equal(t, id, notifier.finished[0].ID)
	require.Len(t, modalCalls, 1)
	assert.Equal(t, id, modalCalls[0].ID)

	// The completed record stays visible until dismissed, and further ticks
	// must not emit anything again.
	eng.tick(clock.advance(time.Second))
	eng.tick(clock.advance(time.Second))

	assert.Len(t, storage.LoadSessions(), 1)
	assert.Len(t, notifier.finished, 1)
	assert.Len(t, modalCalls, 1)

	countdowns := eng.ActiveCountdowns()
	require.Len(t, countdowns, 1)
	assert.True(t, countdowns[0].IsComplete)
	assert.Equal(t, int64(0), eng.RemainingFor(countdowns[0]))
}

func TestCountdownPauseExtendsCompletion(t *testing.T) {
	eng, storage, clock := newTestCountdownEngine(t)

	id, err := eng.Start("cat-1", 10, "")
	require.NoError(t, err)

	eng.tick(clock.advance(3 * time.Second))
	eng.Pause(id)
	clock.advance(8 * time.Second) // paused t0+3 through t0+11
	eng.Resume(id)

	eng.tick(clock.advance(6 * time.Second)) // t0+17, net elapsed 9
	assert.Empty(t, storage.LoadSessions())
	countdowns := eng.ActiveCountdowns()
	require.Len(t, countdowns, 1)
	assert.Equal(t, int64(1), eng.RemainingFor(countdowns[0]))

	eng.tick(clock.advance(time.Second)) // t0+18, net elapsed 10

	sessions := storage.LoadSessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, int64(10), sessions[0].Duration)
	assert.Equal(t, id, sessions[0].ID)
}

func TestCountdownStopEmitsElapsedNotTarget(t *testing.T) {
	eng, storage, clock := newTestCountdownEngine(t)
	t0 := clock.now

	id, err := eng.Start("cat-1", 100, "cut short")
	require.NoError(t, err)

	eng.tick(clock.advance(7 * time.Second))
	clock.advance(time.Second)
	eng.Stop(id)

	assert.Equal(t, 0, eng.Count())
	sessions := storage.LoadSessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, int64(7), sessions[0].Duration)
	assert.True(t, sessions[0].EndTime.Equal(t0.Add(8*time.Second)))
}

func TestCountdownRemoveCompleted(t *testing.T) {
	eng, storage, clock := newTestCountdownEngine(t)

	id, err := eng.Start("cat-1", 2, "")
	require.NoError(t, err)
	eng.tick(clock.advance(2 * time.Second))

	countdowns := eng.ActiveCountdowns()
	require.Len(t, countdowns, 1)
	require.True(t, countdowns[0].IsComplete)

	eng.RemoveCompleted(id)

	assert.Equal(t, 0, eng.Count())
	// Dismissal never produces a second session.
	assert.Len(t, storage.LoadSessions(), 1)
}

func TestCountdownObserverHandles(t *testing.T) {
	eng, _, _ := newTestCountdownEngine(t)

	var order []string
	first := eng.Subscribe(func(snapshot []models.ActiveCountdown) {
		order = append(order, "first")
	})
	eng.Subscribe(func(snapshot []models.ActiveCountdown) {
		order = append(order, "second")
	})

	_, err := eng.Start("cat-1", 60, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)

	eng.Unsubscribe(first)
	eng.Unsubscribe(99) // unknown handle

	order = nil
	_, err = eng.Start("cat-1", 60, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"second"}, order)
}

func TestCountdownUnsubscribeDuringNotification(t *testing.T) {
	eng, _, _ := newTestCountdownEngine(t)

	calls := 0
	var handle int
	handle = eng.Subscribe(func(snapshot []models.ActiveCountdown) {
		calls++
		eng.Unsubscribe(handle)
	})
	tail := 0
	eng.Subscribe(func(snapshot []models.ActiveCountdown) {
		tail++
	})

	_, err := eng.Start("cat-1", 60, "")
	require.NoError(t, err)
	_, err = eng.Start("cat-1", 60, "")
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, tail)
}

func TestCountdownObserverSnapshotIsACopy(t *testing.T) {
	eng, _, _ := newTestCountdownEngine(t)

	eng.Subscribe(func(snapshot []models.ActiveCountdown) {
		for i := range snapshot {
			snapshot[i].Note = "tampered"
		}
	})

	_, err := eng.Start("cat-1", 60, "original")
	require.NoError(t, err)

	countdowns := eng.ActiveCountdowns()
	require.Len(t, countdowns, 1)
	assert.Equal(t, "original", countdowns[0].Note)
}

func TestCountdownResumeOverlay(t *testing.T) {
	eng, _, clock := newTestCountdownEngine(t)

	id, err := eng.Start("cat-1", 60, "")
	require.NoError(t, err)

	eng.tick(clock.advance(5 * time.Second))
	eng.Pause(id)
	clock.advance(5 * time.Second)
	eng.Resume(id)

	countdowns := eng.ActiveCountdowns()
	require.Len(t, countdowns, 1)
	assert.True(t, countdowns[0].ShowOverlay)

	eng.clearOverlay(id)

	countdowns = eng.ActiveCountdowns()
	require.Len(t, countdowns, 1)
	assert.False(t, countdowns[0].ShowOverlay)

	// Clearing after the countdown is gone must be a harmless no-op.
	eng.Stop(id)
	eng.clearOverlay(id)
	assert.Equal(t, 0, eng.Count())
}

func TestCountdownNotifierFailureDoesNotBlockCompletion(t *testing.T) {
	eng, storage, clock := newTestCountdownEngine(t)
	eng.SetNotifier(&recordingNotifier{err: errors.New("notification backend down")})

	_, err := eng.Start("cat-1", 3, "")
	require.NoError(t, err)
	eng.tick(clock.advance(3 * time.Second))

	countdowns := eng.ActiveCountdowns()
	require.Len(t, countdowns, 1)
	assert.True(t, countdowns[0].IsComplete)
	assert.Len(t, storage.LoadSessions(), 1)
}

func TestCountdownCompletionSurvivesRestart(t *testing.T) {
	storage := store.NewStorage(t.TempDir(), zap.NewNop().Sugar())
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	eng := NewCountdownEngine(storage, zap.NewNop().Sugar(), Options{Now: clock.Now})

	_, err := eng.Start("cat-1", 4, "")
	require.NoError(t, err)
	eng.tick(clock.advance(4 * time.Second))
	require.Len(t, storage.LoadSessions(), 1)

	restored := NewCountdownEngine(storage, zap.NewNop().Sugar(), Options{Now: clock.Now})
	countdowns := restored.ActiveCountdowns()
	require.Len(t, countdowns, 1)
	assert.True(t, countdowns[0].IsComplete)

	// The persisted flag keeps the restored engine from emitting again.
	restored.tick(clock.advance(time.Second))
	assert.Len(t, storage.LoadSessions(), 1)
}
