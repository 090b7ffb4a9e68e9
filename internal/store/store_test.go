package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/NathanMorier/ultimatetimer/internal/models"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	return NewStorage(t.TempDir(), zap.NewNop().Sugar())
}

func TestLoadMissingFilesReturnsEmpty(t *testing.T) {
	s := newTestStorage(t)

	assert.Empty(t, s.LoadCategories())
	assert.Empty(t, s.LoadSessions())
	assert.Empty(t, s.LoadActiveTimers())
	assert.Empty(t, s.LoadActiveCountdowns())
}

func TestLoadMalformedFileReturnsEmpty(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.BaseDir, "sessions.json"), []byte("{not json"), 0644))

	assert.Empty(t, s.LoadSessions())
}

func TestSessionsRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	sessions := []models.Session{
		{
			ID:         "s-1",
			CategoryID: "cat-1",
			StartTime:  start,
			EndTime:    start.Add(time.Hour),
			Duration:   3600,
			Note:       "morning block",
		},
		{
			ID:         "s-2",
			CategoryID: "cat-2",
			StartTime:  start.Add(2 * time.Hour),
			EndTime:    start.Add(3 * time.Hour),
			Duration:   3600,
		},
	}

	require.NoError(t, s.SaveSessions(sessions))
	loaded := s.LoadSessions()
	require.Len(t, loaded, 2)
	assert.Equal(t, "s-1", loaded[0].ID)
	assert.Equal(t, "cat-1", loaded[0].CategoryID)
	assert.Equal(t, int64(3600), loaded[0].Duration)
	assert.Equal(t, "morning block", loaded[0].Note)
	assert.True(t, loaded[0].StartTime.Equal(start))
	assert.True(t, loaded[0].EndTime.Equal(start.Add(time.Hour)))
	assert.Empty(t, loaded[1].Note)
}

func TestActiveTimerRoundTripKeepsPauseState(t *testing.T) {
	s := newTestStorage(t)
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	pausedAt := start.Add(30 * time.Second)
	timers := []models.ActiveTimer{
		{
			ID:            "t-1",
			CategoryID:    "cat-1",
			StartTime:     start,
			CurrentTime:   pausedAt,
			IsPaused:      true,
			PausedTime:    12,
			LastPauseTime: &pausedAt,
		},
		{
			ID:          "t-2",
			CategoryID:  "cat-1",
			StartTime:   start,
			CurrentTime: start.Add(time.Minute),
		},
	}

	require.NoError(t, s.SaveActiveTimers(timers))
	loaded := s.LoadActiveTimers()
	require.Len(t, loaded, 2)
	assert.True(t, loaded[0].IsPaused)
	assert.Equal(t, int64(12), loaded[0].PausedTime)
	require.NotNil(t, loaded[0].LastPauseTime)
	assert.True(t, loaded[0].LastPauseTime.Equal(pausedAt))
	assert.False(t, loaded[1].IsPaused)
	assert.Nil(t, loaded[1].LastPauseTime)
}

func TestActiveCountdownRoundTripDropsOverlay(t *testing.T) {
	s := newTestStorage(t)
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	countdowns := []models.ActiveCountdown{
		{
			ID:          "c-1",
			CategoryID:  "cat-1",
			Duration:    300,
			StartTime:   start,
			CurrentTime: start.Add(300 * time.Second),
			IsComplete:  true,
			ShowOverlay: true,
		},
	}

	require.NoError(t, s.SaveActiveCountdowns(countdowns))
	loaded := s.LoadActiveCountdowns()
	require.Len(t, loaded, 1)
	assert.Equal(t, int64(300), loaded[0].Duration)
	assert.True(t, loaded[0].IsComplete)
	// The overlay flag only covers a live resume transition.
	assert.False(t, loaded[0].ShowOverlay)
}

func TestSaveEmptyCollectionOverwrites(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.SaveCategories([]models.Category{{ID: "cat-1", Title: "Work"}}))
	require.NoError(t, s.SaveCategories([]models.Category{}))

	assert.Empty(t, s.LoadCategories())
}

func TestAddSessionAppendsToStoredState(t *testing.T) {
	s := newTestStorage(t)
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveSessions([]models.Session{{ID: "s-1", CategoryID: "cat-1", StartTime: start, EndTime: start, Duration: 0}}))

	// Appends are applied to what is on disk, not to the caller's stale view.
	require.NoError(t, s.AddSession(models.Session{ID: "s-2", CategoryID: "cat-1", StartTime: start, EndTime: start, Duration: 5}))

	loaded := s.LoadSessions()
	require.Len(t, loaded, 2)
	assert.Equal(t, "s-1", loaded[0].ID)
	assert.Equal(t, "s-2", loaded[1].ID)
}

func TestDeleteAllSessions(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.AddSession(models.Session{ID: "s-1", CategoryID: "cat-1"}))

	require.NoError(t, s.DeleteAllSessions())
	assert.Empty(t, s.LoadSessions())

	// Deleting when nothing exists is fine.
	require.NoError(t, s.DeleteAllSessions())
}

func TestMoveDataCopiesSnapshots(t *testing.T) {
	s := newTestStorage(t)
	oldDir := s.BaseDir
	require.NoError(t, s.SaveCategories([]models.Category{{ID: "cat-1", Title: "Work"}}))
	require.NoError(t, s.AddSession(models.Session{ID: "s-1", CategoryID: "cat-1"}))

	newDir := t.TempDir()
	require.NoError(t, s.MoveData(newDir))

	assert.Equal(t, newDir, s.BaseDir)
	require.Len(t, s.LoadCategories(), 1)
	require.Len(t, s.LoadSessions(), 1)

	// Originals stay behind so a failed switchover loses nothing.
	_, err := os.Stat(filepath.Join(oldDir, "categories.json"))
	assert.NoError(t, err)
}
