package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NathanMorier/ultimatetimer/internal/models"
	"github.com/NathanMorier/ultimatetimer/internal/store"
)

// ErrCategoryRequired rejects start commands without a category reference.
var ErrCategoryRequired = errors.New("category is required")

// Options contains runtime knobs shared by both engines.
type Options struct {
	TickInterval time.Duration
	// Now is the clock source; tests substitute a fake.
	Now func() time.Time
}

func (o *Options) applyDefaults() {
	if o.TickInterval <= 0 {
		o.TickInterval = time.Second
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// TimerEngine owns the active stopwatch collection. Commands and the
// background tick serialize on one mutex; the tick advances every non-paused
// timer and persists the whole batch once per period.
type TimerEngine struct {
	mu      sync.Mutex
	options Options
	storage *store.Storage
	logger  *zap.SugaredLogger
	timers  []models.ActiveTimer
	stopCh  chan struct{}
	running bool
}

// NewTimerEngine creates the engine and restores active timers from storage.
func NewTimerEngine(storage *store.Storage, logger *zap.SugaredLogger, options Options) *TimerEngine {
	options.applyDefaults()
	return &TimerEngine{
		options: options,
		storage: storage,
		logger:  logger,
		timers:  storage.LoadActiveTimers(),
		stopCh:  make(chan struct{}),
	}
}

// Run launches the ticking loop.
func (e *TimerEngine) Run() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	go e.run()
}

// Close terminates the ticking loop.
func (e *TimerEngine) Close() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	close(e.stopCh)
	e.mu.Unlock()
}

func (e *TimerEngine) run() {
	ticker := time.NewTicker(e.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stopCh:
			return
		case <-ticker.C:
			e.tick(e.options.Now())
		}
	}
}

func (e *TimerEngine) tick(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.timers {
		if !e.timers[i].IsPaused {
			e.timers[i].CurrentTime = now
		}
	}
	e.persistLocked()
}

// Start creates a new stopwatch for the category and returns its id.
func (e *TimerEngine) Start(categoryID, note string) (string, error) {
	if categoryID == "" {
		return "", ErrCategoryRequired
	}

	now := e.options.Now()
	timer := models.ActiveTimer{
		ID:          uuid.New().String(),
		CategoryID:  categoryID,
		StartTime:   now,
		CurrentTime: now,
		Note:        note,
	}

	e.mu.Lock()
	e.timers = append(e.timers, timer)
	e.persistLocked()
	e.mu.Unlock()
	return timer.ID, nil
}

// Pause freezes the matching timer. Pausing an already-paused timer, or an
// unknown id, changes nothing.
func (e *TimerEngine) Pause(id string) {
	now := e.options.Now()

	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.timers {
		if e.timers[i].ID == id && !e.timers[i].IsPaused {
			pausedAt := now
			e.timers[i].IsPaused = true
			e.timers[i].LastPauseTime = &pausedAt
			e.persistLocked()
			return
		}
	}
}

// Resume unfreezes the matching timer, folding the finished pause interval
// into PausedTime. CurrentTime stays stale until the next tick.
func (e *TimerEngine) Resume(id string) {
	now := e.options.Now()

	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.timers {
		if e.timers[i].ID == id && e.timers[i].IsPaused {
			e.timers[i].PausedTime += ElapsedSeconds(*e.timers[i].LastPauseTime, now)
			e.timers[i].IsPaused = false
			e.timers[i].LastPauseTime = nil
			e.persistLocked()
			return
		}
	}
}

// Stop converts the matching timer into a session and drops it from the
// active set. The session duration is the paused-corrected elapsed time as
// of the last tick. Unknown ids are a no-op.
func (e *TimerEngine) Stop(id string) {
	now := e.options.Now()

	e.mu.Lock()
	defer e.mu.Unlock()
	for i, timer := range e.timers {
		if timer.ID != id {
			continue
		}

		session := models.Session{
			ID:         timer.ID,
			CategoryID: timer.CategoryID,
			StartTime:  timer.StartTime,
			EndTime:    now,
			Duration:   NetElapsed(timer.StartTime, timer.CurrentTime, timer.PausedTime),
			Note:       timer.Note,
		}
		if err := e.storage.AddSession(session); err != nil {
			e.logger.Errorf("timer engine: save session: %v", err)
		}

		e.timers = append(e.timers[:i], e.timers[i+1:]...)
		e.persistLocked()
		return
	}
}

// UpdateNote replaces the note of the matching timer.
func (e *TimerEngine) UpdateNote(id, note string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.timers {
		if e.timers[i].ID == id {
			e.timers[i].Note = note
			e.persistLocked()
			return
		}
	}
}

// ActiveTimers returns a copy of the active set.
func (e *TimerEngine) ActiveTimers() []models.ActiveTimer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.ActiveTimer(nil), e.timers...)
}

// Count reports how many timers are active, for navigation badges.
func (e *TimerEngine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.timers)
}

// Elapsed is the display value for a timer record. Pure read, no mutation.
func (e *TimerEngine) Elapsed(timer models.ActiveTimer) int64 {
	return NetElapsed(timer.StartTime, timer.CurrentTime, timer.PausedTime)
}

func (e *TimerEngine) persistLocked() {
	if err := e.storage.SaveActiveTimers(e.timers); err != nil {
		e.logger.Errorf("timer engine: persist: %v", err)
	}
}
