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

// ErrInvalidDuration rejects countdown starts with a non-positive target.
var ErrInvalidDuration = errors.New("countdown duration must be positive")

// Notifier is the pluggable completion side effect (sound, desktop
// notification). Failures are logged by the engine and never block
// completion bookkeeping.
type Notifier interface {
	CountdownFinished(countdown models.ActiveCountdown) error
}

// CompletionFunc presents the completion modal for a finished countdown.
type CompletionFunc func(countdown models.ActiveCountdown)

// CountdownEngine is the single authoritative coordinator for active
// countdowns. Exactly one instance is constructed at application start and
// handed to every consumer; it owns the only ticking loop for countdowns
// and broadcasts the full collection to all subscribed observers.
//
// Completion fires exactly once per countdown: the first tick that sees
// remaining reach zero emits the session, flips IsComplete, and invokes the
// side-effect hooks. The flag permanently suppresses re-emission. The
// completed record stays visible until RemoveCompleted dismisses it.
type CountdownEngine struct {
	mu           sync.Mutex
	options      Options
	storage      *store.Storage
	logger       *zap.SugaredLogger
	countdowns   []models.ActiveCountdown
	registry     observerRegistry
	notifier     Notifier
	onComplete   CompletionFunc
	overlayTimer map[string]*time.Timer
	stopCh       chan struct{}
	running      bool
}

// NewCountdownEngine creates the coordinator and restores active countdowns
// from storage. Overlay flags are never restored; they only cover a live
// resume transition.
func NewCountdownEngine(storage *store.Storage, logger *zap.SugaredLogger, options Options) *CountdownEngine {
	options.applyDefaults()
	return &CountdownEngine{
		options:      options,
		storage:      storage,
		logger:       logger,
		countdowns:   storage.LoadActiveCountdowns(),
		overlayTimer: make(map[string]*time.Timer),
		stopCh:       make(chan struct{}),
	}
}

// SetNotifier installs the sound/notification hook. May be left unset.
func (e *CountdownEngine) SetNotifier(notifier Notifier) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notifier = notifier
}

// SetCompletionCallback installs the modal-presentation hook. May be left
// unset; completion bookkeeping proceeds either way.
func (e *CountdownEngine) SetCompletionCallback(fn CompletionFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onComplete = fn
}

// Subscribe registers an observer and returns its handle. The observer is
// invoked synchronously, in registration order, with the full collection.
func (e *CountdownEngine) Subscribe(fn ObserverFunc) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.add(fn)
}

// Unsubscribe removes the observer for the handle. Unknown handles are a
// no-op; unsubscribing during a notification pass is safe.
func (e *CountdownEngine) Unsubscribe(handle int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.registry.remove(handle)
}

// Run launches the ticking loop.
func (e *CountdownEngine) Run() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.mu.Unlock()

	go e.run()
}

// Close terminates the ticking loop and cancels pending overlay clears.
func (e *CountdownEngine) Close() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	close(e.stopCh)
	for id, timer := range e.overlayTimer {
		timer.Stop()
		delete(e.overlayTimer, id)
	}
	e.mu.Unlock()
}

func (e *CountdownEngine) run() {
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

// tick advances every non-paused countdown to now, then runs completion
// detection, persists the batch once, and broadcasts.
func (e *CountdownEngine) tick(now time.Time) {
	e.mu.Lock()

	for i := range e.countdowns {
		if !e.countdowns[i].IsPaused {
			e.countdowns[i].CurrentTime = now
		}
	}

	var completed []models.ActiveCountdown
	for i := range e.countdowns {
		c := &e.countdowns[i]
		if c.IsComplete {
			continue
		}
		if Remaining(c.Duration, c.StartTime, c.CurrentTime, c.PausedTime) > 0 {
			continue
		}

		session := models.Session{
			ID:         c.ID,
			CategoryID: c.CategoryID,
			StartTime:  c.StartTime,
			EndTime:    c.CurrentTime,
			Duration:   NetElapsed(c.StartTime, c.CurrentTime, c.PausedTime),
			Note:       c.Note,
		}
		if err := e.storage.AddSession(session); err != nil {
			e.logger.Errorf("countdown engine: save session: %v", err)
		}
		c.IsComplete = true
		completed = append(completed, *c)
	}

	e.persistLocked()
	notifier := e.notifier
	onComplete := e.onComplete
	observers, snapshot := e.broadcastStateLocked()
	e.mu.Unlock()

	for _, c := range completed {
		if notifier != nil {
			if err := notifier.CountdownFinished(c); err != nil {
				e.logger.Warnf("countdown engine: notification failed: %v", err)
			}
		}
		if onComplete != nil {
			onComplete(c)
		}
	}
	publish(observers, snapshot)
}

// Start creates a new countdown toward duration seconds and returns its id.
func (e *CountdownEngine) Start(categoryID string, duration int64, note string) (string, error) {
	if categoryID == "" {
		return "", ErrCategoryRequired
	}
	if duration <= 0 {
		return "", ErrInvalidDuration
	}

	now := e.options.Now()
	countdown := models.ActiveCountdown{
		ID:          uuid.New().String(),
		CategoryID:  categoryID,
		Duration:    duration,
		StartTime:   now,
		CurrentTime: now,
		Note:        note,
	}

	e.mu.Lock()
	e.countdowns = append(e.countdowns, countdown)
	e.persistLocked()
	observers, snapshot := e.broadcastStateLocked()
	e.mu.Unlock()

	publish(observers, snapshot)
	return countdown.ID, nil
}

// Pause freezes the matching countdown. Already-paused or unknown ids
// change nothing.
func (e *CountdownEngine) Pause(id string) {
	now := e.options.Now()

	e.mu.Lock()
	for i := range e.countdowns {
		if e.countdowns[i].ID == id && !e.countdowns[i].IsPaused {
			pausedAt := now
			e.countdowns[i].IsPaused = true
			e.countdowns[i].LastPauseTime = &pausedAt
			e.persistLocked()
			break
		}
	}
	observers, snapshot := e.broadcastStateLocked()
	e.mu.Unlock()

	publish(observers, snapshot)
}

// Resume unfreezes the matching countdown, folds the pause interval into
// PausedTime, and raises the transition overlay for one tick period. The
// overlay clear is a cancellable one-shot keyed by id; firing after the
// countdown is gone is a safe no-op.
func (e *CountdownEngine) Resume(id string) {
	now := e.options.Now()

	e.mu.Lock()
	resumed := false
	for i := range e.countdowns {
		if e.countdowns[i].ID == id && e.countdowns[i].IsPaused {
			e.countdowns[i].PausedTime += ElapsedSeconds(*e.countdowns[i].LastPauseTime, now)
			e.countdowns[i].IsPaused = false
			e.countdowns[i].LastPauseTime = nil
			e.countdowns[i].ShowOverlay = true
			resumed = true
			e.persistLocked()
			break
		}
	}
	if resumed {
		if pending, ok := e.overlayTimer[id]; ok {
			pending.Stop()
		}
		e.overlayTimer[id] = time.AfterFunc(e.options.TickInterval, func() {
			e.clearOverlay(id)
		})
	}
	observers, snapshot := e.broadcastStateLocked()
	e.mu.Unlock()

	publish(observers, snapshot)
}

func (e *CountdownEngine) clearOverlay(id string) {
	e.mu.Lock()
	delete(e.overlayTimer, id)
	changed := false
	for i := range e.countdowns {
		if e.countdowns[i].ID == id && e.countdowns[i].ShowOverlay {
			e.countdowns[i].ShowOverlay = false
			changed = true
			break
		}
	}
	if !changed {
		e.mu.Unlock()
		return
	}
	observers, snapshot := e.broadcastStateLocked()
	e.mu.Unlock()

	publish(observers, snapshot)
}

// Stop terminates the matching countdown from any non-dismissed state,
// bypassing completion: it always emits one session from the elapsed time
// so far, never the target duration. Unknown ids are a no-op.
func (e *CountdownEngine) Stop(id string) {
	now := e.options.Now()

	e.mu.Lock()
	for i, c := range e.countdowns {
		if c.ID != id {
			continue
		}

		session := models.Session{
			ID:         c.ID,
			CategoryID: c.CategoryID,
			StartTime:  c.StartTime,
			EndTime:    now,
			Duration:   NetElapsed(c.StartTime, c.CurrentTime, c.PausedTime),
			Note:       c.Note,
		}
		if err := e.storage.AddSession(session); err != nil {
			e.logger.Errorf("countdown engine: save session: %v", err)
		}

		e.countdowns = append(e.countdowns[:i], e.countdowns[i+1:]...)
		e.cancelOverlayLocked(id)
		e.persistLocked()
		break
	}
	observers, snapshot := e.broadcastStateLocked()
	e.mu.Unlock()

	publish(observers, snapshot)
}

// UpdateNote replaces the note of the matching countdown.
func (e *CountdownEngine) UpdateNote(id, note string) {
	e.mu.Lock()
	for i := range e.countdowns {
		if e.countdowns[i].ID == id {
			e.countdowns[i].Note = note
			e.persistLocked()
			break
		}
	}
	observers, snapshot := e.broadcastStateLocked()
	e.mu.Unlock()

	publish(observers, snapshot)
}

// RemoveCompleted dismisses a completed countdown, removing it from the
// active set. Its session was already emitted at completion time.
func (e *CountdownEngine) RemoveCompleted(id string) {
	e.mu.Lock()
	for i, c := range e.countdowns {
		if c.ID == id {
			e.countdowns = append(e.countdowns[:i], e.countdowns[i+1:]...)
			e.cancelOverlayLocked(id)
			e.persistLocked()
			break
		}
	}
	observers, snapshot := e.broadcastStateLocked()
	e.mu.Unlock()

	publish(observers, snapshot)
}

// ActiveCountdowns returns a copy of the active set.
func (e *CountdownEngine) ActiveCountdowns() []models.ActiveCountdown {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.ActiveCountdown(nil), e.countdowns...)
}

// Count reports how many countdowns are active, for navigation badges.
func (e *CountdownEngine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.countdowns)
}

// RemainingFor is the display value for a countdown record. Pure read.
func (e *CountdownEngine) RemainingFor(c models.ActiveCountdown) int64 {
	return Remaining(c.Duration, c.StartTime, c.CurrentTime, c.PausedTime)
}

func (e *CountdownEngine) cancelOverlayLocked(id string) {
	if pending, ok := e.overlayTimer[id]; ok {
		pending.Stop()
		delete(e.overlayTimer, id)
	}
}

func (e *CountdownEngine) persistLocked() {
	if err := e.storage.SaveActiveCountdowns(e.countdowns); err != nil {
		e.logger.Errorf("countdown engine: persist: %v", err)
	}
}

// broadcastStateLocked snapshots the observer list and the collection so
// callbacks run outside the engine lock.
func (e *CountdownEngine) broadcastStateLocked() ([]observer, []models.ActiveCountdown) {
	return e.registry.snapshot(), append([]models.ActiveCountdown(nil), e.countdowns...)
}

func publish(observers []observer, snapshot []models.ActiveCountdown) {
	for _, o := range observers {
		o.fn(snapshot)
	}
}
