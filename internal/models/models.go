package models

import (
	"time"
)

// Category is a user-defined activity bucket. Timers, countdowns and
// sessions reference it by id only; deleting a category never cascades.
type Category struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// ActiveTimer is a running or paused stopwatch.
//
// PausedTime is the cumulative seconds of all completed pause intervals.
// LastPauseTime is set iff IsPaused is true. Elapsed for display is
// (CurrentTime - StartTime) - PausedTime, never negative.
type ActiveTimer struct {
	ID            string     `json:"id"`
	CategoryID    string     `json:"category_id"`
	StartTime     time.Time  `json:"start_time"`
	CurrentTime   time.Time  `json:"current_time"`
	Note          string     `json:"note"`
	IsPaused      bool       `json:"is_paused"`
	PausedTime    int64      `json:"paused_time"`
	LastPauseTime *time.Time `json:"last_pause_time,omitempty"`
}

// ActiveCountdown is a running or paused countdown toward Duration seconds.
// Same pause algebra as ActiveTimer. IsComplete flips true exactly once,
// when remaining first reaches zero; the record stays in the active set
// until the user dismisses it.
//
// ShowOverlay covers the one-tick transition after a resume. It is a UI
// affordance only and is not persisted.
type ActiveCountdown struct {
	ID            string     `json:"id"`
	CategoryID    string     `json:"category_id"`
	Duration      int64      `json:"duration"`
	StartTime     time.Time  `json:"start_time"`
	CurrentTime   time.Time  `json:"current_time"`
	Note          string     `json:"note"`
	IsPaused      bool       `json:"is_paused"`
	PausedTime    int64      `json:"paused_time"`
	LastPauseTime *time.Time `json:"last_pause_time,omitempty"`
	IsComplete    bool       `json:"is_complete"`
	ShowOverlay   bool       `json:"-"`
}

// Session is the immutable historical record of a stopped or completed
// tracking interval. Duration is paused-corrected seconds, not the raw
// wall-clock span. ID reuses the originating active instance's id.
type Session struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"category_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Duration   int64     `json:"duration"`
	Note       string    `json:"note"`
}
