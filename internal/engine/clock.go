package engine

import "time"

// Duration accounting shared by timers and countdowns. All math is in whole
// seconds, floored, matching the one-second display precision.

// ElapsedSeconds returns the floored number of seconds between start and end.
func ElapsedSeconds(start, end time.Time) int64 {
	return end.Sub(start).Milliseconds() / 1000
}

// NetElapsed is the wall-clock span minus cumulative paused seconds,
// clamped at zero. This is the authoritative "real" duration of a record.
func NetElapsed(start, current time.Time, pausedSeconds int64) int64 {
	net := ElapsedSeconds(start, current) - pausedSeconds
	if net < 0 {
		return 0
	}
	return net
}

// Remaining is the countdown display value: target minus net elapsed,
// clamped at zero.
func Remaining(target int64, start, current time.Time, pausedSeconds int64) int64 {
	remaining := target - NetElapsed(start, current, pausedSeconds)
	if remaining < 0 {
		return 0
	}
	return remaining
}
