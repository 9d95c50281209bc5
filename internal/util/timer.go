package util

import "time"

// Timer measures the end-to-end duration of one analysis, from the
// moment the orchestrator starts until whichever path resolves it.
type Timer struct {
	start time.Time
}

// StartTimer begins measuring at the current time.
func StartTimer() Timer {
	return Timer{start: time.Now()}
}

// Elapsed returns the duration since the timer started.
func (t Timer) Elapsed() time.Duration {
	if t.start.IsZero() {
		return 0
	}
	return time.Since(t.start)
}

// ElapsedMs returns the elapsed time in whole milliseconds.
func (t Timer) ElapsedMs() int64 {
	return t.Elapsed().Milliseconds()
}
