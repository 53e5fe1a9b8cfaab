package checkout

import "time"

// CancelFunc stops a scheduled task. It reports whether the task was stopped
// before it ran.
type CancelFunc func() bool

// Scheduler runs fn once after d
type Scheduler interface {
	Schedule(d time.Duration, fn func()) CancelFunc
}

// TimerScheduler schedules on the runtime timer; fn runs on its own goroutine.
type TimerScheduler struct{}

func (TimerScheduler) Schedule(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return t.Stop
}
