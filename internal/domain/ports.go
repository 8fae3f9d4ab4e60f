package domain

import (
	"context"
	"time"
)

// Notifier hands a remaining-time snapshot to a background task that
// eventually surfaces a system notification. Schedule may block until the
// notification is shown; callers run it on its own goroutine. A cancelled
// ctx means the run the snapshot belongs to was cancelled.
type Notifier interface {
	Schedule(ctx context.Context, remaining time.Duration) error
}

// CuePlayer plays the completion sound. PlayCompletion must not block.
type CuePlayer interface {
	PlayCompletion()
}

// Clock is the time source used for ticking and scheduled notifications.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// SystemClock is a Clock backed by the time package.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// After returns time.After(d).
func (SystemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
