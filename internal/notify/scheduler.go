// Package notify surfaces "time's up" notifications outside the timer
// screen: a background scheduler waits out the remaining time handed over
// at start, then posts through one or more Posters.
package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hammamikhairi/countdown/internal/domain"
	"github.com/hammamikhairi/countdown/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*Scheduler)(nil)

// DefaultTitle is the notification title when none is configured.
const DefaultTitle = "Countdown"

// Poster delivers a notification to the user.
type Poster interface {
	Post(ctx context.Context, title, body string) error
}

// Option configures the scheduler.
type Option func(*Scheduler)

// WithClock sets the time source used to wait out the remaining time.
func WithClock(c domain.Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

// WithTitle sets the notification title.
func WithTitle(title string) Option {
	return func(s *Scheduler) {
		if title != "" {
			s.title = title
		}
	}
}

// Scheduler is the background notification task for one countdown run.
type Scheduler struct {
	poster Poster
	clock  domain.Clock
	log    *logger.Logger
	title  string
}

// NewScheduler creates a scheduler posting through poster.
func NewScheduler(poster Poster, log *logger.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		poster: poster,
		clock:  domain.SystemClock{},
		log:    log,
		title:  DefaultTitle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule blocks until remaining has elapsed and then posts the
// notification. Returns ctx.Err() if the run is cancelled first.
func (s *Scheduler) Schedule(ctx context.Context, remaining time.Duration) error {
	s.log.Debug("notification scheduled in %s", remaining)

	if remaining > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.clock.After(remaining):
		}
	}

	body := fmt.Sprintf("Time's up! %s countdown finished.", domain.FormatRemaining(remaining))
	if err := s.poster.Post(ctx, s.title, body); err != nil {
		return fmt.Errorf("posting notification: %w", err)
	}
	s.log.Debug("notification posted: %s", body)
	return nil
}

// Fanout posts to every poster and joins their errors.
type Fanout []Poster

// Post delivers to each poster in order.
func (f Fanout) Post(ctx context.Context, title, body string) error {
	var errs []error
	for _, p := range f {
		if err := p.Post(ctx, title, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
