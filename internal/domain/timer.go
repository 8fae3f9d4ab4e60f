// Package domain defines the core types and interfaces for the countdown timer.
// All other packages depend on domain; domain depends on nothing.
package domain

import "time"

// Snapshot is a point-in-time copy of the timer state machine.
type Snapshot struct {
	Hour   int // selected hours
	Minute int // selected minutes
	Second int // selected seconds

	Total     time.Duration // selected duration frozen at start
	Remaining time.Duration // counts down from Total to 0
	Running   bool
}

// TotalMillis returns Total in whole milliseconds.
func (s Snapshot) TotalMillis() int64 { return s.Total.Milliseconds() }

// RemainingMillis returns Remaining in whole milliseconds.
func (s Snapshot) RemainingMillis() int64 { return s.Remaining.Milliseconds() }

// Selected returns the selected components as a duration.
func (s Snapshot) Selected() time.Duration {
	return SelectedDuration(s.Hour, s.Minute, s.Second)
}

// Status returns the coarse state derived from Running.
func (s Snapshot) Status() TimerStatus {
	if s.Running {
		return TimerRunning
	}
	return TimerIdle
}

// SelectedDuration converts hour/minute/second components into a duration.
func SelectedDuration(hour, minute, second int) time.Duration {
	return time.Duration(hour*3600+minute*60+second) * time.Second
}

// TimerStatus represents the state of the timer.
type TimerStatus int

const (
	TimerIdle TimerStatus = iota
	TimerRunning
)

// String returns a human-readable timer status.
func (t TimerStatus) String() string {
	switch t {
	case TimerIdle:
		return "idle"
	case TimerRunning:
		return "running"
	default:
		return "unknown"
	}
}

// EventKind classifies a state change published by the timer.
type EventKind int

const (
	EventSelected EventKind = iota
	EventStarted
	EventTicked
	EventCompleted // natural expiry, never emitted on cancel
	EventCancelled
	EventReset
)

// String returns a human-readable event kind.
func (k EventKind) String() string {
	switch k {
	case EventSelected:
		return "selected"
	case EventStarted:
		return "started"
	case EventTicked:
		return "ticked"
	case EventCompleted:
		return "completed"
	case EventCancelled:
		return "cancelled"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event is a state change together with the state right after it.
type Event struct {
	Kind     EventKind
	Snapshot Snapshot
	At       time.Time
}
