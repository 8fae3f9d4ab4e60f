package domain

import (
	"fmt"
	"time"
)

// FormatRemaining renders d as HH:MM:SS. Hours are not wrapped at 24.
// Negative durations render as 00:00:00.
func FormatRemaining(d time.Duration) string {
	h, m, s := SplitDuration(d)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// SplitDuration breaks d into whole hours, minutes (0-59) and seconds (0-59).
// Sub-second remainders are truncated.
func SplitDuration(d time.Duration) (hour, minute, second int) {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	hour = int(ms / 3_600_000)
	minute = int(ms / 60_000 % 60)
	second = int(ms / 1000 % 60)
	return hour, minute, second
}

// Progress returns the elapsed fraction 1 - remaining/total, in [0, 1].
// A zero total yields 0.
func Progress(total, remaining time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	p := 1 - float64(remaining)/float64(total)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// IsUrgent reports whether remaining is within the final threshold window.
func IsUrgent(remaining, threshold time.Duration) bool {
	return remaining <= threshold
}
