package realtime

import "time"

// Idle tracks the last activity of a room and when it should be considered
// stale. It holds no room state; the owner reacts to Expired.
type Idle struct {
	Timeout      time.Duration
	LastActivity time.Time
}

// Touch records activity at now.
func (i *Idle) Touch(now time.Time) {
	i.LastActivity = now
}

// Deadline returns when the room goes stale, or zero if it never does.
func (i *Idle) Deadline() time.Time {
	if i.Timeout <= 0 || i.LastActivity.IsZero() {
		return time.Time{}
	}
	return i.LastActivity.Add(i.Timeout)
}

// Expired reports whether no activity happened within Timeout of now.
func (i *Idle) Expired(now time.Time) bool {
	deadline := i.Deadline()
	if deadline.IsZero() {
		return false
	}
	return !now.Before(deadline)
}

// NextWake returns the deadline, and whether the timer is armed.
// A deadline already in the past wakes immediately.
func (i *Idle) NextWake(now time.Time) (time.Time, bool) {
	deadline := i.Deadline()
	if deadline.IsZero() {
		return time.Time{}, false
	}
	if deadline.Before(now) {
		return now, true
	}
	return deadline, true
}
