package gesture

import "time"

const (
	// SmoothingWindow is how many of the latest raw gestures vote.
	SmoothingWindow = 3
	// SmoothingQuorum is the minimum vote count to adopt a gesture.
	SmoothingQuorum = 2
)

// Stabilizer smooths raw per-frame gestures by majority vote and tracks how
// long the smoothed gesture has stayed unchanged. It is a plain value so it
// can live inside a game session; the zero value starts with no history and
// an effective gesture of None.
type Stabilizer struct {
	history     History
	current     Gesture
	stableSince time.Time // zero when unset
}

// Update feeds one classifier sample observed at now and returns the
// smoothed gesture together with how long it has been stable.
func (s *Stabilizer) Update(sample Sample, now time.Time) (Gesture, time.Duration) {
	s.history.Push(sample.Gesture)

	effective := sample.Gesture
	if s.history.Len() >= SmoothingWindow {
		effective = s.current
		if g, n := majority(s.history.Last(SmoothingWindow)); n >= SmoothingQuorum {
			effective = g
		}
	}

	switch {
	case effective != s.current || effective == None:
		s.stableSince = time.Time{}
	case s.stableSince.IsZero():
		s.stableSince = now
	}
	s.current = effective

	return effective, s.Stable(now)
}

// Stable returns the elapsed stable duration at now, or 0 when unset.
func (s *Stabilizer) Stable(now time.Time) time.Duration {
	if s.stableSince.IsZero() {
		return 0
	}
	if d := now.Sub(s.stableSince); d > 0 {
		return d
	}
	return 0
}

// Reset unsets the stability timer so an accepted action cannot re-trigger
// on the next frame.
func (s *Stabilizer) Reset() {
	s.stableSince = time.Time{}
}

// Current returns the smoothed gesture from the last update.
func (s *Stabilizer) Current() Gesture {
	return s.current
}

// History returns the raw gestures currently held, oldest first.
func (s *Stabilizer) History() []Gesture {
	return s.history.Slice()
}
