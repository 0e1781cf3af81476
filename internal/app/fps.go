package app

import "time"

// FPSMeter averages the frame rate over one-second windows.
type FPSMeter struct {
	count int
	start time.Time
	fps   float64
}

// Tick counts a frame at now and returns the rate of the last full window.
func (m *FPSMeter) Tick(now time.Time) float64 {
	if m.start.IsZero() {
		m.start = now
	}
	m.count++

	if elapsed := now.Sub(m.start); elapsed >= time.Second {
		m.fps = float64(m.count) / elapsed.Seconds()
		m.count = 0
		m.start = now
	}
	return m.fps
}

// FPS returns the last measured rate.
func (m *FPSMeter) FPS() float64 {
	return m.fps
}
