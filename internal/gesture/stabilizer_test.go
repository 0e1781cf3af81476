package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func sample(g Gesture) Sample {
	return Sample{Gesture: g, Confidence: 0.9}
}

func TestHistory_RingEviction(t *testing.T) {
	var h History
	assert.Equal(t, 0, h.Len())
	assert.Empty(t, h.Slice())

	seq := []Gesture{Rock, Paper, Scissors, ThumbsUp, ThumbsDown, Pointing, Rock}
	for i, g := range seq {
		h.Push(g)
		assert.LessOrEqual(t, h.Len(), HistorySize, "after push %d", i)
	}

	assert.Equal(t, HistorySize, h.Len())
	assert.Equal(t, []Gesture{Scissors, ThumbsUp, ThumbsDown, Pointing, Rock}, h.Slice())
	assert.Equal(t, []Gesture{ThumbsDown, Pointing, Rock}, h.Last(3))
	assert.Equal(t, h.Slice(), h.Last(10))
}

func TestMajority(t *testing.T) {
	tests := []struct {
		name   string
		window []Gesture
		want   Gesture
		count  int
	}{
		{"unanimous", []Gesture{Rock, Rock, Rock}, Rock, 3},
		{"two of three", []Gesture{Paper, Rock, Paper}, Paper, 2},
		{"all distinct picks first seen", []Gesture{Scissors, Rock, Paper}, Scissors, 1},
		{"empty", nil, None, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, n := majority(tt.window)
			assert.Equal(t, tt.want, g)
			assert.Equal(t, tt.count, n)
		})
	}
}

func TestStabilizer_SteadyGestureAccumulates(t *testing.T) {
	var s Stabilizer

	var last time.Duration
	for i := 0; i < 10; i++ {
		g, d := s.Update(sample(Rock), at(i*100))
		require.Equal(t, Rock, g)
		assert.GreaterOrEqual(t, d, last, "frame %d", i)
		last = d
	}

	assert.Len(t, s.History(), HistorySize)
	// Frame 0 is the change from None, frame 1 anchors the timer.
	assert.Equal(t, 800*time.Millisecond, last)
	assert.Equal(t, 1200*time.Millisecond, s.Stable(at(1300)))
}

func TestStabilizer_ChangeResetsDuration(t *testing.T) {
	var s Stabilizer
	for i := 0; i < 5; i++ {
		s.Update(sample(Rock), at(i*100))
	}
	require.Positive(t, s.Stable(at(400)))

	// One stray frame is outvoted by the two rocks before it.
	g, d := s.Update(sample(Paper), at(500))
	assert.Equal(t, Rock, g)
	assert.Equal(t, 400*time.Millisecond, d)

	// A second paper wins the vote and the timer resets on that frame.
	g, d = s.Update(sample(Paper), at(600))
	assert.Equal(t, Paper, g)
	assert.Zero(t, d)

	g, d = s.Update(sample(Paper), at(700))
	assert.Equal(t, Paper, g)
	assert.Zero(t, d, "timer anchors on the first unchanged frame")

	_, d = s.Update(sample(Paper), at(900))
	assert.Equal(t, 200*time.Millisecond, d)
}

func TestStabilizer_SplitVoteKeepsPrevious(t *testing.T) {
	var s Stabilizer
	for i := 0; i < 3; i++ {
		s.Update(sample(Rock), at(i*100))
	}

	s.Update(sample(Paper), at(300))
	s.Update(sample(Scissors), at(400))
	// No two of the last three agree, so rock is retained.
	g, d := s.Update(sample(Pointing), at(500))
	assert.Equal(t, Rock, g)
	assert.Positive(t, d)
}

func TestStabilizer_ShortHistoryUsesRaw(t *testing.T) {
	var s Stabilizer

	g, d := s.Update(sample(Paper), at(0))
	assert.Equal(t, Paper, g)
	assert.Zero(t, d)

	g, _ = s.Update(sample(Rock), at(100))
	assert.Equal(t, Rock, g)
}

func TestStabilizer_NoneNeverAccumulates(t *testing.T) {
	var s Stabilizer
	for i := 0; i < 20; i++ {
		g, d := s.Update(Sample{}, at(i*100))
		assert.Equal(t, None, g)
		assert.Zero(t, d)
	}
}

func TestStabilizer_Reset(t *testing.T) {
	var s Stabilizer
	for i := 0; i < 6; i++ {
		s.Update(sample(ThumbsUp), at(i*100))
	}
	require.Positive(t, s.Stable(at(500)))

	s.Reset()
	assert.Zero(t, s.Stable(at(600)))
	assert.Equal(t, ThumbsUp, s.Current())

	_, d := s.Update(sample(ThumbsUp), at(600))
	assert.Zero(t, d)
	_, d = s.Update(sample(ThumbsUp), at(1000))
	assert.Equal(t, 400*time.Millisecond, d)
}

func TestStabilizer_ValueCopyIsIndependent(t *testing.T) {
	var a Stabilizer
	for i := 0; i < 4; i++ {
		a.Update(sample(Rock), at(i*100))
	}

	b := a
	b.Update(sample(Paper), at(400))
	b.Update(sample(Paper), at(500))

	assert.Equal(t, Rock, a.Current())
	assert.Equal(t, Paper, b.Current())
	assert.NotEqual(t, a.History(), b.History())
}
