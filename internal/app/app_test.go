package app

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/rpsworld/internal/capture"
	"github.com/ayusman/rpsworld/internal/detector"
	"github.com/ayusman/rpsworld/internal/game"
	"github.com/ayusman/rpsworld/internal/score"
)

func TestFPSMeter(t *testing.T) {
	var m FPSMeter
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 10; i++ {
		assert.Zero(t, m.Tick(start.Add(time.Duration(i)*100*time.Millisecond)), "frame %d", i)
	}

	// The eleventh frame closes a one-second window holding eleven frames.
	got := m.Tick(start.Add(time.Second))
	assert.InDelta(t, 11.0, got, 1e-9)
	assert.InDelta(t, 11.0, m.FPS(), 1e-9)

	// The rate holds until the next window closes.
	assert.InDelta(t, 11.0, m.Tick(start.Add(1100*time.Millisecond)), 1e-9)
}

func TestHub_PublishAndSnapshot(t *testing.T) {
	h := NewHub()
	_, ok := h.Snapshot()
	assert.False(t, ok)

	h.Publish(game.Snapshot{State: game.StateOptions})
	snap, ok := h.Snapshot()
	require.True(t, ok)
	assert.Equal(t, game.StateOptions, snap.State)
}

func TestHub_Subscribe(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe()
	assert.Equal(t, 1, h.Subscribers())

	h.Publish(game.Snapshot{State: game.StateCountdown, Phase: 2})
	select {
	case snap := <-ch:
		assert.Equal(t, 2, snap.Phase)
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}

	cancel()
	cancel()
	assert.Equal(t, 0, h.Subscribers())
	_, open := <-ch
	assert.False(t, open, "channel closed after cancel")
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub()
	_, cancel := h.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*4; i++ {
			h.Publish(game.Snapshot{Phase: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}

	snap, _ := h.Snapshot()
	assert.Equal(t, subscriberBuffer*4-1, snap.Phase)
}

func TestHub_Frames(t *testing.T) {
	h := NewHub()
	assert.Nil(t, h.Frame())
	assert.Zero(t, h.FrameViewers())

	stop := h.WatchFrames()
	assert.Equal(t, 1, h.FrameViewers())

	h.PublishFrame([]byte{0xff, 0xd8})
	assert.Equal(t, []byte{0xff, 0xd8}, h.Frame())

	stop()
	stop()
	assert.Zero(t, h.FrameViewers())
}

func TestNew_RequiresCollaborators(t *testing.T) {
	ledger, err := score.Open(nil)
	require.NoError(t, err)
	engine := game.NewEngine(ledger)

	_, err = New(Config{Detector: detector.NewMockDetector(), Engine: engine})
	assert.Error(t, err, "missing camera")

	_, err = New(Config{Camera: capture.NewMockCamera(nil, false), Engine: engine})
	assert.Error(t, err, "missing detector")

	_, err = New(Config{Camera: capture.NewMockCamera(nil, false), Detector: detector.NewMockDetector()})
	assert.Error(t, err, "missing engine")
}

func TestNew_PublishesInitialSnapshot(t *testing.T) {
	ledger, err := score.Open(nil)
	require.NoError(t, err)

	a, err := New(Config{
		Camera:   capture.NewMockCamera(nil, false),
		Detector: detector.NewMockDetector(),
		Engine:   game.NewEngine(ledger),
		Logger:   zerolog.Nop(),
	})
	require.NoError(t, err)

	snap, ok := a.Hub().Snapshot()
	require.True(t, ok)
	assert.Equal(t, game.StateMenu, snap.State)
	assert.Equal(t, game.StateMenu, a.Session().State)
}
