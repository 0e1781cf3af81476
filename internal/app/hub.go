package app

import (
	"sync"

	"github.com/ayusman/rpsworld/internal/game"
)

// subscriberBuffer is how many snapshots a slow subscriber may lag behind
// before updates to it are dropped.
const subscriberBuffer = 8

// Hub hands the latest snapshot and rendered frame from the frame loop to
// observers such as the HTTP server and the tray. Observers never touch the
// game session itself.
type Hub struct {
	mu      sync.RWMutex
	snap    game.Snapshot
	hasSnap bool
	jpeg    []byte
	subs    map[chan game.Snapshot]struct{}
	viewers int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan game.Snapshot]struct{})}
}

// Publish stores snap and fans it out to subscribers without blocking.
func (h *Hub) Publish(snap game.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.snap = snap
	h.hasSnap = true
	for ch := range h.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Snapshot returns the latest snapshot and whether one was published.
func (h *Hub) Snapshot() (game.Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap, h.hasSnap
}

// Subscribe returns a channel of snapshots and a function that ends the
// subscription and closes the channel.
func (h *Hub) Subscribe() (<-chan game.Snapshot, func()) {
	ch := make(chan game.Snapshot, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the number of active snapshot subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// PublishFrame stores the latest JPEG-encoded rendered frame.
func (h *Hub) PublishFrame(jpeg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.jpeg = jpeg
}

// Frame returns the latest JPEG frame, or nil.
func (h *Hub) Frame() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.jpeg
}

// WatchFrames registers a frame viewer. The frame loop only encodes frames
// while someone watches. The returned function unregisters.
func (h *Hub) WatchFrames() func() {
	h.mu.Lock()
	h.viewers++
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			h.viewers--
			h.mu.Unlock()
		})
	}
}

// FrameViewers returns the number of registered frame viewers.
func (h *Hub) FrameViewers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.viewers
}
