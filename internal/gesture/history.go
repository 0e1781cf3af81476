package gesture

// HistorySize is the number of raw gestures kept for smoothing.
const HistorySize = 5

// History is a fixed-capacity ring of the most recent raw gestures. The zero
// value is empty and ready to use; pushing past capacity evicts the oldest
// entry.
type History struct {
	buf  [HistorySize]Gesture
	next int // next write position
	n    int // filled slots, at most HistorySize
}

// Push appends g, evicting the oldest entry when full.
func (h *History) Push(g Gesture) {
	h.buf[h.next] = g
	h.next = (h.next + 1) % HistorySize
	if h.n < HistorySize {
		h.n++
	}
}

// Len returns the number of stored gestures.
func (h *History) Len() int {
	return h.n
}

// Last returns up to k of the most recent gestures, oldest first.
func (h *History) Last(k int) []Gesture {
	if k > h.n {
		k = h.n
	}
	out := make([]Gesture, k)
	start := h.next - k
	if start < 0 {
		start += HistorySize
	}
	for i := 0; i < k; i++ {
		out[i] = h.buf[(start+i)%HistorySize]
	}
	return out
}

// Slice returns every stored gesture, oldest first.
func (h *History) Slice() []Gesture {
	return h.Last(h.n)
}

// majority returns the most frequent gesture among window and its count.
// Equal counts resolve to the gesture seen first in window.
func majority(window []Gesture) (Gesture, int) {
	var counts [len(gestureNames)]int
	best, bestCount := None, 0
	for _, g := range window {
		if g < 0 || int(g) >= len(counts) {
			continue
		}
		counts[g]++
	}
	for _, g := range window {
		if g < 0 || int(g) >= len(counts) {
			continue
		}
		if counts[g] > bestCount {
			best, bestCount = g, counts[g]
		}
	}
	return best, bestCount
}
