// Package gesture turns hand poses into discrete gestures and smooths the
// per-frame results into stable user intents.
package gesture

import (
	"encoding/json"
	"fmt"

	"github.com/ayusman/rpsworld/internal/detector"
)

// Gesture is one of the fixed gestures the game understands.
type Gesture int

const (
	None Gesture = iota
	Rock
	Paper
	Scissors
	ThumbsUp
	ThumbsDown
	Pointing
)

var gestureNames = [...]string{
	None:       "none",
	Rock:       "rock",
	Paper:      "paper",
	Scissors:   "scissors",
	ThumbsUp:   "thumbs_up",
	ThumbsDown: "thumbs_down",
	Pointing:   "pointing",
}

// All lists every gesture in declaration order.
var All = []Gesture{None, Rock, Paper, Scissors, ThumbsUp, ThumbsDown, Pointing}

// Choices are the gestures that can be played in a round.
var Choices = []Gesture{Rock, Paper, Scissors}

func (g Gesture) String() string {
	if g < 0 || int(g) >= len(gestureNames) {
		return fmt.Sprintf("gesture(%d)", int(g))
	}
	return gestureNames[g]
}

// IsChoice reports whether g is rock, paper or scissors.
func (g Gesture) IsChoice() bool {
	return g == Rock || g == Paper || g == Scissors
}

// Parse returns the gesture with the given name.
func Parse(name string) (Gesture, error) {
	for i, n := range gestureNames {
		if n == name {
			return Gesture(i), nil
		}
	}
	return None, fmt.Errorf("unknown gesture %q", name)
}

// MarshalJSON encodes the gesture by name.
func (g Gesture) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.String())
}

// UnmarshalJSON decodes a gesture name.
func (g *Gesture) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := Parse(name)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Sample is the classifier output for a single frame.
type Sample struct {
	Gesture    Gesture
	Confidence float64

	// Fingertip is the index fingertip in normalized coordinates. It is
	// only meaningful when HasHand is true.
	Fingertip detector.Point3D
	HasHand   bool

	// Pointing is set when the frame was classified as Pointing.
	Pointing bool
}
