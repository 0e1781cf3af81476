package gesture

import (
	"math"

	"github.com/ayusman/rpsworld/internal/detector"
)

// Geometry thresholds in normalized image units. Smaller Y is higher in the
// frame.
const (
	openMargin     = 0.03
	thumbUpIP      = 0.06
	thumbUpMCP     = 0.08
	thumbDownIP    = 0.04
	thumbDownMCP   = 0.06
	thumbDownWrist = 0.05
	scissorsSpread = 0.08
	scissorsHeight = 0.05
)

// Confidence levels reported for each rule tier.
const (
	confidenceSpecial  = 0.95
	confidenceScissors = 0.92
	confidenceClear    = 0.9
	confidencePartial  = 0.7
	confidenceGuess    = 0.6
	confidenceUnknown  = 0.3
)

// fingers records which digits are extended.
type fingers struct {
	thumb, index, middle, ring, pinky bool
}

func (f fingers) count() int {
	n := 0
	for _, open := range [...]bool{f.thumb, f.index, f.middle, f.ring, f.pinky} {
		if open {
			n++
		}
	}
	return n
}

// upperClosed reports whether index, middle and ring are all curled.
func (f fingers) upperClosed() bool {
	return !f.index && !f.middle && !f.ring
}

func fingerOpen(pose *detector.HandPose, f detector.Finger) bool {
	return pose.Tip(f).Y < pose.PIP(f).Y-openMargin
}

// thumbOpen uses a horizontal test whose direction depends on which side of
// the wrist the thumb tip appears.
func thumbOpen(pose *detector.HandPose) bool {
	tip := pose.Points[detector.ThumbTip]
	ip := pose.Points[detector.ThumbIP]
	if tip.X > pose.Points[detector.Wrist].X {
		return tip.X > ip.X+openMargin
	}
	return tip.X < ip.X-openMargin
}

func readFingers(pose *detector.HandPose) fingers {
	return fingers{
		thumb:  thumbOpen(pose),
		index:  fingerOpen(pose, detector.Index),
		middle: fingerOpen(pose, detector.Middle),
		ring:   fingerOpen(pose, detector.Ring),
		pinky:  fingerOpen(pose, detector.Pinky),
	}
}

// Classify maps a hand pose to a gesture and confidence. A nil or malformed
// pose yields (None, 0). Rules are evaluated in a fixed order and the first
// match wins.
func Classify(pose *detector.HandPose) Sample {
	if !pose.Valid() {
		return Sample{Gesture: None}
	}

	s := Sample{
		Fingertip: pose.Points[detector.IndexTip],
		HasHand:   true,
	}
	s.Gesture, s.Confidence = classify(pose)
	s.Pointing = s.Gesture == Pointing
	return s
}

func classify(pose *detector.HandPose) (Gesture, float64) {
	f := readFingers(pose)

	thumbTip := pose.Points[detector.ThumbTip]
	thumbIP := pose.Points[detector.ThumbIP]
	thumbMCP := pose.Points[detector.ThumbMCP]
	wrist := pose.Points[detector.Wrist]

	thumbUp := thumbTip.Y < thumbIP.Y-thumbUpIP && thumbTip.Y < thumbMCP.Y-thumbUpMCP
	if thumbUp && f.upperClosed() {
		return ThumbsUp, confidenceSpecial
	}

	thumbDown := thumbTip.Y > thumbIP.Y+thumbDownIP && thumbTip.Y > thumbMCP.Y+thumbDownMCP
	belowWrist := thumbTip.Y > wrist.Y+thumbDownWrist
	if thumbDown && belowWrist && f.upperClosed() {
		return ThumbsDown, confidenceSpecial
	}

	if f.index && !f.thumb && !f.middle && !f.ring && !f.pinky {
		return Pointing, confidenceSpecial
	}

	vShape := f.index && f.middle && !f.thumb && !f.ring && !f.pinky
	if vShape && scissorsSpreadOK(pose) {
		return Scissors, confidenceScissors
	}

	n := f.count()
	switch {
	case n == 0 || (n == 1 && f.thumb):
		return Rock, confidenceClear
	case n >= 4:
		return Paper, confidenceClear
	case n == 2 && f.index && f.middle:
		return Scissors, confidencePartial
	case n == 2:
		return Rock, confidenceGuess
	case n == 3:
		return Paper, confidenceGuess
	}

	return None, confidenceUnknown
}

// scissorsSpreadOK checks that index and middle tips are far apart and both
// well above their knuckles.
func scissorsSpreadOK(pose *detector.HandPose) bool {
	index := pose.Tip(detector.Index)
	middle := pose.Tip(detector.Middle)
	if math.Abs(index.X-middle.X) <= scissorsSpread {
		return false
	}
	return index.Y < pose.MCP(detector.Index).Y-scissorsHeight &&
		middle.Y < pose.MCP(detector.Middle).Y-scissorsHeight
}
