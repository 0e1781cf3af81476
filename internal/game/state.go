// Package game sequences the menu, countdown, result and options screens
// from stabilized hand gestures and drives the score ledger.
package game

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ayusman/rpsworld/internal/gesture"
	"github.com/ayusman/rpsworld/internal/menu"
)

// State is the screen the game is on.
type State int

const (
	StateMenu State = iota
	StateCountdown
	StateResult
	StateOptions
)

var stateNames = [...]string{
	StateMenu:      "menu",
	StateCountdown: "countdown",
	StateResult:    "result",
	StateOptions:   "options",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalJSON encodes the state by name.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Screen returns the pointer-addressable control set shown in this state.
func (s State) Screen() menu.Screen {
	switch s {
	case StateMenu:
		return menu.ScreenMain
	case StateOptions:
		return menu.ScreenOptions
	}
	return menu.ScreenNone
}

// Control tells the frame loop whether to keep going.
type Control int

const (
	ControlContinue Control = iota
	ControlStop
)

func (c Control) String() string {
	if c == ControlStop {
		return "stop"
	}
	return "continue"
}

// Countdown and result timing.
const (
	PhaseDuration  = time.Second
	ShootPhase     = 4
	ResultDuration = 3 * time.Second
)

var countdownLabels = [ShootPhase]string{"ROCK", "PAPER", "SCISSORS", "SHOOT!"}

// CountdownLabel returns the banner for a countdown phase, or "" once the
// countdown is over.
func CountdownLabel(phase int) string {
	if phase < 0 || phase >= len(countdownLabels) {
		return ""
	}
	return countdownLabels[phase]
}

// DefaultThreshold applies to any (state, gesture) pair missing from the
// threshold table.
const DefaultThreshold = 800 * time.Millisecond

type thresholdKey struct {
	state   State
	gesture gesture.Gesture
}

// thresholds is how long a smoothed gesture must be stable before it acts.
// Countdown and Result entries are informational: those screens advance on
// timers, not gestures.
var thresholds = map[thresholdKey]time.Duration{
	{StateMenu, gesture.ThumbsUp}:      600 * time.Millisecond,
	{StateMenu, gesture.ThumbsDown}:    600 * time.Millisecond,
	{StateMenu, gesture.Pointing}:      300 * time.Millisecond,
	{StateOptions, gesture.ThumbsDown}: 500 * time.Millisecond,
	{StateOptions, gesture.Pointing}:   300 * time.Millisecond,
	{StateCountdown, gesture.Rock}:     400 * time.Millisecond,
	{StateCountdown, gesture.Paper}:    400 * time.Millisecond,
	{StateCountdown, gesture.Scissors}: 500 * time.Millisecond,
	{StateResult, gesture.Rock}:        400 * time.Millisecond,
	{StateResult, gesture.Paper}:       400 * time.Millisecond,
	{StateResult, gesture.Scissors}:    500 * time.Millisecond,
}

// Threshold returns the stability required for g to act in state s.
func Threshold(s State, g gesture.Gesture) time.Duration {
	if d, ok := thresholds[thresholdKey{s, g}]; ok {
		return d
	}
	return DefaultThreshold
}
