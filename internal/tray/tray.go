// Package tray shows the running game's score in the system tray.
package tray

import (
	"context"
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/rpsworld/internal/game"
	"github.com/ayusman/rpsworld/internal/gesture"
	"github.com/ayusman/rpsworld/internal/render"
)

// Tray is the system tray icon with a read-only status menu and a quit item.
type Tray struct {
	title  string
	onQuit func()
	mu     sync.RWMutex

	// Menu items stored for later updates
	menuScore   *systray.MenuItem
	menuGesture *systray.MenuItem
	menuState   *systray.MenuItem

	// Last rendered texts; menu items are only touched when they change.
	scoreText   string
	gestureText string
	stateText   string
}

// New creates a Tray with the given title.
func New(title string) *Tray {
	return &Tray{title: title}
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray. It must be called from the main goroutine and
// blocks until Quit.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("RPS")
	systray.SetTooltip(t.title)

	t.mu.Lock()
	t.menuScore = systray.AddMenuItem(t.scoreTextOr("Wins: 0 | Losses: 0 | Ties: 0"), "Score")
	t.menuScore.Disable()
	t.menuGesture = systray.AddMenuItem(t.gestureTextOr("Gesture: none"), "Current gesture")
	t.menuGesture.Disable()
	t.menuState = systray.AddMenuItem(t.stateTextOr("State: menu"), "Game state")
	t.menuState.Disable()
	t.mu.Unlock()

	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit "+t.title)

	go func() {
		<-menuQuit.ClickedCh
		t.handleQuit()
	}()
}

func (t *Tray) onExit() {}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

func (t *Tray) scoreTextOr(def string) string {
	if t.scoreText == "" {
		return def
	}
	return t.scoreText
}

func (t *Tray) gestureTextOr(def string) string {
	if t.gestureText == "" {
		return def
	}
	return t.gestureText
}

func (t *Tray) stateTextOr(def string) string {
	if t.stateText == "" {
		return def
	}
	return t.stateText
}

// Update refreshes the menu from a snapshot. Safe to call before the tray
// is ready; the texts are applied once the menu exists.
func (t *Tray) Update(snap game.Snapshot) {
	score := render.ScoreLine(snap.Record)
	gest := GestureText(snap)
	state := StateText(snap)

	t.mu.Lock()
	defer t.mu.Unlock()

	if score != t.scoreText {
		t.scoreText = score
		if t.menuScore != nil {
			t.menuScore.SetTitle(score)
		}
	}
	if gest != t.gestureText {
		t.gestureText = gest
		if t.menuGesture != nil {
			t.menuGesture.SetTitle(gest)
		}
	}
	if state != t.stateText {
		t.stateText = state
		if t.menuState != nil {
			t.menuState.SetTitle(state)
		}
	}
}

// Watch applies every snapshot from updates until ctx is done or the
// channel closes.
func (t *Tray) Watch(ctx context.Context, updates <-chan game.Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-updates:
			if !ok {
				return
			}
			t.Update(snap)
		}
	}
}

// Texts returns the score, gesture and state lines currently shown.
func (t *Tray) Texts() (score, gest, state string) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.scoreText, t.gestureText, t.stateText
}

// GestureText describes the stabilized gesture.
func GestureText(snap game.Snapshot) string {
	if !snap.HasHand || snap.Gesture == gesture.None {
		return "Gesture: none"
	}
	return fmt.Sprintf("Gesture: %s (%.0f%%)", snap.Gesture, snap.Confidence*100)
}

// StateText describes the game state, including the countdown word or the
// last result where there is one.
func StateText(snap game.Snapshot) string {
	switch {
	case snap.State == game.StateCountdown && snap.CountdownLabel != "":
		return "State: " + snap.CountdownLabel
	case snap.State == game.StateResult && snap.HasResult:
		return fmt.Sprintf("State: %s vs %s, %s", snap.PlayerChoice, snap.AIChoice, snap.Outcome)
	}
	return "State: " + snap.State.String()
}
