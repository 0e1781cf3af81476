package game

import (
	"image"
	"math/rand/v2"
	"time"

	"github.com/ayusman/rpsworld/internal/detector"
	"github.com/ayusman/rpsworld/internal/gesture"
	"github.com/ayusman/rpsworld/internal/menu"
	"github.com/ayusman/rpsworld/internal/score"
)

// Session holds all cross-frame game state. It is passed into and returned
// from Engine.Step; nothing else keeps state between frames.
type Session struct {
	State       State
	Stabilizer  gesture.Stabilizer
	Phase       int
	PhaseStart  time.Time
	ResultStart time.Time
	Hover       int

	PlayerChoice gesture.Gesture
	AIChoice     gesture.Gesture
	Outcome      score.Outcome
	HasResult    bool
}

// NewSession returns a session on the main menu.
func NewSession() Session {
	return Session{State: StateMenu, Hover: menu.NoHover}
}

// Frame is the per-frame input: at most one hand and the capture time.
type Frame struct {
	Pose *detector.HandPose
	Now  time.Time
}

// Output is what one Step produces.
type Output struct {
	Control  Control
	Snapshot Snapshot

	// Round is set on the frame a round resolves.
	Round *score.Round
	// SaveErr carries a persistence failure from that resolution.
	SaveErr error
}

// Chooser picks the opponent's move.
type Chooser func() gesture.Gesture

// RandomChooser draws uniformly from rock, paper and scissors.
func RandomChooser() Chooser {
	return func() gesture.Gesture {
		return gesture.Choices[rand.IntN(len(gesture.Choices))]
	}
}

// FixedChooser always plays g.
func FixedChooser(g gesture.Gesture) Chooser {
	return func() gesture.Gesture { return g }
}

// Engine applies one frame at a time to a Session.
type Engine struct {
	ledger *score.Ledger
	layout menu.Layout
	choose Chooser
}

// Option configures an Engine.
type Option func(*Engine)

// WithChooser replaces the random opponent.
func WithChooser(c Chooser) Option {
	return func(e *Engine) { e.choose = c }
}

// WithLayout replaces the default button layout.
func WithLayout(l menu.Layout) Option {
	return func(e *Engine) { e.layout = l }
}

// NewEngine creates an engine that records rounds in ledger. A nil ledger
// keeps the score in memory only.
func NewEngine(ledger *score.Ledger, opts ...Option) *Engine {
	if ledger == nil {
		ledger, _ = score.Open(nil)
	}
	e := &Engine{
		ledger: ledger,
		layout: menu.DefaultLayout(),
		choose: RandomChooser(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Layout returns the button layout used for hit testing.
func (e *Engine) Layout() menu.Layout {
	return e.layout
}

// Ledger returns the score ledger.
func (e *Engine) Ledger() *score.Ledger {
	return e.ledger
}

// Step runs classify, stabilize, hit test, state transition and scoring for
// one frame, in that order.
func (e *Engine) Step(sess Session, f Frame) (Session, Output) {
	now := f.Now
	sample := gesture.Classify(f.Pose)
	smoothed, stable := sess.Stabilizer.Update(sample, now)

	pointing := sample.HasHand && smoothed == gesture.Pointing
	var tip image.Point
	if sample.HasHand {
		tip = menu.ToPixel(sample.Fingertip.X, sample.Fingertip.Y)
	}
	sess.Hover = e.layout.HitTest(sess.State.Screen(), tip, pointing)

	out := Output{Control: ControlContinue}
	ready := stable >= Threshold(sess.State, smoothed)

	switch sess.State {
	case StateMenu:
		switch {
		case smoothed == gesture.ThumbsUp && ready:
			sess = e.startCountdown(sess, now)
		case smoothed == gesture.ThumbsDown && ready:
			sess.Stabilizer.Reset()
			out.Control = ControlStop
		case smoothed == gesture.Pointing && sess.Hover != menu.NoHover && ready:
			switch sess.Hover {
			case menu.ControlStart:
				sess = e.startCountdown(sess, now)
			case menu.ControlOptions:
				sess.State = StateOptions
			case menu.ControlExit:
				out.Control = ControlStop
			}
			sess.Stabilizer.Reset()
		}

	case StateOptions:
		switch {
		case smoothed == gesture.ThumbsDown && ready:
			sess.State = StateMenu
			sess.Stabilizer.Reset()
		case smoothed == gesture.Pointing && sess.Hover == menu.ControlBack && ready:
			sess.State = StateMenu
			sess.Stabilizer.Reset()
		}

	case StateCountdown:
		if now.Sub(sess.PhaseStart) >= PhaseDuration {
			sess.Phase++
			sess.PhaseStart = sess.PhaseStart.Add(PhaseDuration)
			if sess.Phase >= ShootPhase {
				var res score.Resolution
				sess, res = e.resolve(sess, smoothed, now)
				out.Round = &res.Round
				out.SaveErr = res.SaveErr
			}
		}

	case StateResult:
		if now.Sub(sess.ResultStart) >= ResultDuration {
			sess.State = StateMenu
		}
	}

	// The screen may have changed this frame.
	sess.Hover = e.layout.HitTest(sess.State.Screen(), tip, pointing)

	out.Snapshot = e.snapshot(sess, sample, now)
	return sess, out
}

func (e *Engine) startCountdown(sess Session, now time.Time) Session {
	sess.State = StateCountdown
	sess.Phase = 0
	sess.PhaseStart = now
	sess.AIChoice = e.choose()
	sess.Stabilizer.Reset()
	return sess
}

func (e *Engine) resolve(sess Session, smoothed gesture.Gesture, now time.Time) (Session, score.Resolution) {
	player := gesture.Rock
	if smoothed.IsChoice() {
		player = smoothed
	}

	res := e.ledger.Resolve(player, sess.AIChoice)

	sess.PlayerChoice = player
	sess.Outcome = res.Round.Outcome
	sess.HasResult = true
	sess.State = StateResult
	sess.ResultStart = now
	return sess, res
}
