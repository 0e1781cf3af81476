package game

import (
	"image"
	"time"

	"github.com/ayusman/rpsworld/internal/gesture"
	"github.com/ayusman/rpsworld/internal/menu"
	"github.com/ayusman/rpsworld/internal/score"
)

// Snapshot is a read-only view of one frame for renderers and observers.
type Snapshot struct {
	Time  time.Time `json:"time"`
	State State     `json:"state"`

	Phase          int    `json:"phase"`
	CountdownLabel string `json:"countdown_label,omitempty"`

	HasHand    bool            `json:"has_hand"`
	Raw        gesture.Gesture `json:"raw_gesture"`
	Gesture    gesture.Gesture `json:"gesture"`
	Confidence float64         `json:"confidence"`
	Stable     time.Duration   `json:"stable_ns"`
	// Progress is stability relative to the default threshold, capped at 1.
	Progress float64           `json:"progress"`
	History  []gesture.Gesture `json:"history"`

	Pointing  bool        `json:"pointing"`
	Fingertip image.Point `json:"fingertip"`
	Hover     int         `json:"hover"`

	HasResult    bool            `json:"has_result"`
	PlayerChoice gesture.Gesture `json:"player_choice"`
	AIChoice     gesture.Gesture `json:"ai_choice"`
	Outcome      score.Outcome   `json:"outcome"`
	ResultLabel  string          `json:"result_label,omitempty"`

	Record  score.Record `json:"record"`
	WinRate float64      `json:"win_rate"`

	// FPS is filled in by the frame loop.
	FPS float64 `json:"fps"`
}

func (e *Engine) snapshot(sess Session, sample gesture.Sample, now time.Time) Snapshot {
	stable := sess.Stabilizer.Stable(now)
	rec := e.ledger.Record()

	snap := Snapshot{
		Time:       now,
		State:      sess.State,
		Phase:      sess.Phase,
		HasHand:    sample.HasHand,
		Raw:        sample.Gesture,
		Gesture:    sess.Stabilizer.Current(),
		Confidence: sample.Confidence,
		Stable:     stable,
		Progress:   min(1, float64(stable)/float64(DefaultThreshold)),
		History:    sess.Stabilizer.History(),
		Pointing:   sample.HasHand && sess.Stabilizer.Current() == gesture.Pointing,
		Hover:      sess.Hover,
		HasResult:  sess.HasResult,
		Record:     rec,
		WinRate:    rec.WinRate(),
	}

	if sess.State == StateCountdown {
		snap.CountdownLabel = CountdownLabel(sess.Phase)
	}
	if sample.HasHand {
		snap.Fingertip = menu.ToPixel(sample.Fingertip.X, sample.Fingertip.Y)
	}
	if sess.HasResult {
		snap.PlayerChoice = sess.PlayerChoice
		snap.AIChoice = sess.AIChoice
		snap.Outcome = sess.Outcome
		snap.ResultLabel = sess.Outcome.Label()
	}
	return snap
}

// Snapshot describes sess at now without feeding a frame, for publishing
// state before the first frame arrives.
func (e *Engine) Snapshot(sess Session, now time.Time) Snapshot {
	return e.snapshot(sess, gesture.Sample{}, now)
}
