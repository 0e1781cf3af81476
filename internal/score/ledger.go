// Package score resolves rounds and keeps the cumulative win/loss/tie record.
package score

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ayusman/rpsworld/internal/gesture"
)

// Outcome is the result of one round from the player's point of view.
type Outcome int

const (
	Tie Outcome = iota
	Win
	Lose
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Lose:
		return "lose"
	case Tie:
		return "tie"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Label is the banner shown on the result screen.
func (o Outcome) Label() string {
	switch o {
	case Win:
		return "YOU WIN!"
	case Lose:
		return "YOU LOSE!"
	}
	return "TIE!"
}

// MarshalJSON encodes the outcome by name.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// Record holds the cumulative counters. Wins+Losses+Ties always equals
// TotalGames for records produced by a Ledger.
type Record struct {
	Wins       int `json:"player_wins"`
	Losses     int `json:"ai_wins"`
	Ties       int `json:"ties"`
	TotalGames int `json:"total_games"`
}

// WinRate is wins over games played, 0 when nothing has been played.
func (r Record) WinRate() float64 {
	return float64(r.Wins) / float64(max(1, r.TotalGames))
}

// beats maps each choice to the one it defeats.
var beats = map[gesture.Gesture]gesture.Gesture{
	gesture.Rock:     gesture.Scissors,
	gesture.Scissors: gesture.Paper,
	gesture.Paper:    gesture.Rock,
}

// Decide applies the standard rules to two choices.
func Decide(player, ai gesture.Gesture) Outcome {
	switch {
	case player == ai:
		return Tie
	case beats[player] == ai:
		return Win
	}
	return Lose
}

// Round is one resolved round.
type Round struct {
	Player   gesture.Gesture `json:"player"`
	AI       gesture.Gesture `json:"ai"`
	Outcome  Outcome         `json:"outcome"`
	PlayedAt time.Time       `json:"played_at"`
}

// Store persists the record between runs.
type Store interface {
	Load() (Record, error)
	Save(Record) error
}

// RoundRecorder is optionally implemented by stores that keep round history.
type RoundRecorder interface {
	RecordRound(Round) error
}

// Resolution is what Resolve reports back. SaveErr carries any persistence
// failure; the in-memory record is updated regardless.
type Resolution struct {
	Round   Round
	Record  Record
	SaveErr error
}

// Ledger owns the score record and writes it through after every round.
type Ledger struct {
	record Record
	store  Store
	now    func() time.Time
}

// Open loads the saved record from store. On failure the ledger starts from
// zero and the load error is returned alongside it so the caller can log it.
// A record whose total disagrees with its counters keeps the counters and
// has the total recomputed. A nil store keeps the score in memory only.
func Open(store Store) (*Ledger, error) {
	l := &Ledger{store: store, now: time.Now}
	if store == nil {
		return l, nil
	}

	rec, err := store.Load()
	if err != nil {
		return l, fmt.Errorf("load score: %w", err)
	}
	if rec.Wins < 0 || rec.Losses < 0 || rec.Ties < 0 {
		return l, fmt.Errorf("load score: negative counter in %+v", rec)
	}
	rec.TotalGames = rec.Wins + rec.Losses + rec.Ties
	l.record = rec
	return l, nil
}


// Record returns a copy of the current counters.
func (l *Ledger) Record() Record {
	return l.record
}

// Resolve decides the round, updates the counters and persists them.
func (l *Ledger) Resolve(player, ai gesture.Gesture) Resolution {
	outcome := Decide(player, ai)

	switch outcome {
	case Win:
		l.record.Wins++
	case Lose:
		l.record.Losses++
	case Tie:
		l.record.Ties++
	}
	l.record.TotalGames++

	res := Resolution{
		Round: Round{
			Player:   player,
			AI:       ai,
			Outcome:  outcome,
			PlayedAt: l.now(),
		},
		Record: l.record,
	}

	if l.store == nil {
		return res
	}
	if err := l.store.Save(l.record); err != nil {
		res.SaveErr = fmt.Errorf("save score: %w", err)
		return res
	}
	if rr, ok := l.store.(RoundRecorder); ok {
		if err := rr.RecordRound(res.Round); err != nil {
			res.SaveErr = fmt.Errorf("record round: %w", err)
		}
	}
	return res
}
