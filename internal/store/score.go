package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/rpsworld/internal/score"
)

// Persistence keys, shared with the JSON score file.
const (
	keyWins   = "player_wins"
	keyLosses = "ai_wins"
	keyTies   = "ties"
	keyTotal  = "total_games"
)

// ScoreRepository persists the score record as key/value rows and appends
// round history. It implements score.Store and score.RoundRecorder.
type ScoreRepository struct {
	db *sql.DB
}

// Scores returns the score repository for this store.
func (s *Store) Scores() *ScoreRepository {
	return &ScoreRepository{db: s.db}
}

// Load reads the record. Missing keys read as zero.
func (r *ScoreRepository) Load() (score.Record, error) {
	rows, err := r.db.Query(`SELECT key, value FROM scores`)
	if err != nil {
		return score.Record{}, err
	}
	defer rows.Close()

	var rec score.Record
	for rows.Next() {
		var key string
		var value int
		if err := rows.Scan(&key, &value); err != nil {
			return score.Record{}, err
		}
		switch key {
		case keyWins:
			rec.Wins = value
		case keyLosses:
			rec.Losses = value
		case keyTies:
			rec.Ties = value
		case keyTotal:
			rec.TotalGames = value
		}
	}

	if err := rows.Err(); err != nil {
		return score.Record{}, err
	}

	return rec, nil
}

// Save upserts all four counters in one transaction.
func (r *ScoreRepository) Save(rec score.Record) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO scores (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, kv := range []struct {
		key   string
		value int
	}{
		{keyWins, rec.Wins},
		{keyLosses, rec.Losses},
		{keyTies, rec.Ties},
		{keyTotal, rec.TotalGames},
	} {
		if _, err := stmt.Exec(kv.key, kv.value, now); err != nil {
			return fmt.Errorf("save %s: %w", kv.key, err)
		}
	}

	return tx.Commit()
}

// RecordRound appends a resolved round to the history.
func (r *ScoreRepository) RecordRound(round score.Round) error {
	_, err := r.db.Exec(
		`INSERT INTO rounds (id, player, ai, outcome, played_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), round.Player.String(), round.AI.String(), round.Outcome.String(), round.PlayedAt,
	)
	return err
}
