package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/rpsworld/internal/gesture"
	"github.com/ayusman/rpsworld/internal/score"
)

// RoundEntry is a stored round.
type RoundEntry struct {
	ID string `json:"id"`
	score.Round
}

// RoundRepository reads round history.
type RoundRepository struct {
	db *sql.DB
}

// Rounds returns the round repository for this store.
func (s *Store) Rounds() *RoundRepository {
	return &RoundRepository{db: s.db}
}

// List returns up to limit rounds, most recent first. A limit <= 0 returns
// every round.
func (r *RoundRepository) List(limit int) ([]RoundEntry, error) {
	query := `SELECT id, player, ai, outcome, played_at FROM rounds ORDER BY played_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []RoundEntry
	for rows.Next() {
		e, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// GetByID retrieves a single round.
func (r *RoundRepository) GetByID(id string) (*RoundEntry, error) {
	row := r.db.QueryRow(`SELECT id, player, ai, outcome, played_at FROM rounds WHERE id = ?`, id)
	e, err := scanRound(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// Count returns the number of stored rounds.
func (r *RoundRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM rounds`).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRound(s scanner) (*RoundEntry, error) {
	var e RoundEntry
	var player, ai, outcome string
	var playedAt time.Time

	if err := s.Scan(&e.ID, &player, &ai, &outcome, &playedAt); err != nil {
		return nil, err
	}

	var err error
	if e.Player, err = gesture.Parse(player); err != nil {
		return nil, fmt.Errorf("round %s: %w", e.ID, err)
	}
	if e.AI, err = gesture.Parse(ai); err != nil {
		return nil, fmt.Errorf("round %s: %w", e.ID, err)
	}
	if e.Outcome, err = parseOutcome(outcome); err != nil {
		return nil, fmt.Errorf("round %s: %w", e.ID, err)
	}
	e.PlayedAt = playedAt

	return &e, nil
}

func parseOutcome(s string) (score.Outcome, error) {
	for _, o := range []score.Outcome{score.Win, score.Lose, score.Tie} {
		if o.String() == s {
			return o, nil
		}
	}
	return score.Tie, fmt.Errorf("unknown outcome %q", s)
}
