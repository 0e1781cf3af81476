package score

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/rpsworld/internal/gesture"
)

type memStore struct {
	rec     Record
	loadErr error
	saveErr error
	saves   int
	rounds  []Round
}

func (m *memStore) Load() (Record, error) { return m.rec, m.loadErr }

func (m *memStore) Save(r Record) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.rec = r
	return nil
}

func (m *memStore) RecordRound(r Round) error {
	m.rounds = append(m.rounds, r)
	return nil
}

func TestDecide(t *testing.T) {
	tests := []struct {
		player, ai gesture.Gesture
		want       Outcome
	}{
		{gesture.Rock, gesture.Scissors, Win},
		{gesture.Paper, gesture.Rock, Win},
		{gesture.Scissors, gesture.Paper, Win},
		{gesture.Rock, gesture.Rock, Tie},
		{gesture.Paper, gesture.Paper, Tie},
		{gesture.Scissors, gesture.Scissors, Tie},
		{gesture.Rock, gesture.Paper, Lose},
		{gesture.Paper, gesture.Scissors, Lose},
		{gesture.Scissors, gesture.Rock, Lose},
	}

	for _, tt := range tests {
		t.Run(tt.player.String()+"_vs_"+tt.ai.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.player, tt.ai))
		})
	}
}

func TestLedger_ResolveKeepsTotals(t *testing.T) {
	store := &memStore{}
	l, err := Open(store)
	require.NoError(t, err)

	for _, p := range gesture.Choices {
		for _, a := range gesture.Choices {
			before := l.Record().TotalGames
			res := l.Resolve(p, a)
			require.NoError(t, res.SaveErr)

			rec := l.Record()
			assert.Equal(t, before+1, rec.TotalGames)
			assert.Equal(t, rec.TotalGames, rec.Wins+rec.Losses+rec.Ties)
			assert.Equal(t, rec, res.Record)
			assert.Equal(t, rec, store.rec, "record is written through")
		}
	}

	assert.Equal(t, Record{Wins: 3, Losses: 3, Ties: 3, TotalGames: 9}, l.Record())
	assert.Equal(t, 9, store.saves)
	assert.Len(t, store.rounds, 9)
}

func TestLedger_LoadsSavedRecord(t *testing.T) {
	saved := Record{Wins: 2, Losses: 1, Ties: 1, TotalGames: 4}
	l, err := Open(&memStore{rec: saved})
	require.NoError(t, err)
	assert.Equal(t, saved, l.Record())
	assert.InDelta(t, 0.5, l.Record().WinRate(), 1e-9)
}

func TestLedger_LoadFailureStartsFromZero(t *testing.T) {
	l, err := Open(&memStore{rec: Record{Wins: 9, TotalGames: 9}, loadErr: errors.New("disk gone")})
	require.Error(t, err)
	require.NotNil(t, l)
	assert.Equal(t, Record{}, l.Record())

	res := l.Resolve(gesture.Rock, gesture.Scissors)
	assert.Equal(t, Win, res.Round.Outcome)
}

func TestLedger_MismatchedTotalIsRecomputed(t *testing.T) {
	l, err := Open(&memStore{rec: Record{Wins: 5, TotalGames: 2}})
	require.NoError(t, err)
	assert.Equal(t, Record{Wins: 5, TotalGames: 5}, l.Record())
}

func TestLedger_NegativeCounterRejected(t *testing.T) {
	l, err := Open(&memStore{rec: Record{Wins: 3, Ties: -1, TotalGames: 2}})
	assert.Error(t, err)
	assert.Equal(t, Record{}, l.Record())
}

func TestLedger_SaveFailureIsNonFatal(t *testing.T) {
	store := &memStore{saveErr: errors.New("read-only")}
	l, err := Open(store)
	require.NoError(t, err)

	res := l.Resolve(gesture.Paper, gesture.Rock)
	assert.Error(t, res.SaveErr)
	assert.Equal(t, Win, res.Round.Outcome)
	assert.Equal(t, Record{Wins: 1, TotalGames: 1}, l.Record(), "memory stays authoritative")

	res = l.Resolve(gesture.Paper, gesture.Paper)
	assert.Equal(t, Record{Wins: 1, Ties: 1, TotalGames: 2}, res.Record)
}

func TestLedger_NilStore(t *testing.T) {
	l, err := Open(nil)
	require.NoError(t, err)
	res := l.Resolve(gesture.Scissors, gesture.Rock)
	assert.NoError(t, res.SaveErr)
	assert.Equal(t, Lose, res.Round.Outcome)
}

func TestRecord_WinRate(t *testing.T) {
	assert.Zero(t, Record{}.WinRate())
	assert.InDelta(t, 0.25, Record{Wins: 1, Losses: 3, TotalGames: 4}.WinRate(), 1e-9)
}

func TestOutcome_Label(t *testing.T) {
	assert.Equal(t, "YOU WIN!", Win.Label())
	assert.Equal(t, "YOU LOSE!", Lose.Label())
	assert.Equal(t, "TIE!", Tie.Label())
}

func TestJSONFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	f := NewJSONFile(path)

	want := Record{Wins: 4, Losses: 2, Ties: 1, TotalGames: 7}
	require.NoError(t, f.Save(want))

	got, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"player_wins":4,"ai_wins":2,"ties":1,"total_games":7}`, string(data))
}

func TestJSONFile_MissingFile(t *testing.T) {
	f := NewJSONFile(filepath.Join(t.TempDir(), "absent.json"))
	rec, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, Record{}, rec)
}

func TestJSONFile_MissingKeysReadAsZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"player_wins": 2, "total_games": 2}`), 0644))

	rec, err := NewJSONFile(path).Load()
	require.NoError(t, err)
	assert.Equal(t, Record{Wins: 2, TotalGames: 2}, rec)
}

func TestJSONFile_MissingTotalKeepsCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"player_wins":7,"ai_wins":2,"ties":1}`), 0644))

	l, err := Open(NewJSONFile(path))
	require.NoError(t, err)
	assert.Equal(t, Record{Wins: 7, Losses: 2, Ties: 1, TotalGames: 10}, l.Record())

	res := l.Resolve(gesture.Rock, gesture.Scissors)
	require.NoError(t, res.SaveErr)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"player_wins":8,"ai_wins":2,"ties":1,"total_games":11}`, string(data))
}

func TestJSONFile_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"player_wins": `), 0644))

	_, err := NewJSONFile(path).Load()
	assert.Error(t, err)

	l, err := Open(NewJSONFile(path))
	assert.Error(t, err)
	assert.Equal(t, Record{}, l.Record())
}

func TestJSONFile_SaveFailure(t *testing.T) {
	f := NewJSONFile(filepath.Join(t.TempDir(), "missing-dir", "stats.json"))
	assert.Error(t, f.Save(Record{Wins: 1, TotalGames: 1}))
}

func TestJSONFile_DefaultPath(t *testing.T) {
	assert.Equal(t, DefaultFile, NewJSONFile("").Path())
}
