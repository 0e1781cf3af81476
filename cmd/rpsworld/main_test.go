package main

import (
	"flag"
	"io"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/rpsworld/internal/config"
	"github.com/ayusman/rpsworld/internal/detector"
	"github.com/ayusman/rpsworld/internal/score"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("rpsworld", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseFlags(t *testing.T) {
	o, err := parseFlags(newFlagSet(), []string{"-config", "rps.json", "-mock", "-addr", ":9090"})
	require.NoError(t, err)
	assert.Equal(t, options{configPath: "rps.json", mock: true, addr: ":9090"}, o)

	_, err = parseFlags(newFlagSet(), []string{"-nope"})
	assert.Error(t, err)
}

func TestOptionsApply(t *testing.T) {
	cfg := config.DefaultConfig()
	options{}.apply(&cfg)
	assert.Equal(t, config.DefaultConfig(), cfg, "no flags leave the config alone")

	options{mock: true, addr: ":9090"}.apply(&cfg)
	assert.True(t, cfg.Detector.Mock)
	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, ":9090", cfg.Server.Addr)

	cfg = config.DefaultConfig()
	options{serve: true}.apply(&cfg)
	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, config.DefaultConfig().Server.Addr, cfg.Server.Addr)
}

func TestOpenScore_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	st, db, err := openScore(config.ScoreConfig{Backend: config.BackendJSON, JSONPath: path}, zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, db)

	f, ok := st.(*score.JSONFile)
	require.True(t, ok)
	assert.Equal(t, path, f.Path())
}

func TestOpenScore_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rps.db")
	st, db, err := openScore(config.ScoreConfig{Backend: config.BackendSQLite, DBPath: path}, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, db)
	defer db.Close()

	ledger, err := score.Open(st)
	require.NoError(t, err)
	assert.Equal(t, score.Record{}, ledger.Record())
}

func TestOpenScore_UnknownBackend(t *testing.T) {
	_, _, err := openScore(config.ScoreConfig{Backend: "redis"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestOpenDetector_Mock(t *testing.T) {
	d, err := openDetector(config.DetectorConfig{Mock: true})
	require.NoError(t, err)
	_, ok := d.(*detector.MockDetector)
	assert.True(t, ok)
}
