package score

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultFile is the score file name used when none is configured.
const DefaultFile = "rps_stats.json"

// JSONFile stores the record as a small JSON object:
//
//	{"player_wins": 3, "ai_wins": 1, "ties": 0, "total_games": 4}
//
// Missing keys read as zero.
type JSONFile struct {
	path string
}

// NewJSONFile returns a store backed by the file at path.
func NewJSONFile(path string) *JSONFile {
	if path == "" {
		path = DefaultFile
	}
	return &JSONFile{path: path}
}

// Path returns the backing file path.
func (f *JSONFile) Path() string {
	return f.path
}

// Load reads the record. A missing file is not an error and yields zeros.
func (f *JSONFile) Load() (Record, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Record{}, nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("read %s: %w", f.path, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("parse %s: %w", f.path, err)
	}
	return rec, nil
}

// Save writes the record atomically by renaming a temp file over the target.
func (f *JSONFile) Save(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".rps_stats-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}
