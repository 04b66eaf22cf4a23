// Package checkpoint persists the resumable state of an interrupted run as a
// flat TOML document. The store only serializes and deserializes; it never
// interprets the remaining-file list.
package checkpoint

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"tunepress/internal/services"
)

// Checkpoint is the persisted form of a run's configuration plus its
// not-yet-completed files. Flat and versionless; Quality holds the
// already-mapped transcoder value, not the raw score.
type Checkpoint struct {
	InputDir       string   `toml:"input_dir"`
	OutputDir      string   `toml:"output_dir"`
	TargetFormat   string   `toml:"target_format"`
	Quality        int      `toml:"quality"`
	Cores          int      `toml:"cores"`
	TotalFiles     int      `toml:"total_files"`
	RemainingFiles []string `toml:"remaining_files"`
}

// Store reads and writes the checkpoint document at a fixed path.
type Store struct {
	path string
}

// NewStore returns a store bound to the given document path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the document location.
func (s *Store) Path() string {
	return s.path
}

// Save writes the checkpoint durably, replacing any prior one. The write goes
// through a temp file and rename so a reader never observes a torn document.
func (s *Store) Save(cp Checkpoint) error {
	data, err := toml.Marshal(cp)
	if err != nil {
		return services.Wrap(services.ErrCheckpoint, "checkpoint", "save", "marshal", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrCheckpoint, "checkpoint", "save", "create directory", err)
	}
	tmp, err := os.CreateTemp(dir, ".checkpoint-*")
	if err != nil {
		return services.Wrap(services.ErrCheckpoint, "checkpoint", "save", "create temp file", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return services.Wrap(services.ErrCheckpoint, "checkpoint", "save", "write", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return services.Wrap(services.ErrCheckpoint, "checkpoint", "save", "close", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return services.Wrap(services.ErrCheckpoint, "checkpoint", "save", "replace", err)
	}
	return nil
}

// Load reads the checkpoint. An absent document returns (nil, nil).
func (s *Store) Load() (*Checkpoint, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrCheckpoint, "checkpoint", "load", "read", err)
	}
	var cp Checkpoint
	if err := toml.Unmarshal(data, &cp); err != nil {
		return nil, services.Wrap(services.ErrCheckpoint, "checkpoint", "load", "parse", err)
	}
	return &cp, nil
}

// Delete removes the checkpoint. An absent document is a no-op.
func (s *Store) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return services.Wrap(services.ErrCheckpoint, "checkpoint", "delete", "", err)
	}
	return nil
}
