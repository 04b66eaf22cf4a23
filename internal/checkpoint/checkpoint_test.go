package checkpoint_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tunepress/internal/checkpoint"
	"tunepress/internal/services"
)

func sample() checkpoint.Checkpoint {
	return checkpoint.Checkpoint{
		InputDir:       "/music/in",
		OutputDir:      "/music/out",
		TargetFormat:   "mp3",
		Quality:        2,
		Cores:          4,
		TotalFiles:     10,
		RemainingFiles: []string{"/music/in/a.wav", "/music/in/b.flac"},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := checkpoint.NewStore(filepath.Join(t.TempDir(), "checkpoint.toml"))

	if err := store.Save(sample()); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected checkpoint, got nil")
	}
	want := sample()
	if loaded.InputDir != want.InputDir || loaded.TargetFormat != want.TargetFormat ||
		loaded.Quality != want.Quality || loaded.Cores != want.Cores || loaded.TotalFiles != want.TotalFiles {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
	if len(loaded.RemainingFiles) != 2 || loaded.RemainingFiles[0] != want.RemainingFiles[0] {
		t.Fatalf("remaining files mismatch: %v", loaded.RemainingFiles)
	}
}

func TestSaveOverwritesPrior(t *testing.T) {
	store := checkpoint.NewStore(filepath.Join(t.TempDir(), "checkpoint.toml"))
	if err := store.Save(sample()); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := sample()
	second.RemainingFiles = []string{"/music/in/b.flac"}
	second.TotalFiles = 10
	if err := store.Save(second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.RemainingFiles) != 1 {
		t.Fatalf("expected overwrite, got %v", loaded.RemainingFiles)
	}
}

func TestSaveIsHumanInspectable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.toml")
	if err := checkpoint.NewStore(path).Save(sample()); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, key := range []string{"input_dir", "output_dir", "target_format", "quality", "cores", "total_files", "remaining_files"} {
		if !strings.Contains(string(data), key) {
			t.Fatalf("document missing key %q:\n%s", key, data)
		}
	}
}

func TestLoadAbsentIsNil(t *testing.T) {
	loaded, err := checkpoint.NewStore(filepath.Join(t.TempDir(), "checkpoint.toml")).Load()
	if err != nil {
		t.Fatalf("load absent: %v", err)
	}
	if loaded != nil {
		t.Fatalf("expected nil checkpoint, got %+v", loaded)
	}
}

func TestLoadCorruptDocumentIsCheckpointError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.toml")
	if err := os.WriteFile(path, []byte("not = [valid"), 0o644); err != nil {
		t.Fatalf("write corrupt document: %v", err)
	}

	_, err := checkpoint.NewStore(path).Load()
	if err == nil {
		t.Fatal("expected an error for a corrupt document")
	}
	if !errors.Is(err, services.ErrCheckpoint) {
		t.Fatalf("error not tagged as checkpoint failure: %v", err)
	}
}

func TestDeleteAbsentIsNoop(t *testing.T) {
	store := checkpoint.NewStore(filepath.Join(t.TempDir(), "checkpoint.toml"))
	if err := store.Delete(); err != nil {
		t.Fatalf("delete absent: %v", err)
	}

	if err := store.Save(sample()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Fatalf("checkpoint should be gone: %v", err)
	}
}

func TestRunLockAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.lock")

	first := checkpoint.NewRunLock(path)
	if err := first.Acquire(); err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	// flock is advisory per file handle, so only verify re-acquire after
	// release rather than cross-handle exclusion.
	if err := first.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	second := checkpoint.NewRunLock(path)
	if err := second.Acquire(); err != nil {
		t.Fatalf("second acquire after release: %v", err)
	}
	if err := second.Release(); err != nil {
		t.Fatalf("second release: %v", err)
	}
}
