package checkpoint

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrRunInProgress reports that another process already holds the run lock.
var ErrRunInProgress = errors.New("another conversion run is already in progress")

// RunLock guards the checkpoint against two concurrent runs.
type RunLock struct {
	lock *flock.Flock
}

// NewRunLock returns an unacquired lock on the given path.
func NewRunLock(path string) *RunLock {
	return &RunLock{lock: flock.New(path)}
}

// Acquire takes the lock without blocking. It fails with ErrRunInProgress
// when another process holds it.
func (l *RunLock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.lock.Path()), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := l.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return ErrRunInProgress
	}
	return nil
}

// Release drops the lock. Safe to call when not held.
func (l *RunLock) Release() error {
	return l.lock.Unlock()
}
