package ioutils

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is the advisory lock file created inside an output directory.
const LockFileName = ".ucdump.lock"

// ErrLocked is returned when another process holds the directory lock.
var ErrLocked = errors.New("output directory is locked by another ucdump process")

// LockDir takes an exclusive advisory lock on dir so that two conversions
// never write into the same directory at once.
//
// The directory must exist. The returned function releases the lock.
//
// Example:
//
//	unlock, err := LockDir(settings.OutputDir)
//	if errors.Is(err, ErrLocked) {
//	    return err
//	}
//	defer unlock()
func LockDir(dir string) (func() error, error) {
	lock := flock.New(filepath.Join(dir, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", dir, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
	}
	return lock.Unlock, nil
}
