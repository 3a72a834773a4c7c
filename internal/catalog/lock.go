package catalog

import (
	"fmt"

	"github.com/gofrs/flock"

	"scanshelf/internal/services"
)

// Lock is an advisory lock file next to the catalog.
type Lock struct {
	lock *flock.Flock
}

// LockPath returns the lock file used for the catalog at path.
func LockPath(path string) string {
	return path + ".lock"
}

// AcquireLock takes the catalog lock without blocking. Writers take an
// exclusive lock, readers a shared one, so a reindex never overlaps a
// generate run on the same catalog.
func AcquireLock(path string, exclusive bool) (*Lock, error) {
	fl := flock.New(LockPath(path))
	var (
		ok  bool
		err error
	)
	if exclusive {
		ok, err = fl.TryLock()
	} else {
		ok, err = fl.TryRLock()
	}
	if err != nil {
		return nil, fmt.Errorf("acquire catalog lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrTransient, "catalog", "lock",
			fmt.Sprintf("catalog %s is in use by another scanshelf process", path), nil)
	}
	return &Lock{lock: fl}, nil
}

// Release drops the lock.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
