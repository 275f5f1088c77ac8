package services

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

var ErrDestinationBusy = errors.New("another copy into this destination folder is running")

// LockManager hands out advisory per-destination locks so two instances
// never copy into the same folder at once. Lock files live outside the
// destination.
type LockManager struct {
	dir string
}

// NewLockManager keeps lock files under dir, or the user cache directory
// when dir is empty.
func NewLockManager(dir string) (*LockManager, error) {
	if dir == "" {
		cache, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolve cache dir: %w", err)
		}
		dir = filepath.Join(cache, "image-finder", "locks")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	return &LockManager{dir: dir}, nil
}

// PathFor returns the lock file used for destination.
func (lm *LockManager) PathFor(destination string) string {
	abs, err := filepath.Abs(destination)
	if err != nil {
		abs = destination
	}
	sum := sha1.Sum([]byte(filepath.Clean(abs)))
	return filepath.Join(lm.dir, hex.EncodeToString(sum[:8])+".lock")
}

// Acquire takes the lock for destination without blocking.
func (lm *LockManager) Acquire(destination string) (func(), error) {
	lock := flock.New(lm.PathFor(destination))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrDestinationBusy
	}
	return func() { _ = lock.Unlock() }, nil
}
