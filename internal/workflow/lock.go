package workflow

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// AcquireRunLock takes an exclusive lock in the data directory so two runs
// cannot disburse against the same account at once. The returned release
// function must be called before process exit.
func AcquireRunLock(dataDir string) (func(), error) {
	lock := flock.New(filepath.Join(dataDir, "payrun.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another payout run is already in progress (lock held at %s)", lock.Path())
	}
	return func() { _ = lock.Unlock() }, nil
}
