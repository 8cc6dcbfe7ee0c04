package store

import (
	"os"
	"path/filepath"

	"github.com/glorpus-work/repod/pkg/errors"
	"github.com/glorpus-work/repod/pkg/fsutil"
	"github.com/gofrs/flock"
)

// LockFileName is the well-known lock file guarding the whole metadata
// store.
const LockFileName = "dbscripts.lock"

// Lock is a process-exclusive advisory lock over the metadata store. All
// mutating operations must hold it for their entire duration.
type Lock struct {
	fl *flock.Flock
}

// AcquireLock takes a blocking exclusive lock on the store's lock file,
// creating the store root and the lock file if absent.
func AcquireLock(metaDir string) (*Lock, error) {
	if err := os.MkdirAll(metaDir, fsutil.DirModeDefault); err != nil {
		return nil, errors.Wrapf(err, "failed to create store root %s", metaDir)
	}
	fl := flock.New(filepath.Join(metaDir, LockFileName))
	if err := fl.Lock(); err != nil {
		return nil, errors.Wrapf(err, "failed to lock %s", fl.Path())
	}
	return &Lock{fl: fl}, nil
}

// Release drops the lock. It is safe to call from a defer on every exit
// path.
func (l *Lock) Release() error {
	return l.fl.Unlock()
}
