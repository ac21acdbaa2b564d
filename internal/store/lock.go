package store

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

var ErrLocked = errors.New("database is in use by another jobmatch process")

// Lock owners. The server and the importer hold different lock files, so an
// import can refresh the catalog while the server runs; sqlite's WAL and
// busy_timeout serialize their writes. Two processes of the same kind
// exclude each other.
const (
	OwnerServer   = "server"
	OwnerImporter = "import"
)

// Lock takes an exclusive lock on path+"."+owner+".lock". The returned func
// releases it.
func Lock(path, owner string) (unlock func(), err error) {
	lk := flock.New(LockPath(path, owner))
	ok, err := lk.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s (%s): %w", path, owner, err)
	}
	if !ok {
		return nil, fmt.Errorf("lock %s (%s): %w", path, owner, ErrLocked)
	}
	return func() { _ = lk.Unlock() }, nil
}

func LockPath(path, owner string) string {
	return path + "." + owner + ".lock"
}
