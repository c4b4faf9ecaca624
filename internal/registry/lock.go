package registry

import (
	"fmt"
	"os"
)

// fileLock is an advisory lock guarding the read-merge-write window.
// O_CREATE|O_EXCL makes acquisition atomic on every platform we care
// about; a held lock fails fast instead of risking a corrupt merge.
type fileLock struct {
	path string
}

// acquireLock takes the advisory lock next to the registry file.
func acquireLock(registryPath string) (*fileLock, error) {
	path := registryPath + ".lock"

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, &LockedError{LockPath: path}
		}
		return nil, fmt.Errorf("acquiring registry lock: %w", err)
	}

	fmt.Fprintf(f, "%d\n", os.Getpid())
	f.Close()

	return &fileLock{path: path}, nil
}

// Release removes the lock file.
func (l *fileLock) Release() {
	os.Remove(l.path)
}
