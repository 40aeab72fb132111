package publisher

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fluxcd/pkg/lockedfile"

	"github.com/oshokin/central-publisher/internal/repository/bundle"
)

// LockFilename is the lock file guarding a build directory.
const LockFilename = ".central-publisher.lock"

// LockBuildDir blocks until no other process works on the same build directory.
// The returned function releases the lock.
func LockBuildDir(buildDir string) (func(), error) {
	if err := os.MkdirAll(buildDir, bundle.DirMode); err != nil {
		return nil, fmt.Errorf("create build directory: %w", err)
	}

	unlock, err := lockedfile.MutexAt(filepath.Join(buildDir, LockFilename)).Lock()
	if err != nil {
		return nil, fmt.Errorf("lock build directory: %w", err)
	}

	return unlock, nil
}
