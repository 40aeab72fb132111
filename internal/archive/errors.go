package archive

import (
	"errors"
	"fmt"
)

var (
	// ErrArchiveExists is returned when the destination archive is already present.
	ErrArchiveExists = errors.New("archive already exists")
	// ErrSourceMissing is returned when the bundle root to package does not exist.
	ErrSourceMissing = errors.New("bundle root does not exist")
	// ErrUnsafeEntry is returned by Extract for entries that are not plain relative files.
	ErrUnsafeEntry = errors.New("unsafe archive entry")
)

// ArchiveError reports a failure to build or read an archive.
//
//nolint:revive // ArchiveError reads better at call sites than archive.Error.
type ArchiveError struct {
	// Path is the archive or source path involved.
	Path string
	// Err is the underlying error.
	Err error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("archive %s: %v", e.Path, e.Err)
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}
