package bundle

import (
	"errors"
	"fmt"
)

// ErrConflict is the sentinel wrapped by ConflictError.
var ErrConflict = errors.New("destination already occupied by different content")

// FilesystemError reports a failed filesystem operation on a bundle path.
type FilesystemError struct {
	// Op is the operation that failed, e.g. "open source" or "mkdir".
	Op string
	// Path is the path the operation was applied to.
	Path string
	// Err is the underlying error.
	Err error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// ConflictError is returned when a bundle destination already holds different content.
type ConflictError struct {
	// Path is the occupied destination inside the bundle filesystem.
	Path string
	// Source is the artifact that was supposed to be placed there.
	Source string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("place %s at %s: %v", e.Source, e.Path, ErrConflict)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
