package bundle

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/helper/chroot"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/oshokin/central-publisher/internal/domain/artifact"
	"github.com/oshokin/central-publisher/internal/logger"
)

const (
	// DirMode is applied to every bundle directory so later stages,
	// possibly running as other users, can add sibling files.
	DirMode os.FileMode = 0o777

	// FileMode is used for artifacts placed into the bundle.
	FileMode os.FileMode = 0o644
)

// Bundle is an aggregated repository-layout tree.
type Bundle struct {
	// FS is the filesystem holding the bundle.
	FS billy.Filesystem
	// Root is the directory the layout starts from, e.g. "upload".
	Root string
	// Dir is the version directory, e.g. "upload/com/example/foo/1.0.0".
	Dir string
	// Coordinate is the coordinate the layout was derived from.
	Coordinate artifact.Coordinate
	// Files are the artifact names placed into Dir, in input order.
	Files []string
}

// Walk visits every regular file of the version directory in lexicographic order.
func (b *Bundle) Walk(fn WalkFunc) error {
	return Walk(b.FS, b.Dir, fn)
}

// Path returns the filesystem path of a file relative to the version directory.
func (b *Bundle) Path(rel string) string {
	return b.FS.Join(b.Dir, rel)
}

// Aggregator places produced artifacts into the repository layout.
type Aggregator struct {
	// source is where artifact paths are resolved.
	source billy.Filesystem
	// target receives the bundle tree.
	target billy.Filesystem
	// root is the directory of target the layout starts from.
	root string
}

// NewAggregator creates an Aggregator reading from source and writing below root on target.
func NewAggregator(source, target billy.Filesystem, root string) *Aggregator {
	return &Aggregator{
		source: source,
		target: target,
		root:   root,
	}
}

// Aggregate places every file at <root>/<group/as/path>/<artifactId>/<version>/<canonical name>.
// A destination holding identical bytes is accepted, different bytes yield a ConflictError.
func (a *Aggregator) Aggregate(ctx context.Context, coord artifact.Coordinate, files []artifact.File) (*Bundle, error) {
	if err := coord.Validate(); err != nil {
		return nil, err
	}

	dir, err := a.makeLayout(coord)
	if err != nil {
		return nil, err
	}

	b := &Bundle{
		FS:         a.target,
		Root:       a.root,
		Dir:        dir,
		Coordinate: coord,
		Files:      make([]string, 0, len(files)),
	}

	for _, file := range files {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		name := coord.FileName(file.Kind)
		if err = a.place(ctx, file, a.target.Join(dir, name)); err != nil {
			return nil, err
		}

		b.Files = append(b.Files, name)
	}

	logger.InfoKV(ctx, "Aggregated artifacts", "dir", dir, "files", len(b.Files))

	return b, nil
}

// makeLayout creates every directory of the coordinate path with DirMode.
func (a *Aggregator) makeLayout(coord artifact.Coordinate) (string, error) {
	dir := a.root

	for _, segment := range coord.Segments() {
		dir = a.target.Join(dir, segment)

		if err := a.target.MkdirAll(dir, DirMode); err != nil {
			return "", &FilesystemError{Op: "mkdir", Path: dir, Err: err}
		}

		// MkdirAll is subject to the umask.
		if err := chmodDir(a.target, dir); err != nil {
			return "", &FilesystemError{Op: "chmod", Path: dir, Err: err}
		}
	}

	return dir, nil
}

// chmodDir widens dir to DirMode. Filesystems without permissions, such as memfs, are left alone.
func chmodDir(fs billy.Filesystem, dir string) error {
	if changer, ok := fs.(billy.Change); ok {
		return changer.Chmod(dir, DirMode)
	}

	root, ok := diskRoot(fs)
	if !ok {
		return nil
	}

	return os.Chmod(filepath.Join(root, filepath.FromSlash(dir)), DirMode)
}

// diskRoot returns the host directory behind an osfs filesystem.
func diskRoot(fs billy.Filesystem) (string, bool) {
	switch f := fs.(type) {
	case *osfs.BoundOS:
		return f.Root(), true
	case *chroot.ChrootHelper:
		if _, ok := f.Underlying().(*osfs.ChrootOS); ok {
			return f.Root(), true
		}
	}

	return "", false
}

// place copies one artifact to dst unless identical content is already there.
func (a *Aggregator) place(ctx context.Context, file artifact.File, dst string) error {
	info, err := a.target.Stat(dst)

	switch {
	case err == nil && info.IsDir():
		return &ConflictError{Path: dst, Source: file.Path}
	case err == nil:
		same, cmpErr := a.sameContent(file, dst)
		if cmpErr != nil {
			return cmpErr
		}

		if !same {
			return &ConflictError{Path: dst, Source: file.Path}
		}

		logger.DebugKV(ctx, "Artifact already in place", "path", dst)

		return nil
	case !errors.Is(err, os.ErrNotExist):
		return &FilesystemError{Op: "stat", Path: dst, Err: err}
	}

	src, err := a.open(file)
	if err != nil {
		return err
	}

	defer func() {
		_ = src.Close()
	}()

	out, err := a.target.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, FileMode)
	if err != nil {
		return &FilesystemError{Op: "create", Path: dst, Err: err}
	}

	if _, err = io.Copy(out, src); err != nil {
		_ = out.Close()

		return &FilesystemError{Op: "copy", Path: dst, Err: err}
	}

	if err = out.Close(); err != nil {
		return &FilesystemError{Op: "close", Path: dst, Err: err}
	}

	logger.DebugKV(ctx, "Placed artifact", "source", file.Path, "kind", file.Kind, "path", dst)

	return nil
}

// open returns a reader over the artifact bytes.
func (a *Aggregator) open(file artifact.File) (io.ReadCloser, error) {
	if file.Content != nil {
		return io.NopCloser(bytes.NewReader(file.Content)), nil
	}

	if file.Path == "" {
		return nil, &FilesystemError{Op: "open source", Path: string(file.Kind), Err: os.ErrNotExist}
	}

	src, err := a.source.Open(path.Clean(file.Path))
	if err != nil {
		return nil, &FilesystemError{Op: "open source", Path: file.Path, Err: err}
	}

	return src, nil
}

// sameContent compares the artifact with an existing destination by SHA-256.
func (a *Aggregator) sameContent(file artifact.File, dst string) (bool, error) {
	src, err := a.open(file)
	if err != nil {
		return false, err
	}

	defer func() {
		_ = src.Close()
	}()

	existing, err := a.target.Open(dst)
	if err != nil {
		return false, &FilesystemError{Op: "open", Path: dst, Err: err}
	}

	defer func() {
		_ = existing.Close()
	}()

	srcSum, err := sum(src)
	if err != nil {
		return false, &FilesystemError{Op: "read source", Path: file.Path, Err: err}
	}

	dstSum, err := sum(existing)
	if err != nil {
		return false, &FilesystemError{Op: "read", Path: dst, Err: err}
	}

	return bytes.Equal(srcSum, dstSum), nil
}

func sum(r io.Reader) ([]byte, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return nil, fmt.Errorf("digest: %w", err)
	}

	return h.Sum(nil), nil
}
