package archive

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/klauspost/compress/zip"
	"github.com/opencontainers/go-digest"

	"github.com/oshokin/central-publisher/internal/domain/artifact"
	"github.com/oshokin/central-publisher/internal/logger"
	"github.com/oshokin/central-publisher/internal/repository/bundle"
)

const (
	// EntryMode is the permission recorded for every archive entry.
	EntryMode os.FileMode = 0o644

	// archiveMode is the permission of the written archive file.
	archiveMode os.FileMode = 0o644
)

// EntryTime is the modification time recorded for every entry.
//
//nolint:gochecknoglobals // Fixed timestamp, the earliest one zip can encode.
var EntryTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Result describes a written archive.
type Result struct {
	// Path is the archive path on the destination filesystem.
	Path string
	// Digest is the canonical digest of the archive bytes.
	Digest digest.Digest
	// Size is the archive size in bytes.
	Size int64
	// Entries are the entry names in the order they were written.
	Entries []string
}

// FileName returns the archive name for a coordinate: "<artifactId>-<version>-bundle.zip".
func FileName(coord artifact.Coordinate) string {
	return coord.BaseName() + "-bundle.zip"
}

// writeCounter records the number of bytes written through it.
type writeCounter struct {
	written int64
}

func (wc *writeCounter) Write(p []byte) (int, error) {
	wc.written += int64(len(p))

	return len(p), nil
}

// Build packages every regular file below root on src into name on dst.
// Entry names are root-relative and slash-separated. An existing destination is never overwritten.
func Build(ctx context.Context, src billy.Filesystem, root string, dst billy.Filesystem, name string) (*Result, error) {
	info, err := src.Stat(root)

	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, &ArchiveError{Path: root, Err: ErrSourceMissing}
	case err != nil:
		return nil, &ArchiveError{Path: root, Err: err}
	case !info.IsDir():
		return nil, &ArchiveError{Path: root, Err: bundle.ErrNotDirectory}
	}

	if _, err = dst.Stat(name); err == nil {
		return nil, &ArchiveError{Path: name, Err: ErrArchiveExists}
	}

	out, err := dst.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, archiveMode)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			err = ErrArchiveExists
		}

		return nil, &ArchiveError{Path: name, Err: err}
	}

	result, err := write(ctx, src, root, out)
	if closeErr := out.Close(); err == nil && closeErr != nil {
		err = closeErr
	}

	if err != nil {
		_ = dst.Remove(name)

		return nil, &ArchiveError{Path: name, Err: err}
	}

	result.Path = name

	logger.InfoKV(ctx, "Built archive",
		"path", name,
		"entries", len(result.Entries),
		"size", result.Size,
		"digest", result.Digest.String())

	return result, nil
}

func write(ctx context.Context, src billy.Filesystem, root string, out io.Writer) (*Result, error) {
	digester := digest.Canonical.Digester()
	counter := &writeCounter{}

	zw := zip.NewWriter(io.MultiWriter(digester.Hash(), out, counter))

	var entries []string

	err := bundle.Walk(src, root, func(rel string, _ os.FileInfo) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := addEntry(zw, src, src.Join(root, rel), rel); err != nil {
			return err
		}

		entries = append(entries, rel)

		return nil
	})
	if err != nil {
		_ = zw.Close()

		return nil, err
	}

	if err = zw.Close(); err != nil {
		return nil, err
	}

	return &Result{
		Digest:  digester.Digest(),
		Size:    counter.written,
		Entries: entries,
	}, nil
}

func addEntry(zw *zip.Writer, src billy.Filesystem, filePath, name string) error {
	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: EntryTime,
	}
	header.SetMode(EntryMode)

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}

	f, err := src.Open(filePath)
	if err != nil {
		return err
	}

	defer func() {
		_ = f.Close()
	}()

	_, err = io.Copy(w, f)

	return err
}
