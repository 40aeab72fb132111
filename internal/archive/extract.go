package archive

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/go-git/go-billy/v5"
	"github.com/klauspost/compress/zip"
)

// List returns the entry names of an archive in stored order.
func List(fs billy.Filesystem, name string) ([]string, error) {
	var entries []string

	err := read(fs, name, func(zr *zip.Reader) error {
		for _, f := range zr.File {
			entries = append(entries, f.Name)
		}

		return nil
	})

	return entries, err
}

// Extract unpacks an archive into dir on the local disk and returns the written entry names.
// Entries that would resolve outside dir are rejected.
func Extract(ctx context.Context, fs billy.Filesystem, name, dir string) ([]string, error) {
	var written []string

	err := read(fs, name, func(zr *zip.Reader) error {
		for _, f := range zr.File {
			if err := ctx.Err(); err != nil {
				return err
			}

			if f.FileInfo().IsDir() {
				continue
			}

			if err := extractEntry(f, dir); err != nil {
				return err
			}

			written = append(written, f.Name)
		}

		return nil
	})

	return written, err
}

func read(fs billy.Filesystem, name string, fn func(*zip.Reader) error) error {
	f, err := fs.Open(name)
	if err != nil {
		return &ArchiveError{Path: name, Err: err}
	}

	defer func() {
		_ = f.Close()
	}()

	info, err := fs.Stat(name)
	if err != nil {
		return &ArchiveError{Path: name, Err: err}
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return &ArchiveError{Path: name, Err: err}
	}

	if err = fn(zr); err != nil {
		return &ArchiveError{Path: name, Err: err}
	}

	return nil
}

func extractEntry(f *zip.File, dir string) error {
	if f.Name == "" || path.IsAbs(f.Name) || strings.Contains(f.Name, `\`) ||
		path.Clean(f.Name) != f.Name || f.Name == ".." || strings.HasPrefix(f.Name, "../") ||
		!f.Mode().IsRegular() {
		return &ArchiveError{Path: f.Name, Err: ErrUnsafeEntry}
	}

	target, err := securejoin.SecureJoin(dir, filepath.FromSlash(f.Name))
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}

	defer func() {
		_ = rc.Close()
	}()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, EntryMode)
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, rc); err != nil {
		_ = out.Close()

		return err
	}

	return out.Close()
}
