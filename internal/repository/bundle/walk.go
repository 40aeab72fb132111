package bundle

import (
	"errors"
	"os"
	"path"
	"sort"

	"github.com/go-git/go-billy/v5"
)

// WalkFunc is called for every regular file found by Walk.
// rel is the slash-separated path relative to the walked root.
type WalkFunc func(rel string, info os.FileInfo) error

// ErrNotDirectory is returned by Walk when the root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Walk visits every regular file below root in lexicographic order.
// Directories are descended into, anything else (symlinks, devices) is skipped.
func Walk(fs billy.Filesystem, root string, fn WalkFunc) error {
	info, err := fs.Stat(root)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return &FilesystemError{Op: "walk", Path: root, Err: ErrNotDirectory}
	}

	return walkDir(fs, root, "", fn)
}

func walkDir(fs billy.Filesystem, dir, rel string, fn WalkFunc) error {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return &FilesystemError{Op: "read dir", Path: dir, Err: err}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		entryRel := path.Join(rel, entry.Name())

		switch mode := entry.Mode(); {
		case mode.IsDir():
			if err = walkDir(fs, fs.Join(dir, entry.Name()), entryRel, fn); err != nil {
				return err
			}
		case mode.IsRegular():
			if err = fn(entryRel, entry); err != nil {
				return err
			}
		}
	}

	return nil
}
