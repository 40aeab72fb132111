package checksum

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"slices"

	"github.com/go-git/go-billy/v5/util"

	"github.com/oshokin/central-publisher/internal/domain/artifact"
	"github.com/oshokin/central-publisher/internal/logger"
	"github.com/oshokin/central-publisher/internal/repository/bundle"
)

// siblingMode is the permission of written checksum files.
const siblingMode os.FileMode = 0o644

// HashError reports a failure to hash an artifact or write one of its siblings.
type HashError struct {
	// Path is the artifact or sibling path inside the bundle filesystem.
	Path string
	// Err is the underlying error.
	Err error
}

func (e *HashError) Error() string {
	return fmt.Sprintf("hash %s: %v", e.Path, e.Err)
}

func (e *HashError) Unwrap() error {
	return e.Err
}

// Engine computes checksum siblings with the required algorithms plus configured extras.
type Engine struct {
	algorithms []Algorithm
}

// NewEngine creates an Engine. Extras duplicating a required algorithm are ignored.
func NewEngine(extra ...Algorithm) *Engine {
	algorithms := Required()

	for _, algorithm := range extra {
		if !slices.Contains(algorithms, algorithm) {
			algorithms = append(algorithms, algorithm)
		}
	}

	return &Engine{algorithms: algorithms}
}

// Algorithms returns the algorithms the engine hashes with, in sibling writing order.
func (e *Engine) Algorithms() []Algorithm {
	return slices.Clone(e.algorithms)
}

// Sum reads r once and returns the lowercase hex digest for every engine algorithm.
func (e *Engine) Sum(r io.Reader) (map[Algorithm]string, error) {
	hashes := make([]io.Writer, 0, len(e.algorithms))
	sums := make(map[Algorithm]func() []byte, len(e.algorithms))

	for _, algorithm := range e.algorithms {
		h, err := algorithm.New()
		if err != nil {
			return nil, err
		}

		hashes = append(hashes, h)
		sums[algorithm] = func() []byte { return h.Sum(nil) }
	}

	if _, err := io.Copy(io.MultiWriter(hashes...), r); err != nil {
		return nil, err
	}

	digests := make(map[Algorithm]string, len(sums))
	for algorithm, sum := range sums {
		digests[algorithm] = EncodeHex(sum(), true)
	}

	return digests, nil
}

// HashBundle writes siblings for every artifact of the bundle.
// Signature and checksum files are skipped. Returns the written sibling paths
// relative to the bundle version directory.
func (e *Engine) HashBundle(ctx context.Context, b *bundle.Bundle) ([]string, error) {
	var targets []string

	err := b.Walk(func(rel string, _ os.FileInfo) error {
		if name := path.Base(rel); !artifact.IsSignatureFile(name) && !IsChecksumFile(name) {
			targets = append(targets, rel)
		}

		return nil
	})
	if err != nil {
		return nil, &HashError{Path: b.Dir, Err: err}
	}

	written := make([]string, 0, len(targets)*len(e.algorithms))

	for _, rel := range targets {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		siblings, err := e.hashFile(b, rel)
		if err != nil {
			return nil, err
		}

		written = append(written, siblings...)
	}

	logger.InfoKV(ctx, "Wrote checksums", "artifacts", len(targets), "files", len(written))

	return written, nil
}

// hashFile writes every sibling of one artifact.
func (e *Engine) hashFile(b *bundle.Bundle, rel string) ([]string, error) {
	src := b.Path(rel)

	f, err := b.FS.Open(src)
	if err != nil {
		return nil, &HashError{Path: src, Err: err}
	}

	digests, err := e.Sum(f)
	_ = f.Close()

	if err != nil {
		return nil, &HashError{Path: src, Err: err}
	}

	siblings := make([]string, 0, len(e.algorithms))

	for _, algorithm := range e.algorithms {
		siblingRel := rel + "." + algorithm.Extension()
		dst := b.Path(siblingRel)

		if err = util.WriteFile(b.FS, dst, []byte(digests[algorithm]), siblingMode); err != nil {
			return nil, &HashError{Path: dst, Err: err}
		}

		siblings = append(siblings, siblingRel)
	}

	return siblings, nil
}
