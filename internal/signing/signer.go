package signing

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/go-git/go-billy/v5/util"

	"github.com/oshokin/central-publisher/internal/checksum"
	"github.com/oshokin/central-publisher/internal/domain/artifact"
	"github.com/oshokin/central-publisher/internal/logger"
	"github.com/oshokin/central-publisher/internal/repository/bundle"
)

// signatureMode is the permission of written signature files.
const signatureMode os.FileMode = 0o644

// Signer produces a detached signature for the bytes read from r.
type Signer interface {
	Sign(ctx context.Context, r io.Reader) ([]byte, error)
}

// SignerFunc adapts a function to the Signer interface.
type SignerFunc func(ctx context.Context, r io.Reader) ([]byte, error)

// Sign calls f.
func (f SignerFunc) Sign(ctx context.Context, r io.Reader) ([]byte, error) {
	return f(ctx, r)
}

// SignError reports a failure to sign a bundle file.
type SignError struct {
	// Path is the file inside the bundle filesystem.
	Path string
	// Err is the underlying error.
	Err error
}

func (e *SignError) Error() string {
	return fmt.Sprintf("sign %s: %v", e.Path, e.Err)
}

func (e *SignError) Unwrap() error {
	return e.Err
}

// SignBundle writes <file>.asc for every bundle file that is neither a signature
// nor a checksum file. Returns the written signature paths relative to the
// bundle version directory.
func SignBundle(ctx context.Context, b *bundle.Bundle, signer Signer) ([]string, error) {
	var targets []string

	err := b.Walk(func(rel string, _ os.FileInfo) error {
		if name := path.Base(rel); !artifact.IsSignatureFile(name) && !checksum.IsChecksumFile(name) {
			targets = append(targets, rel)
		}

		return nil
	})
	if err != nil {
		return nil, &SignError{Path: b.Dir, Err: err}
	}

	written := make([]string, 0, len(targets))

	for _, rel := range targets {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		if err = signFile(ctx, b, rel, signer); err != nil {
			return nil, err
		}

		written = append(written, rel+artifact.SignatureExtension)
	}

	logger.InfoKV(ctx, "Signed artifacts", "files", len(written))

	return written, nil
}

func signFile(ctx context.Context, b *bundle.Bundle, rel string, signer Signer) error {
	src := b.Path(rel)

	f, err := b.FS.Open(src)
	if err != nil {
		return &SignError{Path: src, Err: err}
	}

	signature, err := signer.Sign(ctx, f)
	_ = f.Close()

	if err != nil {
		return &SignError{Path: src, Err: err}
	}

	dst := src + artifact.SignatureExtension
	if err = util.WriteFile(b.FS, dst, signature, signatureMode); err != nil {
		return &SignError{Path: dst, Err: err}
	}

	logger.DebugKV(ctx, "Signed artifact", "path", src)

	return nil
}
