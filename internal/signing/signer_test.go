package signing_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/central-publisher/internal/domain/artifact"
	"github.com/oshokin/central-publisher/internal/repository/bundle"
	"github.com/oshokin/central-publisher/internal/signing"
)

func newBundle(t *testing.T, names ...string) *bundle.Bundle {
	t.Helper()

	fs := memfs.New()
	dir := "upload/com/example/foo/1.0.0"

	for _, name := range names {
		require.NoError(t, util.WriteFile(fs, fs.Join(dir, name), []byte(name), 0o644))
	}

	return &bundle.Bundle{
		FS:         fs,
		Root:       "upload",
		Dir:        dir,
		Coordinate: artifact.Coordinate{GroupID: "com.example", ArtifactID: "foo", Version: "1.0.0"},
	}
}

// echoSigner returns "sig:" followed by the signed bytes.
var echoSigner = signing.SignerFunc(func(_ context.Context, r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return append([]byte("sig:"), data...), nil
})

func TestSignBundleSkipsSignaturesAndChecksums(t *testing.T) {
	t.Parallel()

	b := newBundle(t, "foo-1.0.0.jar", "foo-1.0.0.pom", "foo-1.0.0.jar.md5", "foo-1.0.0.pom.asc")

	written, err := signing.SignBundle(context.Background(), b, echoSigner)
	require.NoError(t, err)
	require.Equal(t, []string{"foo-1.0.0.jar.asc", "foo-1.0.0.pom.asc"}, written)

	data, err := util.ReadFile(b.FS, b.Path("foo-1.0.0.jar.asc"))
	require.NoError(t, err)
	require.Equal(t, "sig:foo-1.0.0.jar", string(data))

	_, err = b.FS.Stat(b.Path("foo-1.0.0.jar.md5.asc"))
	require.Error(t, err)
}

func TestSignBundleWrapsSignerFailure(t *testing.T) {
	t.Parallel()

	errBroken := errors.New("agent unavailable")
	b := newBundle(t, "foo-1.0.0.jar")

	_, err := signing.SignBundle(context.Background(), b, signing.SignerFunc(
		func(context.Context, io.Reader) ([]byte, error) { return nil, errBroken }))
	require.ErrorIs(t, err, errBroken)

	var signErr *signing.SignError
	require.ErrorAs(t, err, &signErr)
	require.Equal(t, b.Path("foo-1.0.0.jar"), signErr.Path)
}
