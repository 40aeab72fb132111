package artifact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParseKind accepts known kinds case-insensitively and rejects the rest.
func TestParseKind(t *testing.T) {
	t.Parallel()

	kind, err := ParseKind(" Sources-Jar ")
	require.NoError(t, err)
	require.Equal(t, KindSourcesJar, kind)

	_, err = ParseKind("war")
	require.ErrorIs(t, err, ErrUnknownKind)
}

// TestIsSignatureFile recognises detached signature names only.
func TestIsSignatureFile(t *testing.T) {
	t.Parallel()

	require.True(t, IsSignatureFile("foo-1.0.0.jar.asc"))
	require.True(t, IsSignatureFile("FOO.POM.ASC"))
	require.False(t, IsSignatureFile("foo-1.0.0.jar"))
	require.False(t, IsSignatureFile("foo-1.0.0.jar.asc.md5"))
}

// TestComponentTypeCheckFiles verifies required kinds for java and version catalog components.
func TestComponentTypeCheckFiles(t *testing.T) {
	t.Parallel()

	full := []File{
		{Path: "a.jar", Kind: KindJar},
		{Path: "a-sources.jar", Kind: KindSourcesJar},
		{Path: "a-javadoc.jar", Kind: KindJavadocJar},
		{Path: "a.pom", Kind: KindPOM},
	}

	require.NoError(t, ComponentJava.CheckFiles(full))
	require.NoError(t, ComponentVersionCatalog.CheckFiles(full[1:]))
	require.ErrorIs(t, ComponentJava.CheckFiles(full[1:]), ErrMissingArtifact)
	require.ErrorIs(t, ComponentJava.CheckFiles(append(full, File{Path: "b.jar", Kind: KindJar})), ErrDuplicateArtifact)

	ct, err := ParseComponentType("versionCatalog")
	require.NoError(t, err)
	require.Equal(t, ComponentVersionCatalog, ct)

	_, err = ParseComponentType("android")
	require.ErrorIs(t, err, ErrUnknownComponentType)
}
