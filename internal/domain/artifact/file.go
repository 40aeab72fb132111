package artifact

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Kind is the role of an artifact file inside a publication.
type Kind string

// Supported artifact kinds.
const (
	KindJar        Kind = "jar"
	KindSourcesJar Kind = "sources-jar"
	KindJavadocJar Kind = "javadoc-jar"
	KindPOM        Kind = "pom"
	KindModule     Kind = "module"
)

// SignatureExtension is the suffix of detached signature files.
const SignatureExtension = ".asc"

// ErrUnknownKind is returned when an artifact kind is not supported.
var ErrUnknownKind = errors.New("unknown artifact kind")

// Kinds returns every supported artifact kind.
func Kinds() []Kind {
	return []Kind{KindJar, KindSourcesJar, KindJavadocJar, KindPOM, KindModule}
}

// ParseKind converts a configuration value into a Kind.
func ParseKind(s string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Kinds(), kind) {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}

	return kind, nil
}

// Classifier returns the Maven classifier appended to the file name, if any.
func (k Kind) Classifier() string {
	switch k {
	case KindSourcesJar:
		return "sources"
	case KindJavadocJar:
		return "javadoc"
	default:
		return ""
	}
}

// Extension returns the file extension used by the kind, without the dot.
func (k Kind) Extension() string {
	switch k {
	case KindPOM:
		return "pom"
	case KindModule:
		return "module"
	default:
		return "jar"
	}
}

// File is a produced artifact that has to be placed into a bundle.
// Content, when set, is used instead of reading Path.
type File struct {
	// Path is the location of the artifact relative to the source directory.
	Path string `yaml:"path"`
	// Kind tells how the artifact is named inside the bundle.
	Kind Kind `yaml:"kind"`
	// Content holds generated bytes, e.g. a POM rendered from metadata.
	Content []byte `yaml:"-"`
}

// IsSignatureFile reports whether name is a detached signature file.
func IsSignatureFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), SignatureExtension)
}
