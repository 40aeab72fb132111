package artifact

import (
	"errors"
	"fmt"
	"path"
	"strings"

	packageurl "github.com/package-url/packageurl-go"
)

// Coordinate identifies a published library in the repository.
type Coordinate struct {
	// GroupID is the dotted namespace, e.g. "com.example".
	GroupID string `yaml:"group_id"`
	// ArtifactID is the library name inside the namespace.
	ArtifactID string `yaml:"artifact_id"`
	// Version is the released version.
	Version string `yaml:"version"`
}

var (
	// ErrMissingGroupID is returned when the coordinate has no group identifier.
	ErrMissingGroupID = errors.New("group id must be provided")
	// ErrMissingArtifactID is returned when the coordinate has no artifact identifier.
	ErrMissingArtifactID = errors.New("artifact id must be provided")
	// ErrMissingVersion is returned when the coordinate has no version.
	ErrMissingVersion = errors.New("version must be provided")
	// ErrInvalidSegment is returned for values that would escape or break the repository layout.
	ErrInvalidSegment = errors.New("invalid coordinate segment")
)

// Validate checks that every part of the coordinate is present and path-safe.
func (c Coordinate) Validate() error {
	switch {
	case c.GroupID == "":
		return ErrMissingGroupID
	case c.ArtifactID == "":
		return ErrMissingArtifactID
	case c.Version == "":
		return ErrMissingVersion
	}

	for _, segment := range c.Segments() {
		if segment == "" || segment == "." || segment == ".." ||
			strings.ContainsAny(segment, `/\:`) || strings.TrimSpace(segment) != segment {
			return fmt.Errorf("%w: %q in %s", ErrInvalidSegment, segment, c)
		}
	}

	return nil
}

// Segments returns the path segments of the bundle directory:
// every groupId component followed by artifactId and version.
func (c Coordinate) Segments() []string {
	groupParts := strings.Split(c.GroupID, ".")

	segments := make([]string, 0, len(groupParts)+2)
	segments = append(segments, groupParts...)
	segments = append(segments, c.ArtifactID, c.Version)

	return segments
}

// NamespacePath returns the groupId with dots replaced by forward slashes.
func (c Coordinate) NamespacePath() string {
	return strings.ReplaceAll(c.GroupID, ".", "/")
}

// Path returns the slash-separated bundle directory, e.g. "com/example/foo/1.0.0".
func (c Coordinate) Path() string {
	return path.Join(c.NamespacePath(), c.ArtifactID, c.Version)
}

// BaseName returns "<artifactId>-<version>", the prefix of every artifact file name.
func (c Coordinate) BaseName() string {
	return c.ArtifactID + "-" + c.Version
}

// FileName returns the canonical repository file name for an artifact of the given kind.
func (c Coordinate) FileName(kind Kind) string {
	name := c.BaseName()
	if classifier := kind.Classifier(); classifier != "" {
		name += "-" + classifier
	}

	return name + "." + kind.Extension()
}

// PURL returns the package URL of the coordinate, e.g. "pkg:maven/com.example/foo@1.0.0".
func (c Coordinate) PURL() string {
	return packageurl.NewPackageURL(packageurl.TypeMaven, c.GroupID, c.ArtifactID, c.Version, nil, "").ToString()
}

// String renders the coordinate in the usual "group:artifact:version" notation.
func (c Coordinate) String() string {
	return c.GroupID + ":" + c.ArtifactID + ":" + c.Version
}
