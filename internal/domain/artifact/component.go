package artifact

import (
	"errors"
	"fmt"
	"strings"
)

// ComponentType selects which artifacts a publication has to contain.
type ComponentType string

// Supported component types.
const (
	// ComponentJava is a regular library: main jar, sources, javadoc and POM.
	ComponentJava ComponentType = "java"
	// ComponentVersionCatalog is a version catalog: no main jar.
	ComponentVersionCatalog ComponentType = "versionCatalog"
)

var (
	// ErrUnknownComponentType is returned for unsupported component types.
	ErrUnknownComponentType = errors.New("unknown component type")
	// ErrMissingArtifact is returned when a required artifact kind is absent.
	ErrMissingArtifact = errors.New("required artifact is missing")
	// ErrDuplicateArtifact is returned when the same kind is listed twice.
	ErrDuplicateArtifact = errors.New("artifact kind listed more than once")
)

// ParseComponentType converts a configuration value into a ComponentType.
func ParseComponentType(s string) (ComponentType, error) {
	switch strings.TrimSpace(s) {
	case string(ComponentJava), "":
		return ComponentJava, nil
	case string(ComponentVersionCatalog):
		return ComponentVersionCatalog, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownComponentType, s)
	}
}

// RequiredKinds returns the artifact kinds a publication of this type must contain.
func (t ComponentType) RequiredKinds() []Kind {
	if t == ComponentVersionCatalog {
		return []Kind{KindSourcesJar, KindJavadocJar, KindPOM}
	}

	return []Kind{KindJar, KindSourcesJar, KindJavadocJar, KindPOM}
}

// CheckFiles verifies that files cover every required kind and list each kind once.
func (t ComponentType) CheckFiles(files []File) error {
	seen := make(map[Kind]struct{}, len(files))

	for _, file := range files {
		if _, dup := seen[file.Kind]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateArtifact, file.Kind)
		}

		seen[file.Kind] = struct{}{}
	}

	for _, kind := range t.RequiredKinds() {
		if _, ok := seen[kind]; !ok {
			return fmt.Errorf("%w: %s for component %s", ErrMissingArtifact, kind, t)
		}
	}

	return nil
}
