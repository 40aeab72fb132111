package config

import (
	"github.com/oshokin/central-publisher/internal/checksum"
	"github.com/oshokin/central-publisher/internal/domain/artifact"
	"github.com/oshokin/central-publisher/internal/domain/deployment"
	"github.com/oshokin/central-publisher/internal/pom"
)

// Example returns a starter configuration for a Java library built by Gradle.
// It passes ValidateBundle so it can be saved as is and edited afterwards.
func Example() *Config {
	return &Config{
		Coordinate: artifact.Coordinate{
			GroupID:    "com.example",
			ArtifactID: "library",
			Version:    "1.0.0",
		},
		ComponentType:  artifact.ComponentJava,
		PublishingType: deployment.UserManaged,
		Credentials:    Credentials{Username: "portal-token-name"},
		BuildDir:       DefaultBuildDir,
		SourceDir:      ".",
		Artifacts: []artifact.File{
			{Path: "build/libs/library-1.0.0.jar", Kind: artifact.KindJar},
			{Path: "build/libs/library-1.0.0-sources.jar", Kind: artifact.KindSourcesJar},
			{Path: "build/libs/library-1.0.0-javadoc.jar", Kind: artifact.KindJavadocJar},
		},
		Checksums: []checksum.Algorithm{checksum.SHA256, checksum.SHA512},
		Signing:   Signing{KeyFile: "signing-key.asc"},
		Timeout:   DefaultTimeout,
		Poll: Poll{
			Interval:    DefaultPollInterval,
			MaxInterval: DefaultPollMaxInterval,
			Timeout:     DefaultPollTimeout,
		},
		POM: &pom.Metadata{
			Name:        "Example library",
			Description: "Describe what the library does.",
			URL:         "https://github.com/example/library",
			Licenses:    []pom.License{{ID: "Apache-2.0", URL: "https://www.apache.org/licenses/LICENSE-2.0.txt"}},
			Developers:  []pom.Developer{{ID: "maintainer", Name: "Library Maintainer"}},
			SCM: pom.SCM{
				URL:        "https://github.com/example/library",
				Connection: "scm:git:https://github.com/example/library.git",
			},
		},
	}
}
