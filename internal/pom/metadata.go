package pom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/github/go-spdx/v2/spdxexp"
)

var (
	// ErrMissingField is returned when metadata the repository requires is absent.
	ErrMissingField = errors.New("required POM field is missing")
	// ErrInvalidLicense is returned for license ids that are not SPDX identifiers.
	ErrInvalidLicense = errors.New("license is not a valid SPDX identifier")
)

// Metadata is the descriptive part of a POM.
type Metadata struct {
	// Name is the human readable project name.
	Name string `yaml:"name"`
	// Description is a short summary of the project.
	Description string `yaml:"description"`
	// URL is the project home page.
	URL string `yaml:"url"`
	// Licenses lists the project licenses, at least one is required.
	Licenses []License `yaml:"licenses"`
	// Developers lists the project maintainers, at least one is required.
	Developers []Developer `yaml:"developers"`
	// SCM points to the source repository.
	SCM SCM `yaml:"scm"`
}

// License identifies a project license.
type License struct {
	// ID is the SPDX identifier, e.g. "Apache-2.0".
	ID string `yaml:"id"`
	// Name is the display name, ID is used when empty.
	Name string `yaml:"name,omitempty"`
	// URL is the license text location.
	URL string `yaml:"url,omitempty"`
}

// Developer is a project maintainer.
type Developer struct {
	ID    string `yaml:"id,omitempty"`
	Name  string `yaml:"name"`
	Email string `yaml:"email,omitempty"`
}

// SCM describes the source repository.
type SCM struct {
	URL                 string `yaml:"url"`
	Connection          string `yaml:"connection,omitempty"`
	DeveloperConnection string `yaml:"developer_connection,omitempty"`
}

// IsZero reports whether no metadata was configured at all.
func (m *Metadata) IsZero() bool {
	return m == nil ||
		(m.Name == "" && m.Description == "" && m.URL == "" &&
			len(m.Licenses) == 0 && len(m.Developers) == 0 && m.SCM == SCM{})
}

// Validate checks the fields the repository rejects a publication without.
func (m *Metadata) Validate() error {
	switch {
	case strings.TrimSpace(m.Name) == "":
		return fmt.Errorf("%w: name", ErrMissingField)
	case strings.TrimSpace(m.Description) == "":
		return fmt.Errorf("%w: description", ErrMissingField)
	case strings.TrimSpace(m.URL) == "":
		return fmt.Errorf("%w: url", ErrMissingField)
	case len(m.Licenses) == 0:
		return fmt.Errorf("%w: licenses", ErrMissingField)
	case len(m.Developers) == 0:
		return fmt.Errorf("%w: developers", ErrMissingField)
	case strings.TrimSpace(m.SCM.URL) == "":
		return fmt.Errorf("%w: scm.url", ErrMissingField)
	}

	ids := make([]string, 0, len(m.Licenses))
	for _, license := range m.Licenses {
		ids = append(ids, license.ID)
	}

	if valid, invalid := spdxexp.ValidateLicenses(ids); !valid {
		return fmt.Errorf("%w: %s", ErrInvalidLicense, strings.Join(invalid, ", "))
	}

	for i, developer := range m.Developers {
		if strings.TrimSpace(developer.Name) == "" {
			return fmt.Errorf("%w: developers[%d].name", ErrMissingField, i)
		}
	}

	return nil
}
